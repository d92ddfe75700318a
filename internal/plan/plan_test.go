package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/date"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/skill"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

func mkTask(id, title, status string) *task.Task {
	created := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	return &task.Task{
		ID:      id,
		Title:   title,
		Status:  status,
		Points:  2,
		Created: created,
		Updated: created,
	}
}

// newTestPlan creates a plan directory with a saved config and an empty
// tasks directory under t.TempDir.
func newTestPlan(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefault("demo")
	cfg.SetDir(t.TempDir())
	cfg.Skills = []skill.Skill{{ID: "go", Name: "Go"}, {ID: "sql", Name: "SQL"}}
	if err := os.MkdirAll(cfg.TasksPath(), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

// writeTask persists a task into the plan's tasks directory and records the
// file path on the task, the way the read path would.
func writeTask(t *testing.T, cfg *config.Config, tk *task.Task) {
	t.Helper()
	name := task.GenerateFilename(tk.ID, task.GenerateSlug(tk.Title))
	path := filepath.Join(cfg.TasksPath(), name)
	if err := task.Write(path, tk); err != nil {
		t.Fatalf("writing task %s: %v", tk.ID, err)
	}
	tk.File = path
}

func taskIDs(tasks []*task.Task) []string {
	ids := make([]string, len(tasks))
	for i, tk := range tasks {
		ids[i] = tk.ID
	}
	return ids
}

func TestFilter(t *testing.T) {
	due := date.New(2026, time.May, 1)
	overdue := mkTask("T3", "Overdue migration", task.StatusTodo)
	overdue.Due = &due

	assigned := mkTask("T2", "Review billing code", task.StatusInProgress)
	assigned.Assignee = "alice"
	assigned.Body = "needs the billing docs"

	done := mkTask("T4", "Shipped thing", task.StatusDone)
	done.Due = &due

	tasks := []*task.Task{
		mkTask("T1", "Fix auth bug", task.StatusTodo),
		assigned,
		overdue,
		done,
	}
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"no filter", FilterOptions{}, []string{"T1", "T2", "T3", "T4"}},
		{"status", FilterOptions{Statuses: []string{task.StatusTodo}}, []string{"T1", "T3"}},
		{"exclude status", FilterOptions{ExcludeStatuses: []string{task.StatusDone}}, []string{"T1", "T2", "T3"}},
		{"assignee", FilterOptions{Assignee: "alice"}, []string{"T2"}},
		{"unassigned", FilterOptions{Unassigned: true}, []string{"T1", "T3", "T4"}},
		{"search title", FilterOptions{Search: "AUTH"}, []string{"T1"}},
		{"search body", FilterOptions{Search: "billing docs"}, []string{"T2"}},
		{"overdue skips done", FilterOptions{Overdue: true, Now: now}, []string{"T3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskIDs(Filter(tasks, tt.opts, nil))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterByPhase(t *testing.T) {
	tasks := []*task.Task{
		mkTask("T1", "first", task.StatusTodo),
		mkTask("T2", "second", task.StatusTodo),
	}
	phases := map[string]phase.Phase{
		"T1": phase.Beginning,
		"T2": phase.End,
	}

	got := taskIDs(Filter(tasks, FilterOptions{Phase: string(phase.End)}, phases))
	if len(got) != 1 || got[0] != "T2" {
		t.Errorf("phase filter = %v, want [T2]", got)
	}

	// Without phase data nothing matches.
	got = taskIDs(Filter(tasks, FilterOptions{Phase: string(phase.End)}, nil))
	if len(got) != 0 {
		t.Errorf("phase filter without placement = %v, want empty", got)
	}
}

func TestSortByID(t *testing.T) {
	tasks := []*task.Task{
		mkTask("T12", "a", task.StatusTodo),
		mkTask("T7", "b", task.StatusTodo),
		mkTask("T100", "c", task.StatusTodo),
	}
	Sort(tasks, "id", false)
	want := []string{"T7", "T12", "T100"}
	for i, id := range taskIDs(tasks) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", taskIDs(tasks), want)
		}
	}
}

func TestSortByStatusBoardOrder(t *testing.T) {
	tasks := []*task.Task{
		mkTask("T1", "a", task.StatusDone),
		mkTask("T2", "b", task.StatusBlocked),
		mkTask("T3", "c", task.StatusInProgress),
		mkTask("T4", "d", task.StatusTodo),
	}
	Sort(tasks, "status", false)
	want := []string{"T4", "T3", "T2", "T1"}
	for i, id := range taskIDs(tasks) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", taskIDs(tasks), want)
		}
	}
}

func TestSortByDueNilLast(t *testing.T) {
	early := date.New(2026, time.March, 1)
	late := date.New(2026, time.September, 1)

	noDue := mkTask("T1", "a", task.StatusTodo)
	lateTask := mkTask("T2", "b", task.StatusTodo)
	lateTask.Due = &late
	earlyTask := mkTask("T3", "c", task.StatusTodo)
	earlyTask.Due = &early

	tasks := []*task.Task{noDue, lateTask, earlyTask}
	Sort(tasks, "due", false)
	want := []string{"T3", "T2", "T1"}
	for i, id := range taskIDs(tasks) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", taskIDs(tasks), want)
		}
	}
}

func TestSortReverse(t *testing.T) {
	tasks := []*task.Task{
		mkTask("T1", "a", task.StatusTodo),
		mkTask("T3", "b", task.StatusTodo),
		mkTask("T2", "c", task.StatusTodo),
	}
	Sort(tasks, "id", true)
	want := []string{"T3", "T2", "T1"}
	for i, id := range taskIDs(tasks) {
		if id != want[i] {
			t.Fatalf("order = %v, want %v", taskIDs(tasks), want)
		}
	}
}

func TestEdgesAndValidateGraph(t *testing.T) {
	t2 := mkTask("T2", "b", task.StatusTodo)
	t2.DependsOn = []string{"T1"}
	t3 := mkTask("T3", "c", task.StatusTodo)
	t3.DependsOn = []string{"T1", "T2"}
	tasks := []*task.Task{mkTask("T1", "a", task.StatusTodo), t2, t3}

	edges := Edges(tasks)
	if len(edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(edges))
	}
	if edges[0].From != "T2" || edges[0].To != "T1" {
		t.Errorf("edges[0] = %+v, want T2 -> T1", edges[0])
	}
	if edges[2].From != "T3" || edges[2].To != "T2" {
		t.Errorf("edges[2] = %+v, want T3 -> T2", edges[2])
	}

	if result := ValidateGraph(tasks); !result.OK {
		t.Errorf("ValidateGraph = %+v, want OK", result)
	}

	// Point T1 back at T3 and the set no longer validates.
	tasks[0].DependsOn = []string{"T3"}
	if result := ValidateGraph(tasks); result.OK {
		t.Error("ValidateGraph accepted a cycle")
	}
}

func TestStripDeps(t *testing.T) {
	t1 := mkTask("T1", "a", task.StatusTodo)
	t1.DependsOn = []string{"T2", "T3"}
	t2 := mkTask("T2", "b", task.StatusTodo)
	t2.DependsOn = []string{"T3"}
	t4 := mkTask("T4", "d", task.StatusTodo)

	changed := StripDeps([]*task.Task{t1, t2, t4}, []string{"T3"})

	if len(changed) != 2 {
		t.Fatalf("got %d changed tasks, want 2", len(changed))
	}
	if len(t1.DependsOn) != 1 || t1.DependsOn[0] != "T2" {
		t.Errorf("T1 deps = %v, want [T2]", t1.DependsOn)
	}
	if len(t2.DependsOn) != 0 {
		t.Errorf("T2 deps = %v, want empty", t2.DependsOn)
	}
	if len(t4.DependsOn) != 0 {
		t.Errorf("T4 deps = %v, want empty", t4.DependsOn)
	}
}

func TestFindDependents(t *testing.T) {
	t2 := mkTask("T2", "Fix login", task.StatusTodo)
	t2.DependsOn = []string{"T1"}
	tasks := []*task.Task{mkTask("T1", "a", task.StatusTodo), t2}

	msgs := FindDependents(tasks, "T1")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0] != "task T2 (Fix login) depends on this task" {
		t.Errorf("message = %q", msgs[0])
	}

	if msgs := FindDependents(tasks, "T2"); len(msgs) != 0 {
		t.Errorf("T2 dependents = %v, want none", msgs)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	cfg := newTestPlan(t)

	t1 := mkTask("T1", "base work", task.StatusTodo)
	t2 := mkTask("T2", "follow up", task.StatusTodo)
	t2.DependsOn = []string{"T1"}
	writeTask(t, cfg, t1)
	writeTask(t, cfg, t2)

	if err := DeleteTask(cfg, "T1"); err != nil {
		t.Fatalf("DeleteTask() error: %v", err)
	}

	if _, err := os.Stat(t1.File); !os.IsNotExist(err) {
		t.Errorf("task file %s still exists", t1.File)
	}

	got, err := task.Read(t2.File)
	if err != nil {
		t.Fatalf("re-reading T2: %v", err)
	}
	if len(got.DependsOn) != 0 {
		t.Errorf("T2 deps = %v, want empty after cascade", got.DependsOn)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	cfg := newTestPlan(t)
	if err := DeleteTask(cfg, "T9"); err == nil {
		t.Error("DeleteTask(T9) succeeded, want not-found error")
	}
}

func TestSummary(t *testing.T) {
	cfg := newTestPlan(t)
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	past := date.New(2026, time.May, 1)

	t1 := mkTask("T1", "a", task.StatusTodo)
	t1.Due = &past
	t2 := mkTask("T2", "b", task.StatusInProgress)
	t2.Assignee = "alice"
	t3 := mkTask("T3", "c", task.StatusDone)
	t3.Due = &past
	tasks := []*task.Task{t1, t2, t3}

	got := Summary(cfg, tasks, now)

	if got.ProjectName != "demo" || got.TotalTasks != 3 {
		t.Errorf("header = %q/%d, want demo/3", got.ProjectName, got.TotalTasks)
	}
	if !got.Graph.OK {
		t.Fatalf("graph = %+v, want OK", got.Graph)
	}

	byStatus := make(map[string]StatusSummary)
	for _, s := range got.Statuses {
		byStatus[s.Status] = s
	}
	if s := byStatus[task.StatusTodo]; s.Count != 1 || s.Unassigned != 1 || s.Overdue != 1 {
		t.Errorf("todo summary = %+v", s)
	}
	// Done tasks past their due date do not count as overdue.
	if s := byStatus[task.StatusDone]; s.Count != 1 || s.Overdue != 0 {
		t.Errorf("done summary = %+v", s)
	}

	var phaseTotal int
	for _, p := range got.Phases {
		phaseTotal += p.Count
	}
	if phaseTotal != 3 {
		t.Errorf("phase buckets cover %d tasks, want 3", phaseTotal)
	}
}

func TestSummarySkipsPhasesOnBrokenGraph(t *testing.T) {
	cfg := newTestPlan(t)

	t1 := mkTask("T1", "a", task.StatusTodo)
	t1.DependsOn = []string{"T1"}
	got := Summary(cfg, []*task.Task{t1}, time.Now())

	if got.Graph.OK {
		t.Fatal("graph validated despite self-dependency")
	}
	if len(got.Phases) != 0 {
		t.Errorf("phases = %v, want none on a broken graph", got.Phases)
	}
}

func TestGroupByAssignee(t *testing.T) {
	t1 := mkTask("T1", "a", task.StatusTodo)
	t2 := mkTask("T2", "b", task.StatusDone)
	t2.Assignee = "alice"
	t3 := mkTask("T3", "c", task.StatusTodo)
	t3.Assignee = "alice"
	t3.Points = 5

	got := GroupBy([]*task.Task{t1, t2, t3}, "assignee", nil)
	if len(got.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(got.Groups))
	}
	// Keys sort alphabetically, "(unassigned)" before "alice".
	if got.Groups[0].Key != unassignedKey || got.Groups[1].Key != "alice" {
		t.Errorf("keys = [%s %s]", got.Groups[0].Key, got.Groups[1].Key)
	}
	alice := got.Groups[1]
	if alice.Total != 2 || alice.Points != 7 {
		t.Errorf("alice group = %+v, want total 2 points 7", alice)
	}
}

func TestGroupByStatusOrder(t *testing.T) {
	got := GroupBy([]*task.Task{
		mkTask("T1", "a", task.StatusDone),
		mkTask("T2", "b", task.StatusTodo),
	}, "status", nil)

	if len(got.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(got.Groups))
	}
	// Board column order, not alphabetical.
	if got.Groups[0].Key != task.StatusTodo || got.Groups[1].Key != task.StatusDone {
		t.Errorf("keys = [%s %s], want [todo done]", got.Groups[0].Key, got.Groups[1].Key)
	}
}

func TestGroupByPhase(t *testing.T) {
	phases := map[string]phase.Phase{
		"T1": phase.Beginning,
		"T2": phase.End,
	}
	got := GroupBy([]*task.Task{
		mkTask("T2", "b", task.StatusTodo),
		mkTask("T1", "a", task.StatusTodo),
	}, "phase", phases)

	if len(got.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(got.Groups))
	}
	if got.Groups[0].Key != string(phase.Beginning) || got.Groups[1].Key != string(phase.End) {
		t.Errorf("keys = [%s %s], want phase order", got.Groups[0].Key, got.Groups[1].Key)
	}
}

func TestList(t *testing.T) {
	cfg := newTestPlan(t)
	t1 := mkTask("T1", "Fix auth bug", task.StatusTodo)
	t2 := mkTask("T2", "Write docs", task.StatusDone)
	writeTask(t, cfg, t1)
	writeTask(t, cfg, t2)

	tasks, warnings, err := List(cfg, ListOptions{
		Filter: FilterOptions{Statuses: []string{task.StatusTodo}},
	})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(tasks) != 1 || tasks[0].ID != "T1" {
		t.Errorf("tasks = %v, want just T1", taskIDs(tasks))
	}
}
