package plan

import (
	"os"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/replan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

var replanNow = time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)

func testTeam() *Team {
	return &Team{Members: []Member{{ID: "alice"}, {ID: "bob"}}}
}

func TestApplyReplanInsertsAssignIDs(t *testing.T) {
	cfg := newTestPlan(t)

	incoming := []replan.TaskInput{
		{Title: "First task", Status: task.StatusTodo, Points: 2},
		{Title: "Second task", Status: task.StatusTodo, Points: 3},
	}

	report, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false)
	if err != nil {
		t.Fatalf("ApplyReplan() error: %v", err)
	}

	if len(report.Inserted) != 2 || report.Inserted[0] != "T1" || report.Inserted[1] != "T2" {
		t.Errorf("inserted = %v, want [T1 T2]", report.Inserted)
	}
	if len(report.Updated) != 0 || len(report.Deleted) != 0 {
		t.Errorf("updated/deleted = %v/%v, want empty", report.Updated, report.Deleted)
	}

	for _, id := range []string{"T1", "T2"} {
		if _, err := task.FindByID(cfg.TasksPath(), id); err != nil {
			t.Errorf("task %s not persisted: %v", id, err)
		}
	}

	// The id counter advance is committed to disk.
	reloaded, err := config.Load(cfg.Dir())
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}
	if reloaded.NextID != 3 {
		t.Errorf("NextID = %d, want 3", reloaded.NextID)
	}
}

func TestApplyReplanUpdateAndDeleteCascade(t *testing.T) {
	cfg := newTestPlan(t)
	cfg.NextID = 3

	t1 := mkTask("T1", "Old title", task.StatusTodo)
	t2 := mkTask("T2", "Doomed task", task.StatusTodo)
	writeTask(t, cfg, t1)
	writeTask(t, cfg, t2)

	// T2 is absent from the submission; T1's stale edge to it must be
	// stripped before the post-replan graph is validated.
	incoming := []replan.TaskInput{
		{ID: "T1", Title: "New title", Status: task.StatusTodo, Points: 5, DependsOn: []string{"T2"}},
	}

	report, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false)
	if err != nil {
		t.Fatalf("ApplyReplan() error: %v", err)
	}

	if len(report.Updated) != 1 || report.Updated[0] != "T1" {
		t.Errorf("updated = %v, want [T1]", report.Updated)
	}
	if len(report.Deleted) != 1 || report.Deleted[0] != "T2" {
		t.Errorf("deleted = %v, want [T2]", report.Deleted)
	}

	got, err := task.Read(t1.File)
	if err != nil {
		t.Fatalf("re-reading T1: %v", err)
	}
	if got.Title != "New title" || got.Points != 5 {
		t.Errorf("T1 = %+v, want updated title and points", got)
	}
	if len(got.DependsOn) != 0 {
		t.Errorf("T1 deps = %v, want cascade-stripped", got.DependsOn)
	}
	if !got.Created.Equal(t1.Created) {
		t.Errorf("T1 created = %v, want preserved %v", got.Created, t1.Created)
	}

	if _, err := os.Stat(t2.File); !os.IsNotExist(err) {
		t.Errorf("deleted task file %s still exists", t2.File)
	}
}

func TestApplyReplanDryRunWritesNothing(t *testing.T) {
	cfg := newTestPlan(t)
	cfg.NextID = 2

	t1 := mkTask("T1", "Old title", task.StatusTodo)
	writeTask(t, cfg, t1)

	incoming := []replan.TaskInput{
		{ID: "T1", Title: "New title", Status: task.StatusTodo, Points: 2},
		{Title: "Brand new", Status: task.StatusTodo, Points: 1},
	}

	report, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, true)
	if err != nil {
		t.Fatalf("ApplyReplan() error: %v", err)
	}

	if !report.DryRun {
		t.Error("report.DryRun = false")
	}
	if len(report.Inserted) != 1 || report.Inserted[0] != "T2" {
		t.Errorf("inserted = %v, want [T2]", report.Inserted)
	}

	got, err := task.Read(t1.File)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Old title" {
		t.Errorf("T1 title = %q, dry run must not write", got.Title)
	}
	if _, err := task.FindByID(cfg.TasksPath(), "T2"); err == nil {
		t.Error("T2 was persisted during a dry run")
	}

	reloaded, err := config.Load(cfg.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.NextID != 1 {
		t.Errorf("NextID on disk = %d, want untouched 1", reloaded.NextID)
	}
}

func TestApplyReplanInvalidGraphAborts(t *testing.T) {
	cfg := newTestPlan(t)

	t1 := mkTask("T1", "first", task.StatusTodo)
	t2 := mkTask("T2", "second", task.StatusTodo)
	writeTask(t, cfg, t1)
	writeTask(t, cfg, t2)

	incoming := []replan.TaskInput{
		{ID: "T1", Title: "first", Status: task.StatusTodo, Points: 2, DependsOn: []string{"T2"}},
		{ID: "T2", Title: "second but cyclic", Status: task.StatusTodo, Points: 2, DependsOn: []string{"T1"}},
	}

	if _, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false); err == nil {
		t.Fatal("ApplyReplan() succeeded on a cyclic submission, want error")
	}

	got, err := task.Read(t2.File)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "second" {
		t.Errorf("T2 title = %q, failed replan must not write", got.Title)
	}
}

func TestApplyReplanRejectsUnknownID(t *testing.T) {
	cfg := newTestPlan(t)

	incoming := []replan.TaskInput{
		{ID: "T9", Title: "ghost", Status: task.StatusTodo, Points: 1},
	}
	if _, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false); err == nil {
		t.Error("ApplyReplan() accepted an unknown task id")
	}
}

func TestApplyReplanRejectsDuplicateIDs(t *testing.T) {
	cfg := newTestPlan(t)
	cfg.NextID = 2

	t1 := mkTask("T1", "once", task.StatusTodo)
	writeTask(t, cfg, t1)

	incoming := []replan.TaskInput{
		{ID: "T1", Title: "first copy", Status: task.StatusTodo, Points: 1},
		{ID: "T1", Title: "second copy", Status: task.StatusTodo, Points: 2},
	}
	if _, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false); err == nil {
		t.Fatal("ApplyReplan() accepted a duplicate task id")
	}

	got, err := task.Read(t1.File)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "once" {
		t.Errorf("T1 title = %q, rejected replan must not write", got.Title)
	}
}

func TestApplyReplanRejectsUnknownMember(t *testing.T) {
	cfg := newTestPlan(t)

	incoming := []replan.TaskInput{
		{Title: "task", Status: task.StatusTodo, Points: 1, Assignee: "carol"},
	}
	if _, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false); err == nil {
		t.Error("ApplyReplan() accepted an unknown assignee")
	}
}

func TestApplyReplanRejectsUnknownSkill(t *testing.T) {
	cfg := newTestPlan(t)

	incoming := []replan.TaskInput{
		{Title: "task", Status: task.StatusTodo, Points: 1,
			Skills: []task.SkillWeight{{ID: "rust", Weight: 3}}},
	}
	if _, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false); err == nil {
		t.Error("ApplyReplan() accepted an undeclared skill")
	}
}

func TestApplyReplanPinsInProgressAssignee(t *testing.T) {
	cfg := newTestPlan(t)
	cfg.NextID = 2

	t1 := mkTask("T1", "mid flight", task.StatusInProgress)
	t1.Assignee = "alice"
	writeTask(t, cfg, t1)

	incoming := []replan.TaskInput{
		{ID: "T1", Title: "mid flight", Status: task.StatusInProgress, Points: 2, Assignee: "bob"},
	}

	if _, err := ApplyReplan(cfg, testTeam(), incoming, replanNow, false); err != nil {
		t.Fatalf("ApplyReplan() error: %v", err)
	}

	got, err := task.Read(t1.File)
	if err != nil {
		t.Fatal(err)
	}
	if got.Assignee != "alice" {
		t.Errorf("assignee = %q, want pinned alice", got.Assignee)
	}
}
