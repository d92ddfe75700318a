package plan

import (
	"testing"

	"github.com/twiced-technology-gmbh/planwright/internal/assign"
	"github.com/twiced-technology-gmbh/planwright/internal/skill"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

func TestBuildAssignInput(t *testing.T) {
	cfg := newTestPlan(t)
	team := &Team{
		Members: []Member{{ID: "alice"}, {ID: "bob"}},
		Overrides: []skill.Level{
			{MemberID: "alice", SkillID: "go", Level: 4},
		},
	}
	global := []skill.Level{
		{MemberID: "alice", SkillID: "go", Level: 1},
		{MemberID: "bob", SkillID: "sql", Level: 3},
	}

	candidate := mkTask("T1", "open work", task.StatusTodo)
	candidate.Points = 3
	candidate.Skills = []task.SkillWeight{{ID: "go", Weight: 2}}

	inFlight := mkTask("T2", "mid flight", task.StatusInProgress)
	inFlight.Assignee = "alice"
	inFlight.Points = 5

	finished := mkTask("T3", "shipped", task.StatusDone)
	finished.Assignee = "alice"
	finished.Points = 8

	blocked := mkTask("T4", "stuck", task.StatusBlocked)

	in := BuildAssignInput(cfg, team, global, []*task.Task{candidate, inFlight, finished, blocked})

	if len(in.Members) != 2 || in.Members[0] != "alice" || in.Members[1] != "bob" {
		t.Errorf("members = %v", in.Members)
	}
	if len(in.Candidates) != 1 || in.Candidates[0].ID != "T1" || in.Candidates[0].Points != 3 {
		t.Errorf("candidates = %+v, want just T1", in.Candidates)
	}
	reqs := in.Requirements["T1"]
	if len(reqs) != 1 || reqs[0].SkillID != "go" || reqs[0].Weight != 2 {
		t.Errorf("requirements = %+v", reqs)
	}

	// Open assigned work counts toward load; done work does not.
	if in.Load["alice"] != 5 {
		t.Errorf("alice load = %d, want 5", in.Load["alice"])
	}
	if in.Load["bob"] != 0 {
		t.Errorf("bob load = %d, want 0", in.Load["bob"])
	}

	// Project override beats the global baseline.
	if in.Levels["alice"]["go"] != 4 {
		t.Errorf("alice go level = %d, want 4", in.Levels["alice"]["go"])
	}
	if in.Levels["bob"]["sql"] != 3 {
		t.Errorf("bob sql level = %d, want 3", in.Levels["bob"]["sql"])
	}
	if in.Levels["bob"]["go"] != 0 {
		t.Errorf("bob go level = %d, want 0", in.Levels["bob"]["go"])
	}
}

func TestApplyAssignments(t *testing.T) {
	t1 := mkTask("T1", "a", task.StatusTodo)
	t2 := mkTask("T2", "b", task.StatusTodo)

	changed := ApplyAssignments([]*task.Task{t1, t2}, []assign.Assignment{
		{TaskID: "T1", MemberID: "alice"},
		{TaskID: "T9", MemberID: "bob"}, // unknown id is skipped
	})

	if len(changed) != 1 || changed[0].ID != "T1" {
		t.Fatalf("changed = %v", taskIDs(changed))
	}
	if t1.Assignee != "alice" {
		t.Errorf("T1 assignee = %q, want alice", t1.Assignee)
	}
	if t2.Assignee != "" {
		t.Errorf("T2 assignee = %q, want empty", t2.Assignee)
	}
}
