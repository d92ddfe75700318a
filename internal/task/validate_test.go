package task

import (
	"errors"
	"testing"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
)

func wantClierrCode(t *testing.T, err error, code string) {
	t.Helper()
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) {
		t.Fatalf("error %v is not a clierr.Error", err)
	}
	if cliErr.Code != code {
		t.Errorf("code = %q, want %q", cliErr.Code, code)
	}
}

func TestValidateStatus(t *testing.T) {
	for _, s := range Statuses() {
		if err := ValidateStatus(s); err != nil {
			t.Errorf("ValidateStatus(%q) error: %v", s, err)
		}
	}

	err := ValidateStatus("archived")
	if err == nil {
		t.Fatal("ValidateStatus(archived) succeeded, want error")
	}
	wantClierrCode(t, err, clierr.InvalidStatus)
}

func TestValidatePoints(t *testing.T) {
	for _, p := range ValidPoints {
		if err := ValidatePoints(p); err != nil {
			t.Errorf("ValidatePoints(%d) error: %v", p, err)
		}
	}

	for _, p := range []int{0, 4, 6, 13, -1} {
		err := ValidatePoints(p)
		if err == nil {
			t.Fatalf("ValidatePoints(%d) succeeded, want error", p)
		}
		wantClierrCode(t, err, clierr.InvalidPoints)
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"T1", "t1", "T42", "T100"} {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q) error: %v", id, err)
		}
	}

	for _, id := range []string{"", "1", "T", "X1", "T1a", "T-1"} {
		err := ValidateID(id)
		if err == nil {
			t.Fatalf("ValidateID(%q) succeeded, want error", id)
		}
		wantClierrCode(t, err, clierr.InvalidTaskID)
	}
}

func TestValidateSkillWeight(t *testing.T) {
	for _, w := range []int{1, 3, 5} {
		if err := ValidateSkillWeight("go", w); err != nil {
			t.Errorf("ValidateSkillWeight(go, %d) error: %v", w, err)
		}
	}

	for _, w := range []int{0, 6, -2} {
		err := ValidateSkillWeight("go", w)
		if err == nil {
			t.Fatalf("ValidateSkillWeight(go, %d) succeeded, want error", w)
		}
		wantClierrCode(t, err, clierr.InvalidSkillWeight)
	}
}

func TestIsCandidate(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		assignee string
		want     bool
	}{
		{"todo unassigned", StatusTodo, "", true},
		{"todo assigned", StatusTodo, "alice", false},
		{"blocked unassigned", StatusBlocked, "", false},
		{"in_progress assigned", StatusInProgress, "alice", false},
		{"done unassigned", StatusDone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: tt.status, Assignee: tt.assignee}
			if got := task.IsCandidate(); got != tt.want {
				t.Errorf("IsCandidate() = %t, want %t", got, tt.want)
			}
		})
	}
}
