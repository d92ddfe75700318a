package plan

import (
	"github.com/twiced-technology-gmbh/planwright/internal/assign"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/skill"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// BuildAssignInput materializes the matcher input from persisted state:
// candidate tasks (status todo, unassigned), each member's effective skill
// levels, per-task requirements, and pre-existing difficulty-point loads.
func BuildAssignInput(cfg *config.Config, team *Team, globalLevels []skill.Level, tasks []*task.Task) assign.Input {
	in := assign.Input{
		Members:      team.MemberIDs(),
		Levels:       make(map[string]map[string]int, len(team.Members)),
		Requirements: make(map[string][]assign.Requirement),
		Load:         make(map[string]int, len(team.Members)),
	}

	skillIDs := cfg.SkillIDs()
	for _, m := range in.Members {
		in.Levels[m] = skill.EffectiveLevels(m, skillIDs, globalLevels, team.Overrides)
		in.Load[m] = 0
	}

	for _, t := range tasks {
		if t.IsCandidate() {
			in.Candidates = append(in.Candidates, assign.Candidate{
				ID:     t.ID,
				Points: t.Points,
				Due:    t.DueTime(),
			})
			for _, sw := range t.Skills {
				in.Requirements[t.ID] = append(in.Requirements[t.ID],
					assign.Requirement{SkillID: sw.ID, Weight: sw.Weight})
			}
			continue
		}

		// Open assigned work counts toward the member's existing load so
		// one run balances against what is already on their plate.
		if t.Assignee != "" && t.Status != task.StatusDone {
			in.Load[t.Assignee] += t.Points
		}
	}

	return in
}

// ApplyAssignments sets assignees from matcher output on the in-memory
// tasks and returns the ones it changed. Persisting the returned tasks and
// stamping their updated timestamp is the caller's job.
func ApplyAssignments(tasks []*task.Task, assignments []assign.Assignment) []*task.Task {
	byID := task.ByID(tasks)

	var changed []*task.Task
	for _, a := range assignments {
		t, ok := byID[a.TaskID]
		if !ok {
			continue
		}
		t.Assignee = a.MemberID
		changed = append(changed, t)
	}
	return changed
}
