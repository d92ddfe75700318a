// Package replan reconciles a client-submitted full task set against
// persisted state without corrupting in-flight work.
//
// The reconciler is pure and allocation-only: it classifies each submitted
// task as an update or insert, marks every existing task missing from the
// submission for deletion, and merges fields under the assignee-protection
// rule. It performs no I/O and does not enforce graph validity — callers
// must re-run graph.Validate against the post-replan task set before
// committing, and must handle cascading deletes of edges and skill
// requirements that reference deleted tasks.
package replan

import (
	"github.com/twiced-technology-gmbh/planwright/internal/date"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// TaskInput is one entry of an incoming replan submission. An empty ID
// marks a new task created in the client's edit session; the caller
// generates its identifier after reconciliation.
type TaskInput struct {
	ID        string             `yaml:"id,omitempty" json:"id,omitempty"`
	Title     string             `yaml:"title" json:"title"`
	Body      string             `yaml:"body,omitempty" json:"body,omitempty"`
	Status    string             `yaml:"status" json:"status"`
	Points    int                `yaml:"points" json:"points"`
	Due       *date.Date         `yaml:"due,omitempty" json:"due,omitempty"`
	Assignee  string             `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	DependsOn []string           `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Skills    []task.SkillWeight `yaml:"skills,omitempty" json:"skills,omitempty"`
}

// Upsert is one task to write after reconciliation: an existing task with
// merged fields, or a brand-new task awaiting an identifier.
type Upsert struct {
	ID        string             `json:"id,omitempty"` // empty until the caller assigns one
	Existing  bool               `json:"existing"`
	Title     string             `json:"title"`
	Body      string             `json:"body,omitempty"`
	Status    string             `json:"status"`
	Points    int                `json:"points"`
	Due       *date.Date         `json:"due,omitempty"`
	Assignee  string             `json:"assignee,omitempty"`
	DependsOn []string           `json:"depends_on,omitempty"`
	Skills    []task.SkillWeight `json:"skills,omitempty"`
}

// Outcome is the reconciliation result: the full set of tasks to write and
// the disjoint set of existing ids to remove.
type Outcome struct {
	Upserts        []Upsert `json:"upserts"`
	DeletedTaskIDs []string `json:"deleted_task_ids"`
}

// Apply diffs an incoming full task list against the persisted task list.
//
// Every incoming entry becomes an upsert, in submission order. Every
// existing task id absent from the submission lands in DeletedTaskIDs, in
// persisted order. An existing task whose current status is in_progress
// keeps its assignee even if the submission requests a different one;
// every other field, including status, is applied as submitted.
func Apply(existing []*task.Task, incoming []TaskInput) Outcome {
	existingByID := task.ByID(existing)

	upserts := make([]Upsert, 0, len(incoming))
	submitted := make(map[string]bool, len(incoming))

	for _, in := range incoming {
		up := Upsert{
			ID:        in.ID,
			Title:     in.Title,
			Body:      in.Body,
			Status:    in.Status,
			Points:    in.Points,
			Due:       in.Due,
			Assignee:  in.Assignee,
			DependsOn: in.DependsOn,
			Skills:    in.Skills,
		}

		if prev, ok := existingByID[in.ID]; in.ID != "" && ok {
			up.Existing = true
			submitted[in.ID] = true
			// Never silently reassign work that is mid-flight. Status
			// transitions stay allowed; only the assignee is pinned.
			if prev.Status == task.StatusInProgress && in.Assignee != prev.Assignee {
				up.Assignee = prev.Assignee
			}
		}

		upserts = append(upserts, up)
	}

	deleted := make([]string, 0)
	for _, t := range existing {
		if !submitted[t.ID] {
			deleted = append(deleted, t.ID)
		}
	}

	return Outcome{Upserts: upserts, DeletedTaskIDs: deleted}
}
