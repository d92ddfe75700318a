package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/graph"
	"github.com/twiced-technology-gmbh/planwright/internal/replan"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// ReplanReport describes what a replan run changed (or would change, under
// dry-run).
type ReplanReport struct {
	Updated  []string     `json:"updated"`
	Inserted []string     `json:"inserted"`
	Deleted  []string     `json:"deleted"`
	Graph    graph.Result `json:"graph"`
	DryRun   bool         `json:"dry_run,omitempty"`
}

// ApplyReplan reconciles an incoming full task set against the persisted
// plan and commits the result.
//
// The sequence is the single logical planning write for the project:
// read → reconcile → assign ids → cascade edge cleanup → validate the
// post-replan graph → persist. Callers must hold the plan lock around the
// whole call so two concurrent replans cannot interleave. Nothing is
// written when validation fails or dryRun is set.
func ApplyReplan(cfg *config.Config, team *Team, incoming []replan.TaskInput, now time.Time, dryRun bool) (*ReplanReport, error) {
	// Strict read: a malformed task file must abort a whole-set rewrite,
	// otherwise its task would be classified as deleted.
	existing, err := task.ReadAll(cfg.TasksPath())
	if err != nil {
		return nil, err
	}

	if err := validateIncoming(cfg, team, existing, incoming); err != nil {
		return nil, err
	}

	outcome := replan.Apply(existing, incoming)

	// Generated identifiers for inserts are assigned here, after
	// reconciliation, from the config counter.
	nextID := cfg.NextID
	for i := range outcome.Upserts {
		if outcome.Upserts[i].ID == "" {
			outcome.Upserts[i].ID = config.IDPrefix + strconv.Itoa(nextID)
			nextID++
		}
	}

	final, report := materialize(existing, outcome, now)

	// Cascade: deleted tasks disappear from the submission's dependency
	// lists before validation, so stale references fail loudly only when
	// they point at tasks that never existed.
	StripDeps(final, outcome.DeletedTaskIDs)

	report.Graph = ValidateGraph(final)
	if !report.Graph.OK {
		return nil, GraphError(report.Graph)
	}

	if dryRun {
		report.DryRun = true
		return report, nil
	}

	if err := persistReplan(cfg, existing, final, outcome.DeletedTaskIDs); err != nil {
		return nil, err
	}

	cfg.NextID = nextID
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	for _, id := range report.Inserted {
		LogMutation(cfg.Dir(), "replan-insert", id, "")
	}
	for _, id := range report.Updated {
		LogMutation(cfg.Dir(), "replan-update", id, "")
	}
	for _, id := range report.Deleted {
		LogMutation(cfg.Dir(), "replan-delete", id, "")
	}

	return report, nil
}

// validateIncoming rejects submissions that break the caller contract
// before any reconciliation happens.
func validateIncoming(cfg *config.Config, team *Team, existing []*task.Task, incoming []replan.TaskInput) error {
	existingByID := task.ByID(existing)
	submitted := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		if in.ID != "" {
			if _, ok := existingByID[in.ID]; !ok {
				return clierr.Newf(clierr.TaskNotFound,
					"incoming task references unknown id %s", in.ID).
					WithDetails(map[string]any{"id": in.ID})
			}
			// Each id may appear at most once, otherwise the same task
			// would be upserted twice.
			if submitted[in.ID] {
				return clierr.Newf(clierr.InvalidInput,
					"duplicate task id %s in submission", in.ID).
					WithDetails(map[string]any{"id": in.ID})
			}
			submitted[in.ID] = true
		}
		if in.Title == "" {
			return clierr.New(clierr.InvalidInput, "incoming task is missing a title")
		}
		if err := task.ValidateStatus(in.Status); err != nil {
			return err
		}
		if err := task.ValidatePoints(in.Points); err != nil {
			return err
		}
		for _, sw := range in.Skills {
			if !cfg.HasSkill(sw.ID) {
				return clierr.Newf(clierr.UnknownSkill, "unknown skill %q", sw.ID).
					WithDetails(map[string]any{"skill": sw.ID})
			}
			if err := task.ValidateSkillWeight(sw.ID, sw.Weight); err != nil {
				return err
			}
		}
		if in.Assignee != "" && !team.HasMember(in.Assignee) {
			return clierr.Newf(clierr.UnknownMember, "unknown member %q", in.Assignee).
				WithDetails(map[string]any{"member": in.Assignee})
		}
	}
	return nil
}

// materialize converts reconciliation upserts into the post-replan task
// set, preserving creation timestamps of surviving tasks.
func materialize(existing []*task.Task, outcome replan.Outcome, now time.Time) ([]*task.Task, *ReplanReport) {
	existingByID := task.ByID(existing)
	report := &ReplanReport{
		Updated:  []string{},
		Inserted: []string{},
		Deleted:  append([]string{}, outcome.DeletedTaskIDs...),
	}

	final := make([]*task.Task, 0, len(outcome.Upserts))
	for _, up := range outcome.Upserts {
		t := &task.Task{
			ID:        up.ID,
			Title:     up.Title,
			Body:      up.Body,
			Status:    up.Status,
			Points:    up.Points,
			Due:       up.Due,
			Assignee:  up.Assignee,
			DependsOn: up.DependsOn,
			Skills:    up.Skills,
			Created:   now,
			Updated:   now,
		}
		if prev, ok := existingByID[up.ID]; up.Existing && ok {
			t.Created = prev.Created
			t.File = prev.File
			report.Updated = append(report.Updated, up.ID)
		} else {
			report.Inserted = append(report.Inserted, up.ID)
		}
		final = append(final, t)
	}
	return final, report
}

// persistReplan writes the post-replan task set and removes deleted files.
func persistReplan(cfg *config.Config, existing, final []*task.Task, deletedIDs []string) error {
	for _, t := range final {
		path := t.File
		if path == "" {
			filename := task.GenerateFilename(t.ID, task.GenerateSlug(t.Title))
			path = filepath.Join(cfg.TasksPath(), filename)
			t.File = path
		}
		if err := task.Write(path, t); err != nil {
			return fmt.Errorf("writing task %s: %w", t.ID, err)
		}
	}

	existingByID := task.ByID(existing)
	for _, id := range deletedIDs {
		prev, ok := existingByID[id]
		if !ok || prev.File == "" {
			continue
		}
		if err := os.Remove(prev.File); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting task %s: %w", id, err)
		}
	}
	return nil
}

// GraphError converts a failed validation result into a structured error
// carrying the reason code and offending edge verbatim.
func GraphError(result graph.Result) error {
	details := map[string]any{}
	msg := "dependency graph is invalid"
	if result.Edge != nil {
		details["from"] = result.Edge.From
		details["to"] = result.Edge.To
		msg = fmt.Sprintf("dependency graph is invalid: %s -> %s", result.Edge.From, result.Edge.To)
	}
	return clierr.New(result.Reason, msg).WithDetails(details)
}
