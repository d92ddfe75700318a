// Package plan provides plan-level operations on task collections: listing,
// filtering, summaries, graph derivation, and the orchestration that
// sequences validate → reconcile → persist → assign for a project.
package plan

import (
	"fmt"
	"os"
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/config"
	"github.com/twiced-technology-gmbh/planwright/internal/graph"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List loads all tasks, applies filters and sorting.
// Uses lenient parsing: malformed task files are skipped and returned as warnings.
func List(cfg *config.Config, opts ListOptions) ([]*task.Task, []task.ReadWarning, error) {
	allTasks, warnings, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return nil, nil, err
	}

	// Phase filtering and sorting need a placement, which is only defined
	// for a valid graph. Fall back to no phase data on a broken graph.
	var phases map[string]phase.Phase
	if opts.Filter.Phase != "" {
		if result := ValidateGraph(allTasks); result.OK {
			phases = Placement(allTasks).Phases()
		}
	}

	tasks := Filter(allTasks, opts.Filter, phases)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "id"
	}
	Sort(tasks, sortField, opts.Reverse)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}

	return tasks, warnings, nil
}

// FindDependents returns human-readable messages for tasks that depend on
// the given id. Used to warn before deleting a task.
func FindDependents(tasks []*task.Task, id string) []string {
	var msgs []string
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			if dep == id {
				msgs = append(msgs, fmt.Sprintf("task %s (%s) depends on this task", t.ID, t.Title))
				break
			}
		}
	}
	return msgs
}

// StripDeps removes references to the given task ids from every task's
// dependency and returns the tasks whose dependency lists changed. Used for
// cascading cleanup when tasks are deleted.
func StripDeps(tasks []*task.Task, deletedIDs []string) []*task.Task {
	gone := make(map[string]bool, len(deletedIDs))
	for _, id := range deletedIDs {
		gone[id] = true
	}

	var changed []*task.Task
	for _, t := range tasks {
		kept := t.DependsOn[:0:0]
		for _, dep := range t.DependsOn {
			if !gone[dep] {
				kept = append(kept, dep)
			}
		}
		if len(kept) != len(t.DependsOn) {
			t.DependsOn = kept
			changed = append(changed, t)
		}
	}
	return changed
}

// DeleteTask removes the task file for id and strips the id from every
// remaining task's dependency list, rewriting the tasks that changed.
func DeleteTask(cfg *config.Config, id string) error {
	path, err := task.FindByID(cfg.TasksPath(), id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting task file: %w", err)
	}

	remaining, _, err := task.ReadAllLenient(cfg.TasksPath())
	if err != nil {
		return err
	}
	for _, t := range StripDeps(remaining, []string{id}) {
		if err := task.Write(t.File, t); err != nil {
			return fmt.Errorf("updating dependencies of %s: %w", t.ID, err)
		}
	}
	return nil
}

// StatusSummary holds metrics for a single status column.
type StatusSummary struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Unassigned int    `json:"unassigned"`
	Overdue    int    `json:"overdue"`
}

// PhaseSummary holds metrics for one phase bucket.
type PhaseSummary struct {
	Phase  phase.Phase `json:"phase"`
	Count  int         `json:"count"`
	Points int         `json:"points"`
}

// Overview is the aggregate plan overview.
type Overview struct {
	ProjectName string         `json:"project_name"`
	TotalTasks  int            `json:"total_tasks"`
	Statuses    []StatusSummary `json:"statuses"`
	Phases      []PhaseSummary  `json:"phases,omitempty"`
	Graph       graph.Result    `json:"graph"`
}

// Summary computes a plan summary from all tasks. Phase buckets are only
// populated when the dependency graph validates.
func Summary(cfg *config.Config, tasks []*task.Task, now time.Time) Overview {
	statusMap := make(map[string]*StatusSummary, len(task.Statuses()))
	for _, s := range task.Statuses() {
		statusMap[s] = &StatusSummary{Status: s}
	}

	for _, t := range tasks {
		ss, ok := statusMap[t.Status]
		if !ok {
			continue
		}
		ss.Count++
		if t.Assignee == "" {
			ss.Unassigned++
		}
		if t.Due != nil && t.Due.Before(now) && t.Status != task.StatusDone {
			ss.Overdue++
		}
	}

	statuses := make([]StatusSummary, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		statuses = append(statuses, *statusMap[s])
	}

	overview := Overview{
		ProjectName: cfg.Project.Name,
		TotalTasks:  len(tasks),
		Statuses:    statuses,
		Graph:       ValidateGraph(tasks),
	}

	if overview.Graph.OK {
		overview.Phases = phaseSummaries(tasks)
	}
	return overview
}

func phaseSummaries(tasks []*task.Task) []PhaseSummary {
	phases := Placement(tasks).Phases()

	byPhase := make(map[phase.Phase]*PhaseSummary, len(phase.All()))
	for _, p := range phase.All() {
		byPhase[p] = &PhaseSummary{Phase: p}
	}
	for _, t := range tasks {
		p, ok := phases[t.ID]
		if !ok {
			continue
		}
		byPhase[p].Count++
		byPhase[p].Points += t.Points
	}

	result := make([]PhaseSummary, 0, len(phase.All()))
	for _, p := range phase.All() {
		result = append(result, *byPhase[p])
	}
	return result
}
