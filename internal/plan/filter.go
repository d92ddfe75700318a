package plan

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses        []string
	ExcludeStatuses []string // statuses to exclude from results
	Assignee        string
	Unassigned      bool      // only tasks without an assignee
	Search          string    // case-insensitive substring match across title and body
	Phase           string    // phase bucket name; requires a valid graph
	Overdue         bool      // only tasks past their due date and not done
	Now             time.Time // reference time for the overdue filter
}

// Filter returns tasks matching all specified criteria (AND logic).
// phases may be nil when no phase filter is requested.
func Filter(tasks []*task.Task, opts FilterOptions, phases map[string]phase.Phase) []*task.Task {
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts, phases) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions, phases map[string]phase.Phase) bool {
	if !matchesStatus(t.Status, opts.Statuses, opts.ExcludeStatuses) {
		return false
	}
	if opts.Assignee != "" && t.Assignee != opts.Assignee {
		return false
	}
	if opts.Unassigned && t.Assignee != "" {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	if opts.Phase != "" {
		p, ok := phases[t.ID]
		if !ok || string(p) != opts.Phase {
			return false
		}
	}
	if opts.Overdue {
		if t.Due == nil || t.Status == task.StatusDone || !t.Due.Before(opts.Now) {
			return false
		}
	}
	return true
}

func matchesStatus(status string, include, exclude []string) bool {
	if len(include) > 0 && !containsStr(include, status) {
		return false
	}
	if len(exclude) > 0 && containsStr(exclude, status) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across title and body.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Body), q)
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
