package plan

import (
	"sort"

	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

const unassignedKey = "(unassigned)"

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string        `json:"key"`
	Total    int           `json:"total"`
	Points   int           `json:"points"`
	Statuses []StatusCount `json:"statuses"`
}

// StatusCount is a per-status task count within a group.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// GroupBy groups tasks by the specified field and returns summaries per
// group. phases may be nil unless grouping by phase.
func GroupBy(tasks []*task.Task, field string, phases map[string]phase.Phase) GroupedSummary {
	groups := make(map[string][]*task.Task)
	for _, t := range tasks {
		key := groupKey(t, field, phases)
		groups[key] = append(groups[key], t)
	}

	sortedKeys := sortGroupKeys(groups, field)

	result := GroupedSummary{Groups: make([]GroupSummary, 0, len(sortedKeys))}
	for _, key := range sortedKeys {
		groupTasks := groups[key]
		summary := GroupSummary{
			Key:      key,
			Total:    len(groupTasks),
			Statuses: statusCounts(groupTasks),
		}
		for _, t := range groupTasks {
			summary.Points += t.Points
		}
		result.Groups = append(result.Groups, summary)
	}
	return result
}

func groupKey(t *task.Task, field string, phases map[string]phase.Phase) string {
	switch field {
	case "assignee":
		if t.Assignee == "" {
			return unassignedKey
		}
		return t.Assignee
	case "phase":
		if p, ok := phases[t.ID]; ok {
			return string(p)
		}
		return "(unplaced)"
	case "status":
		return t.Status
	default:
		return "(all)"
	}
}

func sortGroupKeys(groups map[string][]*task.Task, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case "status":
		sort.SliceStable(keys, func(i, j int) bool {
			return StatusIndex(keys[i]) < StatusIndex(keys[j])
		})
	case "phase":
		sort.SliceStable(keys, func(i, j int) bool {
			return phaseIndex(keys[i]) < phaseIndex(keys[j])
		})
	default:
		sort.Strings(keys)
	}
	return keys
}

func phaseIndex(key string) int {
	for i, p := range phase.All() {
		if string(p) == key {
			return i
		}
	}
	return len(phase.All())
}

func statusCounts(tasks []*task.Task) []StatusCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	result := make([]StatusCount, 0, len(task.Statuses()))
	for _, s := range task.Statuses() {
		result = append(result, StatusCount{Status: s, Count: counts[s]})
	}
	return result
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{"assignee", "phase", "status"}
}
