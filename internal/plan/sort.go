package plan

import (
	"sort"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// Sort sorts tasks by the given field. Status sorts in board column order,
// not alphabetically; ids sort numerically by their generated suffix.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field)
		if reverse {
			return !less
		}
		return less
	})
}

func compareTasks(a, b *task.Task, field string) bool {
	switch field {
	case "id":
		return idLess(a.ID, b.ID)
	case "status":
		return StatusIndex(a.Status) < StatusIndex(b.Status)
	case "points":
		return a.Points < b.Points
	case "created":
		return a.Created.Before(b.Created)
	case "updated":
		return a.Updated.Before(b.Updated)
	case "due":
		return compareDue(a, b)
	default:
		return idLess(a.ID, b.ID)
	}
}

func compareDue(a, b *task.Task) bool {
	if a.Due == nil && b.Due == nil {
		return false
	}
	if a.Due == nil {
		return false // nil sorts last
	}
	if b.Due == nil {
		return true
	}
	return a.Due.Before(b.Due.Time)
}

// idLess compares generated ids ("T7" < "T12") numerically, falling back to
// plain string comparison for foreign ids.
func idLess(a, b string) bool {
	na, okA := idNumber(a)
	nb, okB := idNumber(b)
	if okA && okB {
		return na < nb
	}
	return a < b
}

func idNumber(id string) (int, bool) {
	trimmed := strings.TrimLeft(id, "Tt")
	if trimmed == id {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return n, true
}

// StatusIndex returns the board column position of a status.
func StatusIndex(status string) int {
	for i, s := range task.Statuses() {
		if s == status {
			return i
		}
	}
	return len(task.Statuses())
}

// ValidSortFields returns the list of valid --sort field names.
func ValidSortFields() []string {
	return []string{"id", "status", "points", "created", "updated", "due"}
}
