// Package phase places tasks along their dependency order and buckets them
// into three relative phases for scheduling display.
//
// Placement assumes the edge set has already passed graph.Validate; behavior
// on a cyclic graph is undefined and must not be relied upon.
package phase

import (
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/graph"
)

// Phase is a coarse, position-derived bucket in execution order.
type Phase string

// Phase values, in execution order.
const (
	Beginning Phase = "beginning"
	Middle    Phase = "middle"
	End       Phase = "end"
)

// TaskLite is the minimal task view placement needs.
type TaskLite struct {
	ID      string
	Due     *time.Time
	Created time.Time
}

// Position describes where a single task sits in the placed sequence.
type Position struct {
	Phase Phase `json:"phase"`
	Index int   `json:"index"` // 1-based sequence position
	Total int   `json:"total"`
}

// Placement is the result of ordering tasks along the dependency graph.
type Placement struct {
	order []string
	index map[string]int // id → 0-based position
}

// Place produces a total order consistent with the dependency partial order:
// a task never precedes one of its dependencies. Ties among unordered tasks
// break by ascending due date (no due date last), then ascending creation
// time, then id, so identical input always yields identical output.
func Place(tasks []TaskLite, edges []graph.Edge) Placement {
	byID := make(map[string]TaskLite, len(tasks))
	indegree := make(map[string]int, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		indegree[t.ID] = 0
	}

	// Edge (from depends-on to): to must be placed before from.
	dependents := make(map[string][]string, len(tasks))
	for _, e := range edges {
		indegree[e.From]++
		dependents[e.To] = append(dependents[e.To], e.From)
	}

	ready := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if indegree[t.ID] == 0 {
			ready = append(ready, t.ID)
		}
	}

	order := make([]string, 0, len(tasks))
	for len(ready) > 0 {
		// Pick the minimum ready task under the tie-break comparator.
		best := 0
		for i := 1; i < len(ready); i++ {
			if placeLess(byID[ready[i]], byID[ready[best]]) {
				best = i
			}
		}
		id := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, id)

		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	// Leftover nodes only exist on cyclic input, which callers are required
	// to reject beforehand. Append them in input order so the result is at
	// least total and deterministic.
	if len(order) < len(tasks) {
		placed := make(map[string]bool, len(order))
		for _, id := range order {
			placed[id] = true
		}
		for _, t := range tasks {
			if !placed[t.ID] {
				order = append(order, t.ID)
			}
		}
	}

	index := make(map[string]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	return Placement{order: order, index: index}
}

// placeLess orders ready tasks by (due asc, nil due last), created asc, id asc.
func placeLess(a, b TaskLite) bool {
	switch {
	case a.Due != nil && b.Due == nil:
		return true
	case a.Due == nil && b.Due != nil:
		return false
	case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
		return a.Due.Before(*b.Due)
	}
	if !a.Created.Equal(b.Created) {
		return a.Created.Before(b.Created)
	}
	return a.ID < b.ID
}

// Order returns the placed task ids, dependencies first.
func (p Placement) Order() []string {
	return p.order
}

// PhaseOf returns the phase bucket for a task id.
func (p Placement) PhaseOf(id string) (Phase, bool) {
	i, ok := p.index[id]
	if !ok {
		return "", false
	}
	return phaseFor(i, len(p.order)), true
}

// Position returns the phase, 1-based sequence index, and total count for a
// task id.
func (p Placement) Position(id string) (Position, bool) {
	i, ok := p.index[id]
	if !ok {
		return Position{}, false
	}
	return Position{
		Phase: phaseFor(i, len(p.order)),
		Index: i + 1,
		Total: len(p.order),
	}, true
}

// Phases returns the phase bucket for every placed task.
func (p Placement) Phases() map[string]Phase {
	phases := make(map[string]Phase, len(p.order))
	for i, id := range p.order {
		phases[id] = phaseFor(i, len(p.order))
	}
	return phases
}

// phaseFor buckets a 0-based position into thirds. The label is purely
// positional: ratio = index/(n-1), <1/3 beginning, <2/3 middle, else end.
// A single task defaults to beginning.
func phaseFor(index, total int) Phase {
	if total <= 1 {
		return Beginning
	}
	ratio := float64(index) / float64(total-1)
	switch {
	case ratio < 1.0/3.0:
		return Beginning
	case ratio < 2.0/3.0:
		return Middle
	default:
		return End
	}
}

// All returns the phases in execution order, for column layouts.
func All() []Phase {
	return []Phase{Beginning, Middle, End}
}
