package plan

import (
	"github.com/twiced-technology-gmbh/planwright/internal/graph"
	"github.com/twiced-technology-gmbh/planwright/internal/phase"
	"github.com/twiced-technology-gmbh/planwright/internal/task"
)

// Nodes returns the task ids in read order, the deterministic node order
// handed to the validator.
func Nodes(tasks []*task.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// Edges derives the dependency edge set from task frontmatter, preserving
// task read order and per-task dependency order.
func Edges(tasks []*task.Task) []graph.Edge {
	var edges []graph.Edge
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			edges = append(edges, graph.Edge{From: t.ID, To: dep})
		}
	}
	return edges
}

// ValidateGraph runs the dependency validator over the full task set.
func ValidateGraph(tasks []*task.Task) graph.Result {
	return graph.Validate(Nodes(tasks), Edges(tasks))
}

// Placement orders the task set along the dependency graph. The caller must
// have validated the graph first.
func Placement(tasks []*task.Task) phase.Placement {
	lite := make([]phase.TaskLite, len(tasks))
	for i, t := range tasks {
		lite[i] = phase.TaskLite{
			ID:      t.ID,
			Due:     t.DueTime(),
			Created: t.Created,
		}
	}
	return phase.Place(lite, Edges(tasks))
}
