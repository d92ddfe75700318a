package phase

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/planwright/internal/graph"
)

func mkTime(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func mkDue(day int) *time.Time {
	d := mkTime(day)
	return &d
}

func lite(id string, created int) TaskLite {
	return TaskLite{ID: id, Created: mkTime(created)}
}

func TestPlaceRespectsDependencies(t *testing.T) {
	tasks := []TaskLite{lite("T1", 1), lite("T2", 2), lite("T3", 3), lite("T4", 4)}
	edges := []graph.Edge{
		{From: "T2", To: "T1"},
		{From: "T3", To: "T2"},
		{From: "T4", To: "T2"},
	}

	p := Place(tasks, edges)

	pos := make(map[string]int)
	for i, id := range p.Order() {
		pos[id] = i
	}
	for _, e := range edges {
		if pos[e.From] <= pos[e.To] {
			t.Errorf("task %s placed at %d before its dependency %s at %d",
				e.From, pos[e.From], e.To, pos[e.To])
		}
	}
}

func TestPlaceChainPhases(t *testing.T) {
	// A three-task chain occupies exactly one task per phase.
	tasks := []TaskLite{lite("T1", 1), lite("T2", 2), lite("T3", 3)}
	edges := []graph.Edge{
		{From: "T2", To: "T1"},
		{From: "T3", To: "T2"},
	}

	p := Place(tasks, edges)

	want := map[string]Phase{"T1": Beginning, "T2": Middle, "T3": End}
	for id, wantPhase := range want {
		got, ok := p.PhaseOf(id)
		if !ok {
			t.Fatalf("PhaseOf(%s) not found", id)
		}
		if got != wantPhase {
			t.Errorf("PhaseOf(%s) = %s, want %s", id, got, wantPhase)
		}
	}
}

func TestPlaceTieBreaks(t *testing.T) {
	tests := []struct {
		name  string
		tasks []TaskLite
		want  []string
	}{
		{
			name: "earlier due first",
			tasks: []TaskLite{
				{ID: "T1", Due: mkDue(20), Created: mkTime(1)},
				{ID: "T2", Due: mkDue(10), Created: mkTime(1)},
			},
			want: []string{"T2", "T1"},
		},
		{
			name: "no due date last",
			tasks: []TaskLite{
				{ID: "T1", Created: mkTime(1)},
				{ID: "T2", Due: mkDue(25), Created: mkTime(5)},
			},
			want: []string{"T2", "T1"},
		},
		{
			name: "equal due falls back to created",
			tasks: []TaskLite{
				{ID: "T1", Due: mkDue(10), Created: mkTime(8)},
				{ID: "T2", Due: mkDue(10), Created: mkTime(2)},
			},
			want: []string{"T2", "T1"},
		},
		{
			name: "equal due and created falls back to id",
			tasks: []TaskLite{
				{ID: "T9", Due: mkDue(10), Created: mkTime(1)},
				{ID: "T2", Due: mkDue(10), Created: mkTime(1)},
			},
			want: []string{"T2", "T9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Place(tt.tasks, nil)
			got := p.Order()
			if len(got) != len(tt.want) {
				t.Fatalf("Order() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Order() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPlaceDeterministic(t *testing.T) {
	tasks := []TaskLite{
		{ID: "T3", Created: mkTime(3)},
		{ID: "T1", Created: mkTime(1)},
		{ID: "T5", Due: mkDue(12), Created: mkTime(5)},
		{ID: "T2", Created: mkTime(1)},
		{ID: "T4", Due: mkDue(12), Created: mkTime(4)},
	}
	edges := []graph.Edge{{From: "T3", To: "T1"}}

	first := Place(tasks, edges).Order()
	for i := 0; i < 50; i++ {
		got := Place(tasks, edges).Order()
		for j := range first {
			if got[j] != first[j] {
				t.Fatalf("run %d: order %v differs from first %v", i, got, first)
			}
		}
	}
}

func TestPosition(t *testing.T) {
	tasks := []TaskLite{lite("T1", 1), lite("T2", 2), lite("T3", 3)}
	edges := []graph.Edge{
		{From: "T2", To: "T1"},
		{From: "T3", To: "T2"},
	}

	p := Place(tasks, edges)

	pos, ok := p.Position("T2")
	if !ok {
		t.Fatal("Position(T2) not found")
	}
	if pos.Phase != Middle || pos.Index != 2 || pos.Total != 3 {
		t.Errorf("Position(T2) = %+v, want {middle 2 3}", pos)
	}

	if _, ok := p.Position("T9"); ok {
		t.Error("Position(T9) found, want missing")
	}
}

func TestPhaseForBuckets(t *testing.T) {
	tests := []struct {
		index, total int
		want         Phase
	}{
		{0, 1, Beginning},
		{0, 0, Beginning},
		{0, 2, Beginning},
		{1, 2, End},
		{0, 3, Beginning},
		{1, 3, Middle},
		{2, 3, End},
		{0, 10, Beginning},
		{2, 10, Beginning},
		{3, 10, Middle},
		{5, 10, Middle},
		{6, 10, End},
		{9, 10, End},
	}

	for _, tt := range tests {
		if got := phaseFor(tt.index, tt.total); got != tt.want {
			t.Errorf("phaseFor(%d, %d) = %s, want %s", tt.index, tt.total, got, tt.want)
		}
	}
}

func TestPhasesCoversAllTasks(t *testing.T) {
	tasks := []TaskLite{lite("T1", 1), lite("T2", 2), lite("T3", 3), lite("T4", 4)}
	p := Place(tasks, nil)

	phases := p.Phases()
	if len(phases) != len(tasks) {
		t.Fatalf("Phases() has %d entries, want %d", len(phases), len(tasks))
	}
	for _, task := range tasks {
		if _, ok := phases[task.ID]; !ok {
			t.Errorf("Phases() missing %s", task.ID)
		}
	}
}

func TestPlaceSingleTask(t *testing.T) {
	p := Place([]TaskLite{lite("T1", 1)}, nil)
	got, ok := p.PhaseOf("T1")
	if !ok || got != Beginning {
		t.Errorf("PhaseOf(T1) = %s, %t; want beginning, true", got, ok)
	}
}
