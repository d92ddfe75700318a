package graph

import (
	"testing"

	"github.com/twiced-technology-gmbh/planwright/internal/clierr"
)

func TestValidateOK(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges []Edge
	}{
		{
			name:  "empty graph",
			nodes: nil,
			edges: nil,
		},
		{
			name:  "nodes without edges",
			nodes: []string{"T1", "T2", "T3"},
			edges: nil,
		},
		{
			name:  "chain",
			nodes: []string{"T1", "T2", "T3"},
			edges: []Edge{{From: "T2", To: "T1"}, {From: "T3", To: "T2"}},
		},
		{
			name:  "diamond",
			nodes: []string{"T1", "T2", "T3", "T4"},
			edges: []Edge{
				{From: "T2", To: "T1"},
				{From: "T3", To: "T1"},
				{From: "T4", To: "T2"},
				{From: "T4", To: "T3"},
			},
		},
		{
			name:  "two disconnected components",
			nodes: []string{"T1", "T2", "T3", "T4"},
			edges: []Edge{{From: "T2", To: "T1"}, {From: "T4", To: "T3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.nodes, tt.edges)
			if !result.OK {
				t.Fatalf("Validate() = %+v, want OK", result)
			}
			if result.Reason != "" || result.Edge != nil {
				t.Errorf("valid result carries failure data: %+v", result)
			}
		})
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []string
		edges      []Edge
		wantReason string
		wantEdge   Edge
	}{
		{
			name:       "unknown from node",
			nodes:      []string{"T1"},
			edges:      []Edge{{From: "T9", To: "T1"}},
			wantReason: clierr.UnknownNode,
			wantEdge:   Edge{From: "T9", To: "T1"},
		},
		{
			name:       "unknown to node",
			nodes:      []string{"T1"},
			edges:      []Edge{{From: "T1", To: "T9"}},
			wantReason: clierr.UnknownNode,
			wantEdge:   Edge{From: "T1", To: "T9"},
		},
		{
			name:       "self dependency",
			nodes:      []string{"T1"},
			edges:      []Edge{{From: "T1", To: "T1"}},
			wantReason: clierr.SelfDependency,
			wantEdge:   Edge{From: "T1", To: "T1"},
		},
		{
			name:  "duplicate edge",
			nodes: []string{"T1", "T2"},
			edges: []Edge{
				{From: "T2", To: "T1"},
				{From: "T2", To: "T1"},
			},
			wantReason: clierr.DuplicateEdge,
			wantEdge:   Edge{From: "T2", To: "T1"},
		},
		{
			name:  "two-node cycle",
			nodes: []string{"T1", "T2"},
			edges: []Edge{
				{From: "T1", To: "T2"},
				{From: "T2", To: "T1"},
			},
			wantReason: clierr.Cycle,
			wantEdge:   Edge{From: "T2", To: "T1"},
		},
		{
			name:  "three-node cycle",
			nodes: []string{"T1", "T2", "T3"},
			edges: []Edge{
				{From: "T1", To: "T2"},
				{From: "T2", To: "T3"},
				{From: "T3", To: "T1"},
			},
			wantReason: clierr.Cycle,
			wantEdge:   Edge{From: "T3", To: "T1"},
		},
		{
			name:  "cycle behind a valid prefix",
			nodes: []string{"T1", "T2", "T3", "T4"},
			edges: []Edge{
				{From: "T2", To: "T1"},
				{From: "T3", To: "T4"},
				{From: "T4", To: "T3"},
			},
			wantReason: clierr.Cycle,
			wantEdge:   Edge{From: "T4", To: "T3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.nodes, tt.edges)
			if result.OK {
				t.Fatalf("Validate() = OK, want failure %s", tt.wantReason)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if result.Edge == nil {
				t.Fatal("Edge = nil, want offending edge")
			}
			if *result.Edge != tt.wantEdge {
				t.Errorf("Edge = %+v, want %+v", *result.Edge, tt.wantEdge)
			}
		})
	}
}

func TestValidateChecksEdgesInOrder(t *testing.T) {
	// A self-dependency listed before an unknown-node edge must be the one
	// reported: per-edge checks walk the edge list in order.
	nodes := []string{"T1", "T2"}
	edges := []Edge{
		{From: "T1", To: "T1"},
		{From: "T2", To: "T9"},
	}

	result := Validate(nodes, edges)
	if result.Reason != clierr.SelfDependency {
		t.Fatalf("Reason = %q, want %q (first listed failure)", result.Reason, clierr.SelfDependency)
	}
}

func TestValidateDeterministic(t *testing.T) {
	nodes := []string{"T1", "T2", "T3", "T4", "T5"}
	edges := []Edge{
		{From: "T2", To: "T1"},
		{From: "T3", To: "T2"},
		{From: "T4", To: "T5"},
		{From: "T5", To: "T3"},
		{From: "T3", To: "T4"}, // closes the T3-T4-T5 cycle
	}

	first := Validate(nodes, edges)
	if first.OK {
		t.Fatal("expected cycle failure")
	}
	for i := 0; i < 50; i++ {
		got := Validate(nodes, edges)
		if got.Reason != first.Reason || *got.Edge != *first.Edge {
			t.Fatalf("run %d: result %+v differs from first %+v", i, got, first)
		}
	}
}

func TestValidateResultDoesNotAliasInput(t *testing.T) {
	edges := []Edge{{From: "T1", To: "T1"}}
	result := Validate([]string{"T1"}, edges)

	edges[0] = Edge{From: "X", To: "Y"}
	if result.Edge.From != "T1" || result.Edge.To != "T1" {
		t.Errorf("result edge mutated with input: %+v", *result.Edge)
	}
}
