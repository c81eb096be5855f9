package algorithms

import (
	"context"
	"testing"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a -> b -> d, a -> c -> d, d -> a
func diamond() *graph.Graph {
	g := graph.NewGraph()
	g.AddEdge("a", "b", "x")
	g.AddEdge("a", "c", "x")
	g.AddEdge("b", "d", "y")
	g.AddEdge("c", "d", "y")
	g.AddEdge("d", "a", "z")
	g.AddNode("island")
	return g
}

func TestTraverse(t *testing.T) {
	tests := []struct {
		name  string
		order TraversalType
		depth int
		want  []string
	}{
		{name: "bfs start only", order: BFS, depth: 0, want: []string{"a"}},
		{name: "bfs one hop", order: BFS, depth: 1, want: []string{"a", "b", "c"}},
		{name: "bfs full", order: BFS, depth: 5, want: []string{"a", "b", "c", "d"}},
		{name: "dfs one hop", order: DFS, depth: 1, want: []string{"a", "b", "c"}},
		{name: "dfs full", order: DFS, depth: 5, want: []string{"a", "b", "d", "c"}},
	}

	traversal := NewGraphTraversal(diamond())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := traversal.Traverse(context.Background(), "a", tt.depth, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTraverseErrors(t *testing.T) {
	traversal := NewGraphTraversal(diamond())

	_, err := traversal.Traverse(context.Background(), "nobody", 1, BFS)
	assert.Error(t, err)

	_, err = traversal.Traverse(context.Background(), "a", 1, TraversalType("A*"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = traversal.Traverse(ctx, "a", 1, BFS)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseTraversalType(t *testing.T) {
	for in, want := range map[string]TraversalType{"": BFS, "bfs": BFS, "DFS": DFS} {
		got, err := ParseTraversalType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTraversalType("dijkstra")
	assert.Error(t, err)
}

func TestSubgraph(t *testing.T) {
	sub := Subgraph(diamond(), []string{"d", "a", "b", "missing"})

	assert.Equal(t, []string{"d", "a", "b"}, sub.Nodes())
	assert.Equal(t, []graph.Edge{
		{ID: "a->b", Source: "a", Target: "b", Label: "x"},
		{ID: "b->d", Source: "b", Target: "d", Label: "y"},
		{ID: "d->a", Source: "d", Target: "a", Label: "z"},
	}, sub.Edges())
}
