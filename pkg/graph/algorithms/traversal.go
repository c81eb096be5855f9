package algorithms

import (
	"context"
	"fmt"
	"strings"

	"github.com/athapong/kg-extract/pkg/graph"
)

type TraversalType string

const (
	BFS TraversalType = "BFS"
	DFS TraversalType = "DFS"
)

// ParseTraversalType accepts "bfs" or "dfs" in any case; empty means BFS.
func ParseTraversalType(s string) (TraversalType, error) {
	switch t := TraversalType(strings.ToUpper(s)); t {
	case "", BFS:
		return BFS, nil
	case DFS:
		return DFS, nil
	default:
		return "", fmt.Errorf("unsupported traversal type: %s", s)
	}
}

type GraphTraversal struct {
	graph *graph.Graph
}

func NewGraphTraversal(g *graph.Graph) *GraphTraversal {
	return &GraphTraversal{graph: g}
}

// Traverse returns the nodes reachable from startID along edge direction
// within maxDepth hops, in visiting order. startID itself is depth 0.
func (t *GraphTraversal) Traverse(ctx context.Context, startID string, maxDepth int, traversalType TraversalType) ([]string, error) {
	if !t.graph.HasNode(startID) {
		return nil, fmt.Errorf("node %q not found", startID)
	}

	visited := make(map[string]bool)
	result := make([]string, 0)

	switch traversalType {
	case BFS:
		return t.bfs(ctx, startID, maxDepth, visited)
	case DFS:
		return t.dfs(ctx, startID, maxDepth, visited, &result)
	default:
		return nil, fmt.Errorf("unsupported traversal type: %s", traversalType)
	}
}

func (t *GraphTraversal) bfs(ctx context.Context, startID string, maxDepth int, visited map[string]bool) ([]string, error) {
	queue := []string{startID}
	result := make([]string, 0)

	for depth := 0; len(queue) > 0 && depth <= maxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		levelSize := len(queue)
		for i := 0; i < levelSize; i++ {
			current := queue[0]
			queue = queue[1:]

			if visited[current] {
				continue
			}
			visited[current] = true
			result = append(result, current)

			for _, next := range t.graph.Successors(current) {
				if !visited[next] {
					queue = append(queue, next)
				}
			}
		}
	}

	return result, nil
}

func (t *GraphTraversal) dfs(ctx context.Context, currentID string, maxDepth int, visited map[string]bool, result *[]string) ([]string, error) {
	if maxDepth < 0 || visited[currentID] {
		return *result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	visited[currentID] = true
	*result = append(*result, currentID)

	for _, next := range t.graph.Successors(currentID) {
		if !visited[next] {
			if _, err := t.dfs(ctx, next, maxDepth-1, visited, result); err != nil {
				return nil, err
			}
		}
	}

	return *result, nil
}

// Subgraph returns the part of g induced by nodes: those nodes, in the
// order given, and every edge of g between two of them.
func Subgraph(g *graph.Graph, nodes []string) *graph.Graph {
	keep := make(map[string]bool, len(nodes))
	sub := graph.NewGraph()
	for _, name := range nodes {
		if g.HasNode(name) {
			keep[name] = true
			sub.AddNode(name)
		}
	}
	for _, e := range g.Edges() {
		if keep[e.Source] && keep[e.Target] {
			sub.AddEdge(e.Source, e.Target, e.Label)
		}
	}
	return sub
}
