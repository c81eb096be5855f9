package graph

import (
	"fmt"
	"sync"
	"time"
)

// Node represents a node in the knowledge graph
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Edge represents a labelled relationship between two nodes
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"` // Source node ID
	Target string `json:"target" yaml:"target"` // Target node ID
	Label  string `json:"label" yaml:"label"`
}

// KnowledgeGraphData is the serializable snapshot of a Graph
type KnowledgeGraphData struct {
	Nodes       []Node    `json:"nodes" yaml:"nodes"`
	Edges       []Edge    `json:"edges" yaml:"edges"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

type edgeKey struct {
	from, to string
}

// Graph is a directed graph keyed by node text. It holds at most one edge
// per ordered (from, to) pair; adding the pair again overwrites the label.
type Graph struct {
	nodes     []string
	nodeIndex map[string]int
	edges     []Edge
	edgeIndex map[edgeKey]int
	mutex     sync.RWMutex
}

// NewGraph creates an empty directed graph
func NewGraph() *Graph {
	return &Graph{
		nodes:     make([]string, 0),
		nodeIndex: make(map[string]int),
		edges:     make([]Edge, 0),
		edgeIndex: make(map[edgeKey]int),
	}
}

// AddNode adds a node if it is not present yet
func (g *Graph) AddNode(name string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.addNode(name)
}

func (g *Graph) addNode(name string) {
	if _, exists := g.nodeIndex[name]; exists {
		return
	}
	g.nodeIndex[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge labelled label, creating missing endpoints.
// It reports whether an existing edge's label was overwritten.
func (g *Graph) AddEdge(from, to, label string) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.addNode(from)
	g.addNode(to)

	key := edgeKey{from: from, to: to}
	if i, exists := g.edgeIndex[key]; exists {
		g.edges[i].Label = label
		return true
	}

	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, Edge{
		ID:     fmt.Sprintf("%s->%s", from, to),
		Source: from,
		Target: to,
		Label:  label,
	})
	return false
}

// EdgeLabel returns the label of the edge from -> to
func (g *Graph) EdgeLabel(from, to string) (string, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	i, exists := g.edgeIndex[edgeKey{from: from, to: to}]
	if !exists {
		return "", false
	}
	return g.edges[i].Label, true
}

// HasNode reports whether name is a node of the graph
func (g *Graph) HasNode(name string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, exists := g.nodeIndex[name]
	return exists
}

// Nodes returns node names in insertion order
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make([]string, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Edges returns the edges in insertion order
func (g *Graph) Edges() []Edge {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Successors returns the targets of edges leaving name
func (g *Graph) Successors(name string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	succ := make([]string, 0)
	for _, edge := range g.edges {
		if edge.Source == name {
			succ = append(succ, edge.Target)
		}
	}
	return succ
}

func (g *Graph) NodeCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.edges)
}

// Data returns a snapshot of the graph for serialization or visualization
func (g *Graph) Data() *KnowledgeGraphData {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	nodes := make([]Node, 0, len(g.nodes))
	for _, name := range g.nodes {
		nodes = append(nodes, Node{ID: name, Label: name})
	}

	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)

	return &KnowledgeGraphData{
		Nodes:       nodes,
		Edges:       edges,
		GeneratedAt: time.Now(),
	}
}
