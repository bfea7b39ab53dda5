package graph

import (
	"fmt"
	"sort"
)

// Edge is a directed dependency: From directly requires To.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Graph is a simple directed graph of package names. Nodes are identified
// by name; each node maps to the set of its direct dependencies. Parallel
// edges are collapsed, self-loops are allowed.
//
// Graph is not safe for concurrent mutation; a single build owns it
// exclusively. Read-only access after the build is safe from multiple
// goroutines.
type Graph struct {
	succ map[string]map[string]struct{}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{succ: make(map[string]map[string]struct{})}
}

// AddNode ensures name is present in the node set.
// Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.succ[name]; !ok {
		g.succ[name] = make(map[string]struct{})
	}
}

// AddEdge ensures both endpoints exist and records the edge from → to.
// Adding an existing edge is a no-op.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.succ[from][to] = struct{}{}
}

// HasNode reports whether name is in the node set.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.succ[name]
	return ok
}

// HasEdge reports whether the edge from → to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.succ[from][to]
	return ok
}

// Successors returns the direct dependencies of name in ascending order.
// Unknown and leaf nodes both yield an empty slice.
func (g *Graph) Successors(name string) []string {
	set := g.succ[name]
	out := make([]string, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// Nodes returns all node names in ascending order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.succ))
	for name := range g.succ {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Edges returns all edges sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for from, set := range g.succ {
		for to := range set {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.succ) }

// EdgeCount returns the total number of edges (sum of successor-set sizes).
func (g *Graph) EdgeCount() int {
	n := 0
	for _, set := range g.succ {
		n += len(set)
	}
	return n
}

// Validate checks that every edge endpoint exists in the node set.
// AddEdge maintains this invariant; Validate guards graphs reconstructed
// from external data.
func (g *Graph) Validate() error {
	for from, set := range g.succ {
		for to := range set {
			if _, ok := g.succ[to]; !ok {
				return fmt.Errorf("edge %s → %s: target node missing", from, to)
			}
		}
	}
	return nil
}

// FromLists rebuilds a Graph from flat node and edge lists, as produced by
// Nodes and Edges. Edges referencing unknown nodes are rejected rather than
// silently inserting their endpoints.
func FromLists(nodes []string, edges []Edge) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		if n == "" {
			return nil, fmt.Errorf("empty node name")
		}
		g.AddNode(n)
	}
	for _, e := range edges {
		if !g.HasNode(e.From) {
			return nil, fmt.Errorf("edge %s → %s: unknown source node", e.From, e.To)
		}
		if !g.HasNode(e.To) {
			return nil, fmt.Errorf("edge %s → %s: unknown target node", e.From, e.To)
		}
		g.AddEdge(e.From, e.To)
	}
	return g, nil
}
