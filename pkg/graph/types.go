package graph

import (
	"fmt"
)

// Node is a distinct entity value.
type Node struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Edge is an undirected, weighted co-occurrence. Source < Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// Graph is a node set plus a weighted edge set.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// PairKey is the order-independent identity of an edge.
type PairKey struct{ A, B string }

// Pair returns the canonical key for the unordered pair (a, b).
func Pair(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Key returns the canonical pair key of e.
func (e Edge) Key() PairKey { return Pair(e.Source, e.Target) }

// NodeIndex returns a name → position map.
func (g *Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.Name] = i
	}
	return idx
}

// Names returns node names in graph order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Name
	}
	return out
}

// IsEmpty reports whether g has nothing to draw.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0 || len(g.Edges) == 0
}

// Validate checks the structural invariants: unique node names, edges
// referencing existing nodes, no self loops, and no two edges over the same
// unordered pair.
func (g *Graph) Validate() error {
	idx := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Name == "" {
			return fmt.Errorf("node with empty name")
		}
		if idx[n.Name] {
			return fmt.Errorf("duplicate node %q", n.Name)
		}
		idx[n.Name] = true
	}

	seen := make(map[PairKey]bool, len(g.Edges))
	for _, e := range g.Edges {
		if !idx[e.Source] || !idx[e.Target] {
			return fmt.Errorf("edge %s-%s references unknown node", e.Source, e.Target)
		}
		if e.Source == e.Target {
			return fmt.Errorf("self loop on %q", e.Source)
		}
		k := e.Key()
		if seen[k] {
			return fmt.Errorf("duplicate edge %s-%s", k.A, k.B)
		}
		seen[k] = true
	}
	return nil
}
