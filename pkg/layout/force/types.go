package force

import (
	"context"
	"fmt"
)

// Point is a position in viewport pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions holds one point per input node, in input order.
type Positions []Point

// Node is a body in the layout.
type Node struct {
	ID     string
	Radius float64
}

// Link connects two nodes by index.
type Link struct {
	Source int
	Target int
	Weight float64
}

// Constraints bound a layout run.
type Constraints struct {
	Width, Height float64
	// MaxTicks caps the number of simulation steps. Zero uses DefaultTicks.
	MaxTicks int
	// Pinned fixes nodes, by ID, at the given positions.
	Pinned map[string]Point
	// Initial, when it has one point per node, replaces the spiral start.
	Initial Positions
	Seed    int64
}

// Center returns the middle of the viewport.
func (c Constraints) Center() Point { return Point{c.Width / 2, c.Height / 2} }

// Engine computes positions for a graph.
type Engine interface {
	Layout(ctx context.Context, nodes []Node, links []Link, c Constraints) (Positions, error)
}

// Engine names accepted by [NewEngine].
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// NewEngine returns the engine registered under name.
func NewEngine(name string, cfg Config) (Engine, error) {
	switch name {
	case "", EngineNative:
		return Native{Config: cfg}, nil
	case EngineGraphviz, "fdp":
		return Graphviz{Margin: cfg.CollideMargin}, nil
	}
	return nil, fmt.Errorf("unknown force engine %q (want %s or %s)", name, EngineNative, EngineGraphviz)
}

func checkLinks(nodes []Node, links []Link) error {
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(nodes) || l.Target < 0 || l.Target >= len(nodes) {
			return fmt.Errorf("link %d-%d out of range for %d nodes", l.Source, l.Target, len(nodes))
		}
	}
	return nil
}
