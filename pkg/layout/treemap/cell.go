package treemap

import (
	"math"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
)

// Size is a viewport in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Padding controls spacing around and between cells.
type Padding struct {
	Outer float64 `json:"outer" toml:"outer"`
	Inner float64 `json:"inner" toml:"inner"`
}

// Rect is an axis-aligned rectangle given by its corners.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// MinSide returns the shorter side length.
func (r Rect) MinSide() float64 { return min(r.Width(), r.Height()) }

// Contains reports whether (x, y) lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Cell is a positioned hierarchy node.
type Cell struct {
	Node     *hierarchy.Node `json:"-"`
	Rect     Rect            `json:"rect"`
	Depth    int             `json:"depth"`
	Parent   *Cell           `json:"-"`
	Children []*Cell         `json:"children,omitempty"`
}

// IsLeaf reports whether c has no children.
func (c *Cell) IsLeaf() bool { return len(c.Children) == 0 }

// Walk visits c and its descendants in pre-order. Returning false from fn
// skips the visited cell's children.
func (c *Cell) Walk(fn func(*Cell) bool) {
	if c == nil || !fn(c) {
		return
	}
	for _, ch := range c.Children {
		ch.Walk(fn)
	}
}

// Leaves returns the leaf cells in pre-order, excluding a childless root.
func (c *Cell) Leaves() []*Cell {
	var out []*Cell
	c.Walk(func(x *Cell) bool {
		if x.IsLeaf() && x.Parent != nil {
			out = append(out, x)
		}
		return true
	})
	return out
}

// LeafAt returns the leaf containing (x, y), or nil.
func (c *Cell) LeafAt(x, y float64) *Cell {
	for _, l := range c.Leaves() {
		if l.Rect.Contains(x, y) {
			return l
		}
	}
	return nil
}

// Ancestors returns the cells from the root down to, but excluding, c.
func (c *Cell) Ancestors() []*Cell {
	var out []*Cell
	for p := c.Parent; p != nil; p = p.Parent {
		out = append([]*Cell{p}, out...)
	}
	return out
}

func (r Rect) round() Rect {
	return Rect{
		X0: math.Round(r.X0), Y0: math.Round(r.Y0),
		X1: math.Round(r.X1), Y1: math.Round(r.Y1),
	}
}

// clamp collapses inverted extents to their midpoint.
func (r Rect) clamp() Rect {
	if r.X1 < r.X0 {
		m := (r.X0 + r.X1) / 2
		r.X0, r.X1 = m, m
	}
	if r.Y1 < r.Y0 {
		m := (r.Y0 + r.Y1) / 2
		r.Y0, r.Y1 = m, m
	}
	return r
}
