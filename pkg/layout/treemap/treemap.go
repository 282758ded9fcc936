package treemap

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
)

// Phi is the golden ratio, the default squarify target aspect ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// Tiling selects the partitioning strategy.
type Tiling string

const (
	Squarify  Tiling = "squarify"
	SliceDice Tiling = "slice-dice"
)

// Tilings lists the supported strategies.
var Tilings = []Tiling{Squarify, SliceDice}

// Option configures [Compute].
type Option func(*config)

type config struct {
	tiling Tiling
	ratio  float64
	round  bool
}

// WithTiling selects the tiling strategy. Unknown values fall back to
// [Squarify].
func WithTiling(t Tiling) Option { return func(c *config) { c.tiling = t } }

// WithRatio sets the squarify target aspect ratio. Values <= 1 are ignored.
func WithRatio(r float64) Option {
	return func(c *config) {
		if r > 1 {
			c.ratio = r
		}
	}
}

// WithoutRounding keeps fractional coordinates.
func WithoutRounding() Option { return func(c *config) { c.round = false } }

// Compute lays root out in a size.Width x size.Height viewport.
// It returns nil when root is nil.
func Compute(root *hierarchy.Node, size Size, pad Padding, opts ...Option) *Cell {
	if root == nil {
		return nil
	}
	cfg := config{tiling: Squarify, ratio: Phi, round: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	w, h := max(0, size.Width), max(0, size.Height)
	outer, inner := max(0, pad.Outer), max(0, pad.Inner)

	rootCell := build(root, nil, 0)
	rootCell.Rect = Rect{X1: w, Y1: h}

	// Siblings are inset by inner/2 on every side, so the gap between two
	// siblings is inner and their parent's content box is widened by the
	// same amount to keep the outer margin exact.
	var position func(c *Cell, inset float64)
	position = func(c *Cell, inset float64) {
		r := Rect{
			X0: c.Rect.X0 + inset, Y0: c.Rect.Y0 + inset,
			X1: c.Rect.X1 - inset, Y1: c.Rect.Y1 - inset,
		}
		c.Rect = r.clamp()
		if c.IsLeaf() {
			return
		}
		half := inner / 2
		content := Rect{
			X0: c.Rect.X0 + outer - half, Y0: c.Rect.Y0 + outer - half,
			X1: c.Rect.X1 - outer + half, Y1: c.Rect.Y1 - outer + half,
		}.clamp()
		cfg.tile(c, content)
		for _, ch := range c.Children {
			position(ch, half)
		}
	}
	position(rootCell, 0)

	if cfg.round {
		rootCell.Walk(func(c *Cell) bool {
			c.Rect = c.Rect.round()
			return true
		})
	}
	return rootCell
}

// build mirrors the hierarchy with children ordered by descending value.
func build(n *hierarchy.Node, parent *Cell, depth int) *Cell {
	c := &Cell{Node: n, Depth: depth, Parent: parent}
	if len(n.Children) == 0 {
		return c
	}
	kids := slices.Clone(n.Children)
	slices.SortStableFunc(kids, func(a, b *hierarchy.Node) int {
		return cmp.Compare(b.Value, a.Value)
	})
	c.Children = make([]*Cell, len(kids))
	for i, k := range kids {
		c.Children[i] = build(k, c, depth+1)
	}
	return c
}

func (cfg config) tile(c *Cell, r Rect) {
	switch cfg.tiling {
	case SliceDice:
		if c.Depth%2 == 1 {
			slice(c.Children, r)
		} else {
			dice(c.Children, r)
		}
	default:
		squarify(c.Children, r, cfg.ratio)
	}
}

func total(cells []*Cell) float64 {
	var s float64
	for _, c := range cells {
		s += value(c)
	}
	return s
}

func value(c *Cell) float64 { return float64(max(0, c.Node.Value)) }

// dice splits r into vertical strips left to right.
func dice(cells []*Cell, r Rect) {
	sum := total(cells)
	k := 0.0
	if sum > 0 {
		k = r.Width() / sum
	}
	x := r.X0
	for _, c := range cells {
		next := x + value(c)*k
		c.Rect = Rect{X0: x, Y0: r.Y0, X1: next, Y1: r.Y1}
		x = next
	}
}

// slice splits r into horizontal bands top to bottom.
func slice(cells []*Cell, r Rect) {
	sum := total(cells)
	k := 0.0
	if sum > 0 {
		k = r.Height() / sum
	}
	y := r.Y0
	for _, c := range cells {
		next := y + value(c)*k
		c.Rect = Rect{X0: r.X0, Y0: y, X1: r.X1, Y1: next}
		y = next
	}
}

// squarify lays cells out in rows, growing each row while its worst aspect
// ratio keeps improving (Bruls, Huizing and van Wijk).
func squarify(cells []*Cell, r Rect, ratio float64) {
	remaining := total(cells)
	dx, dy := r.Width(), r.Height()
	if remaining <= 0 || dx <= 0 || dy <= 0 {
		dice(cells, r)
		return
	}

	x0, y0, x1, y1 := r.X0, r.Y0, r.X1, r.Y1
	n := len(cells)
	for i0 := 0; i0 < n; {
		dx, dy = x1-x0, y1-y0

		i1 := i0
		sum := value(cells[i1])
		i1++
		for sum == 0 && i1 < n {
			sum = value(cells[i1])
			i1++
		}
		minV, maxV := sum, sum

		alpha := max(dy/dx, dx/dy) / (remaining * ratio)
		beta := sum * sum * alpha
		minRatio := max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := value(cells[i1])
			sum += v
			minV, maxV = min(minV, v), max(maxV, v)
			beta = sum * sum * alpha
			worst := max(maxV/beta, beta/minV)
			if worst > minRatio {
				sum -= v
				break
			}
			minRatio = worst
		}

		row := cells[i0:i1]
		if dx < dy {
			ny := y1
			if remaining > 0 {
				ny = y0 + dy*sum/remaining
			}
			dice(row, Rect{X0: x0, Y0: y0, X1: x1, Y1: ny})
			y0 = ny
		} else {
			nx := x1
			if remaining > 0 {
				nx = x0 + dx*sum/remaining
			}
			slice(row, Rect{X0: x0, Y0: y0, X1: nx, Y1: y1})
			x0 = nx
		}
		remaining -= sum
		i0 = i1
	}
}
