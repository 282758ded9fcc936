package treemap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tablescope/pkg/hierarchy"
)

func leaf(attr, name string, v int) *hierarchy.Node {
	return &hierarchy.Node{Name: name, Attr: attr, Value: v}
}

func group(attr, name string, kids ...*hierarchy.Node) *hierarchy.Node {
	n := &hierarchy.Node{Name: name, Attr: attr, Children: kids}
	for _, k := range kids {
		n.Value += k.Value
	}
	return n
}

func sample() *hierarchy.Node {
	root := group("", hierarchy.RootName,
		group("gender", "M", leaf("outcome", "0", 3), leaf("outcome", "1", 9)),
		group("gender", "F", leaf("outcome", "1", 4), leaf("outcome", "0", 4)),
		group("gender", "X", leaf("outcome", "0", 1)),
	)
	return root
}

func TestComputeRoot(t *testing.T) {
	c := Compute(sample(), Size{Width: 400, Height: 300}, Padding{})
	require.NotNil(t, c)
	assert.Equal(t, Rect{0, 0, 400, 300}, c.Rect)
	assert.Len(t, c.Children, 3)
	assert.Nil(t, Compute(nil, Size{Width: 1, Height: 1}, Padding{}))
}

func TestChildrenSortedByValue(t *testing.T) {
	c := Compute(sample(), Size{Width: 400, Height: 300}, Padding{})
	var names []string
	for _, ch := range c.Children {
		names = append(names, ch.Node.Name)
	}
	assert.Equal(t, []string{"M", "F", "X"}, names)

	// Ties keep first-seen order.
	f := c.Children[1]
	assert.Equal(t, "1", f.Children[0].Node.Name)
	assert.Equal(t, "0", f.Children[1].Node.Name)
}

func TestAreaProportionalAndMonotonic(t *testing.T) {
	for _, tiling := range Tilings {
		t.Run(string(tiling), func(t *testing.T) {
			c := Compute(sample(), Size{Width: 400, Height: 300}, Padding{},
				WithTiling(tiling), WithoutRounding())
			c.Walk(func(x *Cell) bool {
				prev := math.Inf(1)
				for _, ch := range x.Children {
					area := ch.Rect.Area()
					assert.LessOrEqual(t, area, prev+1e-6)
					prev = area
				}
				return true
			})
			for _, l := range c.Leaves() {
				want := 400 * 300 * float64(l.Node.Value) / 21
				assert.InDelta(t, want, l.Rect.Area(), 1e-6, l.Node.Label())
			}
		})
	}
}

func TestCellsStayInsideParent(t *testing.T) {
	c := Compute(sample(), Size{Width: 640, Height: 480}, Padding{Outer: 4, Inner: 2})
	c.Walk(func(x *Cell) bool {
		for _, ch := range x.Children {
			assert.GreaterOrEqual(t, ch.Rect.X0, x.Rect.X0)
			assert.GreaterOrEqual(t, ch.Rect.Y0, x.Rect.Y0)
			assert.LessOrEqual(t, ch.Rect.X1, x.Rect.X1)
			assert.LessOrEqual(t, ch.Rect.Y1, x.Rect.Y1)
		}
		return true
	})
}

func TestOuterPadding(t *testing.T) {
	root := group("", hierarchy.RootName, leaf("a", "only", 1))
	c := Compute(root, Size{Width: 100, Height: 50}, Padding{Outer: 5, Inner: 3})
	assert.Equal(t, Rect{5, 5, 95, 45}, c.Children[0].Rect)
}

func TestInnerPaddingGap(t *testing.T) {
	root := group("", hierarchy.RootName, leaf("a", "x", 1), leaf("a", "y", 1))
	c := Compute(root, Size{Width: 100, Height: 40}, Padding{Inner: 4}, WithTiling(SliceDice))
	x, y := c.Children[0].Rect, c.Children[1].Rect
	assert.Equal(t, 4.0, y.X0-x.X1)
	assert.Equal(t, 0.0, x.X0)
	assert.Equal(t, 100.0, y.X1)
}

func TestRoundedToWholePixels(t *testing.T) {
	c := Compute(sample(), Size{Width: 333, Height: 211}, Padding{Outer: 1.5, Inner: 1})
	c.Walk(func(x *Cell) bool {
		for _, v := range []float64{x.Rect.X0, x.Rect.Y0, x.Rect.X1, x.Rect.Y1} {
			assert.Equal(t, math.Round(v), v)
		}
		return true
	})
}

func TestZeroViewportClamps(t *testing.T) {
	for _, size := range []Size{{0, 0}, {-10, 20}, {3, 3}} {
		c := Compute(sample(), size, Padding{Outer: 10, Inner: 10})
		c.Walk(func(x *Cell) bool {
			assert.GreaterOrEqual(t, x.Rect.Width(), 0.0)
			assert.GreaterOrEqual(t, x.Rect.Height(), 0.0)
			assert.False(t, math.IsNaN(x.Rect.X0))
			return true
		})
	}
}

func TestLeafAt(t *testing.T) {
	c := Compute(sample(), Size{Width: 400, Height: 300}, Padding{})
	for _, l := range c.Leaves() {
		cx := (l.Rect.X0 + l.Rect.X1) / 2
		cy := (l.Rect.Y0 + l.Rect.Y1) / 2
		assert.Same(t, l, c.LeafAt(cx, cy))
	}
	assert.Nil(t, c.LeafAt(-1, -1))
}

func TestAncestors(t *testing.T) {
	c := Compute(sample(), Size{Width: 400, Height: 300}, Padding{})
	l := c.Children[0].Children[0]
	anc := l.Ancestors()
	require.Len(t, anc, 2)
	assert.Same(t, c, anc[0])
	assert.Equal(t, "M", anc[1].Node.Name)
}

func TestComputeDoesNotMutateHierarchy(t *testing.T) {
	root := sample()
	first := root.Children[1].Children[0].Name
	Compute(root, Size{Width: 10, Height: 10}, Padding{})
	assert.Equal(t, first, root.Children[1].Children[0].Name)
	assert.NoError(t, hierarchy.Validate(root))
}
