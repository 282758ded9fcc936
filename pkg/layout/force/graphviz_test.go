package force

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphvizDOT(t *testing.T) {
	nodes, links := triangle()
	c := box
	c.Pinned = map[string]Point{"a": {72, 400}}
	dot := Graphviz{Margin: 4}.toDOT(nodes, links, c)

	assert.True(t, strings.HasPrefix(dot, "graph G {"))
	assert.Contains(t, dot, `n0 [width=0.389, pos="1.00,0.00!"]`)
	assert.Contains(t, dot, "n0 -- n1 [len=0.333, weight=5]")
	assert.Contains(t, dot, "maxiter=300")
}

func TestParsePositions(t *testing.T) {
	dot := []byte(`graph G {
	graph [bb="0,0,200,100"];
	n0	[pos="10.5,20",
		width=0.5];
	n1	[height=0.5,
		pos="110,80!"];
	n0 -- n1	[pos="10,20 110,80"];
}`)
	pos, err := parsePositions(dot, 2)
	require.NoError(t, err)
	assert.Equal(t, Positions{{10.5, -20}, {110, -80}}, pos)

	_, err = parsePositions(dot, 3)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	nodes := []Node{{ID: "a", Radius: 10}, {ID: "b", Radius: 10}}
	raw := Positions{{0, 0}, {100, 50}}
	pos := fit(raw, nodes, Constraints{Width: 220, Height: 220})

	assert.InDelta(t, 10, pos[0].X, 1e-9)
	assert.InDelta(t, 210, pos[1].X, 1e-9)
	assert.InDelta(t, 110, (pos[0].Y+pos[1].Y)/2, 1e-9)
}

func TestGraphvizLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping graphviz layout in short mode")
	}
	nodes, links := triangle()
	pos, err := Graphviz{Margin: 4}.Layout(context.Background(), nodes, links, box)
	require.NoError(t, err)
	require.Len(t, pos, len(nodes))
	for _, p := range pos {
		assert.GreaterOrEqual(t, p.X, -1e-6)
		assert.LessOrEqual(t, p.X, box.Width+1e-6)
		assert.GreaterOrEqual(t, p.Y, -1e-6)
		assert.LessOrEqual(t, p.Y, box.Height+1e-6)
	}
}
