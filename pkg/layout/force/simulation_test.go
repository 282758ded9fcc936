package force

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() ([]Node, []Link) {
	nodes := []Node{{ID: "a", Radius: 10}, {ID: "b", Radius: 20}, {ID: "c", Radius: 15}, {ID: "d", Radius: 10}}
	links := []Link{{0, 1, 5}, {1, 2, 1}, {0, 2, 1}, {2, 3, 1}}
	return nodes, links
}

var box = Constraints{Width: 600, Height: 400, Seed: 1}

func dist(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func TestSimulationTerminates(t *testing.T) {
	nodes, links := triangle()
	c := box
	c.MaxTicks = 25
	sim, err := NewSimulation(nodes, links, c, Config{})
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))
	assert.Equal(t, 25, sim.Ticks())
	assert.True(t, sim.Done())
}

func TestSimulationCools(t *testing.T) {
	nodes, links := triangle()
	sim, err := NewSimulation(nodes, links, box, Config{})
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))
	assert.LessOrEqual(t, sim.Ticks(), DefaultTicks)
	assert.Less(t, sim.Alpha(), DefaultAlphaMin*1.01)
}

func TestSimulationDeterministic(t *testing.T) {
	nodes, links := triangle()
	a, err := Native{}.Layout(context.Background(), nodes, links, box)
	require.NoError(t, err)
	b, err := Native{}.Layout(context.Background(), nodes, links, box)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulationCancelled(t *testing.T) {
	nodes, links := triangle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Native{}.Layout(ctx, nodes, links, box)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulationCollision(t *testing.T) {
	nodes, links := triangle()
	pos, err := Native{}.Layout(context.Background(), nodes, links, box)
	require.NoError(t, err)
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			min := nodes[i].Radius + nodes[j].Radius
			assert.Greater(t, dist(pos[i], pos[j]), min*0.9, "%s and %s overlap", nodes[i].ID, nodes[j].ID)
		}
	}
}

func TestHeavierLinksAreShorter(t *testing.T) {
	nodes, links := triangle()
	pos, err := Native{}.Layout(context.Background(), nodes, links, box)
	require.NoError(t, err)
	assert.Less(t, dist(pos[0], pos[1]), dist(pos[0], pos[2]))
}

func TestSimulationCentered(t *testing.T) {
	nodes, links := triangle()
	pos, err := Native{}.Layout(context.Background(), nodes, links, box)
	require.NoError(t, err)
	var sx, sy float64
	for _, p := range pos {
		sx += p.X
		sy += p.Y
	}
	assert.InDelta(t, 300, sx/float64(len(pos)), 1)
	assert.InDelta(t, 200, sy/float64(len(pos)), 1)
}

func TestPinnedConstraint(t *testing.T) {
	nodes, links := triangle()
	c := box
	c.Pinned = map[string]Point{"c": {50, 60}}
	pos, err := Native{}.Layout(context.Background(), nodes, links, c)
	require.NoError(t, err)
	assert.Equal(t, Point{50, 60}, pos[2])
}

func TestBadLinks(t *testing.T) {
	nodes, _ := triangle()
	_, err := Native{}.Layout(context.Background(), nodes, []Link{{0, 9, 1}}, box)
	assert.Error(t, err)
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine("", Config{})
	require.NoError(t, err)
	assert.IsType(t, Native{}, e)

	e, err = NewEngine("graphviz", Config{})
	require.NoError(t, err)
	assert.IsType(t, Graphviz{}, e)

	_, err = NewEngine("neato", Config{})
	assert.Error(t, err)
}

func TestInitialPositions(t *testing.T) {
	nodes, links := triangle()
	c := box
	c.Initial = Positions{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	sim, err := NewSimulation(nodes, links, c, Config{})
	require.NoError(t, err)
	assert.Equal(t, c.Initial, sim.Positions())
}
