package force

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settled(t *testing.T) *Simulation {
	t.Helper()
	nodes, links := triangle()
	sim, err := NewSimulation(nodes, links, box, Config{})
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))
	return sim
}

func TestDragPinsAndReheats(t *testing.T) {
	sim := settled(t)
	d := NewDrag(sim, Release)

	require.NoError(t, d.Begin("a"))
	assert.Greater(t, sim.Alpha(), DefaultAlphaMin)
	assert.False(t, sim.Done())

	target := Point{X: 100, Y: 100}
	require.NoError(t, d.Move("a", target))
	assert.Equal(t, target, sim.Positions()[0])
}

func TestDragRelease(t *testing.T) {
	sim := settled(t)
	d := NewDrag(sim, Release)
	require.NoError(t, d.Begin("a"))
	require.NoError(t, d.Move("a", Point{X: 20, Y: 20}))
	require.NoError(t, d.End("a"))
	require.NoError(t, sim.Run(context.Background()))

	assert.NotEqual(t, Point{X: 20, Y: 20}, sim.Positions()[0])
}

func TestDragKeepPinned(t *testing.T) {
	sim := settled(t)
	d := NewDrag(sim, KeepPinned)
	require.NoError(t, d.Begin("b"))
	require.NoError(t, d.Move("b", Point{X: 20, Y: 20}))
	require.NoError(t, d.End("b"))
	require.NoError(t, sim.Run(context.Background()))

	assert.Equal(t, Point{X: 20, Y: 20}, sim.Positions()[1])
}

func TestDragErrors(t *testing.T) {
	d := NewDrag(settled(t), "")
	assert.Equal(t, Release, d.Policy())
	assert.Error(t, d.Begin("nope"))
	assert.Error(t, d.Move("a", Point{}))
	assert.Error(t, d.End("a"))
}

func TestParseDragPolicy(t *testing.T) {
	p, err := ParseDragPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Release, p)

	p, err = ParseDragPolicy("keep")
	require.NoError(t, err)
	assert.Equal(t, KeepPinned, p)

	_, err = ParseDragPolicy("sticky")
	assert.Error(t, err)
}
