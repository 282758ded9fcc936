package force

import "fmt"

// DragPolicy decides what happens to a node when its drag gesture ends.
type DragPolicy string

const (
	// Release unpins the node so the simulation moves it again.
	Release DragPolicy = "release"
	// KeepPinned leaves the node fixed where it was dropped.
	KeepPinned DragPolicy = "keep"
)

// ParseDragPolicy maps a config string to a policy. Empty selects Release.
func ParseDragPolicy(s string) (DragPolicy, error) {
	switch DragPolicy(s) {
	case "", Release:
		return Release, nil
	case KeepPinned:
		return KeepPinned, nil
	}
	return "", fmt.Errorf("unknown drag policy %q (want %s or %s)", s, Release, KeepPinned)
}

// Drag drives pointer gestures against a running simulation.
type Drag struct {
	sim    *Simulation
	policy DragPolicy
	active map[int]bool
}

// NewDrag returns a gesture controller for sim.
func NewDrag(sim *Simulation, policy DragPolicy) *Drag {
	if policy == "" {
		policy = Release
	}
	return &Drag{sim: sim, policy: policy, active: make(map[int]bool)}
}

// Policy returns the declared end-of-gesture behavior.
func (d *Drag) Policy() DragPolicy { return d.policy }

func (d *Drag) index(id string) (int, error) {
	i, ok := d.sim.ids[id]
	if !ok {
		return 0, fmt.Errorf("unknown node %q", id)
	}
	return i, nil
}

// Begin pins id at its current position and warms the simulation.
func (d *Drag) Begin(id string) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	b := d.sim.bodies[i]
	d.sim.pin(i, Point{b.x, b.y})
	d.active[i] = true
	d.sim.alphaTarget = ReheatAlpha
	d.sim.Reheat(ReheatAlpha)
	return nil
}

// Move relocates the pin of an active gesture and advances the simulation
// by one tick.
func (d *Drag) Move(id string, p Point) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	if !d.active[i] {
		return fmt.Errorf("node %q is not being dragged", id)
	}
	d.sim.pin(i, p)
	d.sim.Tick()
	return nil
}

// End finishes the gesture on id and applies the drag policy.
func (d *Drag) End(id string) error {
	i, err := d.index(id)
	if err != nil {
		return err
	}
	if !d.active[i] {
		return fmt.Errorf("node %q is not being dragged", id)
	}
	delete(d.active, i)
	if d.policy == Release {
		d.sim.unpin(i)
	}
	if len(d.active) == 0 {
		d.sim.alphaTarget = 0
	}
	return nil
}
