package force

import (
	"context"
	"math"
	"math/rand"
)

const (
	DefaultTicks         = 300
	DefaultLinkDistance  = 120.0
	DefaultCharge        = -300.0
	DefaultYStrength     = 0.05
	DefaultCollideMargin = 4.0
	DefaultVelocityDecay = 0.4
	DefaultAlphaMin      = 0.001
	// ReheatAlpha is the alpha target while a drag gesture is active.
	ReheatAlpha = 0.3
)

// Config tunes the force model. Zero fields take the defaults above.
type Config struct {
	LinkDistance  float64
	Charge        float64
	YStrength     float64
	CollideMargin float64
	VelocityDecay float64
	AlphaMin      float64
}

func (c Config) withDefaults() Config {
	if c.LinkDistance <= 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.Charge == 0 {
		c.Charge = DefaultCharge
	}
	if c.YStrength <= 0 {
		c.YStrength = DefaultYStrength
	}
	if c.CollideMargin < 0 {
		c.CollideMargin = 0
	} else if c.CollideMargin == 0 {
		c.CollideMargin = DefaultCollideMargin
	}
	if c.VelocityDecay <= 0 || c.VelocityDecay >= 1 {
		c.VelocityDecay = DefaultVelocityDecay
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = DefaultAlphaMin
	}
	return c
}

type body struct {
	x, y   float64
	vx, vy float64
	r      float64
	pinned bool
	px, py float64
}

type spring struct {
	s, t     int
	distance float64
	strength float64
	bias     float64
}

// Simulation is a stepwise force layout. It is not safe for concurrent
// use.
type Simulation struct {
	cfg     Config
	ids     map[string]int
	bodies  []body
	springs []spring
	center  Point
	rng     *rand.Rand

	alpha       float64
	alphaTarget float64
	alphaDecay  float64
	maxTicks    int
	ticks       int
}

// NewSimulation places nodes on a spiral around the viewport center and
// prepares the forces. Links must reference valid node indices.
func NewSimulation(nodes []Node, links []Link, c Constraints, cfg Config) (*Simulation, error) {
	if err := checkLinks(nodes, links); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	maxTicks := c.MaxTicks
	if maxTicks <= 0 {
		maxTicks = DefaultTicks
	}

	s := &Simulation{
		cfg:      cfg,
		ids:      make(map[string]int, len(nodes)),
		bodies:   make([]body, len(nodes)),
		center:   c.Center(),
		rng:      rand.New(rand.NewSource(c.Seed)),
		alpha:    1,
		maxTicks: maxTicks,
		// Cool from 1 to AlphaMin in exactly DefaultTicks steps.
		alphaDecay: 1 - math.Pow(cfg.AlphaMin, 1.0/DefaultTicks),
	}

	golden := math.Pi * (3 - math.Sqrt(5))
	for i, n := range nodes {
		s.ids[n.ID] = i
		rad := 10 * math.Sqrt(0.5+float64(i))
		ang := float64(i) * golden
		s.bodies[i] = body{
			x: s.center.X + rad*math.Cos(ang),
			y: s.center.Y + rad*math.Sin(ang),
			r: max(0, n.Radius),
		}
		if len(c.Initial) == len(nodes) {
			s.bodies[i].x, s.bodies[i].y = c.Initial[i].X, c.Initial[i].Y
		}
		if p, ok := c.Pinned[n.ID]; ok {
			s.pin(i, p)
			s.bodies[i].x, s.bodies[i].y = p.X, p.Y
		}
	}
	s.springs = s.buildSprings(links)
	return s, nil
}

func (s *Simulation) buildSprings(links []Link) []spring {
	degree := make([]int, len(s.bodies))
	for _, l := range links {
		degree[l.Source]++
		degree[l.Target]++
	}
	out := make([]spring, 0, len(links))
	for _, l := range links {
		if l.Source == l.Target {
			continue
		}
		w := l.Weight
		if w <= 0 {
			w = 1
		}
		ds, dt := degree[l.Source], degree[l.Target]
		out = append(out, spring{
			s:        l.Source,
			t:        l.Target,
			distance: max(s.cfg.LinkDistance/w, s.bodies[l.Source].r+s.bodies[l.Target].r),
			strength: 1 / float64(min(ds, dt)),
			bias:     float64(ds) / float64(ds+dt),
		})
	}
	return out
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of steps taken so far.
func (s *Simulation) Ticks() int { return s.ticks }

// Done reports whether the simulation has cooled or spent its budget.
func (s *Simulation) Done() bool {
	return s.ticks >= s.maxTicks || (s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin)
}

// Tick advances the simulation by one step.
func (s *Simulation) Tick() {
	s.ticks++
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.applyLinks()
	s.applyCharge()
	s.applyY()
	s.applyCollide()

	decay := 1 - s.cfg.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.pinned {
			b.x, b.y, b.vx, b.vy = b.px, b.py, 0, 0
			continue
		}
		b.vx *= decay
		b.vy *= decay
		b.x += b.vx
		b.y += b.vy
	}
	s.applyCenter()
}

// Run ticks until [Simulation.Done] or ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick()
	}
	return nil
}

// Positions returns the current node positions.
func (s *Simulation) Positions() Positions {
	out := make(Positions, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = Point{b.x, b.y}
	}
	return out
}

// SetAlpha sets the current temperature. A settled layout restored from
// earlier positions starts at zero.
func (s *Simulation) SetAlpha(a float64) { s.alpha = max(0, a) }

// Reheat raises alpha and grants another full tick budget.
func (s *Simulation) Reheat(alpha float64) {
	s.alpha = max(s.alpha, alpha)
	s.maxTicks = s.ticks + DefaultTicks
}

func (s *Simulation) pin(i int, p Point) {
	b := &s.bodies[i]
	b.pinned, b.px, b.py = true, p.X, p.Y
}

func (s *Simulation) unpin(i int) { s.bodies[i].pinned = false }

func (s *Simulation) jiggle() float64 { return (s.rng.Float64() - 0.5) * 1e-6 }

func (s *Simulation) applyLinks() {
	for _, sp := range s.springs {
		a, b := &s.bodies[sp.s], &s.bodies[sp.t]
		x := b.x + b.vx - a.x - a.vx
		y := b.y + b.vy - a.y - a.vy
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - sp.distance) / l * s.alpha * sp.strength
		x, y = x*l, y*l
		b.vx -= x * sp.bias
		b.vy -= y * sp.bias
		a.vx += x * (1 - sp.bias)
		a.vy += y * (1 - sp.bias)
	}
}

// applyCharge sums pairwise repulsion directly; graphs here are small
// enough that a Barnes-Hut tree does not pay off.
func (s *Simulation) applyCharge() {
	const distanceMin2 = 1.0
	for i := range s.bodies {
		a := &s.bodies[i]
		for j := range s.bodies {
			if i == j {
				continue
			}
			b := &s.bodies[j]
			x, y := b.x-a.x, b.y-a.y
			if x == 0 {
				x = s.jiggle()
			}
			if y == 0 {
				y = s.jiggle()
			}
			l2 := x*x + y*y
			if l2 < distanceMin2 {
				l2 = math.Sqrt(distanceMin2 * l2)
			}
			w := s.cfg.Charge * s.alpha / l2
			a.vx += x * w
			a.vy += y * w
		}
	}
}

func (s *Simulation) applyY() {
	k := s.cfg.YStrength * s.alpha
	for i := range s.bodies {
		b := &s.bodies[i]
		b.vy += (s.center.Y - b.y) * k
	}
}

func (s *Simulation) applyCollide() {
	m := s.cfg.CollideMargin
	for i := range s.bodies {
		a := &s.bodies[i]
		ri := a.r + m
		xi, yi := a.x+a.vx, a.y+a.vy
		for j := i + 1; j < len(s.bodies); j++ {
			b := &s.bodies[j]
			rj := b.r + m
			r := ri + rj
			x := xi - b.x - b.vx
			y := yi - b.y - b.vy
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l
			x, y = x*l, y*l
			share := rj * rj / (ri*ri + rj*rj)
			a.vx += x * share
			a.vy += y * share
			b.vx -= x * (1 - share)
			b.vy -= y * (1 - share)
		}
	}
}

// applyCenter translates free nodes so their mean sits on the viewport
// center.
func (s *Simulation) applyCenter() {
	var sx, sy float64
	n := 0
	for _, b := range s.bodies {
		if b.pinned {
			continue
		}
		sx += b.x
		sy += b.y
		n++
	}
	if n == 0 {
		return
	}
	dx, dy := s.center.X-sx/float64(n), s.center.Y-sy/float64(n)
	for i := range s.bodies {
		if !s.bodies[i].pinned {
			s.bodies[i].x += dx
			s.bodies[i].y += dy
		}
	}
}

// Native is the built-in [Engine].
type Native struct {
	Config Config
}

// Layout runs a fresh simulation to completion.
func (e Native) Layout(ctx context.Context, nodes []Node, links []Link, c Constraints) (Positions, error) {
	sim, err := NewSimulation(nodes, links, c, e.Config)
	if err != nil {
		return nil, err
	}
	if err := sim.Run(ctx); err != nil {
		return nil, err
	}
	return sim.Positions(), nil
}
