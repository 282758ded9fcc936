package forcegraph

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/graph"
	"github.com/matzehuels/tablescope/pkg/layout/force"
	"github.com/matzehuels/tablescope/pkg/palette"
	"github.com/matzehuels/tablescope/pkg/render"
	"github.com/matzehuels/tablescope/pkg/scale"
)

// Pixel ranges of the visual encoding.
const (
	MinStroke = 2.0
	MaxStroke = 6.0
	MinRadius = 10.0
	MaxRadius = 50.0
)

const (
	legendRow    = 18.0
	legendSwatch = 6.0
	legendInset  = 12.0
	edgeColor    = "#9ca3af"
)

const graphCSS = `
    .edge { stroke-opacity: 0.6; }
    .node { cursor: grab; }
    .node.dragging { cursor: grabbing; }
    .node circle { stroke-width: 1.5; }
    .legend text { font-family: system-ui, sans-serif; font-size: 12px; fill: #374151; }`

// Options is the per-render input.
type Options struct {
	Viewport render.Viewport
	Margin   render.Margin
	// Engine computes positions. Nil uses the native simulation.
	Engine     force.Engine
	Force      force.Config
	MaxTicks   int
	Seed       int64
	DragPolicy force.DragPolicy
	// OnHover is called with the node name under the pointer.
	OnHover func(name string)
	// OnDragEnd is called with the node name and its final position.
	OnDragEnd func(name string, p force.Point)
	Static    bool
}

// Placed is a node with its encoding and position.
type Placed struct {
	Name   string  `json:"name"`
	Value  int     `json:"value"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Link is an edge with its stroke width.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  int     `json:"value"`
	Width  float64 `json:"width"`
}

// Scene is the positioned graph of the last render.
type Scene struct {
	Nodes []Placed `json:"nodes"`
	Links []Link   `json:"links"`
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithID overrides the generated instance id.
func WithID(id string) Option { return func(r *Renderer) { r.id = id } }

// Renderer draws force-directed graphs. It is safe for concurrent use.
type Renderer struct {
	mu      sync.Mutex
	id      string
	tooltip *render.Tooltip
	opts    Options
	scene   *Scene
	index   map[string]int
	sim     *force.Simulation
	closed  bool
}

// New returns a renderer with a unique instance id.
func New(opts ...Option) *Renderer {
	r := &Renderer{id: render.NewInstanceID("forcegraph")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the instance id used to scope document elements.
func (r *Renderer) ID() string { return r.id }

// Scene returns a copy of the last positioned graph, or nil.
func (r *Renderer) Scene() *Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scene == nil {
		return nil
	}
	s := &Scene{
		Nodes: append([]Placed(nil), r.scene.Nodes...),
		Links: append([]Link(nil), r.scene.Links...),
	}
	return s
}

// Tooltip returns a copy of the tooltip state, or nil before the first
// interactive render and after Close.
func (r *Renderer) Tooltip() *render.Tooltip {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tooltip == nil {
		return nil
	}
	t := *r.tooltip
	return &t
}

// Render lays g out and returns a complete SVG document. Graphs without
// nodes or edges produce the empty state with a nil error.
func (r *Renderer) Render(ctx context.Context, g *graph.Graph, o Options) ([]byte, error) {
	if err := o.Viewport.Validate(); err != nil {
		return nil, err
	}
	if err := o.Margin.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.New(errors.ErrCodeInternal, "graph renderer %s is closed", r.id)
	}
	r.opts = o

	if g.IsEmpty() || g.Validate() != nil {
		r.scene, r.index, r.sim = nil, nil, nil
		return render.EmptyState(o.Viewport, r.id, render.NoData), nil
	}

	scene := encode(g)
	inner := o.Viewport.Inner(o.Margin)
	nodes, links := forceInput(scene, g)
	c := force.Constraints{Width: inner.Width, Height: inner.Height, MaxTicks: o.MaxTicks, Seed: o.Seed}

	engine := o.Engine
	if engine == nil {
		engine = force.Native{Config: o.Force}
	}
	pos, err := engine.Layout(ctx, nodes, links, c)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	// Drag gestures continue from the computed positions.
	c.Initial = pos
	sim, err := force.NewSimulation(nodes, links, c, o.Force)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	sim.SetAlpha(0)

	r.scene, r.sim = scene, sim
	r.index = make(map[string]int, len(scene.Nodes))
	for i, n := range scene.Nodes {
		r.index[n.Name] = i
	}
	r.place(pos)

	if !o.Static && r.tooltip == nil {
		r.tooltip = render.NewTooltip(r.id)
	}
	return r.draw(), nil
}

// encode applies the visual encoding to g.
func encode(g *graph.Graph) *Scene {
	values := make([]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		values[i] = float64(n.Value)
	}
	weights := make([]float64, len(g.Edges))
	for i, e := range g.Edges {
		weights[i] = float64(e.Value)
	}
	radius := scale.FromValues(values, MinRadius, MaxRadius)
	stroke := scale.FromValues(weights, MinStroke, MaxStroke)
	colors := palette.Assign(g.Names())

	s := &Scene{
		Nodes: make([]Placed, len(g.Nodes)),
		Links: make([]Link, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		s.Nodes[i] = Placed{Name: n.Name, Value: n.Value, Radius: radius.Map(values[i]), Color: colors[n.Name]}
	}
	for i, e := range g.Edges {
		s.Links[i] = Link{Source: e.Source, Target: e.Target, Value: e.Value, Width: stroke.Map(weights[i])}
	}
	return s
}

func forceInput(s *Scene, g *graph.Graph) ([]force.Node, []force.Link) {
	idx := g.NodeIndex()
	nodes := make([]force.Node, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = force.Node{ID: n.Name, Radius: n.Radius}
	}
	links := make([]force.Link, len(g.Edges))
	for i, e := range g.Edges {
		links[i] = force.Link{Source: idx[e.Source], Target: idx[e.Target], Weight: float64(e.Value)}
	}
	return nodes, links
}

// place copies positions into the scene, keeping every circle inside the
// drawable area.
func (r *Renderer) place(pos force.Positions) {
	inner := r.opts.Viewport.Inner(r.opts.Margin)
	for i := range r.scene.Nodes {
		n := &r.scene.Nodes[i]
		n.X = clamp(pos[i].X, n.Radius, inner.Width-n.Radius)
		n.Y = clamp(pos[i].Y, n.Radius, inner.Height-n.Radius)
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(hi, v))
}

func (r *Renderer) draw() []byte {
	o := r.opts
	var buf bytes.Buffer
	render.OpenSVG(&buf, o.Viewport, r.id, "forcegraph")
	fmt.Fprintf(&buf, `  <g class="plot" transform="translate(%.1f,%.1f)">`+"\n", o.Margin.Left, o.Margin.Top)

	buf.WriteString("    <g class=\"edges\">\n")
	for _, l := range r.scene.Links {
		a, b := r.scene.Nodes[r.index[l.Source]], r.scene.Nodes[r.index[l.Target]]
		fmt.Fprintf(&buf, `      <line class="edge" data-source="%s" data-target="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			render.EscapeXML(l.Source), render.EscapeXML(l.Target), a.X, a.Y, b.X, b.Y, edgeColor, l.Width)
	}
	buf.WriteString("    </g>\n    <g class=\"nodes\">\n")
	for _, n := range r.scene.Nodes {
		name := render.EscapeXML(n.Name)
		fmt.Fprintf(&buf, `      <g class="node" data-name="%s" data-tip="%s" transform="translate(%.1f,%.1f)">`, name, name, n.X, n.Y)
		fmt.Fprintf(&buf, `<circle r="%.2f" fill="%s" stroke="%s"/></g>`+"\n", n.Radius, n.Color, palette.Stroke(n.Color))
	}
	buf.WriteString("    </g>\n  </g>\n")

	r.drawLegend(&buf)

	if !o.Static {
		r.tooltip.WriteSVG(&buf)
		render.WriteStyleScript(&buf, graphCSS, dragJS(r.id)+render.TooltipJS(r.id, r.tooltip.ID, ".node"))
	}
	render.CloseSVG(&buf)
	return buf.Bytes()
}

func (r *Renderer) drawLegend(buf *bytes.Buffer) {
	x := r.opts.Margin.Left + legendInset
	y := r.opts.Margin.Top + legendInset
	fmt.Fprintf(buf, `  <g class="legend" transform="translate(%.1f,%.1f)">`+"\n", x, y)
	for i, n := range r.scene.Nodes {
		cy := float64(i)*legendRow + legendSwatch
		fmt.Fprintf(buf, `    <g class="legend-item" data-name="%s"><circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/><text x="%.1f" y="%.1f" dominant-baseline="middle">%s</text></g>`+"\n",
			render.EscapeXML(n.Name), legendSwatch, cy, legendSwatch, n.Color, 3*legendSwatch, cy, render.EscapeXML(n.Name))
	}
	buf.WriteString("  </g>\n")
}
