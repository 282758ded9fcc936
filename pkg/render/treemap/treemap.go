package treemap

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/hierarchy"
	layout "github.com/matzehuels/tablescope/pkg/layout/treemap"
	"github.com/matzehuels/tablescope/pkg/palette"
	"github.com/matzehuels/tablescope/pkg/render"
)

// LabelThreshold is the minimum cell side, in pixels, that gets a label.
const LabelThreshold = 20.0

const (
	neutralStrokeWidth  = 1.0
	selectedStrokeWidth = 3.0
	fontSize            = 12.0
)

const cellCSS = `
    .cell rect { transition: stroke-width 0.15s ease; }
    .cell.leaf { cursor: pointer; }
    .cell.leaf:hover rect { stroke-width: 2; }
    .cell.leaf.selected:hover rect { stroke-width: 3; }
    .cell-label { pointer-events: none; font-family: system-ui, sans-serif; }`

// Options is the per-render input.
type Options struct {
	Viewport render.Viewport
	Margin   render.Margin
	Padding  layout.Padding
	Tiling   layout.Tiling
	// Selection is a leaf path key or a bare leaf name. Empty selects
	// nothing.
	Selection string
	// OnSelect is called with the leaf path key when a leaf is clicked.
	// Leaf names repeat across groups; the key does not.
	OnSelect func(key string)
	// Static omits the tooltip and scripts, for raster export.
	Static bool
}

// Hit describes the leaf under a pointer.
type Hit struct {
	Name  string           `json:"name"`
	Key   string           `json:"key"`
	Path  []hierarchy.Step `json:"path"`
	Value int              `json:"value"`
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithPalette sets the fill lookup table.
func WithPalette(t *palette.Table) Option {
	return func(r *Renderer) {
		if t != nil {
			r.palette = t
		}
	}
}

// WithID overrides the generated instance id.
func WithID(id string) Option { return func(r *Renderer) { r.id = id } }

// Renderer draws treemaps. It is safe for concurrent use.
type Renderer struct {
	mu      sync.Mutex
	id      string
	palette *palette.Table
	tooltip *render.Tooltip
	cells   *layout.Cell
	opts    Options
	closed  bool
}

// New returns a renderer with a unique instance id.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		id:      render.NewInstanceID("treemap"),
		palette: palette.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the instance id used to scope document elements.
func (r *Renderer) ID() string { return r.id }

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

// Layout returns the cells of the last successful render.
func (r *Renderer) Layout() *layout.Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cells
}

// Render lays out root and returns a complete SVG document. Empty or
// inconsistent hierarchies produce the empty state with a nil error;
// invalid geometry is reported as an error.
func (r *Renderer) Render(root *hierarchy.Node, o Options) ([]byte, error) {
	if err := validate(o); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.New(errors.ErrCodeInternal, "treemap renderer %s is closed", r.id)
	}
	r.opts = o

	if root == nil || root.Value <= 0 || hierarchy.Validate(root) != nil {
		r.cells = nil
		return render.EmptyState(o.Viewport, r.id, render.NoData), nil
	}

	inner := o.Viewport.Inner(o.Margin)
	r.cells = layout.Compute(root,
		layout.Size{Width: inner.Width, Height: inner.Height},
		o.Padding, layout.WithTiling(o.Tiling))

	if !o.Static && r.tooltip == nil {
		r.tooltip = render.NewTooltip(r.id)
	}
	return r.draw(o), nil
}

func validate(o Options) error {
	if err := o.Viewport.Validate(); err != nil {
		return err
	}
	if err := o.Margin.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateDimension("outer padding", o.Padding.Outer); err != nil {
		return err
	}
	return errors.ValidateDimension("inner padding", o.Padding.Inner)
}

func (r *Renderer) draw(o Options) []byte {
	var buf bytes.Buffer
	render.OpenSVG(&buf, o.Viewport, r.id, "treemap")
	fmt.Fprintf(&buf, `  <g class="cells" transform="translate(%.1f,%.1f)">`+"\n", o.Margin.Left, o.Margin.Top)
	pal := r.palette.WithDomains(hierarchy.Domains(r.cells.Node))
	r.cells.Walk(func(c *layout.Cell) bool {
		drawCell(&buf, pal, c, o.Selection)
		return true
	})
	buf.WriteString("  </g>\n")

	if !o.Static {
		r.tooltip.WriteSVG(&buf)
		render.WriteStyleScript(&buf, cellCSS, selectJS(r.id)+render.TooltipJS(r.id, r.tooltip.ID, ".cell.leaf"))
	}
	render.CloseSVG(&buf)
	return buf.Bytes()
}

func drawCell(buf *bytes.Buffer, pal *palette.Table, c *layout.Cell, selection string) {
	n := c.Node
	rect := c.Rect
	isRoot := c.Parent == nil

	fill := pal.Fill(n.Attr, n.Name)
	stroke, width := palette.NeutralStroke, neutralStrokeWidth
	classes := []string{"cell", "depth-" + strconv.Itoa(c.Depth)}

	var attrs string
	if c.IsLeaf() && !isRoot {
		classes = append(classes, "leaf")
		hit := hitFor(c)
		if selected(hit, selection) {
			classes = append(classes, "selected")
			stroke, width = palette.SelectedStroke, selectedStrokeWidth
		}
		attrs = fmt.Sprintf(` data-name="%s" data-key="%s" data-tip="%s"`,
			render.EscapeXML(hit.Name), render.EscapeXML(hit.Key), render.EscapeXML(strings.Join(tipLines(hit), "\n")))
	}

	fmt.Fprintf(buf, `    <g class="%s"%s>`+"\n", strings.Join(classes, " "), attrs)
	opacity := ""
	if isRoot {
		opacity = ` opacity="0"`
	}
	fmt.Fprintf(buf, `      <rect x="%.0f" y="%.0f" width="%.0f" height="%.0f" fill="%s" stroke="%s" stroke-width="%.0f"%s/>`+"\n",
		rect.X0, rect.Y0, rect.Width(), rect.Height(), fill, stroke, width, opacity)

	if !isRoot && rect.MinSide() > LabelThreshold {
		drawLabel(buf, c, fill)
	}
	buf.WriteString("    </g>\n")
}

func drawLabel(buf *bytes.Buffer, c *layout.Cell, fill string) {
	rect := c.Rect
	color := palette.TextOn(fill)
	if c.IsLeaf() {
		fmt.Fprintf(buf, `      <text class="cell-label value" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-size="%.0f" fill="%s">%d</text>`+"\n",
			(rect.X0+rect.X1)/2, (rect.Y0+rect.Y1)/2, fontSize, color, c.Node.Value)
		return
	}
	label := truncate(c.Node.Label(), rect.Width()-8)
	fmt.Fprintf(buf, `      <text class="cell-label group" x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
		rect.X0+4, rect.Y0+fontSize+2, fontSize, color, render.EscapeXML(label))
}

// truncate shortens s to fit avail pixels at the label font size.
func truncate(s string, avail float64) string {
	maxChars := int(avail / (fontSize * 0.6))
	if maxChars < 3 {
		maxChars = 3
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars-2]) + ".."
}

func hitFor(c *layout.Cell) Hit {
	var path []hierarchy.Step
	for _, a := range append(c.Ancestors(), c) {
		if a.Parent == nil {
			continue
		}
		path = append(path, hierarchy.Step{Attr: a.Node.Attr, Name: a.Node.Name})
	}
	return Hit{Name: c.Node.Name, Key: hierarchy.PathKey(path), Path: path, Value: c.Node.Value}
}

func selected(h Hit, selection string) bool {
	return selection != "" && (selection == h.Key || selection == h.Name)
}

func tipLines(h Hit) []string {
	lines := make([]string, 0, len(h.Path)+1)
	for _, s := range h.Path {
		lines = append(lines, s.Attr+": "+s.Name)
	}
	return append(lines, "value: "+strconv.Itoa(h.Value))
}
