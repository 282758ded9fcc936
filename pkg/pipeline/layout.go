package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/tablescope/pkg/graph"
	"github.com/matzehuels/tablescope/pkg/hierarchy"
	"github.com/matzehuels/tablescope/pkg/layout/force"
	layout "github.com/matzehuels/tablescope/pkg/layout/treemap"
	"github.com/matzehuels/tablescope/pkg/palette"
	"github.com/matzehuels/tablescope/pkg/render"
	"github.com/matzehuels/tablescope/pkg/render/forcegraph"
	"github.com/matzehuels/tablescope/pkg/render/treemap"
)

// =============================================================================
// Layout Export
// =============================================================================

// Layout is the positioned geometry of a drawn visualization. Positions
// are relative to the viewport's inner area (inside the margin).
type Layout struct {
	Viz      string              `json:"viz"`
	Viewport render.Viewport     `json:"viewport"`
	Margin   render.Margin       `json:"margin"`
	Cells    []Cell              `json:"cells,omitempty"`
	Nodes    []forcegraph.Placed `json:"nodes,omitempty"`
	Links    []forcegraph.Link   `json:"links,omitempty"`

	// Empty holds the empty-state message when nothing was drawn.
	Empty string `json:"empty,omitempty"`
}

// Cell is one positioned treemap rectangle.
type Cell struct {
	Key   string  `json:"key"`
	Attr  string  `json:"attr,omitempty"`
	Name  string  `json:"name"`
	Value int     `json:"value"`
	Depth int     `json:"depth"`
	Leaf  bool    `json:"leaf"`
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
}

// MarshalLayout serializes l as indented JSON.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout parses a serialized layout.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	return &l, nil
}

func exportCells(root *layout.Cell) []Cell {
	if root == nil {
		return nil
	}
	var out []Cell
	keys := map[*layout.Cell]string{}
	root.Walk(func(c *layout.Cell) bool {
		key := ""
		if c.Parent != nil && c.Node != nil {
			step := hierarchy.PathKey([]hierarchy.Step{{Attr: c.Node.Attr, Name: c.Node.Name}})
			if pk := keys[c.Parent]; pk != "" {
				key = pk + "/" + step
			} else {
				key = step
			}
		}
		keys[c] = key
		out = append(out, Cell{
			Key:   key,
			Attr:  c.Node.Attr,
			Name:  c.Node.Name,
			Value: c.Node.Value,
			Depth: c.Depth,
			Leaf:  c.IsLeaf(),
			X0:    c.Rect.X0,
			Y0:    c.Rect.Y0,
			X1:    c.Rect.X1,
			Y1:    c.Rect.Y1,
		})
		return true
	})
	return out
}

// =============================================================================
// Drawing
// =============================================================================

// DrawTreemap lays out root and draws it. A nil root draws the empty
// state. Static documents carry no tooltip or scripts.
func DrawTreemap(root *hierarchy.Node, opts Options, static bool) ([]byte, *Layout, error) {
	pal := palette.Default()
	if err := pal.Merge(opts.Palette); err != nil {
		return nil, nil, err
	}
	r := treemap.New(treemap.WithPalette(pal))
	defer r.Close()

	svg, err := r.Render(root, treemap.Options{
		Viewport:  opts.Viewport,
		Margin:    opts.Margin,
		Padding:   opts.Padding,
		Tiling:    layout.Tiling(opts.Tiling),
		Selection: opts.Selection,
		Static:    static,
	})
	if err != nil {
		return nil, nil, err
	}

	l := &Layout{Viz: VizTreemap, Viewport: opts.Viewport, Margin: opts.Margin}
	if cells := r.Layout(); cells != nil {
		l.Cells = exportCells(cells)
	} else {
		l.Empty = render.NoData
	}
	return svg, l, nil
}

// DrawGraph runs the configured force engine over g and draws it. A nil
// graph draws the empty state.
func DrawGraph(ctx context.Context, g *graph.Graph, opts Options, static bool) ([]byte, *Layout, error) {
	r, svg, err := GraphRenderer(ctx, g, opts, static)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return svg, GraphLayout(r, opts), nil
}

// GraphRenderer is DrawGraph that hands back the renderer, whose settled
// simulation stays live for later drags. The caller closes it.
func GraphRenderer(ctx context.Context, g *graph.Graph, opts Options, static bool) (*forcegraph.Renderer, []byte, error) {
	engine, err := force.NewEngine(opts.Engine, opts.Force)
	if err != nil {
		return nil, nil, err
	}
	policy, err := force.ParseDragPolicy(opts.DragPolicy)
	if err != nil {
		return nil, nil, err
	}
	r := forcegraph.New()
	svg, err := r.Render(ctx, g, forcegraph.Options{
		Viewport:   opts.Viewport,
		Margin:     opts.Margin,
		Engine:     engine,
		Force:      opts.Force,
		MaxTicks:   opts.MaxTicks,
		Seed:       opts.Seed,
		DragPolicy: policy,
		Static:     static,
	})
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, svg, nil
}

// GraphLayout exports the current scene of r.
func GraphLayout(r *forcegraph.Renderer, opts Options) *Layout {
	l := &Layout{Viz: VizGraph, Viewport: opts.Viewport, Margin: opts.Margin}
	if s := r.Scene(); s != nil {
		l.Nodes, l.Links = s.Nodes, s.Links
	} else {
		l.Empty = render.NoData
	}
	return l
}
