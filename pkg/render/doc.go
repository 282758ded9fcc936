// Package render provides the shared pieces of the SVG renderers.
//
// # Overview
//
// The visualizations live in subpackages:
//
//   - [treemap]: nested rectangles for a hierarchy, with selection
//   - [forcegraph]: circles and lines for a co-occurrence graph, with drag
//
// This package holds what both share: viewport geometry, the owned
// [Tooltip] element, the "No data available" empty state, XML escaping,
// a standalone HTML wrapper and conversion of SVG to other formats.
//
// # Tooltips
//
// Each renderer instance owns exactly one tooltip, identified by a unique
// instance id so several visualizations can share a page. The tooltip is
// created on the first interactive render and removed when the renderer is
// closed; it is never attached to shared page state.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg, err := r.Render(root, opts)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [treemap]: github.com/matzehuels/tablescope/pkg/render/treemap
// [forcegraph]: github.com/matzehuels/tablescope/pkg/render/forcegraph
package render
