// Package treemap renders a hierarchy as nested rectangles in SVG.
//
// A [Renderer] is one visualization instance. It owns its tooltip and the
// last computed layout, and reads the selection from the caller on every
// [Renderer.Render]; it never stores or changes selection itself. Clicking
// a leaf reports the leaf through [Options].OnSelect and the caller decides
// whether to render again with a new selection.
//
// # Encoding
//
//   - Cell area is proportional to the node's record count.
//   - The root rectangle is drawn with opacity 0.
//   - Fill comes from a [palette.Table] keyed by (attribute, value).
//   - The selected leaf gets a dark stroke; every other cell a neutral one.
//   - Labels appear only on cells whose shorter side exceeds 20 px: groups
//     show "attr: name", leaves show their count.
//
// Only leaves are interactive. Hovering a leaf shows the full path of
// "attr: name" pairs plus the count next to the pointer.
//
// # Selection
//
// Options.Selection matches a leaf either by its path key (for example
// "gender=M/outcome=0", see [hierarchy.PathKey]) or by bare name, in which
// case every leaf with that name is highlighted.
//
// Invalid or empty input draws the "No data available" empty state instead
// of failing.
//
// [palette.Table]: github.com/matzehuels/tablescope/pkg/palette
// [hierarchy.PathKey]: github.com/matzehuels/tablescope/pkg/hierarchy
package treemap
