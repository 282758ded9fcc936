// Package layout holds the geometry engines behind the renderers.
//
// Each engine sits behind a narrow interface so the packing or physics can
// be swapped without touching drawing or interaction code:
//
//   - [treemap]: Compute(root, size, padding) returns a positioned tree
//   - [force]: an Engine turns nodes, links and constraints into positions
//
// [treemap]: github.com/matzehuels/tablescope/pkg/layout/treemap
// [force]: github.com/matzehuels/tablescope/pkg/layout/force
package layout
