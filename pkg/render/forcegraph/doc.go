// Package forcegraph renders a co-occurrence graph as a force-directed
// node-link diagram in SVG.
//
// # Encoding
//
//   - Edge stroke width is linear in edge weight, from 2 to 6 px.
//   - Node radius is linear in node value, from 10 to 50 px.
//   - Node fill is one color per distinct name from [palette.Categorical],
//     stable for a given node set.
//   - A legend lists every node name with its color.
//
// Positions come from a [force.Engine]; the native simulation is the
// default. Nodes are kept inside the viewport.
//
// # Interaction
//
// [Renderer.Hover] shows the node name next to the pointer without running
// the layout again. [Renderer.Drag] replays a pointer gesture: the node is
// pinned while dragged, the simulation is reheated on every move, and the
// configured [force.DragPolicy] decides whether the node is released when
// the gesture ends. The embedded script performs the same gesture in a
// browser and reports its end as a "tablescope:dragend" event.
//
// Graphs with no nodes or no edges draw the "No data available" empty
// state.
//
// [palette.Categorical]: github.com/matzehuels/tablescope/pkg/palette
// [force.Engine]: github.com/matzehuels/tablescope/pkg/layout/force
// [force.DragPolicy]: github.com/matzehuels/tablescope/pkg/layout/force
package forcegraph
