// Package force computes force-directed node positions.
//
// # Engines
//
// [Engine] is the narrow interface renderers depend on: nodes, links and
// [Constraints] in, [Positions] out. Two implementations exist:
//
//   - [Native]: a velocity-Verlet style [Simulation] with link, charge,
//     centering, vertical bias and collision forces
//   - [Graphviz]: the Graphviz fdp spring model, scaled into the viewport
//
// # Simulation
//
// A [Simulation] advances in discrete ticks. Each tick applies every force
// scaled by the current alpha, integrates velocities with decay, and cools
// alpha toward its target. [Simulation.Run] stops when alpha drops below
// its minimum or the tick budget is spent, and checks its context between
// ticks, so layout always terminates in bounded time.
//
// Link distance is inversely proportional to link weight: heavily
// co-occurring entities sit closer together. Collision keeps circles apart
// by their radius plus a margin.
//
// # Dragging
//
// [Drag] pins a node while a gesture is active and reheats the simulation
// on every move. When the gesture ends the declared [DragPolicy] decides
// whether the node is released ([Release], the default) or stays where it
// was dropped ([KeepPinned]).
//
// Initial positions follow a phyllotaxis spiral around the viewport center,
// and random jitter uses a seeded source, so equal inputs give equal
// layouts.
package force
