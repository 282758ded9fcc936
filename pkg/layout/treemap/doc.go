// Package treemap computes nested rectangle layouts for hierarchies.
//
// [Compute] partitions a viewport recursively so that each cell's area is
// proportional to its node's value. Children are ordered by descending
// value before tiling, with ties kept in first-seen order, so larger groups
// land in the top-left.
//
// # Tiling
//
// [Squarify] (the default) aims for cells whose aspect ratio approaches the
// golden ratio. [SliceDice] alternates horizontal and vertical cuts by
// depth.
//
// # Padding
//
// Padding.Outer insets the children of every group from the group's edge,
// including the root. Padding.Inner separates siblings. All coordinates are
// rounded to whole pixels and extents never go negative; a viewport too
// small for its padding collapses cells to zero size rather than inverting
// them.
package treemap
