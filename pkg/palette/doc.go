// Package palette maps categories to fill colors.
//
// Treemap cells are colored by a declared lookup [Table] keyed by
// (attribute, value). Lookups fall back from the exact pair to the
// attribute's own color and finally to the table default, so the mapping
// is data-driven and testable without rendering anything:
//
//	t := palette.NewTable(palette.DefaultFill)
//	t.SetAttr("gender", "#4e79a7")
//	t.Set("outcome", "0", "#59a14f")
//	t.Set("outcome", "1", "#e15759")
//	t.Fill("outcome", "1") // "#e15759"
//
// Graph nodes use [Assign], which gives each distinct name one color from
// the [Categorical] scheme. The assignment depends only on the set of names,
// so re-rendering the same node set keeps every color.
//
// [Stroke] and [TextOn] derive outline and label colors from a fill using
// perceptual (CIE Lab) blending.
package palette
