package palette

import (
	"fmt"
	"hash/fnv"
	"maps"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tablescope/pkg/errors"
)

// Categorical is the fixed scheme used for attributes and graph nodes.
var Categorical = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

const (
	DefaultFill    = "#d9d9d9"
	NeutralStroke  = "#ffffff"
	SelectedStroke = "#111827"
	darkText       = "#1f2937"
	lightText      = "#ffffff"
)

// Key identifies one (attribute, value) entry.
type Key struct {
	Attr  string
	Value string
}

// Table is a declared color lookup. The zero value is not usable; create
// tables with [NewTable] or [Default].
type Table struct {
	pairs map[Key]string
	attrs map[string]string
	def   string
}

// NewTable returns an empty table whose lookups fall back to def.
func NewTable(def string) *Table {
	return &Table{
		pairs: make(map[Key]string),
		attrs: make(map[string]string),
		def:   def,
	}
}

// Default returns the built-in table. Two-valued attributes common in
// survey and outcome data get contrasting shades.
func Default() *Table {
	t := NewTable(DefaultFill)
	for _, e := range []struct{ attr, value, color string }{
		{"gender", "M", "#4e79a7"},
		{"gender", "F", "#f28e2b"},
		{"sex", "M", "#4e79a7"},
		{"sex", "F", "#f28e2b"},
		{"outcome", "0", "#59a14f"},
		{"outcome", "1", "#e15759"},
		{"status", "active", "#59a14f"},
		{"status", "inactive", "#bab0ac"},
	} {
		t.pairs[Key{e.attr, e.value}] = e.color
	}
	return t
}

// Set declares the color of value under attr.
func (t *Table) Set(attr, value, color string) error {
	if err := errors.ValidateHexColor(color); err != nil {
		return err
	}
	t.pairs[Key{attr, value}] = color
	return nil
}

// SetAttr declares the color used for every value of attr that has no
// entry of its own.
func (t *Table) SetAttr(attr, color string) error {
	if err := errors.ValidateHexColor(color); err != nil {
		return err
	}
	t.attrs[attr] = color
	return nil
}

// Fill returns the color for (attr, value). Undeclared attributes fall
// back to the categorical color keyed by the attribute name; only the
// unattributed root gets the table default.
func (t *Table) Fill(attr, value string) string {
	if c, ok := t.pairs[Key{attr, value}]; ok {
		return c
	}
	if c, ok := t.attrs[attr]; ok {
		return c
	}
	if attr != "" {
		return ForName(attr)
	}
	return t.def
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	return &Table{pairs: maps.Clone(t.pairs), attrs: maps.Clone(t.attrs), def: t.def}
}

// WithDomains returns a copy of t that declares a categorical color for
// every listed value still lacking one. Colors are handed out in sorted
// value order starting at the attribute's own offset, so values of one
// attribute stay distinct up to len(Categorical) and two attributes with
// the same values differ. Attributes with a declared fallback are left
// alone, and t is not modified.
func (t *Table) WithDomains(domains map[string][]string) *Table {
	out := t.Clone()
	for attr, values := range domains {
		if _, ok := t.attrs[attr]; ok {
			continue
		}
		sorted := slices.Compact(slices.Sorted(slices.Values(values)))
		base := nameIndex(attr)
		for i, v := range sorted {
			k := Key{attr, v}
			if _, ok := t.pairs[k]; ok {
				continue
			}
			out.pairs[k] = Categorical[(base+i)%len(Categorical)]
		}
	}
	return out
}

// Default returns the color used when nothing matches.
func (t *Table) Default() string { return t.def }

// Len returns the number of declared entries.
func (t *Table) Len() int { return len(t.pairs) + len(t.attrs) }

// Merge declares a nested attribute → value → color table on t. The value
// key "*" sets the attribute fallback.
func (t *Table) Merge(entries map[string]map[string]string) error {
	for _, attr := range slices.Sorted(maps.Keys(entries)) {
		for _, value := range slices.Sorted(maps.Keys(entries[attr])) {
			color := entries[attr][value]
			var err error
			if value == "*" {
				err = t.SetAttr(attr, color)
			} else {
				err = t.Set(attr, value, color)
			}
			if err != nil {
				return fmt.Errorf("palette %s.%s: %w", attr, value, err)
			}
		}
	}
	return nil
}

// Assign returns one color per distinct name. Names are colored in sorted
// order so the result depends only on the set of names.
func Assign(names []string) map[string]string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := make(map[string]string, len(sorted))
	for i, n := range sorted {
		out[n] = Categorical[i%len(Categorical)]
	}
	return out
}

// ForName returns a color chosen by hashing name.
func ForName(name string) string {
	return Categorical[nameIndex(name)]
}

func nameIndex(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() % uint32(len(Categorical)))
}

// Stroke returns a darker outline shade of fill, used for graph nodes.
func Stroke(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return SelectedStroke
	}
	return c.BlendLab(colorful.Color{}, 0.35).Clamped().Hex()
}

// TextOn returns a label color that stays readable on fill.
func TextOn(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return darkText
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return darkText
	}
	return lightText
}
