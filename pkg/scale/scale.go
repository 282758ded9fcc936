// Package scale maps data values onto pixel ranges.
package scale

import "math"

// Linear maps a domain onto a range, clamping values outside the domain.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a scale from [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// FromValues returns a scale whose domain is the extent of values.
func FromValues(values []float64, r0, r1 float64) Linear {
	lo, hi := Extent(values)
	return NewLinear(lo, hi, r0, r1)
}

// Map returns the range value for v. A degenerate domain maps every value
// to the middle of the range.
func (s Linear) Map(v float64) float64 {
	span := s.d1 - s.d0
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / span
	t = max(0, min(1, t))
	return s.r0 + t*(s.r1-s.r0)
}

// Extent returns the minimum and maximum of values, or 0, 0 when empty.
func Extent(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
