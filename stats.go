package fractview

import (
	"math"

	"github.com/searles/fractview/orbit"
)

// Range tracks the extent of the finite values added to it.
type Range struct {
	Min, Max float64
	N        int
}

// Add extends r by v. Non-finite values are ignored.
func (r *Range) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if r.N == 0 {
		r.Min, r.Max = v, v
	} else {
		r.Min = min(r.Min, v)
		r.Max = max(r.Max, v)
	}
	r.N++
}

// Merge extends r by every value of o.
func (r *Range) Merge(o Range) {
	if o.N == 0 {
		return
	}
	if r.N == 0 {
		*r = o
		return
	}
	r.Min = min(r.Min, o.Min)
	r.Max = max(r.Max, o.Max)
	r.N += o.N
}

// Normalize maps v linearly so that Min is 0 and Max is 1. It reports
// false when r holds fewer than two distinct values.
func (r Range) Normalize(v float64) (float64, bool) {
	if r.N == 0 || !(r.Max > r.Min) {
		return 0, false
	}
	return (v - r.Min) / (r.Max - r.Min), true
}

// Stats holds the value ranges of one render, per orbit kind. The
// renderer collects them per worker and merges them between passes.
type Stats struct {
	Bailout Range
	Lake    Range
}

// Add records the value of an orbit of the given kind.
func (s *Stats) Add(kind orbit.Kind, v float64) {
	if r := s.Range(kind); r != nil {
		r.Add(v)
	}
}

// Range returns the range of kind, or nil for Running.
func (s *Stats) Range(kind orbit.Kind) *Range {
	switch kind {
	case orbit.Bailout:
		return &s.Bailout
	case orbit.Lake:
		return &s.Lake
	}
	return nil
}

// Merge adds the ranges of o to s.
func (s *Stats) Merge(o *Stats) {
	s.Bailout.Merge(o.Bailout)
	s.Lake.Merge(o.Lake)
}

// Reset empties s.
func (s *Stats) Reset() { *s = Stats{} }
