// Package scales maps data values to chart coordinates.
package scales

import (
	"math"
	"time"
)

// Linear maps [D0, D1] to [R0, R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

func (s *Linear) Map(v float64) float64 {
	return interpolate(normalize(s.D0, s.D1, v), s.R0, s.R1)
}

func (s *Linear) Invert(v float64) float64 {
	return interpolate(normalize(s.R0, s.R1, v), s.D0, s.D1)
}

// Sqrt maps the square root of the domain linearly, so the area of a circle with the mapped radius
// grows linearly with the value.
type Sqrt struct {
	D0, D1 float64
	R0, R1 float64
}

func NewSqrt(d0, d1, r0, r1 float64) *Sqrt {
	return &Sqrt{D0: d0, D1: d1, R0: r0, R1: r1}
}

func (s *Sqrt) Map(v float64) float64 {
	return interpolate(normalize(sqrt(s.D0), sqrt(s.D1), sqrt(v)), s.R0, s.R1)
}

// Time maps [D0, D1] to [R0, R1].
type Time struct {
	D0, D1 time.Time
	R0, R1 float64
}

func NewTime(d0, d1 time.Time, r0, r1 float64) *Time {
	return &Time{D0: d0, D1: d1, R0: r0, R1: r1}
}

func (s *Time) Map(t time.Time) float64 {
	if t.IsZero() {
		return math.NaN()
	}

	if t.Equal(s.D1) && !s.D0.Equal(s.D1) {
		return s.R1
	}

	return interpolate(normalize(0, float64(s.D1.Sub(s.D0)), float64(t.Sub(s.D0))), s.R0, s.R1)
}

func (s *Time) Invert(v float64) time.Time {
	if math.IsNaN(v) {
		return time.Time{}
	}

	switch v {
	case s.R0:
		return s.D0
	case s.R1:
		return s.D1
	}

	f := normalize(s.R0, s.R1, v)
	return s.D0.Add(time.Duration(math.Round(f * float64(s.D1.Sub(s.D0)))))
}

// Extent returns the earliest and latest non-zero times. ok is false if there are none.
func Extent(ts []time.Time) (min time.Time, max time.Time, ok bool) {
	for _, t := range ts {
		if t.IsZero() {
			continue
		}
		if !ok || t.Before(min) {
			min = t
		}
		if !ok || t.After(max) {
			max = t
		}
		ok = true
	}
	return
}

// ExtentInt returns the smallest and largest values. ok is false for an empty slice.
func ExtentInt(vs []int) (min int, max int, ok bool) {
	for i, v := range vs {
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	return min, max, len(vs) > 0
}

// normalize returns where v falls in [a, b] as a fraction. A degenerate domain maps to the middle.
func normalize(a, b, v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}

	d := b - a
	if d == 0 {
		return 0.5
	}

	return (v - a) / d
}

func interpolate(f, a, b float64) float64 {
	return a + f*(b-a)
}

func sqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}
