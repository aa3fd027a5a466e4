package scatter

import (
	"time"

	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/scales"
)

// Scales holds the chart scales. Only the Renderer changes them; everyone else reads.
type Scales struct {
	x *scales.Time
	y *scales.Linear
	r *scales.Sqrt
}

func newScales(layout Layout) *Scales {
	return &Scales{
		x: scales.NewTime(time.Time{}, time.Time{}, layout.Left(), layout.Right()),
		y: scales.NewLinear(0, 24, layout.Bottom(), layout.Top()),
		r: scales.NewSqrt(0, 0, layout.MinRadius, layout.MaxRadius),
	}
}

// fit re-fits the x and radius domains to the displayed commits. The y domain never changes.
func (s *Scales) fit(commits []*model.Commit) {
	min, max, _ := scales.Extent(lo.Map(commits, func(c *model.Commit, _ int) time.Time { return c.DateTime }))
	s.x.D0, s.x.D1 = min, max

	lo0, hi0, _ := scales.ExtentInt(lo.Map(commits, func(c *model.Commit, _ int) int { return c.TotalLines }))
	s.r.D0, s.r.D1 = float64(lo0), float64(hi0)
}

func (s *Scales) X(t time.Time) float64 {
	return s.x.Map(t)
}

func (s *Scales) Y(hourFrac float64) float64 {
	return s.y.Map(hourFrac)
}

func (s *Scales) R(totalLines int) float64 {
	return s.r.Map(float64(totalLines))
}

func (s *Scales) Project(c *model.Commit) (float64, float64) {
	return s.X(c.DateTime), s.Y(c.HourFrac)
}

// XDomain is the time extent currently on the x axis.
func (s *Scales) XDomain() (time.Time, time.Time) {
	return s.x.D0, s.x.D1
}

// TimeAt inverts the x scale.
func (s *Scales) TimeAt(x float64) time.Time {
	return s.x.Invert(x)
}

// HourAt inverts the y scale.
func (s *Scales) HourAt(y float64) float64 {
	return s.y.Invert(y)
}
