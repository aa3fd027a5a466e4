package selection

import (
	"fmt"
	"math"

	"github.com/gertd/go-pluralize"
	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/model"
)

// Projector gives the chart position of a commit. It is a read-only view of the renderer scales.
type Projector interface {
	Project(c *model.Commit) (x float64, y float64)
}

// Rect is a brushed region in chart pixel space. A nil *Rect means there is no selection.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func NewRect(x0, y0, x1, y1 float64) *Rect {
	return &Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Normalized returns the same rectangle with X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalized() Rect {
	return Rect{
		X0: math.Min(r.X0, r.X1),
		Y0: math.Min(r.Y0, r.Y1),
		X1: math.Max(r.X0, r.X1),
		Y1: math.Max(r.Y0, r.Y1),
	}
}

func (r Rect) Contains(x, y float64) bool {
	n := r.Normalized()
	return x >= n.X0 && x <= n.X1 && y >= n.Y0 && y <= n.Y1
}

func IsInside(rect *Rect, c *model.Commit, p Projector) bool {
	if rect == nil {
		return false
	}

	x, y := p.Project(c)
	return rect.Contains(x, y)
}

// Select returns the commits inside rect, keeping their order. No rectangle selects nothing.
func Select(rect *Rect, commits []*model.Commit, p Projector) []*model.Commit {
	if rect == nil {
		return []*model.Commit{}
	}

	return lo.Filter(commits, func(c *model.Commit, _ int) bool {
		return IsInside(rect, c, p)
	})
}

var plural = pluralize.NewClient()

func CountText(n int) string {
	if n == 0 {
		return "No commits selected"
	}

	return fmt.Sprintf("%v selected", plural.Pluralize("commit", n, true))
}
