package scatter

import (
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/utils"
)

const tooltipOffset = 10

type Tooltip struct {
	URL     string `json:"url"`
	ShortID string `json:"shortId"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Author  string `json:"author"`
	Lines   int    `json:"lines"`
}

func NewTooltip(c *model.Commit) *Tooltip {
	result := &Tooltip{
		URL:     c.URL,
		ShortID: c.ShortID(),
		Author:  c.Author,
		Lines:   c.TotalLines,
	}

	if c.HasDateTime() {
		result.Date = c.DateTime.Format("Monday, January 2, 2006")
		result.Time = c.DateTime.Format("3:04:05 PM")
	}

	return result
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlaceTooltip puts the tooltip below and to the right of the cursor, flipping to the other side
// when it would leave the viewport. The result is clamped to the viewport; a tooltip bigger than the
// viewport is pinned to its top left corner.
func PlaceTooltip(cursor Point, tooltip Size, viewport Size) Point {
	left := cursor.X + tooltipOffset
	top := cursor.Y + tooltipOffset

	if left+tooltip.Width > viewport.Width {
		left = cursor.X - tooltip.Width - tooltipOffset
	}

	if top+tooltip.Height > viewport.Height {
		top = cursor.Y - tooltip.Height - tooltipOffset
	}

	left = utils.Clamp(left, 0, viewport.Width-tooltip.Width)
	top = utils.Clamp(top, 0, viewport.Height-tooltip.Height)

	return Point{X: left, Y: top}
}
