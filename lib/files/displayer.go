package files

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/model"
)

type Unit struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

type Row struct {
	File  string `json:"file"`
	Lines int    `json:"lines"`
	Units []Unit `json:"units"`
}

// Displayer renders file rows, keeping category colors stable across renders.
type Displayer struct {
	palette *Palette
	filter  glob.Glob
}

func NewDisplayer() *Displayer {
	return &Displayer{
		palette: NewPalette(),
	}
}

// SetFilter restricts the rows to files matching pattern. An empty pattern removes the filter.
func (d *Displayer) SetFilter(pattern string) error {
	if pattern == "" {
		d.filter = nil
		return nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return errors.Wrapf(err, "invalid file filter: %v", pattern)
	}

	d.filter = g
	return nil
}

func (d *Displayer) Palette() *Palette {
	return d.palette
}

func (d *Displayer) Render(commits []*model.Commit) []Row {
	groups := Group(commits)

	result := make([]Row, 0, len(groups))
	for _, g := range groups {
		if d.filter != nil && !d.filter.Match(g.File) {
			continue
		}

		row := Row{
			File:  g.File,
			Lines: g.Count(),
			Units: make([]Unit, len(g.Lines)),
		}
		for i, l := range g.Lines {
			category := breakdown.Category(l)
			row.Units[i] = Unit{
				Type:  category,
				Color: d.palette.Color(category),
			}
		}

		result = append(result, row)
	}

	return result
}
