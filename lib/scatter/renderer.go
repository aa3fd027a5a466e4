package scatter

import (
	"sort"

	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/selection"
)

type Transition string

const (
	Enter  Transition = "enter"
	Update Transition = "update"
	Exit   Transition = "exit"
)

const (
	IdleOpacity  = 0.7
	HoverOpacity = 1.0
)

// Dot is one circle of the chart. From* hold where the transition starts; X, Y and R where it ends.
type Dot struct {
	ID         string        `json:"id"`
	Commit     *model.Commit `json:"-"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	R          float64       `json:"r"`
	FromX      float64       `json:"fromX"`
	FromY      float64       `json:"fromY"`
	FromR      float64       `json:"fromR"`
	Color      string        `json:"color"`
	Opacity    float64       `json:"opacity"`
	Selected   bool          `json:"selected"`
	Transition Transition    `json:"transition"`
}

type Frame struct {
	Layout Layout `json:"layout"`
	Dots   []*Dot `json:"dots"`
}

// Visible returns the dots that stay on the chart after the transition.
func (f *Frame) Visible() []*Dot {
	result := make([]*Dot, 0, len(f.Dots))
	for _, d := range f.Dots {
		if d.Transition != Exit {
			result = append(result, d)
		}
	}
	return result
}

// Commits returns the commits of the visible dots.
func (f *Frame) Commits() []*model.Commit {
	return lo.Map(f.Visible(), func(d *Dot, _ int) *model.Commit { return d.Commit })
}

func (f *Frame) Get(id string) *Dot {
	for _, d := range f.Dots {
		if d.ID == id && d.Transition != Exit {
			return d
		}
	}
	return nil
}

type Renderer struct {
	layout  Layout
	scales  *Scales
	frame   *Frame
	byID    map[string]*Dot
	hovered string
}

func NewRenderer(layout Layout) *Renderer {
	return &Renderer{
		layout: layout,
		scales: newScales(layout),
		frame:  &Frame{Layout: layout, Dots: []*Dot{}},
		byID:   map[string]*Dot{},
	}
}

// Scales exposes the current scales for reading.
func (r *Renderer) Scales() selection.Projector {
	return r.scales
}

func (r *Renderer) ChartScales() *Scales {
	return r.scales
}

func (r *Renderer) Frame() *Frame {
	return r.frame
}

// Update re-fits the scales to commits and reconciles the dots by commit id. Commits without a valid
// datetime cannot be placed and are not drawn.
func (r *Renderer) Update(commits []*model.Commit) *Frame {
	drawable := make([]*model.Commit, 0, len(commits))
	for _, c := range commits {
		if c.HasDateTime() {
			drawable = append(drawable, c)
		}
	}

	sorted := make([]*model.Commit, len(drawable))
	copy(sorted, drawable)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalLines > sorted[j].TotalLines
	})

	r.scales.fit(drawable)

	dots := make([]*Dot, 0, len(sorted))
	byID := make(map[string]*Dot, len(sorted))

	for _, c := range sorted {
		x, y := r.scales.Project(c)

		dot := &Dot{
			ID:      c.ID,
			Commit:  c,
			X:       x,
			Y:       y,
			R:       r.scales.R(c.TotalLines),
			Color:   Color(c.HourFrac),
			Opacity: IdleOpacity,
		}

		if previous, ok := r.byID[c.ID]; ok {
			dot.Transition = Update
			dot.FromX, dot.FromY, dot.FromR = previous.X, previous.Y, previous.R
		} else {
			dot.Transition = Enter
			dot.FromX, dot.FromY, dot.FromR = x, y, 0
		}

		dots = append(dots, dot)
		byID[c.ID] = dot
	}

	for _, previous := range r.frame.Dots {
		if previous.Transition == Exit {
			continue
		}
		if _, ok := byID[previous.ID]; ok {
			continue
		}

		dots = append(dots, &Dot{
			ID:         previous.ID,
			Commit:     previous.Commit,
			X:          previous.X,
			Y:          previous.Y,
			R:          0,
			FromX:      previous.X,
			FromY:      previous.Y,
			FromR:      previous.R,
			Color:      previous.Color,
			Opacity:    IdleOpacity,
			Transition: Exit,
		})
	}

	r.byID = byID
	r.frame = &Frame{Layout: r.layout, Dots: dots}

	if _, ok := byID[r.hovered]; !ok {
		r.hovered = ""
	}
	r.applyHover()

	return r.frame
}

// MarkSelected flags the visible dots whose commits are inside rect.
func (r *Renderer) MarkSelected(rect *selection.Rect) {
	for _, d := range r.frame.Dots {
		d.Selected = d.Transition != Exit && selection.IsInside(rect, d.Commit, r.scales)
	}
}

// Hover highlights a dot and returns its tooltip. ok is false if the commit is not on the chart.
func (r *Renderer) Hover(id string) (*Tooltip, bool) {
	dot, ok := r.byID[id]
	if !ok {
		return nil, false
	}

	r.hovered = id
	r.applyHover()

	return NewTooltip(dot.Commit), true
}

func (r *Renderer) Leave() {
	r.hovered = ""
	r.applyHover()
}

func (r *Renderer) Hovered() string {
	return r.hovered
}

func (r *Renderer) applyHover() {
	for _, d := range r.frame.Dots {
		if d.Transition != Exit && d.ID == r.hovered {
			d.Opacity = HoverOpacity
		} else {
			d.Opacity = IdleOpacity
		}
	}
}
