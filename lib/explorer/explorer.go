package explorer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/files"
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/narrative"
	"github.com/pescuma/locmeta/lib/scatter"
	"github.com/pescuma/locmeta/lib/selection"
	"github.com/pescuma/locmeta/lib/timeline"
)

var (
	ErrStepOutOfRange = errors.New("narrative step out of range")
	ErrNotOnChart     = errors.New("commit is not on the chart")
)

type Options struct {
	URLPrefix string
	Layout    scatter.Layout
	// OverallBreakdown shows the breakdown of every displayed commit when nothing is selected.
	OverallBreakdown bool
}

func DefaultOptions() Options {
	return Options{
		URLPrefix: model.DefaultCommitURLPrefix,
		Layout:    scatter.DefaultLayout(),
	}
}

// View is everything a client needs to draw the current state of a session.
type View struct {
	Progress      float64           `json:"progress"`
	Cutoff        time.Time         `json:"cutoff"`
	Step          int               `json:"step"`
	Commits       int               `json:"commits"`
	Frame         *scatter.Frame    `json:"frame"`
	Selection     *selection.Rect   `json:"selection"`
	Selected      []string          `json:"selected"`
	SelectionText string            `json:"selectionText"`
	Breakdown     []breakdown.Entry `json:"breakdown"`
	Files         []files.Row       `json:"files"`
	Summary       *model.Summary    `json:"summary"`
	Tooltip       *scatter.Tooltip  `json:"tooltip,omitempty"`
}

// Session is the state of one person exploring the data. Events are serialized; the last one wins.
type Session struct {
	mutex sync.Mutex

	options   Options
	commits   *model.Commits
	summary   *model.Summary
	timeline  *timeline.Timeline
	renderer  *scatter.Renderer
	narrative *narrative.Driver
	displayer *files.Displayer

	visible []*model.Commit
	rect    *selection.Rect
	tooltip *scatter.Tooltip
	view    *View
}

// New aggregates records and renders the initial state, with every commit displayed.
func New(records []*model.LineRecord, options Options) *Session {
	commits := model.GroupCommits(records, options.URLPrefix)

	return NewFromCommits(commits, options)
}

func NewFromCommits(commits *model.Commits, options Options) *Session {
	if options.Layout.Width == 0 {
		options.Layout = scatter.DefaultLayout()
	}

	s := &Session{
		options:   options,
		commits:   commits,
		summary:   commits.Summary(),
		timeline:  timeline.New(commits.List()),
		renderer:  scatter.NewRenderer(options.Layout),
		displayer: files.NewDisplayer(),
	}
	s.narrative = narrative.NewDriver(narrative.Build(commits.List()), s.onStep)

	s.visible = s.timeline.Visible()
	s.refresh()

	return s
}

func (s *Session) Commits() *model.Commits {
	return s.commits
}

func (s *Session) Steps() []*narrative.Step {
	return s.narrative.Steps()
}

func (s *Session) View() *View {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.view
}

// SetProgress shows the commits up to the time at p percent of the history.
func (s *Session) SetProgress(p float64) *View {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.timeline.SetProgress(p)
	s.narrative.Reset()
	s.visible = s.timeline.Visible()
	s.refresh()

	return s.view
}

// EnterStep shows every commit up to and including the one of step i.
func (s *Session) EnterStep(i int) (*View, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.narrative.Enter(i) {
		return nil, errors.Wrapf(ErrStepOutOfRange, "step %v of %v", i, len(s.narrative.Steps()))
	}

	return s.view, nil
}

func (s *Session) onStep(step *narrative.Step) {
	s.timeline.SetProgress(s.timeline.ProgressOf(step.Commit.DateTime))
	s.visible = s.commits.List()[:step.Index+1]
	s.refresh()
}

// Brush sets the selection rectangle. A nil rect clears the selection.
func (s *Session) Brush(rect *selection.Rect) *View {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if rect != nil {
		n := rect.Normalized()
		rect = &n
	}

	s.rect = rect
	s.refresh()

	return s.view
}

func (s *Session) SetFileFilter(pattern string) (*View, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.displayer.SetFilter(pattern)
	if err != nil {
		return nil, err
	}

	s.refresh()

	return s.view, nil
}

func (s *Session) Hover(id string) (*View, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tooltip, ok := s.renderer.Hover(id)
	if !ok {
		return nil, errors.Wrapf(ErrNotOnChart, "commit %v", id)
	}

	s.tooltip = tooltip
	s.view = s.snapshot()

	return s.view, nil
}

func (s *Session) Leave() *View {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.renderer.Leave()
	s.tooltip = nil
	s.view = s.snapshot()

	return s.view
}

// refresh re-renders the chart before evaluating the selection, so the selection uses the new scales.
func (s *Session) refresh() {
	s.renderer.Update(s.visible)
	s.renderer.MarkSelected(s.rect)

	if s.renderer.Hovered() == "" {
		s.tooltip = nil
	}

	s.view = s.snapshot()
}

func (s *Session) snapshot() *View {
	selected := selection.Select(s.rect, s.visible, s.renderer.Scales())

	var entries []breakdown.Entry
	if len(selected) == 0 && s.rect == nil && s.options.OverallBreakdown {
		entries = breakdown.Compute(s.visible)
	} else {
		entries = breakdown.Compute(selected)
	}

	ids := make([]string, len(selected))
	for i, c := range selected {
		ids[i] = c.ID
	}

	step := -1
	if active := s.narrative.Active(); active != nil {
		step = active.Index
	}

	var rect *selection.Rect
	if s.rect != nil {
		r := *s.rect
		rect = &r
	}

	var tooltip *scatter.Tooltip
	if s.tooltip != nil {
		t := *s.tooltip
		tooltip = &t
	}

	return &View{
		Progress:      s.timeline.Progress(),
		Cutoff:        s.timeline.Cutoff(),
		Step:          step,
		Commits:       len(s.visible),
		Frame:         cloneFrame(s.renderer.Frame()),
		Selection:     rect,
		Selected:      ids,
		SelectionText: selection.CountText(len(selected)),
		Breakdown:     entries,
		Files:         s.displayer.Render(s.visible),
		Summary:       s.summary,
		Tooltip:       tooltip,
	}
}

// cloneFrame copies the dots so a View is not changed by later events.
func cloneFrame(f *scatter.Frame) *scatter.Frame {
	dots := make([]*scatter.Dot, len(f.Dots))
	for i, d := range f.Dots {
		c := *d
		dots[i] = &c
	}

	return &scatter.Frame{Layout: f.Layout, Dots: dots}
}
