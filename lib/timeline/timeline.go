package timeline

import (
	"time"

	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/scales"
	"github.com/pescuma/locmeta/lib/utils"
)

const (
	MinProgress = 0.0
	MaxProgress = 100.0
)

// Timeline maps a progress value in [0, 100] to a cutoff time between the first and last commit.
type Timeline struct {
	commits []*model.Commit
	scale   *scales.Time
	empty   bool

	progress float64
	cutoff   time.Time
}

func New(commits []*model.Commit) *Timeline {
	min, max, ok := scales.Extent(lo.Map(commits, func(c *model.Commit, _ int) time.Time { return c.DateTime }))

	result := &Timeline{
		commits: commits,
		scale:   scales.NewTime(min, max, MinProgress, MaxProgress),
		empty:   !ok,
	}

	result.SetProgress(MaxProgress)

	return result
}

// SetProgress moves the slider and returns the new cutoff. Values outside [0, 100] are clamped.
func (t *Timeline) SetProgress(p float64) time.Time {
	t.progress = utils.Clamp(p, MinProgress, MaxProgress)

	if t.empty {
		t.cutoff = time.Time{}
	} else {
		t.cutoff = t.scale.Invert(t.progress)
	}

	return t.cutoff
}

func (t *Timeline) Progress() float64 {
	return t.progress
}

func (t *Timeline) Cutoff() time.Time {
	return t.cutoff
}

// ProgressOf returns the slider position that corresponds to ts.
func (t *Timeline) ProgressOf(ts time.Time) float64 {
	if t.empty || ts.IsZero() {
		return MinProgress
	}

	return utils.Clamp(t.scale.Map(ts), MinProgress, MaxProgress)
}

// CommitsUpTo returns every commit with datetime <= cutoff, in chronological order.
func (t *Timeline) CommitsUpTo(cutoff time.Time) []*model.Commit {
	if t.empty {
		return []*model.Commit{}
	}

	return lo.Filter(t.commits, func(c *model.Commit, _ int) bool {
		return !c.DateTime.After(cutoff)
	})
}

func (t *Timeline) Visible() []*model.Commit {
	return t.CommitsUpTo(t.cutoff)
}

func (t *Timeline) Start() time.Time {
	return t.scale.D0
}

func (t *Timeline) End() time.Time {
	return t.scale.D1
}
