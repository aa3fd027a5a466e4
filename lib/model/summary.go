package model

import (
	"encoding/json"
	"math"

	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/utils"
)

type Summary struct {
	Commits     int     `json:"commits"`
	Files       int     `json:"files"`
	TotalLOC    int     `json:"totalLoc"`
	MaxDepth    float64 `json:"maxDepth"`
	LongestLine float64 `json:"longestLine"`
	MaxLines    float64 `json:"maxLines"`
}

func (s *Commits) Summary() *Summary {
	lines := s.Lines()

	byFile := lo.GroupBy(lines, func(l *LineRecord) string { return l.File })

	maxLinePerFile := lo.MapToSlice(byFile, func(_ string, ls []*LineRecord) float64 {
		return utils.MaxFloat(lo.Map(ls, func(l *LineRecord, _ int) float64 { return l.Line })...)
	})

	return &Summary{
		Commits:     s.Len(),
		Files:       len(byFile),
		TotalLOC:    len(lines),
		MaxDepth:    utils.MaxFloat(lo.Map(lines, func(l *LineRecord, _ int) float64 { return l.Depth })...),
		LongestLine: utils.MaxFloat(lo.Map(lines, func(l *LineRecord, _ int) float64 { return l.Length })...),
		MaxLines:    utils.MaxFloat(maxLinePerFile...),
	}
}

// Known reports whether v holds a value. Maxima over no values, or only malformed ones, are NaN.
func Known(v float64) bool {
	return !math.IsNaN(v)
}

func (s *Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"commits":     s.Commits,
		"files":       s.Files,
		"totalLoc":    s.TotalLOC,
		"maxDepth":    nullable(s.MaxDepth),
		"longestLine": nullable(s.LongestLine),
		"maxLines":    nullable(s.MaxLines),
	})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
