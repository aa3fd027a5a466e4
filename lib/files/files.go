package files

import (
	"sort"

	"github.com/samber/lo"

	"github.com/pescuma/locmeta/lib/model"
)

// Group flattens the lines of commits by file path, biggest files first.
func Group(commits []*model.Commit) []*model.FileGroup {
	lines := model.FlattenLines(commits)

	byFile := lo.GroupBy(lines, func(l *model.LineRecord) string { return l.File })

	result := lo.MapToSlice(byFile, func(file string, ls []*model.LineRecord) *model.FileGroup {
		return &model.FileGroup{File: file, Lines: ls}
	})

	sort.Slice(result, func(i, j int) bool {
		ci, cj := result[i].Count(), result[j].Count()
		if ci != cj {
			return ci > cj
		}
		return result[i].File < result[j].File
	})

	return result
}
