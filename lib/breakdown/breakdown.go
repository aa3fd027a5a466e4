package breakdown

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pescuma/locmeta/lib/model"
)

const Unknown = "Unknown"

type Entry struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// Text is the description shown next to the label, e.g. "3 lines (60.0%)".
func (e Entry) Text() string {
	return fmt.Sprintf("%v lines (%.1f%%)", e.Count, e.Percent)
}

var upper = cases.Upper(language.Und)

// Compute counts the lines of commits per source type, most common first. No commits give no entries.
func Compute(commits []*model.Commit) []Entry {
	lines := model.FlattenLines(commits)
	if len(lines) == 0 {
		return []Entry{}
	}

	groups := lo.GroupBy(lines, Category)

	total := float64(len(lines))

	result := lo.MapToSlice(groups, func(category string, ls []*model.LineRecord) Entry {
		return Entry{
			Category: category,
			Label:    upper.String(category),
			Count:    len(ls),
			Percent:  float64(len(ls)) / total * 100,
		}
	})

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})

	return result
}

func Category(l *model.LineRecord) string {
	if l.Type == "" {
		return Unknown
	}
	return l.Type
}

func Total(entries []Entry) int {
	return lo.SumBy(entries, func(e Entry) int { return e.Count })
}
