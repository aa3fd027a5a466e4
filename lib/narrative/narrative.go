package narrative

import (
	"fmt"

	"github.com/gertd/go-pluralize"
	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/locmeta/lib/model"
)

var plural = pluralize.NewClient()

// Step is one paragraph of the narrative, tied to one commit.
type Step struct {
	Index  int           `json:"index"`
	Commit *model.Commit `json:"commit"`
	Files  int           `json:"files"`
	Text   string        `json:"text"`
}

// Build creates one step per commit, in the given order.
func Build(commits []*model.Commit) []*Step {
	result := make([]*Step, len(commits))

	for i, c := range commits {
		files := set.New[string](0)
		for _, l := range c.Lines() {
			files.Insert(l.File)
		}

		result[i] = &Step{
			Index:  i,
			Commit: c,
			Files:  files.Size(),
			Text:   text(i, c, files.Size()),
		}
	}

	return result
}

func text(index int, c *model.Commit, files int) string {
	when := "an unknown date"
	if c.HasDateTime() {
		when = c.DateTime.Format("Monday, January 2, 2006 at 3:04 PM")
	}

	what := "another glorious commit"
	if index == 0 {
		what = "my first commit, and it was glorious"
	}

	return fmt.Sprintf("On %v, I made %v (%v). I edited %v across %v.",
		when, what, c.URL,
		plural.Pluralize("line", c.TotalLines, true),
		plural.Pluralize("file", files, true))
}
