package model

import (
	"sort"

	"github.com/samber/lo"
)

// Commits is the aggregate model: one Commit per distinct commit id, ordered by datetime.
type Commits struct {
	list []*Commit
	byID map[string]*Commit
}

// GroupCommits groups records by commit id. Commits are sorted ascending by datetime; commits with the
// same datetime keep the order in which their ids first appear in records.
func GroupCommits(records []*LineRecord, urlPrefix string) *Commits {
	var order []string
	groups := map[string][]*LineRecord{}

	for _, r := range records {
		lines, ok := groups[r.Commit]
		if !ok {
			order = append(order, r.Commit)
		}
		groups[r.Commit] = append(lines, r)
	}

	result := &Commits{
		list: make([]*Commit, 0, len(order)),
		byID: make(map[string]*Commit, len(order)),
	}

	for _, id := range order {
		c := newCommit(id, urlPrefix, groups[id])
		result.list = append(result.list, c)
		result.byID[id] = c
	}

	sort.SliceStable(result.list, func(i, j int) bool {
		return result.list[i].DateTime.Before(result.list[j].DateTime)
	})

	return result
}

// List returns the commits in chronological order. The slice must not be modified.
func (s *Commits) List() []*Commit {
	return s.list
}

func (s *Commits) Get(id string) *Commit {
	return s.byID[id]
}

func (s *Commits) Len() int {
	return len(s.list)
}

// Lines returns every record, commit by commit.
func (s *Commits) Lines() []*LineRecord {
	return FlattenLines(s.list)
}

// IndexOf returns the position of the commit in List, or -1.
func (s *Commits) IndexOf(id string) int {
	_, index, ok := lo.FindIndexOf(s.list, func(c *Commit) bool { return c.ID == id })
	if !ok {
		return -1
	}
	return index
}

func FlattenLines(commits []*Commit) []*LineRecord {
	size := lo.SumBy(commits, func(c *Commit) int { return len(c.lines) })

	result := make([]*LineRecord, 0, size)
	for _, c := range commits {
		result = append(result, c.lines...)
	}
	return result
}
