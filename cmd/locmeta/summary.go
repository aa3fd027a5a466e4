package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pescuma/locmeta/lib/model"
)

type SummaryCmd struct {
	DataFlags
}

func (c *SummaryCmd) Run(ctx *context) error {
	cfg, err := ctx.config()
	if err != nil {
		return err
	}

	records, err := c.load(ctx, cfg)
	if err != nil {
		return err
	}

	summary := model.GroupCommits(records, cfg.URLPrefix).Summary()

	t := summaryTable(summary)
	t.SetOutputMirror(os.Stdout)
	t.Render()

	return nil
}

func summaryTable(s *model.Summary) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Stat", "Value"})
	t.AppendRows([]table.Row{
		{"Commits", formatCount(s.Commits)},
		{"Files", formatCount(s.Files)},
		{"Total LOC", formatCount(s.TotalLOC)},
		{"Max depth", formatMax(s.MaxDepth)},
		{"Longest line", formatMax(s.LongestLine)},
		{"Max lines", formatMax(s.MaxLines)},
	})
	return t
}
