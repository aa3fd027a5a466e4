package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/explorer"
)

type BreakdownCmd struct {
	DataFlags
	Progress float64 `default:"100" help:"Only count commits up to this point of the timeline, from 0 to 100."`
}

func (c *BreakdownCmd) Run(ctx *context) error {
	cfg, err := ctx.config()
	if err != nil {
		return err
	}

	records, err := c.load(ctx, cfg)
	if err != nil {
		return err
	}

	opts := explorerOptions(cfg)
	opts.OverallBreakdown = true

	view := explorer.New(records, opts).SetProgress(c.Progress)

	t := breakdownTable(view.Breakdown)
	t.SetOutputMirror(os.Stdout)
	t.Render()

	return nil
}

func breakdownTable(entries []breakdown.Entry) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Type", "Lines", "Percent"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Label, formatCount(e.Count), fmt.Sprintf("%.1f%%", e.Percent)})
	}
	t.AppendFooter(table.Row{"Total", formatCount(breakdown.Total(entries)), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return t
}
