package main

import (
	"os"

	"github.com/pescuma/locmeta/lib/breakdown"
	"github.com/pescuma/locmeta/lib/explorer"
	"github.com/pescuma/locmeta/lib/scatter"
)

type RenderCmd struct {
	DataFlags
	Output   string  `short:"o" default:"commits.html" help:"HTML file to write."`
	Progress float64 `default:"100" help:"Only show commits up to this point of the timeline, from 0 to 100."`
	Title    string  `help:"Title of the chart."`
}

func (c *RenderCmd) Run(ctx *context) error {
	cfg, err := ctx.config()
	if err != nil {
		return err
	}

	records, err := c.load(ctx, cfg)
	if err != nil {
		return err
	}

	view := explorer.New(records, explorerOptions(cfg)).SetProgress(c.Progress)

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	commits := view.Frame.Commits()

	err = scatter.RenderHTML(f, view.Frame, breakdown.Compute(commits), scatter.HTMLOptions{
		Title:         c.Title,
		Subtitle:      plural.Pluralize("commit", len(commits), true),
		Summary:       view.Summary,
		SelectionText: view.SelectionText,
	})
	if err != nil {
		return err
	}

	ctx.ws.Console().Printf("Wrote %v\n", c.Output)

	return nil
}
