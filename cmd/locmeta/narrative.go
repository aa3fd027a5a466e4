package main

import (
	"fmt"

	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/narrative"
)

type NarrativeCmd struct {
	DataFlags
}

func (c *NarrativeCmd) Run(ctx *context) error {
	cfg, err := ctx.config()
	if err != nil {
		return err
	}

	records, err := c.load(ctx, cfg)
	if err != nil {
		return err
	}

	steps := narrative.Build(model.GroupCommits(records, cfg.URLPrefix).List())
	for _, s := range steps {
		fmt.Printf("%v. %v\n", s.Index+1, s.Text)
	}

	return nil
}
