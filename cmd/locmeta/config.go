package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

type ConfigSetCmd struct {
	Config string `arg:"" help:"Configuration name to change."`
	Value  string `arg:"" optional:"" help:"Configuration value to set. Empty removes it."`
}

func (c *ConfigSetCmd) Run(ctx *context) error {
	changed, err := ctx.ws.SetGlobalConfig(c.Config, c.Value)
	if err != nil {
		return err
	}

	if !changed {
		fmt.Printf("'%v' is already '%v'\n", c.Config, c.Value)
	} else if c.Value == "" {
		fmt.Printf("Removed '%v'\n", c.Config)
	} else {
		fmt.Printf("Set '%v' = '%v'\n", c.Config, c.Value)
	}

	return nil
}

type ConfigShowCmd struct {
}

func (c *ConfigShowCmd) Run(ctx *context) error {
	stored, err := ctx.ws.LoadGlobalConfig()
	if err != nil {
		return err
	}

	keys := lo.Keys(stored)
	sort.Strings(keys)

	t := newTable()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Config", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, stored[k]})
	}
	t.Render()

	return nil
}
