package main

import (
	gocontext "context"
)

type ImportCmd struct {
	Source string `arg:"" optional:"" help:"CSV file or URL to import. Default is the csv config."`
}

func (c *ImportCmd) Run(ctx *context) error {
	source := c.Source
	if source == "" {
		cfg, err := ctx.config()
		if err != nil {
			return err
		}

		source = cfg.CSV
	}

	count, err := ctx.ws.ImportCSV(gocontext.Background(), source)
	if err != nil {
		return err
	}

	ctx.ws.Console().Printf("Imported %v lines\n", count)

	return nil
}
