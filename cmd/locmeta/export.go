package main

import (
	gocontext "context"
	"io"
	"os"

	"github.com/pescuma/locmeta/lib/exporter"
)

type ExportCmd struct {
	Repo     string   `arg:"" help:"Path of the git repository." type:"existingdir"`
	Output   string   `short:"o" help:"CSV file to write. Without it the lines are stored in the workspace."`
	Exclude  []string `help:"Glob of files to skip, like 'docs/**'. Adds to the export.exclude config."`
	Workers  int      `help:"Number of files to blame in parallel. Default is the export.workers config."`
	Progress bool     `default:"true" negatable:"" help:"Show a progress bar."`
}

func (c *ExportCmd) Run(ctx *context) error {
	cfg, err := ctx.config()
	if err != nil {
		return err
	}

	opts := &exporter.Options{
		Exclude: append(append([]string{}, cfg.Export.Exclude...), c.Exclude...),
		Workers: cfg.Export.Workers,
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	if c.Progress {
		opts.Progress = os.Stderr
	}

	var out io.Writer
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()

		out = f
	}

	result, err := ctx.ws.Export(gocontext.Background(), c.Repo, out, opts)
	if err != nil {
		return err
	}

	ctx.ws.Console().Printf("Exported %v lines of %v files\n", result.Lines, result.Files)

	return nil
}
