package main

import (
	gocontext "context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pescuma/locmeta/lib/config"
	"github.com/pescuma/locmeta/lib/explorer"
	"github.com/pescuma/locmeta/lib/model"
)

var plural = pluralize.NewClient()

// DataFlags selects where the lines come from.
type DataFlags struct {
	CSV string `help:"CSV file or URL to read instead of the lines stored in the workspace."`
}

func (f *DataFlags) load(ctx *context, cfg *config.Config) ([]*model.LineRecord, error) {
	c, cancel := gocontext.WithTimeout(gocontext.Background(), time.Duration(cfg.Server.Timeout)*time.Second)
	defer cancel()

	return ctx.ws.LoadRecords(c, f.CSV)
}

func explorerOptions(cfg *config.Config) explorer.Options {
	opts := explorer.DefaultOptions()
	opts.URLPrefix = cfg.URLPrefix
	opts.OverallBreakdown = cfg.Breakdown.Overall
	return opts
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

func formatCount(v int) string {
	return humanize.Comma(int64(v))
}

func formatMax(v float64) string {
	if !model.Known(v) {
		return "-"
	}
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
