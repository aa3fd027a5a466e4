package main

import (
	"github.com/alecthomas/kong"

	"github.com/pescuma/locmeta/lib/config"
	"github.com/pescuma/locmeta/lib/workspace"
)

var cli struct {
	Workspace  string `short:"w" help:"Workspace to store data. Default is ./.locmeta or ~/.locmeta if that does not exist." type:"path"`
	ConfigFile string `name:"config" help:"Config file. Default is .locmeta.yaml in the current folder." type:"path"`

	Import    ImportCmd    `cmd:"" help:"Import a CSV of lines of code into the workspace."`
	Export    ExportCmd    `cmd:"" help:"Blame a git repository and write its lines of code as CSV."`
	Summary   SummaryCmd   `cmd:"" help:"Show summary statistics of the lines of code."`
	Breakdown BreakdownCmd `cmd:"" help:"Show the lines of code by type."`
	Narrative NarrativeCmd `cmd:"" help:"Show the story of the commits."`
	Render    RenderCmd    `cmd:"" help:"Render the commits scatterplot to an HTML file."`
	Serve     ServeCmd     `cmd:"" help:"Start the explorer server."`

	Config struct {
		Set  ConfigSetCmd  `cmd:"" help:"Set configuration parameters."`
		Show ConfigShowCmd `cmd:"" help:"Show configuration parameters."`
	} `cmd:""`
}

type context struct {
	ws         *workspace.Workspace
	configFile string
}

func (c *context) config() (*config.Config, error) {
	return c.ws.Config(c.configFile)
}

func main() {
	ctx := kong.Parse(&cli, kong.ShortUsageOnError())

	ws, err := workspace.NewWorkspace(cli.Workspace)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&context{
		ws:         ws,
		configFile: cli.ConfigFile,
	})

	_ = ws.Close()

	ctx.FatalIfErrorf(err)
}
