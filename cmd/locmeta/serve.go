package main

import (
	"github.com/pescuma/locmeta/lib/model"
	"github.com/pescuma/locmeta/lib/server"
)

type ServeCmd struct {
	DataFlags
	Host string `help:"Host to listen on. Default is the server.host config."`
	Port uint   `short:"p" help:"Port to listen on. Default is the server.port config."`
}

func (c *ServeCmd) Run(ctx *context) error {
	cfg, err := ctx.config()
	if err != nil {
		return err
	}

	opts := &server.Options{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		Explorer: explorerOptions(cfg),
	}
	if c.Host != "" {
		opts.Host = c.Host
	}
	if c.Port != 0 {
		opts.Port = c.Port
	}
	if c.CSV != "" && !isURL(c.CSV) {
		opts.Source = c.CSV
	}

	return server.Run(ctx.ws.Console(), func() ([]*model.LineRecord, error) {
		return c.load(ctx, cfg)
	}, opts)
}
