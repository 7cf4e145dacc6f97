package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"council/server"
)

// ServeCommand exposes the council over HTTP.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the council HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (default from config.toml)",
			},
		},
		Action: func(c *cli.Context) error {
			rt, err := Setup(c, os.Stderr, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			addr := c.String("addr")
			if addr == "" {
				addr = rt.Config.ServerAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.NewServer(addr, rt.Controller).Start(ctx)
		},
	}
}
