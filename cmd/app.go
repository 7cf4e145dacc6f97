package cmd

import (
	"github.com/urfave/cli/v2"

	"council/config"
)

// NewApp assembles the council CLI. With no subcommand it opens the TUI.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "council",
		Usage:   "A council of AI agents that plan, execute, critique and synthesize",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Use `DIR` for sessions, config and credentials",
				EnvVars: []string{config.EnvDataDir},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug records to council.log",
			},
		},
		Action: RunTUI,
		Commands: []*cli.Command{
			TUICommand(),
			RunCommand(),
			NewCommand(),
			QuickStartCommand(),
			SessionsCommand(),
			TemplatesCommand(),
			ProvidersCommand(),
			ServeCommand(),
		},
	}
}
