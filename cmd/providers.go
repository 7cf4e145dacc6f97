package cmd

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"council/config"
	"council/provider"
)

// ProvidersCommand inspects and configures model backends.
func ProvidersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List, check and configure model providers",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List enabled providers and their models",
				Action: withRuntime(false, func(c *cli.Context, rt *Runtime) error {
					providers := provider.InitializeProviders(rt.Config)
					ids := make([]string, 0, len(providers))
					for id := range providers {
						ids = append(ids, id)
					}
					sort.Strings(ids)

					for _, id := range ids {
						marker := " "
						if id == rt.Config.DefaultProvider {
							marker = "*"
						}
						fmt.Fprintf(c.App.Writer, "%s %-12s %s\n", marker, id, providers[id].GetDisplayName())
					}
					return nil
				}),
			},
			{
				Name:  "ping",
				Usage: "Check that a provider is reachable",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   "Provider `ID` (default from config.toml)",
					},
					&cli.BoolFlag{
						Name:  "models",
						Usage: "Also list the provider's models",
					},
				},
				Action: withRuntime(false, func(c *cli.Context, rt *Runtime) error {
					id := c.String("provider")
					if id == "" {
						id = rt.Config.DefaultProvider
					}
					p, ok := provider.InitializeProviders(rt.Config)[id]
					if !ok {
						return fmt.Errorf("provider %s is not enabled or has no API key", id)
					}

					res := provider.Check(c.Context, id, p)
					if !res.Valid {
						return res.Err
					}
					fmt.Fprintf(c.App.Writer, "%s OK (%s)\n", id, res.Model)

					if !c.Bool("models") {
						return nil
					}
					models, err := p.ListModels(c.Context)
					if err != nil {
						return fmt.Errorf("failed to list models: %w", err)
					}
					for _, m := range models {
						size := ""
						if m.Size > 0 {
							size = humanize.Bytes(uint64(m.Size))
						}
						fmt.Fprintf(c.App.Writer, "  %-48s %s\n", m.InternalName, size)
					}
					return nil
				}),
			},
			{
				Name:      "set",
				Usage:     "Set a provider field: host, model, enabled or apikey",
				ArgsUsage: "<provider> <field> <value>",
				Action: withRuntime(false, func(c *cli.Context, rt *Runtime) error {
					if c.NArg() != 3 {
						return fmt.Errorf("usage: council providers set <provider> <field> <value>")
					}
					args := c.Args()
					if err := config.UpdateProviderField(rt.Config, args.Get(0), args.Get(1), args.Get(2)); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Updated %s %s\n", args.Get(0), args.Get(1))
					return nil
				}),
			},
		},
	}
}
