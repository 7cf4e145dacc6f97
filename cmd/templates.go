package cmd

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"council/council"
)

// TemplatesCommand lists the built-in templates and their rosters.
func TemplatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "List council templates and their agents",
		Action: func(c *cli.Context) error {
			return printTemplates(c.App.Writer)
		},
	}
}

func printTemplates(w io.Writer) error {
	for i, t := range council.Templates() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s)\n  %s\n", t.Name, t.ID, t.Description)
		for _, def := range council.ResolveRoster(t.ID).Ordered() {
			fmt.Fprintf(w, "  - %-26s %s\n", def.Name, def.Title)
		}
	}
	return nil
}
