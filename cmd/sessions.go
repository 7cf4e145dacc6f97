package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"council/council"
	"council/storage"
)

// SessionsCommand groups the session history subcommands.
func SessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Browse and export past sessions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List sessions, most recent first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Fuzzy filter on session titles",
					},
				},
				Action: withRuntime(false, func(c *cli.Context, rt *Runtime) error {
					sessions := storage.FilterSessions(rt.Store.ListSessions(), c.String("filter"))
					return printSessions(c.App.Writer, sessions)
				}),
			},
			{
				Name:      "show",
				Usage:     "Print a session transcript as Markdown",
				ArgsUsage: "<session-id>",
				Action: withRuntime(false, func(c *cli.Context, rt *Runtime) error {
					sess, err := lookupSession(c, rt)
					if err != nil {
						return err
					}
					return storage.Export(c.App.Writer, sess, storage.FormatMarkdown)
				}),
			},
			{
				Name:      "export",
				Usage:     "Export a session as JSON, YAML or Markdown",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "json, yaml or md",
						Value: string(storage.FormatMarkdown),
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output `FILE` (- for stdout, default ~/Downloads)",
					},
				},
				Action: withRuntime(false, func(c *cli.Context, rt *Runtime) error {
					format, err := storage.ParseExportFormat(c.String("format"))
					if err != nil {
						return err
					}
					sess, err := lookupSession(c, rt)
					if err != nil {
						return err
					}

					out := c.String("out")
					if out == "-" {
						return storage.Export(c.App.Writer, sess, format)
					}
					if out == "" {
						out = storage.GenerateExportPath(sess.Title, format)
					}
					if err := storage.ExportToFile(sess, out, format); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Exported to %s\n", out)
					return nil
				}),
			},
		},
	}
}

func lookupSession(c *cli.Context, rt *Runtime) (storage.Session, error) {
	id := c.Args().First()
	if id == "" {
		return storage.Session{}, fmt.Errorf("a session id is required")
	}
	sess, ok := rt.Store.GetSession(id)
	if !ok {
		return storage.Session{}, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, id)
	}
	return sess, nil
}

func printSessions(w io.Writer, sessions []storage.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No past sessions")
		return err
	}
	for _, s := range sessions {
		consensus := "-"
		if score, ok := s.Consensus(); ok {
			consensus = fmt.Sprintf("%d%%", score)
		}
		_, err := fmt.Fprintf(w, "%s  %-40s  %-18s  %3d msgs  %4s  %s\n",
			s.ID,
			council.Truncate(s.Title, 37),
			council.TemplateOrDefault(s.TemplateID).Name,
			len(s.Messages),
			consensus,
			humanize.Time(s.UpdatedAt()),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
