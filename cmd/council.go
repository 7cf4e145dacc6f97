package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"council/council"
	"council/model"
	"council/storage"
	"council/workflow"
)

// RunCommand submits a message to an existing session.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Send a message to an existing session and run the council",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "session",
				Aliases:  []string{"s"},
				Usage:    "Session `ID`",
				Required: true,
			},
		},
		Action: withRuntime(true, func(c *cli.Context, rt *Runtime) error {
			message, err := messageArg(c)
			if err != nil {
				return err
			}
			if _, err := rt.Controller.OpenSession(c.String("session")); err != nil {
				return err
			}
			return runAndPrint(rt.Controller, c.App.Writer, func(ctx context.Context) (storage.Session, error) {
				return rt.Controller.Submit(ctx, message)
			})
		}),
	}
}

// NewCommand creates a session from a template and runs the council on the
// first message.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Start a session from a template and run the council",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Template `ID` (see \"council templates\")",
			},
		},
		Action: withRuntime(true, func(c *cli.Context, rt *Runtime) error {
			message, err := messageArg(c)
			if err != nil {
				return err
			}
			templateID := c.String("template")
			if templateID == "" {
				templateID = rt.Config.DefaultTemplate
			}
			if _, ok := council.LookupTemplate(templateID); !ok {
				return fmt.Errorf("unknown template: %s", templateID)
			}

			return runAndPrint(rt.Controller, c.App.Writer, func(ctx context.Context) (storage.Session, error) {
				sess := rt.Controller.StartSession(templateID)
				return rt.Controller.SubmitTo(ctx, sess.ID, message)
			})
		}),
	}
}

// QuickStartCommand runs a seeded quick-start session.
func QuickStartCommand() *cli.Command {
	return &cli.Command{
		Name:  "quickstart",
		Usage: "Convene the council on a goal for your industry and role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "industry", Usage: "Industry, e.g. \"" + council.Industries[0] + "\"", Required: true},
			&cli.StringFlag{Name: "role", Usage: "Your role, e.g. \"" + council.Roles[0] + "\"", Required: true},
			&cli.StringFlag{Name: "goal", Usage: "What the council should achieve", Required: true},
		},
		Action: withRuntime(true, func(c *cli.Context, rt *Runtime) error {
			q := council.QuickStart{
				Industry: c.String("industry"),
				Role:     c.String("role"),
				Goal:     c.String("goal"),
			}
			if err := q.Validate(); err != nil {
				return err
			}
			return runAndPrint(rt.Controller, c.App.Writer, func(ctx context.Context) (storage.Session, error) {
				return rt.Controller.QuickStart(ctx, q)
			})
		}),
	}
}

func messageArg(c *cli.Context) (string, error) {
	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		return "", errors.New("a message is required")
	}
	return message, nil
}

// runAndPrint runs fn with progress on stderr and prints the resulting
// transcript to w. Ctrl+C cancels the in-flight model call; the run still
// finishes with failed turns recorded.
func runAndPrint(ctrl *model.Controller, w io.Writer, fn func(ctx context.Context) (storage.Session, error)) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	defer close(done)
	go followProgress(ctrl, os.Stderr, done)

	sess, err := fn(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "session %s\n\n", sess.ID)
	_, err = io.WriteString(w, storage.RenderTranscript(sess))
	return err
}

func followProgress(ctrl *model.Controller, w io.Writer, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-ctrl.Events():
			roster := council.ResolveRoster(council.DefaultTemplateID)
			if sess, ok := ctrl.CurrentSession(); ok {
				roster = sess.Roster()
			}
			switch ev.Kind {
			case workflow.EventAgentStarted:
				fmt.Fprintf(w, "%s is thinking...\n", roster.DisplayName(ev.Role))
			case workflow.EventAgentCommitted:
				if ev.Err != nil {
					fmt.Fprintf(w, "%s failed: %v\n", roster.DisplayName(ev.Role), ev.Err)
				}
			}
		}
	}
}
