package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"council/config"
	"council/storage"
	"council/ui"
)

// TUICommand starts the interactive interface. It is also the app's
// default action.
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive council interface",
		Action: RunTUI,
	}
}

func RunTUI(c *cli.Context) error {
	cfg, err := config.Load(c.String("data-dir"))
	if err != nil {
		showError("Configuration Error", err.Error())
		return err
	}

	// Check if another instance owns this data directory (single-instance enforcement)
	lock := storage.NewInstanceLock(cfg.DataDir())
	isLocked, runningPID, err := lock.Check()
	if err != nil {
		return fmt.Errorf("failed to check instance lock: %w", err)
	}
	if isLocked {
		p := tea.NewProgram(ui.NewInstanceLockedModal(runningPID, cfg.DataDir()), tea.WithAltScreen())
		final, err := p.Run()
		if err != nil {
			return err
		}
		if m, ok := final.(ui.InstanceLockedModal); !ok || !m.ForceDelete() {
			return nil
		}
		if err := lock.Release(); err != nil {
			return fmt.Errorf("failed to remove lock file: %w", err)
		}
	}

	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to lock data directory: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Msg("failed to release instance lock")
		}
	}()

	rt, err := setupWithConfig(c, cfg, nil, true)
	if err != nil {
		showError("Startup Error", err.Error())
		return err
	}
	defer rt.Close()

	log.Info().Str("version", c.App.Version).Str("data_dir", cfg.DataDir()).Msg("council TUI starting")

	p := tea.NewProgram(
		ui.NewAppView(rt.Controller, rt.Config.DefaultProvider, rt.Provider),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running council: %w", err)
	}
	return nil
}

// showError displays a blocking error modal before the main UI exists.
func showError(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
