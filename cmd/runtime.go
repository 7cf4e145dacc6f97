package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"council/config"
	"council/model"
	"council/provider"
	"council/storage"
)

// Runtime bundles everything a command needs to drive the council.
type Runtime struct {
	Config     *config.Config
	Store      *storage.SessionStore
	Provider   provider.Provider
	Controller *model.Controller

	logCloser io.Closer
}

// Setup loads configuration, opens logging and the session store. When
// withProvider is set it also resolves the default provider and builds the
// controller. console, when non-nil, mirrors log records for commands that
// own no terminal UI.
func Setup(c *cli.Context, console io.Writer, withProvider bool) (*Runtime, error) {
	cfg, err := config.Load(c.String("data-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return setupWithConfig(c, cfg, console, withProvider)
}

func setupWithConfig(c *cli.Context, cfg *config.Config, console io.Writer, withProvider bool) (*Runtime, error) {
	closer, err := config.InitLogger(cfg.DataDir(), c.Bool("debug"), console)
	if err != nil {
		return nil, err
	}

	backend, err := storage.OpenBackend(storage.BackendKind(cfg.StorageBackend), cfg.DataDir())
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}
	rt := &Runtime{
		Config:    cfg,
		Store:     storage.NewSessionStore(backend),
		logCloser: closer,
	}
	if !withProvider {
		return rt, nil
	}

	prov, err := provider.Resolve(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Provider = prov
	rt.Controller = model.NewController(cfg, rt.Store, prov)
	return rt, nil
}

// Close flushes the store and closes the log file.
func (r *Runtime) Close() {
	if err := r.Store.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close session store")
	}
	if r.logCloser != nil {
		r.logCloser.Close()
	}
}

// withRuntime adapts an action that needs a Runtime.
func withRuntime(withProvider bool, action func(c *cli.Context, rt *Runtime) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := Setup(c, nil, withProvider)
		if err != nil {
			return err
		}
		defer rt.Close()
		return action(c, rt)
	}
}
