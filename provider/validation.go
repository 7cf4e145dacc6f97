package provider

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 10 * time.Second

// PingProviderMsg is sent when a provider ping completes.
type PingProviderMsg struct {
	ProviderID string
	Model      string
	Valid      bool
	Err        error
}

// PingProvider checks that p is reachable. The TUI runs it at startup so an
// unreachable backend is reported before the first run.
func PingProvider(providerID string, p Provider) tea.Cmd {
	return func() tea.Msg {
		return Check(context.Background(), providerID, p)
	}
}

// Check pings p with a bounded timeout.
func Check(ctx context.Context, providerID string, p Provider) PingProviderMsg {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("provider", providerID).Msg("provider ping failed")
		return PingProviderMsg{
			ProviderID: providerID,
			Model:      p.GetDisplayName(),
			Err:        fmt.Errorf("connection failed: %w", err),
		}
	}

	log.Debug().Str("provider", providerID).Msg("provider ping successful")
	return PingProviderMsg{
		ProviderID: providerID,
		Model:      p.GetDisplayName(),
		Valid:      true,
	}
}
