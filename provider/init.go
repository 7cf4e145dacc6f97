package provider

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"council/config"
)

// InitializeProviders creates every enabled provider. Ollama is always
// attempted; cloud providers without an API key are skipped with a warning
// so the app can still start.
func InitializeProviders(cfg *config.Config) map[string]Provider {
	providers := make(map[string]Provider)

	ids := []string{"ollama"}
	for _, pc := range cfg.Providers {
		ids = append(ids, pc.ID)
	}

	for _, id := range ids {
		settings, err := cfg.ProviderSettings(id)
		if err != nil || !settings.Enabled {
			continue
		}
		if _, seen := providers[id]; seen {
			continue
		}

		p, err := NewProvider(Config{
			Type:    MapProviderIDToType(id),
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			APIKey:  cfg.APIKey(id),
		})
		if err != nil {
			log.Warn().Err(err).Str("provider", id).Msg("failed to initialize provider")
			continue
		}
		providers[id] = p
		log.Debug().Str("provider", id).Str("model", settings.Model).Msg("initialized provider")
	}

	return providers
}

// Resolve builds the default provider, wrapped in a rate limiter when
// requests_per_minute is set.
func Resolve(cfg *config.Config) (Provider, error) {
	settings, err := cfg.ProviderSettings(cfg.DefaultProvider)
	if err != nil {
		return nil, err
	}

	p, err := NewProvider(Config{
		Type:    MapProviderIDToType(settings.ID),
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		APIKey:  cfg.APIKey(settings.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", settings.ID, err)
	}

	log.Info().
		Str("provider", settings.ID).
		Str("model", p.GetModel()).
		Int("requests_per_minute", cfg.RequestsPerMinute).
		Msg("council provider ready")

	return NewRateLimited(p, cfg.RequestsPerMinute), nil
}
