package config

import (
	"fmt"
	"strings"
)

// DefaultProviders lists the cloud providers written to a fresh config.toml.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{ID: "openai", Name: "OpenAI", BaseURL: getProviderDefaultBaseURL("openai"), Model: getProviderDefaultModel("openai")},
		{ID: "openrouter", Name: "OpenRouter", BaseURL: getProviderDefaultBaseURL("openrouter"), Model: getProviderDefaultModel("openrouter")},
		{ID: "anthropic", Name: "Anthropic", BaseURL: getProviderDefaultBaseURL("anthropic"), Model: getProviderDefaultModel("anthropic")},
		{ID: "gemini", Name: "Gemini", Model: getProviderDefaultModel("gemini")},
	}
}

// ProviderSettings returns the resolved settings for providerID. Ollama is
// built from the [ollama] table; the default model override applies only to
// the default provider.
func (c *Config) ProviderSettings(providerID string) (ProviderConfig, error) {
	id := strings.ToLower(providerID)

	var pc ProviderConfig
	switch id {
	case "ollama":
		pc = ProviderConfig{ID: "ollama", Name: "Ollama", Enabled: true, BaseURL: c.OllamaHost, Model: c.OllamaModel}
	case "openai", "openrouter", "anthropic", "gemini":
		pc = ProviderConfig{ID: id, Name: getProviderDisplayName(id), BaseURL: getProviderDefaultBaseURL(id), Model: getProviderDefaultModel(id)}
		for _, p := range c.Providers {
			if p.ID != id {
				continue
			}
			pc.Enabled = p.Enabled
			if p.BaseURL != "" {
				pc.BaseURL = p.BaseURL
			}
			if p.Model != "" {
				pc.Model = p.Model
			}
			if p.Name != "" {
				pc.Name = p.Name
			}
		}
	default:
		return ProviderConfig{}, fmt.Errorf("unknown provider: %s", providerID)
	}

	if id == strings.ToLower(c.DefaultProvider) {
		// selecting a provider as the default implies enabling it
		pc.Enabled = true
		if c.DefaultModel != "" {
			pc.Model = c.DefaultModel
		}
	}
	return pc, nil
}

// UpdateProviderField updates a single provider setting and saves it.
//
// Fields:
//   - Ollama: "host", "model"
//   - Cloud providers: "apikey", "enabled", "model"
func UpdateProviderField(cfg *Config, providerID, fieldName, value string) error {
	dataDir := cfg.DataDir()
	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch providerID {
	case "ollama":
		switch fieldName {
		case "host":
			userCfg.Ollama.Host = value
			cfg.OllamaHost = value
		case "model":
			userCfg.Ollama.Model = value
			cfg.OllamaModel = value
		default:
			return fmt.Errorf("unknown field for ollama: %s", fieldName)
		}

	case "openrouter", "anthropic", "openai", "gemini":
		switch fieldName {
		case "apikey":
			if cfg.CredentialStore == nil {
				return fmt.Errorf("credential store not loaded")
			}
			if value == "" {
				if err := cfg.CredentialStore.Delete(providerID); err != nil {
					return fmt.Errorf("failed to remove API key: %w", err)
				}
			} else if err := cfg.CredentialStore.Set(providerID, value); err != nil {
				return fmt.Errorf("failed to set API key: %w", err)
			}
			if err := cfg.CredentialStore.Save(dataDir); err != nil {
				return fmt.Errorf("failed to persist credentials: %w", err)
			}
			// API keys never go to config.toml
			return nil
		case "enabled":
			updateProvider(userCfg, providerID, func(p *ProviderConfig) { p.Enabled = value == "true" })
		case "model":
			updateProvider(userCfg, providerID, func(p *ProviderConfig) { p.Model = value })
		default:
			return fmt.Errorf("unknown field for %s: %s", providerID, fieldName)
		}
		cfg.Providers = userCfg.Providers

	default:
		return fmt.Errorf("unknown provider: %s", providerID)
	}

	if err := SaveUserConfig(userCfg, dataDir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// updateProvider applies fn to the provider entry, adding it if missing.
func updateProvider(cfg *UserConfig, providerID string, fn func(*ProviderConfig)) {
	for i := range cfg.Providers {
		if cfg.Providers[i].ID == providerID {
			fn(&cfg.Providers[i])
			return
		}
	}

	p := ProviderConfig{
		ID:      providerID,
		Name:    getProviderDisplayName(providerID),
		BaseURL: getProviderDefaultBaseURL(providerID),
		Model:   getProviderDefaultModel(providerID),
	}
	fn(&p)
	cfg.Providers = append(cfg.Providers, p)
}

func getProviderDisplayName(providerID string) string {
	switch providerID {
	case "ollama":
		return "Ollama"
	case "openrouter":
		return "OpenRouter"
	case "anthropic":
		return "Anthropic"
	case "openai":
		return "OpenAI"
	case "gemini":
		return "Gemini"
	default:
		return providerID
	}
}

func getProviderDefaultBaseURL(providerID string) string {
	switch providerID {
	case "openrouter":
		return "https://openrouter.ai/api/v1"
	case "anthropic":
		return "https://api.anthropic.com"
	case "openai":
		return "https://api.openai.com/v1"
	default:
		return ""
	}
}

func getProviderDefaultModel(providerID string) string {
	switch providerID {
	case "openrouter":
		return "openai/gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-20241022"
	case "openai":
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-2.5-flash"
	default:
		return ""
	}
}

// apiKeyEnv names the environment variable that overrides a stored key.
func apiKeyEnv(providerID string) string {
	switch providerID {
	case "openai":
		return "OPENAI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}
