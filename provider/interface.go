// Package provider defines the abstract interface for LLM backends.
//
// The council talks to every model through a single blocking call: one
// compiled prompt in, one complete reply out. Provider implementations wrap
// the vendor SDKs (Ollama, OpenAI, OpenRouter, Anthropic, Gemini) behind that
// call so the workflow stays backend-agnostic and tests can substitute
// testutil.MockProvider.
//
// # Architecture
//
//   - provider.Provider defines the contract
//   - provider.OllamaProvider, OpenAIProvider, OpenRouterProvider,
//     AnthropicProvider and GeminiProvider implement it
//   - provider.RateLimited caps request rate for any Provider
//   - provider.NewProvider() creates providers from Config
//   - provider.Resolve() builds the configured default provider
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.1",
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Generate(ctx, prompt, 0.7)
package provider

import (
	"context"

	"council/ollama"
)

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeGemini     ProviderType = "gemini"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}

// Provider is a text-generation backend.
type Provider interface {
	// Generate sends prompt as a single user message and returns the full
	// reply text.
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)

	// GetModel returns the model name used for API calls.
	GetModel() string

	// GetDisplayName returns the model name formatted for UI display.
	GetDisplayName() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
