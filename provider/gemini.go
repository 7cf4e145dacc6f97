package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"council/ollama"
)

// GeminiProvider implements the Provider interface using the Google Gen AI SDK
// against the Gemini API backend.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider instance.
//
// Parameters:
//   - baseURL: optional API endpoint override (empty uses the SDK default)
//   - apiKey: Gemini API key (required)
//   - model: Initial model to use (default: "gemini-2.5-flash")
func NewGeminiProvider(baseURL, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	temp := float32(temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return res.Text(), nil
}

func (p *GeminiProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	page, err := p.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Gemini models: %w", err)
	}

	result := make([]ollama.ModelInfo, 0, len(page.Items))
	for _, m := range page.Items {
		result = append(result, ollama.ModelInfo{
			Name:         strings.TrimPrefix(m.Name, "models/"),
			InternalName: m.Name,
			Provider:     "gemini",
		})
	}
	return result, nil
}

func (p *GeminiProvider) GetModel() string {
	return p.model
}

func (p *GeminiProvider) GetDisplayName() string {
	return p.model
}

func (p *GeminiProvider) SetModel(model string) {
	p.model = model
}

func (p *GeminiProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx, &genai.ListModelsConfig{PageSize: 1}); err != nil {
		return fmt.Errorf("Gemini ping failed: %w", err)
	}
	return nil
}
