package testutil

import (
	"context"
	"sync"

	"council/ollama"
)

// Call records one Generate invocation.
type Call struct {
	Prompt      string
	Temperature float64
}

// MockProvider implements provider.Provider for testing
type MockProvider struct {
	// Configurable responses
	GenerateFunc   func(ctx context.Context, prompt string, temperature float64) (string, error)
	ListModelsFunc func(ctx context.Context) ([]ollama.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	mu           sync.Mutex
	calls        []Call
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.GenerateFunc = mock.defaultGenerate
	mock.ListModelsFunc = mock.defaultListModels
	mock.PingFunc = mock.defaultPing
	return mock
}

func (m *MockProvider) defaultGenerate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return "Mock response [[CONFIDENCE: 90]]", nil
}

func (m *MockProvider) defaultListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return []ollama.ModelInfo{
		{Name: "mock-model-1", Size: 1000, Provider: "mock", InternalName: "mock-model-1"},
		{Name: "mock-model-2", Size: 2000, Provider: "mock", InternalName: "mock-model-2"},
	}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Temperature: temperature})
	m.mu.Unlock()
	return m.GenerateFunc(ctx, prompt, temperature)
}

// Calls returns the Generate invocations so far, in order.
func (m *MockProvider) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *MockProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) GetDisplayName() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
