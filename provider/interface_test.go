package provider_test

import (
	"context"
	"testing"
	"time"

	"council/provider"
	"council/provider/testutil"
)

// Compile-time checks that every backend satisfies the contract.
var (
	_ provider.Provider = (*provider.OllamaProvider)(nil)
	_ provider.Provider = (*provider.OpenAIProvider)(nil)
	_ provider.Provider = (*provider.OpenRouterProvider)(nil)
	_ provider.Provider = (*provider.AnthropicProvider)(nil)
	_ provider.Provider = (*provider.GeminiProvider)(nil)
	_ provider.Provider = (*provider.RateLimited)(nil)
	_ provider.Provider = (*testutil.MockProvider)(nil)
)

// TestProviderContract defines the contract all providers must satisfy.
func TestProviderContract(t *testing.T) {
	tests := []struct {
		name     string
		provider provider.Provider
	}{
		{"Mock", testutil.NewMockProvider("test-model")},
		{"RateLimitedMock", provider.NewRateLimited(testutil.NewMockProvider("test-model"), 6000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Run("Generate", func(t *testing.T) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				reply, err := tt.provider.Generate(ctx, "Hello", 0.7)
				if err != nil {
					t.Errorf("Generate() error = %v", err)
				}
				if reply == "" {
					t.Error("Generate() returned empty reply")
				}
			})
			t.Run("ModelManagement", func(t *testing.T) {
				if tt.provider.GetModel() == "" {
					t.Error("GetModel() returned empty string")
				}
				tt.provider.SetModel("new-test-model")
				if got := tt.provider.GetModel(); got != "new-test-model" {
					t.Errorf("After SetModel, GetModel() = %s, want new-test-model", got)
				}
			})
			t.Run("HealthCheck", func(t *testing.T) {
				msg := provider.Check(context.Background(), tt.name, tt.provider)
				if !msg.Valid || msg.Err != nil {
					t.Errorf("Check() = %+v, want valid", msg)
				}
			})
		})
	}
}

func TestMockRecordsCalls(t *testing.T) {
	m := testutil.NewMockProvider("m")
	m.GenerateFunc = testutil.Scripted("one", "two")

	ctx := context.Background()
	first, _ := m.Generate(ctx, "p1", 0.7)
	second, _ := m.Generate(ctx, "p2", 0.5)
	_, err := m.Generate(ctx, "p3", 0.7)

	if first != "one" || second != "two" {
		t.Errorf("replies = %q, %q", first, second)
	}
	if err != testutil.ErrScriptExhausted {
		t.Errorf("third call error = %v, want ErrScriptExhausted", err)
	}

	calls := m.Calls()
	if len(calls) != 3 {
		t.Fatalf("len(Calls()) = %d, want 3", len(calls))
	}
	if calls[1].Prompt != "p2" || calls[1].Temperature != 0.5 {
		t.Errorf("calls[1] = %+v", calls[1])
	}
}
