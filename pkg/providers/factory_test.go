package providers

import (
	"context"
	"testing"

	"github.com/dotsetgreg/gembot/pkg/config"
)

func TestNormalizeProviderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ProviderGemini},
		{in: "gemini", want: ProviderGemini},
		{in: "  Gemini ", want: ProviderGemini},
		{in: "OpenAI", want: ProviderOpenAI},
		{in: "llama", want: "llama"},
	}

	for _, tt := range tests {
		if got := NormalizeProviderName(tt.in); got != tt.want {
			t.Fatalf("NormalizeProviderName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateProvider_GeminiByDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Agent.Provider = ""
	cfg.Providers.Gemini.APIKey = "test-key"

	provider, err := CreateProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	if provider.Name() != "gemini" {
		t.Fatalf("provider name = %q", provider.Name())
	}
}

func TestCreateProvider_OpenAI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Agent.Provider = "openai"
	cfg.Providers.OpenAI.APIKey = "test-key"

	provider, err := CreateProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	if provider.Name() != "openai" {
		t.Fatalf("provider name = %q", provider.Name())
	}
}

func TestCreateProvider_UnknownNameFails(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Agent.Provider = "llama"

	if _, err := CreateProvider(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestCreateProvider_MissingCredentialsFail(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Agent.Provider = "gemini"
	if _, err := CreateProvider(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing gemini key")
	}

	cfg.Agent.Provider = "openai"
	if _, err := CreateProvider(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing openai key")
	}
}
