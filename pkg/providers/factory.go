package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotsetgreg/gembot/pkg/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

func NormalizeProviderName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProviderGemini
	}
	return name
}

// CreateProvider builds the configured LLM provider. Unknown names and
// missing credentials are construction errors, not runtime errors.
func CreateProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	name := NormalizeProviderName(cfg.Agent.Provider)

	switch name {
	case ProviderGemini:
		return NewGemini(ctx, cfg.Providers.Gemini.APIKey, cfg.Agent.Model,
			cfg.Agent.Temperature, cfg.Agent.MaxTokens)
	case ProviderOpenAI:
		return NewOpenAI(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase,
			cfg.Agent.Model, cfg.Agent.Temperature, cfg.Agent.MaxTokens)
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s, %s)", name, ProviderGemini, ProviderOpenAI)
	}
}
