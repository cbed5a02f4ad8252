package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini", cfg.Agent.Provider)
	assert.Equal(t, 20, cfg.Agent.WindowSize)
	assert.Equal(t, 2000, cfg.Channels.Discord.MaxMessageLength)
	assert.Equal(t, 500, cfg.Channels.Discord.SendDelayMS)
	assert.Equal(t, 1000, cfg.Tools.Fetch.MaxChars)
	assert.False(t, cfg.Heartbeat.Enabled)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Agent.WindowSize, cfg.Agent.WindowSize)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"agent": {"provider": "openai", "model": "gpt-4o-mini", "window_size": 6},
		"channels": {"discord": {"token": "tok", "allow_from": ["123", 456]}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Agent.Provider)
	assert.Equal(t, 6, cfg.Agent.WindowSize)
	assert.Equal(t, "tok", cfg.Channels.Discord.Token)
	// allow_from mixes strings and numbers; both normalize to strings.
	assert.Equal(t, FlexibleStringSlice{"123", "456"}, cfg.Channels.Discord.AllowFrom)
	// Untouched sections keep their defaults.
	assert.Equal(t, 2000, cfg.Channels.Discord.MaxMessageLength)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"providers": {"gemini": {"api_key": "from-file"}}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0600))

	t.Setenv("GEMBOT_PROVIDERS_GEMINI_API_KEY", "from-env")
	t.Setenv("GEMBOT_AGENT_WINDOW_SIZE", "8")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Providers.Gemini.APIKey)
	assert.Equal(t, 8, cfg.Agent.WindowSize)
}

func TestLoadConfig_RejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Agent.Model = "gemini-2.0-flash"
	cfg.Providers.Gemini.APIKey = "secret"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Agent.Model, loaded.Agent.Model)
	assert.Equal(t, "secret", loaded.Providers.Gemini.APIKey)
}

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		gemini   string
		openai   string
		wantErr  bool
	}{
		{name: "gemini with key", provider: "gemini", gemini: "k", wantErr: false},
		{name: "gemini missing key", provider: "gemini", wantErr: true},
		{name: "empty provider defaults to gemini", provider: "", gemini: "k", wantErr: false},
		{name: "openai with key", provider: "openai", openai: "k", wantErr: false},
		{name: "openai missing key", provider: "openai", wantErr: true},
		{name: "unknown provider", provider: "llama", gemini: "k", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Agent.Provider = tt.provider
			cfg.Providers.Gemini.APIKey = tt.gemini
			cfg.Providers.OpenAI.APIKey = tt.openai

			err := cfg.ValidateProvider()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDiscord(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ValidateDiscord())

	cfg.Channels.Discord.Token = "tok"
	assert.NoError(t, cfg.ValidateDiscord())
}

func TestFlexibleStringSlice_RejectsNonArray(t *testing.T) {
	var f FlexibleStringSlice
	assert.Error(t, json.Unmarshal([]byte(`"not-an-array"`), &f))
}
