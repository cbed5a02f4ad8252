package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	// Try []string first
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	// Try []interface{} to handle mixed types
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Agent     AgentConfig     `json:"agent"`
	Channels  ChannelsConfig  `json:"channels"`
	Providers ProvidersConfig `json:"providers"`
	Tools     ToolsConfig     `json:"tools"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
}

type AgentConfig struct {
	Provider    string  `json:"provider" env:"GEMBOT_AGENT_PROVIDER"`
	Model       string  `json:"model" env:"GEMBOT_AGENT_MODEL"`
	WindowSize  int     `json:"window_size" env:"GEMBOT_AGENT_WINDOW_SIZE"`
	MaxTokens   int     `json:"max_tokens" env:"GEMBOT_AGENT_MAX_TOKENS"`
	Temperature float64 `json:"temperature" env:"GEMBOT_AGENT_TEMPERATURE"`
	Persona     string  `json:"persona,omitempty" env:"GEMBOT_AGENT_PERSONA"`
}

type ChannelsConfig struct {
	Discord DiscordConfig `json:"discord"`
}

type DiscordConfig struct {
	Token            string              `json:"token" env:"GEMBOT_CHANNELS_DISCORD_TOKEN"`
	AllowFrom        FlexibleStringSlice `json:"allow_from" env:"GEMBOT_CHANNELS_DISCORD_ALLOW_FROM"`
	MaxMessageLength int                 `json:"max_message_length" env:"GEMBOT_CHANNELS_DISCORD_MAX_MESSAGE_LENGTH"`
	SendDelayMS      int                 `json:"send_delay_ms" env:"GEMBOT_CHANNELS_DISCORD_SEND_DELAY_MS"`
}

type ProvidersConfig struct {
	Gemini GeminiConfig `json:"gemini"`
	OpenAI OpenAIConfig `json:"openai"`
}

type GeminiConfig struct {
	APIKey string `json:"api_key" env:"GEMBOT_PROVIDERS_GEMINI_API_KEY"`
}

type OpenAIConfig struct {
	APIKey  string `json:"api_key" env:"GEMBOT_PROVIDERS_OPENAI_API_KEY"`
	APIBase string `json:"api_base" env:"GEMBOT_PROVIDERS_OPENAI_API_BASE"`
}

type ToolsConfig struct {
	Search SearchConfig `json:"search"`
	Fetch  FetchConfig  `json:"fetch"`
}

type SearchConfig struct {
	APIKey     string `json:"api_key" env:"GEMBOT_TOOLS_SEARCH_API_KEY"`
	EngineID   string `json:"engine_id" env:"GEMBOT_TOOLS_SEARCH_ENGINE_ID"`
	MaxResults int    `json:"max_results" env:"GEMBOT_TOOLS_SEARCH_MAX_RESULTS"`
}

type FetchConfig struct {
	MaxChars       int `json:"max_chars" env:"GEMBOT_TOOLS_FETCH_MAX_CHARS"`
	TimeoutSeconds int `json:"timeout_seconds" env:"GEMBOT_TOOLS_FETCH_TIMEOUT_SECONDS"`
}

type HeartbeatConfig struct {
	Enabled  bool   `json:"enabled" env:"GEMBOT_HEARTBEAT_ENABLED"`
	Schedule string `json:"schedule" env:"GEMBOT_HEARTBEAT_SCHEDULE"`
	Channel  string `json:"channel" env:"GEMBOT_HEARTBEAT_CHANNEL"`
	ChatID   string `json:"chat_id" env:"GEMBOT_HEARTBEAT_CHAT_ID"`
	Prompt   string `json:"prompt" env:"GEMBOT_HEARTBEAT_PROMPT"`
}

func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			WindowSize:  20,
			MaxTokens:   8192,
			Temperature: 1.0,
		},
		Channels: ChannelsConfig{
			Discord: DiscordConfig{
				Token:            "",
				AllowFrom:        FlexibleStringSlice{},
				MaxMessageLength: 2000,
				SendDelayMS:      500,
			},
		},
		Providers: ProvidersConfig{},
		Tools: ToolsConfig{
			Search: SearchConfig{
				MaxResults: 5,
			},
			Fetch: FetchConfig{
				MaxChars:       1000,
				TimeoutSeconds: 30,
			},
		},
		Heartbeat: HeartbeatConfig{
			Enabled:  false,
			Schedule: "*/30 * * * *",
			Channel:  "discord",
			Prompt:   "Check in with anything noteworthy since the last heartbeat.",
		},
	}
}

// DefaultPath is where LoadConfig looks when no explicit path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gembot", "config.json")
}

// LoadConfig reads the JSON config file and overlays GEMBOT_* environment
// variables. A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ValidateProvider checks that the active provider has credentials.
// Called at startup; failures are fatal before serving.
func (c *Config) ValidateProvider() error {
	switch strings.ToLower(strings.TrimSpace(c.Agent.Provider)) {
	case "", "gemini":
		if strings.TrimSpace(c.Providers.Gemini.APIKey) == "" {
			return fmt.Errorf("providers.gemini.api_key is required (or set GEMBOT_PROVIDERS_GEMINI_API_KEY)")
		}
	case "openai":
		if strings.TrimSpace(c.Providers.OpenAI.APIKey) == "" {
			return fmt.Errorf("providers.openai.api_key is required (or set GEMBOT_PROVIDERS_OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Agent.Provider)
	}
	return nil
}

// ValidateDiscord checks the Discord gateway credentials.
func (c *Config) ValidateDiscord() error {
	if strings.TrimSpace(c.Channels.Discord.Token) == "" {
		return fmt.Errorf("channels.discord.token is required (or set GEMBOT_CHANNELS_DISCORD_TOKEN)")
	}
	return nil
}
