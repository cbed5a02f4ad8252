// gembot - Discord AI assistant with conversation memory and tools
//
// License: MIT

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/dotsetgreg/gembot/pkg/agent"
	"github.com/dotsetgreg/gembot/pkg/bus"
	"github.com/dotsetgreg/gembot/pkg/channels"
	"github.com/dotsetgreg/gembot/pkg/config"
	"github.com/dotsetgreg/gembot/pkg/logger"
	"github.com/dotsetgreg/gembot/pkg/providers"
	"github.com/dotsetgreg/gembot/pkg/tools"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const appName = "gembot"

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func printVersion() {
	fmt.Printf("%s %s\n", appName, formatVersion())
	if buildTime != "" {
		fmt.Printf("  Build: %s\n", buildTime)
	}
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	fmt.Printf("  Go: %s\n", goVer)
}

func main() {
	if err := executeCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(config.DefaultPath())
}

// buildRuntime wires the shared pieces both `run` and `chat` need:
// provider, tool registry, agent registry, and the loop.
func buildRuntime(ctx context.Context, cfg *config.Config, msgBus *bus.MessageBus) (*agent.Loop, error) {
	provider, err := providers.CreateProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	toolRegistry := tools.NewToolRegistry()
	toolRegistry.Register(tools.NewGoogleSearchTool(
		cfg.Tools.Search.APIKey,
		cfg.Tools.Search.EngineID,
		cfg.Tools.Search.MaxResults,
	))
	toolRegistry.Register(tools.NewURLFetchTool(
		cfg.Tools.Fetch.MaxChars,
		fetchTimeout(cfg),
	))

	registry := agent.NewRegistry(provider, toolRegistry, cfg.Agent.Persona, cfg.Agent.WindowSize)

	logger.InfoCF("main", "Runtime initialized", map[string]interface{}{
		"provider": providers.NormalizeProviderName(cfg.Agent.Provider),
		"model":    cfg.Agent.Model,
		"tools":    toolRegistry.Count(),
	})

	return agent.NewLoop(msgBus, registry), nil
}

func fetchTimeout(cfg *config.Config) time.Duration {
	if cfg.Tools.Fetch.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Tools.Fetch.TimeoutSeconds) * time.Second
}

func onboard() error {
	configPath := config.DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
		fmt.Print("Overwrite? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Println("Aborted.")
			return nil
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("%s is ready!\n", appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add your Gemini API key to", configPath)
	fmt.Println("     Get one at: https://aistudio.google.com/apikey")
	fmt.Println("  2. Add your Discord bot token to channels.discord.token")
	fmt.Println("  3. Chat locally: gembot chat")
	fmt.Println("  4. Run the bot: gembot run")
	fmt.Println("  5. Check readiness: gembot status")
	return nil
}

func statusCmd() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	configPath := config.DefaultPath()

	fmt.Printf("%s Status\n", appName)
	fmt.Printf("Version: %s\n", formatVersion())
	fmt.Println()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗")
	}

	status := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "not set"
	}

	providerReady := cfg.ValidateProvider() == nil
	discordReady := cfg.ValidateDiscord() == nil
	searchReady := strings.TrimSpace(cfg.Tools.Search.APIKey) != "" &&
		strings.TrimSpace(cfg.Tools.Search.EngineID) != ""

	fmt.Printf("Provider: %s (%s)\n", providers.NormalizeProviderName(cfg.Agent.Provider), cfg.Agent.Model)
	fmt.Println("Provider key:", status(providerReady))
	fmt.Println("Discord token:", status(discordReady))
	fmt.Println("Search credentials:", status(searchReady))
	fmt.Println("Chat ready:", status(providerReady))
	fmt.Println("Bot ready:", status(providerReady && discordReady))
	return nil
}

func runGateway(debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateProvider(); err != nil {
		return err
	}
	if err := cfg.ValidateDiscord(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgBus := bus.NewMessageBus()
	loop, err := buildRuntime(ctx, cfg, msgBus)
	if err != nil {
		return err
	}

	channelManager, err := channels.NewManager(cfg, msgBus)
	if err != nil {
		return fmt.Errorf("create channel manager: %w", err)
	}

	if err := channelManager.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}

	go loop.Run(ctx)

	heartbeat := agent.NewHeartbeat(cfg.Heartbeat, loop, msgBus)
	go heartbeat.Run(ctx)

	fmt.Printf("%s is running. Press Ctrl+C to stop.\n", appName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	cancel()
	loop.Stop()
	if err := channelManager.StopAll(context.Background()); err != nil {
		logger.WarnCF("main", "Error during shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}
	msgBus.Close()
	fmt.Printf("%s stopped\n", appName)
	return nil
}

func runChat(message, sessionKey string, debug bool) error {
	if debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateProvider(); err != nil {
		return err
	}

	ctx := context.Background()
	msgBus := bus.NewMessageBus()
	defer msgBus.Close()

	loop, err := buildRuntime(ctx, cfg, msgBus)
	if err != nil {
		return err
	}

	if strings.TrimSpace(message) != "" {
		response, err := loop.ProcessDirect(ctx, sessionKey, "cli", message)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s %s\n", appName, response)
		return nil
	}

	fmt.Printf("%s Interactive mode (Ctrl+C to exit)\n\n", appName)
	interactiveMode(ctx, loop, sessionKey)
	return nil
}

func interactiveMode(ctx context.Context, loop *agent.Loop, sessionKey string) {
	prompt := fmt.Sprintf("%s You: ", appName)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".gembot_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveMode(ctx, loop, sessionKey)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if !handleChatLine(ctx, loop, sessionKey, line) {
			return
		}
	}
}

func simpleInteractiveMode(ctx context.Context, loop *agent.Loop, sessionKey string) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s You: ", appName)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		if !handleChatLine(ctx, loop, sessionKey, line) {
			return
		}
	}
}

// handleChatLine runs one REPL turn. Returns false when the user quits.
func handleChatLine(ctx context.Context, loop *agent.Loop, sessionKey, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}
	if input == "exit" || input == "quit" {
		fmt.Println("Goodbye!")
		return false
	}

	response, err := loop.ProcessDirect(ctx, sessionKey, "cli", input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return true
	}

	fmt.Printf("\n%s %s\n\n", appName, response)
	return true
}
