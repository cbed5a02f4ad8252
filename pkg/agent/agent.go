package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/dotsetgreg/gembot/pkg/logger"
	"github.com/dotsetgreg/gembot/pkg/memory"
	"github.com/dotsetgreg/gembot/pkg/providers"
	"github.com/dotsetgreg/gembot/pkg/tools"
	"github.com/dotsetgreg/gembot/pkg/utils"
)

// Agent drives the request/response/tool cycle for one channel. It owns the
// channel's conversation memory and shares the tool registry and provider
// with every other agent.
//
// A per-agent mutex serializes turns, so concurrent messages in the same
// channel are processed in FIFO order instead of interleaving memory writes.
type Agent struct {
	provider providers.Provider
	memory   *memory.ConversationMemory
	tools    *tools.ToolRegistry
	persona  string
	mu       sync.Mutex
}

func New(provider providers.Provider, mem *memory.ConversationMemory, registry *tools.ToolRegistry, persona string) *Agent {
	if persona == "" {
		persona = DefaultPersona
	}
	return &Agent{
		provider: provider,
		memory:   mem,
		tools:    registry,
		persona:  persona,
	}
}

// Memory exposes the agent's conversation memory for inspection.
func (a *Agent) Memory() *memory.ConversationMemory {
	return a.memory
}

// GetResponse runs one full turn: record the user message, query the model,
// run at most one tool round-trip, record and return the final answer.
//
// The user message is appended to memory before any I/O, so a failed model
// call never loses the turn from the log. Model transport errors propagate
// to the caller; tool failures degrade into observations and the turn
// continues.
func (a *Agent) GetResponse(ctx context.Context, author, message string, images []providers.ImagePart) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.memory.Add(author, message)

	prompt := BuildPrompt(a.persona, a.tools.Summaries(), a.memory.Render(), author, message)
	response, err := a.provider.Generate(ctx, providers.Request{Prompt: prompt, Images: images})
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}

	logger.DebugCF("agent", "Model raw response", map[string]interface{}{
		"preview": utils.Truncate(response, 120),
	})

	if directive, ok := ParseToolDirective(response); ok {
		if _, exists := a.tools.Get(directive.Name); exists {
			result := a.tools.Execute(ctx, directive.Name, directive.Input)
			observation := fmt.Sprintf("Tool %s used. Observation: %s", directive.Name, result.Display)
			a.memory.Add("AI", observation)

			followup := BuildPrompt(a.persona, a.tools.Summaries(), a.memory.Render(), author, message)
			response, err = a.provider.Generate(ctx, providers.Request{Prompt: followup, Images: images})
			if err != nil {
				return "", fmt.Errorf("generate follow-up response: %w", err)
			}
		} else {
			// The model named a tool we don't have. Fall through and treat
			// the original response as final.
			logger.WarnCF("agent", "Model requested unknown tool", map[string]interface{}{
				"tool": directive.Name,
			})
		}
	}

	a.memory.Add("AI", response)
	return response, nil
}
