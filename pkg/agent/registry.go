package agent

import (
	"sync"

	"github.com/dotsetgreg/gembot/pkg/logger"
	"github.com/dotsetgreg/gembot/pkg/memory"
	"github.com/dotsetgreg/gembot/pkg/providers"
	"github.com/dotsetgreg/gembot/pkg/tools"
)

// Registry maps session keys to agents, creating them lazily on first
// message. Get-or-create is guarded so two concurrent first messages in a
// new channel resolve to the same agent.
type Registry struct {
	provider   providers.Provider
	tools      *tools.ToolRegistry
	persona    string
	windowSize int
	agents     map[string]*Agent
	mu         sync.Mutex
}

func NewRegistry(provider providers.Provider, toolRegistry *tools.ToolRegistry, persona string, windowSize int) *Registry {
	return &Registry{
		provider:   provider,
		tools:      toolRegistry,
		persona:    persona,
		windowSize: windowSize,
		agents:     make(map[string]*Agent),
	}
}

func (r *Registry) GetOrCreate(sessionKey string) *Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent, ok := r.agents[sessionKey]; ok {
		return agent
	}

	logger.InfoCF("agent", "Creating agent for new session", map[string]interface{}{
		"session_key": sessionKey,
	})
	agent := New(r.provider, memory.NewConversationMemory(r.windowSize), r.tools, r.persona)
	r.agents[sessionKey] = agent
	return agent
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}
