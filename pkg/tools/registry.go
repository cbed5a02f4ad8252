package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dotsetgreg/gembot/pkg/logger"
	"github.com/dotsetgreg/gembot/pkg/utils"
)

// ToolRegistry is a name-keyed table of tools, built once at startup.
// Names are unique; registering the same name twice replaces the tool.
type ToolRegistry struct {
	tools map[string]Tool
	names []string
	mu    sync.RWMutex
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

func (r *ToolRegistry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; !exists {
		r.names = append(r.names, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Execute runs a named tool and logs timing. An unknown name yields an
// error result rather than a panic so callers can decide how to degrade.
func (r *ToolRegistry) Execute(ctx context.Context, name, input string) *ToolResult {
	logger.InfoCF("tool", "Tool execution started", map[string]interface{}{
		"tool":  name,
		"input": utils.Truncate(input, 120),
	})

	tool, ok := r.Get(name)
	if !ok {
		logger.ErrorCF("tool", "Tool not found", map[string]interface{}{
			"tool": name,
		})
		return ErrorResult(fmt.Sprintf("tool %q not found", name))
	}

	start := time.Now()
	result := tool.Execute(ctx, input)
	duration := time.Since(start)
	if result == nil {
		logger.ErrorCF("tool", "Tool returned nil result", map[string]interface{}{
			"tool": name,
		})
		return ErrorResult(fmt.Sprintf("tool %q returned no result", name))
	}

	if result.IsError {
		logger.ErrorCF("tool", "Tool execution failed", map[string]interface{}{
			"tool":        name,
			"duration_ms": duration.Milliseconds(),
			"error":       result.Display,
		})
	} else {
		logger.InfoCF("tool", "Tool execution completed", map[string]interface{}{
			"tool":          name,
			"duration_ms":   duration.Milliseconds(),
			"result_length": len(result.Display),
		})
	}

	return result
}

// List returns registered tool names in registration order.
func (r *ToolRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Summaries returns the "name: description" block included in prompts,
// one tool per line, in registration order. Deterministic for identical
// registration sequences.
func (r *ToolRegistry) Summaries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]string, 0, len(r.names))
	for _, name := range r.names {
		summaries = append(summaries, fmt.Sprintf("%s: %s", name, r.tools[name].Description()))
	}
	return summaries
}
