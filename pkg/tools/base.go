package tools

import "context"

// Tool is the interface that all tools must implement. Execute takes the raw
// single-line input from the model's Action Input directive and always
// returns a result: failures are reported through the result's display text,
// never as a hard error to the orchestrator.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) *ToolResult
}

// ToolResult is the only data a tool may return to the orchestrator.
type ToolResult struct {
	// Display is the observation text fed back into conversation history.
	Display string
	// IsError marks degraded results for logging; the orchestrator treats
	// error and success observations identically.
	IsError bool
}

func TextResult(display string) *ToolResult {
	return &ToolResult{Display: display}
}

func ErrorResult(display string) *ToolResult {
	return &ToolResult{Display: display, IsError: true}
}
