package agent

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the full prompt for one model call: persona, tool
// block, serialized history, the new turn, and the terminal marker, in that
// fixed order. Pure function; identical inputs yield identical output.
func BuildPrompt(persona string, toolSummaries []string, history, author, input string) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nTOOLS:\n------\n")
	b.WriteString(strings.Join(toolSummaries, "\n"))
	b.WriteString("\n\nPrevious conversation history:\n")
	b.WriteString(history)
	b.WriteString(fmt.Sprintf("\n\nNew input: %s: %s\nFinal Answer:", author, input))
	return b.String()
}
