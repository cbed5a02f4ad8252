package agent

import (
	"regexp"
	"strings"
)

// toolDirectivePattern matches the two-line tool directive the model emits.
// Tool input is the remainder of the Action Input line; multi-line input is
// not supported. Only the first match in a response is honored.
var toolDirectivePattern = regexp.MustCompile(`Action: (\w+)\nAction Input: (.*)`)

// ToolDirective is a parsed tool invocation request.
type ToolDirective struct {
	Name  string
	Input string
}

// ParseToolDirective extracts a tool directive from raw model output.
// Returns ok=false when no well-formed directive is present.
func ParseToolDirective(response string) (ToolDirective, bool) {
	m := toolDirectivePattern.FindStringSubmatch(response)
	if len(m) < 3 {
		return ToolDirective{}, false
	}
	return ToolDirective{
		Name:  strings.TrimSpace(m[1]),
		Input: strings.TrimSpace(m[2]),
	}, true
}
