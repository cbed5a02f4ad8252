package agent

import "testing"

func TestParseToolDirective(t *testing.T) {
	testcases := []struct {
		name      string
		response  string
		wantOK    bool
		wantTool  string
		wantInput string
	}{
		{
			name:      "well-formed directive",
			response:  "Thought: Do I need to use a tool? Yes\nAction: google_search\nAction Input: weather tomorrow",
			wantOK:    true,
			wantTool:  "google_search",
			wantInput: "weather tomorrow",
		},
		{
			name:     "plain answer",
			response: "The weather tomorrow looks sunny.",
			wantOK:   false,
		},
		{
			name:     "action line without input line",
			response: "Action: google_search\nand then some prose",
			wantOK:   false,
		},
		{
			name: "hallucinated full scratchpad still parses",
			// The model sometimes emits the whole scratchpad including a
			// fake Observation; the two-line shape must still extract the
			// directive.
			response:  "Thought: ...\nAction: url_fetch\nAction Input: http://example.com\nObservation: ...",
			wantOK:    true,
			wantTool:  "url_fetch",
			wantInput: "http://example.com",
		},
		{
			name:      "only first directive honored",
			response:  "Action: url_fetch\nAction Input: http://first.example\nAction: google_search\nAction Input: second",
			wantOK:    true,
			wantTool:  "url_fetch",
			wantInput: "http://first.example",
		},
		{
			name:      "input is rest of line only",
			response:  "Action: url_fetch\nAction Input: http://example.com\nmore input on next line",
			wantOK:    true,
			wantTool:  "url_fetch",
			wantInput: "http://example.com",
		},
		{
			name:     "empty response",
			response: "",
			wantOK:   false,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			directive, ok := ParseToolDirective(tc.response)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if directive.Name != tc.wantTool {
				t.Errorf("Name = %q, want %q", directive.Name, tc.wantTool)
			}
			if directive.Input != tc.wantInput {
				t.Errorf("Input = %q, want %q", directive.Input, tc.wantInput)
			}
		})
	}
}
