package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const fetchUserAgent = "gembot/1.0"

// URLFetchTool fetches a URL and returns a truncated slice of the body so a
// single page cannot flood the prompt.
type URLFetchTool struct {
	maxChars int
	client   *http.Client
}

func NewURLFetchTool(maxChars int, timeout time.Duration) *URLFetchTool {
	if maxChars <= 0 {
		maxChars = 1000
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &URLFetchTool{
		maxChars: maxChars,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *URLFetchTool) Name() string {
	return "url_fetch"
}

func (t *URLFetchTool) Description() string {
	return "Fetches the content of a given URL. Input should be a valid URL string."
}

func (t *URLFetchTool) Execute(ctx context.Context, input string) *ToolResult {
	if input == "" {
		return ErrorResult("Error: no URL provided")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input, nil)
	if err != nil {
		return ErrorResult(fmt.Sprintf("Error creating request for URL %s: %v", input, err))
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return ErrorResult(fmt.Sprintf("Error fetching URL %s: %v", input, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ErrorResult(fmt.Sprintf("Error fetching URL %s: HTTP %d", input, resp.StatusCode))
	}

	// Read one byte past the cap so truncation is detectable without
	// draining arbitrarily large bodies.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(t.maxChars)+1))
	if err != nil {
		return ErrorResult(fmt.Sprintf("Error reading response from URL %s: %v", input, err))
	}

	content := string(body)
	if len(content) > t.maxChars {
		content = content[:t.maxChars] + "..."
	}

	return TextResult(fmt.Sprintf("Content from %s:\n%s", input, content))
}
