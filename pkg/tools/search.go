package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const customSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleSearchTool queries the Google Custom Search JSON API and returns
// concatenated result snippets.
type GoogleSearchTool struct {
	apiKey     string
	engineID   string
	maxResults int
	endpoint   string
	client     *http.Client
}

func NewGoogleSearchTool(apiKey, engineID string, maxResults int) *GoogleSearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &GoogleSearchTool{
		apiKey:     apiKey,
		engineID:   engineID,
		maxResults: maxResults,
		endpoint:   customSearchEndpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *GoogleSearchTool) Name() string {
	return "google_search"
}

func (t *GoogleSearchTool) Description() string {
	return "Searches Google for the given query."
}

func (t *GoogleSearchTool) Execute(ctx context.Context, input string) *ToolResult {
	query := strings.TrimSpace(input)
	if query == "" {
		return ErrorResult("Error: no search query provided")
	}

	if t.apiKey == "" || t.engineID == "" {
		return ErrorResult("Error: search API key or engine ID not configured")
	}

	params := url.Values{}
	params.Set("key", t.apiKey)
	params.Set("cx", t.engineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", t.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return ErrorResult(fmt.Sprintf("Error creating search request: %v", err))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return ErrorResult(fmt.Sprintf("Error searching for %q: %v", query, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrorResult(fmt.Sprintf("Error searching for %q: HTTP %d", query, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrorResult(fmt.Sprintf("Error reading search response: %v", err))
	}

	var result struct {
		Items []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return ErrorResult(fmt.Sprintf("Error parsing search response: %v", err))
	}

	if len(result.Items) == 0 {
		return TextResult(fmt.Sprintf("No results found for %q", query))
	}

	snippets := make([]string, 0, len(result.Items))
	for i, item := range result.Items {
		if i >= t.maxResults {
			break
		}
		snippets = append(snippets, item.Snippet)
	}

	return TextResult(strings.Join(snippets, "\n"))
}
