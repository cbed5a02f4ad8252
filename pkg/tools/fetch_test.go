package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestURLFetchTool_TruncatesLongBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 5000)))
	}))
	defer server.Close()

	tool := NewURLFetchTool(1000, time.Second)
	result := tool.Execute(context.Background(), server.URL)

	if result.IsError {
		t.Fatalf("expected success, got error: %s", result.Display)
	}
	if !strings.HasPrefix(result.Display, "Content from "+server.URL) {
		t.Fatalf("missing content prefix: %q", result.Display[:40])
	}
	if !strings.HasSuffix(result.Display, "...") {
		t.Fatalf("expected truncation marker, got suffix %q", result.Display[len(result.Display)-10:])
	}
	if got := strings.Count(result.Display, "a"); got != 1000 {
		t.Fatalf("expected 1000 body chars, got %d", got)
	}
}

func TestURLFetchTool_ShortBodyNotTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer server.Close()

	tool := NewURLFetchTool(1000, time.Second)
	result := tool.Execute(context.Background(), server.URL)

	if result.IsError {
		t.Fatalf("expected success, got error: %s", result.Display)
	}
	if strings.HasSuffix(result.Display, "...") {
		t.Fatalf("short body should not be truncated: %q", result.Display)
	}
	if !strings.Contains(result.Display, "hello world") {
		t.Fatalf("body missing from display: %q", result.Display)
	}
}

func TestURLFetchTool_HTTPErrorBecomesDegradedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	tool := NewURLFetchTool(1000, time.Second)
	result := tool.Execute(context.Background(), server.URL)

	if !result.IsError {
		t.Fatalf("expected error result for HTTP 500")
	}
	if !strings.Contains(result.Display, "Error fetching URL") {
		t.Fatalf("display should describe failure: %q", result.Display)
	}
}

func TestURLFetchTool_TransportFailureBecomesDegradedResult(t *testing.T) {
	// Server is closed before the request, forcing a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tool := NewURLFetchTool(1000, time.Second)
	result := tool.Execute(context.Background(), url)

	if result == nil {
		t.Fatalf("tool must never return nil")
	}
	if !result.IsError {
		t.Fatalf("expected error result for transport failure")
	}
	if !strings.Contains(result.Display, "Error") {
		t.Fatalf("display should contain an error indicator: %q", result.Display)
	}
}

func TestURLFetchTool_EmptyInput(t *testing.T) {
	tool := NewURLFetchTool(1000, time.Second)
	result := tool.Execute(context.Background(), "")

	if !result.IsError {
		t.Fatalf("expected error result for empty input")
	}
}
