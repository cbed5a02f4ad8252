package memory

import (
	"fmt"
	"strings"
	"sync"
)

const DefaultWindowSize = 20

// Entry is one line of conversation history.
type Entry struct {
	Author string
	Text   string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", e.Author, e.Text)
}

// ConversationMemory is a fixed-capacity rolling log of conversation entries
// for a single channel. Insertion always appends; overflow evicts oldest
// first. Safe for concurrent use.
type ConversationMemory struct {
	windowSize int
	entries    []Entry
	mu         sync.Mutex
}

func NewConversationMemory(windowSize int) *ConversationMemory {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &ConversationMemory{
		windowSize: windowSize,
		entries:    make([]Entry, 0, windowSize),
	}
}

// Add appends an entry, evicting from the front if the window overflows.
func (m *ConversationMemory) Add(author, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{Author: author, Text: text})
	if overflow := len(m.entries) - m.windowSize; overflow > 0 {
		m.entries = append(m.entries[:0], m.entries[overflow:]...)
	}
}

// History returns the retained entries oldest-to-newest. The returned slice
// is a copy; mutating it cannot bypass window enforcement.
func (m *ConversationMemory) History() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Render serializes the history for prompt inclusion, one entry per line.
func (m *ConversationMemory) Render() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// Len reports the number of retained entries.
func (m *ConversationMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// WindowSize reports the configured capacity.
func (m *ConversationMemory) WindowSize() int {
	return m.windowSize
}
