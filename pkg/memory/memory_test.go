package memory

import (
	"fmt"
	"testing"
)

func TestConversationMemory_WindowProperty(t *testing.T) {
	for _, tc := range []struct {
		appends int
		window  int
		want    int
	}{
		{0, 5, 0},
		{3, 5, 3},
		{5, 5, 5},
		{6, 5, 5},
		{100, 20, 20},
		{1, 1, 1},
		{7, 1, 1},
	} {
		m := NewConversationMemory(tc.window)
		for i := 0; i < tc.appends; i++ {
			m.Add("user", fmt.Sprintf("msg-%d", i))
		}

		history := m.History()
		if len(history) != tc.want {
			t.Fatalf("appends=%d window=%d: len(history) = %d, want %d",
				tc.appends, tc.window, len(history), tc.want)
		}

		// Retained entries must be the last K appended, in append order.
		first := tc.appends - tc.want
		for i, entry := range history {
			want := fmt.Sprintf("msg-%d", first+i)
			if entry.Text != want {
				t.Fatalf("appends=%d window=%d: history[%d].Text = %q, want %q",
					tc.appends, tc.window, i, entry.Text, want)
			}
		}
	}
}

func TestConversationMemory_EvictsOldestFirst(t *testing.T) {
	m := NewConversationMemory(3)
	m.Add("alice", "hi")
	m.Add("AI", "hello")
	m.Add("bob", "yo")
	m.Add("AI", "sup")

	history := m.History()
	want := []Entry{
		{Author: "AI", Text: "hello"},
		{Author: "bob", Text: "yo"},
		{Author: "AI", Text: "sup"},
	}
	if len(history) != len(want) {
		t.Fatalf("len(history) = %d, want %d", len(history), len(want))
	}
	for i := range want {
		if history[i] != want[i] {
			t.Fatalf("history[%d] = %+v, want %+v", i, history[i], want[i])
		}
	}
}

func TestConversationMemory_HistoryIsACopy(t *testing.T) {
	m := NewConversationMemory(5)
	m.Add("alice", "hi")

	history := m.History()
	history[0].Text = "tampered"

	if got := m.History()[0].Text; got != "hi" {
		t.Fatalf("internal storage mutated through History(): %q", got)
	}
}

func TestConversationMemory_Render(t *testing.T) {
	m := NewConversationMemory(5)
	m.Add("alice", "hi")
	m.Add("AI", "hello")

	if got, want := m.Render(), "alice: hi\nAI: hello"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestConversationMemory_ZeroWindowFallsBackToDefault(t *testing.T) {
	m := NewConversationMemory(0)
	if m.WindowSize() != DefaultWindowSize {
		t.Fatalf("WindowSize() = %d, want %d", m.WindowSize(), DefaultWindowSize)
	}
}
