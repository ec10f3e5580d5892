package repl

import (
	"reflect"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h == nil {
		t.Fatal("NewHistory returned nil")
	}
	if h.maxSize != defaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, defaultHistorySize)
	}
	if h.entries == nil {
		t.Error("entries should be initialized")
	}
}

func TestHistory_Add(t *testing.T) {
	h := NewHistory()

	h.Add("fs ls /")
	h.Add("snapshot create before")
	h.Add("fs rm /tmp")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want %d", h.Len(), 3)
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := &History{
		entries: make([]string, 0),
		maxSize: 3,
	}

	h.Add("cmd1")
	h.Add("cmd2")
	h.Add("cmd3")
	h.Add("cmd4") // Should evict cmd1

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want %d", h.Len(), 3)
	}

	// cmd1 should be evicted
	if h.entries[0] != "cmd2" {
		t.Errorf("entries[0] = %q, want %q", h.entries[0], "cmd2")
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory()
	h.Add("first")
	h.Add("second")
	h.Add("third")

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"}, // Most recent
		{1, "second"},
		{2, "first"},
		{3, ""},   // Out of range
		{-1, ""},  // Negative index
		{100, ""}, // Way out of range
	}

	for _, tt := range tests {
		got := h.Get(tt.index)
		if got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_Get_Empty(t *testing.T) {
	h := NewHistory()

	if got := h.Get(0); got != "" {
		t.Errorf("Get(0) on empty history = %q, want empty", got)
	}
}

func TestHistory_All(t *testing.T) {
	h := NewHistory()
	h.Add("first")
	h.Add("second")

	got := h.All()
	want := []string{"first", "second"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}

	// All returns a copy; mutating it must not touch the history
	got[0] = "mutated"
	if h.Get(1) != "first" {
		t.Errorf("Get(1) = %q after mutating All() result, want %q", h.Get(1), "first")
	}
}

func TestHistory_All_Empty(t *testing.T) {
	h := NewHistory()

	if got := h.All(); len(got) != 0 {
		t.Errorf("All() on empty history = %v, want empty", got)
	}
}
