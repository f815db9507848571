package ui

import (
	"slices"
	"testing"

	"github.com/pstuifzand/renderwatch/internal/history"
)

func TestHistorySkipsEmptyAndRepeats(t *testing.T) {
	h := NewHistory(10)
	h.Add("")
	h.Add("app")
	h.Add("app")
	h.Add("todo")

	if got := h.Entries(); !slices.Equal(got, []string{"app", "todo"}) {
		t.Errorf("Expected [app todo], got %v", got)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(2)
	for _, q := range []string{"a", "b", "c"} {
		h.Add(q)
	}

	if got := h.Entries(); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Expected [b c], got %v", got)
	}
}

func TestHistoryNextWithoutNavigation(t *testing.T) {
	h := NewHistory(10)
	h.Add("app")

	if _, ok := h.Next(); ok {
		t.Error("Next should do nothing before Previous")
	}
}

func TestHistoryPersisted(t *testing.T) {
	m, err := history.NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	h, err := LoadHistory(10, m, FilterHistoryFile)
	if err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}
	h.Add("app")
	h.Add("todo")

	reloaded, err := LoadHistory(1, m, FilterHistoryFile)
	if err != nil {
		t.Fatalf("Failed to reload history: %v", err)
	}
	if got := reloaded.Entries(); !slices.Equal(got, []string{"todo"}) {
		t.Errorf("Expected [todo], got %v", got)
	}
}
