package ui

import (
	"log"

	"github.com/pstuifzand/renderwatch/internal/history"
)

// FilterHistoryFile is the name filter queries are saved under
const FilterHistoryFile = "filter.toml"

// History recalls previous filter queries with Up and Down
type History struct {
	entries    []string
	index      int // -1 while not navigating
	maxEntries int
	pending    string // input typed before navigation started

	manager *history.Manager
	name    string
}

// NewHistory creates an in-memory history
func NewHistory(maxEntries int) *History {
	return &History{index: -1, maxEntries: maxEntries}
}

// LoadHistory creates a history backed by manager, loading saved entries
func LoadHistory(maxEntries int, manager *history.Manager, name string) (*History, error) {
	h := NewHistory(maxEntries)
	h.manager = manager
	h.name = name

	entries, err := manager.Load(name)
	if err != nil {
		return h, err
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h, nil
}

// Add records an entry, skipping empty ones and repeats of the newest, and
// saves the list when backed by a manager
func (h *History) Add(entry string) {
	h.Reset()
	if entry == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry) {
		return
	}

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}

	if h.manager != nil {
		if err := h.manager.Save(h.name, h.entries); err != nil {
			log.Printf("Failed to save filter history: %v", err)
		}
	}
}

// Previous steps back from current, the input being edited
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index < 0:
		h.pending = current
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}
	return h.entries[h.index], true
}

// Next steps forward; past the newest entry it returns the input that was
// being edited when navigation started
func (h *History) Next() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		pending := h.pending
		h.Reset()
		return pending, true
	}
	return h.entries[h.index], true
}

// Reset ends navigation
func (h *History) Reset() {
	h.index = -1
	h.pending = ""
}

// Entries returns a copy of the entries, oldest first
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
