package sink

import (
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/renderwatch/internal/emit"
)

// Memory keeps every entry written to it. It is the backing store of the
// interactive viewer and of tests.
type Memory struct {
	mu      sync.RWMutex
	entries []emit.Entry
	limit   int
}

// NewMemory creates a recorder. A positive limit keeps only the most recent
// entries.
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit}
}

// Write records the entry
func (m *Memory) Write(e emit.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = append([]emit.Entry(nil), m.entries[len(m.entries)-m.limit:]...)
	}
}

// Entries returns a copy of the recorded entries, oldest first
func (m *Memory) Entries() []emit.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]emit.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of recorded entries
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Filter returns the entries whose text fuzzy-matches query
// (case-insensitive). An empty query returns everything.
func (m *Memory) Filter(query string) []emit.Entry {
	entries := m.Entries()
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	var matched []emit.Entry
	for _, e := range entries {
		if fuzzy.MatchFold(query, e.Line()) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Multi writes every entry to each of its sinks in order
type Multi []emit.Sink

// Write fans the entry out
func (m Multi) Write(e emit.Entry) {
	for _, s := range m {
		if s != nil {
			s.Write(e)
		}
	}
}
