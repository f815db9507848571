// Package storage keeps per-instance snapshots and reads and writes
// invocation traces
package storage

import (
	"sync"

	"github.com/pstuifzand/renderwatch/internal/model"
)

// Store maps tracked instances to their snapshots
type Store interface {
	// GetOrCreate returns the instance's snapshot, creating an empty one
	// the first time the instance is seen
	GetOrCreate(instance string) *model.Snapshot
}

// MemoryStore holds snapshots for the life of the process. Entries are never
// evicted.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]*model.Snapshot
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*model.Snapshot)}
}

// GetOrCreate implements Store
func (s *MemoryStore) GetOrCreate(instance string) *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[instance]
	if !ok {
		snap = model.NewSnapshot()
		s.snapshots[instance] = snap
	}
	return snap
}

// Len returns the number of instances seen
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
