package data

import (
	"sync"
	"time"
)

// Store provides thread-safe in-memory storage for the latest snapshot.
// A snapshot is swapped in whole; readers see either the previous one or
// the next one, never a run in progress.
type Store struct {
	mu       sync.RWMutex
	snapshot *Snapshot
	lastSync time.Time
}

// NewStore creates a new empty data store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current snapshot.
func (s *Store) Set(snapshot *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	s.lastSync = time.Now()
}

// Get retrieves the current snapshot. Returns false if no data is available.
func (s *Store) Get() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, false
	}

	return s.snapshot, true
}

// HasData returns true once a snapshot has been stored.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot != nil
}

// LastSync returns the wall-clock time of the last swap.
func (s *Store) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSync
}
