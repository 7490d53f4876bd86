package knowledge

import "sync"

// Store holds the current knowledge base snapshot. The collection is
// replaced wholesale on refresh; readers take an immutable copy, so a
// refresh arriving during an in-flight drafting batch takes effect only
// for the next batch.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the snapshot atomically. Stale entries do not linger.
func (s *Store) Replace(entries []Entry) {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	s.mu.Lock()
	s.entries = copied
	s.mu.Unlock()
}

// Snapshot returns a copy of the current entries.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of entries currently loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
