package comment

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound indicates the referenced comment does not exist.
	ErrNotFound = errors.New("comment: not found")
	// ErrTerminalStatus indicates the comment already carries a final
	// decision and cannot transition again.
	ErrTerminalStatus = errors.New("comment: status is terminal")
)

// Store holds the canonical ordered collection of comments. Most recent
// import batch first; order within a batch follows the feed. All mutations
// share a single writer critical section so a concurrent import merge and
// a manual decision never race on the same id.
type Store struct {
	mu    sync.RWMutex
	items []Comment
	index map[string]int
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Contains reports whether a comment with the given id is present.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Get returns a copy of the comment with the given id.
func (s *Store) Get(id string) (Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return Comment{}, false
	}
	return s.items[pos], true
}

// Merge prepends the batch to the collection in the order given, skipping
// any item whose id already exists. Existing items and their order are
// untouched. Returns the number of accepted items.
func (s *Store) Merge(batch []Comment) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]Comment, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, c := range batch {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if _, exists := s.index[c.ID]; exists {
			continue
		}
		seen[c.ID] = struct{}{}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return 0
	}
	s.items = append(fresh, s.items...)
	s.reindex()
	return len(fresh)
}

// Approve transitions a pending comment to approved, recording the reply
// actually sent and the operator who sent it.
func (s *Store) Approve(id, reply, operator string) (Comment, error) {
	return s.transition(id, func(c Comment) Comment {
		c.Status = StatusApproved
		c.ActualResponse = reply
		c.ApprovedBy = operator
		return c
	})
}

// Reject transitions a pending comment to rejected. The draft response is
// retained for audit.
func (s *Store) Reject(id string) (Comment, error) {
	return s.transition(id, func(c Comment) Comment {
		c.Status = StatusRejected
		return c
	})
}

func (s *Store) transition(id string, apply func(Comment) Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.index[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	current := s.items[pos]
	if current.Status.Terminal() {
		return Comment{}, ErrTerminalStatus
	}
	updated := apply(current)
	s.items[pos] = updated
	return updated, nil
}

// All returns a read-only snapshot of every comment in store order.
func (s *Store) All() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Comment, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of stored comments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Replace swaps the whole collection, e.g. when restoring a persisted
// session. Later duplicates of an id are dropped.
func (s *Store) Replace(items []Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:0]
	s.index = make(map[string]int, len(items))
	for _, c := range items {
		if _, exists := s.index[c.ID]; exists {
			continue
		}
		s.index[c.ID] = len(s.items)
		s.items = append(s.items, c)
	}
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, c := range s.items {
		s.index[c.ID] = i
	}
}
