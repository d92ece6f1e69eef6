package workspace

import (
	"context"
	"sort"
	"sync"
)

// VisitSet records the members visited in one root context. Entries are
// never removed.
type VisitSet struct {
	mu     sync.Mutex
	visits map[string]*Visit
}

// NewVisitSet returns an empty set.
func NewVisitSet() *VisitSet {
	return &VisitSet{visits: map[string]*Visit{}}
}

// Visit is the in-progress or finished traversal of one member.
type Visit struct {
	done chan struct{}
	err  error
}

// Claim marks member visited. Exactly one caller per member gets owner=true
// and must call Finish; every other caller gets the same Visit to Wait on.
func (s *VisitSet) Claim(member string) (v *Visit, owner bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.visits[member]; ok {
		return v, false
	}
	v = &Visit{done: make(chan struct{})}
	s.visits[member] = v
	return v, true
}

// Keys returns the claimed members in sorted order.
func (s *VisitSet) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.visits))
	for k := range s.visits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Finish records the outcome and releases waiters. Call it once.
func (v *Visit) Finish(err error) {
	v.err = err
	close(v.done)
}

// Wait blocks until the owner finishes and returns its result.
func (v *Visit) Wait(ctx context.Context) error {
	select {
	case <-v.done:
		return v.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
