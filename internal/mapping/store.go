package mapping

import (
	"slices"
	"sync"
	"time"
)

// DefaultHighlightTTL is how long a freshly added mapping stays highlighted.
const DefaultHighlightTTL = 1500 * time.Millisecond

// Store is the ordered, in-memory collection of prefill mappings of a
// session. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	mappings  []PrefillMapping
	recent    *PrefillMapping
	ttl       time.Duration
	timer     *time.Timer
	gen       uint64
	listeners []Listener
}

// Option configures a Store.
type Option func(*Store)

// WithHighlightTTL sets how long the recently added mapping is kept. A zero
// or negative TTL disables the automatic clear.
func WithHighlightTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{ttl: DefaultHighlightTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for store events.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Add appends m and marks it as recently added. An existing mapping for the
// same target is kept.
func (s *Store) Add(m PrefillMapping) {
	s.mu.Lock()
	s.mappings = append(s.mappings, m)
	recent := m
	s.recent = &recent
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.ttl > 0 {
		s.timer = time.AfterFunc(s.ttl, func() { s.expire(gen) })
	}
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: EventAdded, Mapping: m})
}

// Remove deletes every mapping targeting the given field and returns how
// many were removed. The recently added marker is left alone.
func (s *Store) Remove(targetNodeID, targetFieldKey string) int {
	s.mu.Lock()
	before := len(s.mappings)
	s.mappings = slices.DeleteFunc(s.mappings, func(m PrefillMapping) bool {
		return m.Targets(targetNodeID, targetFieldKey)
	})
	removed := before - len(s.mappings)
	listeners := s.listeners
	s.mu.Unlock()

	if removed > 0 {
		notify(listeners, Event{
			Kind:    EventRemoved,
			Mapping: PrefillMapping{TargetNodeID: targetNodeID, TargetFieldKey: targetFieldKey},
			Count:   removed,
		})
	}
	return removed
}

// FindForTarget returns the first mapping, in insertion order, that targets
// the given field.
func (s *Store) FindForTarget(targetNodeID, targetFieldKey string) (PrefillMapping, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.mappings {
		if m.Targets(targetNodeID, targetFieldKey) {
			return m, true
		}
	}
	return PrefillMapping{}, false
}

// ForNode returns the mappings targeting fields of the node, in insertion
// order.
func (s *Store) ForNode(targetNodeID string) []PrefillMapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []PrefillMapping{}
	for _, m := range s.mappings {
		if m.TargetNodeID == targetNodeID {
			out = append(out, m)
		}
	}
	return out
}

// All returns a snapshot of every mapping in insertion order.
func (s *Store) All() []PrefillMapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]PrefillMapping{}, s.mappings...)
}

// Len returns the number of stored mappings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.mappings)
}

// RecentlyAdded returns the highlighted mapping, if any.
func (s *Store) RecentlyAdded() (PrefillMapping, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recent == nil {
		return PrefillMapping{}, false
	}
	return *s.recent, true
}

// ClearRecentlyAdded drops the highlight.
func (s *Store) ClearRecentlyAdded() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.clearLocked()
}

// Close stops the pending highlight timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire clears the highlight set by the add of generation gen, unless a
// newer add or an explicit clear happened since.
func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.clearLocked()
}

// clearLocked must be called with s.mu held; it releases the lock.
func (s *Store) clearLocked() {
	if s.recent == nil {
		s.mu.Unlock()
		return
	}
	cleared := *s.recent
	s.recent = nil
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Event{Kind: EventHighlightCleared, Mapping: cleared})
}

func notify(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
