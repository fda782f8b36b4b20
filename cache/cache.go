package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the process-wide default entry lifetime used by Set.
const DefaultTTL = 600 * time.Second

// entry is a stored value with its expiry bookkeeping.
type entry[V any] struct {
	value    V
	storedAt time.Time
	ttl      time.Duration
}

// valid reports whether the entry is still live at the given instant.
// A zero or elapsed TTL reads as expired.
func (e entry[V]) valid(now time.Time) bool {
	return now.Sub(e.storedAt) < e.ttl
}

// Store is a typed key/value cache with TTL expiry and prefix invalidation.
// All operations are safe for concurrent use; a single mutex serializes
// access to the underlying map.
type Store[V any] struct {
	mu         sync.Mutex
	entries    map[string]entry[V]
	defaultTTL time.Duration
	now        func() time.Time
}

// Option configures a Store.
type Option[V any] func(*Store[V])

// WithDefaultTTL overrides the default entry lifetime used by Set.
func WithDefaultTTL[V any](ttl time.Duration) Option[V] {
	return func(s *Store[V]) { s.defaultTTL = ttl }
}

// WithClock overrides the time source. Intended for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *Store[V]) { s.now = now }
}

// New creates an empty Store.
func New[V any](opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		entries:    make(map[string]entry[V]),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored value for key if present and not expired.
// Expired entries are purged on read and reported as absent.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !e.valid(s.now()) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL, overwriting any
// existing entry.
func (s *Store[V]) Set(key string, value V) {
	s.SetTTL(key, value, s.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL, overwriting any
// existing entry. A zero TTL stores an entry that is already expired.
func (s *Store[V]) SetTTL(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{
		value:    value,
		storedAt: s.now(),
		ttl:      ttl,
	}
}

// Delete removes a single entry unconditionally, expired or not.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// ClearByPrefix removes every stored key that starts with prefix.
// An empty prefix matches all keys and empties the entire store.
func (s *Store[V]) ClearByPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// Len returns the number of stored entries, including any that have
// expired but not yet been purged.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
