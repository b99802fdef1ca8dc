package cache

import (
	"sync"
	"time"
)

// Entry is one cached payload with its fetch timestamp.
type Entry struct {
	Value     interface{}
	FetchedAt time.Time
}

// Store is a TTL-keyed in-memory cache. Expiry is lazy: stale entries are
// ignored at read time, never actively purged.
type Store struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]Entry
	now   func() time.Time
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		items: make(map[string]Entry),
		now:   time.Now,
	}
}

func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = Entry{
		Value:     value,
		FetchedAt: s.now(),
	}
}

// Get returns the cached value if a fresh entry exists.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.items[key]
	if !exists {
		return nil, false
	}
	if !s.isFresh(entry) {
		return nil, false
	}
	return entry.Value, true
}

// GetEntry returns the raw entry regardless of freshness, so callers can
// apply their own window (the result slot uses 2x the feed TTL).
func (s *Store) GetEntry(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.items[key]
	return entry, exists
}

// IsFresh reports whether an entry is within this store's TTL.
func (s *Store) IsFresh(entry Entry) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isFresh(entry)
}

func (s *Store) isFresh(entry Entry) bool {
	return s.now().Sub(entry.FetchedAt) < s.ttl
}

// Age reports how long ago an entry was fetched.
func (s *Store) Age(entry Entry) time.Duration {
	return s.now().Sub(entry.FetchedAt)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]Entry)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
