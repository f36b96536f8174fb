package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore keeps entries for defaultTTL unless Set gives another ttl,
// purging expired items every cleanupInterval.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	switch v := x.(type) {
	case []byte:
		return v, true, nil
	case int64:
		return []byte(formatInt(v)), true, nil
	default:
		return nil, false, nil
	}
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if err := s.cache.Add(key, int64(1), ttl); err == nil {
		return 1, nil
	}
	n, err := s.cache.IncrementInt64(key, 1)
	if err != nil {
		// expired between Add and IncrementInt64
		s.cache.Set(key, int64(1), ttl)
		return 1, nil
	}
	return n, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Flush drops every entry.
func (s *MemoryStore) Flush() {
	s.cache.Flush()
}
