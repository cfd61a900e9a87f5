package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// KVStore is the storage backend a Cache reads and writes serialized
// CacheEntry blobs through. A caller wanting Redis/Memcached/etc behind
// the cache layer implements this against their client; MemoryStore is
// the in-process default.
type KVStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Scan returns every stored key with the given prefix, used by
	// Cache.Invalidate to clear a model's entries without the caller
	// tracking every key it ever derived.
	Scan(ctx context.Context, prefix string) ([]string, error)
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process KVStore backed by a mutex-guarded map, the
// default a Cache uses when no external store is supplied. Entries past
// their expiry are lazily dropped on the next Get or Scan that touches
// them.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memoryEntry)}
}

var _ KVStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.data, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *MemoryStore) Scan(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []string
	for k, e := range s.data {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.data, k)
			continue
		}
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}
