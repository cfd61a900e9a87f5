package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/viborm/viborm/engine/query"
)

func TestCacheGetOrSetCoalescesConcurrentMisses(t *testing.T) {
	c := New(NewMemoryStore(), Options{})
	var calls int64

	load := func(context.Context) ([]byte, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return []byte("value"), nil
	}

	var wg sync.WaitGroup
	results := make([][]byte, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrSet(context.Background(), "User", query.FindMany, map[string]any{"id": 1}, time.Hour, load)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	for _, v := range results {
		assert.Equal(t, []byte("value"), v)
	}
}

func TestCacheGetOrSetRejectsWriteOperations(t *testing.T) {
	c := New(NewMemoryStore(), Options{})
	_, err := c.GetOrSet(context.Background(), "User", query.Create, nil, time.Hour, func(context.Context) ([]byte, error) {
		return []byte("x"), nil
	})
	require.Error(t, err)
}

func TestCacheStaleWhileRevalidate(t *testing.T) {
	store := NewMemoryStore()
	c := New(store, Options{SWR: true})

	key, err := c.Key("User", query.FindMany, map[string]any{"id": 1})
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), key, []byte("old"), 50*time.Millisecond))

	// entry now stale relative to its 50ms TTL, but still stored (storage
	// lifetime is doubled to 100ms)
	time.Sleep(60 * time.Millisecond)

	var revalidated int64
	done := make(chan struct{})
	value, found, err := c.Get(context.Background(), key, func(context.Context) ([]byte, error) {
		atomic.AddInt64(&revalidated, 1)
		close(done)
		return []byte("new"), nil
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("old"), value) // stale value served immediately

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("revalidation never ran")
	}
	// give the background goroutine a moment to finish its Set
	time.Sleep(10 * time.Millisecond)

	blob, found, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	var entry CacheEntry
	require.NoError(t, msgpack.Unmarshal(blob, &entry))
	assert.Equal(t, []byte("new"), entry.Value)
}

func TestCacheInvalidateClearsModelPrefix(t *testing.T) {
	store := NewMemoryStore()
	c := New(store, Options{})

	k1, _ := c.Key("User", query.FindMany, map[string]any{"id": 1})
	k2, _ := c.Key("User", query.FindMany, map[string]any{"id": 2})
	require.NoError(t, c.Set(context.Background(), k1, []byte("a"), time.Hour))
	require.NoError(t, c.Set(context.Background(), k2, []byte("b"), time.Hour))

	require.NoError(t, c.Invalidate(context.Background(), "User"))

	_, found, _ := store.Get(context.Background(), k1)
	assert.False(t, found)
	_, found, _ = store.Get(context.Background(), k2)
	assert.False(t, found)
}

func TestCacheInvalidateExplicitKeysAndPatterns(t *testing.T) {
	store := NewMemoryStore()
	c := New(store, Options{})

	require.NoError(t, c.Set(context.Background(), "other:1", []byte("a"), time.Hour))
	require.NoError(t, c.Set(context.Background(), "other:2", []byte("b"), time.Hour))
	require.NoError(t, c.Set(context.Background(), "kept", []byte("c"), time.Hour))

	require.NoError(t, c.Invalidate(context.Background(), "Unrelated", "other:*"))

	_, found, _ := store.Get(context.Background(), "other:1")
	assert.False(t, found)
	_, found, _ = store.Get(context.Background(), "kept")
	assert.True(t, found)
}
