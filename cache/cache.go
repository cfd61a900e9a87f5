// Package cache implements spec §4.8's read-query cache: key derivation
// over a stable stringification of a query's arguments, human-readable
// TTL parsing, stale-while-revalidate serving backed by
// golang.org/x/sync/singleflight so a thundering herd of readers against
// one stale or missing key runs the underlying query once, and
// mutation-driven invalidation by model prefix or explicit key/pattern.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/viborm/viborm/engine/query"
	"github.com/viborm/viborm/verr"
)

// revalidatingTTL is the lifetime of the sentinel key that suppresses a
// thundering herd of background revalidations against the same stale key.
const revalidatingTTL = 30 * time.Second

// CacheEntry is the value a Cache stores per key: the caller's opaque
// payload, when it was written, and the TTL it was written with. Storage
// TTL is doubled (see Set) so a stale entry survives long enough for SWR
// to still serve it while a revalidation is in flight; staleness itself is
// judged against TTL, not the doubled storage lifetime.
type CacheEntry struct {
	Value     []byte `msgpack:"value"`
	CreatedAt int64  `msgpack:"created_at_ms"`
	TTL       int64  `msgpack:"ttl_ms"`
}

func (e CacheEntry) ageMs() int64 {
	return nowMillis() - e.CreatedAt
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// Options configures a Cache instance.
type Options struct {
	// Prefix overrides DefaultPrefix.
	Prefix string
	// Version, when non-zero, is appended to the prefix as ":v<n>" so a
	// breaking change to a model's cached shape can be rolled out without
	// colliding with entries written by the previous version.
	Version int
	// SWR enables stale-while-revalidate serving on Get/GetOrSet.
	SWR bool
}

// Cache is the read-query cache. It is safe for concurrent use.
type Cache struct {
	store KVStore
	opts  Options
	sf    singleflight.Group
}

// New builds a Cache over store (a nil store defaults to an in-process
// MemoryStore).
func New(store KVStore, opts Options) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{store: store, opts: opts}
}

// Key derives the cache key for one query per spec §4.8.
func (c *Cache) Key(model string, operation query.Operation, args any) (string, error) {
	return Key(KeyOptions{Prefix: c.opts.Prefix, Version: c.opts.Version}, model, operation, args)
}

// Set stores value under key with the given TTL, wrapped in a CacheEntry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return verr.InvalidTTL(ttl.String())
	}
	entry := CacheEntry{Value: value, CreatedAt: nowMillis(), TTL: ttl.Milliseconds()}
	blob, err := msgpack.Marshal(entry)
	if err != nil {
		return verr.Unexpected("cache", err)
	}
	return c.store.Set(ctx, key, blob, 2*ttl)
}

// Get reads key. A fresh entry is returned with found=true. A stale entry
// (age beyond its authoring TTL) is still returned with found=true when
// SWR is enabled — revalidate is launched in the background, coalesced
// through both a revalidation sentinel and the shared singleflight.Group
// so concurrent readers of the same stale key trigger at most one
// refresh — and treated as a miss otherwise. revalidate may be nil, which
// disables SWR for this call regardless of Options.SWR.
func (c *Cache) Get(ctx context.Context, key string, revalidate func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	var entry CacheEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		return nil, false, verr.Unexpected("cache", err)
	}
	if entry.ageMs() <= entry.TTL {
		return entry.Value, true, nil
	}
	if !c.opts.SWR || revalidate == nil {
		return nil, false, nil
	}
	c.revalidateInBackground(key, entry, revalidate)
	return entry.Value, true, nil
}

// revalidateInBackground claims the per-key revalidating sentinel and, if
// claimed, refreshes the entry on a detached context — "root: true" in
// spec terms, since this work outlives the request that triggered it.
func (c *Cache) revalidateInBackground(key string, entry CacheEntry, revalidate func(context.Context) ([]byte, error)) {
	sentinel := key + ":reval"
	claimed, err := c.claimSentinel(sentinel)
	if err != nil || !claimed {
		return
	}
	go func() {
		bg := context.Background()
		defer c.clearSentinel(bg, sentinel)
		_, _, _ = c.sf.Do(key, func() (any, error) {
			value, err := revalidate(bg)
			if err != nil {
				return nil, err
			}
			if err := c.Set(bg, key, value, time.Duration(entry.TTL)*time.Millisecond); err != nil {
				return nil, err
			}
			return value, nil
		})
	}()
}

func (c *Cache) claimSentinel(sentinel string) (bool, error) {
	ctx := context.Background()
	_, found, err := c.store.Get(ctx, sentinel)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	if err := c.store.Set(ctx, sentinel, []byte("1"), revalidatingTTL); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) clearSentinel(ctx context.Context, sentinel string) {
	_ = c.store.Del(ctx, sentinel)
}

// GetOrSet is the entry point a query executor calls: it derives the key,
// serves a fresh or (with SWR) stale cached value, and otherwise runs
// load exactly once per key even under concurrent callers, caching its
// result for ttl. Only read operations (query.Operation.IsRead) are
// cacheable.
func (c *Cache) GetOrSet(ctx context.Context, model string, operation query.Operation, args any, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !operation.IsRead() {
		return nil, verr.OperationNotCacheable(string(operation))
	}
	key, err := c.Key(model, operation, args)
	if err != nil {
		return nil, err
	}
	if value, found, err := c.Get(ctx, key, load); err != nil {
		return nil, err
	} else if found {
		return value, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	value, _ := v.([]byte)
	return value, nil
}

// Invalidate clears a model's auto-invalidation prefix
// ("<prefix>:<model>") plus any caller-supplied full keys or prefix
// patterns (a trailing "*" clears everything under that prefix), per
// spec §4.8.
func (c *Cache) Invalidate(ctx context.Context, model string, keys ...string) error {
	if err := c.clearPrefix(ctx, c.modelPrefix(model)); err != nil {
		return err
	}
	for _, k := range keys {
		if strings.HasSuffix(k, "*") {
			if err := c.clearPrefix(ctx, strings.TrimSuffix(k, "*")); err != nil {
				return err
			}
			continue
		}
		if err := c.store.Del(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) modelPrefix(model string) string {
	return KeyOptions{Prefix: c.opts.Prefix, Version: c.opts.Version}.prefix() + ":" + model
}

func (c *Cache) clearPrefix(ctx context.Context, prefix string) error {
	keys, err := c.store.Scan(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Del(ctx, keys...)
}
