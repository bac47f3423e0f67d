// Package cache provides a read-through LRU decorator around a
// store.Client, grounded on the same idea as the upstream adapter's
// caching client: point reads are served from an in-process cache on hit,
// and any write that could have touched a cached key invalidates it.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/cuemby/dynakv/pkg/metrics"
	"github.com/cuemby/dynakv/pkg/store"
)

// KeyValueClient is the subset of store.Client's surface a Client needs —
// narrowed to an interface so this package can be tested against a fake
// without constructing a real store.Client.
type KeyValueClient interface {
	ReadKeyBytes(ctx context.Context, key []byte) ([]byte, error)
	ReadMultiKeyBytes(ctx context.Context, keys [][]byte) ([][]byte, error)
	FindKeysByPrefix(ctx context.Context, prefix []byte) (*store.Keys, error)
	FindKeyValuesByPrefix(ctx context.Context, prefix []byte) (*store.KeyValues, error)
	WriteBatch(ctx context.Context, baseKey []byte, batch *store.Batch) error
	ClearJournal(ctx context.Context, baseKey []byte) error
}

// cacheEntry distinguishes a cached miss (key confirmed absent) from a
// cached value, so a negative lookup doesn't fall through to the backend
// on every call.
type cacheEntry struct {
	value []byte
	found bool
}

// Client wraps a KeyValueClient with a fixed-size LRU cache of point-read
// results, keyed by the raw key bytes.
type Client struct {
	inner KeyValueClient
	cache *lru.Cache
}

// New wraps inner with an LRU cache holding up to size entries.
func New(inner KeyValueClient, size int) (*Client, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Client{inner: inner, cache: c}, nil
}

// ReadKeyBytes serves from the cache on hit, otherwise reads through to
// the wrapped client and caches the result, including a cached miss.
func (c *Client) ReadKeyBytes(ctx context.Context, key []byte) ([]byte, error) {
	if cached, ok := c.cache.Get(string(key)); ok {
		metrics.CacheHitsTotal.Inc()
		entry := cached.(cacheEntry)
		if !entry.found {
			return nil, nil
		}
		return entry.value, nil
	}
	metrics.CacheMissesTotal.Inc()

	value, err := c.inner.ReadKeyBytes(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(string(key), cacheEntry{value: value, found: value != nil})
	return value, nil
}

// ReadMultiKeyBytes reads each key through the cache, preserving input
// order. Unlike store.Client's fan-out, each lookup may be served locally
// with no backend round trip at all.
func (c *Client) ReadMultiKeyBytes(ctx context.Context, keys [][]byte) ([][]byte, error) {
	results := make([][]byte, len(keys))
	for i, key := range keys {
		value, err := c.ReadKeyBytes(ctx, key)
		if err != nil {
			return nil, err
		}
		results[i] = value
	}
	return results, nil
}

// FindKeysByPrefix and FindKeyValuesByPrefix are not cached: a prefix scan
// result is too easily invalidated by an unrelated write to be worth the
// bookkeeping, so these pass straight through.
func (c *Client) FindKeysByPrefix(ctx context.Context, prefix []byte) (*store.Keys, error) {
	return c.inner.FindKeysByPrefix(ctx, prefix)
}

func (c *Client) FindKeyValuesByPrefix(ctx context.Context, prefix []byte) (*store.KeyValues, error) {
	return c.inner.FindKeyValuesByPrefix(ctx, prefix)
}

// WriteBatch commits through to the wrapped client, then invalidates every
// key the batch could have changed. A prefix-delete's exact key set isn't
// known without a backend round trip the cache has no reason to make, so
// it conservatively purges the whole cache instead.
func (c *Client) WriteBatch(ctx context.Context, baseKey []byte, batch *store.Batch) error {
	if err := c.inner.WriteBatch(ctx, baseKey, batch); err != nil {
		return err
	}
	keys, hasPrefixDelete := batch.TouchedKeys()
	if hasPrefixDelete {
		c.cache.Purge()
		return nil
	}
	for _, key := range keys {
		c.cache.Remove(string(key))
	}
	return nil
}

// ClearJournal passes through and purges the cache, since draining a
// journal can apply writes to keys the cache is still holding stale
// entries for.
func (c *Client) ClearJournal(ctx context.Context, baseKey []byte) error {
	if err := c.inner.ClearJournal(ctx, baseKey); err != nil {
		return err
	}
	c.cache.Purge()
	return nil
}
