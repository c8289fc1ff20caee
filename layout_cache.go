// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import (
	"sync"
	"sync/atomic"
)

// LayoutCache memoizes [BuildLayout] by attribute signature.
//
// Layout construction is deterministic, so attribute lists that hash to
// the same signature share one Layout instance. Tessellation code that
// re-declares the same attribute list every frame gets the cached layout
// without re-running the offset arithmetic.
//
// LayoutCache is safe for concurrent use. Its lifetime is bound to the
// graphics context: call Clear if the context is lost or recreated.
//
//nolint:dupl // Intentional pattern: same double-check locking as PackerCache
type LayoutCache struct {
	// mu protects layouts.
	mu sync.RWMutex

	// layouts stores built layouts indexed by attribute signature.
	layouts map[uint64]*Layout

	// hits counts cache hits (atomic for lock-free reads).
	hits uint64

	// misses counts cache misses (atomic for lock-free reads).
	misses uint64
}

// NewLayoutCache creates an empty layout cache.
func NewLayoutCache() *LayoutCache {
	return &LayoutCache{
		layouts: make(map[uint64]*Layout),
	}
}

// Get returns the layout for the attribute list, building and caching it
// on first use. Build errors are returned and not cached, so a corrected
// declaration with the same name set builds cleanly.
func (c *LayoutCache) Get(attribs []AttributeSpec) (*Layout, error) {
	sig := hashAttributeSpecs(attribs)

	// Fast path: read lock
	c.mu.RLock()
	if l, ok := c.layouts[sig]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return l, nil
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.layouts[sig]; ok {
		atomic.AddUint64(&c.hits, 1)
		return l, nil
	}

	l, err := BuildLayout(attribs)
	if err != nil {
		return nil, err
	}
	c.layouts[sig] = l
	atomic.AddUint64(&c.misses, 1)

	return l, nil
}

// Stats returns the cache hit and miss counts.
func (c *LayoutCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// Size returns the number of cached layouts.
func (c *LayoutCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layouts)
}

// Clear removes all cached layouts and resets statistics.
func (c *LayoutCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layouts = make(map[uint64]*Layout)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}
