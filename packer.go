// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

// packRun is one contiguous group of components sharing a scalar type.
// The compiled packer selects the destination typed view once per run
// instead of once per component; view switches are the dominant overhead
// when packing many small attributes.
type packRun struct {
	typ   ScalarType
	shift int

	// elemOffsets are record-relative offsets in element units of typ.
	elemOffsets []int

	// valueIndices address the input value slice, preserving each
	// component's original sequential index after the type regrouping.
	valueIndices []int
}

// Packer is a packing routine specialized for one layout signature.
//
// A Packer is a pure function of (value slice, destination buffer); it has
// no state beyond what the destination owns. Obtain packers through
// [PackerCache.Get] so structurally identical layouts share one compiled
// instance.
type Packer struct {
	stride         int
	componentCount int
	runs           []packRun
}

// compilePacker builds the specialized run list for a layout.
//
// Components are sorted by scalar type first and sequential index second,
// grouping all writes that share one destination view while each keeps its
// original value-slice index.
func compilePacker(layout *Layout) *Packer {
	comps := make([]Component, len(layout.components))
	copy(comps, layout.components)
	sort.Slice(comps, func(i, j int) bool {
		if comps[i].Type != comps[j].Type {
			return comps[i].Type < comps[j].Type
		}
		return comps[i].Index < comps[j].Index
	})

	p := &Packer{
		stride:         layout.stride,
		componentCount: len(comps),
	}
	for _, c := range comps {
		n := len(p.runs)
		if n == 0 || p.runs[n-1].typ != c.Type {
			p.runs = append(p.runs, packRun{typ: c.Type, shift: c.Shift})
			n++
		}
		run := &p.runs[n-1]
		run.elemOffsets = append(run.elemOffsets, c.ElementOffset)
		run.valueIndices = append(run.valueIndices, c.Index)
	}
	return p
}

// Stride returns the number of bytes one Pack call writes.
func (p *Packer) Stride() int {
	return p.stride
}

// ComponentCount returns the required length of the value slice.
func (p *Packer) ComponentCount() int {
	return p.componentCount
}

// Pack writes one vertex into dst.
//
// values holds every scalar of the vertex addressed by sequential index,
// in the order reported by [Layout.IndexOf]. Pack writes exactly Stride
// bytes at dst.Offset, then advances the offset and increments the vertex
// count. dst.EnsureCapacity is called first, so the destination grows as
// needed.
//
// Pack runs once per vertex during tessellation and does not bounds-check
// values; len(values) must equal ComponentCount. Validate the shape once
// where per-vertex slices are first assembled, not here.
func (p *Packer) Pack(values []float64, dst *Buffer) {
	dst.EnsureCapacity(p.stride)
	base := dst.offset
	for r := range p.runs {
		run := &p.runs[r]
		elem := base >> run.shift
		switch run.typ {
		case Float32:
			view := dst.f32
			for i, off := range run.elemOffsets {
				view[elem+off] = float32(values[run.valueIndices[i]])
			}
		case Int32:
			view := dst.i32
			for i, off := range run.elemOffsets {
				view[elem+off] = int32(values[run.valueIndices[i]])
			}
		case Uint32:
			view := dst.u32
			for i, off := range run.elemOffsets {
				view[elem+off] = uint32(values[run.valueIndices[i]])
			}
		case Int16:
			view := dst.i16
			for i, off := range run.elemOffsets {
				view[elem+off] = int16(values[run.valueIndices[i]])
			}
		case Uint16:
			view := dst.u16
			for i, off := range run.elemOffsets {
				view[elem+off] = uint16(values[run.valueIndices[i]])
			}
		}
	}
	dst.offset += p.stride
	dst.vertexCount++
}

// =============================================================================
// Packer Cache
// =============================================================================

// PackerCache stores compiled packers indexed by layout signature.
//
// Compiling a packer is cheap, but the number of distinct attribute
// signatures in a scene is small and the packer runs once per vertex, so
// one compiled instance per signature is reused across all layouts built
// from structurally identical attribute lists.
//
// PackerCache is safe for concurrent use. It uses RWMutex with
// double-check locking for efficient reads and safe writes. Its lifetime
// is bound to the graphics context: call Clear if the context is lost or
// recreated.
type PackerCache struct {
	// mu protects packers.
	mu sync.RWMutex

	// packers stores compiled packers indexed by layout signature.
	packers map[uint64]*Packer

	// hits counts cache hits (atomic for lock-free reads).
	hits uint64

	// misses counts cache misses (atomic for lock-free reads).
	misses uint64
}

// NewPackerCache creates an empty packer cache.
func NewPackerCache() *PackerCache {
	return &PackerCache{
		packers: make(map[uint64]*Packer),
	}
}

// Get returns the packer compiled for the layout's signature, compiling
// and caching it on first use.
//
// Two layouts built from structurally identical attribute lists (same
// names, sizes, types, normalized flags, same order) share one signature
// and therefore receive the same Packer instance.
func (c *PackerCache) Get(layout *Layout) *Packer {
	sig := layout.Signature()

	// Fast path: read lock
	c.mu.RLock()
	if p, ok := c.packers[sig]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.packers[sig]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p
	}

	p := compilePacker(layout)
	c.packers[sig] = p
	atomic.AddUint64(&c.misses, 1)

	Logger().Debug("vertex: compiled packer",
		slog.Uint64("signature", sig),
		slog.Int("runs", len(p.runs)),
		slog.Int("stride", p.stride))

	return p
}

// Stats returns the cache hit and miss counts.
func (c *PackerCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// Size returns the number of cached packers.
func (c *PackerCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.packers)
}

// Clear removes all cached packers and resets statistics. Call when the
// graphics context is destroyed or recreated.
func (c *PackerCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.packers = make(map[uint64]*Packer)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}
