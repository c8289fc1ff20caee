// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import "unsafe"

// defaultBufferCapacity is the initial byte capacity when none is given.
const defaultBufferCapacity = 1024

// Buffer owns the raw bytes of a packed vertex stream and exposes typed
// views over them.
//
// All views share one underlying byte slice: writing a float32 element and
// reading the same bytes through the uint32 view observes the same memory,
// which is exactly what interleaved vertex records require. Views are
// re-derived whenever the storage grows, so callers must not retain a view
// across EnsureCapacity.
//
// Buffer models per-context GPU state and is not safe for concurrent use.
type Buffer struct {
	data []byte

	// offset is the current write position in bytes. Advanced by
	// Packer.Pack, one stride per vertex.
	offset int

	// vertexCount is the number of vertices packed so far.
	vertexCount int

	f32 []float32
	i32 []int32
	u32 []uint32
	i16 []int16
	u16 []uint16
}

// NewBuffer creates a buffer with the given initial byte capacity.
// A capacity of 0 or less selects a small default. The capacity is rounded
// up to a multiple of 4 so every typed view covers whole elements.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}
	if rem := capacity % 4; rem != 0 {
		capacity += 4 - rem
	}
	b := &Buffer{data: make([]byte, capacity)}
	b.remakeViews()
	return b
}

// EnsureCapacity guarantees that writes up to n bytes beyond the current
// offset stay within the backing storage, growing it if needed.
//
// Growth doubles the current capacity until the requirement fits, so
// repeated per-vertex calls amortize to O(1).
func (b *Buffer) EnsureCapacity(n int) {
	required := b.offset + n
	if required <= len(b.data) {
		return
	}
	newCap := len(b.data) * 2
	if newCap < required {
		newCap = required
	}
	if rem := newCap % 4; rem != 0 {
		newCap += 4 - rem
	}
	grown := make([]byte, newCap)
	copy(grown, b.data)
	b.data = grown
	b.remakeViews()
}

// remakeViews re-derives the typed views from the current storage.
// len(data) is kept a multiple of 4, so every view covers whole elements.
func (b *Buffer) remakeViews() {
	p := unsafe.Pointer(&b.data[0])
	n := len(b.data)
	b.f32 = unsafe.Slice((*float32)(p), n/4)
	b.i32 = unsafe.Slice((*int32)(p), n/4)
	b.u32 = unsafe.Slice((*uint32)(p), n/4)
	b.i16 = unsafe.Slice((*int16)(p), n/2)
	b.u16 = unsafe.Slice((*uint16)(p), n/2)
}

// Float32s returns the float32 view over the buffer storage.
func (b *Buffer) Float32s() []float32 { return b.f32 }

// Int32s returns the int32 view over the buffer storage.
func (b *Buffer) Int32s() []int32 { return b.i32 }

// Uint32s returns the uint32 view over the buffer storage.
func (b *Buffer) Uint32s() []uint32 { return b.u32 }

// Int16s returns the int16 view over the buffer storage.
func (b *Buffer) Int16s() []int16 { return b.i16 }

// Uint16s returns the uint16 view over the buffer storage.
func (b *Buffer) Uint16s() []uint16 { return b.u16 }

// Offset returns the current write position in bytes.
func (b *Buffer) Offset() int {
	return b.offset
}

// VertexCount returns the number of vertices packed so far.
func (b *Buffer) VertexCount() int {
	return b.vertexCount
}

// Capacity returns the backing storage size in bytes.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Bytes returns the packed prefix of the storage: every byte written so
// far, ready for GPU upload. The slice aliases the buffer storage.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.offset]
}

// Reset rewinds the write position and vertex count to zero without
// releasing the storage, so the buffer can be refilled next frame.
func (b *Buffer) Reset() {
	b.offset = 0
	b.vertexCount = 0
}
