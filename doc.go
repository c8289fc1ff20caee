// Package vertex computes the byte-level memory layout of GPU vertex
// records, packs per-vertex attribute values into that layout, and caches
// attribute binding state across draw calls.
//
// # Overview
//
// Interleaved vertex buffers mix attributes of different scalar types
// (32-bit floats, 16-bit normalized integers, ...) inside one record.
// Computing component offsets by hand is error-prone, and repacking values
// through a generic per-component loop is slow on the per-vertex hot path.
// This package splits the problem in three:
//
//   - [BuildLayout] turns an ordered attribute declaration into a [Layout]:
//     stride, per-attribute byte offsets, and a flattened list of scalar
//     component descriptors.
//   - [PackerCache.Get] returns a [Packer] specialized for one layout
//     signature. The packer writes a plain per-vertex value slice into the
//     typed views of a [Buffer], grouping writes by scalar type so the
//     active view switches once per type rather than once per component.
//   - [BindingState.Activate] mirrors the GPU attribute-binding set onto a
//     layout's attributes, skipping redundant enable calls when consecutive
//     draws share one layout/program pair.
//
// # Quick Start
//
//	layout, err := vertex.BuildLayout([]vertex.AttributeSpec{
//	    {Name: "position", Components: 3, Type: vertex.Float32},
//	    {Name: "color", Components: 1, Type: vertex.Uint16, Normalized: true},
//	})
//	if err != nil {
//	    // handle error
//	}
//
//	cache := vertex.NewPackerCache()
//	buf := vertex.NewBuffer(0)
//	packer := cache.Get(layout)
//	for _, v := range mesh {
//	    packer.Pack(v.Values(), buf)
//	}
//
// # Concurrency
//
// Layout construction and packing are pure CPU work with no I/O. The caches
// are safe for concurrent use; [Buffer] and [BindingState] model per-context
// GPU state and must be confined to the rendering thread, like every other
// object that talks to the GPU call stream.
package vertex
