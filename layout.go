// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import (
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
)

// Layout errors.
var (
	// ErrNoAttributes is returned when building a layout from an empty list.
	ErrNoAttributes = errors.New("vertex: attribute list is empty")

	// ErrEmptyName is returned when an attribute has no name.
	ErrEmptyName = errors.New("vertex: attribute name is empty")

	// ErrDuplicateName is returned when two attributes share one name.
	ErrDuplicateName = errors.New("vertex: duplicate attribute name")

	// ErrComponentCount is returned when Components is outside [1, 4].
	ErrComponentCount = errors.New("vertex: component count must be in [1, 4]")

	// ErrUnknownScalarType is returned for an unrecognized scalar type.
	ErrUnknownScalarType = errors.New("vertex: unknown scalar type")
)

// recordAlign is the boundary the running stride is padded to after each
// attribute. Padding happens per attribute, not only at the end of the
// record, so gaps can appear between attributes of differing size.
const recordAlign = 4

// ScalarType identifies the machine type of one vertex component.
type ScalarType int32

// Scalar types supported in vertex records.
const (
	// Float32 is a 32-bit IEEE 754 float.
	Float32 ScalarType = iota + 1

	// Int32 is a 32-bit signed integer.
	Int32

	// Uint32 is a 32-bit unsigned integer.
	Uint32

	// Int16 is a 16-bit signed integer.
	Int16

	// Uint16 is a 16-bit unsigned integer.
	Uint16
)

// Size returns the byte size of the scalar type, or 0 if unknown.
func (t ScalarType) Size() int {
	switch t {
	case Float32, Int32, Uint32:
		return 4
	case Int16, Uint16:
		return 2
	default:
		return 0
	}
}

// Shift returns log2 of the scalar byte size, used to convert a byte
// offset into an element index within a same-typed buffer view.
func (t ScalarType) Shift() int {
	switch t {
	case Float32, Int32, Uint32:
		return 2
	case Int16, Uint16:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the scalar type.
func (t ScalarType) String() string {
	switch t {
	case Float32:
		return "Float32"
	case Int32:
		return "Int32"
	case Uint32:
		return "Uint32"
	case Int16:
		return "Int16"
	case Uint16:
		return "Uint16"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(t))
	}
}

// AttributeSpec declares one vertex attribute. Declaration order
// determines buffer offset order.
type AttributeSpec struct {
	// Name identifies the attribute within a layout. Must be unique.
	Name string

	// Components is the number of scalar elements (1-4).
	Components int

	// Type is the scalar type of each element.
	Type ScalarType

	// Normalized marks integer data that the GPU maps to [0,1] or [-1,1].
	// Meaningful only for integer types.
	Normalized bool
}

// Attribute is a resolved attribute within a built layout.
type Attribute struct {
	AttributeSpec

	// ByteOffset is the attribute's offset within the vertex record.
	ByteOffset int

	// ByteSize is Components times the scalar byte size.
	ByteSize int
}

// Component describes one scalar element of the vertex record.
type Component struct {
	// Type is the scalar type of this element.
	Type ScalarType

	// Shift converts a byte offset to an element index in the typed view
	// holding this component (byteOffset >> Shift).
	Shift int

	// ElementOffset is the element's offset within the record, in element
	// units of its own scalar type.
	ElementOffset int

	// Index is the 0-based position of this component among all components
	// of the vertex, matching the input value slice's indexing.
	Index int
}

// Layout is the derived, immutable memory layout of one vertex record.
//
// A Layout is built once by [BuildLayout] and shared freely afterwards;
// none of its methods mutate it.
type Layout struct {
	attribs    []Attribute
	components []Component
	nameIndex  map[string]int
	stride     int
	signature  uint64
}

// BuildLayout computes the memory layout for an ordered attribute list.
//
// The running stride is padded to a 4-byte boundary after every attribute,
// so records interleave attribute bytes and padding bytes. The resulting
// stride is always a positive multiple of 4.
//
// BuildLayout is pure computation: no GPU calls, deterministic, and
// cacheable by the attribute signature (see [LayoutCache]).
//
// Returns an error if the list is empty, a name is empty or duplicated,
// a component count is outside [1, 4], or a scalar type is unrecognized.
func BuildLayout(attribs []AttributeSpec) (*Layout, error) {
	if len(attribs) == 0 {
		return nil, ErrNoAttributes
	}

	l := &Layout{
		attribs:   make([]Attribute, 0, len(attribs)),
		nameIndex: make(map[string]int, len(attribs)),
	}

	seq := 0
	for _, spec := range attribs {
		if spec.Name == "" {
			return nil, ErrEmptyName
		}
		if _, ok := l.nameIndex[spec.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, spec.Name)
		}
		if spec.Components < 1 || spec.Components > 4 {
			return nil, fmt.Errorf("%w: %q has %d", ErrComponentCount, spec.Name, spec.Components)
		}
		scalarSize := spec.Type.Size()
		if scalarSize == 0 {
			return nil, fmt.Errorf("%w: %q has type %s", ErrUnknownScalarType, spec.Name, spec.Type)
		}

		byteOffset := l.stride
		shift := spec.Type.Shift()
		elemOffset := byteOffset >> shift

		l.attribs = append(l.attribs, Attribute{
			AttributeSpec: spec,
			ByteOffset:    byteOffset,
			ByteSize:      spec.Components * scalarSize,
		})
		l.nameIndex[spec.Name] = seq

		for i := 0; i < spec.Components; i++ {
			l.components = append(l.components, Component{
				Type:          spec.Type,
				Shift:         shift,
				ElementOffset: elemOffset + i,
				Index:         seq,
			})
			seq++
		}

		l.stride += spec.Components * scalarSize
		if rem := l.stride % recordAlign; rem != 0 {
			l.stride += recordAlign - rem
		}
	}

	l.signature = hashAttributeSpecs(attribs)
	return l, nil
}

// Stride returns the total byte size of one vertex record.
func (l *Layout) Stride() int {
	return l.stride
}

// Attributes returns the resolved attributes in declaration order.
// The returned slice must not be modified.
func (l *Layout) Attributes() []Attribute {
	return l.attribs
}

// Components returns the flattened scalar components in declaration order.
// The returned slice must not be modified.
func (l *Layout) Components() []Component {
	return l.components
}

// ComponentCount returns the number of scalar values one packed vertex
// consumes from the input value slice.
func (l *Layout) ComponentCount() int {
	return len(l.components)
}

// IndexOf returns the sequential index of the attribute's first component
// within a per-vertex value slice. Returns false if the layout has no
// attribute with that name.
func (l *Layout) IndexOf(name string) (int, bool) {
	idx, ok := l.nameIndex[name]
	return idx, ok
}

// Signature returns the FNV-1a hash of the originating attribute list
// (name, components, type, normalized, in order). Layouts built from
// structurally identical attribute lists share one signature, and thus
// one cached [Packer].
func (l *Layout) Signature() uint64 {
	return l.signature
}

// Equal reports whether two layouts were built from structurally
// identical attribute lists.
func (l *Layout) Equal(other *Layout) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.signature != other.signature || len(l.attribs) != len(other.attribs) {
		return false
	}
	for i := range l.attribs {
		if l.attribs[i] != other.attribs[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// Signature Hashing
// =============================================================================

// hashAttributeSpecs computes an FNV-1a hash over the ordered attribute
// list. Every field that affects layout or packing participates.
func hashAttributeSpecs(attribs []AttributeSpec) uint64 {
	h := fnv.New64a()
	hashWriteInt(h, len(attribs))
	for i := range attribs {
		spec := &attribs[i]
		hashWriteString(h, spec.Name)
		hashWriteInt(h, spec.Components)
		hashWriteInt(h, int(spec.Type))
		hashWriteBool(h, spec.Normalized)
	}
	return h.Sum64()
}

// hashWriteInt writes an int to the hash in little-endian byte order.
func hashWriteInt(h hash.Hash64, v int) {
	var buf [8]byte
	u := uint64(v) //nolint:gosec // hashing only, wraparound is fine
	for i := 0; i < 8; i++ {
		buf[i] = byte(u >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

// hashWriteString writes a length-prefixed string to the hash.
func hashWriteString(h hash.Hash64, s string) {
	hashWriteInt(h, len(s))
	_, _ = h.Write([]byte(s))
}

// hashWriteBool writes a bool to the hash as one byte.
func hashWriteBool(h hash.Hash64, b bool) {
	if b {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
