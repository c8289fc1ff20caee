// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrNoVertexFormat is returned when an attribute has no WebGPU vertex
// format, e.g. a 16-bit scalar with an odd component count.
var ErrNoVertexFormat = errors.New("vertex: attribute has no WebGPU vertex format")

// Format returns the WebGPU vertex format for a scalar type and component
// count.
//
// WebGPU only defines 16-bit formats for two and four components, and no
// normalized 32-bit integer formats, so layouts that are perfectly legal
// for GL-style APIs may still have no WebGPU representation; those return
// [ErrNoVertexFormat].
func Format(typ ScalarType, components int, normalized bool) (gputypes.VertexFormat, error) {
	if components < 1 || components > 4 {
		return 0, fmt.Errorf("%w: %d components", ErrComponentCount, components)
	}

	switch typ {
	case Float32:
		switch components {
		case 1:
			return gputypes.VertexFormatFloat32, nil
		case 2:
			return gputypes.VertexFormatFloat32x2, nil
		case 3:
			return gputypes.VertexFormatFloat32x3, nil
		case 4:
			return gputypes.VertexFormatFloat32x4, nil
		}

	case Int32:
		if normalized {
			return 0, fmt.Errorf("%w: no normalized 32-bit integer formats", ErrNoVertexFormat)
		}
		switch components {
		case 1:
			return gputypes.VertexFormatSint32, nil
		case 2:
			return gputypes.VertexFormatSint32x2, nil
		case 3:
			return gputypes.VertexFormatSint32x3, nil
		case 4:
			return gputypes.VertexFormatSint32x4, nil
		}

	case Uint32:
		if normalized {
			return 0, fmt.Errorf("%w: no normalized 32-bit integer formats", ErrNoVertexFormat)
		}
		switch components {
		case 1:
			return gputypes.VertexFormatUint32, nil
		case 2:
			return gputypes.VertexFormatUint32x2, nil
		case 3:
			return gputypes.VertexFormatUint32x3, nil
		case 4:
			return gputypes.VertexFormatUint32x4, nil
		}

	case Int16:
		switch components {
		case 2:
			if normalized {
				return gputypes.VertexFormatSnorm16x2, nil
			}
			return gputypes.VertexFormatSint16x2, nil
		case 4:
			if normalized {
				return gputypes.VertexFormatSnorm16x4, nil
			}
			return gputypes.VertexFormatSint16x4, nil
		}
		return 0, fmt.Errorf("%w: Int16 with %d components", ErrNoVertexFormat, components)

	case Uint16:
		switch components {
		case 2:
			if normalized {
				return gputypes.VertexFormatUnorm16x2, nil
			}
			return gputypes.VertexFormatUint16x2, nil
		case 4:
			if normalized {
				return gputypes.VertexFormatUnorm16x4, nil
			}
			return gputypes.VertexFormatUint16x4, nil
		}
		return 0, fmt.Errorf("%w: Uint16 with %d components", ErrNoVertexFormat, components)
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownScalarType, typ)
}

// Format returns the WebGPU vertex format of the attribute.
func (a *Attribute) Format() (gputypes.VertexFormat, error) {
	return Format(a.Type, a.Components, a.Normalized)
}

// BufferLayout converts the layout into a WebGPU vertex buffer layout for
// render pipeline creation. Attributes receive consecutive shader
// locations starting at baseLocation, in declaration order.
//
// Returns an error if any attribute has no WebGPU vertex format.
func (l *Layout) BufferLayout(baseLocation uint32) (gputypes.VertexBufferLayout, error) {
	attrs := make([]gputypes.VertexAttribute, 0, len(l.attribs))
	for i := range l.attribs {
		attrib := &l.attribs[i]
		format, err := attrib.Format()
		if err != nil {
			return gputypes.VertexBufferLayout{}, fmt.Errorf("attribute %q: %w", attrib.Name, err)
		}
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(attrib.ByteOffset), //nolint:gosec // offsets are small and non-negative
			ShaderLocation: baseLocation + uint32(i),  //nolint:gosec // attribute count is bounded by GPU limits
		})
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: uint64(l.stride), //nolint:gosec // stride is small and positive
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}
