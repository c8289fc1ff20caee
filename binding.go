// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

// Program resolves attribute names to GPU binding locations.
//
// Program is the shader-introspection boundary: implementations wrap a
// linked shader program object and report where (or whether) it consumes
// a named attribute. Returning false means the program ignores the
// attribute; that is legal, not an error, and lets one buffer layout be
// reused across programs that consume different attribute subsets of the
// same vertex record.
type Program interface {
	AttribLocation(name string) (location uint32, ok bool)
}

// Binder issues the attribute-binding calls of the underlying graphics
// API. Implementations are thin wrappers over the API's call stream;
// tests substitute a recording fake.
type Binder interface {
	// EnableAttrib enables the vertex attribute array at location.
	EnableAttrib(location uint32)

	// DisableAttrib disables the vertex attribute array at location.
	DisableAttrib(location uint32)

	// SetAttribPointer configures how the attribute at location reads
	// from the currently bound vertex buffer.
	SetAttribPointer(location uint32, components int, typ ScalarType, normalized bool, stride, byteOffset int)
}

// BindingState tracks which GPU attribute location is currently enabled
// and which program last claimed it, so Activate can skip redundant
// enable/disable calls when consecutive draws reuse one layout/program
// pair, the common case.
//
// BindingState models driver state: keep exactly one instance per
// graphics context and pass it explicitly. It must be confined to the
// rendering thread, and Reset must be called if the context is lost or
// recreated, since locations are only valid within one context's
// programs.
type BindingState struct {
	binder Binder

	// bound maps each enabled location to the program that last
	// claimed it.
	bound map[uint32]Program

	// claimed is scratch for Activate's claim pass, reused across
	// calls to avoid a per-draw allocation.
	claimed map[uint32]struct{}
}

// NewBindingState creates binding state for one graphics context.
func NewBindingState(binder Binder) *BindingState {
	return &BindingState{
		binder:  binder,
		bound:   make(map[uint32]Program),
		claimed: make(map[uint32]struct{}),
	}
}

// Activate mirrors the GPU attribute-binding set onto the layout's
// attributes for the given program.
//
// For each attribute the program consumes, the location is enabled unless
// already enabled (or force is set), and the pointer/stride/offset is
// always reconfigured from the layout. Attributes the program ignores are
// silently skipped. A second pass then disables every location still
// enabled from a previous activation that this layout did not claim, so
// the binding set exactly mirrors the layout's attributes on return.
//
// A vertex buffer must already be bound in the underlying context.
// Activate issues no recoverable errors.
func (s *BindingState) Activate(layout *Layout, program Program, force bool) {
	clear(s.claimed)

	for i := range layout.attribs {
		attrib := &layout.attribs[i]
		loc, ok := program.AttribLocation(attrib.Name)
		if !ok {
			continue
		}
		if _, enabled := s.bound[loc]; !enabled || force {
			s.binder.EnableAttrib(loc)
		}
		s.binder.SetAttribPointer(loc, attrib.Components, attrib.Type, attrib.Normalized, layout.stride, attrib.ByteOffset)
		s.bound[loc] = program
		s.claimed[loc] = struct{}{}
	}

	// Sweep: release locations the previous layout enabled but this one
	// does not use.
	for loc := range s.bound {
		if _, ok := s.claimed[loc]; !ok {
			s.binder.DisableAttrib(loc)
			delete(s.bound, loc)
		}
	}
}

// BoundCount returns the number of currently enabled locations.
func (s *BindingState) BoundCount() int {
	return len(s.bound)
}

// Reset forgets all tracked bindings without issuing GPU calls. Call
// after the graphics context is lost or recreated; the driver-side state
// is gone, so disabling through a dead context would be meaningless.
func (s *BindingState) Reset() {
	clear(s.bound)
	clear(s.claimed)
}
