// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import (
	"fmt"
	"testing"
)

// =============================================================================
// Test Helpers
// =============================================================================

// mapProgram resolves attribute locations from a fixed map, standing in
// for shader-program introspection.
type mapProgram map[string]uint32

func (p mapProgram) AttribLocation(name string) (uint32, bool) {
	loc, ok := p[name]
	return loc, ok
}

// recordingBinder captures binding calls for assertions.
type recordingBinder struct {
	calls []string
}

func (b *recordingBinder) EnableAttrib(location uint32) {
	b.calls = append(b.calls, fmt.Sprintf("enable %d", location))
}

func (b *recordingBinder) DisableAttrib(location uint32) {
	b.calls = append(b.calls, fmt.Sprintf("disable %d", location))
}

func (b *recordingBinder) SetAttribPointer(location uint32, components int, typ ScalarType, normalized bool, stride, byteOffset int) {
	b.calls = append(b.calls, fmt.Sprintf("pointer %d %d %s %t %d %d",
		location, components, typ, normalized, stride, byteOffset))
}

func (b *recordingBinder) reset() {
	b.calls = nil
}

// count returns how many recorded calls start with prefix.
func (b *recordingBinder) count(prefix string) int {
	n := 0
	for _, c := range b.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// =============================================================================
// BindingState Tests
// =============================================================================

func TestBindingState_Activate(t *testing.T) {
	l := mustBuildLayout(t, meshAttribs())
	binder := &recordingBinder{}
	state := NewBindingState(binder)
	prog := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}

	state.Activate(l, prog, false)

	if n := binder.count("enable"); n != 4 {
		t.Errorf("expected 4 enables, got %d: %v", n, binder.calls)
	}
	if n := binder.count("pointer"); n != 4 {
		t.Errorf("expected 4 pointer calls, got %d", n)
	}
	if n := binder.count("disable"); n != 0 {
		t.Errorf("expected no disables, got %d", n)
	}
	if state.BoundCount() != 4 {
		t.Errorf("expected 4 bound locations, got %d", state.BoundCount())
	}

	// Pointer configuration carries the layout's stride and offsets.
	want := fmt.Sprintf("pointer 2 1 Uint16 true %d 20", l.Stride())
	found := false
	for _, c := range binder.calls {
		if c == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected call %q, got %v", want, binder.calls)
	}
}

func TestBindingState_RepeatActivateSkipsEnables(t *testing.T) {
	l := mustBuildLayout(t, meshAttribs())
	binder := &recordingBinder{}
	state := NewBindingState(binder)
	prog := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}

	state.Activate(l, prog, false)
	binder.reset()

	state.Activate(l, prog, false)

	if n := binder.count("enable"); n != 0 {
		t.Errorf("expected 0 enables on repeat activate, got %d", n)
	}
	if n := binder.count("disable"); n != 0 {
		t.Errorf("expected 0 disables on repeat activate, got %d", n)
	}
	// The pointer is always reconfigured.
	if n := binder.count("pointer"); n != 4 {
		t.Errorf("expected 4 pointer calls, got %d", n)
	}
}

func TestBindingState_ForceReenables(t *testing.T) {
	l := mustBuildLayout(t, meshAttribs())
	binder := &recordingBinder{}
	state := NewBindingState(binder)
	prog := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}

	state.Activate(l, prog, false)
	binder.reset()

	state.Activate(l, prog, true)
	if n := binder.count("enable"); n != 4 {
		t.Errorf("expected 4 enables with force, got %d", n)
	}
}

func TestBindingState_UnusedAttributeSkipped(t *testing.T) {
	l := mustBuildLayout(t, meshAttribs())
	binder := &recordingBinder{}
	state := NewBindingState(binder)

	// The program consumes only a subset of the layout's attributes.
	prog := mapProgram{"position": 0, "uv": 1}
	state.Activate(l, prog, false)

	if n := binder.count("enable"); n != 2 {
		t.Errorf("expected 2 enables, got %d", n)
	}
	if state.BoundCount() != 2 {
		t.Errorf("expected 2 bound locations, got %d", state.BoundCount())
	}
}

func TestBindingState_SweepDisablesUnclaimed(t *testing.T) {
	full := mustBuildLayout(t, meshAttribs())
	slim := mustBuildLayout(t, []AttributeSpec{
		{Name: "position", Components: 3, Type: Float32},
	})
	binder := &recordingBinder{}
	state := NewBindingState(binder)

	fullProg := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}
	slimProg := mapProgram{"position": 0}

	state.Activate(full, fullProg, false)
	binder.reset()

	// Switching to a layout/program pair claiming only location 0 must
	// sweep locations 1-3.
	state.Activate(slim, slimProg, false)

	if n := binder.count("disable"); n != 3 {
		t.Errorf("expected 3 disables, got %d: %v", n, binder.calls)
	}
	if n := binder.count("enable"); n != 0 {
		t.Errorf("expected 0 enables (location 0 still bound), got %d", n)
	}
	if state.BoundCount() != 1 {
		t.Errorf("expected 1 bound location after sweep, got %d", state.BoundCount())
	}
}

func TestBindingState_ProgramSwitchKeepsSharedLocations(t *testing.T) {
	l := mustBuildLayout(t, meshAttribs())
	binder := &recordingBinder{}
	state := NewBindingState(binder)

	progA := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}
	progB := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}

	state.Activate(l, progA, false)
	binder.reset()

	// Same locations under a different program: enable state is already
	// correct per location, only pointers are re-issued.
	state.Activate(l, progB, false)
	if n := binder.count("enable"); n != 0 {
		t.Errorf("expected 0 enables when locations are unchanged, got %d", n)
	}
	if n := binder.count("disable"); n != 0 {
		t.Errorf("expected 0 disables, got %d", n)
	}
}

func TestBindingState_Reset(t *testing.T) {
	l := mustBuildLayout(t, meshAttribs())
	binder := &recordingBinder{}
	state := NewBindingState(binder)
	prog := mapProgram{"position": 0, "uv": 1, "color": 2, "bone": 3}

	state.Activate(l, prog, false)
	state.Reset()

	if state.BoundCount() != 0 {
		t.Errorf("expected no bound locations after Reset, got %d", state.BoundCount())
	}

	// After a context loss the driver state is gone; the next activate
	// re-enables everything.
	binder.reset()
	state.Activate(l, prog, false)
	if n := binder.count("enable"); n != 4 {
		t.Errorf("expected 4 enables after Reset, got %d", n)
	}
}
