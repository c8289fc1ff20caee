// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vertex

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Upload errors.
var (
	// ErrNilDevice is returned when uploading without a device.
	ErrNilDevice = errors.New("vertex: device is nil")

	// ErrNilQueue is returned when uploading without a queue.
	ErrNilQueue = errors.New("vertex: queue is nil")

	// ErrNilBuffer is returned when uploading a nil buffer.
	ErrNilBuffer = errors.New("vertex: buffer is nil")

	// ErrEmptyBuffer is returned when the buffer holds no packed vertices.
	ErrEmptyBuffer = errors.New("vertex: buffer holds no packed vertices")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("vertex: nil DeviceProvider")

	// ErrNoHALAccess is returned when a provider does not expose HAL types.
	ErrNoHALAccess = errors.New("vertex: provider does not expose HAL device and queue")
)

// Upload creates a GPU vertex buffer holding buf's packed bytes.
//
// The buffer is created with Vertex|CopyDst usage and filled through the
// queue. The packed size is already a multiple of 4 (the stride invariant),
// satisfying the copy alignment requirement.
//
// The caller owns the returned buffer and must destroy it through the
// device when done.
func Upload(device hal.Device, queue hal.Queue, buf *Buffer, label string) (hal.Buffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	data := buf.Bytes()
	if len(data) == 0 {
		return nil, ErrEmptyBuffer
	}
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}

	halBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	queue.WriteBuffer(halBuf, 0, data)

	Logger().Debug("vertex: uploaded vertex buffer",
		slog.String("label", label),
		slog.Int("bytes", len(data)),
		slog.Int("vertices", buf.VertexCount()))

	return halBuf, nil
}

// UploadTo is like [Upload] but takes a shared GPU device from a
// gpucontext provider (e.g. gogpu.App), the standard integration point of
// the gogpu ecosystem. The provider must also expose HAL access through
// HalDevice() any and HalQueue() any.
func UploadTo(provider gpucontext.DeviceProvider, buf *Buffer, label string) (hal.Buffer, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}
	return Upload(device, queue, buf, label)
}
