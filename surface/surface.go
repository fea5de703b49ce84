// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the host-provided rendering target the simulator
// draws into.
//
// A Surface is deliberately thin: it exposes pixel dimensions, a way to bind
// the default framebuffer for a frame, and access to whatever GPU rendering
// context backs it. It is not a drawing API, and the simulator does not use
// it directly: the simulator composites into its own output buffer, which a
// host reads back (Simulator.Snapshot) and can then present on the
// [render.RenderTarget] the Surface hands back from Bind.
package surface

import (
	"image"

	"github.com/gogpu/fluidsim/render"
)

// Surface is the target a host application provides for the simulator to
// render into: a window, an offscreen canvas, or a plain in-memory image.
//
// Surfaces are NOT thread-safe. Each surface should be driven from a single
// goroutine, or external synchronization must be used.
type Surface interface {
	// Width returns the current pixel buffer width.
	Width() int

	// Height returns the current pixel buffer height.
	Height() int

	// DevicePixelRatio returns the ratio of pixel-buffer pixels to
	// logical input-event pixels. A host compositing at 2x on a
	// high-density display reports 2; callers scale pointer coordinates
	// by this ratio before they reach simulator space.
	DevicePixelRatio() float32

	// Bind returns the default framebuffer as a [render.RenderTarget],
	// ready to receive the composited frame. For a CPU-only surface this
	// is a [render.PixmapTarget]; for a GPU-backed surface it wraps the
	// window's current swapchain texture. Bind may be called once per
	// frame; the returned target is only valid until the next Bind or
	// Resize call.
	Bind() (render.RenderTarget, error)

	// Device returns the GPU rendering context backing this surface, or
	// nil for a CPU-only surface. When non-nil, it provides at least
	// half-float RGBA color-renderable textures, matching the field
	// storage format [gpu.FBO] requires.
	Device() render.DeviceHandle

	// Resize changes the surface's pixel buffer dimensions, e.g. in
	// response to a host window resize event. Existing contents are not
	// preserved.
	Resize(width, height int)

	// Close releases resources associated with the surface. Close is
	// idempotent.
	Close() error
}

// ImageSurface is a CPU-only [Surface] backed by an *image.RGBA. It has no
// GPU rendering context; Device always returns nil.
type ImageSurface struct {
	target *render.PixmapTarget
	dpr    float32
}

// NewImageSurface creates a CPU-only surface of the given pixel dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		target: render.NewPixmapTarget(width, height),
		dpr:    1,
	}
}

// SetDevicePixelRatio overrides the default ratio of 1, for hosts that know
// their display's pixel density up front.
func (s *ImageSurface) SetDevicePixelRatio(dpr float32) {
	s.dpr = dpr
}

// Width returns the surface width in pixels.
func (s *ImageSurface) Width() int { return s.target.Width() }

// Height returns the surface height in pixels.
func (s *ImageSurface) Height() int { return s.target.Height() }

// DevicePixelRatio returns the configured pixel ratio, 1 by default.
func (s *ImageSurface) DevicePixelRatio() float32 { return s.dpr }

// Bind returns the backing pixmap target. It never fails for an
// ImageSurface.
func (s *ImageSurface) Bind() (render.RenderTarget, error) {
	return s.target, nil
}

// Device returns nil; ImageSurface has no GPU rendering context.
func (s *ImageSurface) Device() render.DeviceHandle { return nil }

// Resize reallocates the backing image at the new dimensions. Existing
// contents are discarded.
func (s *ImageSurface) Resize(width, height int) {
	s.target.Resize(width, height)
}

// Close is a no-op for an ImageSurface; there are no external resources to
// release.
func (s *ImageSurface) Close() error { return nil }

// Image returns the current backing *image.RGBA. The returned image shares
// memory with the surface.
func (s *ImageSurface) Image() *image.RGBA { return s.target.Image() }

// Ensure ImageSurface implements Surface.
var _ Surface = (*ImageSurface)(nil)
