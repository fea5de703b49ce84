// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "testing"

func TestImageSurfaceDimensions(t *testing.T) {
	s := NewImageSurface(320, 240)
	defer s.Close()

	if s.Width() != 320 {
		t.Errorf("Width() = %d, want 320", s.Width())
	}
	if s.Height() != 240 {
		t.Errorf("Height() = %d, want 240", s.Height())
	}
	if s.DevicePixelRatio() != 1 {
		t.Errorf("DevicePixelRatio() = %v, want 1", s.DevicePixelRatio())
	}
	if s.Device() != nil {
		t.Error("Device() should be nil for an ImageSurface")
	}
}

func TestImageSurfaceSetDevicePixelRatio(t *testing.T) {
	s := NewImageSurface(100, 100)
	defer s.Close()

	s.SetDevicePixelRatio(2)
	if s.DevicePixelRatio() != 2 {
		t.Errorf("DevicePixelRatio() = %v, want 2", s.DevicePixelRatio())
	}
}

func TestImageSurfaceBind(t *testing.T) {
	s := NewImageSurface(64, 64)
	defer s.Close()

	target, err := s.Bind()
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if target.Width() != 64 || target.Height() != 64 {
		t.Errorf("Bind() target dims = %dx%d, want 64x64", target.Width(), target.Height())
	}
}

func TestImageSurfaceResize(t *testing.T) {
	s := NewImageSurface(64, 64)
	defer s.Close()

	s.Resize(128, 96)
	if s.Width() != 128 || s.Height() != 96 {
		t.Errorf("after Resize, dims = %dx%d, want 128x96", s.Width(), s.Height())
	}

	target, err := s.Bind()
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if target.Width() != 128 || target.Height() != 96 {
		t.Errorf("Bind() after Resize dims = %dx%d, want 128x96", target.Width(), target.Height())
	}
}

func TestImageSurfaceImageSharesMemory(t *testing.T) {
	s := NewImageSurface(8, 8)
	defer s.Close()

	img := s.Image()
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("Image() bounds = %v, want 8x8", img.Bounds())
	}
}

var _ Surface = (*ImageSurface)(nil)
