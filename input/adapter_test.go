// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import (
	"testing"

	"github.com/gogpu/fluidsim"
)

type splatCall struct {
	x, y, dx, dy float32
	color        [3]float32
	radiusScale  float32
}

type fakeSplatter struct {
	calls []splatCall
}

func (f *fakeSplatter) Splat(x, y, dx, dy float32, color [3]float32) error {
	f.calls = append(f.calls, splatCall{x, y, dx, dy, color, 1})
	return nil
}

func (f *fakeSplatter) SplatScaled(x, y, dx, dy float32, color [3]float32, radiusScale float32) error {
	f.calls = append(f.calls, splatCall{x, y, dx, dy, color, radiusScale})
	return nil
}

type fixedDimensions struct{ w, h int }

func (d fixedDimensions) Width() int  { return d.w }
func (d fixedDimensions) Height() int { return d.h }

func testConfig() fluidsim.Config {
	cfg := fluidsim.DefaultConfig()
	cfg.SplatForce = 1000
	cfg.ColorUpdateSpeed = 10
	return cfg
}

func TestAdapterPointerDownEmitsOneShotSplat(t *testing.T) {
	sim := &fakeSplatter{}
	a := NewAdapter(sim, fixedDimensions{100, 100}, testConfig())

	if err := a.Handle(PointerDown{ID: 1, X: 50, Y: 50}); err != nil {
		t.Fatalf("Handle(PointerDown) error = %v", err)
	}
	if len(sim.calls) != 1 {
		t.Fatalf("splat calls = %d, want 1", len(sim.calls))
	}
	call := sim.calls[0]
	if call.dx != 0 || call.dy != 0 {
		t.Errorf("down-splat velocity delta = (%v,%v), want (0,0)", call.dx, call.dy)
	}
	if call.radiusScale != downSplatRadiusScale {
		t.Errorf("down-splat radiusScale = %v, want %v", call.radiusScale, downSplatRadiusScale)
	}
}

func TestAdapterMovedPointerSplatsOnUpdate(t *testing.T) {
	sim := &fakeSplatter{}
	a := NewAdapter(sim, fixedDimensions{100, 100}, testConfig())

	_ = a.Handle(PointerDown{ID: 1, X: 50, Y: 50})
	sim.calls = nil // discard the down-splat

	_ = a.Handle(PointerMove{ID: 1, X: 80, Y: 50})
	if err := a.Update(1.0 / 60); err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if len(sim.calls) != 1 {
		t.Fatalf("splat calls after Update = %d, want 1", len(sim.calls))
	}
	if sim.calls[0].dx == 0 && sim.calls[0].dy == 0 {
		t.Error("moved-pointer splat has zero velocity delta")
	}

	sim.calls = nil
	if err := a.Update(1.0 / 60); err != nil {
		t.Fatalf("second Update error = %v", err)
	}
	if len(sim.calls) != 0 {
		t.Errorf("splat calls on second Update (moved cleared) = %d, want 0", len(sim.calls))
	}
}

func TestAdapterPointerUpStopsSplats(t *testing.T) {
	sim := &fakeSplatter{}
	a := NewAdapter(sim, fixedDimensions{100, 100}, testConfig())

	_ = a.Handle(PointerDown{ID: 1, X: 50, Y: 50})
	_ = a.Handle(PointerUp{ID: 1})
	sim.calls = nil

	_ = a.Handle(PointerMove{ID: 1, X: 90, Y: 50})
	if err := a.Update(1.0 / 60); err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if len(sim.calls) != 0 {
		t.Errorf("splat calls after PointerUp = %d, want 0", len(sim.calls))
	}
}

func TestAdapterPushBurstEmitsSplatsOnUpdate(t *testing.T) {
	sim := &fakeSplatter{}
	a := NewAdapter(sim, fixedDimensions{100, 100}, testConfig())

	a.PushBurst(5)
	if err := a.Update(0); err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if len(sim.calls) != 5 {
		t.Fatalf("burst splat calls = %d, want 5", len(sim.calls))
	}
}

type fakeLandmarkSource struct {
	frames [][]HandFrame
	i      int
}

func (f *fakeLandmarkSource) PollLandmarks() []HandFrame {
	if f.i >= len(f.frames) {
		return nil
	}
	frame := f.frames[f.i]
	f.i++
	return frame
}

func openHand(indexX, indexY float32) HandFrame {
	var h HandFrame
	h.Landmarks[4] = [2]float32{0, 0}
	h.Landmarks[8] = [2]float32{indexX, indexY}
	return h
}

func closedHand() HandFrame {
	var h HandFrame
	h.Landmarks[4] = [2]float32{0, 0}
	h.Landmarks[8] = [2]float32{0, 0}
	return h
}

func TestAdapterLandmarkOpenHandDrivesPointer(t *testing.T) {
	sim := &fakeSplatter{}
	a := NewAdapter(sim, fixedDimensions{100, 100}, testConfig())
	src := &fakeLandmarkSource{frames: [][]HandFrame{
		{openHand(0.3, 0.4)},
		{openHand(0.5, 0.4)},
	}}
	a.SetLandmarkSource(src)

	if err := a.Update(1.0 / 60); err != nil { // frame 0: hand appears, one-shot down-splat
		t.Fatalf("Update error = %v", err)
	}
	if len(sim.calls) != 1 {
		t.Fatalf("after frame 0, splat calls = %d, want 1", len(sim.calls))
	}
	sim.calls = nil

	if err := a.Update(1.0 / 60); err != nil { // frame 1: hand moves, down&&moved splat
		t.Fatalf("Update error = %v", err)
	}
	if len(sim.calls) != 1 {
		t.Fatalf("after frame 1, splat calls = %d, want 1", len(sim.calls))
	}
}

func TestAdapterLandmarkClosedHandRemovesPointer(t *testing.T) {
	sim := &fakeSplatter{}
	a := NewAdapter(sim, fixedDimensions{100, 100}, testConfig())
	src := &fakeLandmarkSource{frames: [][]HandFrame{
		{openHand(0.3, 0.4)},
		{closedHand()},
	}}
	a.SetLandmarkSource(src)

	_ = a.Update(1.0 / 60)
	if !a.state.IsTracked(landmarkPointerBase) {
		t.Fatal("landmark pointer not tracked after an open frame")
	}

	_ = a.Update(1.0 / 60)
	if a.state.IsTracked(landmarkPointerBase) {
		t.Error("landmark pointer still tracked after the hand closed")
	}
}

func TestHandFrameOpenBoundary(t *testing.T) {
	var h HandFrame
	h.Landmarks[4] = [2]float32{0, 0}
	h.Landmarks[8] = [2]float32{0.15, 0}
	if h.Open() {
		t.Error("distance exactly 0.15 should be treated as closed")
	}
	h.Landmarks[8] = [2]float32{0.150001, 0}
	if !h.Open() {
		t.Error("distance just over 0.15 should be treated as open")
	}
}
