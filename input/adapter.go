// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import (
	"math/rand"
	"sync"

	"github.com/gogpu/fluidsim"
)

// Splatter is the subset of *fluidsim.Simulator the adapter drives. A
// narrow interface keeps the package testable without a real GPU device.
type Splatter interface {
	Splat(x, y, dx, dy float32, color [3]float32) error
	SplatScaled(x, y, dx, dy float32, color [3]float32, radiusScale float32) error
}

// Dimensions reports the surface pixel size event coordinates are
// normalized against. *surface.ImageSurface and every other surface.Surface
// satisfy it.
type Dimensions interface {
	Width() int
	Height() int
}

// downSplatRadiusScale is the radius multiplier applied to the one-shot
// splat emitted on pointer down, smaller than a moved-pointer splat.
const downSplatRadiusScale = 0.7

// burstColorBoost brightens a random-burst splat's color relative to the
// dimmed palette ordinary pointer colors use.
const burstColorBoost = 10

// landmarkPointerBase offsets synthetic landmark pointer IDs well clear of
// any real pointer/touch ID space, which callers are expected to number
// from 0.
const landmarkPointerBase = -1000

// HandFrame is one hand record from a polled landmark frame: 21 normalized
// (x, y) landmarks indexed the same way as the external detector, where 4
// is the thumb tip and 8 is the index-finger tip.
type HandFrame struct {
	Landmarks [21][2]float32
}

// Open reports whether the hand is open: the Euclidean distance between
// the thumb tip and index tip strictly exceeds 0.15 in normalized
// coordinates. A distance of exactly 0.15 is closed.
func (h HandFrame) Open() bool {
	dx := h.Landmarks[4][0] - h.Landmarks[8][0]
	dy := h.Landmarks[4][1] - h.Landmarks[8][1]
	const threshold float32 = 0.15
	return dx*dx+dy*dy > threshold*threshold
}

// LandmarkSource is a pull-style source of hand-landmark frames, polled
// once per Adapter.Update call. Ordering across hands is not guaranteed.
type LandmarkSource interface {
	PollLandmarks() []HandFrame
}

// Adapter converts pointer/touch events and polled hand-landmark frames
// into pointer-state updates and simulator splats: mouse/touch down/move/up
// to pointer operations plus a one-shot splat on down, per-frame splats for
// every moved pointer, a random-burst splat stack, and a synthetic pointer
// per open hand.
//
// Adapter is not safe for concurrent use; drive it from the host's single
// frame-processing goroutine. PushBurst is the one exception, safe to call
// from another goroutine (e.g. a keyboard handler).
type Adapter struct {
	sim       Splatter
	surface   Dimensions
	landmarks LandmarkSource
	cfg       fluidsim.Config

	state *PointerState

	mu         sync.Mutex
	burstStack []int
	//nolint:gosec // G404: burst splats are cosmetic, not security-sensitive
	rng *rand.Rand
}

// NewAdapter creates an input adapter driving sim, converting event
// coordinates against surface's current pixel dimensions. cfg supplies
// SplatForce and ColorUpdateSpeed.
func NewAdapter(sim Splatter, surface Dimensions, cfg fluidsim.Config) *Adapter {
	return &Adapter{
		sim:     sim,
		surface: surface,
		cfg:     cfg,
		state:   NewPointerState(),
		//nolint:gosec // G404: see field doc
		rng: rand.New(rand.NewSource(1)),
	}
}

// SetLandmarkSource installs or clears (pass nil) the hand-landmark source
// polled by Update.
func (a *Adapter) SetLandmarkSource(src LandmarkSource) {
	a.landmarks = src
}

// PushBurst queues a random-burst request of n splats. One request is
// popped and emitted per Update call.
func (a *Adapter) PushBurst(n int) {
	a.mu.Lock()
	a.burstStack = append(a.burstStack, n)
	a.mu.Unlock()
}

// Handle processes a single pointer input event, updating pointer state and
// emitting the one-shot down-splat where applicable.
func (a *Adapter) Handle(ev Event) error {
	switch e := ev.(type) {
	case PointerDown:
		return a.down(e.ID, e.X, e.Y)
	case PointerMove:
		a.state.Move(e.ID, e.X, e.Y, a.width(), a.height())
		return nil
	case PointerUp:
		a.state.Up(e.ID)
		return nil
	case PointerCancel:
		a.state.Remove(e.ID)
		return nil
	}
	return nil
}

// Update advances the adapter by dt seconds: refreshes pointer colors,
// polls the landmark source (if any) for hand-driven pointers, emits a
// splat for every pointer that moved since the last call (including a hand
// pointer moved by this call's poll), and pops one random-burst request
// from the splat stack if present.
func (a *Adapter) Update(dt float32) error {
	a.state.Tick(dt, a.cfg.ColorUpdateSpeed, a.cfg.Colorful)

	if err := a.pollLandmarks(); err != nil {
		return err
	}
	if err := a.emitMovedSplats(); err != nil {
		return err
	}
	return a.popBurst()
}

func (a *Adapter) down(id int, x, y float32) error {
	a.state.Down(id, x, y, a.width(), a.height())
	p, _ := a.state.Get(id)
	return a.sim.SplatScaled(p.X, p.Y, 0, 0, p.Color, downSplatRadiusScale)
}

func (a *Adapter) emitMovedSplats() error {
	var firstErr error
	a.state.Each(func(p *Pointer) {
		if !p.Down || !p.Moved {
			return
		}
		dx := p.DX * a.cfg.SplatForce
		dy := p.DY * a.cfg.SplatForce
		if err := a.sim.Splat(p.X, p.Y, dx, dy, p.Color); err != nil && firstErr == nil {
			firstErr = err
		}
		p.Moved = false
	})
	return firstErr
}

func (a *Adapter) pollLandmarks() error {
	if a.landmarks == nil {
		return nil
	}
	w, h := a.width(), a.height()

	var firstErr error
	for i, frame := range a.landmarks.PollLandmarks() {
		id := landmarkPointerBase - i
		sx := frame.Landmarks[8][0] * w
		sy := frame.Landmarks[8][1] * h

		if !frame.Open() {
			a.state.Remove(id)
			continue
		}
		if a.state.IsTracked(id) {
			a.state.Move(id, sx, sy, w, h)
			continue
		}
		if err := a.down(id, sx, sy); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *Adapter) popBurst() error {
	a.mu.Lock()
	if len(a.burstStack) == 0 {
		a.mu.Unlock()
		return nil
	}
	n := a.burstStack[len(a.burstStack)-1]
	a.burstStack = a.burstStack[:len(a.burstStack)-1]
	a.mu.Unlock()

	for i := 0; i < n; i++ {
		x, y := a.rng.Float32(), a.rng.Float32()
		dx := (a.rng.Float32()*2 - 1) * a.cfg.SplatForce
		dy := (a.rng.Float32()*2 - 1) * a.cfg.SplatForce
		if err := a.sim.SplatScaled(x, y, dx, dy, a.burstColor(), 1); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) burstColor() [3]float32 {
	c := fluidsim.HSV(float64(a.rng.Float32())*360, 1, 1)
	return [3]float32{
		float32(c.R) * colorScale * burstColorBoost,
		float32(c.G) * colorScale * burstColorBoost,
		float32(c.B) * colorScale * burstColorBoost,
	}
}

func (a *Adapter) width() float32  { return float32(a.surface.Width()) }
func (a *Adapter) height() float32 { return float32(a.surface.Height()) }
