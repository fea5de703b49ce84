// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input converts raw pointer, touch, and hand-landmark events into
// the splats that drive a [github.com/gogpu/fluidsim.Simulator].
package input

import (
	"math/rand"
	"sync"

	"github.com/gogpu/fluidsim"
)

// Pointer is a mutable record of one active input source: a mouse, a touch
// point, or a synthetic pointer driven by a hand landmark. Coordinates are
// normalized to [0,1] with origin at bottom-left, the opposite convention
// from the surface-pixel input events that feed [PointerState].
type Pointer struct {
	ID int

	X, Y         float32
	PrevX, PrevY float32
	DX, DY       float32

	Down  bool
	Moved bool

	Color [3]float32
}

// colorScale dims the bright HSV(h, 1, 1) a pointer is assigned down to a
// value suited for additive dye splats, matching the original demo's
// generateColor palette.
const colorScale = 0.15

// PointerState is a registry of active pointers keyed by ID, plus the
// global color-refresh timer shared by all of them.
//
// PointerState is safe for concurrent use.
type PointerState struct {
	mu         sync.Mutex
	pointers   map[int]*Pointer
	colorTimer float32
	rng        *rand.Rand
}

// NewPointerState creates an empty pointer registry.
func NewPointerState() *PointerState {
	return &PointerState{
		pointers: make(map[int]*Pointer),
		//nolint:gosec // G404: splat colors are cosmetic, not security-sensitive
		rng: rand.New(rand.NewSource(1)),
	}
}

// Down inserts or updates the pointer identified by id at surface pixel
// coordinates (surfaceX, surfaceY) within a surface of the given
// dimensions, setting down=true and clearing moved and the accumulated
// delta. An existing pointer's color is preserved; a new one is assigned a
// random bright HSV color.
func (ps *PointerState) Down(id int, surfaceX, surfaceY, width, height float32) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	u, v := surfaceToNormalized(surfaceX, surfaceY, width, height)

	p, ok := ps.pointers[id]
	if !ok {
		p = &Pointer{ID: id, Color: ps.randomColor()}
		ps.pointers[id] = p
	}
	p.Down = true
	p.Moved = false
	p.X, p.Y = u, v
	p.PrevX, p.PrevY = u, v
	p.DX, p.DY = 0, 0
}

// Move updates the pointer identified by id to surface pixel coordinates
// (surfaceX, surfaceY), recomputing its aspect-corrected delta and moved
// flag. It is a no-op if id is not currently registered.
func (ps *PointerState) Move(id int, surfaceX, surfaceY, width, height float32) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	p, ok := ps.pointers[id]
	if !ok {
		return
	}

	u, v := surfaceToNormalized(surfaceX, surfaceY, width, height)
	p.PrevX, p.PrevY = p.X, p.Y
	p.X, p.Y = u, v

	dx := p.X - p.PrevX
	dy := p.Y - p.PrevY
	aspect := width / height
	if aspect > 1 {
		dx *= aspect
	} else {
		dy /= aspect
	}
	p.DX, p.DY = dx, dy
	p.Moved = abs32(dx)+abs32(dy) > 1e-5
}

// Up marks the pointer identified by id as no longer down. It is a no-op
// if id is not currently registered.
func (ps *PointerState) Up(id int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if p, ok := ps.pointers[id]; ok {
		p.Down = false
		p.Moved = false
	}
}

// Remove deletes the pointer identified by id entirely, e.g. on
// PointerCancel or when a hand-landmark pointer's hand closes.
func (ps *PointerState) Remove(id int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.pointers, id)
}

// Tick advances the color-refresh timer by dt*ColorUpdateSpeed. When the
// timer crosses 1.0, every registered pointer is assigned a fresh random
// color and the timer wraps. If colorful is false, Tick is a no-op: a
// pointer keeps whatever color it was assigned on Down indefinitely.
func (ps *PointerState) Tick(dt, colorUpdateSpeed float32, colorful bool) {
	if !colorful {
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.colorTimer += dt * colorUpdateSpeed
	if ps.colorTimer < 1 {
		return
	}
	ps.colorTimer -= 1
	for _, p := range ps.pointers {
		p.Color = ps.randomColor()
	}
}

// Each calls fn once for every currently registered pointer. fn must not
// call back into PointerState.
func (ps *PointerState) Each(fn func(*Pointer)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, p := range ps.pointers {
		fn(p)
	}
}

// Get returns a snapshot of the pointer identified by id, and whether it is
// currently registered.
func (ps *PointerState) Get(id int) (Pointer, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.pointers[id]
	if !ok {
		return Pointer{}, false
	}
	return *p, true
}

// IsTracked reports whether id is currently registered, regardless of its
// down state.
func (ps *PointerState) IsTracked(id int) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	_, ok := ps.pointers[id]
	return ok
}

func (ps *PointerState) randomColor() [3]float32 {
	c := fluidsim.HSV(ps.rng.Float64()*360, 1, 1)
	return [3]float32{
		float32(c.R * colorScale),
		float32(c.G * colorScale),
		float32(c.B * colorScale),
	}
}

// surfaceToNormalized converts surface-pixel coordinates with origin at
// top-left to normalized [0,1] coordinates with origin at bottom-left.
func surfaceToNormalized(x, y, width, height float32) (u, v float32) {
	return x / width, 1 - y/height
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
