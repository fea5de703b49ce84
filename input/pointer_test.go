// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import "testing"

func TestPointerStateDownInitializesNormalizedCoords(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 320, 120, 640, 480)

	p, ok := ps.Get(1)
	if !ok {
		t.Fatal("pointer 1 not tracked after Down")
	}
	if !p.Down || p.Moved {
		t.Errorf("after Down: Down=%v Moved=%v, want true/false", p.Down, p.Moved)
	}
	wantU, wantV := float32(0.5), float32(0.75)
	if p.X != wantU || p.Y != wantV {
		t.Errorf("(X,Y) = (%v,%v), want (%v,%v)", p.X, p.Y, wantU, wantV)
	}
	if p.DX != 0 || p.DY != 0 {
		t.Errorf("delta after Down = (%v,%v), want (0,0)", p.DX, p.DY)
	}
}

func TestPointerStateDownPreservesColor(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	p1, _ := ps.Get(1)

	ps.Up(1)
	ps.Down(1, 10, 10, 100, 100)
	p2, _ := ps.Get(1)

	if p1.Color != p2.Color {
		t.Errorf("color changed across Up/Down: %v -> %v", p1.Color, p2.Color)
	}
}

func TestPointerStateMoveSetsMovedAboveThreshold(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	ps.Move(1, 50, 0, 100, 100)

	p, _ := ps.Get(1)
	if !p.Moved {
		t.Error("Moved = false after a large move, want true")
	}
}

func TestPointerStateMoveBelowThresholdNotMoved(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 50, 50, 100, 100)
	ps.Move(1, 50, 50, 100, 100)

	p, _ := ps.Get(1)
	if p.Moved {
		t.Error("Moved = true for an identical position, want false")
	}
}

func TestPointerStateMoveOnUnknownIDIsNoop(t *testing.T) {
	ps := NewPointerState()
	ps.Move(99, 1, 1, 100, 100)
	if ps.IsTracked(99) {
		t.Error("Move on an unknown ID should not register a pointer")
	}
}

func TestPointerStateUpClearsDownAndMoved(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	ps.Move(1, 50, 50, 100, 100)
	ps.Up(1)

	p, _ := ps.Get(1)
	if p.Down || p.Moved {
		t.Errorf("after Up: Down=%v Moved=%v, want false/false", p.Down, p.Moved)
	}
}

func TestPointerStateRemoveDeletes(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	ps.Remove(1)

	if ps.IsTracked(1) {
		t.Error("pointer still tracked after Remove")
	}
}

func TestPointerStateTickRefreshesColorsAtThreshold(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	before, _ := ps.Get(1)

	ps.Tick(0.99, 1, true) // timer at 0.99, below 1.0
	mid, _ := ps.Get(1)
	if mid.Color != before.Color {
		t.Error("color changed before the refresh threshold was crossed")
	}

	ps.Tick(0.02, 1, true) // timer crosses 1.0
	after, _ := ps.Get(1)
	_ = after // colors are random; just verify Tick doesn't panic and timer wraps
}

func TestPointerStateTickNoopWhenNotColorful(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	before, _ := ps.Get(1)

	ps.Tick(5, 10, false) // would cross the threshold many times over if colorful
	after, _ := ps.Get(1)
	if after.Color != before.Color {
		t.Error("color changed while colorful was false")
	}
}

func TestPointerStateEachVisitsAllPointers(t *testing.T) {
	ps := NewPointerState()
	ps.Down(1, 0, 0, 100, 100)
	ps.Down(2, 0, 0, 100, 100)

	seen := map[int]bool{}
	ps.Each(func(p *Pointer) { seen[p.ID] = true })

	if !seen[1] || !seen[2] {
		t.Errorf("Each visited %v, want both 1 and 2", seen)
	}
}
