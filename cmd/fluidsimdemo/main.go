// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command fluidsimdemo drives the fluid simulator headlessly for a fixed
// number of frames, injecting synthetic pointer drags and random splat
// bursts, and saves the final composited frame to a PNG.
//
// Keyboard bindings (illustrative only, not part of the library surface):
// P toggles PAUSED; Space pushes a random burst (5-24 splats) onto the
// input adapter's splat stack. When stdin is a terminal, pressing these
// keys during the run has the documented effect; otherwise they are
// no-ops and the demo simply runs to completion.
package main

import (
	"bufio"
	"context"
	"flag"
	"image/png"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/gogpu/fluidsim"
	"github.com/gogpu/fluidsim/input"
	"github.com/gogpu/fluidsim/surface"
)

func main() {
	var (
		width   = flag.Int("width", 1280, "surface width in pixels")
		height  = flag.Int("height", 720, "surface height in pixels")
		frames  = flag.Int("frames", 180, "number of frames to simulate")
		fps     = flag.Float64("fps", 60, "simulated frames per second")
		output  = flag.String("output", "fluidsim.png", "output PNG path")
	)
	flag.Parse()

	if err := run(*width, *height, *frames, *fps, *output); err != nil {
		log.Fatalf("fluidsimdemo: %v", err)
	}
}

func run(width, height, frames int, fps float64, output string) error {
	cfg := fluidsim.DefaultConfig()

	ctx := context.Background()
	aspect := float32(width) / float32(height)
	sim, err := fluidsim.New(ctx, cfg, fluidsim.WithAspectRatio(aspect))
	if err != nil {
		return err
	}
	defer sim.Close()

	surf := surface.NewImageSurface(width, height)
	defer surf.Close()

	adapter := input.NewAdapter(sim, surf, cfg)

	paused := false
	keys := watchKeyboard()

	dt := float32(1 / fps)
	//nolint:gosec // G404: demo pointer path, not security-sensitive
	rng := rand.New(rand.NewSource(1))

	// Seed a synthetic mouse drag across the surface so the output isn't an
	// empty field even with no real input device attached.
	dragID := 0
	_ = adapter.Handle(input.PointerDown{ID: dragID, X: float32(width) * 0.2, Y: float32(height) * 0.5})

	for i := 0; i < frames; i++ {
		select {
		case key := <-keys:
			handleKey(key, &paused, adapter)
		default:
		}

		t := float32(i) / float32(frames)
		x := float32(width) * (0.2 + 0.6*t)
		y := float32(height) * (0.5 + 0.2*float32(math.Sin(float64(t)*2*math.Pi)))
		_ = adapter.Handle(input.PointerMove{ID: dragID, X: x, Y: y})

		if i == frames/2 {
			adapter.PushBurst(5 + rng.Intn(20))
		}

		if err := adapter.Update(dt); err != nil {
			return err
		}
		if !paused {
			if err := sim.Step(dt); err != nil {
				return err
			}
		}
	}

	img, err := sim.SnapshotResized(width, height)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	log.Printf("fluidsimdemo: wrote %s (%dx%d, %d frames)", output, width, height, frames)
	return nil
}

// handleKey implements the illustrative keyboard bindings from the original
// demo: P toggles pause, Space pushes a random burst.
func handleKey(key byte, paused *bool, adapter *input.Adapter) {
	switch key {
	case 'p', 'P':
		*paused = !*paused
	case ' ':
		//nolint:gosec // G404: demo burst size, not security-sensitive
		adapter.PushBurst(5 + rand.Intn(20))
	}
}

// watchKeyboard reads single bytes from stdin on a background goroutine, for
// an interactive run in a terminal. When a read from stdin fails (e.g. EOF
// under `go test` or with input redirected from /dev/null) the goroutine
// exits without closing the channel, so receives from it simply block.
func watchKeyboard() <-chan byte {
	ch := make(chan byte)
	go func() {
		r := bufio.NewReader(os.Stdin)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case ch <- b:
			case <-time.After(time.Second):
			}
		}
	}()
	return ch
}
