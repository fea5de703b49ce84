// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/fluidsim/cache"
	"github.com/gogpu/fluidsim/internal/gpu"
	"github.com/gogpu/fluidsim/shaders"
	"github.com/gogpu/fluidsim/sim"
)

// Compositor combines the dye field with the bloom/sunrays post-effect
// outputs into a presentable frame. It is the sole owner of the display
// kernel's keyword-variant cache, so a Simulator never recompiles the
// display program on every SHADING/BLOOM/SUNRAYS toggle.
//
// Thread Safety: a Compositor is not safe for concurrent Composite calls;
// it is meant to be driven by the single frame-stepping goroutine, same as
// [sim.Stepper].
type Compositor struct {
	dev      gpu.Device
	variants *cache.ShardedCache[int, *gpu.Program]
	vert     string
	frag     string

	checkerboard *gpu.Program
	color        *gpu.Program
}

// NewCompositor prepares a Compositor for dev. The display kernel's source
// is resolved once and reused for every keyword-variant compile; the
// background passes (solid color fill, checkerboard) have no keyword
// variants and are compiled once up front.
func NewCompositor(dev gpu.Device) (*Compositor, error) {
	frag, ok := shaders.Fragment("display")
	if !ok {
		return nil, fmt.Errorf("render: no fragment source registered for display kernel")
	}
	c := &Compositor{
		dev:      dev,
		variants: cache.NewSharded[int, *gpu.Program](8, cache.IntHasher),
		vert:     shaders.BaseVertex,
		frag:     frag,
	}

	checkerFrag, _ := shaders.Fragment("checkerboard")
	checkerboard, err := dev.CompileProgram("checkerboard", c.vert, checkerFrag, nil)
	if err != nil {
		return nil, fmt.Errorf("render: compiling checkerboard background: %w", err)
	}
	c.checkerboard = checkerboard

	colorFrag, _ := shaders.Fragment("color")
	colorProgram, err := dev.CompileProgram("color", c.vert, colorFrag, nil)
	if err != nil {
		return nil, fmt.Errorf("render: compiling color background: %w", err)
	}
	c.color = colorProgram

	return c, nil
}

// Frame describes one composite pass' inputs: the dye field plus whichever
// post-effect outputs are active this frame, and the background to show
// through the dye's own alpha.
type Frame struct {
	Dye            *gpu.FBO
	Bloom          *gpu.FBO
	Sunrays        *gpu.FBO
	ShadingEnabled bool
	BloomIntensity float32

	Transparent bool
	BackColor   [3]float32
	Aspect      float32
}

// Composite fills dst with the background (checkerboard when f.Transparent,
// else a solid f.BackColor), then blits f into it, selecting (and lazily
// compiling) the display program variant matching f's active keyword set.
func (c *Compositor) Composite(dst *gpu.FBO, f Frame) error {
	if err := c.drawBackground(dst, f); err != nil {
		return err
	}

	mask := sim.KeywordMask(f.ShadingEnabled, f.Bloom != nil, f.Sunrays != nil)
	program, err := c.variant(mask)
	if err != nil {
		return err
	}

	uniforms := gpu.Uniforms{
		"uTexture":        f.Dye,
		"uShadingEnabled": f.ShadingEnabled,
		"uBloomEnabled":   f.Bloom != nil,
		"uSunraysEnabled": f.Sunrays != nil,
	}
	if f.Bloom != nil {
		uniforms["uBloom"] = f.Bloom
		uniforms["uBloomIntensity"] = f.BloomIntensity
	}
	if f.Sunrays != nil {
		uniforms["uSunrays"] = f.Sunrays
	}

	if err := c.dev.Blit(dst, program, uniforms); err != nil {
		return fmt.Errorf("%w: display composite: %w", sim.ErrStepError, err)
	}
	return nil
}

// drawBackground fills dst with a checkerboard (transparent mode) or a
// solid color, the way the original demo clears the canvas before drawing
// the dye field on top of it.
func (c *Compositor) drawBackground(dst *gpu.FBO, f Frame) error {
	if f.Transparent {
		aspect := f.Aspect
		if aspect == 0 {
			aspect = 1
		}
		uniforms := gpu.Uniforms{"uAspectRatio": aspect}
		if err := c.dev.Blit(dst, c.checkerboard, uniforms); err != nil {
			return fmt.Errorf("render: checkerboard background: %w", err)
		}
		return nil
	}

	col := [4]float32{f.BackColor[0], f.BackColor[1], f.BackColor[2], 1}
	if err := c.dev.Blit(dst, c.color, gpu.Uniforms{"uColor": col}); err != nil {
		return fmt.Errorf("render: color background: %w", err)
	}
	return nil
}

// variant returns the compiled display program for mask, compiling and
// caching it on first use. The ShardedCache keys on the int bitmask
// directly via cache.IntHasher, never a string hash, so there is no
// keyword-to-string round trip on the hot path.
func (c *Compositor) variant(mask int) (*gpu.Program, error) {
	if p, ok := c.variants.Get(mask); ok {
		return p, nil
	}
	keywords := sim.DisplayKeywords(mask)
	p, err := c.dev.CompileProgram("display", c.vert, c.frag, keywords)
	if err != nil {
		return nil, fmt.Errorf("render: compiling display variant %d: %w", mask, err)
	}
	c.variants.Set(mask, p)
	return p, nil
}

// VariantCount reports how many distinct keyword combinations have been
// compiled so far, for diagnostics.
func (c *Compositor) VariantCount() int {
	return c.variants.Len()
}
