package sim_test

import (
	"context"
	"math"
	"testing"

	"github.com/gogpu/fluidsim/backend/software"
	"github.com/gogpu/fluidsim/gpucore"
	"github.com/gogpu/fluidsim/internal/gpu"
	"github.com/gogpu/fluidsim/shaders"
	"github.com/gogpu/fluidsim/sim"
)

func compileAll(t *testing.T, dev gpu.Device) map[string]*gpu.Program {
	t.Helper()
	programs := make(map[string]*gpu.Program, len(shaders.Names))
	for _, name := range shaders.Names {
		frag, ok := shaders.Fragment(name)
		if !ok {
			t.Fatalf("no fragment source for %q", name)
		}
		p, err := dev.CompileProgram(name, shaders.BaseVertex, frag, nil)
		if err != nil {
			t.Fatalf("CompileProgram(%q) error = %v", name, err)
		}
		programs[name] = p
	}
	return programs
}

func TestBloomApplyProducesFiniteOutput(t *testing.T) {
	dev := software.New()
	if _, err := dev.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	programs := compileAll(t, dev)
	cfg := sim.DefaultConfig()
	cfg.BloomResolution = 32
	cfg.BloomIterations = 3

	bloom, err := sim.NewBloom(dev, programs, cfg, gpucore.TextureFormatRGBA16Float)
	if err != nil {
		t.Fatalf("NewBloom() error = %v", err)
	}
	t.Cleanup(bloom.Close)

	dye, err := dev.CreateFBO(32, 32, gpucore.TextureFormatRGBA16Float)
	if err != nil {
		t.Fatalf("CreateFBO() error = %v", err)
	}
	for i := range dye.Texels {
		dye.Texels[i] = 1
	}

	out, err := bloom.Apply(dye)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for _, v := range out.Texels {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("bloom output diverged: %v", v)
		}
	}
}

func TestSunraysApplyProducesFiniteOutput(t *testing.T) {
	dev := software.New()
	if _, err := dev.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	programs := compileAll(t, dev)
	cfg := sim.DefaultConfig()
	cfg.SunraysResolution = 32

	sunrays, err := sim.NewSunrays(dev, programs, cfg, gpucore.TextureFormatR16Float)
	if err != nil {
		t.Fatalf("NewSunrays() error = %v", err)
	}
	t.Cleanup(sunrays.Close)

	dye, err := dev.CreateFBO(32, 32, gpucore.TextureFormatRGBA16Float)
	if err != nil {
		t.Fatalf("CreateFBO() error = %v", err)
	}
	for i := range dye.Texels {
		dye.Texels[i] = 0.5
	}

	out, err := sunrays.Apply(dye, [2]float32{0.5, 0.5})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	for _, v := range out.Texels {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("sunrays output diverged: %v", v)
		}
	}
}
