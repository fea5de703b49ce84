package fluidsim

import (
	"testing"

	"github.com/gogpu/fluidsim/backend/software"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.device != nil {
		t.Error("default device should be nil, resolved later via accelerator/backend registry")
	}
	if o.aspect != 1 {
		t.Errorf("default aspect = %v, want 1", o.aspect)
	}
}

func TestWithDevice(t *testing.T) {
	dev := software.New()
	o := defaultOptions()
	WithDevice(dev)(&o)
	if o.device != dev {
		t.Error("WithDevice did not set the injected device")
	}
}

func TestWithAspectRatio(t *testing.T) {
	o := defaultOptions()
	WithAspectRatio(1.77)(&o)
	if o.aspect != 1.77 {
		t.Errorf("aspect = %v, want 1.77", o.aspect)
	}
}

func TestWithAspectRatioIgnoresNonPositive(t *testing.T) {
	o := defaultOptions()
	WithAspectRatio(0)(&o)
	if o.aspect != 1 {
		t.Errorf("aspect = %v, want default 1 for non-positive input", o.aspect)
	}
	WithAspectRatio(-2)(&o)
	if o.aspect != 1 {
		t.Errorf("aspect = %v, want default 1 for negative input", o.aspect)
	}
}

func TestWithAspectRatioSetsAspectSet(t *testing.T) {
	o := defaultOptions()
	if o.aspectSet {
		t.Error("aspectSet should start false")
	}
	WithAspectRatio(1.5)(&o)
	if !o.aspectSet {
		t.Error("WithAspectRatio should set aspectSet")
	}
}

func applyPatches(o simulatorOptions, cfg Config) Config {
	for _, patch := range o.patches {
		patch(&cfg)
	}
	return cfg
}

func TestConfigOptionsPatchConfig(t *testing.T) {
	o := defaultOptions()
	WithSimResolution(64)(&o)
	WithDyeResolution(512)(&o)
	WithBloom(false)(&o)
	WithSunrays(false)(&o)
	WithShading(false)(&o)
	WithColorful(false)(&o)
	WithCurlStrength(10)(&o)
	WithSplatRadius(0.1)(&o)
	WithSplatForce(1000)(&o)

	cfg := applyPatches(o, DefaultConfig())
	switch {
	case cfg.SimResolution != 64:
		t.Errorf("SimResolution = %v, want 64", cfg.SimResolution)
	case cfg.DyeResolution != 512:
		t.Errorf("DyeResolution = %v, want 512", cfg.DyeResolution)
	case cfg.BloomEnabled:
		t.Error("BloomEnabled = true, want false")
	case cfg.SunraysEnabled:
		t.Error("SunraysEnabled = true, want false")
	case cfg.ShadingEnabled:
		t.Error("ShadingEnabled = true, want false")
	case cfg.Colorful:
		t.Error("Colorful = true, want false")
	case cfg.CurlStrength != 10:
		t.Errorf("CurlStrength = %v, want 10", cfg.CurlStrength)
	case cfg.SplatRadius != 0.1:
		t.Errorf("SplatRadius = %v, want 0.1", cfg.SplatRadius)
	case cfg.SplatForce != 1000:
		t.Errorf("SplatForce = %v, want 1000", cfg.SplatForce)
	}
}

func TestWithPressureDecayClampsToUnitInterval(t *testing.T) {
	cases := []struct {
		in   float32
		want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, c := range cases {
		o := defaultOptions()
		WithPressureDecay(c.in)(&o)
		cfg := applyPatches(o, DefaultConfig())
		if cfg.PressureDecay != c.want {
			t.Errorf("WithPressureDecay(%v) -> PressureDecay = %v, want %v", c.in, cfg.PressureDecay, c.want)
		}
	}
}

func TestNonPositiveResolutionOptionsAreIgnored(t *testing.T) {
	o := defaultOptions()
	WithSimResolution(0)(&o)
	WithDyeResolution(-4)(&o)
	WithBloomResolution(0)(&o)
	WithSunraysResolution(-1)(&o)
	WithBloomIterations(0)(&o)
	WithPressureIterations(0)(&o)

	def := DefaultConfig()
	cfg := applyPatches(o, def)
	if cfg != def {
		t.Errorf("non-positive resolution/iteration options changed config: got %+v, want %+v", cfg, def)
	}
}
