package fluidsim

import (
	"context"
	"math"
	"testing"

	"github.com/gogpu/fluidsim/backend/software"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SimResolution = 16
	cfg.DyeResolution = 16
	cfg.PressureIterations = 5
	cfg.BloomResolution = 8
	cfg.BloomIterations = 2
	cfg.SunraysResolution = 8
	return cfg
}

func TestNewUsesInjectedDevice(t *testing.T) {
	dev := software.New()
	s, err := New(context.Background(), testConfig(), WithDevice(dev))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if s.dev != dev {
		t.Error("New() did not use the injected device")
	}
}

func TestSimulatorStepAndSnapshot(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if err := s.Splat(0.5, 0.5, 1, 0, [3]float32{1, 0.5, 0.2}); err != nil {
		t.Fatalf("Splat() error = %v", err)
	}
	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v, want nil after successful step", err)
	}

	img, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("Snapshot() size = %v, want 16x16", img.Bounds())
	}
}

func TestSimulatorSnapshotResized(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	img, err := s.SnapshotResized(32, 24)
	if err != nil {
		t.Fatalf("SnapshotResized() error = %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("SnapshotResized() size = %v, want 32x24", img.Bounds())
	}
}

func TestSimulatorWithoutPostEffects(t *testing.T) {
	cfg := testConfig()
	cfg.BloomEnabled = false
	cfg.SunraysEnabled = false

	s, err := New(context.Background(), cfg, WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if s.bloom != nil || s.sunrays != nil {
		t.Error("disabled post-effects should leave bloom/sunrays nil")
	}
	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
}

func TestSimulatorSplatErrorSurfacesViaErr(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if err := s.Splat(0.2, 0.8, 0, 0, [3]float32{0, 1, 0}); err != nil {
		t.Fatalf("Splat() error = %v", err)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil after successful splat", s.Err())
	}
}

func TestSimulatorSplatScaled(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if err := s.SplatScaled(0.5, 0.5, 0, 0, [3]float32{1, 1, 1}, 0.7); err != nil {
		t.Fatalf("SplatScaled() error = %v", err)
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil after successful scaled splat", s.Err())
	}
}

func TestConfigureCheapParamLeavesFieldsInPlace(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	output := s.output
	if err := s.Configure(WithCurlStrength(5), WithShading(false)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if s.output != output {
		t.Error("Configure() with only non-resolution params reallocated the output fbo")
	}
	if s.cfg.CurlStrength != 5 {
		t.Errorf("cfg.CurlStrength = %v, want 5", s.cfg.CurlStrength)
	}
	if s.cfg.ShadingEnabled {
		t.Error("cfg.ShadingEnabled = true, want false")
	}

	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() after Configure() error = %v", err)
	}
}

func TestConfigureResolutionReallocatesFields(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	output := s.output
	if err := s.Configure(WithSimResolution(32), WithDyeResolution(32)); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if s.output == output {
		t.Error("Configure() with a changed resolution left the output fbo untouched")
	}
	if s.output.Width != 32 || s.output.Height != 32 {
		t.Errorf("output fbo size = %dx%d, want 32x32", s.output.Width, s.output.Height)
	}

	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() after resolution Configure() error = %v", err)
	}
	img, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("Snapshot() size = %v, want 32x32", img.Bounds())
	}
}

func TestConfigureTogglesBloomAndSunrays(t *testing.T) {
	s, err := New(context.Background(), testConfig(), WithDevice(software.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if err := s.Configure(WithBloom(false), WithSunrays(false)); err != nil {
		t.Fatalf("Configure(false) error = %v", err)
	}
	if s.bloom != nil || s.sunrays != nil {
		t.Error("Configure(WithBloom(false), WithSunrays(false)) left a chain allocated")
	}
	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() with post-effects disabled error = %v", err)
	}

	if err := s.Configure(WithBloom(true), WithSunrays(true)); err != nil {
		t.Fatalf("Configure(true) error = %v", err)
	}
	if s.bloom == nil || s.sunrays == nil {
		t.Error("Configure(WithBloom(true), WithSunrays(true)) did not reallocate the chains")
	}
	if err := s.Step(0.016); err != nil {
		t.Fatalf("Step() with post-effects re-enabled error = %v", err)
	}
}

func TestToClampsChannels(t *testing.T) {
	cases := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{2, 255},
	}
	for _, c := range cases {
		if got := to8(c.in); got != c.want {
			t.Errorf("to8(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDefaultConfigIsFinite(t *testing.T) {
	cfg := DefaultConfig()
	if math.IsNaN(float64(cfg.SplatForce)) {
		t.Error("DefaultConfig().SplatForce is NaN")
	}
}
