// Package fluidsim implements a real-time 2D Eulerian fluid simulator:
// an operator-splitting Navier-Stokes solver running on ping-pong GPU
// framebuffers, with bloom and sunrays post-effects and pointer/hand-input
// driven splats. See [Simulator] for the top-level entry point.
package fluidsim

import (
	"context"
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/fluidsim/backend/software"
	"github.com/gogpu/fluidsim/gpucore"
	"github.com/gogpu/fluidsim/internal/gpu"
	"github.com/gogpu/fluidsim/render"
	"github.com/gogpu/fluidsim/sim"
)

// Config is the simulation parameter set. It is an alias of [sim.Config]
// so callers never need to import the sim package directly.
type Config = sim.Config

// DefaultConfig returns the parameter set the original fluid-simulation
// demo ships with.
func DefaultConfig() Config { return sim.DefaultConfig() }

// Simulator owns the GPU device, the Navier-Stokes stepper and the bloom
// and sunrays post-effect chains, and drives one rendered frame per call
// to [Simulator.Step].
type Simulator struct {
	dev        gpu.Device
	stepper    *sim.Stepper
	bloom      *sim.Bloom
	sunrays    *sim.Sunrays
	compositor *render.Compositor
	programs   map[string]*gpu.Program

	cfg    Config
	aspect float32
	output *gpu.FBO

	lastErr error
}

// New constructs a Simulator. Device resolution order is: an explicit
// [WithDevice] option, then the registered [Accelerator], then the CPU
// reference device (backend/software). A stepper-construction failure on
// a non-software device degrades to the CPU device rather than failing
// New outright, matching the degrade-not-abort contract of
// [ErrFallbackToCPU].
func New(ctx context.Context, cfg Config, opts ...SimulatorOption) (*Simulator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	for _, patch := range o.patches {
		patch(&cfg)
	}

	dev := o.device
	if dev == nil {
		if a := Accelerator(); a != nil {
			dev = a
		} else {
			dev = software.New()
		}
	}

	stepper, err := sim.NewStepper(ctx, dev, cfg)
	if err != nil && dev.Name() != "software" {
		dev = software.New()
		stepper, err = sim.NewStepper(ctx, dev, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("fluidsim: %w", err)
	}
	if o.aspect != 1 {
		if err := stepper.Resize(cfg, o.aspect); err != nil {
			return nil, fmt.Errorf("fluidsim: %w", err)
		}
	}

	caps := stepper.Capabilities()
	s := &Simulator{dev: dev, stepper: stepper, cfg: cfg, aspect: o.aspect}

	programs, err := sim.CompilePrograms(dev)
	if err != nil {
		return nil, fmt.Errorf("fluidsim: %w", err)
	}
	s.programs = programs

	if cfg.BloomEnabled {
		s.bloom, err = sim.NewBloom(dev, programs, cfg, caps.DyeFormat)
		if err != nil {
			return nil, fmt.Errorf("fluidsim: %w", err)
		}
	}
	if cfg.SunraysEnabled {
		s.sunrays, err = sim.NewSunrays(dev, programs, cfg, caps.ScalarFormat)
		if err != nil {
			return nil, fmt.Errorf("fluidsim: %w", err)
		}
	}

	s.compositor, err = render.NewCompositor(dev)
	if err != nil {
		return nil, fmt.Errorf("fluidsim: %w", err)
	}

	output, err := dev.CreateFBO(cfg.DyeResolution, cfg.DyeResolution, caps.DyeFormat)
	if err != nil {
		return nil, fmt.Errorf("fluidsim: output fbo: %w", err)
	}
	s.output = output

	return s, nil
}

// Splat injects dye and velocity at normalized surface coordinates (x, y)
// in [0,1], with a velocity delta and dye color, in response to pointer or
// hand-landmark input.
func (s *Simulator) Splat(x, y, dx, dy float32, color [3]float32) error {
	return s.splat(x, y, dx, dy, color, 1)
}

// SplatScaled is Splat with the radius scaled by radiusScale, for callers
// that need a smaller or larger impulse than the configured SplatRadius —
// e.g. the input package's one-shot down-splat.
func (s *Simulator) SplatScaled(x, y, dx, dy float32, color [3]float32, radiusScale float32) error {
	return s.splat(x, y, dx, dy, color, radiusScale)
}

func (s *Simulator) splat(x, y, dx, dy float32, color [3]float32, radiusScale float32) error {
	if err := s.stepper.SplatScaled(x, y, dx, dy, color, s.aspect, radiusScale); err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	return nil
}

// Step advances the simulation and post-effects by dt seconds and
// composites the result into the internal output buffer, readable via
// [Simulator.Snapshot].
func (s *Simulator) Step(dt float32) error {
	if err := s.stepper.Step(dt); err != nil {
		s.lastErr = err
		return err
	}

	dye := s.stepper.Dye()
	frame := render.Frame{
		Dye:            dye,
		ShadingEnabled: s.cfg.ShadingEnabled,
		Transparent:    s.cfg.Transparent,
		BackColor:      s.cfg.BackColor,
		Aspect:         s.aspect,
	}

	if s.bloom != nil {
		bloomOut, err := s.bloom.Apply(dye)
		if err != nil {
			s.lastErr = err
			return err
		}
		frame.Bloom = bloomOut
		frame.BloomIntensity = s.cfg.BloomIntensity
	}
	if s.sunrays != nil {
		sunraysOut, err := s.sunrays.Apply(dye, [2]float32{0.5, 0.5})
		if err != nil {
			s.lastErr = err
			return err
		}
		frame.Sunrays = sunraysOut
	}

	if err := s.compositor.Composite(s.output, frame); err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	return nil
}

// Err returns the error from the most recent Step or Splat call, or nil.
func (s *Simulator) Err() error { return s.lastErr }

// Configure applies opts to the simulator's running configuration.
// Resolution and aspect-ratio changes reallocate the stepper's fields via
// [sim.Stepper.Resize] and the output FBO immediately; toggling
// BloomEnabled/SunraysEnabled allocates or releases the corresponding
// post-effect chain; a bloom/sunrays resolution or iteration-count change
// reconstructs the affected chain. Every other parameter is a cheap
// SetConfig call with no FBO churn. Toggling SHADING/BLOOM/SUNRAYS in the
// display composite itself needs no action here: Step's next Frame carries
// the new keyword set, and [render.Compositor] compiles (or fetches from
// its cache) the matching display-program variant lazily.
func (s *Simulator) Configure(opts ...SimulatorOption) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	next := s.cfg
	for _, patch := range o.patches {
		patch(&next)
	}

	aspect := s.aspect
	if o.aspectSet {
		aspect = o.aspect
	}

	caps := s.stepper.Capabilities()

	if next.SimResolution != s.cfg.SimResolution || next.DyeResolution != s.cfg.DyeResolution || aspect != s.aspect {
		if err := s.stepper.Resize(next, aspect); err != nil {
			return fmt.Errorf("fluidsim: configure: %w", err)
		}

		output, err := s.dev.CreateFBO(next.DyeResolution, next.DyeResolution, caps.DyeFormat)
		if err != nil {
			return fmt.Errorf("fluidsim: configure: output fbo: %w", err)
		}
		s.dev.DestroyFBO(s.output)
		s.output = output
	} else {
		s.stepper.SetConfig(next)
	}
	s.aspect = aspect

	switch {
	case next.BloomEnabled && (s.bloom == nil || next.BloomResolution != s.cfg.BloomResolution || next.BloomIterations != s.cfg.BloomIterations):
		if s.bloom != nil {
			s.bloom.Close()
		}
		bloom, err := sim.NewBloom(s.dev, s.programs, next, caps.DyeFormat)
		if err != nil {
			return fmt.Errorf("fluidsim: configure: %w", err)
		}
		s.bloom = bloom
	case !next.BloomEnabled && s.bloom != nil:
		s.bloom.Close()
		s.bloom = nil
	case next.BloomEnabled:
		s.bloom.SetConfig(next)
	}

	switch {
	case next.SunraysEnabled && (s.sunrays == nil || next.SunraysResolution != s.cfg.SunraysResolution):
		if s.sunrays != nil {
			s.sunrays.Close()
		}
		sunrays, err := sim.NewSunrays(s.dev, s.programs, next, caps.ScalarFormat)
		if err != nil {
			return fmt.Errorf("fluidsim: configure: %w", err)
		}
		s.sunrays = sunrays
	case !next.SunraysEnabled && s.sunrays != nil:
		s.sunrays.Close()
		s.sunrays = nil
	case next.SunraysEnabled:
		s.sunrays.SetConfig(next)
	}

	s.cfg = next
	return nil
}

// Close releases every GPU resource the simulator owns, including the
// stepper's fields and the bloom/sunrays chains.
func (s *Simulator) Close() {
	s.stepper.Close()
	if s.bloom != nil {
		s.bloom.Close()
	}
	if s.sunrays != nil {
		s.sunrays.Close()
	}
	s.dev.DestroyFBO(s.output)
	s.dev.Close()
}

// Snapshot reads the composited output back to a CPU-resident image at
// the output buffer's native resolution.
func (s *Simulator) Snapshot() (*image.RGBA, error) {
	pixels, err := s.dev.ReadPixels(s.output)
	if err != nil {
		return nil, fmt.Errorf("fluidsim: snapshot: %w", err)
	}
	return floatFieldToImage(pixels, s.output.Width, s.output.Height, s.output.Format), nil
}

// SnapshotResized reads the composited output back and resamples it to
// width x height using a high-quality image resize, for hosts presenting
// the simulation at a different resolution than the dye field itself.
func (s *Simulator) SnapshotResized(width, height int) (*image.RGBA, error) {
	src, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}

// floatFieldToImage converts a row-major, NumComponents()-interleaved
// float32 field (as returned by gpu.Device.ReadPixels) to an *image.RGBA,
// clamping each channel to [0,1] before scaling to 8 bits. This is CPU
// readback/debug plumbing only; it is never on the simulation hot path.
func floatFieldToImage(pixels []float32, width, height int, format gpucore.TextureFormat) *image.RGBA {
	target := render.NewPixmapTarget(width, height)
	img := target.Image()
	n := format.NumComponents()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			base := (y*width + x) * n
			r, g, b, a := float32(0), float32(0), float32(0), float32(1)
			if n > 0 {
				r = pixels[base]
			}
			if n > 1 {
				g = pixels[base+1]
			}
			if n > 2 {
				b = pixels[base+2]
			}
			if n > 3 {
				a = pixels[base+3]
			}
			img.SetRGBA(x, y, color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: to8(a)})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
