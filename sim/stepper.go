// Package sim implements the operator-splitting Navier-Stokes stepper and
// the bloom/sunrays post-effect passes that run on top of it. It talks to
// the active backend purely through [gpu.Device]; it never imports a
// concrete backend package.
package sim

import (
	"context"
	"fmt"

	"github.com/gogpu/fluidsim/internal/gpu"
	"github.com/gogpu/fluidsim/shaders"
)

// programSet holds every compiled kernel the stepper and post-effect passes
// need, keyed by the same name used in shaders.Names.
type programSet map[string]*gpu.Program

// CompilePrograms compiles every kernel in shaders.Names and returns them
// keyed by name, for callers (Simulator) that need the display/bloom/sunrays
// programs outside the stepper itself.
func CompilePrograms(dev gpu.Device) (programSet, error) {
	set := make(programSet, len(shaders.Names))
	for _, name := range shaders.Names {
		frag, ok := shaders.Fragment(name)
		if !ok {
			return nil, fmt.Errorf("sim: no fragment source registered for kernel %q", name)
		}
		program, err := dev.CompileProgram(name, shaders.BaseVertex, frag, nil)
		if err != nil {
			return nil, fmt.Errorf("sim: compiling %q: %w", name, err)
		}
		set[name] = program
	}
	return set, nil
}

// Stepper owns the velocity/dye/pressure fields and drives one Navier-Stokes
// step per call to [Stepper.Step], plus splats from pointer input.
type Stepper struct {
	dev  gpu.Device
	caps gpu.Capabilities
	cfg  Config

	programs programSet

	velocity   *gpu.FBOPair
	dye        *gpu.FBOPair
	divergence *gpu.FBO
	curl       *gpu.FBO
	pressure   *gpu.FBOPair

	simWidth, simHeight int
	dyeWidth, dyeHeight int
}

// NewStepper allocates every field at the configured resolutions and
// compiles the simulation kernels. The caller owns dev's lifetime; Close
// releases only the FBOs and programs the stepper allocated.
func NewStepper(ctx context.Context, dev gpu.Device, cfg Config) (*Stepper, error) {
	caps, err := dev.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStepError, err)
	}
	programs, err := CompilePrograms(dev)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStepError, err)
	}

	sw, sh := resolutionToDims(cfg.SimResolution, 1)
	dw, dh := resolutionToDims(cfg.DyeResolution, 1)

	s := &Stepper{dev: dev, caps: caps, cfg: cfg, programs: programs, simWidth: sw, simHeight: sh, dyeWidth: dw, dyeHeight: dh}

	if s.velocity, err = dev.CreateFBOPair(sw, sh, caps.VelocityFormat); err != nil {
		return nil, fmt.Errorf("%w: velocity fbo: %w", ErrStepError, err)
	}
	if s.dye, err = dev.CreateFBOPair(dw, dh, caps.DyeFormat); err != nil {
		return nil, fmt.Errorf("%w: dye fbo: %w", ErrStepError, err)
	}
	if s.divergence, err = dev.CreateFBO(sw, sh, caps.ScalarFormat); err != nil {
		return nil, fmt.Errorf("%w: divergence fbo: %w", ErrStepError, err)
	}
	if s.curl, err = dev.CreateFBO(sw, sh, caps.ScalarFormat); err != nil {
		return nil, fmt.Errorf("%w: curl fbo: %w", ErrStepError, err)
	}
	if s.pressure, err = dev.CreateFBOPair(sw, sh, caps.ScalarFormat); err != nil {
		return nil, fmt.Errorf("%w: pressure fbo: %w", ErrStepError, err)
	}
	return s, nil
}

// SetConfig replaces the stepper's tunable parameters (curl strength,
// splat radius/force, pressure iterations/decay, dissipation) without
// touching field allocation. A resolution change must go through Resize
// instead, since it changes every field's dimensions.
func (s *Stepper) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Resize reallocates the velocity, dye, divergence, curl, and pressure
// fields at cfg's Sim/DyeResolution for the given presentation aspect
// ratio, resampling each field's existing contents into the new buffers
// via the device's resize path rather than discarding them outright. cfg
// becomes the stepper's active configuration, so non-resolution parameter
// changes bundled into the same call take effect immediately too.
func (s *Stepper) Resize(cfg Config, aspect float32) error {
	sw, sh := resolutionToDims(cfg.SimResolution, aspect)
	dw, dh := resolutionToDims(cfg.DyeResolution, aspect)

	filter := gpu.FilterNearest
	if s.caps.SupportsLinearFiltering {
		filter = gpu.FilterLinear
	}

	velocity, err := s.dev.ResizeFBOPair(s.velocity, sw, sh, filter)
	if err != nil {
		return fmt.Errorf("%w: resize velocity: %w", ErrStepError, err)
	}
	s.velocity = velocity

	dye, err := s.dev.ResizeFBOPair(s.dye, dw, dh, filter)
	if err != nil {
		return fmt.Errorf("%w: resize dye: %w", ErrStepError, err)
	}
	s.dye = dye

	divergence, err := s.dev.ResizeFBO(s.divergence, sw, sh, filter)
	if err != nil {
		return fmt.Errorf("%w: resize divergence: %w", ErrStepError, err)
	}
	s.divergence = divergence

	curl, err := s.dev.ResizeFBO(s.curl, sw, sh, filter)
	if err != nil {
		return fmt.Errorf("%w: resize curl: %w", ErrStepError, err)
	}
	s.curl = curl

	pressure, err := s.dev.ResizeFBOPair(s.pressure, sw, sh, filter)
	if err != nil {
		return fmt.Errorf("%w: resize pressure: %w", ErrStepError, err)
	}
	s.pressure = pressure

	s.simWidth, s.simHeight = sw, sh
	s.dyeWidth, s.dyeHeight = dw, dh
	s.cfg = cfg
	return nil
}

// resolutionToDims derives width/height from a single resolution figure the
// way the original demo does: the smaller dimension is fixed at the
// requested resolution and the larger is scaled to the aspect ratio. Since
// the stepper itself is aspect-agnostic at construction time, it assumes a
// square simulation domain; [Stepper.Resize] adjusts this once a real
// surface aspect ratio is known.
func resolutionToDims(resolution int, aspect float32) (int, int) {
	if aspect < 1 {
		return resolution, int(float32(resolution) / aspect)
	}
	return int(float32(resolution) * aspect), resolution
}

// Velocity returns the current (Read-side) velocity field, RG-formatted.
func (s *Stepper) Velocity() *gpu.FBO { return s.velocity.Read }

// Dye returns the current (Read-side) dye field, RGBA-formatted.
func (s *Stepper) Dye() *gpu.FBO { return s.dye.Read }

// Capabilities reports the negotiated render target formats.
func (s *Stepper) Capabilities() gpu.Capabilities { return s.caps }

// Close releases every FBO the stepper allocated. Programs are owned by the
// device and released by the caller closing the device itself.
func (s *Stepper) Close() {
	s.dev.DestroyFBO(s.velocity.Read)
	s.dev.DestroyFBO(s.velocity.Write)
	s.dev.DestroyFBO(s.dye.Read)
	s.dev.DestroyFBO(s.dye.Write)
	s.dev.DestroyFBO(s.divergence)
	s.dev.DestroyFBO(s.curl)
	s.dev.DestroyFBO(s.pressure.Read)
	s.dev.DestroyFBO(s.pressure.Write)
}

// Splat adds a radial dye/velocity impulse at normalized coordinates
// (x, y) in [0,1], with velocity delta (dx, dy) and a dye color, matching
// pointer-move or click input. aspect is width/height of the presentation
// surface, used to keep the splat circular regardless of window shape.
func (s *Stepper) Splat(x, y, dx, dy float32, color [3]float32, aspect float32) error {
	return s.splat(x, y, dx, dy, color, aspect, 1)
}

// SplatScaled is Splat with the radius scaled by radiusScale, used by the
// input package's one-shot down-splat (radiusScale 0.7) and random-burst
// splats. The aspect-ratio correction for the radius uniform is still
// applied exactly once, here, regardless of radiusScale.
func (s *Stepper) SplatScaled(x, y, dx, dy float32, color [3]float32, aspect, radiusScale float32) error {
	return s.splat(x, y, dx, dy, color, aspect, radiusScale)
}

func (s *Stepper) splat(x, y, dx, dy float32, color [3]float32, aspect, radiusScale float32) error {
	radius := s.splatRadius(aspect) * radiusScale

	velocityUniforms := gpu.Uniforms{
		"uTarget":      s.velocity.Read,
		"uAspectRatio": aspect,
		"uPoint":       [2]float32{x, y},
		"uColor":       [3]float32{dx, dy, 0},
		"uRadius":      radius,
	}
	if err := s.dev.Blit(s.velocity.Write, s.programs["splat"], velocityUniforms); err != nil {
		return fmt.Errorf("%w: velocity splat: %w", ErrStepError, err)
	}
	s.velocity.Swap()

	dyeUniforms := gpu.Uniforms{
		"uTarget":      s.dye.Read,
		"uAspectRatio": aspect,
		"uPoint":       [2]float32{x, y},
		"uColor":       color,
		"uRadius":      radius,
	}
	if err := s.dev.Blit(s.dye.Write, s.programs["splat"], dyeUniforms); err != nil {
		return fmt.Errorf("%w: dye splat: %w", ErrStepError, err)
	}
	s.dye.Swap()
	return nil
}

func (s *Stepper) splatRadius(aspect float32) float32 {
	r := s.cfg.SplatRadius / 100
	if aspect > 1 {
		return r * aspect
	}
	return r
}

// Step advances the simulation by dt seconds, clamped to the solver's
// stable range. The pass order is: curl, vorticity confinement, divergence,
// pressure clear (a decayed warm start from the previous frame's solution,
// not a hard reset), Jacobi pressure solve, gradient subtraction to make
// velocity divergence-free, then semi-Lagrangian advection of velocity
// followed by dye.
func (s *Stepper) Step(dt float32) error {
	dt = clampDt(dt)

	if err := s.dev.Blit(s.curl, s.programs["curl"], gpu.Uniforms{"uVelocity": s.velocity.Read}); err != nil {
		return fmt.Errorf("%w: curl: %w", ErrStepError, err)
	}

	vortUniforms := gpu.Uniforms{
		"uVelocity":     s.velocity.Read,
		"uCurl":         s.curl,
		"uCurlStrength": s.cfg.CurlStrength,
		"uDt":           dt,
	}
	if err := s.dev.Blit(s.velocity.Write, s.programs["vorticity"], vortUniforms); err != nil {
		return fmt.Errorf("%w: vorticity: %w", ErrStepError, err)
	}
	s.velocity.Swap()

	if err := s.dev.Blit(s.divergence, s.programs["divergence"], gpu.Uniforms{"uVelocity": s.velocity.Read}); err != nil {
		return fmt.Errorf("%w: divergence: %w", ErrStepError, err)
	}

	// Multiplicative decay warm start: reuse last frame's converged
	// pressure field scaled down, instead of clearing to zero, so the
	// Jacobi solve starting point is already close to the new solution.
	clearUniforms := gpu.Uniforms{"uSource": s.pressure.Read, "uValue": s.cfg.PressureDecay}
	if err := s.dev.Blit(s.pressure.Write, s.programs["clear"], clearUniforms); err != nil {
		return fmt.Errorf("%w: pressure clear: %w", ErrStepError, err)
	}
	s.pressure.Swap()

	iterations := s.cfg.PressureIterations
	if !s.caps.SupportsLinearFiltering {
		iterations = s.cfg.PressureFallbackIterations
	}
	for i := 0; i < iterations; i++ {
		pressureUniforms := gpu.Uniforms{"uPressure": s.pressure.Read, "uDivergence": s.divergence}
		if err := s.dev.Blit(s.pressure.Write, s.programs["pressure"], pressureUniforms); err != nil {
			return fmt.Errorf("%w: pressure iteration %d: %w", ErrStepError, i, err)
		}
		s.pressure.Swap()
	}

	gradUniforms := gpu.Uniforms{"uPressure": s.pressure.Read, "uVelocity": s.velocity.Read}
	if err := s.dev.Blit(s.velocity.Write, s.programs["gradient_subtract"], gradUniforms); err != nil {
		return fmt.Errorf("%w: gradient subtract: %w", ErrStepError, err)
	}
	s.velocity.Swap()

	advectVelUniforms := gpu.Uniforms{
		"uVelocity":    s.velocity.Read,
		"uSource":      s.velocity.Read,
		"uDt":          dt,
		"uDissipation": s.cfg.VelocityDissipation,
	}
	if err := s.dev.Blit(s.velocity.Write, s.programs["advection"], advectVelUniforms); err != nil {
		return fmt.Errorf("%w: velocity advection: %w", ErrStepError, err)
	}
	s.velocity.Swap()

	advectDyeUniforms := gpu.Uniforms{
		"uVelocity":    s.velocity.Read,
		"uSource":      s.dye.Read,
		"uDt":          dt,
		"uDissipation": s.cfg.DensityDissipation,
	}
	if err := s.dev.Blit(s.dye.Write, s.programs["advection"], advectDyeUniforms); err != nil {
		return fmt.Errorf("%w: dye advection: %w", ErrStepError, err)
	}
	s.dye.Swap()

	return nil
}
