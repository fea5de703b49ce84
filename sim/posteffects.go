package sim

import (
	"fmt"

	"github.com/gogpu/fluidsim/gpucore"
	"github.com/gogpu/fluidsim/internal/gpu"
)

// Bloom runs the prefilter/downsample/upsample mip chain over the dye
// field and returns the additive bloom contribution, ready to be sampled
// by the display kernel's uBloom uniform.
type Bloom struct {
	dev      gpu.Device
	programs programSet
	cfg      Config

	prefiltered *gpu.FBO
	mips        []*gpu.FBO // fine to coarse, excluding the prefiltered level
}

// NewBloom allocates the prefilter target and the mip chain at
// cfg.BloomResolution, halving resolution at each of cfg.BloomIterations
// levels.
func NewBloom(dev gpu.Device, programs programSet, cfg Config, texFormat gpucore.TextureFormat) (*Bloom, error) {
	b := &Bloom{dev: dev, programs: programs, cfg: cfg}

	w, h := cfg.BloomResolution, cfg.BloomResolution
	prefiltered, err := dev.CreateFBO(w, h, texFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: bloom prefilter fbo: %w", ErrStepError, err)
	}
	b.prefiltered = prefiltered

	for i := 0; i < cfg.BloomIterations; i++ {
		w, h = w/2, h/2
		if w < 2 || h < 2 {
			break
		}
		mip, err := dev.CreateFBO(w, h, texFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: bloom mip %d fbo: %w", ErrStepError, i, err)
		}
		b.mips = append(b.mips, mip)
	}
	return b, nil
}

// Close releases every FBO the bloom chain allocated.
func (b *Bloom) Close() {
	b.dev.DestroyFBO(b.prefiltered)
	for _, m := range b.mips {
		b.dev.DestroyFBO(m)
	}
}

// SetConfig replaces the threshold/soft-knee/intensity parameters Apply
// reads each call. BloomResolution and BloomIterations changes require a
// new Bloom from NewBloom instead, since they change the mip chain's FBO
// count and dimensions.
func (b *Bloom) SetConfig(cfg Config) {
	b.cfg = cfg
}

// Apply runs the prefilter -> downsample chain -> upsample chain over dye,
// then writes the finest mip scaled by BloomIntensity back into the
// prefilter buffer and returns that buffer as the bloom contribution. It is the caller's
// responsibility to keep the returned FBO alive only until the next Apply
// call, since it is one of the chain's own owned buffers.
func (b *Bloom) Apply(dye *gpu.FBO) (*gpu.FBO, error) {
	if len(b.mips) == 0 {
		return nil, fmt.Errorf("%w: bloom chain has no mip levels", ErrStepError)
	}

	knee := b.cfg.BloomThreshold * b.cfg.BloomSoftKnee
	curve := [3]float32{b.cfg.BloomThreshold - knee, knee * 2, 0.25 / (knee + 0.0001)}
	prefilterUniforms := gpu.Uniforms{"uTexture": dye, "uCurve": curve, "uThreshold": b.cfg.BloomThreshold}
	if err := b.dev.Blit(b.prefiltered, b.programs["bloom_prefilter"], prefilterUniforms); err != nil {
		return nil, fmt.Errorf("%w: bloom prefilter: %w", ErrStepError, err)
	}

	last := b.prefiltered
	for _, mip := range b.mips {
		if err := b.dev.Blit(mip, b.programs["bloom_blur"], gpu.Uniforms{"uTexture": last}); err != nil {
			return nil, fmt.Errorf("%w: bloom downsample: %w", ErrStepError, err)
		}
		last = mip
	}

	for i := len(b.mips) - 2; i >= 0; i-- {
		if err := b.dev.Blit(b.mips[i], b.programs["bloom_blur_additive"], gpu.Uniforms{"uTexture": last}); err != nil {
			return nil, fmt.Errorf("%w: bloom upsample: %w", ErrStepError, err)
		}
		last = b.mips[i]
	}

	finalUniforms := gpu.Uniforms{"uTexture": last, "uIntensity": b.cfg.BloomIntensity}
	if err := b.dev.Blit(b.prefiltered, b.programs["bloom_final"], finalUniforms); err != nil {
		return nil, fmt.Errorf("%w: bloom final: %w", ErrStepError, err)
	}
	return b.prefiltered, nil
}

// Sunrays runs the mask/radial-accumulate/blur chain over the dye field and
// returns the multiplicative sunrays contribution for the display kernel's
// uSunrays uniform.
type Sunrays struct {
	dev      gpu.Device
	programs programSet
	cfg      Config

	mask    *gpu.FBO
	rays    *gpu.FBO
	blurred *gpu.FBO
}

// NewSunrays allocates the mask/rays/blur buffers at cfg.SunraysResolution.
func NewSunrays(dev gpu.Device, programs programSet, cfg Config, texFormat gpucore.TextureFormat) (*Sunrays, error) {
	w, h := cfg.SunraysResolution, cfg.SunraysResolution
	mask, err := dev.CreateFBO(w, h, texFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: sunrays mask fbo: %w", ErrStepError, err)
	}
	rays, err := dev.CreateFBO(w, h, texFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: sunrays fbo: %w", ErrStepError, err)
	}
	blurred, err := dev.CreateFBO(w, h, texFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: sunrays blur fbo: %w", ErrStepError, err)
	}
	return &Sunrays{dev: dev, programs: programs, cfg: cfg, mask: mask, rays: rays, blurred: blurred}, nil
}

// Close releases every FBO the sunrays chain allocated.
func (s *Sunrays) Close() {
	s.dev.DestroyFBO(s.mask)
	s.dev.DestroyFBO(s.rays)
	s.dev.DestroyFBO(s.blurred)
}

// SetConfig replaces the weight parameter Apply reads each call.
// SunraysResolution changes require a new Sunrays from NewSunrays instead,
// since it changes the mask/rays/blur buffers' dimensions.
func (s *Sunrays) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Apply runs mask extraction, radial accumulation toward lightPosition
// (normalized uv, typically the dye field centroid or screen center), and a
// two-pass separable blur, returning the blurred rays buffer.
func (s *Sunrays) Apply(dye *gpu.FBO, lightPosition [2]float32) (*gpu.FBO, error) {
	if err := s.dev.Blit(s.mask, s.programs["sunrays_mask"], gpu.Uniforms{"uTexture": dye}); err != nil {
		return nil, fmt.Errorf("%w: sunrays mask: %w", ErrStepError, err)
	}

	raysUniforms := gpu.Uniforms{"uTexture": s.mask, "uLightPosition": lightPosition, "uWeight": s.cfg.SunraysWeight}
	if err := s.dev.Blit(s.rays, s.programs["sunrays"], raysUniforms); err != nil {
		return nil, fmt.Errorf("%w: sunrays accumulate: %w", ErrStepError, err)
	}

	tx, ty := s.rays.TexelSize()
	horizUniforms := gpu.Uniforms{"uTexture": s.rays, "uDirection": [2]float32{tx, 0}}
	if err := s.dev.Blit(s.blurred, s.programs["blur"], horizUniforms); err != nil {
		return nil, fmt.Errorf("%w: sunrays blur horizontal: %w", ErrStepError, err)
	}
	vertUniforms := gpu.Uniforms{"uTexture": s.blurred, "uDirection": [2]float32{0, ty}}
	if err := s.dev.Blit(s.rays, s.programs["blur"], vertUniforms); err != nil {
		return nil, fmt.Errorf("%w: sunrays blur vertical: %w", ErrStepError, err)
	}
	return s.rays, nil
}
