package fluidsim

import "github.com/gogpu/fluidsim/internal/gpu"

// SimulatorOption configures a Simulator, both at construction via [New]
// and at runtime via [Simulator.Configure]. Options that only make sense
// at construction (WithDevice) are harmless no-ops when passed to
// Configure; it simply never looks at the device field.
//
// Example:
//
//	// Default CPU reference backend
//	s, err := fluidsim.New(context.Background(), fluidsim.DefaultConfig())
//
//	// Custom device (dependency injection, e.g. in tests)
//	s, err := fluidsim.New(ctx, cfg, fluidsim.WithDevice(softwareDevice))
//
//	// Toggle bloom off, then back on, at runtime
//	s.Configure(fluidsim.WithBloom(false))
//	s.Configure(fluidsim.WithBloom(true))
type SimulatorOption func(*simulatorOptions)

// simulatorOptions holds optional configuration for Simulator creation and
// runtime reconfiguration. patches are applied to a Config copy in the
// order given; device and aspect are construction-only.
type simulatorOptions struct {
	device    gpu.Device
	aspect    float32
	aspectSet bool
	patches   []func(*Config)
}

// defaultOptions returns the default simulator options.
func defaultOptions() simulatorOptions {
	return simulatorOptions{
		device: nil, // resolved via the accelerator/backend registry if nil
		aspect: 1,
	}
}

// configOption wraps a Config mutator as a SimulatorOption, the shape every
// With* runtime-parameter option below shares.
func configOption(fn func(*Config)) SimulatorOption {
	return func(o *simulatorOptions) {
		o.patches = append(o.patches, fn)
	}
}

// WithDevice sets a specific GPU resource-layer device for the Simulator,
// bypassing the accelerator/backend registry entirely. Use this for tests
// or to force a particular backend. Construction-only; Configure ignores it.
func WithDevice(d gpu.Device) SimulatorOption {
	return func(o *simulatorOptions) {
		o.device = d
	}
}

// WithAspectRatio sets the presentation-surface aspect ratio (width/height)
// the Simulator's grid is sized for, used to keep splats circular and to
// size the velocity field's non-square dimension. Defaults to 1 (square).
// Passed to Configure, a changed aspect ratio triggers the same field
// resize as a resolution change.
func WithAspectRatio(aspect float32) SimulatorOption {
	return func(o *simulatorOptions) {
		if aspect > 0 {
			o.aspect = aspect
			o.aspectSet = true
		}
	}
}

// WithSimResolution sets the velocity/pressure/curl/divergence field
// resolution (SIM_RESOLUTION). Passed to Configure, it triggers an FBO
// resize at the next Configure call rather than the next frame, since
// Configure performs the resize itself.
func WithSimResolution(n int) SimulatorOption {
	return configOption(func(c *Config) {
		if n > 0 {
			c.SimResolution = n
		}
	})
}

// WithDyeResolution sets the dye field resolution (DYE_RESOLUTION).
func WithDyeResolution(n int) SimulatorOption {
	return configOption(func(c *Config) {
		if n > 0 {
			c.DyeResolution = n
		}
	})
}

// WithBloomResolution sets the bloom mip chain's base resolution
// (BLOOM_RESOLUTION).
func WithBloomResolution(n int) SimulatorOption {
	return configOption(func(c *Config) {
		if n > 0 {
			c.BloomResolution = n
		}
	})
}

// WithSunraysResolution sets the sunrays mask/rays/blur buffer resolution
// (SUNRAYS_RESOLUTION).
func WithSunraysResolution(n int) SimulatorOption {
	return configOption(func(c *Config) {
		if n > 0 {
			c.SunraysResolution = n
		}
	})
}

// WithBloomIterations sets the number of mip levels in the bloom chain
// (BLOOM_ITERATIONS).
func WithBloomIterations(n int) SimulatorOption {
	return configOption(func(c *Config) {
		if n > 0 {
			c.BloomIterations = n
		}
	})
}

// WithBloom toggles the bloom post-effect (BLOOM). Passed to Configure,
// enabling it (re)allocates the bloom chain; disabling it releases it.
func WithBloom(enabled bool) SimulatorOption {
	return configOption(func(c *Config) { c.BloomEnabled = enabled })
}

// WithSunrays toggles the sunrays post-effect (SUNRAYS). Passed to
// Configure, enabling it (re)allocates the sunrays chain; disabling it
// releases it.
func WithSunrays(enabled bool) SimulatorOption {
	return configOption(func(c *Config) { c.SunraysEnabled = enabled })
}

// WithShading toggles shading in the display composite (SHADING). Passed
// to Configure, the display program variant for the new keyword set is
// compiled (or fetched from cache) on the next Step call.
func WithShading(enabled bool) SimulatorOption {
	return configOption(func(c *Config) { c.ShadingEnabled = enabled })
}

// WithColorful toggles whether pointer colors cycle over time (COLORFUL);
// see [Config.Colorful].
func WithColorful(enabled bool) SimulatorOption {
	return configOption(func(c *Config) { c.Colorful = enabled })
}

// WithTransparent toggles a checkerboard background in place of BackColor
// (TRANSPARENT).
func WithTransparent(enabled bool) SimulatorOption {
	return configOption(func(c *Config) { c.Transparent = enabled })
}

// WithBackColor sets the solid background color shown when Transparent is
// false (BACK_COLOR), as normalized RGB.
func WithBackColor(rgb [3]float32) SimulatorOption {
	return configOption(func(c *Config) { c.BackColor = rgb })
}

// WithPressureIterations sets the Jacobi pressure solve's iteration count
// on devices that support linear filtering (PRESSURE_ITERATIONS).
func WithPressureIterations(n int) SimulatorOption {
	return configOption(func(c *Config) {
		if n > 0 {
			c.PressureIterations = n
		}
	})
}

// WithPressureDecay sets the multiplicative pressure warm-start factor, in
// [0,1] (PRESSURE). Out-of-range values are clamped.
func WithPressureDecay(v float32) SimulatorOption {
	return configOption(func(c *Config) {
		switch {
		case v < 0:
			c.PressureDecay = 0
		case v > 1:
			c.PressureDecay = 1
		default:
			c.PressureDecay = v
		}
	})
}

// WithCurlStrength sets the vorticity confinement strength (CURL).
func WithCurlStrength(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.CurlStrength = v })
}

// WithSplatRadius sets the normalized splat radius (SPLAT_RADIUS).
func WithSplatRadius(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.SplatRadius = v })
}

// WithSplatForce sets the splat velocity force magnitude (SPLAT_FORCE).
func WithSplatForce(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.SplatForce = v })
}

// WithDensityDissipation sets the dye field's per-step dissipation factor
// (DENSITY_DISSIPATION).
func WithDensityDissipation(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.DensityDissipation = v })
}

// WithVelocityDissipation sets the velocity field's per-step dissipation
// factor (VELOCITY_DISSIPATION).
func WithVelocityDissipation(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.VelocityDissipation = v })
}

// WithBloomIntensity sets the bloom contribution's display intensity
// (BLOOM_INTENSITY).
func WithBloomIntensity(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.BloomIntensity = v })
}

// WithBloomThreshold sets the bloom prefilter's brightness threshold
// (BLOOM_THRESHOLD).
func WithBloomThreshold(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.BloomThreshold = v })
}

// WithBloomSoftKnee sets the bloom prefilter's soft-knee width
// (BLOOM_SOFT_KNEE).
func WithBloomSoftKnee(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.BloomSoftKnee = v })
}

// WithSunraysWeight sets the sunrays contribution's strength
// (SUNRAYS_WEIGHT).
func WithSunraysWeight(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.SunraysWeight = v })
}

// WithColorUpdateSpeed sets how fast pointer colors cycle when Colorful is
// enabled (COLOR_UPDATE_SPEED).
func WithColorUpdateSpeed(v float32) SimulatorOption {
	return configOption(func(c *Config) { c.ColorUpdateSpeed = v })
}
