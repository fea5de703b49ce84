package sim

// Config holds the tunable parameters of the simulation stepper. The root
// fluidsim package exposes these through functional options; Config
// itself carries no defaulting logic beyond [DefaultConfig].
type Config struct {
	SimResolution int
	DyeResolution int

	DensityDissipation  float32
	VelocityDissipation float32
	PressureIterations  int
	PressureFallbackIterations int

	// PressureDecay is the multiplicative warm-start factor applied to the
	// previous frame's converged pressure field before each Jacobi solve,
	// in [0,1]. 0 clears to a cold start every frame; 1 never decays.
	PressureDecay float32

	CurlStrength        float32
	SplatRadius         float32
	SplatForce          float32

	BloomEnabled    bool
	BloomIterations int
	BloomResolution int
	BloomIntensity  float32
	BloomThreshold  float32
	BloomSoftKnee   float32

	SunraysEnabled   bool
	SunraysResolution int
	SunraysWeight    float32

	ShadingEnabled bool

	// Colorful gates the input package's periodic pointer color refresh:
	// when false, a pointer keeps the color it was assigned on press
	// instead of cycling through new random hues over time.
	Colorful bool

	// ColorUpdateSpeed scales the per-frame increment of the pointer
	// color-refresh timer; see the input package's PointerState.Tick.
	ColorUpdateSpeed float32

	// Transparent selects a checkerboard background for the display
	// compositor instead of a solid BackColor fill, matching the original
	// demo's TRANSPARENT toggle.
	Transparent bool
	BackColor   [3]float32
}

// DefaultConfig returns the parameter set the original fluid-simulation
// demo ships with.
func DefaultConfig() Config {
	return Config{
		SimResolution:              128,
		DyeResolution:              1024,
		DensityDissipation:         1,
		VelocityDissipation:        0.2,
		PressureIterations:         20,
		PressureFallbackIterations: 50,
		PressureDecay:              0.8,
		CurlStrength:               30,
		SplatRadius:                0.25,
		SplatForce:                 6000,
		BloomEnabled:               true,
		BloomIterations:            8,
		BloomResolution:            256,
		BloomIntensity:             0.8,
		BloomThreshold:             0.6,
		BloomSoftKnee:              0.7,
		SunraysEnabled:             true,
		SunraysResolution:          196,
		SunraysWeight:              1.0,
		ShadingEnabled:             true,
		Colorful:                   true,
		ColorUpdateSpeed:           10,
		Transparent:                false,
		BackColor:                  [3]float32{0, 0, 0},
	}
}

// clampDt restricts a frame delta-time to the simulation's stable range.
func clampDt(dt float32) float32 {
	const maxDt = 0.05
	if dt < 0 {
		return 0
	}
	if dt > maxDt {
		return maxDt
	}
	return dt
}
