package gpu

import "github.com/gogpu/fluidsim/gpucore"

// SupportsFormat reports whether a device can create a color-renderable,
// filterable texture of the given format. Backends provide this as a
// closure over their own adapter query; [ProbeCapabilities] is the shared
// fallback-walking algorithm every backend's Init calls into.
type SupportsFormat func(format gpucore.TextureFormat, linearFilterable bool) bool

// ProbeCapabilities walks the fallback chain of [gpucore.FallbackChain] for
// each field width (1, 2 and 4 channels), narrowest format first, and
// returns the first format each chain accepts. It returns
// [ErrUnsupportedGPU] if any of the three chains has no renderable format.
func ProbeCapabilities(supports SupportsFormat) (Capabilities, error) {
	dye, okDye := probeChain(supports, 4)
	vel, okVel := probeChain(supports, 2)
	scalar, okScalar := probeChain(supports, 1)
	if !okDye || !okVel || !okScalar {
		return Capabilities{}, ErrUnsupportedGPU
	}

	linear := supports(vel, true)

	return Capabilities{
		DyeFormat:               dye,
		VelocityFormat:          vel,
		ScalarFormat:            scalar,
		SupportsLinearFiltering: linear,
	}, nil
}

func probeChain(supports SupportsFormat, numComponents int) (gpucore.TextureFormat, bool) {
	for _, f := range gpucore.FallbackChain(numComponents) {
		if supports(f, false) {
			return f, true
		}
	}
	return 0, false
}
