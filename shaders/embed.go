// Package shaders embeds the WGSL sources for every simulation and
// post-effect pass. Each kernel is a vertex/fragment pair sharing the
// base full-screen-quad vertex shader; fragment sources are named after
// the kernel they implement and that name is threaded through
// [gpu.Device.CompileProgram] so the software backend can select its
// matching CPU implementation.
package shaders

import _ "embed"

//go:embed base.vert.wgsl
var BaseVertex string

//go:embed clear.frag.wgsl
var Clear string

//go:embed copy.frag.wgsl
var Copy string

//go:embed color.frag.wgsl
var Color string

//go:embed checkerboard.frag.wgsl
var Checkerboard string

//go:embed splat.frag.wgsl
var Splat string

//go:embed advection.frag.wgsl
var Advection string

//go:embed divergence.frag.wgsl
var Divergence string

//go:embed curl.frag.wgsl
var Curl string

//go:embed vorticity.frag.wgsl
var Vorticity string

//go:embed pressure.frag.wgsl
var Pressure string

//go:embed gradient_subtract.frag.wgsl
var GradientSubtract string

//go:embed display.frag.wgsl
var Display string

//go:embed bloom_prefilter.frag.wgsl
var BloomPrefilter string

//go:embed bloom_blur.frag.wgsl
var BloomBlur string

//go:embed bloom_blur_additive.frag.wgsl
var BloomBlurAdditive string

//go:embed bloom_final.frag.wgsl
var BloomFinal string

//go:embed sunrays_mask.frag.wgsl
var SunraysMask string

//go:embed sunrays.frag.wgsl
var Sunrays string

//go:embed blur.frag.wgsl
var Blur string

// Names lists every fragment kernel name in the order a display or
// post-effect pipeline warm-up would compile them.
var Names = []string{
	"clear", "copy", "color", "checkerboard", "splat",
	"advection", "divergence", "curl", "vorticity", "pressure", "gradient_subtract",
	"display", "bloom_prefilter", "bloom_blur", "bloom_blur_additive", "bloom_final",
	"sunrays_mask", "sunrays", "blur",
}

// Fragment returns the fragment shader source for a kernel name.
func Fragment(name string) (string, bool) {
	switch name {
	case "clear":
		return Clear, true
	case "copy":
		return Copy, true
	case "color":
		return Color, true
	case "checkerboard":
		return Checkerboard, true
	case "splat":
		return Splat, true
	case "advection":
		return Advection, true
	case "divergence":
		return Divergence, true
	case "curl":
		return Curl, true
	case "vorticity":
		return Vorticity, true
	case "pressure":
		return Pressure, true
	case "gradient_subtract":
		return GradientSubtract, true
	case "display":
		return Display, true
	case "bloom_prefilter":
		return BloomPrefilter, true
	case "bloom_blur":
		return BloomBlur, true
	case "bloom_blur_additive":
		return BloomBlurAdditive, true
	case "bloom_final":
		return BloomFinal, true
	case "sunrays_mask":
		return SunraysMask, true
	case "sunrays":
		return Sunrays, true
	case "blur":
		return Blur, true
	default:
		return "", false
	}
}
