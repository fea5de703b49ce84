package gpu

import (
	"regexp"

	"github.com/gogpu/fluidsim/gpucore"
)

// Program is a compiled, linked vertex/fragment pair plus the set of
// preprocessor keywords it was built with. Programs that only differ by
// keyword set (the display compositor's SHADING/BLOOM/SUNRAYS variants)
// are distinct Program values and are cached by the caller, keyed by a
// keyword bitmask — never by a string key; see [sim.KeywordMask] and
// [cache.ShardedCache]'s [cache.IntHasher].
type Program struct {
	ID       gpucore.RenderPipelineID
	Name     string
	Keywords []string

	// Uniforms maps uniform names declared in the fragment shader to a
	// backend-opaque binding slot, populated by [EnumerateUniforms] at
	// compile time.
	Uniforms map[string]int
}

// uniformDecl matches a WGSL module-scope uniform binding declaration,
// e.g. `@group(0) @binding(3) var<uniform> uTexelSize: vec2<f32>;` or the
// sampler/texture form `@group(0) @binding(1) var uSampler: sampler;`.
// Array-valued uniforms declared with a trailing subscript on the name
// (`uColor[0]`) are matched with the subscript stripped, since the binding
// slot addresses the whole array, not one element.
var uniformDecl = regexp.MustCompile(`@binding\((\d+)\)\s*var(?:<[^>]*>)?\s+(\w+?)(?:\[\d+\])?\s*:`)

// EnumerateUniforms scans WGSL source for @binding declarations and
// returns a name-to-slot map, stripping any trailing array subscript from
// the uniform name so `uColor[0]`, `uColor[1]`, ... all resolve to the
// same `uColor` entry addressing binding slot of the array itself.
func EnumerateUniforms(wgsl string) map[string]int {
	out := make(map[string]int)
	for _, m := range uniformDecl.FindAllStringSubmatch(wgsl, -1) {
		slot := 0
		for _, c := range m[1] {
			slot = slot*10 + int(c-'0')
		}
		name := m[2]
		if _, exists := out[name]; !exists {
			out[name] = slot
		}
	}
	return out
}
