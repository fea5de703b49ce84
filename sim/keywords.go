package sim

const (
	keywordShading = 1 << iota
	keywordBloom
	keywordSunrays
)

// KeywordMask encodes the display kernel's active preprocessor keywords as
// a small bitmask, used to key the compiled-program cache so each
// SHADING/BLOOM/SUNRAYS combination is compiled at most once.
func KeywordMask(shading, bloom, sunrays bool) int {
	mask := 0
	if shading {
		mask |= keywordShading
	}
	if bloom {
		mask |= keywordBloom
	}
	if sunrays {
		mask |= keywordSunrays
	}
	return mask
}

// DisplayKeywords returns the keyword list CompileProgram expects for a
// given mask, in the fixed SHADING/BLOOM/SUNRAYS order the display kernel's
// uniform bindings are gated on.
func DisplayKeywords(mask int) []string {
	var keywords []string
	if mask&keywordShading != 0 {
		keywords = append(keywords, "SHADING")
	}
	if mask&keywordBloom != 0 {
		keywords = append(keywords, "BLOOM")
	}
	if mask&keywordSunrays != 0 {
		keywords = append(keywords, "SUNRAYS")
	}
	return keywords
}
