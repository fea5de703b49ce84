package software

import (
	"math"

	"github.com/gogpu/fluidsim/internal/gpu"
)

// kernel is the CPU implementation of one named fragment shader. Every
// kernel except boxBlurAdditiveKernel fills dst.Texels entirely without
// reading dst's prior contents (any such read happens through an explicit
// uniform, e.g. "uSource"); boxBlurAdditiveKernel adds its blur onto the
// texels already in dst.
type kernel func(dst *gpu.FBO, u gpu.Uniforms) error

var kernels = map[string]kernel{
	"clear":             clearKernel,
	"copy":              copyKernel,
	"color":             colorKernel,
	"checkerboard":      checkerboardKernel,
	"splat":             splatKernel,
	"advection":         advectionKernel,
	"divergence":        divergenceKernel,
	"curl":              curlKernel,
	"vorticity":         vorticityKernel,
	"pressure":          pressureKernel,
	"gradient_subtract": gradientSubtractKernel,
	"display":           displayKernel,
	"bloom_prefilter":   bloomPrefilterKernel,
	"bloom_blur":          boxBlurKernel,
	"bloom_blur_additive": boxBlurAdditiveKernel,
	"bloom_final":       bloomFinalKernel,
	"sunrays_mask":      sunraysMaskKernel,
	"sunrays":           sunraysKernel,
	"blur":              gaussianBlurKernel,
}

func forEachTexel(dst *gpu.FBO, fn func(x, y int, u, v float32)) {
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			u, v := texelUV(x, y, dst.Width, dst.Height)
			fn(x, y, u, v)
		}
	}
}

func clearKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	src := fboU(un, "uSource")
	value := f32U(un, "uValue")
	n := dst.NumComponents()
	forEachTexel(dst, func(x, y int, u, v float32) {
		c := sampleUV(src, u, v)
		for i := 0; i < n; i++ {
			dst.Texels[(y*dst.Width+x)*n+i] = value * c[i]
		}
	})
	return nil
}

func copyKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	src := fboU(un, "uSource")
	n := dst.NumComponents()
	forEachTexel(dst, func(x, y int, u, v float32) {
		c := sampleUV(src, u, v)
		for i := 0; i < n; i++ {
			dst.Texels[(y*dst.Width+x)*n+i] = c[i]
		}
	})
	return nil
}

func colorKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	color := vec4U(un, "uColor")
	n := dst.NumComponents()
	forEachTexel(dst, func(x, y int, u, v float32) {
		for i := 0; i < n; i++ {
			dst.Texels[(y*dst.Width+x)*n+i] = color[i]
		}
	})
	return nil
}

func checkerboardKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	aspect := f32U(un, "uAspectRatio")
	const cellSize = 10.0
	n := dst.NumComponents()
	forEachTexel(dst, func(x, y int, u, v float32) {
		cx := math.Floor(float64(u*aspect) * cellSize)
		cy := math.Floor(float64(v) * cellSize)
		checker := math.Mod(cx+cy, 2)
		val := float32(0.1)
		if checker != 0 {
			val = 0.15
		}
		for i := 0; i < n-1; i++ {
			dst.Texels[(y*dst.Width+x)*n+i] = val
		}
		if n == 4 {
			dst.Texels[(y*dst.Width+x)*n+3] = 1
		}
	})
	return nil
}

// splatKernel adds a radial Gaussian-falloff splat of color centered at
// uPoint to the contents of uTarget, writing the result to dst. uTarget
// and dst are typically the Read/Write sides of the same FBOPair.
func splatKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	target := fboU(un, "uTarget")
	aspect := f32U(un, "uAspectRatio")
	color := vec3U(un, "uColor")
	point := vec2U(un, "uPoint")
	radius := f32U(un, "uRadius")
	n := dst.NumComponents()

	forEachTexel(dst, func(x, y int, u, v float32) {
		px := (u - point[0]) * aspect
		py := v - point[1]
		falloff := float32(math.Exp(-float64(px*px+py*py) / float64(radius*radius)))
		base := sampleUV(target, u, v)
		for i := 0; i < 3 && i < n; i++ {
			dst.Texels[(y*dst.Width+x)*n+i] = base[i] + falloff*color[i]
		}
		if n == 4 {
			a := float32(1)
			if len(base) == 4 {
				a = base[3]
			}
			dst.Texels[(y*dst.Width+x)*n+3] = a
		}
	})
	return nil
}

// advectionKernel implements basic semi-Lagrangian (Euler backtrace)
// advection: the value written at uv is the source field sampled at
// uv - dt*velocity(uv)*texelSize, decayed by a dissipation factor.
func advectionKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	velocity := fboU(un, "uVelocity")
	source := fboU(un, "uSource")
	dt := f32U(un, "uDt")
	dissipation := f32U(un, "uDissipation")
	n := dst.NumComponents()
	tx, ty := velocity.TexelSize()

	forEachTexel(dst, func(x, y int, u, v float32) {
		vel := sampleUV(velocity, u, v)
		cu := u - dt*vel[0]*tx
		cv := v - dt*vel[1]*ty
		c := sampleUV(source, cu, cv)
		decay := 1 + dissipation*dt
		for i := 0; i < n; i++ {
			val := float32(0)
			if i < len(c) {
				val = c[i]
			}
			dst.Texels[(y*dst.Width+x)*n+i] = val / decay
		}
	})
	return nil
}

// boundaryVelocity returns the velocity texel at (x, y), mirroring the
// component perpendicular to whichever edge was crossed back onto the
// field's own boundary texel with its sign flipped. This approximates a
// no-penetration (free-slip) wall: the mass that would have flowed out is
// reflected back in, instead of wrapping or clamping to the same value a
// plain edge-clamp would give.
func boundaryVelocity(f *gpu.FBO, x, y int) (vx, vy float32, center []float32) {
	center = sampleClamp(f, clampi(x, 0, f.Width-1), clampi(y, 0, f.Height-1))
	if x < 0 || x >= f.Width {
		return -center[0], center[1], center
	}
	if y < 0 || y >= f.Height {
		return center[0], -center[1], center
	}
	v := f.At(x, y)
	return v[0], v[1], center
}

func divergenceKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	velocity := fboU(un, "uVelocity")
	n := dst.NumComponents()

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			lx, _, _ := boundaryVelocity(velocity, x-1, y)
			rx, _, _ := boundaryVelocity(velocity, x+1, y)
			_, ty, _ := boundaryVelocity(velocity, x, y+1)
			_, by, _ := boundaryVelocity(velocity, x, y-1)
			div := 0.5 * ((rx - lx) + (ty - by))
			idx := (y*dst.Width + x) * n
			dst.Texels[idx] = div
			for i := 1; i < n; i++ {
				dst.Texels[idx+i] = 0
			}
		}
	}
	return nil
}

func curlKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	velocity := fboU(un, "uVelocity")
	n := dst.NumComponents()

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			l := sampleClamp(velocity, x-1, y)[1]
			r := sampleClamp(velocity, x+1, y)[1]
			t := sampleClamp(velocity, x, y+1)[0]
			b := sampleClamp(velocity, x, y-1)[0]
			vorticity := 0.5 * (r - l - t + b)
			idx := (y*dst.Width + x) * n
			dst.Texels[idx] = vorticity
			for i := 1; i < n; i++ {
				dst.Texels[idx+i] = 0
			}
		}
	}
	return nil
}

func vorticityKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	velocity := fboU(un, "uVelocity")
	curl := fboU(un, "uCurl")
	curlStrength := f32U(un, "uCurlStrength")
	dt := f32U(un, "uDt")
	n := dst.NumComponents()

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			l := sampleClamp(curl, x-1, y)[0]
			r := sampleClamp(curl, x+1, y)[0]
			t := sampleClamp(curl, x, y+1)[0]
			b := sampleClamp(curl, x, y-1)[0]
			c := sampleClamp(curl, x, y)[0]

			fx := 0.5 * (float32(math.Abs(float64(t))) - float32(math.Abs(float64(b))))
			fy := 0.5 * (float32(math.Abs(float64(r))) - float32(math.Abs(float64(l))))
			length := float32(math.Sqrt(float64(fx*fx + fy*fy)))
			if length > 0 {
				fx = fx / (length + 0.0001) * curlStrength * c
				fy = fy/(length+0.0001)*curlStrength*c*-1
			}

			vel := sampleClamp(velocity, x, y)
			vx := clampf(vel[0]+fx*dt, -1000, 1000)
			vy := clampf(vel[1]+fy*dt, -1000, 1000)

			idx := (y*dst.Width + x) * n
			dst.Texels[idx] = vx
			dst.Texels[idx+1] = vy
			for i := 2; i < n; i++ {
				dst.Texels[idx+i] = 0
			}
		}
	}
	return nil
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func pressureKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	pressure := fboU(un, "uPressure")
	divergence := fboU(un, "uDivergence")
	n := dst.NumComponents()

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			l := sampleClamp(pressure, x-1, y)[0]
			r := sampleClamp(pressure, x+1, y)[0]
			t := sampleClamp(pressure, x, y+1)[0]
			b := sampleClamp(pressure, x, y-1)[0]
			div := sampleClamp(divergence, x, y)[0]
			p := (l + r + b + t - div) * 0.25

			idx := (y*dst.Width + x) * n
			dst.Texels[idx] = p
			for i := 1; i < n; i++ {
				dst.Texels[idx+i] = 0
			}
		}
	}
	return nil
}

func gradientSubtractKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	pressure := fboU(un, "uPressure")
	velocity := fboU(un, "uVelocity")
	n := dst.NumComponents()

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			l := sampleClamp(pressure, x-1, y)[0]
			r := sampleClamp(pressure, x+1, y)[0]
			t := sampleClamp(pressure, x, y+1)[0]
			b := sampleClamp(pressure, x, y-1)[0]
			vel := sampleClamp(velocity, x, y)

			idx := (y*dst.Width + x) * n
			dst.Texels[idx] = vel[0] - 0.5*(r-l)
			dst.Texels[idx+1] = vel[1] - 0.5*(t-b)
			for i := 2; i < n; i++ {
				dst.Texels[idx+i] = 0
			}
		}
	}
	return nil
}

// displayKernel composites the dye field with the optional shading,
// bloom and sunrays contributions selected by the SHADING/BLOOM/SUNRAYS
// keywords, matching the display.frag.wgsl keyword-gated bindings.
func displayKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	shading := boolU(un, "uShadingEnabled")
	bloomEnabled := boolU(un, "uBloomEnabled")
	sunraysEnabled := boolU(un, "uSunraysEnabled")
	bloom := fboU(un, "uBloom")
	bloomIntensity := f32U(un, "uBloomIntensity")
	sunrays := fboU(un, "uSunrays")
	n := dst.NumComponents()

	forEachTexel(dst, func(x, y int, u, v float32) {
		c := sampleUV(texture, u, v)
		r, g, b := c[0], c[1], c[2]

		if shading {
			tx, ty := texture.TexelSize()
			lc := sampleUV(texture, u-tx, v)
			rc := sampleUV(texture, u+tx, v)
			tc := sampleUV(texture, u, v+ty)
			bc := sampleUV(texture, u, v-ty)
			dx := rc[0] - lc[0]
			dy := tc[0] - bc[0]
			nz := float32(1) - float32(math.Sqrt(float64(dx*dx*25+dy*dy*25)))
			if nz < 0 {
				nz = 0
			}
			diffuse := clampf(nz+0.7, 0.7, 1.0)
			r, g, b = r*diffuse, g*diffuse, b*diffuse
		}

		if bloomEnabled && bloom != nil {
			bc := sampleUV(bloom, u, v)
			r += bc[0] * bloomIntensity
			g += bc[1] * bloomIntensity
			b += bc[2] * bloomIntensity
		}

		if sunraysEnabled && sunrays != nil {
			s := sampleUV(sunrays, u, v)[0]
			r *= s
			g *= s
			b *= s
		}

		idx := (y*dst.Width + x) * n
		dst.Texels[idx] = r
		dst.Texels[idx+1] = g
		dst.Texels[idx+2] = b
		if n == 4 {
			dst.Texels[idx+3] = 1
		}
	})
	return nil
}

// bloomPrefilterKernel extracts the over-threshold brightness with a
// soft-knee curve, the first stage of the bloom chain.
func bloomPrefilterKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	curve := vec3U(un, "uCurve")
	threshold := f32U(un, "uThreshold")
	n := dst.NumComponents()

	forEachTexel(dst, func(x, y int, u, v float32) {
		c := sampleUV(texture, u, v)
		br := maxf(c[0], maxf(c[1], c[2]))
		rq := clampf(br-curve[0], 0, curve[1])
		rq = curve[2] * rq * rq
		denom := maxf(br, 0.0001)
		val := maxf(rq, br-threshold) / denom

		idx := (y*dst.Width + x) * n
		dst.Texels[idx] = c[0] * val
		dst.Texels[idx+1] = c[1] * val
		dst.Texels[idx+2] = c[2] * val
		if n == 4 {
			dst.Texels[idx+3] = 0
		}
	})
	return nil
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// boxBlurKernel is the 4-tap box filter used by the bloom mip chain's
// downsample pass (bloom_blur.frag.wgsl), replacing dst's contents outright.
// The upsample pass uses boxBlurAdditiveKernel instead, since it must
// accumulate onto each level's existing downsampled contents rather than
// discard them.
func boxBlurKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	n := dst.NumComponents()
	tx, ty := texture.TexelSize()

	forEachTexel(dst, func(x, y int, u, v float32) {
		l := sampleUV(texture, u-tx, v)
		r := sampleUV(texture, u+tx, v)
		t := sampleUV(texture, u, v+ty)
		b := sampleUV(texture, u, v-ty)
		idx := (y*dst.Width + x) * n
		for i := 0; i < n; i++ {
			dst.Texels[idx+i] = 0.25 * (l[i] + r[i] + t[i] + b[i])
		}
	})
	return nil
}

// boxBlurAdditiveKernel is boxBlurKernel's upsample counterpart: it adds the
// blurred sample to dst's existing texels instead of overwriting them,
// emulating the ONE,ONE additive blend the bloom mip chain's upsample pass
// requires so each level accumulates the coarser levels on top of its own
// downsampled contents rather than losing them.
func boxBlurAdditiveKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	n := dst.NumComponents()
	tx, ty := texture.TexelSize()

	forEachTexel(dst, func(x, y int, u, v float32) {
		l := sampleUV(texture, u-tx, v)
		r := sampleUV(texture, u+tx, v)
		t := sampleUV(texture, u, v+ty)
		b := sampleUV(texture, u, v-ty)
		idx := (y*dst.Width + x) * n
		for i := 0; i < n; i++ {
			dst.Texels[idx+i] += 0.25 * (l[i] + r[i] + t[i] + b[i])
		}
	})
	return nil
}

func bloomFinalKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	if err := boxBlurKernel(dst, un); err != nil {
		return err
	}
	intensity := f32U(un, "uIntensity")
	n := dst.NumComponents()
	for i := range dst.Texels {
		if (i%n) < 3 {
			dst.Texels[i] *= intensity
		}
	}
	return nil
}

func sunraysMaskKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	n := dst.NumComponents()
	forEachTexel(dst, func(x, y int, u, v float32) {
		c := sampleUV(texture, u, v)
		br := maxf(c[0], maxf(c[1], c[2]))
		a := 1 - minf(br*20, 0.8)
		idx := (y*dst.Width + x) * n
		for i := 0; i < n-1 && i < 3; i++ {
			dst.Texels[idx+i] = c[i]
		}
		dst.Texels[idx+n-1] = a
	})
	return nil
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// sunraysKernel accumulates 16 radial samples toward uLightPosition with
// exponential decay, matching the original implementation's fixed sample
// count.
func sunraysKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	light := vec2U(un, "uLightPosition")
	weight := f32U(un, "uWeight")
	const samples = 16
	n := dst.NumComponents()

	forEachTexel(dst, func(x, y int, u, v float32) {
		dx := (u - light[0]) / samples
		dy := (v - light[1]) / samples

		c := sampleUV(texture, u, v)
		color := c[len(c)-1]
		decay := float32(1)
		cu, cv := u, v
		for i := 0; i < samples; i++ {
			cu -= dx
			cv -= dy
			s := sampleUV(texture, cu, cv)
			color += s[len(s)-1] * decay * weight
			decay *= 0.9
		}

		idx := (y*dst.Width + x) * n
		dst.Texels[idx] = color
		for i := 1; i < n; i++ {
			dst.Texels[idx+i] = 0
		}
	})
	return nil
}

// gaussianBlurKernel is the separable 5-tap blur used by the sunrays
// pass's own smoothing step; uDirection carries the texel-space step for
// either the horizontal or vertical pass.
func gaussianBlurKernel(dst *gpu.FBO, un gpu.Uniforms) error {
	texture := fboU(un, "uTexture")
	dir := vec2U(un, "uDirection")
	n := dst.NumComponents()

	weights := [3]float32{0.2270270270, 0.3162162162, 0.0702702703}
	offsets := [2]float32{1.3846153846, 3.2307692308}

	forEachTexel(dst, func(x, y int, u, v float32) {
		sum := sampleUV(texture, u, v)
		idx := (y*dst.Width + x) * n
		acc := make([]float32, n)
		for i := 0; i < n && i < len(sum); i++ {
			acc[i] = sum[i] * weights[0]
		}
		for k := 0; k < 2; k++ {
			p := sampleUV(texture, u+dir[0]*offsets[k], v+dir[1]*offsets[k])
			m := sampleUV(texture, u-dir[0]*offsets[k], v-dir[1]*offsets[k])
			for i := 0; i < n; i++ {
				if i < len(p) {
					acc[i] += p[i] * weights[k+1]
				}
				if i < len(m) {
					acc[i] += m[i] * weights[k+1]
				}
			}
		}
		copy(dst.Texels[idx:idx+n], acc)
	})
	return nil
}
