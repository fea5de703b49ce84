package software

import (
	"math"

	"github.com/gogpu/fluidsim/internal/gpu"
)

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sampleClamp returns the channel values at integer texel (x, y), clamping
// out-of-range coordinates to the edge texel. This is the plain
// CLAMP_TO_EDGE addressing mode the curl, vorticity confinement, pressure
// and gradient-subtract passes rely on.
func sampleClamp(f *gpu.FBO, x, y int) []float32 {
	x = clampi(x, 0, f.Width-1)
	y = clampi(y, 0, f.Height-1)
	return f.At(x, y)
}

// sampleUV bilinearly samples f at normalized coordinate (u, v) in
// [0, 1]^2, using clamp-to-edge addressing at the boundary.
func sampleUV(f *gpu.FBO, u, v float32) []float32 {
	fx := u*float32(f.Width) - 0.5
	fy := v*float32(f.Height) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := sampleClamp(f, x0, y0)
	c10 := sampleClamp(f, x0+1, y0)
	c01 := sampleClamp(f, x0, y0+1)
	c11 := sampleClamp(f, x0+1, y0+1)

	n := f.NumComponents()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		top := c00[i]*(1-tx) + c10[i]*tx
		bot := c01[i]*(1-tx) + c11[i]*tx
		out[i] = top*(1-ty) + bot*ty
	}
	return out
}

// texelUV returns the cell-center normalized UV for integer texel (x, y)
// in a field of the given width/height.
func texelUV(x, y, width, height int) (u, v float32) {
	return (float32(x) + 0.5) / float32(width), (float32(y) + 0.5) / float32(height)
}

// resample fills dst by sampling src across dst's resolution, used by
// ResizeFBO. Nearest filtering rounds to the closest src texel instead of
// interpolating.
func resample(src, dst *gpu.FBO, filter gpu.FilterMode) {
	n := dst.NumComponents()
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			u, v := texelUV(x, y, dst.Width, dst.Height)
			var c []float32
			if filter == gpu.FilterNearest {
				sx := clampi(int(u*float32(src.Width)), 0, src.Width-1)
				sy := clampi(int(v*float32(src.Height)), 0, src.Height-1)
				c = sampleClamp(src, sx, sy)
			} else {
				c = sampleUV(src, u, v)
			}
			for i := 0; i < n && i < len(c); i++ {
				dst.Texels[(y*dst.Width+x)*n+i] = c[i]
			}
		}
	}
}
