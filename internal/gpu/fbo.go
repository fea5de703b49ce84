package gpu

import "github.com/gogpu/fluidsim/gpucore"

// FBO is a single off-screen render target: a GPU texture plus the CPU
// mirror backends use for software execution and for readback.
//
// Field storage is always []float32, never a packed half-float byte
// representation — no half-float numeric type exists in this module's
// dependency stack, so "half-float" is purely a negotiated
// [gpucore.TextureFormat], not a distinct Go type. Texel values are stored
// channel-interleaved, row-major, top-to-bottom.
type FBO struct {
	ID     gpucore.TextureID
	Width  int
	Height int
	Format gpucore.TextureFormat

	// Texels holds the CPU-resident field data. The software backend
	// computes directly into this slice; the wgpu backend uses it only as
	// a readback staging buffer populated by ReadPixels.
	Texels []float32
}

// TexelSize returns the reciprocal width/height, the `texelSize` uniform
// every simulation shader takes to convert pixel offsets to UV offsets.
func (f *FBO) TexelSize() (x, y float32) {
	return 1 / float32(f.Width), 1 / float32(f.Height)
}

// NumComponents returns the channel count for this FBO's format.
func (f *FBO) NumComponents() int {
	return f.Format.NumComponents()
}

// At returns the interleaved channel values for texel (x, y). The returned
// slice aliases Texels; callers must not retain it across a Set call.
func (f *FBO) At(x, y int) []float32 {
	n := f.NumComponents()
	i := (y*f.Width + x) * n
	return f.Texels[i : i+n]
}

// Set writes the interleaved channel values for texel (x, y).
func (f *FBO) Set(x, y int, v []float32) {
	n := f.NumComponents()
	i := (y*f.Width + x) * n
	copy(f.Texels[i:i+n], v)
}

// FBOPair is a ping-pong pair: one buffer is read from while the other is
// written to, then [FBOPair.Swap] exchanges their roles. Every simulation
// field (velocity, dye, pressure) is stored as an FBOPair.
type FBOPair struct {
	Read  *FBO
	Write *FBO
}

// Swap exchanges Read and Write. This is the only way roles change; no
// data is copied.
func (p *FBOPair) Swap() {
	p.Read, p.Write = p.Write, p.Read
}
