package gpu

import (
	"testing"

	"github.com/gogpu/fluidsim/gpucore"
)

func newTestFBO(w, h int, format gpucore.TextureFormat) *FBO {
	return &FBO{
		Width:  w,
		Height: h,
		Format: format,
		Texels: make([]float32, w*h*format.NumComponents()),
	}
}

func TestFBOTexelSize(t *testing.T) {
	f := newTestFBO(128, 64, gpucore.TextureFormatRGBA16Float)
	x, y := f.TexelSize()
	if x != 1.0/128 {
		t.Errorf("TexelSize().x = %v, want %v", x, 1.0/128)
	}
	if y != 1.0/64 {
		t.Errorf("TexelSize().y = %v, want %v", y, 1.0/64)
	}
}

func TestFBOAtSet(t *testing.T) {
	f := newTestFBO(4, 4, gpucore.TextureFormatRG16Float)

	f.Set(2, 1, []float32{0.5, -0.25})
	got := f.At(2, 1)
	if got[0] != 0.5 || got[1] != -0.25 {
		t.Errorf("At(2,1) = %v, want [0.5 -0.25]", got)
	}

	// Unrelated texel stays zero.
	other := f.At(0, 0)
	if other[0] != 0 || other[1] != 0 {
		t.Errorf("At(0,0) = %v, want [0 0]", other)
	}
}

func TestFBOPairSwap(t *testing.T) {
	a := newTestFBO(2, 2, gpucore.TextureFormatR16Float)
	b := newTestFBO(2, 2, gpucore.TextureFormatR16Float)
	pair := &FBOPair{Read: a, Write: b}

	pair.Swap()
	if pair.Read != b || pair.Write != a {
		t.Fatal("Swap() did not exchange Read/Write")
	}

	pair.Swap()
	if pair.Read != a || pair.Write != b {
		t.Fatal("Swap() twice should restore original roles")
	}
}
