// Package software provides the CPU reference [gpu.Device] implementation.
// It backs the simulator when no GPU is available, and is the device the
// test suite exercises directly since it requires no hardware.
//
// The software device does not interpret the embedded WGSL sources at
// all: [Device.CompileProgram] threads a kernel name through from
// [shaders.Names] and [Device.Blit] dispatches straight to a matching Go
// function in kernels.go. This mirrors the teacher's own software
// fallback, which wraps a CPU algorithm behind the same renderer
// interface the GPU backend implements, rather than running a shader
// interpreter on the CPU.
package software

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/fluidsim/gpucore"
	"github.com/gogpu/fluidsim/internal/gpu"
)

// Device is the CPU reference implementation of [gpu.Device].
type Device struct {
	nextID atomic.Uint64
}

// New creates a software device. Init must be called before use.
func New() *Device {
	return &Device{}
}

// Name returns "software".
func (d *Device) Name() string { return "software" }

// Init always succeeds: the CPU reference implementation stores every
// field as []float32 regardless of the negotiated [gpucore.TextureFormat],
// so no half-float hardware capability is actually required.
func (d *Device) Init(_ context.Context) (gpu.Capabilities, error) {
	return gpu.Capabilities{
		DyeFormat:               gpucore.TextureFormatRGBA16Float,
		VelocityFormat:          gpucore.TextureFormatRG16Float,
		ScalarFormat:            gpucore.TextureFormatR16Float,
		SupportsLinearFiltering: true,
	}, nil
}

// Close is a no-op; the software device owns no external resources.
func (d *Device) Close() {}

func (d *Device) allocID() uint64 {
	return d.nextID.Add(1)
}

// CompileProgram records the kernel name and enumerates uniforms from the
// fragment source for diagnostic parity with the wgpu backend; it does
// not compile anything.
func (d *Device) CompileProgram(name, _, fragSrc string, keywords []string) (*gpu.Program, error) {
	if _, ok := kernels[name]; !ok {
		return nil, fmt.Errorf("software: %w: unknown kernel %q", gpu.ErrShaderCompile, name)
	}
	return &gpu.Program{
		ID:       gpucore.RenderPipelineID(d.allocID()),
		Name:     name,
		Keywords: keywords,
		Uniforms: gpu.EnumerateUniforms(fragSrc),
	}, nil
}

// CreateFBO allocates a zeroed CPU-backed render target.
func (d *Device) CreateFBO(width, height int, format gpucore.TextureFormat) (*gpu.FBO, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("software: %w: invalid dimensions %dx%d", gpu.ErrResourceAlloc, width, height)
	}
	return &gpu.FBO{
		ID:     gpucore.TextureID(d.allocID()),
		Width:  width,
		Height: height,
		Format: format,
		Texels: make([]float32, width*height*format.NumComponents()),
	}, nil
}

// CreateFBOPair allocates two independent, identically formatted FBOs.
func (d *Device) CreateFBOPair(width, height int, format gpucore.TextureFormat) (*gpu.FBOPair, error) {
	read, err := d.CreateFBO(width, height, format)
	if err != nil {
		return nil, err
	}
	write, err := d.CreateFBO(width, height, format)
	if err != nil {
		return nil, err
	}
	return &gpu.FBOPair{Read: read, Write: write}, nil
}

// ResizeFBO creates a new FBO at the requested size and resamples the old
// FBO's contents into it with bilinear or nearest filtering, then drops
// the old FBO.
func (d *Device) ResizeFBO(fbo *gpu.FBO, width, height int, filter gpu.FilterMode) (*gpu.FBO, error) {
	next, err := d.CreateFBO(width, height, fbo.Format)
	if err != nil {
		return nil, err
	}
	resample(fbo, next, filter)
	d.DestroyFBO(fbo)
	return next, nil
}

// ResizeFBOPair resizes the Read buffer with content preserved and
// allocates a fresh, uninitialized Write buffer, per the ping-pong resize
// contract: a pair's Write side never needs its stale contents.
func (d *Device) ResizeFBOPair(pair *gpu.FBOPair, width, height int, filter gpu.FilterMode) (*gpu.FBOPair, error) {
	read, err := d.ResizeFBO(pair.Read, width, height, filter)
	if err != nil {
		return nil, err
	}
	write, err := d.CreateFBO(width, height, pair.Write.Format)
	if err != nil {
		return nil, err
	}
	d.DestroyFBO(pair.Write)
	return &gpu.FBOPair{Read: read, Write: write}, nil
}

// Blit dispatches to the CPU kernel matching program.Name.
func (d *Device) Blit(dst *gpu.FBO, program *gpu.Program, uniforms gpu.Uniforms) error {
	kernel, ok := kernels[program.Name]
	if !ok {
		return fmt.Errorf("software: %w: unknown kernel %q", gpu.ErrProgramLink, program.Name)
	}
	return kernel(dst, uniforms)
}

// ReadPixels returns a copy of the FBO's texel data.
func (d *Device) ReadPixels(fbo *gpu.FBO) ([]float32, error) {
	out := make([]float32, len(fbo.Texels))
	copy(out, fbo.Texels)
	return out, nil
}

// DestroyFBO releases the CPU-backed texel storage.
func (d *Device) DestroyFBO(fbo *gpu.FBO) {
	fbo.Texels = nil
}

var _ gpu.Device = (*Device)(nil)
