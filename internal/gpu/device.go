// Package gpu implements the simulator's GPU Resource Layer: capability
// probing, ping-pong framebuffer pairs, shader program compilation, and the
// shared full-screen-quad blit every simulation and post-effect pass uses
// to write into a render target.
//
// The layer is expressed as the [Device] interface so that [backend/wgpu]
// and [backend/software] can both drive the same [sim.Stepper] without the
// stepper caring which one is active. Device selection and degrade-to-CPU
// semantics live one level up, in the root fluidsim package's accelerator.
package gpu

import (
	"context"

	"github.com/gogpu/fluidsim/gpucore"
)

// FilterMode selects the texture sampling mode used when blitting.
type FilterMode int

const (
	// FilterNearest disables interpolation between texels.
	FilterNearest FilterMode = iota
	// FilterLinear enables bilinear interpolation. Requires
	// Capabilities.SupportsLinearFiltering on the active device.
	FilterLinear
)

// Capabilities describes what a Device negotiated at Init time.
type Capabilities struct {
	// DyeFormat is the format chosen for the four-channel dye field.
	DyeFormat gpucore.TextureFormat
	// VelocityFormat is the format chosen for the two-channel velocity field.
	VelocityFormat gpucore.TextureFormat
	// ScalarFormat is the format chosen for single-channel fields
	// (pressure, divergence, curl).
	ScalarFormat gpucore.TextureFormat
	// SupportsLinearFiltering reports whether FilterLinear is honored for
	// the negotiated formats. When false, the stepper resizes fields with
	// nearest filtering and runs PressureFallbackIterations Jacobi
	// iterations; no MANUAL_FILTERING shader variant is compiled.
	SupportsLinearFiltering bool
}

// Uniforms is a bag of shader uniform values keyed by name. Values are
// numeric (float32, [2]float32, [3]float32, [4]float32, int32), bool, or
// *FBO for sampler bindings.
type Uniforms map[string]any

// Device is the backend-agnostic GPU resource layer. Implementations are
// [backend/wgpu.Device] (hardware accelerated) and
// [backend/software.Device] (CPU reference, also the test backend).
type Device interface {
	// Name identifies the backend, e.g. "wgpu" or "software".
	Name() string

	// Init negotiates render target formats and returns the capabilities
	// the simulator should configure itself for. Returns ErrUnsupportedGPU
	// if no usable format chain exists.
	Init(ctx context.Context) (Capabilities, error)

	// Close releases all device-level resources.
	Close()

	// CompileProgram compiles a vertex/fragment WGSL pair under the given
	// preprocessor keywords and links a render pipeline. name identifies
	// the kernel (e.g. "advection", "display") and matches the embedded
	// shader's base filename under /shaders; the software backend uses it
	// to select its CPU implementation of the same kernel instead of
	// interpreting WGSL. Keywords are sorted by the caller before calling,
	// so CompileProgram does not need to canonicalize order; see
	// [sim.KeywordMask] for how the display compositor derives the
	// keyword set.
	CompileProgram(name, vertSrc, fragSrc string, keywords []string) (*Program, error)

	// CreateFBO allocates a single off-screen render target.
	CreateFBO(width, height int, format gpucore.TextureFormat) (*FBO, error)

	// CreateFBOPair allocates a ping-pong pair of identically formatted FBOs.
	CreateFBOPair(width, height int, format gpucore.TextureFormat) (*FBOPair, error)

	// ResizeFBO returns a new FBO at the requested dimensions, with the old
	// FBO's contents resampled into it before the old FBO is destroyed.
	ResizeFBO(fbo *FBO, width, height int, filter FilterMode) (*FBO, error)

	// ResizeFBOPair resizes both buffers of a pair. Only the Read buffer's
	// contents are resampled; Write is left as a fresh, uninitialized target
	// per the ping-pong resize contract.
	ResizeFBOPair(pair *FBOPair, width, height int, filter FilterMode) (*FBOPair, error)

	// Blit executes program against dst using uniforms, drawing the shared
	// full-screen quad. Texture-valued uniforms are bound as program inputs.
	Blit(dst *FBO, program *Program, uniforms Uniforms) error

	// ReadPixels reads an FBO back to a CPU-resident float32 slice in
	// row-major, format.NumComponents()-interleaved order. Used by
	// Simulator.Snapshot and by the software backend's own steady-state
	// sampling.
	ReadPixels(fbo *FBO) ([]float32, error)

	// DestroyFBO releases a single FBO's resources.
	DestroyFBO(fbo *FBO)
}
