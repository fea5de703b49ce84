package gpu

import "errors"

// Sentinel errors returned by the GPU resource layer and shader pipeline.
// Callers match against these with errors.Is; backends wrap them with
// fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrUnsupportedGPU indicates the device could not find any
	// color-renderable half-float format and simulation cannot proceed
	// on this backend.
	ErrUnsupportedGPU = errors.New("gpu: no supported half-float render target format")

	// ErrResourceAlloc indicates a buffer or texture allocation failed,
	// typically out-of-memory on the device.
	ErrResourceAlloc = errors.New("gpu: resource allocation failed")

	// ErrShaderCompile indicates WGSL source failed to compile.
	ErrShaderCompile = errors.New("gpu: shader compilation failed")

	// ErrProgramLink indicates a vertex/fragment pair failed to link into
	// a render pipeline.
	ErrProgramLink = errors.New("gpu: program link failed")
)
