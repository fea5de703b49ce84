// Package gpucore provides the shared GPU resource vocabulary used by the
// fluid simulator's backends.
//
// This package defines opaque resource IDs (BufferID, TextureID,
// ShaderModuleID, RenderPipelineID, ...) and the descriptor types used to
// create bind groups and render pipelines. Concrete backends — [backend/wgpu]
// for hardware acceleration and [backend/software] for the CPU reference
// implementation — both speak this vocabulary, which lets [internal/gpu] and
// [sim] stay backend-agnostic.
//
// # Texture format fallback
//
// The simulator prefers half-float (16-bit) color-renderable formats for
// all field storage, never 8-bit formats. [FallbackChain] returns the probe
// order for a field with a given channel count; the resource layer walks
// it once at startup and records the first format the device accepts.
package gpucore
