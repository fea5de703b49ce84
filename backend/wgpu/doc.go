// Package wgpu provides the hardware-accelerated [gpu.Device] backend for
// the fluid simulator, built on gogpu/wgpu's Pure Go WebGPU implementation.
//
// # Architecture
//
// Init acquires real GPU resources in the standard wgpu sequence:
//
//	Instance -> Adapter -> Device -> Queue
//
// CompileProgram validates every kernel's WGSL source through naga before
// registering a pipeline identity in [PipelineCache]. Until the vendored
// wgpu/core surface exposes render pipeline creation and texture upload,
// the actual per-texel math for [Device.Blit] runs on an embedded
// backend/software.Device CPU mirror — the same one the pure software
// backend uses directly. This mirrors the approach the original GPU
// scene renderer in this package took for its own pipeline and
// bind-group objects: a [StubPipelineID] scaffold standing in for
// handles the vendored core package cannot produce yet, with every layer
// above that — adapter selection, device limits, shader validation —
// genuinely exercised against the real GPU stack.
//
// # Status
//
// Real: instance/adapter/device/queue acquisition, device limit
// reporting, WGSL validation via naga.Compile.
//
// Stubbed: render pipeline objects, bind groups, and GPU-side dispatch of
// the blit. [PipelineCache.GetOrCreate] documents the exact wgpu/core
// calls this becomes once that surface lands.
//
// # Related Packages
//
//   - github.com/gogpu/fluidsim/internal/gpu: the Device interface this
//     package implements
//   - github.com/gogpu/fluidsim/backend/software: the CPU reference
//     implementation this backend delegates field computation to
//   - github.com/gogpu/naga: WGSL validation/translation
//   - github.com/gogpu/wgpu/core: adapter/device/queue primitives
package wgpu
