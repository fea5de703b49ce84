package wgpu

import (
	"strings"
	"sync"

	"github.com/gogpu/wgpu/core"
)

// StubPipelineID is a placeholder for an actual wgpu RenderPipelineID.
// This will be replaced with core.RenderPipelineID once the vendored
// wgpu/core surface exposes real render pipeline creation; see
// PipelineCache.GetOrCreate for the TODO describing that call.
type StubPipelineID uint64

// StubBindGroupLayoutID is a placeholder for an actual wgpu BindGroupLayoutID.
type StubBindGroupLayoutID uint64

// StubBindGroupID is a placeholder for an actual wgpu BindGroupID.
type StubBindGroupID uint64

// StubBufferID is a placeholder for an actual wgpu BufferID, reserved for
// the uniform buffer a real bind group would wrap.
type StubBufferID uint64

// InvalidPipelineID represents an invalid/uninitialized pipeline.
const InvalidPipelineID StubPipelineID = 0

// PipelineCache caches one stub render pipeline per compiled kernel
// variant (name plus its sorted keyword set), mirroring the role
// [render.Compositor]'s ShardedCache plays one level up for the display
// kernel specifically. It exists so repeated CompileProgram calls for the
// same (name, keywords) pair are idempotent instead of allocating a new
// pipeline identity every call.
//
// PipelineCache is safe for concurrent use.
type PipelineCache struct {
	mu sync.RWMutex

	device core.DeviceID

	pipelines map[string]StubPipelineID
	layouts   map[string]StubBindGroupLayoutID
	nextID    uint64
}

// NewPipelineCache creates an empty pipeline cache bound to device.
func NewPipelineCache(device core.DeviceID) *PipelineCache {
	return &PipelineCache{
		device:    device,
		pipelines: make(map[string]StubPipelineID),
		layouts:   make(map[string]StubBindGroupLayoutID),
	}
}

// pipelineKey canonicalizes a kernel name and keyword set into the cache
// key. Keywords are expected pre-sorted by the caller, per the
// [gpu.Device.CompileProgram] contract.
func pipelineKey(name string, keywords []string) string {
	if len(keywords) == 0 {
		return name
	}
	return name + "#" + strings.Join(keywords, ",")
}

// GetOrCreate returns the stub pipeline for (name, keywords), creating one
// on first use.
//
// TODO: when the vendored wgpu/core surface exposes real pipeline
// creation, this becomes:
//
//	layout := core.CreateBindGroupLayout(pc.device, blitBindGroupLayoutDescriptor())
//	module := core.CreateShaderModule(pc.device, &types.ShaderModuleDescriptor{Source: spirv})
//	pipeline := core.CreateRenderPipeline(pc.device, &types.RenderPipelineDescriptor{
//	    Layout:   layout,
//	    Vertex:   types.VertexState{Module: module, EntryPoint: "vs_main"},
//	    Fragment: &types.FragmentState{Module: module, EntryPoint: "fs_main", ...},
//	})
//
// until then the identity itself is the only thing that needs to be
// stable across calls; the actual blit math runs on the CPU mirror via
// [Device.cpu].
func (pc *PipelineCache) GetOrCreate(name string, keywords []string) StubPipelineID {
	key := pipelineKey(name, keywords)

	pc.mu.RLock()
	if id, ok := pc.pipelines[key]; ok {
		pc.mu.RUnlock()
		return id
	}
	pc.mu.RUnlock()

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if id, ok := pc.pipelines[key]; ok {
		return id
	}

	pc.nextID++
	id := StubPipelineID(pc.nextID)
	pc.pipelines[key] = id
	pc.layouts[key] = StubBindGroupLayoutID(pc.nextID)
	return id
}

// Len reports how many distinct pipeline variants have been created.
func (pc *PipelineCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.pipelines)
}

// Close drops every cached pipeline identity.
//
// TODO: when real pipelines exist, release them here:
//
//	for _, p := range pc.pipelines { core.RenderPipelineDrop(p) }
func (pc *PipelineCache) Close() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.pipelines = nil
	pc.layouts = nil
}
