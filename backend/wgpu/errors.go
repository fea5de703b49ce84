package wgpu

import "errors"

// Sentinel errors returned by the wgpu backend's device acquisition and
// pipeline cache. Callers match against these with errors.Is.
var (
	// ErrNoGPU indicates instance creation or adapter request failed, e.g.
	// no compatible GPU or driver is present on the host.
	ErrNoGPU = errors.New("wgpu: no compatible GPU adapter")

	// ErrNotInitialized indicates a Device method was called before Init.
	ErrNotInitialized = errors.New("wgpu: device not initialized")
)
