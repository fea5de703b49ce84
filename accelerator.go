package fluidsim

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/fluidsim/internal/gpu"
)

// ErrFallbackToCPU indicates the registered accelerator cannot drive this
// frame. The caller should transparently fall back to the CPU reference
// device (backend/software) for the rest of the session.
var ErrFallbackToCPU = errors.New("fluidsim: falling back to CPU reference device")

// AcceleratedOp identifies a stage of the frame pipeline for capability
// checks through [GPUAccelerator.CanAccelerate]. Simulator itself does not
// call CanAccelerate.
type AcceleratedOp uint32

const (
	// AccelStep covers the Navier-Stokes advection/pressure/vorticity passes.
	AccelStep AcceleratedOp = 1 << iota

	// AccelBloom covers the bloom prefilter/downsample/upsample chain.
	AccelBloom

	// AccelSunrays covers the sunrays mask/accumulate/blur chain.
	AccelSunrays

	// AccelDisplay covers the final display compositing pass.
	AccelDisplay
)

// GPUAccelerator is an optional hardware-backed [gpu.Device] provider.
//
// When registered via RegisterAccelerator, [New] uses it as the device
// whenever no [WithDevice] option is given. If building the stepper on it
// fails, New degrades to the CPU reference device instead of aborting.
// Errors returned by later Step calls are not retried on the CPU device;
// they are returned to the caller.
//
// Implementations are provided by GPU backend packages, registered via
// blank import:
//
//	import _ "github.com/gogpu/fluidsim/backend/wgpu"
type GPUAccelerator interface {
	gpu.Device

	// CanAccelerate reports whether op is supported, without attempting it.
	CanAccelerate(op AcceleratedOp) bool
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a as the GPU accelerator, replacing any
// previously registered one. Only one accelerator can be registered at a
// time; the previous one (if any) is closed after the swap.
func RegisterAccelerator(a GPUAccelerator) {
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()

	if a != nil {
		propagateLogger(a, Logger())
	}
	if old != nil && old != a {
		old.Close()
	}
}

// Accelerator returns the currently registered GPU accelerator, or nil if
// none has been registered (Simulator then runs entirely on the CPU
// reference device).
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// CloseAccelerator shuts down the global GPU accelerator, releasing its
// device resources. After this call, [Accelerator] returns nil. Safe to
// call when no accelerator is registered.
func CloseAccelerator() {
	accelMu.Lock()
	a := accel
	accel = nil
	accelMu.Unlock()
	if a != nil {
		a.Close()
	}
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to an accelerator if it implements
// loggerSetter. Called from both SetLogger and RegisterAccelerator so the
// accelerator always has the current logger.
func propagateLogger(a GPUAccelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
