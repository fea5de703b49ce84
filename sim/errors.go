package sim

import "errors"

// ErrStepError wraps any failure during a simulation or post-effect pass.
// Callers match with errors.Is; the underlying device error is wrapped
// with %w so the original cause (ErrResourceAlloc, ErrProgramLink, ...)
// is still inspectable.
var ErrStepError = errors.New("sim: step failed")
