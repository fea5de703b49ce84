package wgpu

import "github.com/gogpu/fluidsim"

// init registers this backend as the default GPU accelerator, the way
// the teacher's SDF accelerator documents being wired in: a blank import
// of this package is enough to opt a host into it.
//
//	import _ "github.com/gogpu/fluidsim/backend/wgpu"
func init() {
	fluidsim.RegisterAccelerator(New())
}
