package software

import "github.com/gogpu/fluidsim/internal/gpu"

func fboU(u gpu.Uniforms, key string) *gpu.FBO {
	f, _ := u[key].(*gpu.FBO)
	return f
}

func f32U(u gpu.Uniforms, key string) float32 {
	v, _ := u[key].(float32)
	return v
}

func vec2U(u gpu.Uniforms, key string) [2]float32 {
	v, _ := u[key].([2]float32)
	return v
}

func vec3U(u gpu.Uniforms, key string) [3]float32 {
	v, _ := u[key].([3]float32)
	return v
}

func vec4U(u gpu.Uniforms, key string) [4]float32 {
	v, _ := u[key].([4]float32)
	return v
}

func boolU(u gpu.Uniforms, key string) bool {
	v, _ := u[key].(bool)
	return v
}
