package gpu

// QuadVertices is the shared full-screen-quad vertex buffer (position.xy,
// uv.xy) of a single full-screen blit. Neither backend reads it: the
// software kernels iterate over texels directly, and the wgpu backend's
// Blit delegates to them.
var QuadVertices = [4][4]float32{
	{-1, -1, 0, 0},
	{1, -1, 1, 0},
	{1, 1, 1, 1},
	{-1, 1, 0, 1},
}

// QuadIndices is the shared index buffer for QuadVertices, two triangles
// winding counter-clockwise.
var QuadIndices = [6]uint16{0, 1, 2, 0, 2, 3}
