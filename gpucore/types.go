package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// RenderPipelineID is an opaque handle to a render pipeline (vertex+fragment).
type RenderPipelineID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// SamplerID is an opaque handle to a texture sampler.
type SamplerID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading.
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 2

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex BufferUsage = 1 << 4

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 6

	// BufferUsageStorage indicates the buffer can be used as a storage buffer.
	BufferUsageStorage BufferUsage = 1 << 7
)

// TextureFormat specifies the format of texture data.
//
// The fluid simulator probes the 16-bit float formats at startup, per field
// width, from the narrowest layout that fits to RGBA16Float: see
// [FallbackChain]. Simulation state never uses the 8-bit formats.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA, normalized unsigned integer in sRGB color space.
	TextureFormatRGBA8UnormSRGB

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatR8Unorm is 8-bit red channel only, normalized unsigned integer.
	TextureFormatR8Unorm

	// TextureFormatR16Float is a 16-bit floating point red channel.
	// Narrowest color-renderable format probed for single-component fields
	// (pressure, divergence, curl).
	TextureFormatR16Float

	// TextureFormatRG16Float is a 16-bit floating point two-component format,
	// used for the velocity field.
	TextureFormatRG16Float

	// TextureFormatRGBA16Float is a 16-bit floating point four-component
	// format, the preferred format for the dye field.
	TextureFormatRGBA16Float

	// TextureFormatR32Float is 32-bit red channel only, floating point.
	TextureFormatR32Float

	// TextureFormatRG32Float is 32-bit RG, floating point.
	TextureFormatRG32Float

	// TextureFormatRGBA32Float is 32-bit RGBA, floating point.
	TextureFormatRGBA32Float
)

// String returns a human-readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	case TextureFormatRGBA8UnormSRGB:
		return "RGBA8UnormSRGB"
	case TextureFormatBGRA8Unorm:
		return "BGRA8Unorm"
	case TextureFormatR8Unorm:
		return "R8Unorm"
	case TextureFormatR16Float:
		return "R16Float"
	case TextureFormatRG16Float:
		return "RG16Float"
	case TextureFormatRGBA16Float:
		return "RGBA16Float"
	case TextureFormatR32Float:
		return "R32Float"
	case TextureFormatRG32Float:
		return "RG32Float"
	case TextureFormatRGBA32Float:
		return "RGBA32Float"
	default:
		return "Unknown"
	}
}

// NumComponents returns the number of color channels stored per texel.
func (f TextureFormat) NumComponents() int {
	switch f {
	case TextureFormatR8Unorm, TextureFormatR16Float, TextureFormatR32Float:
		return 1
	case TextureFormatRG16Float, TextureFormatRG32Float:
		return 2
	default:
		return 4
	}
}

// FallbackChain returns the ordered list of formats the GPU resource layer
// probes, from the narrowest to the widest channel layout that can hold a
// field with the given channel count. Capability probing walks this slice and picks the first format
// the device reports as color-renderable.
func FallbackChain(numComponents int) []TextureFormat {
	switch numComponents {
	case 1:
		return []TextureFormat{TextureFormatR16Float, TextureFormatRG16Float, TextureFormatRGBA16Float}
	case 2:
		return []TextureFormat{TextureFormatRG16Float, TextureFormatRGBA16Float}
	default:
		return []TextureFormat{TextureFormatRGBA16Float}
	}
}

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

// Texture usage flags.
const (
	// TextureUsageCopySrc indicates the texture can be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << 0

	// TextureUsageCopyDst indicates the texture can be used as a copy destination.
	TextureUsageCopyDst TextureUsage = 1 << 1

	// TextureUsageTextureBinding indicates the texture can be bound as a sampled texture.
	TextureUsageTextureBinding TextureUsage = 1 << 2

	// TextureUsageStorageBinding indicates the texture can be bound as a storage texture.
	TextureUsageStorageBinding TextureUsage = 1 << 3

	// TextureUsageRenderAttachment indicates the texture can be used as a render target.
	TextureUsageRenderAttachment TextureUsage = 1 << 4
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeSampler is a texture sampler binding.
	BindingTypeSampler

	// BindingTypeSampledTexture is a sampled texture binding.
	BindingTypeSampledTexture

	// BindingTypeStorageTexture is a storage texture binding.
	BindingTypeStorageTexture
)

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout.
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Type is the type of resource bound at this index.
	Type BindingType

	// MinBindingSize is the minimum buffer size for buffer bindings.
	// Set to 0 for non-buffer bindings.
	MinBindingSize uint64
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind (for buffer bindings).
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind.
	// Use 0 to bind the entire buffer from offset.
	Size uint64

	// Texture is the texture to bind (for texture bindings).
	Texture TextureID

	// Sampler is the sampler to bind (for sampler bindings).
	Sampler SamplerID
}

// BindGroupDesc describes a bind group.
type BindGroupDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the bind group layout.
	Layout BindGroupLayoutID

	// Entries are the resource bindings.
	Entries []BindGroupEntry
}

// RenderPipelineDesc describes a render pipeline assembled from a vertex
// and fragment shader pair plus a set of preprocessor keywords. Keyword
// sets are what the display compositor varies at runtime (SHADING, BLOOM,
// SUNRAYS); every other simulation pass uses a fixed, keyword-less pipeline.
type RenderPipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// VertexShader is the compiled vertex shader module.
	VertexShader ShaderModuleID

	// FragmentShader is the compiled fragment shader module.
	FragmentShader ShaderModuleID

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// Keywords are the preprocessor defines baked into FragmentShader.
	Keywords []string
}
