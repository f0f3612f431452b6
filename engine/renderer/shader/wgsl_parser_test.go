package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
)

func TestReflectVertexStage(t *testing.T) {
	r := ReflectWGSL(Sources(DialectWGSL, capability.TierStandard).Vertex, ShaderTypeVertex)

	assert.Equal(t, "vs_main", r.EntryPoint)
	require.NotNil(t, r.Vertex)
	assert.Equal(t, uint64(8), r.Vertex.Stride)
	require.Len(t, r.Vertex.Inputs, 1)
	assert.Equal(t, VertexInput{Location: 0, Name: "position", Components: 2, Offset: 0}, r.Vertex.Inputs[0])
	assert.Empty(t, r.Uniforms)
}

func TestReflectFragmentStage(t *testing.T) {
	r := ReflectWGSL(Sources(DialectWGSL, capability.TierLow).Fragment, ShaderTypeFragment)

	assert.Equal(t, "fs_main", r.EntryPoint)
	assert.Nil(t, r.Vertex)
	require.Len(t, r.Uniforms, 1)

	u := r.Uniforms[0]
	assert.Equal(t, uint32(0), u.Group)
	assert.Equal(t, uint32(0), u.Binding)
	assert.Equal(t, "Uniforms", u.TypeName)
	assert.Equal(t, uint64(16), u.Size)

	_, res, ok := r.Offset(UniformResolution)
	require.True(t, ok)
	assert.Equal(t, uint64(0), res)

	_, tm, ok := r.Offset(UniformTime)
	require.True(t, ok)
	assert.Equal(t, uint64(8), tm)

	_, _, ok = r.Offset("missing")
	assert.False(t, ok)
}

func TestReflectAlignment(t *testing.T) {
	src := `
struct Block {
    a: f32,
    b: vec3<f32>, // padded to 16
    c: vec2<f32>,
}
@group(1) @binding(2) var<uniform> block: Block;
`
	r := ReflectWGSL(src, ShaderTypeFragment)
	require.Len(t, r.Uniforms, 1)
	u := r.Uniforms[0]
	assert.Equal(t, uint32(1), u.Group)
	assert.Equal(t, uint32(2), u.Binding)
	assert.Equal(t, map[string]uint64{"a": 0, "b": 16, "c": 32}, u.Offsets)
	assert.Equal(t, uint64(48), u.Size)
}

func TestReflectSkipsOutputStructs(t *testing.T) {
	src := `
struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
}
@vertex
fn main() -> VertexOutput {}
`
	r := ReflectWGSL(src, ShaderTypeVertex)
	assert.Equal(t, "main", r.EntryPoint)
	assert.Nil(t, r.Vertex)
}
