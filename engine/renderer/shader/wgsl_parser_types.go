package shader

// wgslTypeLayout holds the byte size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// VertexInput is one @location member of a vertex input struct.
type VertexInput struct {
	Location   uint32
	Name       string
	Components int
	Offset     uint64
}

// VertexLayout is the interleaved layout of a single vertex buffer.
type VertexLayout struct {
	Inputs []VertexInput
	Stride uint64
}

// UniformBinding is a var<uniform> declaration and the member offsets of its struct.
type UniformBinding struct {
	Group    uint32
	Binding  uint32
	Var      string
	TypeName string
	Size     uint64
	Offsets  map[string]uint64
}

// Reflection is what a WGSL stage declares about its inputs.
type Reflection struct {
	EntryPoint string

	// Vertex is nil when the stage has no vertex input struct.
	Vertex *VertexLayout

	Uniforms []UniformBinding
}

// Offset finds the byte offset of a uniform struct member across all uniform bindings.
//
// Parameters:
//   - member: the struct member name
//
// Returns:
//   - UniformBinding: the binding holding the member
//   - uint64: the member's byte offset within the binding
//   - bool: false if no binding has the member
func (r Reflection) Offset(member string) (UniformBinding, uint64, bool) {
	for _, u := range r.Uniforms {
		if off, ok := u.Offsets[member]; ok {
			return u, off, true
		}
	}
	return UniformBinding{}, 0, false
}
