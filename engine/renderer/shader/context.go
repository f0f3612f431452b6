package shader

// ShaderHandle identifies a shader object owned by a Context. Zero is never a valid handle.
type ShaderHandle uint32

// ProgramHandle identifies a program object owned by a Context. Zero is never a valid handle.
type ProgramHandle uint32

// Location is a resolved attribute or uniform location.
type Location int32

// NoLocation is returned for names a program does not expose.
const NoLocation Location = -1

// Valid reports whether the location was resolved.
func (l Location) Valid() bool {
	return l >= 0
}

// Context is the slice of a rendering context needed to compile and link shader programs.
type Context interface {
	// Dialect returns the shading language the context compiles.
	//
	// Returns:
	//   - Dialect: the context's dialect
	Dialect() Dialect

	// CreateShader allocates an empty shader object for a stage.
	//
	// Parameters:
	//   - t: the pipeline stage
	//
	// Returns:
	//   - ShaderHandle: the new shader object
	CreateShader(t ShaderType) ShaderHandle

	// ShaderSource replaces the source of a shader object.
	//
	// Parameters:
	//   - s: the shader object
	//   - source: the shader source in the context's dialect
	ShaderSource(s ShaderHandle, source string)

	// CompileShader compiles the current source of a shader object.
	//
	// Parameters:
	//   - s: the shader object
	CompileShader(s ShaderHandle)

	// ShaderCompiled reports the status of the last compile.
	//
	// Parameters:
	//   - s: the shader object
	//
	// Returns:
	//   - bool: true if the last compile succeeded
	ShaderCompiled(s ShaderHandle) bool

	// ShaderInfoLog returns the compiler output of the last compile.
	//
	// Parameters:
	//   - s: the shader object
	//
	// Returns:
	//   - string: the info log, possibly empty
	ShaderInfoLog(s ShaderHandle) string

	// DeleteShader releases a shader object. Deleting an unknown handle is a no-op.
	//
	// Parameters:
	//   - s: the shader object
	DeleteShader(s ShaderHandle)

	// CreateProgram allocates an empty program object.
	//
	// Returns:
	//   - ProgramHandle: the new program object
	CreateProgram() ProgramHandle

	// AttachShader attaches a shader object to a program object.
	//
	// Parameters:
	//   - p: the program object
	//   - s: the shader object
	AttachShader(p ProgramHandle, s ShaderHandle)

	// LinkProgram links the attached stages of a program object.
	//
	// Parameters:
	//   - p: the program object
	LinkProgram(p ProgramHandle)

	// ProgramLinked reports the status of the last link.
	//
	// Parameters:
	//   - p: the program object
	//
	// Returns:
	//   - bool: true if the last link succeeded
	ProgramLinked(p ProgramHandle) bool

	// ProgramInfoLog returns the linker output of the last link.
	//
	// Parameters:
	//   - p: the program object
	//
	// Returns:
	//   - string: the info log, possibly empty
	ProgramInfoLog(p ProgramHandle) string

	// DeleteProgram releases a program object. Deleting an unknown handle is a no-op.
	//
	// Parameters:
	//   - p: the program object
	DeleteProgram(p ProgramHandle)

	// AttribLocation resolves a vertex attribute of a linked program.
	//
	// Parameters:
	//   - p: the program object
	//   - name: the attribute name
	//
	// Returns:
	//   - Location: the attribute location, or NoLocation
	AttribLocation(p ProgramHandle, name string) Location

	// UniformLocation resolves a uniform of a linked program.
	//
	// Parameters:
	//   - p: the program object
	//   - name: the uniform name
	//
	// Returns:
	//   - Location: the uniform location, or NoLocation
	UniformLocation(p ProgramHandle, name string) Location
}
