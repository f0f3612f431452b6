package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
)

// ErrNoContext is returned when the host cannot provide a rendering context for the requested backend.
var ErrNoContext = errors.New("no rendering context available")

// BackendType identifies the graphics API behind a Context.
type BackendType int

const (
	// BackendTypeGL selects the desktop OpenGL 3.3 core backend.
	BackendTypeGL BackendType = iota

	// BackendTypeWGPU selects the WebGPU-based backend.
	BackendTypeWGPU

	// BackendTypeWebGL selects the browser WebGL2 backend.
	BackendTypeWebGL
)

func (b BackendType) String() string {
	switch b {
	case BackendTypeGL:
		return "gl"
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeWebGL:
		return "webgl"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// BufferHandle identifies a vertex buffer owned by a Context. Zero is never a valid handle.
type BufferHandle uint32

// Context is the rendering context the backdrop draws with. It extends the shader compilation
// surface with the buffer, state and draw calls of a single full-screen pass.
//
// All calls must be made from the thread that owns the context.
type Context interface {
	shader.Context

	// CreateBuffer allocates an empty vertex buffer.
	//
	// Returns:
	//   - BufferHandle: the new buffer
	CreateBuffer() BufferHandle

	// BufferData uploads static float data to a buffer, replacing its contents.
	//
	// Parameters:
	//   - b: the buffer
	//   - data: the vertex data
	BufferData(b BufferHandle, data []float32)

	// VertexLayout describes a tightly packed float attribute read from a buffer.
	//
	// Parameters:
	//   - b: the buffer
	//   - loc: the attribute location
	//   - components: floats per vertex
	VertexLayout(b BufferHandle, loc shader.Location, components int)

	// DeleteBuffer releases a buffer. Deleting an unknown handle is a no-op.
	//
	// Parameters:
	//   - b: the buffer
	DeleteBuffer(b BufferHandle)

	// Viewport sets the drawing rectangle in device pixels. A changed size reallocates the backing store.
	//
	// Parameters:
	//   - x: left edge
	//   - y: bottom edge
	//   - width: width in device pixels
	//   - height: height in device pixels
	Viewport(x, y, width, height int)

	// ClearColor sets the color used by Clear.
	//
	// Parameters:
	//   - r, g, b, a: color components in [0, 1]
	ClearColor(r, g, b, a float32)

	// Clear starts a frame by clearing the color buffer.
	Clear()

	// UseProgram selects the program for subsequent uniform uploads and draws.
	//
	// Parameters:
	//   - p: the linked program
	UseProgram(p shader.ProgramHandle)

	// BindBuffer selects the vertex buffer for subsequent draws.
	//
	// Parameters:
	//   - b: the buffer
	BindBuffer(b BufferHandle)

	// Uniform2f uploads a vec2 uniform of the current program.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - x, y: the value
	Uniform2f(loc shader.Location, x, y float32)

	// Uniform1f uploads a float uniform of the current program.
	//
	// Parameters:
	//   - loc: the uniform location
	//   - v: the value
	Uniform1f(loc shader.Location, v float32)

	// DrawTriangleStrip draws count vertices of the bound buffer as a triangle strip.
	//
	// Parameters:
	//   - first: the first vertex
	//   - count: the number of vertices
	DrawTriangleStrip(first, count int)

	// Present finishes the frame and shows it.
	Present()

	// LoseContext releases the GPU context. Every later call except Restore is a no-op.
	LoseContext()

	// Restore brings a lost context back with no objects in it. Handles created before the loss
	// stay invalid. A context that is not lost is left untouched.
	//
	// Returns:
	//   - error: wrapping ErrNoContext when the context cannot be recreated
	Restore() error

	// IsLost reports whether LoseContext was called or the context was lost by the host.
	//
	// Returns:
	//   - bool: true once lost
	IsLost() bool
}
