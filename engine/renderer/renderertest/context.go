// Package renderertest provides a recording renderer.Context for tests.
package renderertest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
)

// Context is a renderer.Context that records state and draw calls as strings.
// Handles are allocated from one counter starting at 1, in call order.
type Context struct {
	next uint32

	// Calls holds the recorded state and draw calls.
	Calls []string

	// FailLink makes every link fail with the log "link error".
	FailLink bool

	// Lost is set by LoseContext and cleared by Restore.
	Lost bool

	// FailRestore makes Restore fail, leaving the context lost.
	FailRestore bool

	// Restores counts the Restore calls that brought the context back.
	Restores int

	// Deleted holds every deleted shader, program and buffer handle.
	Deleted map[uint32]bool

	// Data holds the last upload of each buffer.
	Data map[renderer.BufferHandle][]float32

	compiled map[shader.ShaderHandle]bool
}

var _ renderer.Context = &Context{}

// NewContext creates an empty recording context.
func NewContext() *Context {
	return &Context{
		Deleted:  map[uint32]bool{},
		Data:     map[renderer.BufferHandle][]float32{},
		compiled: map[shader.ShaderHandle]bool{},
	}
}

func (c *Context) record(format string, args ...any) {
	c.Calls = append(c.Calls, fmt.Sprintf(format, args...))
}

// Reset forgets the recorded calls.
func (c *Context) Reset() { c.Calls = nil }

func (c *Context) Dialect() shader.Dialect { return shader.DialectGLSL330 }

func (c *Context) CreateShader(shader.ShaderType) shader.ShaderHandle {
	c.next++
	return shader.ShaderHandle(c.next)
}

func (c *Context) ShaderSource(shader.ShaderHandle, string) {}

func (c *Context) CompileShader(s shader.ShaderHandle) { c.compiled[s] = true }

func (c *Context) ShaderCompiled(s shader.ShaderHandle) bool { return c.compiled[s] }

func (c *Context) ShaderInfoLog(shader.ShaderHandle) string { return "" }

func (c *Context) DeleteShader(s shader.ShaderHandle) { c.Deleted[uint32(s)] = true }

func (c *Context) CreateProgram() shader.ProgramHandle {
	c.next++
	return shader.ProgramHandle(c.next)
}

func (c *Context) AttachShader(shader.ProgramHandle, shader.ShaderHandle) {}

func (c *Context) LinkProgram(shader.ProgramHandle) {}

func (c *Context) ProgramLinked(shader.ProgramHandle) bool { return !c.FailLink }

func (c *Context) ProgramInfoLog(shader.ProgramHandle) string {
	if c.FailLink {
		return "link error"
	}
	return ""
}

func (c *Context) DeleteProgram(p shader.ProgramHandle) { c.Deleted[uint32(p)] = true }

func (c *Context) AttribLocation(_ shader.ProgramHandle, name string) shader.Location {
	if name == shader.AttribPosition {
		return 0
	}
	return shader.NoLocation
}

func (c *Context) UniformLocation(_ shader.ProgramHandle, name string) shader.Location {
	switch name {
	case shader.UniformResolution:
		return 1
	case shader.UniformTime:
		return 2
	default:
		return shader.NoLocation
	}
}

func (c *Context) CreateBuffer() renderer.BufferHandle {
	c.next++
	return renderer.BufferHandle(c.next)
}

func (c *Context) BufferData(b renderer.BufferHandle, data []float32) {
	c.Data[b] = append([]float32(nil), data...)
}

func (c *Context) VertexLayout(b renderer.BufferHandle, loc shader.Location, components int) {
	c.record("VertexLayout(%d,%d,%d)", b, loc, components)
}

func (c *Context) DeleteBuffer(b renderer.BufferHandle) { c.Deleted[uint32(b)] = true }

func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport(%d,%d,%d,%d)", x, y, width, height)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.record("ClearColor(%g,%g,%g,%g)", r, g, b, a)
}

func (c *Context) Clear() { c.record("Clear") }

func (c *Context) UseProgram(p shader.ProgramHandle) { c.record("UseProgram") }

func (c *Context) BindBuffer(b renderer.BufferHandle) { c.record("BindBuffer") }

func (c *Context) Uniform2f(loc shader.Location, x, y float32) {
	c.record("Uniform2f(%d,%g,%g)", loc, x, y)
}

func (c *Context) Uniform1f(loc shader.Location, v float32) {
	c.record("Uniform1f(%d,%g)", loc, v)
}

func (c *Context) DrawTriangleStrip(first, count int) {
	c.record("DrawTriangleStrip(%d,%d)", first, count)
}

func (c *Context) Present() { c.record("Present") }

func (c *Context) LoseContext() {
	c.record("LoseContext")
	c.Lost = true
}

// Restore clears Lost, like a browser handing the same context object back after a loss.
func (c *Context) Restore() error {
	if !c.Lost {
		return nil
	}
	if c.FailRestore {
		return fmt.Errorf("%w: restore refused", renderer.ErrNoContext)
	}
	c.record("Restore")
	c.Lost = false
	c.Restores++
	return nil
}

func (c *Context) IsLost() bool { return c.Lost }
