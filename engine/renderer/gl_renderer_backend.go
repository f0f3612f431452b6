//go:build !js

package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
)

// glHost is the part of a desktop window the OpenGL backend presents through.
type glHost interface {
	MakeContextCurrent()
	SwapBuffers()
	FramebufferSize() (int, int)
}

// glContext draws into an offscreen framebuffer sized to the backing store and blits it to the
// window's default framebuffer on Present, so a capped backing store is upscaled like a canvas.
type glContext struct {
	host   glHost
	logger *zap.Logger

	vao     uint32
	fbo     uint32
	texture uint32
	width   int
	height  int

	shaders  map[shader.ShaderHandle]struct{}
	programs map[shader.ProgramHandle]struct{}
	buffers  map[BufferHandle]struct{}

	lost bool
}

var _ Context = &glContext{}

// newGLContext makes the host's context current and loads the OpenGL 3.3 core entry points.
//
// Parameters:
//   - host: the window owning an OpenGL context
//   - logger: the logger
//
// Returns:
//   - *glContext: the context
//   - error: ErrNoContext wrapped with the cause if the entry points cannot be loaded
func newGLContext(host glHost, logger *zap.Logger) (*glContext, error) {
	host.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	logger.Info("opengl context created",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	c := &glContext{
		host:     host,
		logger:   logger,
		shaders:  make(map[shader.ShaderHandle]struct{}),
		programs: make(map[shader.ProgramHandle]struct{}),
		buffers:  make(map[BufferHandle]struct{}),
	}
	c.allocate()
	return c, nil
}

// allocate creates the vertex array and the offscreen target. The texture gets storage on the
// first Viewport.
func (c *glContext) allocate() {
	gl.GenVertexArrays(1, &c.vao)
	gl.GenFramebuffers(1, &c.fbo)
	gl.GenTextures(1, &c.texture)
	c.width, c.height = 0, 0
}

func (c *glContext) Dialect() shader.Dialect {
	return shader.DialectGLSL330
}

func (c *glContext) CreateShader(t shader.ShaderType) shader.ShaderHandle {
	if c.lost {
		return 0
	}
	kind := uint32(gl.VERTEX_SHADER)
	if t == shader.ShaderTypeFragment {
		kind = gl.FRAGMENT_SHADER
	}
	s := shader.ShaderHandle(gl.CreateShader(kind))
	c.shaders[s] = struct{}{}
	return s
}

func (c *glContext) ShaderSource(s shader.ShaderHandle, source string) {
	if c.lost {
		return
	}
	csrc, free := gl.Strs(source)
	clen := int32(len(source))
	gl.ShaderSource(uint32(s), 1, csrc, &clen)
	free()
}

func (c *glContext) CompileShader(s shader.ShaderHandle) {
	if c.lost {
		return
	}
	gl.CompileShader(uint32(s))
}

func (c *glContext) ShaderCompiled(s shader.ShaderHandle) bool {
	if c.lost {
		return false
	}
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (c *glContext) ShaderInfoLog(s shader.ShaderHandle) string {
	if c.lost {
		return ""
	}
	return infoLog(uint32(s), gl.GetShaderiv, gl.GetShaderInfoLog)
}

// infoLog reads a compile or link log through the matching query pair.
func infoLog(name uint32, iv func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var size int32
	iv(name, gl.INFO_LOG_LENGTH, &size)
	if size <= 0 {
		return ""
	}
	buf := make([]byte, size)
	var length int32
	read(name, size, &length, &buf[0])
	return strings.TrimRight(string(buf[:length]), "\r\n\x00")
}

func (c *glContext) DeleteShader(s shader.ShaderHandle) {
	if _, ok := c.shaders[s]; !ok || c.lost {
		return
	}
	gl.DeleteShader(uint32(s))
	delete(c.shaders, s)
}

func (c *glContext) CreateProgram() shader.ProgramHandle {
	if c.lost {
		return 0
	}
	p := shader.ProgramHandle(gl.CreateProgram())
	c.programs[p] = struct{}{}
	return p
}

func (c *glContext) AttachShader(p shader.ProgramHandle, s shader.ShaderHandle) {
	if c.lost {
		return
	}
	gl.AttachShader(uint32(p), uint32(s))
}

func (c *glContext) LinkProgram(p shader.ProgramHandle) {
	if c.lost {
		return
	}
	gl.LinkProgram(uint32(p))
}

func (c *glContext) ProgramLinked(p shader.ProgramHandle) bool {
	if c.lost {
		return false
	}
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (c *glContext) ProgramInfoLog(p shader.ProgramHandle) string {
	if c.lost {
		return ""
	}
	return infoLog(uint32(p), gl.GetProgramiv, gl.GetProgramInfoLog)
}

func (c *glContext) DeleteProgram(p shader.ProgramHandle) {
	if _, ok := c.programs[p]; !ok || c.lost {
		return
	}
	gl.DeleteProgram(uint32(p))
	delete(c.programs, p)
}

func (c *glContext) AttribLocation(p shader.ProgramHandle, name string) shader.Location {
	if c.lost {
		return shader.NoLocation
	}
	return shader.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *glContext) UniformLocation(p shader.ProgramHandle, name string) shader.Location {
	if c.lost {
		return shader.NoLocation
	}
	return shader.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (c *glContext) CreateBuffer() BufferHandle {
	if c.lost {
		return 0
	}
	var name uint32
	gl.GenBuffers(1, &name)
	c.buffers[BufferHandle(name)] = struct{}{}
	return BufferHandle(name)
}

func (c *glContext) BufferData(b BufferHandle, data []float32) {
	if c.lost || len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (c *glContext) VertexLayout(b BufferHandle, loc shader.Location, components int) {
	if c.lost || !loc.Valid() {
		return
	}
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(components), gl.FLOAT, false, 0, 0)
}

func (c *glContext) DeleteBuffer(b BufferHandle) {
	if _, ok := c.buffers[b]; !ok || c.lost {
		return
	}
	name := uint32(b)
	gl.DeleteBuffers(1, &name)
	delete(c.buffers, b)
}

// Viewport reallocates the offscreen color texture when the size changes.
func (c *glContext) Viewport(x, y, width, height int) {
	if c.lost || width <= 0 || height <= 0 {
		return
	}
	if width != c.width || height != c.height {
		gl.BindTexture(gl.TEXTURE_2D, c.texture)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

		gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, c.texture, 0)
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			c.logger.Error("offscreen framebuffer incomplete", zap.Uint32("status", status))
		}
		c.width, c.height = width, height
	}
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	if c.lost {
		return
	}
	gl.ClearColor(r, g, b, a)
}

func (c *glContext) Clear() {
	if c.lost {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (c *glContext) UseProgram(p shader.ProgramHandle) {
	if c.lost {
		return
	}
	gl.UseProgram(uint32(p))
}

func (c *glContext) BindBuffer(b BufferHandle) {
	if c.lost {
		return
	}
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
}

func (c *glContext) Uniform2f(loc shader.Location, x, y float32) {
	if c.lost {
		return
	}
	gl.Uniform2f(int32(loc), x, y)
}

func (c *glContext) Uniform1f(loc shader.Location, v float32) {
	if c.lost {
		return
	}
	gl.Uniform1f(int32(loc), v)
}

func (c *glContext) DrawTriangleStrip(first, count int) {
	if c.lost {
		return
	}
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, int32(first), int32(count))
}

// Present scales the offscreen image onto the default framebuffer and swaps.
func (c *glContext) Present() {
	if c.lost || c.width == 0 {
		return
	}
	fbWidth, fbHeight := c.host.FramebufferSize()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, c.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(
		0, 0, int32(c.width), int32(c.height),
		0, 0, int32(fbWidth), int32(fbHeight),
		gl.COLOR_BUFFER_BIT, gl.LINEAR,
	)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	c.host.SwapBuffers()
}

// LoseContext deletes every object still owned by the context. The GL context itself lives
// as long as the window.
func (c *glContext) LoseContext() {
	if c.lost {
		return
	}
	for p := range c.programs {
		gl.DeleteProgram(uint32(p))
	}
	for s := range c.shaders {
		gl.DeleteShader(uint32(s))
	}
	for b := range c.buffers {
		name := uint32(b)
		gl.DeleteBuffers(1, &name)
	}
	clear(c.programs)
	clear(c.shaders)
	clear(c.buffers)

	gl.DeleteFramebuffers(1, &c.fbo)
	gl.DeleteTextures(1, &c.texture)
	gl.DeleteVertexArrays(1, &c.vao)
	c.width, c.height = 0, 0
	c.lost = true
}

func (c *glContext) Restore() error {
	if !c.lost {
		return nil
	}
	c.host.MakeContextCurrent()
	c.allocate()
	c.lost = false
	c.logger.Info("opengl context restored")
	return nil
}

func (c *glContext) IsLost() bool {
	return c.lost
}
