//go:build js && wasm

package renderer

import (
	"fmt"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
)

// webglConsts caches the WebGL2 enum values read from the context.
type webglConsts struct {
	vertexShader   int
	fragmentShader int
	compileStatus  int
	linkStatus     int
	arrayBuffer    int
	staticDraw     int
	floatType      int
	colorBufferBit int
	triangleStrip  int
}

// webglContext drives a canvas WebGL2 context. The canvas element is the backing store,
// so Viewport resizes it and the browser scales it to its CSS box.
type webglContext struct {
	canvas js.Value
	gl     js.Value
	consts webglConsts
	logger *zap.Logger

	// replaceCanvas swaps a fresh canvas into the page when the current one cannot be restored.
	replaceCanvas func() js.Value
	listeners     []canvasListener

	// objects maps handles to the JS objects WebGL returns.
	next    uint32
	objects map[uint32]js.Value

	// lost mirrors the context state, kept current by the canvas loss events.
	lost bool

	// browserRestored is set when the browser restored the context after a loss it caused.
	browserRestored bool
}

type canvasListener struct {
	event string
	fn    js.Func
}

var _ Context = &webglContext{}

// newWebGLContext creates a WebGL2 context on canvas. The context may already be lost when a
// previous context on the canvas was lost; Restore recovers it.
//
// Parameters:
//   - canvas: the HTMLCanvasElement
//   - replaceCanvas: returns a fresh canvas that took the old one's place in the page
//   - logger: the logger
//
// Returns:
//   - *webglContext: the context
//   - error: ErrNoContext if the browser does not provide WebGL2
func newWebGLContext(canvas js.Value, replaceCanvas func() js.Value, logger *zap.Logger) (*webglContext, error) {
	c := &webglContext{
		logger:        logger,
		replaceCanvas: replaceCanvas,
		objects:       make(map[uint32]js.Value),
	}
	if err := c.attach(canvas); err != nil {
		return nil, err
	}
	return c, nil
}

// attach binds the context of canvas and subscribes to its loss events.
func (c *webglContext) attach(canvas js.Value) error {
	if canvas.IsUndefined() || canvas.IsNull() {
		return fmt.Errorf("%w: no canvas", ErrNoContext)
	}
	gl := canvas.Call("getContext", "webgl2")
	if gl.IsUndefined() || gl.IsNull() {
		return fmt.Errorf("%w: webgl2 is not supported", ErrNoContext)
	}

	c.canvas, c.gl = canvas, gl
	c.consts = webglConsts{
		vertexShader:   gl.Get("VERTEX_SHADER").Int(),
		fragmentShader: gl.Get("FRAGMENT_SHADER").Int(),
		compileStatus:  gl.Get("COMPILE_STATUS").Int(),
		linkStatus:     gl.Get("LINK_STATUS").Int(),
		arrayBuffer:    gl.Get("ARRAY_BUFFER").Int(),
		staticDraw:     gl.Get("STATIC_DRAW").Int(),
		floatType:      gl.Get("FLOAT").Int(),
		colorBufferBit: gl.Get("COLOR_BUFFER_BIT").Int(),
		triangleStrip:  gl.Get("TRIANGLE_STRIP").Int(),
	}
	c.lost = gl.Call("isContextLost").Bool()
	c.browserRestored = false

	// Cancelling the loss event allows the browser to restore the context later.
	c.listen("webglcontextlost", func(event js.Value) {
		event.Call("preventDefault")
		if !c.lost {
			c.logger.Warn("webgl context lost")
		}
		c.lost = true
		clear(c.objects)
	})
	c.listen("webglcontextrestored", func(js.Value) {
		c.browserRestored = true
	})
	return nil
}

func (c *webglContext) listen(event string, fn func(event js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	c.canvas.Call("addEventListener", event, f)
	c.listeners = append(c.listeners, canvasListener{event: event, fn: f})
}

// detach removes the loss listeners from the current canvas.
func (c *webglContext) detach() {
	for _, l := range c.listeners {
		c.canvas.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	c.listeners = nil
}

func (c *webglContext) store(v js.Value) uint32 {
	if v.IsNull() || v.IsUndefined() {
		return 0
	}
	c.next++
	c.objects[c.next] = v
	return c.next
}

func (c *webglContext) object(h uint32) js.Value {
	if v, ok := c.objects[h]; ok {
		return v
	}
	return js.Null()
}

func (c *webglContext) usable() bool {
	return !c.lost
}

func (c *webglContext) Dialect() shader.Dialect {
	return shader.DialectGLSLES300
}

func (c *webglContext) CreateShader(t shader.ShaderType) shader.ShaderHandle {
	if !c.usable() {
		return 0
	}
	kind := c.consts.vertexShader
	if t == shader.ShaderTypeFragment {
		kind = c.consts.fragmentShader
	}
	return shader.ShaderHandle(c.store(c.gl.Call("createShader", kind)))
}

func (c *webglContext) ShaderSource(s shader.ShaderHandle, source string) {
	if c.usable() {
		c.gl.Call("shaderSource", c.object(uint32(s)), source)
	}
}

func (c *webglContext) CompileShader(s shader.ShaderHandle) {
	if c.usable() {
		c.gl.Call("compileShader", c.object(uint32(s)))
	}
}

func (c *webglContext) ShaderCompiled(s shader.ShaderHandle) bool {
	if !c.usable() {
		return false
	}
	return c.gl.Call("getShaderParameter", c.object(uint32(s)), c.consts.compileStatus).Bool()
}

func (c *webglContext) ShaderInfoLog(s shader.ShaderHandle) string {
	if !c.usable() {
		return ""
	}
	v := c.gl.Call("getShaderInfoLog", c.object(uint32(s)))
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (c *webglContext) DeleteShader(s shader.ShaderHandle) {
	v, ok := c.objects[uint32(s)]
	if !ok {
		return
	}
	if c.usable() {
		c.gl.Call("deleteShader", v)
	}
	delete(c.objects, uint32(s))
}

func (c *webglContext) CreateProgram() shader.ProgramHandle {
	if !c.usable() {
		return 0
	}
	return shader.ProgramHandle(c.store(c.gl.Call("createProgram")))
}

func (c *webglContext) AttachShader(p shader.ProgramHandle, s shader.ShaderHandle) {
	if c.usable() {
		c.gl.Call("attachShader", c.object(uint32(p)), c.object(uint32(s)))
	}
}

func (c *webglContext) LinkProgram(p shader.ProgramHandle) {
	if c.usable() {
		c.gl.Call("linkProgram", c.object(uint32(p)))
	}
}

func (c *webglContext) ProgramLinked(p shader.ProgramHandle) bool {
	if !c.usable() {
		return false
	}
	return c.gl.Call("getProgramParameter", c.object(uint32(p)), c.consts.linkStatus).Bool()
}

func (c *webglContext) ProgramInfoLog(p shader.ProgramHandle) string {
	if !c.usable() {
		return ""
	}
	v := c.gl.Call("getProgramInfoLog", c.object(uint32(p)))
	if v.IsNull() {
		return ""
	}
	return v.String()
}

func (c *webglContext) DeleteProgram(p shader.ProgramHandle) {
	v, ok := c.objects[uint32(p)]
	if !ok {
		return
	}
	if c.usable() {
		c.gl.Call("deleteProgram", v)
	}
	delete(c.objects, uint32(p))
}

func (c *webglContext) AttribLocation(p shader.ProgramHandle, name string) shader.Location {
	if !c.usable() {
		return shader.NoLocation
	}
	return shader.Location(c.gl.Call("getAttribLocation", c.object(uint32(p)), name).Int())
}

// UniformLocation stores the WebGLUniformLocation object and returns its handle as the location.
func (c *webglContext) UniformLocation(p shader.ProgramHandle, name string) shader.Location {
	if !c.usable() {
		return shader.NoLocation
	}
	h := c.store(c.gl.Call("getUniformLocation", c.object(uint32(p)), name))
	if h == 0 {
		return shader.NoLocation
	}
	return shader.Location(h)
}

func (c *webglContext) CreateBuffer() BufferHandle {
	if !c.usable() {
		return 0
	}
	return BufferHandle(c.store(c.gl.Call("createBuffer")))
}

func (c *webglContext) BufferData(b BufferHandle, data []float32) {
	if !c.usable() || len(data) == 0 {
		return
	}
	raw := common.SliceToBytes(data)
	bytes := js.Global().Get("Uint8Array").New(len(raw))
	js.CopyBytesToJS(bytes, raw)
	floats := js.Global().Get("Float32Array").New(bytes.Get("buffer"))

	c.gl.Call("bindBuffer", c.consts.arrayBuffer, c.object(uint32(b)))
	c.gl.Call("bufferData", c.consts.arrayBuffer, floats, c.consts.staticDraw)
}

func (c *webglContext) VertexLayout(b BufferHandle, loc shader.Location, components int) {
	if !c.usable() || !loc.Valid() {
		return
	}
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, c.object(uint32(b)))
	c.gl.Call("enableVertexAttribArray", int(loc))
	c.gl.Call("vertexAttribPointer", int(loc), components, c.consts.floatType, false, 0, 0)
}

func (c *webglContext) DeleteBuffer(b BufferHandle) {
	v, ok := c.objects[uint32(b)]
	if !ok {
		return
	}
	if c.usable() {
		c.gl.Call("deleteBuffer", v)
	}
	delete(c.objects, uint32(b))
}

// Viewport resizes the canvas drawing buffer when the size changes.
func (c *webglContext) Viewport(x, y, width, height int) {
	if c.canvas.Get("width").Int() != width {
		c.canvas.Set("width", width)
	}
	if c.canvas.Get("height").Int() != height {
		c.canvas.Set("height", height)
	}
	if c.usable() {
		c.gl.Call("viewport", x, y, width, height)
	}
}

func (c *webglContext) ClearColor(r, g, b, a float32) {
	if c.usable() {
		c.gl.Call("clearColor", r, g, b, a)
	}
}

func (c *webglContext) Clear() {
	if c.usable() {
		c.gl.Call("clear", c.consts.colorBufferBit)
	}
}

func (c *webglContext) UseProgram(p shader.ProgramHandle) {
	if c.usable() {
		c.gl.Call("useProgram", c.object(uint32(p)))
	}
}

func (c *webglContext) BindBuffer(b BufferHandle) {
	if c.usable() {
		c.gl.Call("bindBuffer", c.consts.arrayBuffer, c.object(uint32(b)))
	}
}

func (c *webglContext) Uniform2f(loc shader.Location, x, y float32) {
	if c.usable() && loc.Valid() {
		c.gl.Call("uniform2f", c.object(uint32(loc)), x, y)
	}
}

func (c *webglContext) Uniform1f(loc shader.Location, v float32) {
	if c.usable() && loc.Valid() {
		c.gl.Call("uniform1f", c.object(uint32(loc)), v)
	}
}

func (c *webglContext) DrawTriangleStrip(first, count int) {
	if c.usable() {
		c.gl.Call("drawArrays", c.consts.triangleStrip, first, count)
	}
}

// Present is a no-op: the browser composites the canvas after the frame callback returns.
func (c *webglContext) Present() {}

// LoseContext forces context loss through WEBGL_lose_context when the extension exists.
func (c *webglContext) LoseContext() {
	if c.lost {
		return
	}
	c.lost = true
	c.browserRestored = false
	clear(c.objects)
	if ext := c.gl.Call("getExtension", "WEBGL_lose_context"); !ext.IsNull() && !ext.IsUndefined() {
		ext.Call("loseContext")
	} else {
		c.logger.Warn("WEBGL_lose_context unavailable, context released to the garbage collector")
	}
}

// Restore reuses the context when the browser already restored it. Otherwise a lost canvas
// context stays lost for good, so a fresh canvas replaces it.
func (c *webglContext) Restore() error {
	if !c.lost {
		return nil
	}
	clear(c.objects)
	if c.browserRestored && !c.gl.Call("isContextLost").Bool() {
		c.browserRestored = false
		c.lost = false
		c.logger.Info("webgl context restored by the browser")
		return nil
	}
	if c.replaceCanvas == nil {
		return fmt.Errorf("%w: lost context cannot be restored", ErrNoContext)
	}

	c.detach()
	if err := c.attach(c.replaceCanvas()); err != nil {
		return err
	}
	if c.lost {
		return fmt.Errorf("%w: replacement canvas context is lost", ErrNoContext)
	}
	c.logger.Info("webgl context recreated on a new canvas")
	return nil
}

func (c *webglContext) IsLost() bool {
	return c.lost
}
