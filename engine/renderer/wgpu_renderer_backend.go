//go:build !js

package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
)

// wgpuShader is a WGSL stage. Compilation validates the source with naga before the device sees it.
type wgpuShader struct {
	stage      shader.ShaderType
	source     string
	module     *wgpu.ShaderModule
	reflection shader.Reflection
	compiled   bool
	log        string
}

// wgpuProgram is a linked render pipeline with one uniform buffer per reflected binding.
type wgpuProgram struct {
	vertex   shader.ShaderHandle
	fragment shader.ShaderHandle
	linked   bool
	log      string

	vertexLayout *shader.VertexLayout
	uniforms     []shader.UniformBinding

	pipeline    *wgpu.RenderPipeline
	layout      *wgpu.PipelineLayout
	groupLayout *wgpu.BindGroupLayout
	bindGroup   *wgpu.BindGroup

	// buffers and data are keyed by binding index within group 0.
	buffers map[uint32]*wgpu.Buffer
	data    map[uint32][]byte
	dirty   bool
}

type wgpuVertexBuffer struct {
	buffer *wgpu.Buffer
	floats int
	stride int
}

// wgpuContext emulates the shader program model on WebGPU: uniform locations are byte
// offsets into a CPU shadow of the uniform buffer, flushed before each draw.
type wgpuContext struct {
	mu     *sync.Mutex
	logger *zap.Logger

	surfaceDescriptor *wgpu.SurfaceDescriptor

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	width         int
	height        int
	viewport      [4]int

	nextHandle uint32
	shaders    map[shader.ShaderHandle]*wgpuShader
	programs   map[shader.ProgramHandle]*wgpuProgram
	buffers    map[BufferHandle]*wgpuVertexBuffer

	clear   wgpu.Color
	current shader.ProgramHandle
	bound   BufferHandle

	// Frame state between Clear and Present.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	lost bool
}

var _ Context = &wgpuContext{}

// newWGPUContext creates a WebGPU device presenting to the surface described by surfaceDescriptor.
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor from the host window
//   - mode: the present mode
//   - logger: the logger for frame acquisition failures
//
// Returns:
//   - *wgpuContext: the context
//   - error: ErrNoContext wrapped with the cause if no adapter or device is available
func newWGPUContext(surfaceDescriptor *wgpu.SurfaceDescriptor, mode PresentMode, logger *zap.Logger) (*wgpuContext, error) {
	if surfaceDescriptor == nil {
		return nil, fmt.Errorf("%w: window has no surface", ErrNoContext)
	}

	c := &wgpuContext{
		mu:                &sync.Mutex{},
		logger:            logger,
		surfaceDescriptor: surfaceDescriptor,
		shaders:           make(map[shader.ShaderHandle]*wgpuShader),
		programs:          make(map[shader.ProgramHandle]*wgpuProgram),
		buffers:           make(map[BufferHandle]*wgpuVertexBuffer),
	}
	c.setPresentMode(mode)
	if err := c.open(); err != nil {
		return nil, err
	}
	return c, nil
}

// open creates the instance, surface, adapter and device. On failure everything created so far
// is released.
func (c *wgpuContext) open() error {
	c.instance = wgpu.CreateInstance(nil)
	c.surface = c.instance.CreateSurface(c.surfaceDescriptor)

	a, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.surface,
	})
	if err != nil {
		c.release()
		return fmt.Errorf("%w: request adapter: %v", ErrNoContext, err)
	}
	c.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Backdrop Device",
	})
	if err != nil {
		c.release()
		return fmt.Errorf("%w: request device: %v", ErrNoContext, err)
	}
	c.device = d
	c.queue = d.GetQueue()

	capabilities := c.surface.GetCapabilities(c.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		c.release()
		return fmt.Errorf("%w: surface is not supported by the adapter", ErrNoContext)
	}
	c.surfaceFormat = capabilities.Formats[0]
	c.alphaMode = capabilities.AlphaModes[0]
	c.width, c.height = 0, 0
	return nil
}

func (c *wgpuContext) setPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeVSync:
		c.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		c.presentMode = wgpu.PresentModeImmediate
	}
}

func (c *wgpuContext) handle() uint32 {
	c.nextHandle++
	return c.nextHandle
}

func (c *wgpuContext) Dialect() shader.Dialect {
	return shader.DialectWGSL
}

func (c *wgpuContext) CreateShader(t shader.ShaderType) shader.ShaderHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lost {
		return 0
	}
	h := shader.ShaderHandle(c.handle())
	c.shaders[h] = &wgpuShader{stage: t}
	return h
}

func (c *wgpuContext) ShaderSource(s shader.ShaderHandle, source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sh, ok := c.shaders[s]; ok {
		sh.source = source
	}
}

// CompileShader validates the stage with naga, then creates the device shader module.
// Either failure leaves the stage uncompiled with the error as its info log.
func (c *wgpuContext) CompileShader(s shader.ShaderHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sh, ok := c.shaders[s]
	if !ok || c.lost {
		return
	}
	if sh.module != nil {
		sh.module.Release()
		sh.module = nil
	}
	sh.compiled = false

	if _, err := naga.Compile(sh.source); err != nil {
		sh.log = err.Error()
		return
	}

	module, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: sh.stage.String(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: sh.source,
		},
	})
	if err != nil {
		sh.log = err.Error()
		return
	}
	sh.module = module
	sh.reflection = shader.ReflectWGSL(sh.source, sh.stage)
	sh.compiled = true
	sh.log = ""
}

func (c *wgpuContext) ShaderCompiled(s shader.ShaderHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	sh, ok := c.shaders[s]
	return ok && sh.compiled
}

func (c *wgpuContext) ShaderInfoLog(s shader.ShaderHandle) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sh, ok := c.shaders[s]; ok {
		return sh.log
	}
	return ""
}

func (c *wgpuContext) DeleteShader(s shader.ShaderHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sh, ok := c.shaders[s]
	if !ok {
		return
	}
	if sh.module != nil {
		sh.module.Release()
	}
	delete(c.shaders, s)
}

func (c *wgpuContext) CreateProgram() shader.ProgramHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lost {
		return 0
	}
	h := shader.ProgramHandle(c.handle())
	c.programs[h] = &wgpuProgram{}
	return h
}

func (c *wgpuContext) AttachShader(p shader.ProgramHandle, s shader.ShaderHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	sh, ok := c.shaders[s]
	if !ok {
		return
	}
	switch sh.stage {
	case shader.ShaderTypeVertex:
		prog.vertex = s
	case shader.ShaderTypeFragment:
		prog.fragment = s
	}
}

// LinkProgram builds the render pipeline from the attached stages. The vertex buffer layout and
// the uniform bind group layout come from WGSL reflection of the stage sources.
func (c *wgpuContext) LinkProgram(p shader.ProgramHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prog, ok := c.programs[p]
	if !ok || c.lost {
		return
	}
	c.releaseProgram(prog)
	prog.linked = false

	if err := c.link(prog); err != nil {
		prog.log = err.Error()
		c.releaseProgram(prog)
		return
	}
	prog.linked = true
	prog.log = ""
}

func (c *wgpuContext) link(prog *wgpuProgram) error {
	vs, fs := c.shaders[prog.vertex], c.shaders[prog.fragment]
	if vs == nil || fs == nil {
		return errors.New("both vertex and fragment shaders must be attached")
	}
	if !vs.compiled || !fs.compiled {
		return errors.New("attached shaders are not compiled")
	}
	if vs.reflection.EntryPoint == "" || fs.reflection.EntryPoint == "" {
		return errors.New("missing @vertex or @fragment entry point")
	}

	prog.vertexLayout = vs.reflection.Vertex
	prog.uniforms = append(append([]shader.UniformBinding{}, vs.reflection.Uniforms...), fs.reflection.Uniforms...)
	prog.buffers = make(map[uint32]*wgpu.Buffer)
	prog.data = make(map[uint32][]byte)

	var bindGroupLayouts []*wgpu.BindGroupLayout
	if len(prog.uniforms) > 0 {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(prog.uniforms))
		groupEntries := make([]wgpu.BindGroupEntry, 0, len(prog.uniforms))
		for _, u := range prog.uniforms {
			if u.Group != 0 {
				return fmt.Errorf("uniform %q uses group %d, only group 0 is supported", u.Var, u.Group)
			}
			if _, dup := prog.buffers[u.Binding]; dup {
				continue
			}

			entry := wgpu.BindGroupLayoutEntry{
				Binding:    u.Binding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			}
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
			entry.Buffer.MinBindingSize = u.Size
			entries = append(entries, entry)

			buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: u.Var + " Uniform Buffer",
				Size:  u.Size,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return fmt.Errorf("failed to create uniform buffer %q: %w", u.Var, err)
			}
			prog.buffers[u.Binding] = buf
			prog.data[u.Binding] = make([]byte, u.Size)
			groupEntries = append(groupEntries, wgpu.BindGroupEntry{
				Binding: u.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		}

		groupLayout, err := c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   "Backdrop Uniforms",
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group layout: %w", err)
		}
		prog.groupLayout = groupLayout
		bindGroupLayouts = []*wgpu.BindGroupLayout{groupLayout}

		bindGroup, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   "Backdrop Uniforms",
			Layout:  groupLayout,
			Entries: groupEntries,
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group: %w", err)
		}
		prog.bindGroup = bindGroup
		prog.dirty = true
	}

	layout, err := c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Backdrop Pipeline Layout",
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	prog.layout = layout

	var vertexBuffers []wgpu.VertexBufferLayout
	if prog.vertexLayout != nil {
		attrs := make([]wgpu.VertexAttribute, 0, len(prog.vertexLayout.Inputs))
		for _, in := range prog.vertexLayout.Inputs {
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         vertexFormat(in.Components),
				Offset:         in.Offset,
				ShaderLocation: in.Location,
			})
		}
		vertexBuffers = []wgpu.VertexBufferLayout{{
			ArrayStride: prog.vertexLayout.Stride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		}}
	}

	created, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Backdrop Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: vs.reflection.EntryPoint,
			Buffers:    vertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs.module,
			EntryPoint: fs.reflection.EntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    c.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	prog.pipeline = created
	return nil
}

func vertexFormat(components int) wgpu.VertexFormat {
	switch components {
	case 1:
		return wgpu.VertexFormatFloat32
	case 3:
		return wgpu.VertexFormatFloat32x3
	case 4:
		return wgpu.VertexFormatFloat32x4
	default:
		return wgpu.VertexFormatFloat32x2
	}
}

func (c *wgpuContext) releaseProgram(prog *wgpuProgram) {
	if prog.pipeline != nil {
		prog.pipeline.Release()
		prog.pipeline = nil
	}
	if prog.layout != nil {
		prog.layout.Release()
		prog.layout = nil
	}
	if prog.bindGroup != nil {
		prog.bindGroup.Release()
		prog.bindGroup = nil
	}
	if prog.groupLayout != nil {
		prog.groupLayout.Release()
		prog.groupLayout = nil
	}
	for _, buf := range prog.buffers {
		buf.Release()
	}
	prog.buffers = nil
	prog.data = nil
}

func (c *wgpuContext) ProgramLinked(p shader.ProgramHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	prog, ok := c.programs[p]
	return ok && prog.linked
}

func (c *wgpuContext) ProgramInfoLog(p shader.ProgramHandle) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prog, ok := c.programs[p]; ok {
		return prog.log
	}
	return ""
}

func (c *wgpuContext) DeleteProgram(p shader.ProgramHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	c.releaseProgram(prog)
	delete(c.programs, p)
	if c.current == p {
		c.current = 0
	}
}

func (c *wgpuContext) AttribLocation(p shader.ProgramHandle, name string) shader.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	prog, ok := c.programs[p]
	if !ok || !prog.linked || prog.vertexLayout == nil {
		return shader.NoLocation
	}
	for _, in := range prog.vertexLayout.Inputs {
		if in.Name == name {
			return shader.Location(in.Location)
		}
	}
	return shader.NoLocation
}

// UniformLocation encodes the binding index in the high 16 bits and the member byte offset in the low 16.
func (c *wgpuContext) UniformLocation(p shader.ProgramHandle, name string) shader.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		return shader.NoLocation
	}
	refl := shader.Reflection{Uniforms: prog.uniforms}
	u, offset, ok := refl.Offset(name)
	if !ok {
		return shader.NoLocation
	}
	return shader.Location(u.Binding<<16 | uint32(offset))
}

func (c *wgpuContext) CreateBuffer() BufferHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lost {
		return 0
	}
	h := BufferHandle(c.handle())
	c.buffers[h] = &wgpuVertexBuffer{}
	return h
}

func (c *wgpuContext) BufferData(b BufferHandle, data []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vb, ok := c.buffers[b]
	if !ok || c.lost || len(data) == 0 {
		return
	}
	raw := common.SliceToBytes(data)
	if vb.buffer == nil || vb.floats != len(data) {
		if vb.buffer != nil {
			vb.buffer.Release()
		}
		buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Backdrop Vertex Buffer",
			Size:  uint64(len(raw)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			c.logger.Error("failed to create vertex buffer", zap.Error(err))
			vb.buffer, vb.floats = nil, 0
			return
		}
		vb.buffer = buf
		vb.floats = len(data)
	}
	c.queue.WriteBuffer(vb.buffer, 0, raw)
}

// VertexLayout records the per-vertex float count of a buffer. The pipeline's attribute formats
// come from reflection; the stride bounds the vertex count of draws.
func (c *wgpuContext) VertexLayout(b BufferHandle, _ shader.Location, components int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if vb, ok := c.buffers[b]; ok && components > 0 {
		vb.stride = components
	}
}

func (c *wgpuContext) DeleteBuffer(b BufferHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vb, ok := c.buffers[b]
	if !ok {
		return
	}
	if vb.buffer != nil {
		vb.buffer.Release()
	}
	delete(c.buffers, b)
	if c.bound == b {
		c.bound = 0
	}
}

// Viewport reconfigures the surface when the size changes.
func (c *wgpuContext) Viewport(x, y, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lost || width <= 0 || height <= 0 {
		return
	}
	c.viewport = [4]int{x, y, width, height}
	if width == c.width && height == c.height {
		return
	}
	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: c.presentMode,
		AlphaMode:   c.alphaMode,
	})
	c.width, c.height = width, height
}

func (c *wgpuContext) ClearColor(r, g, b, a float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear = wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}

// Clear acquires the swapchain texture and begins the frame's render pass with a clear load op.
func (c *wgpuContext) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lost || c.width == 0 || c.frameSurface != nil {
		return
	}

	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		c.logger.Warn("failed to acquire surface texture", zap.Error(err))
		return
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		c.logger.Warn("failed to create surface view", zap.Error(err))
		return
	}
	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		c.logger.Warn("failed to create command encoder", zap.Error(err))
		return
	}

	c.framePass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: c.clear,
		}},
	})
	c.frameEncoder = encoder
	c.frameSurface = surfaceTexture
	c.frameView = view
}

func (c *wgpuContext) UseProgram(p shader.ProgramHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = p
}

func (c *wgpuContext) BindBuffer(b BufferHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound = b
}

func (c *wgpuContext) uniform(loc shader.Location, values ...float32) {
	prog, ok := c.programs[c.current]
	if !ok || !prog.linked || !loc.Valid() {
		return
	}
	binding, offset := uint32(loc)>>16, int(uint32(loc)&0xFFFF)
	data, ok := prog.data[binding]
	if !ok || offset+4*len(values) > len(data) {
		return
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[offset+4*i:], math.Float32bits(v))
	}
	prog.dirty = true
}

func (c *wgpuContext) Uniform2f(loc shader.Location, x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uniform(loc, x, y)
}

func (c *wgpuContext) Uniform1f(loc shader.Location, v float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uniform(loc, v)
}

// DrawTriangleStrip flushes pending uniform writes, then encodes the draw into the current pass.
func (c *wgpuContext) DrawTriangleStrip(first, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.framePass == nil {
		return
	}
	prog, ok := c.programs[c.current]
	if !ok || !prog.linked {
		return
	}

	if prog.dirty {
		for binding, data := range prog.data {
			c.queue.WriteBuffer(prog.buffers[binding], 0, data)
		}
		prog.dirty = false
	}

	c.framePass.SetPipeline(prog.pipeline)
	if prog.bindGroup != nil {
		c.framePass.SetBindGroup(0, prog.bindGroup, nil)
	}
	if vb, ok := c.buffers[c.bound]; ok && vb.buffer != nil {
		c.framePass.SetVertexBuffer(0, vb.buffer, 0, wgpu.WholeSize)
		if vb.stride > 0 {
			count = min(count, vb.floats/vb.stride-first)
		}
	}
	vp := c.viewport
	c.framePass.SetViewport(float32(vp[0]), float32(vp[1]), float32(vp[2]), float32(vp[3]), 0, 1)
	if count > 0 {
		c.framePass.Draw(uint32(count), 1, uint32(first), 0)
	}
}

// Present ends the pass, submits the frame and presents the surface.
func (c *wgpuContext) Present() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frameSurface == nil {
		return
	}

	c.framePass.End()
	commandBuffer, err := c.frameEncoder.Finish(nil)
	if err == nil {
		c.queue.Submit(commandBuffer)
		commandBuffer.Release()
		c.surface.Present()
	} else {
		c.logger.Warn("failed to finish frame", zap.Error(err))
	}
	c.releaseFrame()
}

func (c *wgpuContext) releaseFrame() {
	c.framePass = nil
	if c.frameEncoder != nil {
		c.frameEncoder.Release()
		c.frameEncoder = nil
	}
	if c.frameView != nil {
		c.frameView.Release()
		c.frameView = nil
	}
	if c.frameSurface != nil {
		c.frameSurface.Release()
		c.frameSurface = nil
	}
}

func (c *wgpuContext) LoseContext() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lost {
		return
	}
	c.releaseFrame()
	for h, prog := range c.programs {
		c.releaseProgram(prog)
		delete(c.programs, h)
	}
	for h, sh := range c.shaders {
		if sh.module != nil {
			sh.module.Release()
		}
		delete(c.shaders, h)
	}
	for h, vb := range c.buffers {
		if vb.buffer != nil {
			vb.buffer.Release()
		}
		delete(c.buffers, h)
	}
	c.release()
	c.lost = true
}

func (c *wgpuContext) release() {
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}

// Restore requests a new adapter and device for the same surface.
func (c *wgpuContext) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lost {
		return nil
	}
	if err := c.open(); err != nil {
		return err
	}
	c.current, c.bound = 0, 0
	c.lost = false
	c.logger.Info("webgpu context restored")
	return nil
}

func (c *wgpuContext) IsLost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lost
}
