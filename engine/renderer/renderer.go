package renderer

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	ctx     Context
	profile capability.Profile
	theme   theme.Source

	sink    shader.DiagnosticSink
	logger  *zap.Logger
	metrics *metrics.Collectors

	program *shader.Program
	quad    BufferHandle
	surface Surface
}

// Renderer draws the backdrop into a rendering context.
//
// It owns the shader program and the quad buffer built on Setup, keeps the backing store sized
// to the viewport on Resize, and draws one frame per Render call.
// A Renderer is bound to one Context for its whole life; Dispose loses that context.
type Renderer interface {
	// Setup builds the shader program for the profile's tier and uploads the quad.
	// Shader failures are reported to the diagnostic sink and leave the program unlinked.
	//
	// Returns:
	//   - error: ErrNoContext if the context was already lost
	Setup() error

	// Resize sizes the backing store for a viewport. The context viewport is only
	// reconfigured when the computed size differs from the current one.
	//
	// Parameters:
	//   - viewportWidth: viewport width in logical pixels
	//   - viewportHeight: viewport height in logical pixels
	//   - dpr: the device pixel ratio
	//
	// Returns:
	//   - Surface: the backing store size
	Resize(viewportWidth, viewportHeight int, dpr float64) Surface

	// Render draws one frame.
	//
	// Parameters:
	//   - timestampMs: the frame time in milliseconds since the loop started
	Render(timestampMs float64)

	// Dispose releases the program and the quad buffer, then loses the context.
	Dispose()

	// Surface returns the current backing store size.
	//
	// Returns:
	//   - Surface: the backing store size, empty before the first Resize
	Surface() Surface

	// Program returns the program built by Setup.
	//
	// Returns:
	//   - *shader.Program: the program, or nil before Setup and after Dispose
	Program() *shader.Program

	// Profile returns the capability profile the renderer was built for.
	//
	// Returns:
	//   - capability.Profile: the profile
	Profile() capability.Profile

	// Context returns the rendering context.
	//
	// Returns:
	//   - Context: the context
	Context() Context
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into ctx.
// Defaults to the standard tier, a black background and discarded diagnostics.
//
// Parameters:
//   - ctx: the rendering context
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer, not yet set up
func NewRenderer(ctx Context, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:      &sync.Mutex{},
		ctx:     ctx,
		profile: capability.ProfileFor(capability.TierStandard),
		theme:   theme.Static(theme.DefaultBackground),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Setup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil || r.ctx.IsLost() {
		return fmt.Errorf("failed to set up renderer: %w", ErrNoContext)
	}

	r.program = shader.BuildTier(r.ctx, r.profile.Tier(), shader.MultiSink(r.sink, r.metricsSink()))

	r.quad = r.ctx.CreateBuffer()
	r.ctx.BufferData(r.quad, QuadVertices[:])
	if r.program.Position.Valid() {
		r.ctx.VertexLayout(r.quad, r.program.Position, QuadComponents)
	}

	r.logger.Info("renderer set up",
		zap.Stringer("tier", r.profile.Tier()),
		zap.Int("steps", r.profile.StepBudget()),
		zap.Bool("linked", r.program.Linked()),
	)
	return nil
}

func (r *renderer) metricsSink() shader.DiagnosticSink {
	if r.metrics == nil {
		return nil
	}
	return shader.DiagnosticSinkFunc(func(d shader.Diagnostic) {
		r.metrics.Diagnostic(d.Kind.String())
	})
}

func (r *renderer) Resize(viewportWidth, viewportHeight int, dpr float64) Surface {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := BackingSize(viewportWidth, viewportHeight, dpr, r.profile)
	if s == r.surface {
		return s
	}
	r.surface = s

	if r.ctx != nil && !r.ctx.IsLost() {
		r.ctx.Viewport(0, 0, s.Width, s.Height)
	}
	r.metrics.Resized(s.Width, s.Height)
	r.logger.Debug("surface resized",
		zap.Int("viewport_width", viewportWidth),
		zap.Int("viewport_height", viewportHeight),
		zap.Float64("dpr", dpr),
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
	)
	return s
}

func (r *renderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil || r.ctx.IsLost() {
		r.program, r.quad, r.surface = nil, 0, Surface{}
		return
	}
	if r.program != nil {
		r.program.Release(r.ctx)
		r.program = nil
	}
	if r.quad != 0 {
		r.ctx.DeleteBuffer(r.quad)
		r.quad = 0
	}
	r.ctx.LoseContext()
	r.surface = Surface{}
	r.logger.Info("renderer disposed")
}

func (r *renderer) Surface() Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface
}

func (r *renderer) Program() *shader.Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.program
}

func (r *renderer) Profile() capability.Profile {
	return r.profile
}

func (r *renderer) Context() Context {
	return r.ctx
}
