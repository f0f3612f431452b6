package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/loop"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// ErrNoWindow is returned by Init when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// ContextFactory creates the rendering context for a window. renderer.NewContext is the default.
type ContextFactory func(backend renderer.BackendType, win window.Window, options ...renderer.ContextBuilderOption) (renderer.Context, error)

// engine implements the Engine interface.
// All methods run on the window thread.
type engine struct {
	window      window.Window
	backend     renderer.BackendType
	presentMode renderer.PresentMode
	newContext  ContextFactory

	theme   theme.Source
	sink    shader.DiagnosticSink
	logger  *zap.Logger
	metrics *metrics.Collectors

	profiler         *profiler.Profiler
	profilingEnabled bool

	// profile is detected on the first Init and kept for the engine's lifetime.
	profile *capability.Profile

	renderer renderer.Renderer
	loop     loop.Controller
	resize   *debouncer

	runCtx   context.Context
	quitOnce sync.Once
}

// Engine wires capability detection, the rendering context, the frame renderer and the render loop
// to a window.
type Engine interface {
	// Init tears down any previous setup, then creates the rendering context, builds the program,
	// sizes the surface and starts the render loop. Detection runs on the first call only.
	// A lost context handed back by the factory is restored first. Safe to call again, e.g.
	// after the context was lost.
	//
	// Returns:
	//   - error: ErrNoWindow, or a wrapped renderer.ErrNoContext when no context could be created
	Init() error

	// Dispose stops the render loop and releases the renderer and its context.
	// Safe to call in any state.
	Dispose()

	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the active renderer, or nil before Init and after Dispose.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Controller returns the active render loop, or nil before Init and after Dispose.
	//
	// Returns:
	//   - loop.Controller: the loop controller
	Controller() loop.Controller

	// Profile returns the detected profile. Before the first Init it is the standard profile.
	//
	// Returns:
	//   - capability.Profile: the profile
	Profile() capability.Profile

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Run runs the window message loop until the window closes or ctx is cancelled,
	// then disposes the engine.
	//
	// Parameters:
	//   - ctx: cancelling it quits the engine from the window thread
	Run(ctx context.Context)

	// Quit disposes the engine and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// The engine registers its resize, visibility and update callbacks on the window.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		backend:     renderer.BackendTypeGL,
		presentMode: renderer.PresentModeVSync,
		newContext:  renderer.NewContext,
		theme:       theme.Static(theme.DefaultBackground),
		logger:      zap.NewNop(),
	}

	for _, opt := range options {
		opt(e)
	}

	e.profiler = profiler.NewProfiler(e.logger)
	e.resize = newDebouncer(e.Profile().ResizeDebounce())

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.resize.trigger()
		})
		e.window.SetVisibilityCallback(func(hidden bool) {
			if e.loop != nil {
				e.loop.SetHidden(hidden)
			}
		})
		e.window.SetUpdateCallback(e.update)
	}

	return e
}

func (e *engine) Init() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.Dispose()

	if e.profile == nil {
		p := capability.NewDetector(e.window, e.logger).Detect()
		e.profile = &p
		e.resize.wait = p.ResizeDebounce()
	}
	e.resize.reset()

	ctx, err := e.newContext(e.backend, e.window,
		renderer.WithPresentMode(e.presentMode),
		renderer.WithContextLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s context: %w", e.backend, err)
	}
	// A browser hands back the same context object after a loss.
	if ctx.IsLost() {
		if err := ctx.Restore(); err != nil {
			return fmt.Errorf("failed to restore %s context: %w", e.backend, err)
		}
	}

	r := renderer.NewRenderer(ctx,
		renderer.WithProfile(*e.profile),
		renderer.WithTheme(e.theme),
		renderer.WithDiagnosticSink(e.sink),
		renderer.WithLogger(e.logger),
		renderer.WithMetrics(e.metrics),
	)
	if err := r.Setup(); err != nil {
		r.Dispose()
		return fmt.Errorf("failed to set up renderer: %w", err)
	}
	surface := r.Resize(e.window.Width(), e.window.Height(), e.window.DevicePixelRatio())

	e.renderer = r
	e.loop = loop.NewController(e.window, e.frame,
		loop.WithMemoryProbe(e.window.MemoryEstimate),
		loop.WithLowPerf(e.profile.LowPerf),
		loop.WithVisibility(e.window.Hidden),
		loop.WithReleaseHook(r.Dispose),
		loop.WithLogger(e.logger),
		loop.WithMetrics(e.metrics),
	)
	e.loop.Start()
	if e.window.Hidden() {
		e.loop.SetHidden(true)
	}

	e.logger.Info("engine initialized",
		zap.Stringer("backend", e.backend),
		zap.Stringer("tier", e.profile.Tier()),
		zap.Int("width", surface.Width),
		zap.Int("height", surface.Height),
	)
	return nil
}

func (e *engine) Dispose() {
	if e.loop != nil {
		e.loop.Dispose()
	} else if e.renderer != nil {
		e.renderer.Dispose()
	}
	e.loop = nil
	e.renderer = nil
	e.resize.reset()
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Controller() loop.Controller {
	return e.loop
}

func (e *engine) Profile() capability.Profile {
	if e.profile == nil {
		return capability.ProfileFor(capability.TierStandard)
	}
	return *e.profile
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run(ctx context.Context) {
	e.runCtx = ctx
	e.window.ProcessMessages()
	e.Dispose()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.Dispose()
		if e.window == nil {
			return
		}
		if err := e.window.Close(); err != nil {
			e.logger.Warn("failed to close window", zap.Error(err))
		}
	})
}

// update runs once per message loop iteration on the window thread.
func (e *engine) update() {
	if e.runCtx != nil && e.runCtx.Err() != nil {
		e.Quit()
		return
	}
	if e.renderer != nil && e.renderer.Context().IsLost() {
		e.logger.Warn("rendering context lost, reinitializing")
		if err := e.Init(); err != nil {
			e.logger.Error("failed to reinitialize after context loss", zap.Error(err))
		}
		return
	}
	if e.resize.due() && e.renderer != nil {
		s := e.renderer.Resize(e.window.Width(), e.window.Height(), e.window.DevicePixelRatio())
		e.logger.Debug("surface resized", zap.Int("width", s.Width), zap.Int("height", s.Height))
	}
}

// frame draws one frame for the loop controller.
func (e *engine) frame(timestampMs float64) {
	e.renderer.Render(timestampMs)
	if e.profilingEnabled {
		e.profiler.Tick()
	}
}
