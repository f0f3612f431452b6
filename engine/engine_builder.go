package engine

import (
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window the engine renders into and takes its callbacks from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBackend selects the rendering context backend. Defaults to BackendTypeGL.
//
// Parameters:
//   - backend: the backend type
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(backend renderer.BackendType) EngineBuilderOption {
	return func(e *engine) {
		e.backend = backend
	}
}

// WithPresentMode sets the present mode passed to the rendering context.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPresentMode(mode renderer.PresentMode) EngineBuilderOption {
	return func(e *engine) {
		e.presentMode = mode
	}
}

// WithContextFactory replaces the function creating rendering contexts.
//
// Parameters:
//   - factory: the context factory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContextFactory(factory ContextFactory) EngineBuilderOption {
	return func(e *engine) {
		if factory != nil {
			e.newContext = factory
		}
	}
}

// WithTheme sets the background color source read every frame.
//
// Parameters:
//   - source: the theme source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTheme(source theme.Source) EngineBuilderOption {
	return func(e *engine) {
		if source != nil {
			e.theme = source
		}
	}
}

// WithDiagnosticSink sets the receiver of shader compile and link diagnostics.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDiagnosticSink(sink shader.DiagnosticSink) EngineBuilderOption {
	return func(e *engine) {
		e.sink = sink
	}
}

// WithLogger sets the engine's logger. Components log under named children of it.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the collectors shared by the renderer and the render loop.
//
// Parameters:
//   - m: the collectors
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMetrics(m *metrics.Collectors) EngineBuilderOption {
	return func(e *engine) {
		e.metrics = m
	}
}
