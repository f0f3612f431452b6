package renderer

import (
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithProfile sets the capability profile selecting the shader tier and the pixel ratio cap.
//
// Parameters:
//   - p: the detected profile
//
// Returns:
//   - RendererBuilderOption: a function that applies the profile option to a renderer
func WithProfile(p capability.Profile) RendererBuilderOption {
	return func(r *renderer) {
		r.profile = p
	}
}

// WithTheme sets the source of the background color read on every frame.
// A nil source keeps the default black background.
//
// Parameters:
//   - source: the theme source
//
// Returns:
//   - RendererBuilderOption: a function that applies the theme option to a renderer
func WithTheme(source theme.Source) RendererBuilderOption {
	return func(r *renderer) {
		if source != nil {
			r.theme = source
		}
	}
}

// WithDiagnosticSink sets where shader compile and link failures are reported.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - RendererBuilderOption: a function that applies the sink option to a renderer
func WithDiagnosticSink(sink shader.DiagnosticSink) RendererBuilderOption {
	return func(r *renderer) {
		r.sink = sink
	}
}

// WithLogger sets the renderer's logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger.Named("renderer")
		}
	}
}

// WithMetrics sets the collectors receiving frame, resize and diagnostic counts.
//
// Parameters:
//   - c: the collectors
//
// Returns:
//   - RendererBuilderOption: a function that applies the metrics option to a renderer
func WithMetrics(c *metrics.Collectors) RendererBuilderOption {
	return func(r *renderer) {
		r.metrics = c
	}
}

// contextConfig collects the options of NewContext.
type contextConfig struct {
	presentMode PresentMode
	logger      *zap.Logger
}

// ContextBuilderOption is a functional option applied during NewContext.
type ContextBuilderOption func(*contextConfig)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
// Only the WebGPU backend reads it; OpenGL swaps follow the window's vsync setting.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - ContextBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) ContextBuilderOption {
	return func(c *contextConfig) {
		c.presentMode = mode
	}
}

// WithContextLogger sets the logger of the rendering context.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ContextBuilderOption: a function that applies the logger option
func WithContextLogger(logger *zap.Logger) ContextBuilderOption {
	return func(c *contextConfig) {
		if logger != nil {
			c.logger = logger.Named("context")
		}
	}
}

func newContextConfig(options []ContextBuilderOption) *contextConfig {
	cfg := &contextConfig{presentMode: PresentModeVSync, logger: zap.NewNop()}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}
