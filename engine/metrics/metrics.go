package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Skip reasons recorded on FramesSkipped.
const (
	SkipHidden         = "hidden"
	SkipMemoryPressure = "memory_pressure"
)

// Collectors holds the backdrop's prometheus collectors.
// A nil *Collectors is valid and records nothing.
type Collectors struct {
	registry *prometheus.Registry

	FramesRendered prometheus.Counter
	FramesSkipped  *prometheus.CounterVec
	Resizes        prometheus.Counter
	BackingWidth   prometheus.Gauge
	BackingHeight  prometheus.Gauge
	Diagnostics    *prometheus.CounterVec
	LoopState      *prometheus.GaugeVec
	FrameSeconds   prometheus.Histogram
}

// NewCollectors creates the collectors and registers them on a fresh registry.
//
// Returns:
//   - *Collectors: the registered collectors
func NewCollectors() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backdrop_frames_rendered_total",
			Help: "Frames drawn by the frame renderer",
		}),
		FramesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backdrop_frames_skipped_total",
			Help: "Loop ticks that did not draw",
		}, []string{"reason"}),
		Resizes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backdrop_surface_resizes_total",
			Help: "Backing store reallocations",
		}),
		BackingWidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "backdrop_surface_width_pixels",
			Help: "Backing store width in device pixels",
		}),
		BackingHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "backdrop_surface_height_pixels",
			Help: "Backing store height in device pixels",
		}),
		Diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backdrop_shader_diagnostics_total",
			Help: "Shader compile, link and resolve failures",
		}, []string{"kind"}),
		LoopState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "backdrop_loop_state",
			Help: "1 for the render loop's current state, 0 otherwise",
		}, []string{"state"}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backdrop_frame_duration_seconds",
			Help:    "CPU time spent encoding one frame",
			Buckets: []float64{.0005, .001, .002, .004, .008, .016, .033, .066},
		}),
	}
	c.registry.MustRegister(
		c.FramesRendered,
		c.FramesSkipped,
		c.Resizes,
		c.BackingWidth,
		c.BackingHeight,
		c.Diagnostics,
		c.LoopState,
		c.FrameSeconds,
	)
	return c
}

// Handler serves the collectors in the prometheus exposition format.
//
// Returns:
//   - http.Handler: the metrics handler
func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (c *Collectors) Gatherer() prometheus.Gatherer {
	return c.registry
}

// FrameRendered records one drawn frame and its encode time in seconds.
func (c *Collectors) FrameRendered(seconds float64) {
	if c == nil {
		return
	}
	c.FramesRendered.Inc()
	c.FrameSeconds.Observe(seconds)
}

// FrameSkipped records one tick that did not draw.
func (c *Collectors) FrameSkipped(reason string) {
	if c == nil {
		return
	}
	c.FramesSkipped.WithLabelValues(reason).Inc()
}

// Resized records a backing store reallocation.
func (c *Collectors) Resized(width, height int) {
	if c == nil {
		return
	}
	c.Resizes.Inc()
	c.BackingWidth.Set(float64(width))
	c.BackingHeight.Set(float64(height))
}

// Diagnostic records a shader build failure of the given kind.
func (c *Collectors) Diagnostic(kind string) {
	if c == nil {
		return
	}
	c.Diagnostics.WithLabelValues(kind).Inc()
}

// State marks state as the loop's current state and clears the others.
func (c *Collectors) State(state string, all ...string) {
	if c == nil {
		return
	}
	for _, s := range all {
		c.LoopState.WithLabelValues(s).Set(0)
	}
	c.LoopState.WithLabelValues(state).Set(1)
}
