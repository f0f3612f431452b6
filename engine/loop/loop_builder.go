package loop

import (
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(c *controller)

// WithMemoryProbe sets the heap probe consulted on low-performance hosts.
//
// Parameters:
//   - probe: the probe
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithMemoryProbe(probe MemoryProbe) ControllerBuilderOption {
	return func(c *controller) {
		c.probe = probe
	}
}

// WithMemoryThreshold sets the share of the heap limit at which frames are skipped.
// Values outside (0, 1] keep DefaultMemoryThreshold.
//
// Parameters:
//   - threshold: the share of the limit
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithMemoryThreshold(threshold float64) ControllerBuilderOption {
	return func(c *controller) {
		if threshold > 0 && threshold <= 1 {
			c.threshold = threshold
		}
	}
}

// WithLowPerf enables the memory pressure gate.
//
// Parameters:
//   - lowPerf: true on low-performance hosts
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLowPerf(lowPerf bool) ControllerBuilderOption {
	return func(c *controller) {
		c.lowPerf = lowPerf
	}
}

// WithVisibility sets the query each tick uses to skip drawing while the host is hidden.
//
// Parameters:
//   - hidden: returns true while the host is hidden
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithVisibility(hidden func() bool) ControllerBuilderOption {
	return func(c *controller) {
		c.hidden = hidden
	}
}

// WithReleaseHook sets the function Dispose calls after cancelling the outstanding callback.
//
// Parameters:
//   - release: the hook, typically disposing the renderer
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithReleaseHook(release func()) ControllerBuilderOption {
	return func(c *controller) {
		c.release = release
	}
}

// WithLogger sets the controller's logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger.Named("loop")
		}
	}
}

// WithMetrics sets the collectors receiving skip counts and state changes.
//
// Parameters:
//   - m: the collectors
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithMetrics(m *metrics.Collectors) ControllerBuilderOption {
	return func(c *controller) {
		c.metrics = m
	}
}
