package capability

import (
	"go.uber.org/zap"
)

// Environment supplies the signals for detection and receives the low tier marker.
type Environment interface {
	// UserAgent returns the host's user agent string.
	UserAgent() string

	// Width returns the viewport width in logical pixels.
	Width() int

	// DeviceMemory returns the device memory hint in GiB and whether the host exposes one.
	DeviceMemory() (float64, bool)

	// MarkLowPerf flags the host as running in low performance mode for the UI layer.
	MarkLowPerf()
}

// Detector runs capability detection once against an Environment.
type Detector struct {
	env    Environment
	logger *zap.Logger
}

// NewDetector creates a Detector over env.
//
// Parameters:
//   - env: the host environment
//   - logger: logger for the detected tier (nil disables logging)
//
// Returns:
//   - *Detector: the detector
func NewDetector(env Environment, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{env: env, logger: logger}
}

// Signals reads the current signals from the environment.
func (d *Detector) Signals() Signals {
	s := Signals{
		UserAgent:     d.env.UserAgent(),
		ViewportWidth: d.env.Width(),
	}
	if mem, ok := d.env.DeviceMemory(); ok {
		s.DeviceMemory = &mem
	}
	return s
}

// Detect classifies the environment and marks it when the low tier is selected.
//
// Returns:
//   - Profile: the detected profile
func (d *Detector) Detect() Profile {
	s := d.Signals()
	p := Profile{LowPerf: Detect(s)}
	if p.LowPerf {
		d.env.MarkLowPerf()
	}

	fields := []zap.Field{
		zap.Stringer("tier", p.Tier()),
		zap.Int("viewport_width", s.ViewportWidth),
		zap.String("user_agent", s.UserAgent),
	}
	if s.DeviceMemory != nil {
		fields = append(fields, zap.Float64("device_memory_gib", *s.DeviceMemory))
	}
	d.logger.Info("capability detected", fields...)
	return p
}
