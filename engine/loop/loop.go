package loop

import (
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
)

// DefaultMemoryThreshold is the share of the heap limit above which low-performance hosts skip frames.
const DefaultMemoryThreshold = 0.8

// State is the lifecycle state of a Controller.
type State int

const (
	// StateStopped is the state before Start and after Dispose.
	StateStopped State = iota

	// StateRunning means exactly one frame callback is scheduled.
	StateRunning

	// StatePaused means the host is hidden and nothing is scheduled.
	StatePaused
)

var stateNames = []string{"stopped", "running", "paused"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Scheduler delivers frame-synchronized callbacks. window.Window satisfies it.
type Scheduler interface {
	RequestFrame(callback func(timestampMs float64)) int
	CancelFrame(handle int)
}

// MemoryProbe reports heap usage and its limit. ok is false when the host has no estimate.
type MemoryProbe func() (used, limit uint64, ok bool)

// FrameFunc draws one frame.
type FrameFunc func(timestampMs float64)

// controller is the implementation of the Controller interface.
type controller struct {
	scheduler Scheduler
	frame     FrameFunc

	probe     MemoryProbe
	threshold float64
	lowPerf   bool
	hidden    func() bool
	release   func()

	state  State
	handle int

	// generation revokes callbacks scheduled before the latest pause or dispose.
	generation uint64

	logger  *zap.Logger
	metrics *metrics.Collectors
}

// Controller schedules one frame per display refresh while the host is visible.
//
// All methods and the frame function run on the scheduler's thread; ticks are strictly sequential.
type Controller interface {
	// Start moves a stopped controller to running. The first tick runs synchronously at time 0,
	// then one callback is scheduled. Ignored unless stopped.
	Start()

	// SetHidden pauses a running controller when hidden, cancelling its callback, and resumes a
	// paused one when shown, scheduling a callback if none is outstanding.
	//
	// Parameters:
	//   - hidden: true when the host is no longer visible
	SetHidden(hidden bool)

	// Dispose cancels any outstanding callback, calls the release hook and stops the controller.
	// Valid from every state.
	Dispose()

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - State: the state
	State() State

	// Scheduled reports whether a frame callback is outstanding.
	//
	// Returns:
	//   - bool: true while a callback is scheduled
	Scheduled() bool
}

var _ Controller = &controller{}

// NewController creates a stopped Controller.
//
// Parameters:
//   - scheduler: the frame callback source
//   - frame: the function drawing a frame
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the controller
func NewController(scheduler Scheduler, frame FrameFunc, options ...ControllerBuilderOption) Controller {
	c := &controller{
		scheduler: scheduler,
		frame:     frame,
		threshold: DefaultMemoryThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *controller) Start() {
	if c.state != StateStopped {
		return
	}
	c.setState(StateRunning)
	c.tick(c.generation, 0)
}

func (c *controller) SetHidden(hidden bool) {
	switch {
	case hidden && c.state == StateRunning:
		c.cancel()
		c.setState(StatePaused)
	case !hidden && c.state == StatePaused:
		c.setState(StateRunning)
		if c.handle == 0 {
			c.schedule()
		}
	}
}

func (c *controller) Dispose() {
	c.cancel()
	c.setState(StateStopped)
	if c.release != nil {
		c.release()
	}
}

func (c *controller) State() State {
	return c.state
}

func (c *controller) Scheduled() bool {
	return c.handle != 0
}

func (c *controller) setState(s State) {
	if c.state != s {
		c.logger.Debug("loop state changed", zap.Stringer("from", c.state), zap.Stringer("to", s))
	}
	c.state = s
	c.metrics.State(s.String(), stateNames...)
}

func (c *controller) cancel() {
	c.generation++
	if c.handle != 0 {
		c.scheduler.CancelFrame(c.handle)
		c.handle = 0
	}
}

func (c *controller) schedule() {
	gen := c.generation
	c.handle = c.scheduler.RequestFrame(func(timestampMs float64) {
		c.tick(gen, timestampMs)
	})
}

func (c *controller) tick(gen uint64, timestampMs float64) {
	if gen != c.generation || c.state != StateRunning {
		return
	}
	c.handle = 0

	switch {
	case c.hidden != nil && c.hidden():
		c.metrics.FrameSkipped(metrics.SkipHidden)
	case c.underMemoryPressure():
		c.metrics.FrameSkipped(metrics.SkipMemoryPressure)
	default:
		c.frame(timestampMs)
	}

	// The frame function may have paused or disposed the controller.
	if gen == c.generation && c.state == StateRunning {
		c.schedule()
	}
}

// underMemoryPressure only applies to low-performance hosts with a usable estimate.
func (c *controller) underMemoryPressure() bool {
	if !c.lowPerf || c.probe == nil {
		return false
	}
	used, limit, ok := c.probe()
	if !ok || limit == 0 {
		return false
	}
	return float64(used) >= c.threshold*float64(limit)
}
