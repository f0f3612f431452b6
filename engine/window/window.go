package window

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// ClientAPI selects the graphics API the platform window is created for.
type ClientAPI int

const (
	// ClientAPINone creates a window without a GL context, for WebGPU surfaces.
	ClientAPINone ClientAPI = iota

	// ClientAPIOpenGL creates a window with an OpenGL 3.3 core context.
	ClientAPIOpenGL
)

// Window is the host environment the backdrop renders into.
// It reports viewport geometry, pixel density, visibility and device hints,
// and schedules frame-synchronized callbacks.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the viewport or its pixel density changes.
	//
	// Parameters:
	//   - callback: function receiving the new logical width and height
	SetResizeCallback(callback func(width, height int))

	// SetVisibilityCallback sets the function called when the page or window is hidden or shown.
	//
	// Parameters:
	//   - callback: function receiving true when hidden
	SetVisibilityCallback(callback func(hidden bool))

	// RequestFrame schedules callback for the next display refresh.
	// The callback receives a monotonically increasing timestamp in milliseconds.
	//
	// Parameters:
	//   - callback: the frame callback
	//
	// Returns:
	//   - int: a non-zero handle for CancelFrame
	RequestFrame(callback func(timestampMs float64)) int

	// CancelFrame cancels a scheduled callback. Unknown or already fired handles are ignored.
	//
	// Parameters:
	//   - handle: the handle returned by RequestFrame
	CancelFrame(handle int)

	// Width returns the viewport width in logical pixels.
	//
	// Returns:
	//   - int: width in logical pixels
	Width() int

	// Height returns the viewport height in logical pixels.
	//
	// Returns:
	//   - int: height in logical pixels
	Height() int

	// DevicePixelRatio returns the ratio of physical to logical pixels.
	//
	// Returns:
	//   - float64: the pixel ratio, 1 when unknown
	DevicePixelRatio() float64

	// Hidden reports whether the page or window is currently not visible.
	//
	// Returns:
	//   - bool: true when hidden
	Hidden() bool

	// UserAgent returns the host's user agent string.
	//
	// Returns:
	//   - string: the user agent
	UserAgent() string

	// DeviceMemory returns the coarse device memory hint in GiB.
	//
	// Returns:
	//   - float64: memory in GiB
	//   - bool: false when the host does not expose a hint
	DeviceMemory() (float64, bool)

	// MemoryEstimate returns the current heap usage and its limit in bytes.
	//
	// Returns:
	//   - uint64: bytes in use
	//   - uint64: the limit
	//   - bool: false when the host has no estimate
	MemoryEstimate() (used, limit uint64, ok bool)

	// MarkLowPerf flags the host as running in low performance mode. Repeated calls are no-ops.
	MarkLowPerf()

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// width and height are the requested, then current, logical viewport size.
	width  int
	height int

	// dpr is the last observed device pixel ratio.
	dpr float64

	hidden  bool
	lowPerf bool

	clientAPI ClientAPI
	vsync     bool

	logger *zap.Logger

	// internalWindow holds the platform-specific window data.
	internalWindow any

	onUpdate     func()
	onResize     func(width, height int)
	onVisibility func(hidden bool)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a platform window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-backdrop",
		width:  1280,
		height: 720,
		dpr:    1,
		vsync:  true,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetVisibilityCallback(callback func(hidden bool)) {
	w.onVisibility = callback
}

func (w *engineWindow) RequestFrame(callback func(timestampMs float64)) int {
	return platformRequestFrame(w, callback)
}

func (w *engineWindow) CancelFrame(handle int) {
	platformCancelFrame(w, handle)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) DevicePixelRatio() float64 {
	if w.dpr <= 0 {
		return 1
	}
	return w.dpr
}

func (w *engineWindow) Hidden() bool {
	return w.hidden
}

func (w *engineWindow) UserAgent() string {
	return platformUserAgent(w)
}

func (w *engineWindow) DeviceMemory() (float64, bool) {
	return platformDeviceMemory(w)
}

func (w *engineWindow) MemoryEstimate() (uint64, uint64, bool) {
	return platformMemoryEstimate(w)
}

func (w *engineWindow) MarkLowPerf() {
	if w.lowPerf {
		return
	}
	w.lowPerf = true
	platformMarkLowPerf(w)
	w.logger.Info("low performance mode enabled")
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

// setVisibility records a visibility change and notifies the callback once per transition.
func (w *engineWindow) setVisibility(hidden bool) {
	if w.hidden == hidden {
		return
	}
	w.hidden = hidden
	if w.onVisibility != nil {
		w.onVisibility(hidden)
	}
}

// setViewport records new logical geometry and notifies the resize callback if anything changed.
func (w *engineWindow) setViewport(width, height int, dpr float64) {
	if width == w.width && height == w.height && dpr == w.dpr {
		return
	}
	w.width, w.height, w.dpr = width, height, dpr
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
