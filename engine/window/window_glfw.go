//go:build !js

package window

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pbnjay/memory"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
)

// idleWait bounds how long the message loop blocks for events while no frame is requested.
const idleWait = 100 * time.Millisecond

// NativeWindow is a desktop Window that can hand its surface to a GPU backend.
type NativeWindow interface {
	Window

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for creating a WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// MakeContextCurrent binds the window's OpenGL context to the calling thread.
	MakeContextCurrent()

	// SwapBuffers presents the OpenGL back buffer.
	SwapBuffers()

	// FramebufferSize returns the drawable size in device pixels.
	//
	// Returns:
	//   - int: width in device pixels
	//   - int: height in device pixels
	FramebufferSize() (int, int)
}

var _ NativeWindow = &engineWindow{}

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
	frames  *frameScheduler
	start   time.Time
}

// newPlatformWindow creates the GLFW window and maps its events onto the host environment.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	switch w.clientAPI {
	case ClientAPIOpenGL:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 3)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	default:
		// WebGPU provides its own graphics API, so disable OpenGL context creation.
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw := &glfwWindow{
		window:  win,
		running: true,
		frames:  newFrameScheduler(),
		start:   time.Now(),
	}
	w.internalWindow = gw

	if w.clientAPI == ClientAPIOpenGL {
		win.MakeContextCurrent()
		if w.vsync {
			glfw.SwapInterval(1)
		} else {
			glfw.SwapInterval(0)
		}
	}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
		}
	})

	// Framebuffer size is pixel-accurate on high-DPI displays where it differs from the window size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		syncViewport(w, gw)
	})
	win.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) {
		syncViewport(w, gw)
	})

	// An iconified window is the desktop equivalent of a hidden page.
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		w.setVisibility(iconified)
	})

	w.width, w.height, w.dpr = logicalGeometry(gw.window)
	w.logger.Info("window created",
		zap.Int("width", w.width),
		zap.Int("height", w.height),
		zap.Float64("dpr", w.dpr),
	)
	return nil
}

// logicalGeometry derives the logical viewport and pixel ratio from the GLFW window.
// Where the window size is already in logical units (macOS, Wayland) the ratio is the
// framebuffer scale, otherwise the monitor content scale.
func logicalGeometry(win *glfw.Window) (int, int, float64) {
	fbWidth, fbHeight := win.GetFramebufferSize()
	winWidth, winHeight := win.GetSize()
	if winWidth > 0 && fbWidth != winWidth {
		return winWidth, winHeight, float64(fbWidth) / float64(winWidth)
	}

	sx, _ := win.GetContentScale()
	dpr := float64(sx)
	if dpr <= 0 {
		dpr = 1
	}
	return int(math.Round(float64(fbWidth) / dpr)), int(math.Round(float64(fbHeight) / dpr)), dpr
}

func syncViewport(w *engineWindow, gw *glfwWindow) {
	width, height, dpr := logicalGeometry(gw.window)
	w.setViewport(width, height, dpr)
}

func (w *engineWindow) glfw() *glfwWindow {
	if w.internalWindow == nil {
		return nil
	}
	return w.internalWindow.(*glfwWindow)
}

// SurfaceDescriptor uses the wgpuglfw bridge, which has per-platform implementations.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	gw := w.glfw()
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func (w *engineWindow) MakeContextCurrent() {
	if gw := w.glfw(); gw != nil {
		gw.window.MakeContextCurrent()
	}
}

func (w *engineWindow) SwapBuffers() {
	if gw := w.glfw(); gw != nil {
		gw.window.SwapBuffers()
	}
}

func (w *engineWindow) FramebufferSize() (int, int) {
	gw := w.glfw()
	if gw == nil {
		return 0, 0
	}
	return gw.window.GetFramebufferSize()
}

func platformRequestFrame(w *engineWindow, callback func(timestampMs float64)) int {
	gw := w.glfw()
	if gw == nil {
		return 0
	}
	return gw.frames.request(callback)
}

func platformCancelFrame(w *engineWindow, handle int) {
	if gw := w.glfw(); gw != nil {
		gw.frames.cancel(handle)
	}
}

// platformUserAgent synthesizes a user agent naming the operating system, so mobile
// platforms match the same patterns a browser user agent would.
func platformUserAgent(_ *engineWindow) string {
	return fmt.Sprintf("oxy-backdrop (%s; %s) GLFW/%s", runtime.GOOS, runtime.GOARCH, glfw.GetVersionString())
}

func platformDeviceMemory(_ *engineWindow) (float64, bool) {
	total := memory.TotalMemory()
	if total == 0 {
		return 0, false
	}
	return float64(total) / (1 << 30), true
}

func platformMemoryEstimate(_ *engineWindow) (uint64, uint64, bool) {
	return profiler.MemoryEstimate()
}

// platformMarkLowPerf is a no-op on the desktop, which has no UI layer to restyle.
func platformMarkLowPerf(_ *engineWindow) {}

// platformIsRunningCheck returns false if the internal window is nil, the running flag is cleared,
// or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	gw := w.glfw()
	if gw == nil {
		return false
	}
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
func platformCloseWindow(w *engineWindow) error {
	gw := w.glfw()
	if gw == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages handles pending events, then fires the frame callbacks requested
// since the previous refresh. With nothing requested it blocks for events instead of spinning.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#WaitEventsTimeout
func platformProcessMessages(w *engineWindow) bool {
	gw := w.glfw()
	if gw == nil {
		return false
	}
	if gw.frames.outstanding() == 0 {
		glfw.WaitEventsTimeout(idleWait.Seconds())
	} else {
		glfw.PollEvents()
	}
	if !platformIsRunningCheck(w) {
		return false
	}
	gw.frames.fire(float64(time.Since(gw.start).Microseconds()) / 1000)
	return platformIsRunningCheck(w)
}
