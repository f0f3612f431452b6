//go:build js && wasm

package window

import (
	"fmt"
	"syscall/js"
	"time"
)

// LowPerfClass is the body class added when the page runs in low performance mode.
const LowPerfClass = "low-perf-mode"

// idleWait bounds how long the message loop sleeps between update callbacks.
const idleWait = 50 * time.Millisecond

// BrowserWindow is a Window backed by a page canvas.
type BrowserWindow interface {
	Window

	// Canvas returns the canvas element the backdrop draws into.
	//
	// Returns:
	//   - js.Value: the HTMLCanvasElement
	Canvas() js.Value

	// ReplaceCanvas puts a new canvas in place of the current one, keeping its position and style.
	// A canvas whose WebGL context was lost never hands out a usable context again.
	//
	// Returns:
	//   - js.Value: the new HTMLCanvasElement
	ReplaceCanvas() js.Value
}

var _ BrowserWindow = &engineWindow{}

// browserWindow holds the page state of the browser host.
type browserWindow struct {
	canvas  js.Value
	running bool
	done    chan struct{}

	// frames keeps each pending requestAnimationFrame callback alive until it fires or is cancelled.
	frames map[int]js.Func

	listeners []listener
}

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

func (b *browserWindow) listen(target js.Value, event string, fn func()) {
	f := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	target.Call("addEventListener", event, f)
	b.listeners = append(b.listeners, listener{target: target, event: event, fn: f})
}

// newPlatformWindow creates the canvas inside the page's `.container`, falling back to the body,
// and subscribes to resize and visibility events.
func newPlatformWindow(w *engineWindow) error {
	global := js.Global()
	document := global.Get("document")
	if document.IsUndefined() {
		return fmt.Errorf("no document available")
	}

	canvas := newCanvas(document, w.title)
	parent := document.Call("querySelector", ".container")
	if parent.IsNull() {
		parent = document.Get("body")
	}
	parent.Call("appendChild", canvas)

	bw := &browserWindow{
		canvas:  canvas,
		running: true,
		done:    make(chan struct{}),
		frames:  make(map[int]js.Func),
	}
	w.internalWindow = bw

	w.width, w.height, w.dpr = pageGeometry()
	w.hidden = document.Get("hidden").Bool()

	bw.listen(global, "resize", func() {
		w.setViewport(pageGeometry())
	})
	bw.listen(document, "visibilitychange", func() {
		w.setVisibility(document.Get("hidden").Bool())
	})
	bw.listen(global, "beforeunload", func() {
		if bw.running {
			bw.running = false
			close(bw.done)
		}
	})
	return nil
}

// newCanvas creates a canvas filling its container.
func newCanvas(document js.Value, title string) js.Value {
	canvas := document.Call("createElement", "canvas")
	style := canvas.Get("style")
	style.Set("width", "100%")
	style.Set("height", "100%")
	style.Set("objectFit", "contain")
	if title != "" {
		canvas.Set("title", title)
	}
	return canvas
}

func pageGeometry() (int, int, float64) {
	global := js.Global()
	dpr := 1.0
	if v := global.Get("devicePixelRatio"); v.Type() == js.TypeNumber {
		dpr = v.Float()
	}
	return global.Get("innerWidth").Int(), global.Get("innerHeight").Int(), dpr
}

func (w *engineWindow) browser() *browserWindow {
	if w.internalWindow == nil {
		return nil
	}
	return w.internalWindow.(*browserWindow)
}

func (w *engineWindow) Canvas() js.Value {
	bw := w.browser()
	if bw == nil {
		return js.Undefined()
	}
	return bw.canvas
}

func (w *engineWindow) ReplaceCanvas() js.Value {
	bw := w.browser()
	if bw == nil {
		return js.Undefined()
	}
	canvas := newCanvas(js.Global().Get("document"), w.title)
	bw.canvas.Call("replaceWith", canvas)
	bw.canvas = canvas
	w.logger.Info("canvas replaced")
	return canvas
}

func platformRequestFrame(w *engineWindow, callback func(timestampMs float64)) int {
	bw := w.browser()
	if bw == nil {
		return 0
	}

	var handle int
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if f, ok := bw.frames[handle]; ok {
			delete(bw.frames, handle)
			f.Release()
		}
		ts := 0.0
		if len(args) > 0 {
			ts = args[0].Float()
		}
		callback(ts)
		return nil
	})
	handle = js.Global().Call("requestAnimationFrame", fn).Int()
	bw.frames[handle] = fn
	return handle
}

func platformCancelFrame(w *engineWindow, handle int) {
	bw := w.browser()
	if bw == nil {
		return
	}
	f, ok := bw.frames[handle]
	if !ok {
		return
	}
	js.Global().Call("cancelAnimationFrame", handle)
	delete(bw.frames, handle)
	f.Release()
}

func platformUserAgent(_ *engineWindow) string {
	return js.Global().Get("navigator").Get("userAgent").String()
}

// platformDeviceMemory reads navigator.deviceMemory, which only Chromium based browsers expose.
func platformDeviceMemory(_ *engineWindow) (float64, bool) {
	v := js.Global().Get("navigator").Get("deviceMemory")
	if v.Type() != js.TypeNumber {
		return 0, false
	}
	return v.Float(), true
}

// platformMemoryEstimate reads the non-standard performance.memory heap counters.
func platformMemoryEstimate(_ *engineWindow) (uint64, uint64, bool) {
	mem := js.Global().Get("performance").Get("memory")
	if mem.IsUndefined() || mem.IsNull() {
		return 0, 0, false
	}
	used, limit := mem.Get("usedJSHeapSize"), mem.Get("jsHeapSizeLimit")
	if used.Type() != js.TypeNumber || limit.Type() != js.TypeNumber {
		return 0, 0, false
	}
	return uint64(used.Float()), uint64(limit.Float()), true
}

func platformMarkLowPerf(_ *engineWindow) {
	js.Global().Get("document").Get("body").Get("classList").Call("add", LowPerfClass)
}

func platformIsRunningCheck(w *engineWindow) bool {
	bw := w.browser()
	return bw != nil && bw.running
}

// platformCloseWindow cancels outstanding frames, removes listeners and detaches the canvas.
func platformCloseWindow(w *engineWindow) error {
	bw := w.browser()
	if bw == nil {
		return fmt.Errorf("window is not initialized")
	}
	for handle, f := range bw.frames {
		js.Global().Call("cancelAnimationFrame", handle)
		f.Release()
	}
	clear(bw.frames)
	for _, l := range bw.listeners {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	bw.listeners = nil
	bw.canvas.Call("remove")
	if bw.running {
		bw.running = false
		close(bw.done)
	}
	w.internalWindow = nil
	return nil
}

// platformProcessMessages yields to the browser event loop, which delivers frames and events
// through the registered callbacks.
func platformProcessMessages(w *engineWindow) bool {
	bw := w.browser()
	if bw == nil {
		return false
	}
	select {
	case <-bw.done:
		return false
	case <-time.After(idleWait):
		return bw.running
	}
}
