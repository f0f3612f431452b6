package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/loop"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
)

// fakeWindow is a window.Window driven by the test. ProcessMessages runs a fixed number of iterations.
type fakeWindow struct {
	width, height int
	dpr           float64
	hidden        bool
	userAgent     string
	lowPerf       bool
	running       bool
	iterations    int

	uaReads int
	now     float64
	next    int
	pending map[int]func(float64)

	onUpdate     func()
	onResize     func(width, height int)
	onVisibility func(hidden bool)
}

var _ window.Window = &fakeWindow{}

func newFakeWindow(width, height int, dpr float64, ua string) *fakeWindow {
	return &fakeWindow{
		width:      width,
		height:     height,
		dpr:        dpr,
		userAgent:  ua,
		running:    true,
		iterations: 3,
		pending:    map[int]func(float64){},
	}
}

func (w *fakeWindow) SetUpdateCallback(callback func()) { w.onUpdate = callback }

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }

func (w *fakeWindow) SetVisibilityCallback(callback func(hidden bool)) { w.onVisibility = callback }

func (w *fakeWindow) RequestFrame(callback func(float64)) int {
	w.next++
	w.pending[w.next] = callback
	return w.next
}

func (w *fakeWindow) CancelFrame(handle int) { delete(w.pending, handle) }

func (w *fakeWindow) Width() int { return w.width }

func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) DevicePixelRatio() float64 { return w.dpr }

func (w *fakeWindow) Hidden() bool { return w.hidden }

func (w *fakeWindow) UserAgent() string {
	w.uaReads++
	return w.userAgent
}

func (w *fakeWindow) DeviceMemory() (float64, bool) { return 0, false }

func (w *fakeWindow) MemoryEstimate() (uint64, uint64, bool) { return 0, 0, false }

func (w *fakeWindow) MarkLowPerf() { w.lowPerf = true }

func (w *fakeWindow) IsRunning() bool { return w.running }

func (w *fakeWindow) Close() error {
	w.running = false
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && w.running; i++ {
		w.fire()
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

// fire runs the callbacks pending before the call, 16ms after the previous refresh.
func (w *fakeWindow) fire() {
	w.now += 16
	batch := w.pending
	w.pending = map[int]func(float64){}
	for _, cb := range batch {
		cb(w.now)
	}
}

func (w *fakeWindow) resize(width, height int, dpr float64) {
	w.width, w.height, w.dpr = width, height, dpr
	w.onResize(width, height)
}

func (w *fakeWindow) setHidden(hidden bool) {
	w.hidden = hidden
	w.onVisibility(hidden)
}

// contextRecorder hands out recording contexts and remembers them.
// With shared set it hands out the same context every time, lost or not, like a browser canvas.
type contextRecorder struct {
	created []*renderertest.Context
	shared  bool
	err     error
}

func (r *contextRecorder) factory(renderer.BackendType, window.Window, ...renderer.ContextBuilderOption) (renderer.Context, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.shared && len(r.created) > 0 {
		return r.last(), nil
	}
	ctx := renderertest.NewContext()
	r.created = append(r.created, ctx)
	return ctx, nil
}

func (r *contextRecorder) last() *renderertest.Context {
	return r.created[len(r.created)-1]
}

func newTestEngine(w *fakeWindow, options ...EngineBuilderOption) (*engine, *contextRecorder) {
	rec := &contextRecorder{}
	options = append([]EngineBuilderOption{WithWindow(w), WithContextFactory(rec.factory)}, options...)
	return NewEngine(options...).(*engine), rec
}

func TestInitWithoutWindow(t *testing.T) {
	e := NewEngine()
	assert.ErrorIs(t, e.Init(), ErrNoWindow)
}

func TestInitScenarios(t *testing.T) {
	tcs := []struct {
		name      string
		window    *fakeWindow
		tier      capability.Tier
		surface   renderer.Surface
		lowPerf   bool
		debounce  time.Duration
		stepCount int
	}{
		{
			name:      "iphone",
			window:    newFakeWindow(375, 812, 3, iPhoneUA),
			tier:      capability.TierLow,
			surface:   renderer.Surface{Width: 375, Height: 812},
			lowPerf:   true,
			debounce:  300 * time.Millisecond,
			stepCount: 200,
		},
		{
			name:      "desktop without memory hint",
			window:    newFakeWindow(1920, 1080, 2, desktopUA),
			tier:      capability.TierStandard,
			surface:   renderer.Surface{Width: 3840, Height: 2160},
			debounce:  200 * time.Millisecond,
			stepCount: 400,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			e, rec := newTestEngine(tc.window)
			require.NoError(t, e.Init())

			assert.Equal(t, tc.tier, e.Profile().Tier())
			assert.Equal(t, tc.stepCount, e.Profile().StepBudget())
			assert.Equal(t, tc.lowPerf, tc.window.lowPerf)
			assert.Equal(t, tc.debounce, e.resize.wait)
			assert.Equal(t, tc.surface, e.Renderer().Surface())

			require.Len(t, rec.created, 1)
			assert.Contains(t, rec.last().Calls, "Present")
			assert.Equal(t, loop.StateRunning, e.Controller().State())
			assert.Len(t, tc.window.pending, 1)
		})
	}
}

func TestInitContextFailure(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)
	rec.err = errors.Join(renderer.ErrNoContext, errors.New("no adapter"))

	err := e.Init()
	assert.ErrorIs(t, err, renderer.ErrNoContext)
	assert.Nil(t, e.Renderer())
	assert.Nil(t, e.Controller())
	assert.Empty(t, w.pending)
}

func TestReinitDisposesPreviousContext(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)

	require.NoError(t, e.Init())
	first := rec.last()
	require.NoError(t, e.Init())

	require.Len(t, rec.created, 2)
	assert.True(t, first.IsLost())
	assert.False(t, rec.last().IsLost())
	assert.Equal(t, 1, w.uaReads)
	assert.Len(t, w.pending, 1)
}

func TestReinitRestoresSharedLostContext(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	m := metrics.NewCollectors()
	e, rec := newTestEngine(w, WithMetrics(m))
	rec.shared = true

	require.NoError(t, e.Init())
	ctx := rec.last()
	require.NoError(t, e.Init())

	require.Len(t, rec.created, 1)
	assert.Equal(t, 1, ctx.Restores)
	assert.False(t, ctx.IsLost())
	assert.Same(t, ctx, e.Renderer().Context())
	assert.True(t, e.Renderer().Program().Linked())

	ctx.Reset()
	w.fire()
	assert.Contains(t, ctx.Calls, "DrawTriangleStrip(0,4)")
	assert.Contains(t, ctx.Calls, "Present")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FramesRendered))
}

func TestInitFailsWhenRestoreFails(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)
	rec.shared = true

	require.NoError(t, e.Init())
	rec.last().FailRestore = true

	err := e.Init()
	assert.ErrorIs(t, err, renderer.ErrNoContext)
	assert.Nil(t, e.Renderer())
	assert.Empty(t, w.pending)
}

func TestContextLossReinitializesOnUpdate(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)
	rec.shared = true
	require.NoError(t, e.Init())
	ctx := rec.last()
	first := e.Renderer()

	e.update()
	assert.Same(t, first, e.Renderer())

	// The host drops the context on its own.
	ctx.Lost = true
	e.update()

	assert.Equal(t, 1, ctx.Restores)
	assert.NotSame(t, first, e.Renderer())
	assert.False(t, e.Renderer().Context().IsLost())
	assert.Equal(t, loop.StateRunning, e.Controller().State())
	assert.Len(t, w.pending, 1)
	assert.Equal(t, renderer.Surface{Width: 1280, Height: 720}, e.Renderer().Surface())
}

func TestResizeIsDebounced(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)
	clock := &fakeClock{t: time.Unix(0, 0)}
	e.resize.now = clock.now
	require.NoError(t, e.Init())
	ctx := rec.last()
	ctx.Reset()

	w.resize(1000, 700, 1)
	clock.advance(100 * time.Millisecond)
	e.update()
	w.resize(900, 600, 1)
	clock.advance(150 * time.Millisecond)
	e.update()
	assert.NotContains(t, ctx.Calls, "Viewport(0,0,900,600)")
	assert.Equal(t, renderer.Surface{Width: 1280, Height: 720}, e.Renderer().Surface())

	clock.advance(50 * time.Millisecond)
	e.update()
	assert.Equal(t, []string{"Viewport(0,0,900,600)"}, ctx.Calls)
	assert.Equal(t, renderer.Surface{Width: 900, Height: 600}, e.Renderer().Surface())

	clock.advance(time.Second)
	e.update()
	assert.Len(t, ctx.Calls, 1)
}

func TestVisibilityPausesAndResumes(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	m := metrics.NewCollectors()
	e, rec := newTestEngine(w, WithMetrics(m))
	require.NoError(t, e.Init())

	w.setHidden(true)
	assert.Equal(t, loop.StatePaused, e.Controller().State())
	assert.Empty(t, w.pending)

	rec.last().Reset()
	w.fire()
	assert.Empty(t, rec.last().Calls)

	w.setHidden(false)
	assert.Equal(t, loop.StateRunning, e.Controller().State())
	assert.Len(t, w.pending, 1)

	w.fire()
	assert.Contains(t, rec.last().Calls, "Present")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesRendered))
}

func TestInitWhileHiddenStartsPaused(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	w.hidden = true
	e, rec := newTestEngine(w)

	require.NoError(t, e.Init())

	assert.Equal(t, loop.StatePaused, e.Controller().State())
	assert.Empty(t, w.pending)
	assert.NotContains(t, rec.last().Calls, "Present")
}

func TestFramesUseTheme(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	bg := theme.NewValue("#000")
	e, rec := newTestEngine(w, WithTheme(bg))
	require.NoError(t, e.Init())

	bg.Set("#ff0000")
	rec.last().Reset()
	w.fire()

	require.NotEmpty(t, rec.last().Calls)
	assert.Equal(t, "ClearColor(1,0,0,1)", rec.last().Calls[0])
}

func TestRunQuitsWhenContextCancelled(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)
	require.NoError(t, e.Init())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Run(ctx)

	assert.False(t, w.IsRunning())
	assert.True(t, rec.last().IsLost())
	assert.Nil(t, e.Renderer())
	assert.Empty(t, w.pending)

	e.Quit()
}

func TestRunRendersUntilWindowStops(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	w.iterations = 5
	m := metrics.NewCollectors()
	e, rec := newTestEngine(w, WithMetrics(m), WithProfiling(true))
	require.NoError(t, e.Init())

	e.Run(context.Background())

	assert.Equal(t, 6.0, testutil.ToFloat64(m.FramesRendered))
	assert.True(t, rec.last().IsLost())
	assert.Nil(t, e.Controller())
}

func TestDisposeIsSafeInAnyState(t *testing.T) {
	w := newFakeWindow(1280, 720, 1, desktopUA)
	e, rec := newTestEngine(w)

	e.Dispose()
	require.NoError(t, e.Init())
	e.Dispose()
	e.Dispose()

	assert.True(t, rec.last().IsLost())
	assert.Empty(t, w.pending)
}
