package renderer_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/metrics"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/theme"
)

func setUpRenderer(t *testing.T, ctx *renderertest.Context, options ...renderer.RendererBuilderOption) renderer.Renderer {
	t.Helper()
	r := renderer.NewRenderer(ctx, options...)
	require.NoError(t, r.Setup())
	return r
}

func TestSetupBuildsProgramAndQuad(t *testing.T) {
	ctx := renderertest.NewContext()
	r := setUpRenderer(t, ctx, renderer.WithProfile(capability.ProfileFor(capability.TierLow)))

	p := r.Program()
	require.True(t, p.Linked())
	assert.Equal(t, shader.Location(0), p.Position)
	assert.Equal(t, shader.Location(1), p.Resolution)
	assert.Equal(t, shader.Location(2), p.Time)

	require.Len(t, ctx.Data, 1)
	for _, data := range ctx.Data {
		assert.Equal(t, renderer.QuadVertices[:], data)
	}
	assert.Equal(t, []string{"VertexLayout(4,0,2)"}, ctx.Calls)
	assert.Equal(t, capability.TierLow, r.Profile().Tier())
}

func TestSetupOnLostContext(t *testing.T) {
	ctx := renderertest.NewContext()
	ctx.Lost = true

	err := renderer.NewRenderer(ctx).Setup()
	assert.ErrorIs(t, err, renderer.ErrNoContext)
}

func TestResizeIsIdempotent(t *testing.T) {
	ctx := renderertest.NewContext()
	c := metrics.NewCollectors()
	r := setUpRenderer(t, ctx, renderer.WithMetrics(c))
	ctx.Reset()

	s := r.Resize(1920, 1080, 2)
	assert.Equal(t, renderer.Surface{Width: 3840, Height: 2160}, s)
	assert.Equal(t, s, r.Resize(1920, 1080, 2))
	assert.Equal(t, s, r.Resize(1920, 1080, 3))
	assert.Equal(t, []string{"Viewport(0,0,3840,2160)"}, ctx.Calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Resizes))

	r.Resize(1280, 720, 1)
	assert.Equal(t, []string{"Viewport(0,0,3840,2160)", "Viewport(0,0,1280,720)"}, ctx.Calls)
	assert.Equal(t, renderer.Surface{Width: 1280, Height: 720}, r.Surface())
	assert.Equal(t, 1280.0, testutil.ToFloat64(c.BackingWidth))
}

func TestRenderDrawsFrame(t *testing.T) {
	ctx := renderertest.NewContext()
	c := metrics.NewCollectors()
	r := setUpRenderer(t, ctx,
		renderer.WithProfile(capability.ProfileFor(capability.TierLow)),
		renderer.WithTheme(theme.Static("#ff0000")),
		renderer.WithMetrics(c),
	)
	r.Resize(375, 812, 3)
	ctx.Reset()

	r.Render(1500)

	assert.Equal(t, []string{
		"ClearColor(1,0,0,1)",
		"Clear",
		"UseProgram",
		"BindBuffer",
		"Uniform2f(1,375,812)",
		"Uniform1f(2,1.5)",
		"DrawTriangleStrip(0,4)",
		"Present",
	}, ctx.Calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FramesRendered))
}

func TestRenderBackgroundColors(t *testing.T) {
	tcs := []struct {
		name  string
		color string
		want  string
	}{
		{"short white", "#fff", "ClearColor(1,1,1,1)"},
		{"long black", "#000000", "ClearColor(0,0,0,1)"},
		{"named color is black", "red", "ClearColor(0,0,0,1)"},
		{"empty is black", "", "ClearColor(0,0,0,1)"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := renderertest.NewContext()
			r := setUpRenderer(t, ctx, renderer.WithTheme(theme.Static(tc.color)))
			ctx.Reset()

			r.Render(0)
			require.NotEmpty(t, ctx.Calls)
			assert.Equal(t, tc.want, ctx.Calls[0])
		})
	}
}

func TestRenderReadsThemeEveryFrame(t *testing.T) {
	ctx := renderertest.NewContext()
	bg := theme.NewValue("#000")
	r := setUpRenderer(t, ctx, renderer.WithTheme(bg))
	ctx.Reset()

	r.Render(0)
	bg.Set("#fff")
	r.Render(16)

	assert.Contains(t, ctx.Calls, "ClearColor(0,0,0,1)")
	assert.Contains(t, ctx.Calls, "ClearColor(1,1,1,1)")
}

func TestRenderWithUnlinkedProgramOnlyClears(t *testing.T) {
	ctx := renderertest.NewContext()
	ctx.FailLink = true
	c := metrics.NewCollectors()
	var reported []shader.Diagnostic
	r := setUpRenderer(t, ctx,
		renderer.WithMetrics(c),
		renderer.WithDiagnosticSink(shader.DiagnosticSinkFunc(func(d shader.Diagnostic) {
			reported = append(reported, d)
		})),
	)
	ctx.Reset()

	r.Render(0)

	assert.False(t, r.Program().Linked())
	assert.Equal(t, []string{"ClearColor(0,0,0,1)", "Clear", "Present"}, ctx.Calls)
	require.Len(t, reported, 1)
	assert.Equal(t, shader.DiagnosticLink, reported[0].Kind)
	assert.Equal(t, "link error", reported[0].Log)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Diagnostics.WithLabelValues("link")))
}

func TestDisposeReleasesAndLosesContext(t *testing.T) {
	ctx := renderertest.NewContext()
	r := setUpRenderer(t, ctx)
	r.Resize(800, 600, 1)
	p := r.Program()

	r.Dispose()

	assert.True(t, ctx.Deleted[uint32(p.Handle)])
	assert.True(t, ctx.Deleted[uint32(p.Vertex)])
	assert.True(t, ctx.Deleted[uint32(p.Fragment)])
	assert.True(t, ctx.Deleted[4])
	assert.True(t, ctx.IsLost())
	assert.Nil(t, r.Program())
	assert.True(t, r.Surface().Empty())

	ctx.Reset()
	r.Render(0)
	r.Dispose()
	assert.Empty(t, ctx.Calls)
}

func TestSetupAfterRestore(t *testing.T) {
	tcs := []struct {
		name        string
		failRestore bool
		wantErr     error
	}{
		{name: "restored"},
		{name: "restore refused", failRestore: true, wantErr: renderer.ErrNoContext},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := renderertest.NewContext()
			setUpRenderer(t, ctx).Dispose()
			require.True(t, ctx.IsLost())
			ctx.FailRestore = tc.failRestore

			err := ctx.Restore()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, renderer.NewRenderer(ctx).Setup(), renderer.ErrNoContext)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, ctx.Restore())
			assert.Equal(t, 1, ctx.Restores)

			r := setUpRenderer(t, ctx)
			r.Resize(800, 600, 1)
			ctx.Reset()
			r.Render(16)
			assert.Contains(t, ctx.Calls, "DrawTriangleStrip(0,4)")
			assert.Contains(t, ctx.Calls, "Present")
		})
	}
}
