package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRecord(t *testing.T) {
	c := NewCollectors()

	c.FrameRendered(0.001)
	c.FrameRendered(0.002)
	c.FrameSkipped(SkipMemoryPressure)
	c.Resized(750, 1624)
	c.Diagnostic("compile")
	c.State("running", "stopped", "running", "paused")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.FramesRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FramesSkipped.WithLabelValues(SkipMemoryPressure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.FramesSkipped.WithLabelValues(SkipHidden)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Resizes))
	assert.Equal(t, 750.0, testutil.ToFloat64(c.BackingWidth))
	assert.Equal(t, 1624.0, testutil.ToFloat64(c.BackingHeight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Diagnostics.WithLabelValues("compile")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LoopState.WithLabelValues("running")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.LoopState.WithLabelValues("paused")))

	c.State("paused", "stopped", "running", "paused")
	assert.Equal(t, 0.0, testutil.ToFloat64(c.LoopState.WithLabelValues("running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LoopState.WithLabelValues("paused")))
}

func TestNilCollectorsAreNoops(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.FrameRendered(1)
		c.FrameSkipped(SkipHidden)
		c.Resized(1, 1)
		c.Diagnostic("link")
		c.State("running")
	})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesCollectors(t *testing.T) {
	c := NewCollectors()
	c.FrameRendered(0.004)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backdrop_frames_rendered_total 1")
}
