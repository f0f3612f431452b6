package profiler

import (
	"math"
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickReportsAfterInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(zap.New(core))
	p.updateInterval = 20 * time.Millisecond

	assert.False(t, p.Tick())
	time.Sleep(25 * time.Millisecond)
	require.True(t, p.Tick())

	assert.Greater(t, p.Last().FPS, 0.0)
	assert.Greater(t, p.Last().SysMB, 0.0)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "frame stats", entry.Message)
	assert.Contains(t, entry.ContextMap(), "fps")

	assert.False(t, p.Tick(), "interval restarts after a report")
}

func TestMemoryEstimate(t *testing.T) {
	prev := debug.SetMemoryLimit(math.MaxInt64)
	defer debug.SetMemoryLimit(prev)

	_, _, ok := MemoryEstimate()
	assert.False(t, ok, "no estimate without a limit")

	debug.SetMemoryLimit(1 << 40)
	used, limit, ok := MemoryEstimate()
	require.True(t, ok)
	assert.Equal(t, uint64(1<<40), limit)
	assert.Greater(t, used, uint64(0))
	assert.Less(t, used, limit)
}
