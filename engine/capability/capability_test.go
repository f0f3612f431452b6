package capability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
const iPhoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"

func gib(v float64) *float64 { return &v }

func TestDetect(t *testing.T) {
	tcs := []struct {
		name    string
		signals Signals
		want    bool
	}{
		{name: "desktop without memory hint", signals: Signals{UserAgent: desktopUA, ViewportWidth: 1920}, want: false},
		{name: "desktop with plenty of memory", signals: Signals{UserAgent: desktopUA, ViewportWidth: 1920, DeviceMemory: gib(8)}, want: false},
		{name: "desktop with low memory", signals: Signals{UserAgent: desktopUA, ViewportWidth: 1920, DeviceMemory: gib(4)}, want: true},
		{name: "narrow viewport boundary", signals: Signals{UserAgent: desktopUA, ViewportWidth: 768}, want: true},
		{name: "just above boundary", signals: Signals{UserAgent: desktopUA, ViewportWidth: 769}, want: false},
		{name: "iphone", signals: Signals{UserAgent: iPhoneUA, ViewportWidth: 375}, want: true},
		{name: "wide android tablet", signals: Signals{UserAgent: "Mozilla/5.0 (Linux; Android 14)", ViewportWidth: 1280}, want: true},
		{name: "case insensitive match", signals: Signals{UserAgent: "opera mini/8", ViewportWidth: 1280}, want: true},
		{name: "zero memory hint", signals: Signals{UserAgent: desktopUA, ViewportWidth: 1920, DeviceMemory: gib(0)}, want: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(tc.signals))
			assert.Equal(t, tc.want, Detect(tc.signals), "detection must be deterministic")
		})
	}
}

func TestProfileParameters(t *testing.T) {
	low := ProfileFor(TierLow)
	std := ProfileFor(TierStandard)

	assert.True(t, low.LowPerf)
	assert.Equal(t, TierLow, low.Tier())
	assert.Equal(t, 1.0, low.DPRCap())
	assert.Equal(t, 200, low.StepBudget())
	assert.Equal(t, 300*time.Millisecond, low.ResizeDebounce())
	assert.Equal(t, time.Second, low.UIInitDelay())
	assert.NotContains(t, low.AnimatedSelector(), "strategy-card")

	assert.False(t, std.LowPerf)
	assert.Equal(t, TierStandard, std.Tier())
	assert.Equal(t, 2.0, std.DPRCap())
	assert.Equal(t, 400, std.StepBudget())
	assert.Equal(t, 200*time.Millisecond, std.ResizeDebounce())
	assert.Equal(t, 300*time.Millisecond, std.UIInitDelay())
	assert.Contains(t, std.AnimatedSelector(), "strategy-card")

	assert.Equal(t, "low", TierLow.String())
	assert.Equal(t, "standard", TierStandard.String())
}

type fakeEnvironment struct {
	ua       string
	width    int
	memory   float64
	hasMem   bool
	markings int
}

func (f *fakeEnvironment) UserAgent() string { return f.ua }
func (f *fakeEnvironment) Width() int        { return f.width }
func (f *fakeEnvironment) DeviceMemory() (float64, bool) {
	return f.memory, f.hasMem
}
func (f *fakeEnvironment) MarkLowPerf() { f.markings++ }

func TestDetectorMarksLowTier(t *testing.T) {
	env := &fakeEnvironment{ua: iPhoneUA, width: 375}
	p := NewDetector(env, nil).Detect()

	require.True(t, p.LowPerf)
	assert.Equal(t, 1, env.markings)
	assert.Equal(t, 200, p.StepBudget())
	assert.Equal(t, 1.0, p.DPRCap())
}

func TestDetectorLeavesStandardTierUnmarked(t *testing.T) {
	env := &fakeEnvironment{ua: desktopUA, width: 1920}
	d := NewDetector(env, nil)
	p := d.Detect()

	require.False(t, p.LowPerf)
	assert.Zero(t, env.markings)
	assert.Nil(t, d.Signals().DeviceMemory)
	assert.Equal(t, 400, p.StepBudget())
}

func TestDetectorForwardsMemoryHint(t *testing.T) {
	env := &fakeEnvironment{ua: desktopUA, width: 1920, memory: 2, hasMem: true}
	d := NewDetector(env, nil)

	s := d.Signals()
	require.NotNil(t, s.DeviceMemory)
	assert.Equal(t, 2.0, *s.DeviceMemory)
	assert.True(t, d.Detect().LowPerf)
}
