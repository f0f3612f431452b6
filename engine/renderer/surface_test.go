package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
)

func TestBackingSize(t *testing.T) {
	low := capability.ProfileFor(capability.TierLow)
	standard := capability.ProfileFor(capability.TierStandard)

	tcs := []struct {
		name    string
		width   int
		height  int
		dpr     float64
		profile capability.Profile
		want    Surface
	}{
		{"iphone capped at 1", 375, 812, 3, low, Surface{375, 812}},
		{"desktop retina", 1920, 1080, 2, standard, Surface{3840, 2160}},
		{"standard capped at 2", 1000, 500, 3, standard, Surface{2000, 1000}},
		{"fractional ratio rounds", 333, 111, 1.5, standard, Surface{500, 167}},
		{"ratio below one", 800, 600, 0.5, standard, Surface{400, 300}},
		{"zero ratio treated as one", 800, 600, 0, standard, Surface{800, 600}},
		{"negative ratio treated as one", 800, 600, -2, low, Surface{800, 600}},
		{"nan ratio treated as one", 800, 600, math.NaN(), standard, Surface{800, 600}},
		{"empty viewport clamps", 0, 0, 2, standard, Surface{1, 1}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := BackingSize(tc.width, tc.height, tc.dpr, tc.profile)
			assert.Equal(t, tc.want, got)
			assert.False(t, got.Empty())
		})
	}
}

func TestBackingSizeNeverExceedsCap(t *testing.T) {
	for _, tier := range []capability.Tier{capability.TierLow, capability.TierStandard} {
		p := capability.ProfileFor(tier)
		for _, dpr := range []float64{0.75, 1, 1.25, 2, 2.625, 3, 4} {
			s := BackingSize(390, 844, dpr, p)
			assert.LessOrEqual(t, float64(s.Width), 390*p.DPRCap()+0.5)
			assert.LessOrEqual(t, float64(s.Height), 844*p.DPRCap()+0.5)
		}
	}
}

func TestEffectiveDPR(t *testing.T) {
	assert.Equal(t, 1.0, EffectiveDPR(3, capability.ProfileFor(capability.TierLow)))
	assert.Equal(t, 2.0, EffectiveDPR(3, capability.ProfileFor(capability.TierStandard)))
	assert.Equal(t, 1.5, EffectiveDPR(1.5, capability.ProfileFor(capability.TierStandard)))
}
