package renderer

import (
	"math"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
)

// Surface is the size of the backing store in device pixels.
type Surface struct {
	Width  int
	Height int
}

// Empty reports whether the surface has not been sized yet.
//
// Returns:
//   - bool: true if either dimension is non-positive
func (s Surface) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// EffectiveDPR caps a device pixel ratio by the profile's tier. A non-positive or NaN ratio counts as 1.
//
// Parameters:
//   - dpr: the reported device pixel ratio
//   - p: the capability profile
//
// Returns:
//   - float64: the ratio used to size the backing store
func EffectiveDPR(dpr float64, p capability.Profile) float64 {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	return math.Min(dpr, p.DPRCap())
}

// BackingSize computes the backing store for a viewport: each logical dimension times the
// effective pixel ratio, rounded and clamped to at least 1.
//
// Parameters:
//   - viewportWidth: viewport width in logical pixels
//   - viewportHeight: viewport height in logical pixels
//   - dpr: the reported device pixel ratio
//   - p: the capability profile
//
// Returns:
//   - Surface: the backing store size
func BackingSize(viewportWidth, viewportHeight int, dpr float64, p capability.Profile) Surface {
	ratio := EffectiveDPR(dpr, p)
	return Surface{
		Width:  common.ScaleRound(viewportWidth, ratio),
		Height: common.ScaleRound(viewportHeight, ratio),
	}
}
