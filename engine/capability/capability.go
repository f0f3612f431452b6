package capability

import (
	"regexp"
	"time"
)

// MobileViewportWidth is the widest viewport, in logical pixels, still classified as low tier.
const MobileViewportWidth = 768

// LowMemoryGiB is the largest device memory hint, in GiB, still classified as low tier.
const LowMemoryGiB = 4.0

var mobileUserAgent = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// Tier is a coarse performance classification.
type Tier int

const (
	// TierStandard is the full quality tier.
	TierStandard Tier = iota

	// TierLow trades resolution and ray-march budget for frame rate.
	TierLow
)

func (t Tier) String() string {
	if t == TierLow {
		return "low"
	}
	return "standard"
}

// Signals are the environment inputs the detector classifies.
type Signals struct {
	// UserAgent is the host's user agent string.
	UserAgent string

	// ViewportWidth is the viewport width in logical pixels.
	ViewportWidth int

	// DeviceMemory is the coarse device memory hint in GiB, or nil when the host does not expose one.
	DeviceMemory *float64
}

// Detect classifies the signals, returning true for the low tier.
// A narrow viewport, a mobile user agent or a memory hint of at most LowMemoryGiB each select the low tier.
// An absent memory hint never does.
//
// Parameters:
//   - s: the environment signals
//
// Returns:
//   - bool: true when the environment should run in low performance mode
func Detect(s Signals) bool {
	if s.ViewportWidth <= MobileViewportWidth {
		return true
	}
	if mobileUserAgent.MatchString(s.UserAgent) {
		return true
	}
	return s.DeviceMemory != nil && *s.DeviceMemory <= LowMemoryGiB
}

// Profile is the immutable result of capability detection.
type Profile struct {
	// LowPerf is true when the environment runs in the low tier.
	LowPerf bool
}

// ProfileFor builds a Profile for the given tier.
//
// Parameters:
//   - t: the tier
//
// Returns:
//   - Profile: the matching profile
func ProfileFor(t Tier) Profile {
	return Profile{LowPerf: t == TierLow}
}

// Tier returns the tier selected by the profile.
func (p Profile) Tier() Tier {
	if p.LowPerf {
		return TierLow
	}
	return TierStandard
}

// DPRCap returns the largest device pixel ratio the backing store may use.
func (p Profile) DPRCap() float64 {
	if p.LowPerf {
		return 1
	}
	return 2
}

// StepBudget returns the ray-march iteration budget baked into the fragment shader.
func (p Profile) StepBudget() int {
	if p.LowPerf {
		return 200
	}
	return 400
}

// ResizeDebounce returns how long resize events settle before the surface is resized.
func (p Profile) ResizeDebounce() time.Duration {
	if p.LowPerf {
		return 300 * time.Millisecond
	}
	return 200 * time.Millisecond
}

// UIInitDelay returns how long the page UI waits before initializing non-critical sections.
func (p Profile) UIInitDelay() time.Duration {
	if p.LowPerf {
		return time.Second
	}
	return 300 * time.Millisecond
}

// AnimatedSelector returns the selector of the overlay sections the UI layer animates into view.
func (p Profile) AnimatedSelector() string {
	if p.LowPerf {
		return ".strategy-section, .strategy-highlight"
	}
	return ".strategy-section, .strategy-card, .strategy-highlight"
}
