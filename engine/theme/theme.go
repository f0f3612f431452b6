package theme

import (
	"sync/atomic"
)

// DefaultBackground is used when no theme supplies a color.
const DefaultBackground = "#000000"

// Source supplies the page background color. It is read once per frame.
type Source interface {
	// BackgroundColor returns the current background as a '#'-prefixed hex string.
	// Implementations may return any string; unparseable values render as black.
	//
	// Returns:
	//   - string: the background color
	BackgroundColor() string
}

// Static is a Source with a fixed color.
type Static string

// BackgroundColor returns the fixed color.
func (s Static) BackgroundColor() string {
	return string(s)
}

// Value is a Source whose color can be replaced from any goroutine.
type Value struct {
	color atomic.Value
}

// NewValue creates a Value holding color.
//
// Parameters:
//   - color: the initial background color
//
// Returns:
//   - *Value: the source
func NewValue(color string) *Value {
	v := &Value{}
	v.color.Store(color)
	return v
}

// Set replaces the color.
func (v *Value) Set(color string) {
	v.color.Store(color)
}

func (v *Value) BackgroundColor() string {
	s, _ := v.color.Load().(string)
	return s
}
