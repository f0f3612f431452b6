package common

import (
	"strconv"
	"strings"
)

// RGB is a normalized color with each channel in the range [0, 1].
type RGB struct {
	R float32
	G float32
	B float32
}

// Black is the fallback color for any value ParseHexColor cannot read.
var Black = RGB{}

// ParseHexColor converts a '#'-prefixed 3 or 6 digit hex color into a normalized RGB triple.
// Surrounding whitespace is ignored. Any other input, including a digit that is not hex, yields Black.
//
// Parameters:
//   - value: the color string, e.g. "#fff" or "#1a2b3c"
//
// Returns:
//   - RGB: the parsed color, or Black if the value is malformed
func ParseHexColor(value string) RGB {
	value = strings.TrimSpace(value)
	hex, ok := strings.CutPrefix(value, "#")
	if !ok {
		return Black
	}

	var channels [3]string
	switch len(hex) {
	case 3:
		for i := range channels {
			channels[i] = strings.Repeat(hex[i:i+1], 2)
		}
	case 6:
		for i := range channels {
			channels[i] = hex[i*2 : i*2+2]
		}
	default:
		return Black
	}

	var out [3]float32
	for i, c := range channels {
		v, err := strconv.ParseUint(c, 16, 8)
		if err != nil {
			return Black
		}
		out[i] = float32(v) / 255
	}
	return RGB{R: out[0], G: out[1], B: out[2]}
}
