package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	tcs := []struct {
		name  string
		input string
		want  RGB
	}{
		{name: "short white", input: "#fff", want: RGB{R: 1, G: 1, B: 1}},
		{name: "long black", input: "#000000", want: RGB{}},
		{name: "long red", input: "#ff0000", want: RGB{R: 1}},
		{name: "short mixed", input: "#0f0", want: RGB{G: 1}},
		{name: "upper case", input: "#FF0000", want: RGB{R: 1}},
		{name: "trimmed", input: "  #00f \n", want: RGB{B: 1}},
		{name: "named color", input: "red", want: Black},
		{name: "missing hash", input: "ff0000", want: Black},
		{name: "wrong length", input: "#ff00", want: Black},
		{name: "eight digits", input: "#ff0000ff", want: Black},
		{name: "non hex digit", input: "#gg0000", want: Black},
		{name: "empty", input: "", want: Black},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseHexColor(tc.input))
		})
	}
}

func TestParseHexColorMidTone(t *testing.T) {
	got := ParseHexColor("#336699")
	assert.InDelta(t, 0x33/255.0, got.R, 1e-6)
	assert.InDelta(t, 0x66/255.0, got.G, 1e-6)
	assert.InDelta(t, 0x99/255.0, got.B, 1e-6)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
