package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, SliceToBytes([]float32{1}))
}

func TestScaleRound(t *testing.T) {
	assert.Equal(t, 375, ScaleRound(375, 1))
	assert.Equal(t, 3840, ScaleRound(1920, 2))
	assert.Equal(t, 2, ScaleRound(1, 1.5))
	assert.Equal(t, 1, ScaleRound(0, 2))
	assert.Equal(t, 1, ScaleRound(-10, 1))
}
