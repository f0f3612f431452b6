package common

import (
	"math"
	"unsafe"
)

// SliceToBytes reinterprets a slice of fixed-size values as raw bytes without copying.
// The returned slice aliases data and is only valid while data is.
//
// Parameters:
//   - data: the slice to reinterpret
//
// Returns:
//   - []byte: the raw bytes of data, or nil if data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// ScaleRound multiplies a logical dimension by a pixel ratio and rounds half away from zero,
// clamping the result to at least 1.
//
// Parameters:
//   - v: the logical dimension
//   - ratio: the pixel ratio
//
// Returns:
//   - int: the scaled dimension, never below 1
func ScaleRound(v int, ratio float64) int {
	scaled := int(math.Round(float64(v) * ratio))
	if scaled < 1 {
		return 1
	}
	return scaled
}
