package common

// Coalesce picks the first argument that is not its type's zero value.
// Config layering uses it to let an override win over a default.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for i := range values {
		if values[i] != zero {
			return values[i]
		}
	}
	return zero
}
