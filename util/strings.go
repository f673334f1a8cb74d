package util

// Coalesce returns the first non-zero value, or the zero value when every
// argument is zero. Config code uses it to layer explicit settings over
// defaults.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
