package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// FloatEqual compares with a fixed tolerance suitable for pixel and UV math.
func FloatEqual[T constraints.Float](a, b T) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}
