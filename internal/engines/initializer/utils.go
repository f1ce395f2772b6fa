package initializer

import "math"

// Sentinel returns a previous-strategy vector of n NaNs. NaN never compares equal
// to anything, so a convergence check against it always fails.
func Sentinel(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// Clamp forces every b[i] into [0, bn[i]] in place.
func Clamp(b, bn []float64) {
	for i := range b {
		switch {
		case b[i] < 0 || math.IsNaN(b[i]):
			b[i] = 0
		case b[i] > bn[i]:
			b[i] = bn[i]
		}
	}
}
