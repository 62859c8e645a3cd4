// Package util holds small numeric helpers shared by layout and view code.
package util

import "math"

// Clamp limits v to [lo, hi]. Callers must pass lo <= hi.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
