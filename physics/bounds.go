package physics

// Bounds is the drawing surface in world units
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the middle of the surface
func (b Bounds) Center() (float64, float64) {
	return b.Width / 2, b.Height / 2
}

// Clamp pins (x, y) into [r, W-r] x [r, H-r]. A dimension smaller than the
// node's diameter clamps to the centre of that dimension.
func (b Bounds) Clamp(x, y, r float64) (float64, float64) {
	return clampAxis(x, r, b.Width), clampAxis(y, r, b.Height)
}

// Contains reports whether (x, y) is inside the clamped region for radius r
func (b Bounds) Contains(x, y, r float64) bool {
	cx, cy := b.Clamp(x, y, r)
	return cx == x && cy == y
}

func clampAxis(v, r, extent float64) float64 {
	lo, hi := r, extent-r
	if lo > hi {
		return extent / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
