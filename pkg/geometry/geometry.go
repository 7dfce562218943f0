// Package geometry holds the coordinate model shared by the floor layout
// editor and the live floor view. Tables are stored in floor-logical
// units; a single uniform fit scale converts between logical units and
// on-screen pixels. All functions are pure.
package geometry

import "math"

const (
	// GridSize is the snap grid for interactive edits, in logical units.
	GridSize = 10

	// MinTableSize is the smallest table edge after a resize.
	MinTableSize = 60

	// MinFitScale and MaxFitScale bound the fit-to-container scale so a
	// huge viewport never blows a floor up past 1:1 and a tiny one never
	// collapses it to nothing.
	MinFitScale = 0.1
	MaxFitScale = 1.0
)

// Rect is a table's position and size in one coordinate space.
type Rect struct {
	X, Y, W, H float64
}

// Snap rounds v to the nearest grid point.
func Snap(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}

// Clamp bounds n to [min, max]. Non-finite input collapses to min.
func Clamp(n, min, max float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return min
	}
	return math.Min(max, math.Max(min, n))
}

// FitScale computes the scale that fits a floor of the given logical
// width into a container of the given pixel width, clamped to
// [MinFitScale, MaxFitScale].
func FitScale(containerWidth, floorWidth float64) float64 {
	if floorWidth <= 0 || containerWidth <= 0 {
		return MaxFitScale
	}
	return Clamp(containerWidth/floorWidth, MinFitScale, MaxFitScale)
}

// ToScreen converts a logical rect to screen pixels at the given scale.
// The scale applies uniformly to position and size.
func (r Rect) ToScreen(scale float64) Rect {
	return Rect{X: r.X * scale, Y: r.Y * scale, W: r.W * scale, H: r.H * scale}
}

// ToLogical converts a screen rect back to logical units. Scale zero (or
// worse) yields the rect unchanged rather than dividing by it.
func (r Rect) ToLogical(scale float64) Rect {
	if scale <= 0 {
		return r
	}
	return Rect{X: r.X / scale, Y: r.Y / scale, W: r.W / scale, H: r.H / scale}
}

// Normalize snaps the rect to the grid and enforces the minimum table
// size. W and H are snapped after clamping so both invariants hold.
func (r Rect) Normalize() Rect {
	w := Snap(math.Max(MinTableSize, r.W))
	h := Snap(math.Max(MinTableSize, r.H))
	if w < MinTableSize {
		w = MinTableSize
	}
	if h < MinTableSize {
		h = MinTableSize
	}
	return Rect{X: Snap(r.X), Y: Snap(r.Y), W: w, H: h}
}

// ResolveDrag maps a pointer drag, given in screen pixels, onto a table's
// logical rect: the delta is unscaled, applied, snapped, and kept inside
// the floor bounds. floorW/floorH of zero disables the bounds clamp.
func ResolveDrag(r Rect, dxPixels, dyPixels, scale, floorW, floorH float64) Rect {
	if scale <= 0 {
		scale = 1
	}
	out := r
	out.X = Snap(r.X + dxPixels/scale)
	out.Y = Snap(r.Y + dyPixels/scale)
	return ClampToFloor(out, floorW, floorH)
}

// Handle identifies which edge or corner a resize grips.
type Handle int

const (
	HandleRight Handle = iota
	HandleBottom
	HandleLeft
	HandleTop
	HandleBottomRight
	HandleBottomLeft
	HandleTopLeft
	HandleTopRight
)

// ResolveResize maps a pointer drag on a resize handle onto a new logical
// rect. Left/top handles move the origin so the opposite edge stays put.
// The result is snapped and clamped to the minimum size, then to the
// floor bounds when given.
func ResolveResize(r Rect, h Handle, dxPixels, dyPixels, scale, floorW, floorH float64) Rect {
	if scale <= 0 {
		scale = 1
	}
	dx := dxPixels / scale
	dy := dyPixels / scale

	out := r
	switch h {
	case HandleRight:
		out.W += dx
	case HandleBottom:
		out.H += dy
	case HandleLeft:
		out.X += dx
		out.W -= dx
	case HandleTop:
		out.Y += dy
		out.H -= dy
	case HandleBottomRight:
		out.W += dx
		out.H += dy
	case HandleBottomLeft:
		out.X += dx
		out.W -= dx
		out.H += dy
	case HandleTopLeft:
		out.X += dx
		out.W -= dx
		out.Y += dy
		out.H -= dy
	case HandleTopRight:
		out.W += dx
		out.Y += dy
		out.H -= dy
	}

	// Keep the anchored edge fixed when the minimum size kicks in.
	if out.W < MinTableSize {
		if h == HandleLeft || h == HandleBottomLeft || h == HandleTopLeft {
			out.X -= MinTableSize - out.W
		}
		out.W = MinTableSize
	}
	if out.H < MinTableSize {
		if h == HandleTop || h == HandleTopLeft || h == HandleTopRight {
			out.Y -= MinTableSize - out.H
		}
		out.H = MinTableSize
	}

	return ClampToFloor(out.Normalize(), floorW, floorH)
}

// ClampToFloor snaps the rect onto the grid and keeps it inside the
// floor canvas.
func ClampToFloor(r Rect, floorW, floorH float64) Rect {
	if floorW > 0 {
		if r.W > floorW {
			r.W = snapDown(floorW)
		}
		r.X = snapWithin(r.X, floorW-r.W)
	}
	if floorH > 0 {
		if r.H > floorH {
			r.H = snapDown(floorH)
		}
		r.Y = snapWithin(r.Y, floorH-r.H)
	}
	return r
}

// snapWithin snaps v to the grid while keeping it in [0, max]. The upper
// bound rounds down so a snapped value never escapes the floor.
func snapWithin(v, max float64) float64 {
	v = Snap(Clamp(v, 0, math.Max(0, max)))
	if v > max {
		v = snapDown(max)
	}
	if v < 0 {
		v = 0
	}
	return v
}

func snapDown(v float64) float64 {
	return math.Floor(v/GridSize) * GridSize
}
