package geometry

import "math"

// Chair placement constants, in the table's own coordinate space.
const (
	surfaceInset = 18 // gap between the table footprint and its drawn surface
	chairSpacing = 14 // margin before the first and after the last chair on a side
	chairOffset  = 10 // distance from the surface edge to the chair center
)

// Side is one of the four perimeter sides of a table.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// Chair is one placed chair: center position within the table footprint
// and the rotation that points its back away from the surface.
type Chair struct {
	X, Y     float64
	Rotation float64
	Side     Side
}

// ChairLayout distributes count chairs around a table footprint of the
// given width and height. Chairs are assigned to sides round-robin
// (top, right, bottom, left) and spaced evenly between the side's
// margins, so side counts never differ by more than one. The layout is a
// pure function of its inputs. Shape only affects the drawn surface:
// square and round tables use a centered square footprint.
func ChairLayout(width, height float64, count int, shape string) []Chair {
	w := math.Max(MinTableSize, width)
	h := math.Max(MinTableSize, height)
	if count < 0 {
		count = 0
	}
	if count > MaxChairs {
		count = MaxChairs
	}
	if count == 0 {
		return nil
	}

	surfW := w - surfaceInset*2
	surfH := h - surfaceInset*2
	if shape == "square" || shape == "round" {
		base := w
		if h < w {
			base = h
		}
		surfW = base - surfaceInset*2
		surfH = surfW
	}
	surfX := (w - surfW) / 2
	surfY := (h - surfH) / 2

	var perSide [4]int
	for i := 0; i < count; i++ {
		perSide[i%4]++
	}

	chairs := make([]Chair, 0, count)
	for _, cx := range spread(perSide[SideTop], surfX, surfX+surfW) {
		chairs = append(chairs, Chair{X: cx, Y: surfY - chairOffset, Rotation: 0, Side: SideTop})
	}
	for _, cy := range spread(perSide[SideRight], surfY, surfY+surfH) {
		chairs = append(chairs, Chair{X: surfX + surfW + chairOffset, Y: cy, Rotation: 90, Side: SideRight})
	}
	for _, cx := range spread(perSide[SideBottom], surfX, surfX+surfW) {
		chairs = append(chairs, Chair{X: cx, Y: surfY + surfH + chairOffset, Rotation: 180, Side: SideBottom})
	}
	for _, cy := range spread(perSide[SideLeft], surfY, surfY+surfH) {
		chairs = append(chairs, Chair{X: surfX - chairOffset, Y: cy, Rotation: 270, Side: SideLeft})
	}
	return chairs
}

// MaxChairs caps the chairs drawn for one table, matching the capacity
// bound on the table itself.
const MaxChairs = 50

// spread returns n evenly spaced positions between start and end, inset
// by the chair spacing on both ends. A span too small for the insets
// piles everything at the midpoint; a single chair sits centered.
func spread(n int, start, end float64) []float64 {
	if n <= 0 {
		return nil
	}
	s := start + chairSpacing
	e := end - chairSpacing
	out := make([]float64, n)
	if e <= s {
		mid := (start + end) / 2
		for i := range out {
			out[i] = mid
		}
		return out
	}
	if n == 1 {
		out[0] = (s + e) / 2
		return out
	}
	step := (e - s) / float64(n-1)
	for i := range out {
		out[i] = s + float64(i)*step
	}
	return out
}
