package geometry

import (
	"math"
	"testing"
)

func TestSnap(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{4, 0},
		{5, 10},
		{14.9, 10},
		{123, 120},
		{125, 130},
		{-7, -10},
	}
	for _, c := range cases {
		if got := Snap(c.in); got != c.want {
			t.Errorf("Snap(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFitScaleClamped(t *testing.T) {
	if got := FitScale(500, 1000); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := FitScale(5000, 1000); got != MaxFitScale {
		t.Errorf("expected clamp to %v, got %v", MaxFitScale, got)
	}
	if got := FitScale(50, 1000); got != MinFitScale {
		t.Errorf("expected clamp to %v, got %v", MinFitScale, got)
	}
	if got := FitScale(500, 0); got != MaxFitScale {
		t.Errorf("zero floor width should fall back to %v, got %v", MaxFitScale, got)
	}
}

func TestScaleRoundTrip(t *testing.T) {
	r := Rect{X: 120, Y: 340, W: 140, H: 120}
	scale := 0.5
	back := r.ToScreen(scale).ToLogical(scale)
	if back != r {
		t.Errorf("round trip changed rect: %+v -> %+v", r, back)
	}
}

func TestResolveDragSnapsAndClamps(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 120, H: 120}

	got := ResolveDrag(r, 33, -17, 0.5, 1000, 800)
	// 33px at scale 0.5 is 66 logical units, snapped to 70; -17px is -34, snapped to -30.
	if got.X != 170 || got.Y != 70 {
		t.Errorf("unexpected drag result: %+v", got)
	}
	if math.Mod(got.X, GridSize) != 0 || math.Mod(got.Y, GridSize) != 0 {
		t.Errorf("drag result off grid: %+v", got)
	}

	// Dragging far past the floor edge stays inside.
	got = ResolveDrag(r, 100000, 100000, 1, 1000, 800)
	if got.X+got.W > 1000 || got.Y+got.H > 800 {
		t.Errorf("drag escaped floor: %+v", got)
	}
	got = ResolveDrag(r, -100000, -100000, 1, 1000, 800)
	if got.X < 0 || got.Y < 0 {
		t.Errorf("drag escaped floor origin: %+v", got)
	}
}

func TestResolveResizeMinimumSize(t *testing.T) {
	r := Rect{X: 200, Y: 200, W: 120, H: 120}

	got := ResolveResize(r, HandleBottomRight, -500, -500, 1, 1000, 800)
	if got.W != MinTableSize || got.H != MinTableSize {
		t.Errorf("expected minimum size %d, got %+v", MinTableSize, got)
	}

	// Shrinking from the left keeps the right edge fixed.
	got = ResolveResize(r, HandleLeft, 500, 0, 1, 1000, 800)
	if got.W != MinTableSize {
		t.Errorf("expected minimum width, got %+v", got)
	}
	if got.X+got.W != r.X+r.W {
		t.Errorf("right edge moved: %+v", got)
	}
}

func TestResolveResizeOnGrid(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 120, H: 120}
	handles := []Handle{HandleRight, HandleBottom, HandleLeft, HandleTop, HandleBottomRight, HandleBottomLeft, HandleTopLeft, HandleTopRight}
	for _, h := range handles {
		got := ResolveResize(r, h, 37, 23, 1, 1000, 800)
		for name, v := range map[string]float64{"x": got.X, "y": got.Y, "w": got.W, "h": got.H} {
			if math.Mod(v, GridSize) != 0 {
				t.Errorf("handle %d: %s=%v not on grid", h, name, v)
			}
		}
		if got.W < MinTableSize || got.H < MinTableSize {
			t.Errorf("handle %d: below minimum size: %+v", h, got)
		}
	}
}

func TestResolveResizeTopRight(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 120, H: 120}

	// Dragging the top-right corner up and out grows width, pulls the
	// top edge up, and leaves the left edge anchored.
	got := ResolveResize(r, HandleTopRight, 40, -20, 1, 1000, 800)
	if got.X != 100 {
		t.Errorf("left edge must stay anchored, got x=%v", got.X)
	}
	if got.W != 160 || got.Y != 80 || got.H != 140 {
		t.Errorf("unexpected rect: %+v", got)
	}

	// Shrinking below the minimum keeps the bottom edge fixed.
	got = ResolveResize(r, HandleTopRight, 0, 100, 1, 1000, 800)
	if got.H != MinTableSize {
		t.Errorf("expected minimum height, got %v", got.H)
	}
	if got.Y+got.H != r.Y+r.H {
		t.Errorf("bottom edge moved: %+v", got)
	}
}

func TestNormalize(t *testing.T) {
	got := Rect{X: 13, Y: 27, W: 10, H: 45}.Normalize()
	if got.X != 10 || got.Y != 30 {
		t.Errorf("position not snapped: %+v", got)
	}
	if got.W != MinTableSize || got.H != MinTableSize {
		t.Errorf("size not clamped: %+v", got)
	}
}

func TestChairLayoutCountAndBalance(t *testing.T) {
	for count := 0; count <= MaxChairs; count++ {
		chairs := ChairLayout(140, 120, count, "rect")
		if len(chairs) != count {
			t.Fatalf("count %d: placed %d chairs", count, len(chairs))
		}

		var perSide [4]int
		for _, c := range chairs {
			perSide[c.Side]++
		}
		min, max := count, 0
		for _, n := range perSide {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		if count >= 4 && max-min > 1 {
			t.Errorf("count %d: unbalanced sides %v", count, perSide)
		}
	}
}

func TestChairLayoutDeterministic(t *testing.T) {
	a := ChairLayout(160, 100, 7, "rect")
	b := ChairLayout(160, 100, 7, "rect")
	if len(a) != len(b) {
		t.Fatalf("lengths differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chair %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestChairLayoutRoundUsesSquareFootprint(t *testing.T) {
	chairs := ChairLayout(200, 100, 4, "round")
	// One chair per side; top and bottom chairs must be horizontally
	// centered on the square surface.
	var top, bottom *Chair
	for i := range chairs {
		switch chairs[i].Side {
		case SideTop:
			top = &chairs[i]
		case SideBottom:
			bottom = &chairs[i]
		}
	}
	if top == nil || bottom == nil {
		t.Fatalf("missing top or bottom chair: %+v", chairs)
	}
	if top.X != 100 || bottom.X != 100 {
		t.Errorf("round table chairs not centered: top=%v bottom=%v", top.X, bottom.X)
	}
}

func TestChairLayoutCapsCount(t *testing.T) {
	if got := len(ChairLayout(140, 120, 500, "rect")); got != MaxChairs {
		t.Errorf("expected cap at %d, got %d", MaxChairs, got)
	}
	if got := ChairLayout(140, 120, -3, "rect"); got != nil {
		t.Errorf("negative count should place nothing, got %v", got)
	}
}
