package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUnitVecCompassConvention(t *testing.T) {
	cases := []struct {
		deg  float64
		want Vec
	}{
		{0, Vec{0, -1}},   // up
		{90, Vec{1, 0}},   // right
		{180, Vec{0, 1}},  // down
		{270, Vec{-1, 0}}, // left
	}
	for _, c := range cases {
		got := UnitVec(c.deg)
		if !almostEqual(got.X, c.want.X) || !almostEqual(got.Y, c.want.Y) {
			t.Errorf("UnitVec(%v) = %+v, want %+v", c.deg, got, c.want)
		}
	}
}

func TestAngleDegRoundTrip(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 15 {
		got := UnitVec(deg).AngleDeg()
		if AngleDiffDeg(got, deg) > 1e-6 {
			t.Errorf("UnitVec(%v).AngleDeg() = %v", deg, got)
		}
	}
}

func TestNormalizeDeg(t *testing.T) {
	if got := NormalizeDeg(-45); got != 315 {
		t.Errorf("NormalizeDeg(-45) = %v, want 315", got)
	}
	if got := NormalizeDeg(725); got != 5 {
		t.Errorf("NormalizeDeg(725) = %v, want 5", got)
	}
}

func TestAngleDiffDeg(t *testing.T) {
	cases := []struct{ a, b, want float64 }{
		{10, 350, 20},
		{350, 10, 20},
		{0, 180, 180},
		{90, 90, 0},
		{90, 0, 90},
	}
	for _, c := range cases {
		if got := AngleDiffDeg(c.a, c.b); !almostEqual(got, c.want) {
			t.Errorf("AngleDiffDeg(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if !a.Intersects(Rect{5, 5, 15, 15}) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(Rect{10, 0, 20, 10}) {
		t.Error("edge-touching rects should not intersect")
	}
	if a.Intersects(Rect{20, 20, 30, 30}) {
		t.Error("disjoint rects should not intersect")
	}
}

func TestRectInsideCanvas(t *testing.T) {
	if !(Rect{0, 0, 10, 10}).InsideCanvas(100, 100) {
		t.Error("rect at origin should be inside")
	}
	if (Rect{-1, 0, 10, 10}).InsideCanvas(100, 100) {
		t.Error("rect past left edge should be outside")
	}
	if (Rect{95, 0, 105, 10}).InsideCanvas(100, 100) {
		t.Error("rect past right edge should be outside")
	}
}

func TestClampCenterToCanvas(t *testing.T) {
	got := ClampCenterToCanvas(Vec{2, 50}, 10, 10, 100, 100)
	if got.X != 10 || got.Y != 50 {
		t.Errorf("clamp left: got %+v", got)
	}
	got = ClampCenterToCanvas(Vec{99, 99}, 10, 10, 100, 100)
	if got.X != 90 || got.Y != 90 {
		t.Errorf("clamp corner: got %+v", got)
	}
	// Unmoved when already inside.
	got = ClampCenterToCanvas(Vec{50, 50}, 10, 10, 100, 100)
	if got.X != 50 || got.Y != 50 {
		t.Errorf("no-op clamp moved the point: got %+v", got)
	}
}

func TestSegmentCrosses(t *testing.T) {
	x := Segment{Vec{0, 0}, Vec{10, 10}}
	cross := Segment{Vec{0, 10}, Vec{10, 0}}
	if !x.Crosses(cross, 0) {
		t.Error("crossing segments not detected")
	}

	parallel := Segment{Vec{0, 1}, Vec{10, 11}}
	if x.Crosses(parallel, 0) {
		t.Error("parallel offset segments should not cross")
	}

	far := Segment{Vec{50, 50}, Vec{60, 50}}
	if x.Crosses(far, 2) {
		t.Error("distant segments should not cross even with tolerance")
	}
}

func TestSegmentCrossesToleranceBand(t *testing.T) {
	s := Segment{Vec{0, 0}, Vec{10, 0}}
	near := Segment{Vec{5, 1}, Vec{5, 8}} // endpoint 1 unit above s
	if !s.Crosses(near, 1.5) {
		t.Error("near-miss within tolerance should count as crossing")
	}
	if s.Crosses(near, 0.5) {
		t.Error("near-miss outside tolerance should not count")
	}
}

func TestSegmentDistToPoint(t *testing.T) {
	s := Segment{Vec{0, 0}, Vec{10, 0}}
	if got := s.DistToPoint(Vec{5, 3}); !almostEqual(got, 3) {
		t.Errorf("perpendicular distance = %v, want 3", got)
	}
	if got := s.DistToPoint(Vec{13, 4}); !almostEqual(got, 5) {
		t.Errorf("beyond-endpoint distance = %v, want 5", got)
	}
}

func TestRectOfSegment(t *testing.T) {
	r := RectOfSegment(Segment{Vec{10, 20}, Vec{4, 2}}, 3)
	want := Rect{1, -1, 13, 23}
	if r != want {
		t.Errorf("RectOfSegment = %+v, want %+v", r, want)
	}
}
