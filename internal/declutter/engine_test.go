package declutter

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrace-data/declutter/internal/geom"
)

func testContent() Content {
	return Content{
		Full:    geom.Size{W: 70, H: 26},
		Reduced: geom.Size{W: 70, H: 13},
	}
}

func testCanvas() geom.Size { return geom.Size{W: 800, H: 600} }

// labelBox is the bounding box the renderer would draw for a result.
func labelBox(res Result, content Content) geom.Rect {
	size := content.Variant(res.Reduced)
	return geom.RectAround(res.Anchor, size.W/2, size.H/2)
}

func TestPlaceSingleMarkerRestPosition(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	cfg := placer.Config()

	res := placer.Place(Request{
		Marker:   Marker{ID: "m1", Pos: geom.Vec{X: 400, Y: 300}, HeadingDeg: 0},
		Content:  testContent(),
		Canvas:   testCanvas(),
		Registry: NewRegistry(),
	})

	assert.Equal(t, cfg.RestAngleDeg, res.OffsetDeg)
	assert.Equal(t, cfg.PreferredLeaderLength, res.Length)
	assert.Equal(t, cfg.RestAngleDeg, res.AngleDeg)
	assert.False(t, res.Reduced)
	assert.Equal(t, AttemptFullPreferred, res.Attempt)

	// Anchor sits at the rest offset: 135° compass, 60 units out.
	want := geom.Vec{X: 400, Y: 300}.Add(geom.UnitVec(135).Scale(60))
	assert.InDelta(t, want.X, res.Anchor.X, 1e-9)
	assert.InDelta(t, want.Y, res.Anchor.Y, 1e-9)
}

func TestPlaceSecondMarkerAvoidsFirst(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	cfg := placer.Config()
	content := testContent()
	reg := NewRegistry()

	m1 := Marker{ID: "m1", Pos: geom.Vec{X: 380, Y: 300}, HeadingDeg: 0}
	m2 := Marker{ID: "m2", Pos: geom.Vec{X: 400, Y: 300}, HeadingDeg: 0}

	res1 := placer.Place(Request{
		Marker: m1, Content: content, Canvas: testCanvas(),
		Others: []geom.Vec{m2.Pos}, Registry: reg,
	})
	require.Equal(t, cfg.RestAngleDeg, res1.OffsetDeg, "first marker should win the rest position")
	reg.RegisterResult(m1, res1, content)

	res2 := placer.Place(Request{
		Marker: m2, Content: content, Canvas: testCanvas(),
		Others: []geom.Vec{m1.Pos}, Registry: reg,
	})

	// The rest position collides with the first label, so the second marker
	// must land somewhere else.
	assert.NotEqual(t, cfg.RestAngleDeg, res2.OffsetDeg)
	assert.False(t, labelBox(res2, content).Intersects(labelBox(res1, content)),
		"labels must not overlap")
	assert.GreaterOrEqual(t, res2.Anchor.Dist(m1.Pos), cfg.MinDistToMarker)
	assert.True(t, labelBox(res2, content).InsideCanvas(800, 600))
}

func TestPlaceNearCanvasEdge(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	cfg := placer.Config()
	content := testContent()

	// Close to the right edge: the rest anchor's box would run off-canvas.
	res := placer.Place(Request{
		Marker:   Marker{ID: "m1", Pos: geom.Vec{X: 780, Y: 300}, HeadingDeg: 0},
		Content:  content,
		Canvas:   testCanvas(),
		Registry: NewRegistry(),
	})

	assert.True(t, labelBox(res, content).InsideCanvas(800, 600),
		"label must stay on the canvas")
	assert.NotEqual(t, cfg.RestAngleDeg, res.OffsetDeg)
}

func TestPlaceDenseClusterAlwaysPlaces(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	cfg := placer.Config()
	content := testContent()
	reg := NewRegistry()

	// 20 markers packed into a 150×120 block mid-canvas.
	markers := make([]Marker, 20)
	for i := range markers {
		markers[i] = Marker{
			ID:         string(rune('a' + i)),
			Pos:        geom.Vec{X: 330 + float64(i%5)*30, Y: 250 + float64(i/5)*40},
			HeadingDeg: geom.NormalizeDeg(float64(i * 37)),
		}
	}

	for i, m := range markers {
		others := make([]geom.Vec, 0, len(markers)-1)
		for j, o := range markers {
			if j != i {
				others = append(others, o.Pos)
			}
		}
		res := placer.Place(Request{
			Marker: m, Content: content, Canvas: testCanvas(),
			Others: others, Registry: reg, Quality: true,
		})
		reg.RegisterResult(m, res, content)

		if res.Length < cfg.MinLeaderLength || res.Length > cfg.MaxLeaderLength {
			t.Errorf("marker %s: leader length %v outside [%v, %v]",
				m.ID, res.Length, cfg.MinLeaderLength, cfg.MaxLeaderLength)
		}
		if !labelBox(res, content).InsideCanvas(800, 600) {
			t.Errorf("marker %s: label %+v off canvas", m.ID, labelBox(res, content))
		}
		if math.IsNaN(res.AngleDeg) || math.IsNaN(res.Anchor.X) || math.IsNaN(res.Anchor.Y) {
			t.Errorf("marker %s: NaN in result %+v", m.ID, res)
		}
	}
}

func TestPlaceSparseSceneNoOverlaps(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	content := testContent()
	reg := NewRegistry()

	markers := []Marker{
		{ID: "a", Pos: geom.Vec{X: 200, Y: 150}, HeadingDeg: 10},
		{ID: "b", Pos: geom.Vec{X: 600, Y: 150}, HeadingDeg: 100},
		{ID: "c", Pos: geom.Vec{X: 200, Y: 450}, HeadingDeg: 190},
		{ID: "d", Pos: geom.Vec{X: 600, Y: 450}, HeadingDeg: 280},
	}

	var boxes []geom.Rect
	for i, m := range markers {
		others := make([]geom.Vec, 0, len(markers)-1)
		for j, o := range markers {
			if j != i {
				others = append(others, o.Pos)
			}
		}
		res := placer.Place(Request{
			Marker: m, Content: content, Canvas: testCanvas(),
			Others: others, Registry: reg,
		})
		reg.RegisterResult(m, res, content)
		boxes = append(boxes, labelBox(res, content))
	}

	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Intersects(boxes[j]) {
				t.Errorf("labels %d and %d overlap: %+v vs %+v", i, j, boxes[i], boxes[j])
			}
		}
	}
}

func TestPlaceDeterministic(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	content := testContent()

	markers := []Marker{
		{ID: "a", Pos: geom.Vec{X: 380, Y: 290}, HeadingDeg: 45},
		{ID: "b", Pos: geom.Vec{X: 410, Y: 305}, HeadingDeg: 200},
		{ID: "c", Pos: geom.Vec{X: 395, Y: 330}, HeadingDeg: 310},
		{ID: "d", Pos: geom.Vec{X: 430, Y: 280}, HeadingDeg: 90},
	}

	run := func() []Result {
		reg := NewRegistry()
		out := make([]Result, 0, len(markers))
		for i, m := range markers {
			others := make([]geom.Vec, 0, len(markers)-1)
			for j, o := range markers {
				if j != i {
					others = append(others, o.Pos)
				}
			}
			res := placer.Place(Request{
				Marker: m, Content: content, Canvas: testCanvas(),
				Others: others, Registry: reg, Quality: true,
			})
			reg.RegisterResult(m, res, content)
			out = append(out, res)
		}
		return out
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("identical inputs produced different placements (-first +second):\n%s", diff)
	}
}

func TestPlaceHeadingUpObserver(t *testing.T) {
	placer := NewPlacer(DefaultConfig())

	marker := Marker{ID: "m1", Pos: geom.Vec{X: 400, Y: 300}, HeadingDeg: 90}

	// Heading-up: the observer also heads 090, so the marker draws as if
	// heading up and the rest leader points to 135° absolute.
	up := placer.Place(Request{
		Marker: marker, Content: testContent(), Canvas: testCanvas(),
		Observer: Observer{HeadingDeg: 90, HeadingUp: true},
		Registry: NewRegistry(),
	})
	assert.InDelta(t, 135.0, up.AngleDeg, 1e-9)
	assert.InDelta(t, 135.0, up.OffsetDeg, 1e-9)

	// Fixed-north: the same marker trails at 90+135 = 225° absolute.
	north := placer.Place(Request{
		Marker: marker, Content: testContent(), Canvas: testCanvas(),
		Observer: Observer{HeadingDeg: 90, HeadingUp: false},
		Registry: NewRegistry(),
	})
	assert.InDelta(t, 225.0, north.AngleDeg, 1e-9)
	assert.InDelta(t, 135.0, north.OffsetDeg, 1e-9)
}

// blockRestStrip returns a registry holding one thin furniture strip that
// overlaps the rest-position label box of a marker at (400,300) heading 000,
// without touching the slightly rotated box used in the stability tests.
func blockRestStrip() *Registry {
	reg := NewRegistry()
	reg.AddRegion(geom.Rect{Left: 407, Top: 325, Right: 478, Bottom: 333.5})
	return reg
}

func TestPlaceKeepsPreviousWithinHysteresis(t *testing.T) {
	placer := NewPlacer(DefaultConfig())

	// Previous frame settled just off the rest position, inside the
	// hysteresis window on all three axes.
	prev := &Result{
		Anchor:    geom.Vec{X: 400, Y: 300}.Add(geom.UnitVec(140).Scale(61)),
		Length:    61,
		AngleDeg:  140,
		OffsetDeg: 140,
		Reduced:   false,
		Attempt:   AttemptFullPreferred,
	}

	res := placer.Place(Request{
		Marker:   Marker{ID: "m1", Pos: geom.Vec{X: 400, Y: 300}, HeadingDeg: 0},
		Content:  testContent(),
		Canvas:   testCanvas(),
		Registry: blockRestStrip(),
		Previous: prev,
	})

	assert.Equal(t, prev.OffsetDeg, res.OffsetDeg, "previous placement should be kept")
	assert.Equal(t, prev.Length, res.Length)
	assert.Equal(t, prev.Attempt, res.Attempt)
}

func TestPlaceDropsPreviousOutsideHysteresis(t *testing.T) {
	placer := NewPlacer(DefaultConfig())

	// Previous offset is 45° away from the rest angle, well past the window,
	// so the engine must run the full search instead of keeping it.
	prev := &Result{
		Anchor:    geom.Vec{X: 400, Y: 300}.Add(geom.UnitVec(180).Scale(60)),
		Length:    60,
		AngleDeg:  180,
		OffsetDeg: 180,
		Reduced:   false,
		Attempt:   AttemptFullPreferred,
	}

	res := placer.Place(Request{
		Marker:   Marker{ID: "m1", Pos: geom.Vec{X: 400, Y: 300}, HeadingDeg: 0},
		Content:  testContent(),
		Canvas:   testCanvas(),
		Registry: blockRestStrip(),
		Previous: prev,
	})

	// Rest is blocked, 45° is in the forward sector, so the search lands on
	// the trailing-left 225° slot.
	assert.Equal(t, 225.0, res.OffsetDeg)
	assert.Equal(t, AttemptFullPreferred, res.Attempt)
}

func TestPlaceQualityRefinesWhenImprovable(t *testing.T) {
	placer := NewPlacer(DefaultConfig())
	content := testContent()

	req := Request{
		Marker:   Marker{ID: "m1", Pos: geom.Vec{X: 400, Y: 300}, HeadingDeg: 0},
		Content:  content,
		Canvas:   testCanvas(),
		Registry: blockRestStrip(),
	}

	base := placer.Place(req)
	require.Equal(t, AttemptFullPreferred, base.Attempt)

	req.Quality = true
	refined := placer.Place(req)

	// The base placement has no soft violations, so the only improving
	// neighbour is the compactness gain of the single-line variant.
	assert.Equal(t, AttemptRefined, refined.Attempt)
	assert.True(t, refined.Reduced)
	assert.Equal(t, base.OffsetDeg, refined.OffsetDeg)
	assert.Equal(t, base.Length, refined.Length)
	assert.True(t, labelBox(refined, content).InsideCanvas(800, 600))
}

func TestAttemptRoundTrip(t *testing.T) {
	for a := AttemptFullPreferred; a <= AttemptRefined; a++ {
		got, err := ParseAttempt(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAttempt("bogus")
	assert.Error(t, err)
}
