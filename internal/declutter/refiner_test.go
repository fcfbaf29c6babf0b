package declutter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skytrace-data/declutter/internal/geom"
)

func TestRefineWalksTowardPreferredLength(t *testing.T) {
	f := newTestFrame(t, nil)

	anchor, abs := f.anchorAt(135, 80)
	base := Result{
		Anchor:    anchor,
		Length:    80,
		AngleDeg:  abs,
		OffsetDeg: 135,
		Reduced:   false,
		Attempt:   AttemptFullVariableLength,
	}

	got := f.refine(base)

	// Each pass shaves one length step (and the compactness bias flips the
	// variant); the climb ends at the preferred length.
	assert.Equal(t, AttemptRefined, got.Attempt)
	assert.Equal(t, f.cfg.PreferredLeaderLength, got.Length)
	assert.Equal(t, 135.0, got.OffsetDeg)
	assert.Less(t,
		f.penalty(got.Anchor, got.Reduced, got.Length),
		f.penalty(base.Anchor, base.Reduced, base.Length))
}

func TestRefineKeepsBaseWhenNothingImproves(t *testing.T) {
	// Every admissible neighbour of the reduced rest placement scores equal
	// or worse, so the base must come back untouched.
	f := newTestFrame(t, nil)

	anchor, abs := f.anchorAt(135, 60)
	base := Result{
		Anchor:    anchor,
		Length:    60,
		AngleDeg:  abs,
		OffsetDeg: 135,
		Reduced:   true,
		Attempt:   AttemptReducedPreferred,
	}

	got := f.refine(base)
	assert.Equal(t, base, got)
}

func TestRefineRespectsLeaderBounds(t *testing.T) {
	f := newTestFrame(t, nil)

	anchor, abs := f.anchorAt(135, f.cfg.MinLeaderLength)
	base := Result{
		Anchor:    anchor,
		Length:    f.cfg.MinLeaderLength,
		AngleDeg:  abs,
		OffsetDeg: 135,
		Reduced:   true,
		Attempt:   AttemptReducedVariableLength,
	}

	got := f.refine(base)
	assert.GreaterOrEqual(t, got.Length, f.cfg.MinLeaderLength)
	assert.LessOrEqual(t, got.Length, f.cfg.MaxLeaderLength)
}

func TestNudgeRepelsFromNearbyMarker(t *testing.T) {
	other := geom.Vec{X: 440, Y: 320}
	f := newTestFrame(t, func(req *Request) {
		req.Marker.Pos = geom.Vec{X: 360, Y: 320}
		req.Others = []geom.Vec{other}
	})

	// Anchor 20 units from the neighbour: well inside MinDistToMarker.
	base := Result{
		Anchor:    geom.Vec{X: 420, Y: 320},
		Length:    60,
		AngleDeg:  90,
		OffsetDeg: 90,
		Reduced:   false,
		Attempt:   AttemptFullPreferred,
	}

	got := f.nudge(base)

	assert.NotEqual(t, base.Anchor, got.Anchor, "anchor should have been pushed")
	assert.GreaterOrEqual(t, got.Anchor.Dist(other), f.cfg.MinDistToMarker-1e-9)
	assert.Equal(t, base.Attempt, got.Attempt, "nudge never changes the attempt tag")
	assert.Equal(t, base.Reduced, got.Reduced)
	assert.InDelta(t, 50, got.Length, 1e-9)
	assert.InDelta(t, 90, got.AngleDeg, 1e-9)
}

func TestNudgeRevertsWhenInadmissible(t *testing.T) {
	other := geom.Vec{X: 440, Y: 320}
	f := newTestFrame(t, func(req *Request) {
		req.Marker.Pos = geom.Vec{X: 360, Y: 320}
		req.Others = []geom.Vec{other}
		// Furniture sitting exactly where the push would land the label.
		req.Registry.AddRegion(geom.Rect{Left: 380, Top: 300, Right: 415, Bottom: 340})
	})

	base := Result{
		Anchor:    geom.Vec{X: 420, Y: 320},
		Length:    60,
		AngleDeg:  90,
		OffsetDeg: 90,
		Reduced:   false,
		Attempt:   AttemptFullPreferred,
	}

	got := f.nudge(base)
	assert.Equal(t, base, got, "inadmissible nudge must be discarded wholesale")
}

func TestNudgeNoopWhenWellSpaced(t *testing.T) {
	f := newTestFrame(t, func(req *Request) {
		req.Others = []geom.Vec{{X: 600, Y: 500}, {X: 100, Y: 100}}
	})

	anchor, abs := f.anchorAt(135, 60)
	base := Result{
		Anchor:    anchor,
		Length:    60,
		AngleDeg:  abs,
		OffsetDeg: 135,
		Reduced:   false,
		Attempt:   AttemptFullPreferred,
	}

	got := f.nudge(base)
	assert.Equal(t, base, got)
}
