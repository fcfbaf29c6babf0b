package declutter

import (
	"math"

	"github.com/skytrace-data/declutter/internal/geom"
)

// stabilize runs the cheap pre-search paths that suppress frame-to-frame
// oscillation.
//
// First the literal rest position (rest angle, preferred length, full size)
// is tried; when admissible it is returned immediately — the cheapest path
// and the visually nicest.
//
// Otherwise, if a previous-frame result exists, its heading-relative offset
// and length are re-projected from the marker's new position. The
// re-projection is kept when it is still hard-admissible AND sits within
// the hysteresis window of the ideal placement (offset within
// HysteresisAngleDeg of the rest angle, length within HysteresisLength of
// preferred, anchor within HysteresisPosition of the ideal anchor). This
// stops the label flipping between two similarly scored candidates as the
// marker moves.
//
// Returns ok=false when both paths fail and full search must run.
func (f *frame) stabilize(prev *Result) (Result, bool) {
	cfg := f.cfg

	restAnchor, restAbs := f.anchorAt(cfg.RestAngleDeg, cfg.PreferredLeaderLength)
	if f.admissible(restAnchor, false) {
		return Result{
			Anchor:    restAnchor,
			Length:    cfg.PreferredLeaderLength,
			AngleDeg:  restAbs,
			OffsetDeg: cfg.RestAngleDeg,
			Reduced:   false,
			Attempt:   AttemptFullPreferred,
		}, true
	}

	if prev == nil {
		return Result{}, false
	}

	anchor, abs := f.anchorAt(prev.OffsetDeg, prev.Length)
	if !f.admissible(anchor, prev.Reduced) {
		return Result{}, false
	}
	if geom.AngleDiffDeg(prev.OffsetDeg, cfg.RestAngleDeg) >= cfg.HysteresisAngleDeg {
		return Result{}, false
	}
	if math.Abs(prev.Length-cfg.PreferredLeaderLength) >= cfg.HysteresisLength {
		return Result{}, false
	}
	if anchor.Dist(restAnchor) >= cfg.HysteresisPosition {
		return Result{}, false
	}

	return Result{
		Anchor:    anchor,
		Length:    prev.Length,
		AngleDeg:  abs,
		OffsetDeg: prev.OffsetDeg,
		Reduced:   prev.Reduced,
		Attempt:   prev.Attempt,
	}, true
}
