package declutter

import (
	"math"

	"github.com/skytrace-data/declutter/internal/geom"
)

// nudge is the final corrective pass for dense scenes: it gently repels the
// accepted anchor away from nearby markers, proportionally to penetration
// depth, over a fixed number of decaying-strength passes. The anchor is
// clamped back onto the canvas after every pass. If the nudged placement
// fails the full constraint checker the nudge is discarded and the original
// placement returned — spacing never regresses correctness.
func (f *frame) nudge(base Result) Result {
	cfg := f.cfg
	size := f.content.Variant(base.Reduced)

	anchor := base.Anchor
	strength := cfg.NudgeStrength
	for pass := 0; pass < cfg.NudgePasses; pass++ {
		for _, o := range f.others {
			d := anchor.Dist(o)
			if d >= cfg.MinDistToMarker {
				continue
			}
			dir := anchor.Sub(o).Normalized()
			if dir.X == 0 && dir.Y == 0 {
				// Anchor exactly on a neighbour: push along the leader.
				dir = geom.UnitVec(base.AngleDeg)
			}
			anchor = anchor.Add(dir.Scale((cfg.MinDistToMarker - d) * strength))
		}
		anchor = geom.ClampCenterToCanvas(anchor, size.W/2, size.H/2, f.canvas.W, f.canvas.H)
		strength /= 2
	}

	if anchor == base.Anchor {
		return base
	}

	// Keep the leader within its length budget along the nudged direction.
	d := anchor.Sub(f.marker.Pos)
	length := d.Len()
	if length > 0 {
		clamped := math.Min(math.Max(length, cfg.MinLeaderLength), cfg.MaxLeaderLength)
		if clamped != length {
			anchor = f.marker.Pos.Add(d.Scale(clamped / length))
			d = anchor.Sub(f.marker.Pos)
			length = clamped
		}
	} else {
		return base
	}

	if !f.admissible(anchor, base.Reduced) {
		return base
	}

	angle := d.AngleDeg()
	return Result{
		Anchor:    anchor,
		Length:    length,
		AngleDeg:  angle,
		OffsetDeg: geom.NormalizeDeg(angle - f.displayHeading),
		Reduced:   base.Reduced,
		Attempt:   base.Attempt,
	}
}
