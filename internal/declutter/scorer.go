package declutter

import (
	"math"

	"github.com/skytrace-data/declutter/internal/geom"
)

// scored pairs a candidate with its anchor and penalty for best-effort
// selection when no hard-admissible candidate exists, and for ranking
// refiner neighbours.
type scored struct {
	cand    candidate
	anchor  geom.Vec
	penalty float64
}

// penalty converts soft constraint violations into one comparable cost.
// Off-canvas and hard-overlap candidates are not discarded; they receive a
// disqualifying floor so the comparison stays total and the least bad
// option can still be picked when the whole space has failed.
func (f *frame) penalty(anchor geom.Vec, reduced bool, length float64) float64 {
	cfg := f.cfg
	rect := f.labelRect(anchor, reduced)
	pen := 0.0

	if !rect.InsideCanvas(f.canvas.W, f.canvas.H) {
		pen += cfg.DisqualifyingPenalty
	}
	if f.reg.overlapsAny(rect) {
		pen += cfg.DisqualifyingPenalty
	}
	if f.hasVel && rect.Intersects(f.velRect) {
		pen += cfg.DisqualifyingPenalty
	}

	leader := geom.Segment{A: f.marker.Pos, B: anchor}
	pen += cfg.CrossingPenalty * float64(f.reg.crossings(leader, cfg.SegmentTolerance))

	// Near-neighbour violations, squared-distance weighted: a neighbour
	// right under the anchor costs the full weight, a grazing one almost
	// nothing.
	minSq := cfg.MinDistToMarker * cfg.MinDistToMarker
	for _, o := range f.others {
		d := anchor.Dist(o)
		if d < cfg.MinDistToMarker {
			pen += cfg.NeighborPenalty * (minSq - d*d) / minSq
		}
	}

	if f.inForwardSector(anchor) {
		pen += cfg.ForwardSectorPenalty
	}

	pen += cfg.LengthDeviationWeight * math.Abs(length-cfg.PreferredLeaderLength)

	// Small compactness bias: prefer the smaller label when scores are
	// otherwise close.
	size := f.content.Variant(reduced)
	pen += cfg.CompactnessWeight * (size.W + size.H)

	return pen
}

// betterScored reports whether a beats b: lower penalty wins; ties break on
// smaller leader-length deviation from preferred, then on smaller absolute
// marker-to-anchor distance. Deterministic for identical inputs.
func (f *frame) betterScored(a, b scored) bool {
	if a.penalty != b.penalty {
		return a.penalty < b.penalty
	}
	da := math.Abs(a.cand.length - f.cfg.PreferredLeaderLength)
	db := math.Abs(b.cand.length - f.cfg.PreferredLeaderLength)
	if da != db {
		return da < db
	}
	return f.marker.Pos.Dist(a.anchor) < f.marker.Pos.Dist(b.anchor)
}
