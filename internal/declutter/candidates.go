package declutter

import (
	"sort"

	"github.com/skytrace-data/declutter/internal/geom"
)

// baseOffsetsDeg is the standard candidate angle set, relative to the
// marker's display heading. The 135° rest position comes first: the label
// trails behind and to the side of the marker, the visually preferred
// default. The remainder escalate through the trailing and abeam sectors.
var baseOffsetsDeg = [7]float64{135, 45, 225, 315, 180, 90, 270}

// candidate is one discrete (offset, length, size-variant) tuple within a
// search attempt group.
type candidate struct {
	offsetDeg float64
	length    float64
	reduced   bool
	attempt   Attempt
}

// sortedOffsets returns the base angle set, re-sorted by the escape
// direction heuristic when other markers crowd the neighbourhood: compute
// the local centre of mass of markers within InfluenceRadius, point away
// from it, and prefer offsets angularly closest to that direction. This
// biases the search toward the least crowded side and cuts search depth in
// clusters. With no neighbours in range the base order is kept.
func (f *frame) sortedOffsets() []float64 {
	offsets := make([]float64, len(baseOffsetsDeg))
	copy(offsets, baseOffsetsDeg[:])

	var com geom.Vec
	n := 0
	for _, o := range f.others {
		if f.marker.Pos.Dist(o) <= f.cfg.InfluenceRadius {
			com = com.Add(o)
			n++
		}
	}
	if n == 0 {
		return offsets
	}
	com = com.Scale(1 / float64(n))

	escape := f.marker.Pos.Sub(com)
	if escape.X == 0 && escape.Y == 0 {
		return offsets
	}
	escapeDeg := escape.AngleDeg()

	// Stable sort keeps the base preference order for angular ties, so the
	// rest position still wins among equally good directions.
	sort.SliceStable(offsets, func(i, j int) bool {
		ai := geom.NormalizeDeg(f.displayHeading + offsets[i])
		aj := geom.NormalizeDeg(f.displayHeading + offsets[j])
		return geom.AngleDiffDeg(ai, escapeDeg) < geom.AngleDiffDeg(aj, escapeDeg)
	})
	return offsets
}

// lengthLadder returns the deterministic leader length sequence for the
// variable-length attempt groups: preferred first, then alternating nearer
// and farther options, always within [MinLeaderLength, MaxLeaderLength].
func (f *frame) lengthLadder() []float64 {
	cfg := f.cfg
	raw := []float64{
		cfg.PreferredLeaderLength,
		cfg.PreferredLeaderLength - 10,
		cfg.PreferredLeaderLength + 10,
		cfg.PreferredLeaderLength - 15,
		cfg.PreferredLeaderLength + 20,
		cfg.MinLeaderLength,
		cfg.PreferredLeaderLength + 30,
		cfg.MaxLeaderLength,
	}
	ladder := raw[:0]
	seen := make(map[float64]bool, len(raw))
	for _, l := range raw {
		if l < cfg.MinLeaderLength || l > cfg.MaxLeaderLength || seen[l] {
			continue
		}
		seen[l] = true
		ladder = append(ladder, l)
	}
	return ladder
}

// generate enumerates every candidate in escalating attempt order for the
// given (already re-sorted) offsets: full size at preferred length, full
// size over the length ladder, then the same pair for the reduced variant.
// The sequence is finite and deterministic.
func (f *frame) generate(offsets []float64) []candidate {
	ladder := f.lengthLadder()
	cands := make([]candidate, 0, 2*len(offsets)*(1+len(ladder)))

	for _, reduced := range [2]bool{false, true} {
		preferred := AttemptFullPreferred
		variable := AttemptFullVariableLength
		if reduced {
			preferred = AttemptReducedPreferred
			variable = AttemptReducedVariableLength
		}
		for _, off := range offsets {
			cands = append(cands, candidate{
				offsetDeg: off,
				length:    f.cfg.PreferredLeaderLength,
				reduced:   reduced,
				attempt:   preferred,
			})
		}
		for _, off := range offsets {
			for _, l := range ladder {
				if l == f.cfg.PreferredLeaderLength {
					continue // covered by the preferred group
				}
				cands = append(cands, candidate{
					offsetDeg: off,
					length:    l,
					reduced:   reduced,
					attempt:   variable,
				})
			}
		}
	}
	return cands
}
