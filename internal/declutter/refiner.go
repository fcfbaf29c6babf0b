package declutter

import "github.com/skytrace-data/declutter/internal/geom"

// refine is the optional higher-quality pass: a deterministic bounded
// hill-climb around the base placement. Each pass enumerates neighbours
// formed by small angle perturbations × small length perturbations × a
// size-variant toggle, scores the hard-admissible ones, and moves to the
// best strictly improving neighbour. It stops early when no neighbour
// improves; the pass cap guarantees termination. No randomisation.
func (f *frame) refine(base Result) Result {
	cfg := f.cfg

	cur := base
	curPenalty := f.penalty(base.Anchor, base.Reduced, base.Length)
	improved := false

	angleSteps := [3]float64{0, cfg.RefinerAngleStepDeg, -cfg.RefinerAngleStepDeg}
	lengthSteps := [3]float64{0, cfg.RefinerLengthStep, -cfg.RefinerLengthStep}

	for pass := 0; pass < cfg.RefinerPasses; pass++ {
		var best scored
		haveBest := false

		for _, dA := range angleSteps {
			for _, dL := range lengthSteps {
				for _, reduced := range [2]bool{cur.Reduced, !cur.Reduced} {
					if dA == 0 && dL == 0 && reduced == cur.Reduced {
						continue // identity
					}
					length := cur.Length + dL
					if length < cfg.MinLeaderLength || length > cfg.MaxLeaderLength {
						continue
					}
					offset := geom.NormalizeDeg(cur.OffsetDeg + dA)
					anchor, _ := f.anchorAt(offset, length)
					if !f.admissible(anchor, reduced) {
						continue
					}
					s := scored{
						cand:    candidate{offsetDeg: offset, length: length, reduced: reduced},
						anchor:  anchor,
						penalty: f.penalty(anchor, reduced, length),
					}
					if !haveBest || f.betterScored(s, best) {
						best = s
						haveBest = true
					}
				}
			}
		}

		if !haveBest || best.penalty >= curPenalty {
			break
		}
		abs := geom.NormalizeDeg(f.displayHeading + best.cand.offsetDeg)
		cur = Result{
			Anchor:    best.anchor,
			Length:    best.cand.length,
			AngleDeg:  abs,
			OffsetDeg: best.cand.offsetDeg,
			Reduced:   best.cand.reduced,
			Attempt:   AttemptRefined,
		}
		curPenalty = best.penalty
		improved = true
	}

	if !improved {
		return base
	}
	return cur
}
