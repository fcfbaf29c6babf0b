package declutter

import (
	"math"

	"github.com/skytrace-data/declutter/internal/geom"
)

// Placer is the label placement engine. It is stateless apart from its
// configuration: all per-frame state (registry, previous results) is owned
// by the caller, so one Placer can serve any number of render loops as long
// as each loop is single-threaded.
type Placer struct {
	cfg Config
}

// NewPlacer creates a placement engine with the given configuration.
func NewPlacer(cfg Config) *Placer {
	return &Placer{cfg: cfg}
}

// Config returns the engine configuration.
func (p *Placer) Config() Config { return p.cfg }

// Place computes a label placement for one marker. It is a total function:
// it never fails and never leaves a marker unplaced. Degraded outcomes are
// visible only through the result's Attempt tag and Reduced flag.
//
// Call once per visible marker per frame, in a stable caller-chosen order,
// and register the accepted result into the request's Registry before
// placing the next marker.
func (p *Placer) Place(req Request) Result {
	f := newFrame(&p.cfg, &req)

	// Step 1: stability layer — rest position, then previous-frame
	// re-projection inside the hysteresis window. Accepted placements
	// return immediately without refinement or nudging.
	if res, ok := f.stabilize(req.Previous); ok {
		return res
	}

	// Step 2: full discrete search over attempt groups, falling back to
	// scored best-effort selection, then to the fixed placement.
	res := f.search()

	// Step 3: optional bounded local refinement.
	if req.Quality {
		res = f.refine(res)
	}

	// Step 4: post-placement nudge in dense scenes.
	if len(req.Others) > 1 {
		res = f.nudge(res)
	}

	return res
}

// search iterates attempt groups in escalating order and returns the first
// hard-admissible candidate — greedy, not globally optimal; optimality is
// traded for bounded, predictable latency. When the whole space fails, the
// least-penalised candidate wins (nothing is discarded for hard failure at
// this stage), and if even that is impossible a fixed deterministic
// fallback is accepted unconditionally.
func (f *frame) search() Result {
	cands := f.generate(f.sortedOffsets())

	for _, c := range cands {
		anchor, abs := f.anchorAt(c.offsetDeg, c.length)
		if f.admissible(anchor, c.reduced) {
			return Result{
				Anchor:    anchor,
				Length:    c.length,
				AngleDeg:  abs,
				OffsetDeg: c.offsetDeg,
				Reduced:   c.reduced,
				Attempt:   c.attempt,
			}
		}
	}

	// Scored selection across the full candidate set.
	var best scored
	haveBest := false
	for _, c := range cands {
		anchor, _ := f.anchorAt(c.offsetDeg, c.length)
		s := scored{cand: c, anchor: anchor, penalty: f.penalty(anchor, c.reduced, c.length)}
		if !haveBest || f.betterScored(s, best) {
			best = s
			haveBest = true
		}
	}
	if haveBest {
		abs := geom.NormalizeDeg(f.displayHeading + best.cand.offsetDeg)
		return f.clampToCanvas(Result{
			Anchor:    best.anchor,
			Length:    best.cand.length,
			AngleDeg:  abs,
			OffsetDeg: best.cand.offsetDeg,
			Reduced:   best.cand.reduced,
			Attempt:   best.cand.attempt,
		})
	}

	// Fixed fallback: reduced size, rest angle, preferred length.
	anchor, abs := f.anchorAt(f.cfg.RestAngleDeg, f.cfg.PreferredLeaderLength)
	return f.clampToCanvas(Result{
		Anchor:    anchor,
		Length:    f.cfg.PreferredLeaderLength,
		AngleDeg:  abs,
		OffsetDeg: f.cfg.RestAngleDeg,
		Reduced:   true,
		Attempt:   AttemptReducedVariableLength,
	})
}

// clampToCanvas is the containment backstop for the degraded paths: it
// pulls the anchor back so the label bounding box stays on the canvas and
// rewrites the leader fields to match the moved anchor.
func (f *frame) clampToCanvas(r Result) Result {
	size := f.content.Variant(r.Reduced)
	c := geom.ClampCenterToCanvas(r.Anchor, size.W/2, size.H/2, f.canvas.W, f.canvas.H)
	if c == r.Anchor {
		return r
	}
	r.Anchor = c
	d := c.Sub(f.marker.Pos)
	r.AngleDeg = d.AngleDeg()
	r.OffsetDeg = geom.NormalizeDeg(r.AngleDeg - f.displayHeading)
	r.Length = math.Min(math.Max(d.Len(), f.cfg.MinLeaderLength), f.cfg.MaxLeaderLength)
	return r
}
