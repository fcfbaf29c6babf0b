package declutter

import "github.com/skytrace-data/declutter/internal/config"

// Config holds the tunable parameters of the placement engine. The angle
// conventions encode a display tradition: labels trail behind and to the
// side of a moving marker, never ahead of it.
type Config struct {
	// Leader line geometry
	MinLeaderLength       float64 // shortest admissible leader (screen units)
	MaxLeaderLength       float64 // longest admissible leader
	PreferredLeaderLength float64 // visually preferred leader length

	// Angular conventions
	RestAngleDeg              float64 // preferred offset from display heading (trailing side)
	ForwardSectorHalfAngleDeg float64 // half-angle of the keep-clear sector ahead of the marker

	// Proximity
	MinDistToMarker float64 // anchors may not sit closer than this to another marker
	InfluenceRadius float64 // neighbourhood radius for the escape-direction heuristic

	// Penalty weights (soft scoring)
	CrossingPenalty       float64 // per leader/segment crossing
	NeighborPenalty       float64 // per near-neighbour violation, severity weighted
	ForwardSectorPenalty  float64 // anchor inside the forward sector
	LengthDeviationWeight float64 // per unit of |length - preferred|
	CompactnessWeight     float64 // small bias toward smaller labels
	DisqualifyingPenalty  float64 // floor added for off-canvas or hard-overlap candidates

	// Hysteresis window (frame-to-frame stability)
	HysteresisAngleDeg float64 // max offset deviation from the rest angle
	HysteresisLength   float64 // max length deviation from preferred
	HysteresisPosition float64 // max anchor distance from the ideal anchor

	// Local refiner
	RefinerPasses       int     // hill-climb pass cap
	RefinerAngleStepDeg float64 // angle perturbation step
	RefinerLengthStep   float64 // length perturbation step

	// Post-placement nudge
	NudgePasses   int     // decaying-strength pass cap
	NudgeStrength float64 // initial repulsion strength, halved each pass

	// Geometry tolerances
	SegmentTolerance float64 // near-miss band for segment crossing tests
	VelocityMargin   float64 // inflation margin around the velocity-vector bbox
}

// DefaultConfig returns engine parameters loaded from the canonical tuning
// defaults file (config/tuning.defaults.json). Panics if the file cannot be
// found — intended for tests and binaries that have already validated
// config availability.
func DefaultConfig() Config {
	return ConfigFromTuning(config.MustLoadDefaultConfig())
}

// ConfigFromTuning builds an engine Config from a loaded TuningConfig.
// Use this in production code where the TuningConfig is already loaded.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		MinLeaderLength:           cfg.GetMinLeaderLength(),
		MaxLeaderLength:           cfg.GetMaxLeaderLength(),
		PreferredLeaderLength:     cfg.GetPreferredLeaderLength(),
		RestAngleDeg:              cfg.GetRestAngleDeg(),
		ForwardSectorHalfAngleDeg: cfg.GetForwardSectorHalfAngleDeg(),
		MinDistToMarker:           cfg.GetMinDistToMarker(),
		InfluenceRadius:           cfg.GetInfluenceRadius(),
		CrossingPenalty:           cfg.GetCrossingPenalty(),
		NeighborPenalty:           cfg.GetNeighborPenalty(),
		ForwardSectorPenalty:      cfg.GetForwardSectorPenalty(),
		LengthDeviationWeight:     cfg.GetLengthDeviationWeight(),
		CompactnessWeight:         cfg.GetCompactnessWeight(),
		DisqualifyingPenalty:      cfg.GetDisqualifyingPenalty(),
		HysteresisAngleDeg:        cfg.GetHysteresisAngleDeg(),
		HysteresisLength:          cfg.GetHysteresisLength(),
		HysteresisPosition:        cfg.GetHysteresisPosition(),
		RefinerPasses:             cfg.GetRefinerPasses(),
		RefinerAngleStepDeg:       cfg.GetRefinerAngleStepDeg(),
		RefinerLengthStep:         cfg.GetRefinerLengthStep(),
		NudgePasses:               cfg.GetNudgePasses(),
		NudgeStrength:             cfg.GetNudgeStrength(),
		SegmentTolerance:          cfg.GetSegmentTolerance(),
		VelocityMargin:            cfg.GetVelocityMargin(),
	}
}
