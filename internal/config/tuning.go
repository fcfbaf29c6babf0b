package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for placement tuning
// parameters. All fields are pointers so a partial JSON file overrides only
// what it names; the Get* accessors supply defaults for the rest.
type TuningConfig struct {
	// Leader line geometry
	MinLeaderLength       *float64 `json:"min_leader_length,omitempty"`
	MaxLeaderLength       *float64 `json:"max_leader_length,omitempty"`
	PreferredLeaderLength *float64 `json:"preferred_leader_length,omitempty"`

	// Angular conventions
	RestAngleDeg              *float64 `json:"rest_angle_deg,omitempty"`
	ForwardSectorHalfAngleDeg *float64 `json:"forward_sector_half_angle_deg,omitempty"`

	// Proximity
	MinDistToMarker *float64 `json:"min_dist_to_marker,omitempty"`
	InfluenceRadius *float64 `json:"influence_radius,omitempty"`

	// Penalty weights
	CrossingPenalty       *float64 `json:"crossing_penalty,omitempty"`
	NeighborPenalty       *float64 `json:"neighbor_penalty,omitempty"`
	ForwardSectorPenalty  *float64 `json:"forward_sector_penalty,omitempty"`
	LengthDeviationWeight *float64 `json:"length_deviation_weight,omitempty"`
	CompactnessWeight     *float64 `json:"compactness_weight,omitempty"`
	DisqualifyingPenalty  *float64 `json:"disqualifying_penalty,omitempty"`

	// Hysteresis window
	HysteresisAngleDeg *float64 `json:"hysteresis_angle_deg,omitempty"`
	HysteresisLength   *float64 `json:"hysteresis_length,omitempty"`
	HysteresisPosition *float64 `json:"hysteresis_position,omitempty"`

	// Local refiner
	RefinerPasses       *int     `json:"refiner_passes,omitempty"`
	RefinerAngleStepDeg *float64 `json:"refiner_angle_step_deg,omitempty"`
	RefinerLengthStep   *float64 `json:"refiner_length_step,omitempty"`

	// Post-placement nudge
	NudgePasses   *int     `json:"nudge_passes,omitempty"`
	NudgeStrength *float64 `json:"nudge_strength,omitempty"`

	// Geometry tolerances
	SegmentTolerance *float64 `json:"segment_tolerance,omitempty"`
	VelocityMargin   *float64 `json:"velocity_margin,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath. It searches for the file in the current directory and
// common parent directories. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks cross-field consistency. Individual defaults are assumed
// sane; only user-supplied overrides can break these relations.
func (c *TuningConfig) Validate() error {
	minL := c.GetMinLeaderLength()
	maxL := c.GetMaxLeaderLength()
	pref := c.GetPreferredLeaderLength()
	if minL <= 0 {
		return fmt.Errorf("min_leader_length must be positive, got %v", minL)
	}
	if maxL < minL {
		return fmt.Errorf("max_leader_length (%v) must be >= min_leader_length (%v)", maxL, minL)
	}
	if pref < minL || pref > maxL {
		return fmt.Errorf("preferred_leader_length (%v) must lie within [%v, %v]", pref, minL, maxL)
	}
	if h := c.GetForwardSectorHalfAngleDeg(); h < 0 || h > 180 {
		return fmt.Errorf("forward_sector_half_angle_deg must be within [0, 180], got %v", h)
	}
	if d := c.GetMinDistToMarker(); d <= 0 {
		return fmt.Errorf("min_dist_to_marker must be positive, got %v", d)
	}
	if p := c.GetRefinerPasses(); p < 0 {
		return fmt.Errorf("refiner_passes must be >= 0, got %d", p)
	}
	if p := c.GetNudgePasses(); p < 0 {
		return fmt.Errorf("nudge_passes must be >= 0, got %d", p)
	}
	return nil
}

// Accessors with defaults. The defaults here mirror config/tuning.defaults.json.

func (c *TuningConfig) GetMinLeaderLength() float64 { return getF(c.MinLeaderLength, 40) }
func (c *TuningConfig) GetMaxLeaderLength() float64 { return getF(c.MaxLeaderLength, 100) }
func (c *TuningConfig) GetPreferredLeaderLength() float64 {
	return getF(c.PreferredLeaderLength, 60)
}
func (c *TuningConfig) GetRestAngleDeg() float64 { return getF(c.RestAngleDeg, 135) }
func (c *TuningConfig) GetForwardSectorHalfAngleDeg() float64 {
	return getF(c.ForwardSectorHalfAngleDeg, 90)
}
func (c *TuningConfig) GetMinDistToMarker() float64 { return getF(c.MinDistToMarker, 30) }
func (c *TuningConfig) GetInfluenceRadius() float64 { return getF(c.InfluenceRadius, 150) }
func (c *TuningConfig) GetCrossingPenalty() float64 { return getF(c.CrossingPenalty, 120) }
func (c *TuningConfig) GetNeighborPenalty() float64 { return getF(c.NeighborPenalty, 30) }
func (c *TuningConfig) GetForwardSectorPenalty() float64 {
	return getF(c.ForwardSectorPenalty, 200)
}
func (c *TuningConfig) GetLengthDeviationWeight() float64 {
	return getF(c.LengthDeviationWeight, 1.5)
}
func (c *TuningConfig) GetCompactnessWeight() float64 { return getF(c.CompactnessWeight, 0.05) }
func (c *TuningConfig) GetDisqualifyingPenalty() float64 {
	return getF(c.DisqualifyingPenalty, 1000)
}
func (c *TuningConfig) GetHysteresisAngleDeg() float64 { return getF(c.HysteresisAngleDeg, 22) }
func (c *TuningConfig) GetHysteresisLength() float64   { return getF(c.HysteresisLength, 8) }
func (c *TuningConfig) GetHysteresisPosition() float64 { return getF(c.HysteresisPosition, 6) }
func (c *TuningConfig) GetRefinerPasses() int          { return getI(c.RefinerPasses, 10) }
func (c *TuningConfig) GetRefinerAngleStepDeg() float64 {
	return getF(c.RefinerAngleStepDeg, 5)
}
func (c *TuningConfig) GetRefinerLengthStep() float64 { return getF(c.RefinerLengthStep, 5) }
func (c *TuningConfig) GetNudgePasses() int           { return getI(c.NudgePasses, 3) }
func (c *TuningConfig) GetNudgeStrength() float64     { return getF(c.NudgeStrength, 1.0) }
func (c *TuningConfig) GetSegmentTolerance() float64  { return getF(c.SegmentTolerance, 1.5) }
func (c *TuningConfig) GetVelocityMargin() float64    { return getF(c.VelocityMargin, 4) }

func getF(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func getI(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}
