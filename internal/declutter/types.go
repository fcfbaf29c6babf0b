package declutter

import (
	"fmt"

	"github.com/skytrace-data/declutter/internal/geom"
)

// Marker is the per-frame state of one moving point marker on the display.
// It is owned by the caller and supplied fresh every frame.
type Marker struct {
	ID         string   // stable identity across frames
	Pos        geom.Vec // screen position
	HeadingDeg float64  // course over ground, compass degrees
}

// Content holds the two measured size variants of a marker's label text.
// Text measurement happens upstream; the engine only sees extents.
type Content struct {
	Full    geom.Size // both text lines
	Reduced geom.Size // single line
}

// Variant returns the extents for the requested size variant.
func (c Content) Variant(reduced bool) geom.Size {
	if reduced {
		return c.Reduced
	}
	return c.Full
}

// Observer describes the display orientation. In heading-up mode the whole
// scene is rotated so the observer's heading points up, and marker headings
// must be interpreted relative to it.
type Observer struct {
	HeadingDeg float64
	HeadingUp  bool // true: heading-up display; false: fixed-north
}

// Attempt identifies which escalation strategy produced a placement.
// The order encodes escalating willingness to compromise: size first,
// then leader length, then local refinement.
type Attempt int

const (
	AttemptFullPreferred Attempt = iota
	AttemptFullVariableLength
	AttemptReducedPreferred
	AttemptReducedVariableLength
	AttemptRefined
)

// String returns the attempt tag name.
func (a Attempt) String() string {
	switch a {
	case AttemptFullPreferred:
		return "full_preferred"
	case AttemptFullVariableLength:
		return "full_variable_length"
	case AttemptReducedPreferred:
		return "reduced_preferred"
	case AttemptReducedVariableLength:
		return "reduced_variable_length"
	case AttemptRefined:
		return "refined"
	default:
		return fmt.Sprintf("attempt(%d)", int(a))
	}
}

// ParseAttempt maps a tag name back to its Attempt value.
func ParseAttempt(s string) (Attempt, error) {
	for a := AttemptFullPreferred; a <= AttemptRefined; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown attempt tag %q", s)
}

// Result is the engine's sole output: where to anchor the label and how.
// It is immutable once returned. The caller persists it per marker identity
// and feeds it back as Request.Previous on the next frame.
type Result struct {
	Anchor    geom.Vec // label centre point
	Length    float64  // leader-line length, screen units
	AngleDeg  float64  // absolute compass angle of the leader line
	OffsetDeg float64  // leader angle relative to the marker's display heading
	Reduced   bool     // render the single-line variant
	Attempt   Attempt  // which strategy produced this placement
}

// Request carries everything one placement call needs. All slices and the
// registry are read (the registry is never mutated by Place); registering
// the accepted result is the caller's job, see Registry.RegisterResult.
type Request struct {
	Marker   Marker
	Content  Content
	Canvas   geom.Size
	Observer Observer

	// Others holds the positions of every other visible marker this frame.
	Others []geom.Vec

	// Registry is the shared per-frame collision arena: static furniture
	// plus labels already placed this frame. Must be non-nil.
	Registry *Registry

	// VelocityEnd, when non-nil, is the endpoint of the marker's velocity
	// vector line; the label must keep clear of its bounding box.
	VelocityEnd *geom.Vec

	// Previous is the marker's result from the last frame, or nil.
	Previous *Result

	// Quality enables the local refinement pass.
	Quality bool
}

// displayHeadingDeg returns the marker's heading as drawn on screen,
// accounting for the display orientation mode.
func (r *Request) displayHeadingDeg() float64 {
	if r.Observer.HeadingUp {
		return geom.NormalizeDeg(r.Marker.HeadingDeg - r.Observer.HeadingDeg)
	}
	return geom.NormalizeDeg(r.Marker.HeadingDeg)
}
