package declutter

import "github.com/skytrace-data/declutter/internal/geom"

// frame bundles the per-call environment so the checker, scorer and search
// stages share one view of the world. It is built once per Place call and
// never outlives it.
type frame struct {
	cfg            *Config
	canvas         geom.Size
	reg            *Registry
	marker         Marker
	displayHeading float64
	others         []geom.Vec
	content        Content

	// Velocity-vector keep-clear box, inflated by VelocityMargin.
	velRect geom.Rect
	hasVel  bool
}

func newFrame(cfg *Config, req *Request) *frame {
	f := &frame{
		cfg:            cfg,
		canvas:         req.Canvas,
		reg:            req.Registry,
		marker:         req.Marker,
		displayHeading: req.displayHeadingDeg(),
		others:         req.Others,
		content:        req.Content,
	}
	if req.VelocityEnd != nil {
		f.hasVel = true
		f.velRect = geom.RectOfSegment(
			geom.Segment{A: req.Marker.Pos, B: *req.VelocityEnd},
			cfg.VelocityMargin,
		)
	}
	return f
}

// labelRect returns the bounding box of the given variant centred on anchor.
func (f *frame) labelRect(anchor geom.Vec, reduced bool) geom.Rect {
	size := f.content.Variant(reduced)
	return geom.RectAround(anchor, size.W/2, size.H/2)
}

// admissible is the hard constraint checker: a pure predicate over a
// candidate anchor and the current registry/environment. Every check must
// pass. It has no side effects.
func (f *frame) admissible(anchor geom.Vec, reduced bool) bool {
	rect := f.labelRect(anchor, reduced)

	// Canvas containment.
	if !rect.InsideCanvas(f.canvas.W, f.canvas.H) {
		return false
	}

	// No overlap with reserved rectangles (furniture, placed labels).
	if f.reg.overlapsAny(rect) {
		return false
	}

	// Keep clear of neighbouring marker symbols.
	for _, o := range f.others {
		if anchor.Dist(o) < f.cfg.MinDistToMarker {
			return false
		}
	}

	// Leader line must not cross any reserved segment.
	leader := geom.Segment{A: f.marker.Pos, B: anchor}
	if f.reg.crossings(leader, f.cfg.SegmentTolerance) > 0 {
		return false
	}

	// Keep clear of the velocity vector's inflated bounding box.
	if f.hasVel && rect.Intersects(f.velRect) {
		return false
	}

	// Never sit in the forward sector — occluding the direction of travel
	// is the least desirable outcome.
	if f.inForwardSector(anchor) {
		return false
	}

	return true
}

// inForwardSector reports whether the marker→anchor direction falls within
// the keep-clear sector around the marker's display heading.
func (f *frame) inForwardSector(anchor geom.Vec) bool {
	d := anchor.Sub(f.marker.Pos)
	if d.X == 0 && d.Y == 0 {
		return false
	}
	return geom.AngleDiffDeg(d.AngleDeg(), f.displayHeading) < f.cfg.ForwardSectorHalfAngleDeg
}

// anchorAt computes the anchor point for a heading-relative offset and
// leader length, together with the absolute leader angle.
func (f *frame) anchorAt(offsetDeg, length float64) (geom.Vec, float64) {
	abs := geom.NormalizeDeg(f.displayHeading + offsetDeg)
	return f.marker.Pos.Add(geom.UnitVec(abs).Scale(length)), abs
}
