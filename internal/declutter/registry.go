package declutter

import "github.com/skytrace-data/declutter/internal/geom"

// Registry is the per-frame collision arena: the set of screen rectangles
// and line segments already spoken for. The render loop creates one (or
// calls Reset) at frame start, seeds it with static furniture (compass,
// range rings, readouts), and appends each accepted placement before
// processing the next marker. It grows monotonically within a frame and is
// discarded at frame end.
//
// Processing order is significant: the first marker placed reserves the
// best screen real estate and later markers search around it. Ownership is
// single-threaded; there is no internal locking.
type Registry struct {
	regions  []geom.Rect
	segments []geom.Segment
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Reset empties the registry for a new frame, keeping capacity.
func (r *Registry) Reset() {
	r.regions = r.regions[:0]
	r.segments = r.segments[:0]
}

// AddRegion reserves a rectangle (static furniture or a placed label).
func (r *Registry) AddRegion(rect geom.Rect) {
	r.regions = append(r.regions, rect)
}

// AddSegment reserves a line segment (static line or a drawn leader).
func (r *Registry) AddSegment(seg geom.Segment) {
	r.segments = append(r.segments, seg)
}

// RegisterResult reserves the rectangle and leader segment implied by an
// accepted placement. Every caller needs the exact same bounding box the
// constraint checker tested, so the computation lives here.
func (r *Registry) RegisterResult(m Marker, res Result, content Content) {
	size := content.Variant(res.Reduced)
	r.AddRegion(geom.RectAround(res.Anchor, size.W/2, size.H/2))
	r.AddSegment(geom.Segment{A: m.Pos, B: res.Anchor})
}

// RegionCount returns the number of reserved rectangles.
func (r *Registry) RegionCount() int { return len(r.regions) }

// SegmentCount returns the number of reserved segments.
func (r *Registry) SegmentCount() int { return len(r.segments) }

// overlapsAny reports whether rect intersects any reserved rectangle.
func (r *Registry) overlapsAny(rect geom.Rect) bool {
	for _, reg := range r.regions {
		if rect.Intersects(reg) {
			return true
		}
	}
	return false
}

// crossings counts reserved segments the given segment crosses, using the
// tolerance band tol for near misses.
func (r *Registry) crossings(seg geom.Segment, tol float64) int {
	n := 0
	for _, s := range r.segments {
		if seg.Crosses(s, tol) {
			n++
		}
	}
	return n
}
