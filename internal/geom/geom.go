// Package geom provides the 2D screen-space primitives used by the label
// placement engine: vectors, axis-aligned rectangles, line segments and
// compass-angle helpers.
//
// Coordinate convention: X grows right, Y grows down (screen space).
// Angles are compass-style degrees: 0° points up on screen, positive is
// clockwise. UnitVec(90) is therefore (1, 0) and UnitVec(180) is (0, 1).
package geom

import "math"

// Vec is a point or direction in screen space.
type Vec struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }

// Cross returns the 2D cross product (z component) of v and o.
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec{v.X / l, v.Y / l}
}

// AngleDeg returns the compass angle of v in degrees [0, 360).
// The zero vector reports 0°.
func (v Vec) AngleDeg() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	// atan2 with screen-down Y: up is (0,-1).
	return NormalizeDeg(math.Atan2(v.X, -v.Y) * 180 / math.Pi)
}

// UnitVec returns the unit vector pointing along the given compass angle.
func UnitVec(deg float64) Vec {
	rad := deg * math.Pi / 180
	return Vec{math.Sin(rad), -math.Cos(rad)}
}

// NormalizeDeg maps an angle to [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleDiffDeg returns the absolute angular difference between two compass
// angles, in [0, 180].
func AngleDiffDeg(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Size is a width/height pair in screen units.
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle. Top < Bottom because Y grows down.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectAround returns the rectangle centred on c with the given half extents.
func RectAround(c Vec, halfW, halfH float64) Rect {
	return Rect{Left: c.X - halfW, Top: c.Y - halfH, Right: c.X + halfW, Bottom: c.Y + halfH}
}

// RectOfSegment returns the bounding rectangle of segment s inflated by
// margin on all sides.
func RectOfSegment(s Segment, margin float64) Rect {
	return Rect{
		Left:   math.Min(s.A.X, s.B.X) - margin,
		Top:    math.Min(s.A.Y, s.B.Y) - margin,
		Right:  math.Max(s.A.X, s.B.X) + margin,
		Bottom: math.Max(s.A.Y, s.B.Y) + margin,
	}
}

// Center returns the rectangle's centre point.
func (r Rect) Center() Vec {
	return Vec{(r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2}
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Intersects reports whether r and o overlap. Touching edges do not count
// as overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// ContainsPoint reports whether p lies inside r (inclusive).
func (r Rect) ContainsPoint(p Vec) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// InsideCanvas reports whether r lies entirely within [0,w]×[0,h].
func (r Rect) InsideCanvas(w, h float64) bool {
	return r.Left >= 0 && r.Top >= 0 && r.Right <= w && r.Bottom <= h
}

// ClampCenterToCanvas returns the centre point c adjusted so a rectangle
// with the given half extents fits inside [0,w]×[0,h]. If the rectangle is
// larger than the canvas the centre is pinned to the canvas centre axis.
func ClampCenterToCanvas(c Vec, halfW, halfH, w, h float64) Vec {
	c.X = clampAxis(c.X, halfW, w)
	c.Y = clampAxis(c.Y, halfH, h)
	return c
}

func clampAxis(v, half, limit float64) float64 {
	if 2*half >= limit {
		return limit / 2
	}
	if v < half {
		return half
	}
	if v > limit-half {
		return limit - half
	}
	return v
}

// Segment is a line segment between two points.
type Segment struct {
	A Vec
	B Vec
}

// Crosses reports whether segments s and o properly intersect. tol widens
// the test: endpoints passing within tol of the other segment also count,
// which avoids near-miss flicker when leader lines graze each other.
func (s Segment) Crosses(o Segment, tol float64) bool {
	d1 := s.B.Sub(s.A)
	d2 := o.B.Sub(o.A)
	denom := d1.Cross(d2)

	if denom != 0 {
		// Solve s.A + t*d1 = o.A + u*d2 via cross products.
		diff := o.A.Sub(s.A)
		t := diff.Cross(d2) / denom
		u := diff.Cross(d1) / denom
		if t >= 0 && t <= 1 && u >= 0 && u <= 1 {
			return true
		}
	}

	if tol <= 0 {
		return false
	}
	// Tolerance band: either segment's endpoint within tol of the other.
	return s.DistToPoint(o.A) < tol || s.DistToPoint(o.B) < tol ||
		o.DistToPoint(s.A) < tol || o.DistToPoint(s.B) < tol
}

// DistToPoint returns the shortest distance from p to the segment.
func (s Segment) DistToPoint(p Vec) float64 {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return p.Dist(s.A)
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(s.A.Add(d.Scale(t)))
}
