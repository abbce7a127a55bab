package geometry

import "math"

// Polygon is a closed ring of vertices; the edge from the last vertex back
// to the first is implicit.
type Polygon []Vec2

// Area returns the signed area of the polygon (shoelace formula).
// Positive for counter-clockwise winding, negative for clockwise.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += a.Cross(b)
	}
	return sum / 2
}

// IsClockwise reports whether the ring is wound clockwise.
func (p Polygon) IsClockwise() bool { return p.Area() < 0 }

// Reverse returns a copy of the ring with reversed winding.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Bounds returns the axis-aligned bounding rectangle of the ring.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		r.Min.X = math.Min(r.Min.X, v.X)
		r.Min.Y = math.Min(r.Min.Y, v.Y)
		r.Max.X = math.Max(r.Max.X, v.X)
		r.Max.Y = math.Max(r.Max.Y, v.Y)
	}
	return r
}

// SelfIntersects reports whether any two non-adjacent edges of the ring
// cross. The pairwise O(n²) sweep is fine for perimeter-sized rings.
func (p Polygon) SelfIntersects() bool {
	n := len(p)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := p[i], p[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (they share an endpoint).
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1, b2 := p[j], p[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// Offset returns the ring displaced sideways by dist: every edge moves
// along its counter-clockwise perpendicular and adjacent edge lines are
// re-intersected. For clockwise rings a positive dist grows the ring
// outward, matching [Line.Offset]. Rings with a degenerate edge are
// returned unchanged.
func (p Polygon) Offset(dist float64) Polygon {
	n := len(p)
	if n < 3 || AlmostEqual(dist, 0) {
		return append(Polygon(nil), p...)
	}

	lines := make([]Line, n)
	for i := 0; i < n; i++ {
		l, ok := LineThrough(p[i], p[(i+1)%n])
		if !ok {
			return append(Polygon(nil), p...)
		}
		lines[i] = l.Offset(dist)
	}

	out := make(Polygon, n)
	for i := 0; i < n; i++ {
		prev := lines[(i+n-1)%n]
		ip, ok := prev.Intersect(lines[i])
		if !ok {
			// Colinear neighbors: the corner moves straight sideways.
			ip = lines[i].At(lines[i].Project(p[i]))
		}
		out[i] = ip
	}
	return out
}

// segmentsCross reports whether segments a1-a2 and b1-b2 properly cross
// (intersect at a single interior point of both).
func segmentsCross(a1, a2, b1, b2 Vec2) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)
	return ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
		((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps))
}

// orient returns the signed double area of the triangle a, b, c.
func orient(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Path is a polygon with holes: one outer ring and zero or more hole rings.
// Used for finish layers around openings.
type Path struct {
	Outer Polygon   `json:"outer"`
	Holes []Polygon `json:"holes,omitempty"`
}

// Area returns the enclosed area: the outer ring's absolute area minus the
// absolute areas of all holes.
func (p Path) Area() float64 {
	a := math.Abs(p.Outer.Area())
	for _, h := range p.Holes {
		a -= math.Abs(h.Area())
	}
	return a
}

// Bounds returns the bounding rectangle of the outer ring.
func (p Path) Bounds() Rect { return p.Outer.Bounds() }

// Rect is an axis-aligned rectangle in the plane.
type Rect struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

// R constructs a rectangle from two corner coordinates, normalizing the
// order so Min <= Max on both axes.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: Vec2{math.Min(x0, x1), math.Min(y0, y1)},
		Max: Vec2{math.Max(x0, x1), math.Max(y0, y1)},
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// IsEmpty reports whether r has no usable extent on either axis.
func (r Rect) IsEmpty() bool { return r.Width() < Eps || r.Height() < Eps }

// Intersect returns the overlap of r and o.
// Returns ok=false when the rectangles do not overlap by more than Eps.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	out := Rect{
		Min: Vec2{math.Max(r.Min.X, o.Min.X), math.Max(r.Min.Y, o.Min.Y)},
		Max: Vec2{math.Min(r.Max.X, o.Max.X), math.Min(r.Max.Y, o.Max.Y)},
	}
	if out.IsEmpty() {
		return Rect{}, false
	}
	return out, true
}

// Ring returns the rectangle as a counter-clockwise polygon ring.
func (r Rect) Ring() Polygon {
	return Polygon{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}
