package geometry

// Line is an infinite line through Point along Dir.
// Dir need not be normalized; callers that rely on parameter values
// (see [Line.At] and [Line.Project]) should normalize first.
type Line struct {
	Point Vec2
	Dir   Vec2
}

// LineThrough constructs the line through a and b.
// Returns ok=false when the points coincide within Eps.
func LineThrough(a, b Vec2) (Line, bool) {
	d := b.Sub(a)
	if d.Length() < Eps {
		return Line{}, false
	}
	return Line{Point: a, Dir: d.Normalize()}, true
}

// At returns the point at parameter t along the line.
func (l Line) At(t float64) Vec2 { return l.Point.Add(l.Dir.Scale(t)) }

// Project returns the parameter of the closest point on l to p.
func (l Line) Project(p Vec2) float64 { return p.Sub(l.Point).Dot(l.Dir) }

// Intersect returns the intersection point of l and o.
// Returns ok=false when the lines are parallel within Eps.
func (l Line) Intersect(o Line) (Vec2, bool) {
	cross := l.Dir.Cross(o.Dir)
	if cross > -Eps && cross < Eps {
		return Vec2{}, false
	}
	t := o.Point.Sub(l.Point).Cross(o.Dir) / cross
	return l.At(t), true
}

// Offset returns l displaced by dist along its counter-clockwise
// perpendicular. For clockwise-wound boundaries a positive dist moves an
// inside wall line to the outside.
func (l Line) Offset(dist float64) Line {
	n := l.Dir.Normalize().Perp()
	return Line{Point: l.Point.Add(n.Scale(dist)), Dir: l.Dir}
}

// Parallel reports whether l and o are parallel within Eps.
func (l Line) Parallel(o Line) bool {
	cross := l.Dir.Normalize().Cross(o.Dir.Normalize())
	return cross > -Eps && cross < Eps
}
