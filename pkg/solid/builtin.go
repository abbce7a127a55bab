package solid

import (
	"math"

	"github.com/baleframe/baleframe/pkg/geometry"
)

// Builtin is the parametric kernel used when no external geometry
// backend is configured. Shapes are represented symbolically, so
// construction is allocation-cheap and exact for everything the part
// list and renderers need.
type Builtin struct{}

var _ Kernel = Builtin{}

// NewBuiltin returns the parametric kernel.
func NewBuiltin() Builtin { return Builtin{} }

// ===== Cuboid =====

type cuboid struct {
	size geometry.Vec3
}

func (c cuboid) Bounds() geometry.Box { return geometry.Box{Max: c.size} }
func (c cuboid) Volume() float64      { return c.size.X * c.size.Y * c.size.Z }

// Cuboid returns an axis-aligned box with min corner at the origin.
func (Builtin) Cuboid(size geometry.Vec3) Solid {
	return cuboid{size: size}
}

// ===== Extrusion =====

type prism struct {
	outline geometry.Polygon
	height  float64
}

func (p prism) Bounds() geometry.Box {
	r := p.outline.Bounds()
	return geometry.Box{
		Min: geometry.Vec3{X: r.Min.X, Y: r.Min.Y},
		Max: geometry.Vec3{X: r.Max.X, Y: r.Max.Y, Z: p.height},
	}
}

func (p prism) Volume() float64 {
	return math.Abs(p.outline.Area()) * p.height
}

// Extrude sweeps outline along +Z by height.
func (Builtin) Extrude(outline []geometry.Vec2, height float64) Solid {
	return prism{outline: geometry.Polygon(outline), height: height}
}

// ===== Transform =====

type transformed struct {
	inner Solid
	t     geometry.Transform
}

func (s transformed) Bounds() geometry.Box { return s.t.ApplyBox(s.inner.Bounds()) }
func (s transformed) Volume() float64      { return s.inner.Volume() }

// Transform applies a rigid transform. Volume is preserved exactly;
// bounds are the transformed corners re-bound, so a rotated solid's box
// may be larger than the solid.
func (Builtin) Transform(s Solid, t geometry.Transform) Solid {
	if t.IsIdentity() {
		return s
	}
	return transformed{inner: s, t: t}
}

// ===== Intersection =====

type intersection struct {
	a, b Solid
}

func (s intersection) Bounds() geometry.Box {
	ab, bb := s.a.Bounds(), s.b.Bounds()
	clipped := geometry.Box{
		Min: geometry.Vec3{X: math.Max(ab.Min.X, bb.Min.X), Y: math.Max(ab.Min.Y, bb.Min.Y), Z: math.Max(ab.Min.Z, bb.Min.Z)},
		Max: geometry.Vec3{X: math.Min(ab.Max.X, bb.Max.X), Y: math.Min(ab.Max.Y, bb.Max.Y), Z: math.Min(ab.Max.Z, bb.Max.Z)},
	}
	if clipped.IsEmpty() {
		return geometry.Box{}
	}
	return clipped
}

func (s intersection) Volume() float64 {
	v := s.Bounds().Volume()
	if av := s.a.Volume(); av < v {
		v = av
	}
	if bv := s.b.Volume(); bv < v {
		v = bv
	}
	return v
}

// Intersect returns the intersection of a and b. Bounds are exact (the
// clip of the operand bounds). Volume is an upper estimate: the minimum
// of the operand volumes and the clipped-bounds volume. For the sloped
// beam pieces this kernel serves, one operand always contains the true
// result snugly, so the estimate stays within the part-list tolerance.
func (Builtin) Intersect(a, b Solid) Solid {
	return intersection{a: a, b: b}
}
