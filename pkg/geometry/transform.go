package geometry

import "math"

// Transform is a rigid placement in 3D: a rotation about the vertical Z
// axis followed by a translation. Walls only ever rotate in the plan
// plane, so a single angle is enough.
type Transform struct {
	// Rotation is the angle about the Z axis in radians,
	// counter-clockwise when viewed from above.
	Rotation float64 `json:"rotation"`

	// Translation is applied after the rotation.
	Translation Vec3 `json:"translation"`
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform { return Transform{} }

// IsIdentity reports whether t is (numerically) the identity transform.
func (t Transform) IsIdentity() bool {
	return AlmostEqual(t.Rotation, 0) && t.Translation.AlmostEqual(Vec3{})
}

// Apply maps p through the transform: rotate about Z, then translate.
func (t Transform) Apply(p Vec3) Vec3 {
	sin, cos := math.Sincos(t.Rotation)
	return Vec3{
		X: p.X*cos - p.Y*sin + t.Translation.X,
		Y: p.X*sin + p.Y*cos + t.Translation.Y,
		Z: p.Z + t.Translation.Z,
	}
}

// ApplyVec2 maps a plan-plane point through the transform, dropping the
// vertical component of the translation.
func (t Transform) ApplyVec2(p Vec2) Vec2 {
	sin, cos := math.Sincos(t.Rotation)
	return Vec2{
		X: p.X*cos - p.Y*sin + t.Translation.X,
		Y: p.X*sin + p.Y*cos + t.Translation.Y,
	}
}

// ApplyBox maps b through the transform and returns the axis-aligned
// bounds of the result. Rotations that are not multiples of 90° grow the
// box; that is the correct conservative bound.
func (t Transform) ApplyBox(b Box) Box {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, c := range b.Corners() {
		p := t.Apply(c)
		out = out.Union(Box{Min: p, Max: p})
	}
	return out
}

// Compose returns the transform equivalent to applying u first, then t.
func (t Transform) Compose(u Transform) Transform {
	return Transform{
		Rotation:    t.Rotation + u.Rotation,
		Translation: t.Apply(u.Translation),
	}
}

// Invert returns the transform that undoes t.
func (t Transform) Invert() Transform {
	inv := Transform{Rotation: -t.Rotation}
	inv.Translation = inv.Apply(t.Translation).Scale(-1)
	return inv
}

// RotationZ returns a pure rotation about the Z axis.
func RotationZ(angle float64) Transform {
	return Transform{Rotation: angle}
}

// TranslationOf returns a pure translation.
func TranslationOf(d Vec3) Transform {
	return Transform{Translation: d}
}
