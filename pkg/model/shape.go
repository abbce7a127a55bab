package model

import (
	"math"

	"github.com/baleframe/baleframe/pkg/geometry"
)

// ShapeKind selects which payload fields of a [Shape] are meaningful.
type ShapeKind string

// Shape kinds.
const (
	ShapeKindBox       ShapeKind = "box"
	ShapeKindPrism     ShapeKind = "prism"
	ShapeKindSlopedBox ShapeKind = "sloped_box"
)

// PrismPlane names the plane a prism outline is drawn in.
type PrismPlane string

// Prism planes.
const (
	// PlaneWall: outline coordinates are (along, elevation) in the wall's
	// local frame, extruded across the thickness axis.
	PlaneWall PrismPlane = "wall"

	// PlanePlan: outline coordinates are (x, y) in the plan, extruded up.
	PlanePlan PrismPlane = "plan"
)

// Shape is the geometry of one construction element, a closed variant set
// carried as a single struct with a kind tag. Exactly the fields of the
// tagged kind are meaningful; the rest stay zero.
//
// All shapes are positioned by their local origin: the minimum corner of
// the bounding extents at zero rise.
type Shape struct {
	Kind ShapeKind `json:"kind"`

	// Box and sloped box: extents along the local axes.
	Size geometry.Vec3 `json:"size,omitempty"`

	// Sloped box only: the body shears vertically so that both faces rise
	// by this amount over the along axis. Cross-section stays constant.
	Rise float64 `json:"rise,omitempty"`

	// Prism: an outline (with optional holes) extruded by Depth
	// perpendicular to Plane.
	Outline geometry.Path `json:"outline,omitempty"`
	Plane   PrismPlane    `json:"plane,omitempty"`
	Depth   float64       `json:"depth,omitempty"`
}

// BoxShape returns an axis-aligned cuboid of the given size.
func BoxShape(size geometry.Vec3) Shape {
	return Shape{Kind: ShapeKindBox, Size: size}
}

// PrismShape returns an extruded outline in the given plane.
func PrismShape(outline geometry.Path, plane PrismPlane, depth float64) Shape {
	return Shape{Kind: ShapeKindPrism, Outline: outline, Plane: plane, Depth: depth}
}

// SlopedBoxShape returns a vertically sheared cuboid whose faces rise by
// rise over the along (X) axis. Used for beams that follow a roof slope.
func SlopedBoxShape(size geometry.Vec3, rise float64) Shape {
	return Shape{Kind: ShapeKindSlopedBox, Size: size, Rise: rise}
}

// Bounds returns the local axis-aligned bounds of the shape, origin at the
// minimum corner.
func (s Shape) Bounds() geometry.Box {
	switch s.Kind {
	case ShapeKindBox:
		return geometry.Box{Max: s.Size}
	case ShapeKindSlopedBox:
		return geometry.Box{
			Min: geometry.V3(0, 0, math.Min(0, s.Rise)),
			Max: geometry.V3(s.Size.X, s.Size.Y, s.Size.Z+math.Max(0, s.Rise)),
		}
	case ShapeKindPrism:
		r := s.Outline.Bounds()
		switch s.Plane {
		case PlanePlan:
			return geometry.Box{
				Min: geometry.V3(r.Min.X, r.Min.Y, 0),
				Max: geometry.V3(r.Max.X, r.Max.Y, s.Depth),
			}
		default: // PlaneWall
			return geometry.Box{
				Min: geometry.V3(r.Min.X, 0, r.Min.Y),
				Max: geometry.V3(r.Max.X, s.Depth, r.Max.Y),
			}
		}
	}
	return geometry.Box{}
}

// Volume returns the enclosed volume of the shape.
func (s Shape) Volume() float64 {
	switch s.Kind {
	case ShapeKindBox:
		return s.Size.X * s.Size.Y * s.Size.Z
	case ShapeKindSlopedBox:
		// Vertical shear preserves volume.
		return s.Size.X * s.Size.Y * s.Size.Z
	case ShapeKindPrism:
		return s.Outline.Area() * s.Depth
	}
	return 0
}
