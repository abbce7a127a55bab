// Package solid is the boundary between the construction engine and
// boolean solid geometry.
//
// The engine mostly places axis-aligned boxes and extruded prisms, which
// [geometry] and [model] describe exactly. A few shapes need real solid
// operations: sloped ring-beam pieces are built by extruding a footprint,
// rotating it to the roof slope and intersecting it with a vertical prism.
// Those operations go through the [Kernel] interface so a full CSG or
// meshing kernel can be plugged in without touching the engine.
//
// # Builtin kernel
//
// [Builtin] is the parametric kernel that ships with this module. It
// tracks enough structure for bounds, volume and renderer consumption:
// cuboids and extrusions are exact, rigid transforms preserve volume, and
// intersections report exact bounds but approximate volume (see
// [Builtin.Intersect]).
//
// # Shape cache
//
// Identical shapes recur constantly in a building model (every bale in a
// wall, every post of a grid). [Cache] deduplicates construction by a
// canonical parameter key so each distinct shape is built once per
// process. The cache is injected, never global:
//
//	shapes := solid.NewCache(nil)
//	s := shapes.GetOrBuild(ctx, params, func() solid.Solid { ... })
package solid

import "github.com/baleframe/baleframe/pkg/geometry"

// Solid is an opaque solid body produced by a [Kernel].
type Solid interface {
	// Bounds returns the axis-aligned bounding box of the solid.
	Bounds() geometry.Box

	// Volume returns the enclosed volume in cubic millimeters.
	Volume() float64
}

// Kernel constructs and combines solids. Implementations must be safe
// for concurrent use; the engine builds walls in parallel.
type Kernel interface {
	// Cuboid returns an axis-aligned box with min corner at the origin.
	Cuboid(size geometry.Vec3) Solid

	// Extrude sweeps a planar outline along +Z by height. The outline
	// winding does not matter; area is taken as absolute.
	Extrude(outline []geometry.Vec2, height float64) Solid

	// Transform applies a rigid transform to a solid.
	Transform(s Solid, t geometry.Transform) Solid

	// Intersect returns the boolean intersection of two solids.
	Intersect(a, b Solid) Solid
}
