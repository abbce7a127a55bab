// Package geometry provides the 2D/3D primitives used by the construction
// synthesizer: vectors, lines, polygons, axis-aligned boxes, and rigid
// transforms.
//
// All lengths are millimetres stored as float64; angles are radians. Plan
// coordinates use X/Y for the horizontal plane and Z for elevation. The
// package is purely computational: every operation returns a value (or an
// ok-flag for degenerate cases) and never reports errors itself; policy for
// degenerate geometry lives with the callers.
//
// # Coordinate conventions
//
// Perimeter boundary polygons are ordered clockwise; for clockwise winding
// the outward normal of a direction d is its counter-clockwise perpendicular
// (-d.Y, d.X). Wall-local element coordinates use axis 0 along the wall,
// axis 1 across the thickness and axis 2 for elevation; [Transform] maps
// such local frames into plan coordinates with a Z-rotation and translation.
package geometry

import "math"

// Eps is the geometric tolerance in millimetres for coincidence and
// parallelism tests. Construction dimensions are whole millimetres, so a
// micrometre tolerance is comfortably below any meaningful feature size.
const Eps = 1e-6

// AlmostEqual reports whether a and b differ by less than Eps.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < Eps
}

// Clamp limits v to the interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
