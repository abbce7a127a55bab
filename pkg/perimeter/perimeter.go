// Package perimeter models the building outline: an ordered ring of
// corners connected by walls, with openings placed along each wall.
//
// # Conventions
//
// The ring is stored clockwise when viewed from above; counter-clockwise
// input is reoriented during [Resolve], not rejected. The inside face of
// each wall runs between its two corners' inside points; the outside face
// is offset by the wall thickness along the outward normal, which for a
// clockwise ring is the counter-clockwise perpendicular of the wall
// direction.
//
// Derived fields (lines, normals, outside corner points, extensions) are
// computed by [Resolve] and must never be hand-edited: editing tools
// mutate the input fields and resolve again.
package perimeter

import (
	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/geometry"
)

// OpeningKind classifies an opening.
type OpeningKind string

// Opening kinds.
const (
	OpeningDoor    OpeningKind = "door"
	OpeningWindow  OpeningKind = "window"
	OpeningPassage OpeningKind = "passage"
)

// Opening is a rectangular cut in a wall, measured along the wall's
// inside line from the wall start. All dimensions in mm.
type Opening struct {
	Kind       OpeningKind `json:"kind"`
	Offset     float64     `json:"offset"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	SillHeight float64     `json:"sill_height,omitempty"`
}

// End returns the along-axis position where the opening ends.
func (o Opening) End() float64 { return o.Offset + o.Width }

// HeadHeight returns the elevation of the opening's top edge.
func (o Opening) HeadHeight() float64 { return o.SillHeight + o.Height }

// Owner names which of a corner's two walls builds through the corner
// block. The other wall butts against it.
type Owner string

// Corner owners. The empty value means "not decided yet"; Resolve fills
// it using the default ownership rule.
const (
	OwnerPrev Owner = "prev" // the wall ending at this corner
	OwnerNext Owner = "next" // the wall starting at this corner
)

// Corner is one vertex of the ring. Inside and Owner are input; the rest
// is derived.
type Corner struct {
	Inside geometry.Vec2 `json:"inside"`
	Owner  Owner         `json:"owner,omitempty"`

	// Derived by Resolve.
	Outside       geometry.Vec2 `json:"outside"`
	InteriorAngle float64       `json:"interior_angle"`
	Convex        bool          `json:"convex"`
}

// Wall is one side of the ring, running from its start corner to the next
// corner. Thickness, Assembly, and Openings are input; the rest is
// derived.
type Wall struct {
	Thickness float64     `json:"thickness"`
	Assembly  assembly.ID `json:"assembly"`
	Openings  []Opening   `json:"openings,omitempty"`

	// Derived by Resolve.
	InsideLine     geometry.Line `json:"inside_line"`
	OutsideLine    geometry.Line `json:"outside_line"`
	Direction      geometry.Vec2 `json:"direction"`
	OutNormal      geometry.Vec2 `json:"out_normal"`
	InsideLength   float64       `json:"inside_length"`
	OutsideLength  float64       `json:"outside_length"`
	StartExtension float64       `json:"start_extension"`
	EndExtension   float64       `json:"end_extension"`
}

// Perimeter is the building outline for one storey. Wall i connects
// corner i to corner (i+1) mod n.
type Perimeter struct {
	Corners      []Corner `json:"corners"`
	Walls        []Wall   `json:"walls"`
	StoreyHeight float64  `json:"storey_height"`
}

// Len returns the number of corners (= walls).
func (p *Perimeter) Len() int { return len(p.Corners) }

// CornerAt returns the corner at index i, wrapping around the ring.
func (p *Perimeter) CornerAt(i int) *Corner {
	n := len(p.Corners)
	return &p.Corners[((i%n)+n)%n]
}

// WallAt returns the wall at index i, wrapping around the ring.
func (p *Perimeter) WallAt(i int) *Wall {
	n := len(p.Walls)
	return &p.Walls[((i%n)+n)%n]
}

// OwnsStart reports whether wall i builds through its start corner.
func (p *Perimeter) OwnsStart(i int) bool { return p.CornerAt(i).Owner == OwnerNext }

// OwnsEnd reports whether wall i builds through its end corner.
func (p *Perimeter) OwnsEnd(i int) bool { return p.CornerAt(i + 1).Owner == OwnerPrev }

// RunLength returns wall i's construction run length: the inside length
// plus both signed end extensions.
func (p *Perimeter) RunLength(i int) float64 {
	w := p.WallAt(i)
	return w.InsideLength + w.StartExtension + w.EndExtension
}

// RunOrigin returns the plan position of wall i's construction run
// origin: the inside start corner shifted back by the start extension.
func (p *Perimeter) RunOrigin(i int) geometry.Vec2 {
	w := p.WallAt(i)
	return p.CornerAt(i).Inside.Sub(w.Direction.Scale(w.StartExtension))
}
