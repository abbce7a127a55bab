package model

import (
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
)

// ElementType classifies a construction element by its role in the wall.
type ElementType string

// Element types produced by synthesis.
const (
	TypePost        ElementType = "post"
	TypeBale        ElementType = "infill_bale"
	TypePartialBale ElementType = "partial_bale"
	TypeInfillStrip ElementType = "infill_strip"
	TypeHeader      ElementType = "header"
	TypeSill        ElementType = "sill"
	TypeFilling     ElementType = "filling"
	TypeLayer       ElementType = "layer"
	TypeRingBeam    ElementType = "ring_beam"
	TypePlate       ElementType = "plate"
)

// Element is one physical piece of the building: a post, a bale, a layer
// sheet. Position places the shape's local origin in the enclosing group's
// frame; material properties are resolved by id, never embedded.
type Element struct {
	ID       ElementID     `json:"id"`
	Type     ElementType   `json:"type"`
	Material material.ID   `json:"material"`
	Position geometry.Vec3 `json:"position"`
	Shape    Shape         `json:"shape"`
}

// NewElement returns an element with a fresh id.
func NewElement(t ElementType, mat material.ID, pos geometry.Vec3, shape Shape) Element {
	return Element{ID: NewElementID(), Type: t, Material: mat, Position: pos, Shape: shape}
}

// Bounds returns the element's bounds in the enclosing group's frame.
func (e Element) Bounds() geometry.Box {
	return e.Shape.Bounds().Translate(e.Position)
}

// Volume returns the element's volume.
func (e Element) Volume() float64 { return e.Shape.Volume() }
