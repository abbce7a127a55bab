// Package model defines the construction model: a tree of grouped,
// positioned elements plus the measurements, highlight areas, and issues
// produced while synthesizing it.
//
// # Structure
//
// A [Model] has one root [Group]. Groups nest and carry a rigid
// [geometry.Transform]; elements live in their group's local frame. Walls
// are synthesized in wall-local coordinates and placed into the plan by
// wrapping them in a transformed group, so the same wall geometry is never
// recomputed per placement.
//
// # Issues
//
// Synthesis is best-effort: layout problems that do not prevent geometry
// from being produced are recorded as [Issue] values (warnings or errors)
// referencing the affected elements, and the build continues.
//
// # Building models
//
// Builders produce flat [Part] streams and fold them:
//
//	parts := []model.Part{
//		model.ElementPart(post),
//		model.WarningPart(model.NewIssue("post spacing exceeds maximum", post.ID)),
//	}
//	m := model.Collect("wall", parts...)
//
// Models compose with [Merge] and [ApplyTransform].
package model

import (
	"github.com/baleframe/baleframe/pkg/geometry"
)

// Measurement is a dimension annotation between two points. Offset is the
// distance the dimension line is drawn from the measured edge.
type Measurement struct {
	From   geometry.Vec3 `json:"from"`
	To     geometry.Vec3 `json:"to"`
	Offset float64       `json:"offset,omitempty"`
	Label  string        `json:"label,omitempty"`
}

// Area is a highlighted region for diagrams: an outline ring in world
// coordinates with a kind tag ("opening", "infill") that renderers map to
// styling. Kept in 3D so transforms apply exactly.
type Area struct {
	ID      AreaID          `json:"id"`
	Outline []geometry.Vec3 `json:"outline"`
	Kind    string          `json:"kind,omitempty"`
}

// NewArea returns an area with a fresh id.
func NewArea(kind string, outline ...geometry.Vec3) Area {
	return Area{ID: NewAreaID(), Kind: kind, Outline: outline}
}

// Issue is a non-fatal synthesis finding. Elements and Areas reference the
// model parts the issue is about.
type Issue struct {
	ID       IssueID     `json:"id"`
	Message  string      `json:"message"`
	Elements []ElementID `json:"elements,omitempty"`
	Areas    []AreaID    `json:"areas,omitempty"`
}

// NewIssue returns an issue with a fresh id referencing the given elements.
func NewIssue(message string, elements ...ElementID) Issue {
	return Issue{ID: NewIssueID(), Message: message, Elements: elements}
}

// String returns the issue message.
func (i Issue) String() string { return i.Message }

// Model is a complete construction model: the element tree plus its
// annotations. Bounds covers the root group in world coordinates.
type Model struct {
	Root         Group         `json:"root"`
	Measurements []Measurement `json:"measurements,omitempty"`
	Areas        []Area        `json:"areas,omitempty"`
	Errors       []Issue       `json:"errors,omitempty"`
	Warnings     []Issue       `json:"warnings,omitempty"`
	Bounds       geometry.Box  `json:"bounds"`
}

// Walk visits every element in the tree together with the transform from
// its local frame to world coordinates.
func (m *Model) Walk(fn func(e Element, world geometry.Transform)) {
	m.Root.walk(geometry.Identity(), fn)
}

// CountElements returns the total number of elements in the model.
func (m *Model) CountElements() int { return m.Root.CountElements() }

// CountGroups returns the total number of groups in the model.
func (m *Model) CountGroups() int { return m.Root.CountGroups() }

// ===== Part folding =====

// Part is one item of a builder's output stream: exactly one of the
// pointer fields is set. Builders emit parts and [Collect] folds them
// into a model.
type Part struct {
	Element     *Element
	Measurement *Measurement
	Area        *Area
	Error       *Issue
	Warning     *Issue
}

// ElementPart wraps an element as a part.
func ElementPart(e Element) Part { return Part{Element: &e} }

// MeasurementPart wraps a measurement as a part.
func MeasurementPart(m Measurement) Part { return Part{Measurement: &m} }

// AreaPart wraps an area as a part.
func AreaPart(a Area) Part { return Part{Area: &a} }

// ErrorPart wraps an issue as a blocking finding.
func ErrorPart(i Issue) Part { return Part{Error: &i} }

// WarningPart wraps an issue as a non-blocking finding.
func WarningPart(i Issue) Part { return Part{Warning: &i} }

// Collect folds a part stream into a model whose root group carries the
// given name and the identity transform.
func Collect(name string, parts ...Part) *Model {
	var (
		elements     []Element
		measurements []Measurement
		areas        []Area
		errs         []Issue
		warnings     []Issue
	)
	for _, p := range parts {
		switch {
		case p.Element != nil:
			elements = append(elements, *p.Element)
		case p.Measurement != nil:
			measurements = append(measurements, *p.Measurement)
		case p.Area != nil:
			areas = append(areas, *p.Area)
		case p.Error != nil:
			errs = append(errs, *p.Error)
		case p.Warning != nil:
			warnings = append(warnings, *p.Warning)
		}
	}

	root := NewGroup(name, geometry.Identity(), elements, nil)
	return &Model{
		Root:         root,
		Measurements: measurements,
		Areas:        areas,
		Errors:       errs,
		Warnings:     warnings,
		Bounds:       root.Bounds,
	}
}
