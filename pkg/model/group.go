package model

import "github.com/baleframe/baleframe/pkg/geometry"

// Group is an interior node of the model tree. Its transform places the
// children (elements and subgroups) into the parent's frame. Bounds is
// computed once at construction time, already mapped through Transform.
type Group struct {
	ID        GroupID            `json:"id"`
	Name      string             `json:"name,omitempty"`
	Transform geometry.Transform `json:"transform"`
	Elements  []Element          `json:"elements,omitempty"`
	Groups    []Group            `json:"groups,omitempty"`
	Bounds    geometry.Box       `json:"bounds"`
}

// NewGroup builds a group with a fresh id and precomputed bounds.
func NewGroup(name string, t geometry.Transform, elements []Element, groups []Group) Group {
	g := Group{
		ID:        NewGroupID(),
		Name:      name,
		Transform: t,
		Elements:  elements,
		Groups:    groups,
	}
	g.Bounds = g.computeBounds()
	return g
}

// computeBounds unions the children's bounds and maps the result through
// the group's transform. An empty group gets the zero box so the value
// survives JSON (no ±Inf).
func (g Group) computeBounds() geometry.Box {
	b := geometry.EmptyBox()
	for _, e := range g.Elements {
		b = b.Union(e.Bounds())
	}
	for _, sub := range g.Groups {
		b = b.Union(sub.Bounds)
	}
	if b.IsEmpty() {
		return geometry.Box{}
	}
	return g.Transform.ApplyBox(b)
}

// CountElements returns the number of elements in the subtree.
func (g Group) CountElements() int {
	n := len(g.Elements)
	for _, sub := range g.Groups {
		n += sub.CountElements()
	}
	return n
}

// CountGroups returns the number of groups in the subtree, including g.
func (g Group) CountGroups() int {
	n := 1
	for _, sub := range g.Groups {
		n += sub.CountGroups()
	}
	return n
}

// walk visits every element below g, accumulating group transforms so fn
// receives the element together with its frame-to-world transform.
func (g Group) walk(parent geometry.Transform, fn func(e Element, world geometry.Transform)) {
	world := parent.Compose(g.Transform)
	for _, e := range g.Elements {
		fn(e, world)
	}
	for _, sub := range g.Groups {
		sub.walk(world, fn)
	}
}
