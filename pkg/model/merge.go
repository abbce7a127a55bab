package model

import "github.com/baleframe/baleframe/pkg/geometry"

// Merge combines models into one. Children of identity-transformed roots
// are spliced directly into the new root; transformed roots nest as
// subgroups so their placement survives. Measurements, areas, and issues
// concatenate; bounds union. Inputs are never mutated.
func Merge(models ...*Model) *Model {
	out := &Model{}
	var (
		elements []Element
		groups   []Group
	)
	bounds := geometry.EmptyBox()

	for _, m := range models {
		if m == nil {
			continue
		}
		if m.Root.Transform.IsIdentity() {
			elements = append(elements, m.Root.Elements...)
			groups = append(groups, m.Root.Groups...)
		} else {
			groups = append(groups, m.Root)
		}
		out.Measurements = append(out.Measurements, m.Measurements...)
		out.Areas = append(out.Areas, m.Areas...)
		out.Errors = append(out.Errors, m.Errors...)
		out.Warnings = append(out.Warnings, m.Warnings...)
		bounds = bounds.Union(m.Bounds)
	}

	out.Root = NewGroup("model", geometry.Identity(), elements, groups)
	if bounds.IsEmpty() {
		bounds = geometry.Box{}
	}
	out.Bounds = bounds
	return out
}
