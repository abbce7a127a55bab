package model

import "github.com/baleframe/baleframe/pkg/geometry"

// ApplyTransform places a model: the element tree is wrapped in one new
// group named name carrying t, and the model-level annotations (which
// live in world coordinates) are mapped through t. The input is never
// mutated. Applying the identity transform preserves all world positions.
func ApplyTransform(m *Model, name string, t geometry.Transform) *Model {
	var root Group
	if m.Root.Transform.IsIdentity() {
		root = NewGroup(name, t, m.Root.Elements, m.Root.Groups)
	} else {
		root = NewGroup(name, t, nil, []Group{m.Root})
	}

	out := &Model{Root: root, Bounds: root.Bounds}

	for _, meas := range m.Measurements {
		out.Measurements = append(out.Measurements, Measurement{
			From:   t.Apply(meas.From),
			To:     t.Apply(meas.To),
			Offset: meas.Offset,
			Label:  meas.Label,
		})
	}
	for _, a := range m.Areas {
		mapped := Area{ID: a.ID, Kind: a.Kind, Outline: make([]geometry.Vec3, len(a.Outline))}
		for i, p := range a.Outline {
			mapped.Outline[i] = t.Apply(p)
		}
		out.Areas = append(out.Areas, mapped)
	}
	out.Errors = append([]Issue(nil), m.Errors...)
	out.Warnings = append([]Issue(nil), m.Warnings...)
	return out
}
