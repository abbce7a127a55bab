// Package partlist aggregates a construction model into an ordering
// report: one line per material and element type with counts, summed
// dimensions, and weight from the material's density.
//
// Aggregation walks the element tree through its group transforms, so a
// model assembled from per-wall builds reports the same totals as the
// flattened world model. Stock checking compares element dimensions
// against the material's declared stock sizes and reports mismatches as
// non-fatal issues.
package partlist

import (
	"sort"

	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
)

// Line is one report row: all elements of one material and type.
// Lengths and areas are in mm and mm², volume in mm³, weight in kg.
type Line struct {
	Material material.ID       `json:"material"`
	Name     string            `json:"name"`
	Type     model.ElementType `json:"type"`

	Count       int     `json:"count"`
	TotalLength float64 `json:"total_length"`
	TotalArea   float64 `json:"total_area"`
	TotalVolume float64 `json:"total_volume"`
	TotalWeight float64 `json:"total_weight"`
}

// Report is the aggregated part list of one model.
type Report struct {
	Lines []Line `json:"lines"`
}

// TotalWeight returns the summed weight of all lines in kg.
func (r Report) TotalWeight() float64 {
	var sum float64
	for _, l := range r.Lines {
		sum += l.TotalWeight
	}
	return sum
}

// TotalVolume returns the summed volume of all lines in mm³.
func (r Report) TotalVolume() float64 {
	var sum float64
	for _, l := range r.Lines {
		sum += l.TotalVolume
	}
	return sum
}

type lineKey struct {
	mat material.ID
	typ model.ElementType
}

// Aggregate folds the model's elements into report lines grouped by
// material and element type, sorted by material then type. Materials the
// resolver does not know keep their id as the display name and weigh
// nothing.
func Aggregate(m *model.Model, resolve material.Resolver) Report {
	lines := make(map[lineKey]*Line)

	m.Walk(func(e model.Element, _ geometry.Transform) {
		key := lineKey{mat: e.Material, typ: e.Type}
		line, ok := lines[key]
		if !ok {
			line = &Line{Material: e.Material, Name: string(e.Material), Type: e.Type}
			if resolve != nil {
				if mat, found := resolve(e.Material); found && mat.Name != "" {
					line.Name = mat.Name
				}
			}
			lines[key] = line
		}

		length, area := elementExtents(e)
		volume := e.Volume()

		line.Count++
		line.TotalLength += length
		line.TotalArea += area
		line.TotalVolume += volume
		if resolve != nil {
			if mat, found := resolve(e.Material); found {
				// mm³ × kg/m³
				line.TotalWeight += volume * 1e-9 * mat.Density
			}
		}
	})

	report := Report{Lines: make([]Line, 0, len(lines))}
	for _, line := range lines {
		report.Lines = append(report.Lines, *line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		a, b := report.Lines[i], report.Lines[j]
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		return a.Type < b.Type
	})
	return report
}

// elementExtents returns the characteristic length (longest axis) and
// largest face area of an element. For prisms the face is the extruded
// outline, which keeps mitred beam footprints exact.
func elementExtents(e model.Element) (length, area float64) {
	s := e.Shape
	switch s.Kind {
	case model.ShapeKindPrism:
		r := s.Outline.Bounds()
		length = maxf(r.Max.X-r.Min.X, r.Max.Y-r.Min.Y)
		area = s.Outline.Area()
		return length, area
	default:
		d := sortedDims(s.Size)
		return d[2], d[1] * d[2]
	}
}

func sortedDims(v geometry.Vec3) [3]float64 {
	d := [3]float64{v.X, v.Y, v.Z}
	if d[0] > d[1] {
		d[0], d[1] = d[1], d[0]
	}
	if d[1] > d[2] {
		d[1], d[2] = d[2], d[1]
	}
	if d[0] > d[1] {
		d[0], d[1] = d[1], d[0]
	}
	return d
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
