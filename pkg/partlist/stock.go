package partlist

import (
	"fmt"
	"math"
	"sort"

	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
)

// CheckStock walks the model and reports every element whose bounding
// dimensions no declared stock size of its material covers. Materials
// without stock sizes (or unknown to the resolver) are skipped. Elements
// sharing material, type, and dimensions fold into one issue so a wall
// of identical oversized posts reads as a single finding.
func CheckStock(m *model.Model, resolve material.Resolver) []model.Issue {
	if resolve == nil {
		return nil
	}

	type offender struct {
		key      string
		elements []model.ElementID
	}
	found := make(map[string]*offender)

	m.Walk(func(e model.Element, _ geometry.Transform) {
		mat, ok := resolve(e.Material)
		if !ok || len(mat.Stock) == 0 {
			return
		}
		dims := boundsDims(e)
		if fitsAny(dims, mat.Stock) {
			return
		}
		key := fmt.Sprintf("no stock size of material %q fits %s %.0fx%.0fx%.0fmm",
			e.Material, e.Type, dims[2], dims[1], dims[0])
		o, ok := found[key]
		if !ok {
			o = &offender{key: key}
			found[key] = o
		}
		o.elements = append(o.elements, e.ID)
	})

	keys := make([]string, 0, len(found))
	for k := range found {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	issues := make([]model.Issue, 0, len(keys))
	for _, k := range keys {
		issues = append(issues, model.NewIssue(k, found[k].elements...))
	}
	return issues
}

// boundsDims returns the element's bounding extents sorted ascending.
// Sheared beams include their rise: cutting a sloped piece needs stock
// covering the full sheared depth.
func boundsDims(e model.Element) [3]float64 {
	b := e.Shape.Bounds()
	return sortedDims(geometry.Vec3{
		X: b.Max.X - b.Min.X,
		Y: b.Max.Y - b.Min.Y,
		Z: b.Max.Z - b.Min.Z,
	})
}

// fitsAny reports whether any stock size covers the dimensions. A zero
// stock axis means the material is cut to size on that axis and imposes
// no limit.
func fitsAny(dims [3]float64, stock []material.StockSize) bool {
	for _, s := range stock {
		if fitsOne(dims, s) {
			return true
		}
	}
	return false
}

func fitsOne(dims [3]float64, s material.StockSize) bool {
	limits := [3]float64{s.Length, s.Width, s.Height}
	for i := range limits {
		if limits[i] <= 0 {
			limits[i] = math.Inf(1)
		}
	}
	sort.Float64s(limits[:])
	for i := range dims {
		if dims[i] > limits[i]+geometry.Eps {
			return false
		}
	}
	return true
}
