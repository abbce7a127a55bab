// Package plan draws orthographic projections of a construction model:
// a horizontal plan cut and per-wall elevations.
//
// The plan view slices the model at a cut height and projects every
// element with material at that elevation onto the ground plane, filled
// with its material color. Openings and infill fields appear as dashed
// highlights, perimeter and opening dimensions as dimension lines, and
// an optional roof outline as a dashed ring. [PlanSVG] emits hand-built
// SVG, [PlanPNG] rasterizes the same scene, and [ElevationSVG] projects
// one wall onto its own plane.
package plan

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
)

// Drawing defaults. Coordinates are millimetres until the page maps them
// to pixels.
const (
	defaultScale     = 0.1    // px per mm: 1:100 at 96 dpi paper sizes
	defaultCutHeight = 1000.0 // plan slice elevation
	pageMargin       = 40.0   // px kept clear around the drawing
	strokeColor      = "#333333"
	dimColor         = "#555555"
	roofColor        = "#777777"
)

type Option func(*renderer)

type renderer struct {
	scale      float64
	cutHeight  float64
	roof       geometry.Polygon
	materials  material.Resolver
	dimensions bool
}

// WithScale sets the output scale in pixels per millimetre.
func WithScale(pxPerMM float64) Option {
	return func(r *renderer) {
		if pxPerMM > 0 {
			r.scale = pxPerMM
		}
	}
}

// WithCutHeight sets the elevation of the plan slice. The default cuts at
// 1000 mm, through windows and above sills.
func WithCutHeight(mm float64) Option { return func(r *renderer) { r.cutHeight = mm } }

// WithRoofOutline adds a dashed roof ring to the plan. Callers typically
// pass the outside perimeter ring grown by the roof overhang via
// [geometry.Polygon.Offset].
func WithRoofOutline(ring geometry.Polygon) Option {
	return func(r *renderer) { r.roof = ring }
}

// WithMaterials resolves element fills from material colors. Elements
// whose material is unknown or has no color fall back to a palette keyed
// by element type.
func WithMaterials(res material.Resolver) Option {
	return func(r *renderer) { r.materials = res }
}

// WithoutDimensions drops the dimension lines.
func WithoutDimensions() Option { return func(r *renderer) { r.dimensions = false } }

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: defaultScale, cutHeight: defaultCutHeight, dimensions: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// PlanSVG renders the top view of the model as an SVG document.
func PlanSVG(m *model.Model, opts ...Option) []byte {
	r := newRenderer(opts...)
	return emitSVG(composePlan(m, r), r.scale)
}

// ===== Scene composition =====

// scene is a resolved 2D drawing in world millimetres with y pointing
// up. Emitters map it onto their page.
type scene struct {
	shapes []shapeFig
	marks  []markFig
	dims   []dimFig

	bounds  geometry.Rect
	hasPts  bool
	baseY   float64 // elevation scenes draw a ground line here
	hasBase bool
}

// shapeFig is a filled figure. The first ring is the outer boundary,
// the rest are holes.
type shapeFig struct {
	rings [][]geometry.Vec2
	fill  string
}

// markFig is a stroked outline or segment without fill.
type markFig struct {
	points []geometry.Vec2
	closed bool
	dashed bool
	color  string
}

// dimFig is a dimension line: the measured points, the offset line they
// project onto, and the label.
type dimFig struct {
	a, b       geometry.Vec2
	offA, offB geometry.Vec2
	label      string
}

func (s *scene) include(pts ...geometry.Vec2) {
	for _, p := range pts {
		if !s.hasPts {
			s.bounds = geometry.Rect{Min: p, Max: p}
			s.hasPts = true
			continue
		}
		if p.X < s.bounds.Min.X {
			s.bounds.Min.X = p.X
		}
		if p.Y < s.bounds.Min.Y {
			s.bounds.Min.Y = p.Y
		}
		if p.X > s.bounds.Max.X {
			s.bounds.Max.X = p.X
		}
		if p.Y > s.bounds.Max.Y {
			s.bounds.Max.Y = p.Y
		}
	}
}

func (s *scene) addShape(f shapeFig) {
	for _, ring := range f.rings {
		s.include(ring...)
	}
	s.shapes = append(s.shapes, f)
}

func (s *scene) addMark(f markFig) {
	s.include(f.points...)
	s.marks = append(s.marks, f)
}

func (s *scene) addDim(f dimFig) {
	s.include(f.a, f.b, f.offA, f.offB)
	s.dims = append(s.dims, f)
}

// composePlan slices the model at the renderer's cut height and collects
// everything the plan view draws.
func composePlan(m *model.Model, r renderer) scene {
	var s scene

	m.Walk(func(e model.Element, world geometry.Transform) {
		b := world.ApplyBox(e.Bounds())
		if b.IsEmpty() || r.cutHeight < b.Min.Z-geometry.Eps || r.cutHeight > b.Max.Z+geometry.Eps {
			return
		}
		fill := r.fillFor(e)
		for _, rings := range footprint(e, world, r.cutHeight) {
			s.addShape(shapeFig{rings: rings, fill: fill})
		}
	})

	for _, a := range m.Areas {
		s.addMark(planAreaMark(a))
	}

	if len(r.roof) >= 3 {
		s.addMark(markFig{points: append([]geometry.Vec2(nil), r.roof...), closed: true, dashed: true, color: roofColor})
	}

	if r.dimensions {
		for _, d := range m.Measurements {
			if f, ok := makeDim(d.From.XY(), d.To.XY(), d.Offset, d.Label); ok {
				s.addDim(f)
			}
		}
	}
	return s
}

// footprint returns the plan outlines of one element at the cut height,
// one figure per disjoint piece. Each figure is a ring list whose first
// ring bounds the piece.
func footprint(e model.Element, world geometry.Transform, cut float64) [][][]geometry.Vec2 {
	switch e.Shape.Kind {
	case model.ShapeKindBox, model.ShapeKindSlopedBox:
		// Vertical shear leaves the footprint of a sloped box unchanged.
		ring := localRect(world, e.Position.X, e.Position.Y, e.Position.X+e.Shape.Size.X, e.Position.Y+e.Shape.Size.Y)
		return [][][]geometry.Vec2{{ring}}

	case model.ShapeKindPrism:
		switch e.Shape.Plane {
		case model.PlanePlan:
			rings := make([][]geometry.Vec2, 0, 1+len(e.Shape.Outline.Holes))
			rings = append(rings, mapRing(world, e.Position.XY(), e.Shape.Outline.Outer))
			for _, h := range e.Shape.Outline.Holes {
				rings = append(rings, mapRing(world, e.Position.XY(), h))
			}
			return [][][]geometry.Vec2{rings}

		default: // PlaneWall
			// The outline lives in the (along, elevation) plane, so the
			// footprint is whatever x intervals have material at the cut,
			// extruded across the thickness.
			yCut := cut - world.Translation.Z - e.Position.Z
			var figs [][][]geometry.Vec2
			for _, iv := range sliceAt(e.Shape.Outline, yCut) {
				ring := localRect(world,
					e.Position.X+iv[0], e.Position.Y,
					e.Position.X+iv[1], e.Position.Y+e.Shape.Depth)
				figs = append(figs, [][]geometry.Vec2{ring})
			}
			return figs
		}
	}
	return nil
}

// sliceAt returns the x intervals where the path has material at height
// y, even-odd over the outer ring and all holes. Edges touching the
// slice height do not count as crossings, so a cut exactly at a sill or
// notch line reads as solid.
func sliceAt(p geometry.Path, y float64) [][2]float64 {
	var xs []float64
	collect := func(ring geometry.Polygon) {
		n := len(ring)
		for i := range ring {
			a, b := ring[i], ring[(i+1)%n]
			if (a.Y-y)*(b.Y-y) >= 0 {
				continue
			}
			xs = append(xs, a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y))
		}
	}
	collect(p.Outer)
	for _, h := range p.Holes {
		collect(h)
	}
	sort.Float64s(xs)

	out := make([][2]float64, 0, len(xs)/2)
	for i := 0; i+1 < len(xs); i += 2 {
		out = append(out, [2]float64{xs[i], xs[i+1]})
	}
	return out
}

// localRect maps an axis-aligned rectangle in the element's group frame
// through the world transform.
func localRect(world geometry.Transform, x0, y0, x1, y1 float64) []geometry.Vec2 {
	return []geometry.Vec2{
		world.ApplyVec2(geometry.V2(x0, y0)),
		world.ApplyVec2(geometry.V2(x1, y0)),
		world.ApplyVec2(geometry.V2(x1, y1)),
		world.ApplyVec2(geometry.V2(x0, y1)),
	}
}

// mapRing maps a shape outline ring, offset by the element position,
// through the world transform.
func mapRing(world geometry.Transform, pos geometry.Vec2, ring geometry.Polygon) []geometry.Vec2 {
	out := make([]geometry.Vec2, len(ring))
	for i, p := range ring {
		out[i] = world.ApplyVec2(p.Add(pos))
	}
	return out
}

// planAreaMark projects an area outline onto the plan. Wall-plane areas
// collapse to their trace line and are drawn as an open dashed segment.
func planAreaMark(a model.Area) markFig {
	ring := make([]geometry.Vec2, len(a.Outline))
	for i, p := range a.Outline {
		ring[i] = p.XY()
	}
	f := markFig{points: ring, closed: true, dashed: true, color: areaColor(a.Kind)}
	if len(ring) >= 3 && !degenerate(ring) {
		return f
	}
	p0, p1 := spanOf(ring)
	f.points = []geometry.Vec2{p0, p1}
	f.closed = false
	return f
}

func degenerate(ring []geometry.Vec2) bool {
	a := geometry.Polygon(ring).Area()
	return a < 1 && a > -1
}

// spanOf returns the two extreme points of a near-colinear point set.
func spanOf(pts []geometry.Vec2) (geometry.Vec2, geometry.Vec2) {
	if len(pts) == 0 {
		return geometry.Vec2{}, geometry.Vec2{}
	}
	far := func(from geometry.Vec2) geometry.Vec2 {
		best, d := from, 0.0
		for _, p := range pts {
			if dd := p.DistanceTo(from); dd > d {
				best, d = p, dd
			}
		}
		return best
	}
	p0 := far(pts[0])
	return p0, far(p0)
}

// makeDim builds a dimension figure from two measured points. Points that
// coincide in this view measure nothing and are dropped.
func makeDim(a, b geometry.Vec2, offset float64, label string) (dimFig, bool) {
	if a.AlmostEqual(b) {
		return dimFig{}, false
	}
	perp := b.Sub(a).Normalize().Perp().Scale(offset)
	return dimFig{a: a, b: b, offA: a.Add(perp), offB: b.Add(perp), label: label}, true
}

func (r renderer) fillFor(e model.Element) string {
	if r.materials != nil {
		if mat, ok := r.materials(e.Material); ok && mat.Color != "" {
			return mat.Color
		}
	}
	return defaultFill(e.Type)
}

func defaultFill(t model.ElementType) string {
	switch t {
	case model.TypePost, model.TypeHeader, model.TypeSill, model.TypePlate, model.TypeRingBeam:
		return "#c8a165"
	case model.TypeBale, model.TypePartialBale, model.TypeInfillStrip:
		return "#e6d9a8"
	case model.TypeFilling:
		return "#dddddd"
	case model.TypeLayer:
		return "#b8a88f"
	}
	return "#cccccc"
}

func areaColor(kind string) string {
	switch kind {
	case "opening":
		return "#b5543c"
	case "infill":
		return "#5b7fa6"
	}
	return "#888888"
}

// ===== SVG emission =====

// page maps scene millimetres onto pixel coordinates, flipping y so the
// scene's up is the page's up.
type page struct {
	minX, maxY    float64
	scale, margin float64
	W, H          float64
}

func newPage(b geometry.Rect, scale float64) page {
	return page{
		minX:   b.Min.X,
		maxY:   b.Max.Y,
		scale:  scale,
		margin: pageMargin,
		W:      (b.Max.X-b.Min.X)*scale + 2*pageMargin,
		H:      (b.Max.Y-b.Min.Y)*scale + 2*pageMargin,
	}
}

func (p page) X(x float64) float64 { return p.margin + (x-p.minX)*p.scale }
func (p page) Y(y float64) float64 { return p.margin + (p.maxY-y)*p.scale }

func emitSVG(s scene, scale float64) []byte {
	pg := newPage(s.bounds, scale)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		pg.W, pg.H, pg.W, pg.H)
	fmt.Fprintf(&buf, "  <rect width=\"%.1f\" height=\"%.1f\" fill=\"#ffffff\"/>\n", pg.W, pg.H)

	if s.hasBase {
		renderBaseline(&buf, pg, s)
	}
	for _, f := range s.shapes {
		renderShape(&buf, pg, f)
	}
	for _, f := range s.marks {
		renderMark(&buf, pg, f)
	}
	for _, f := range s.dims {
		renderDim(&buf, pg, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderShape(buf *bytes.Buffer, pg page, f shapeFig) {
	if len(f.rings) == 1 {
		fmt.Fprintf(buf, "  <polygon points=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n",
			svgPoints(pg, f.rings[0]), f.fill, strokeColor)
		return
	}
	var d strings.Builder
	for _, ring := range f.rings {
		writeRingPath(&d, pg, ring)
	}
	fmt.Fprintf(buf, "  <path d=\"%s\" fill=\"%s\" fill-rule=\"evenodd\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		d.String(), f.fill, strokeColor)
}

func renderMark(buf *bytes.Buffer, pg page, f markFig) {
	dash := ""
	if f.dashed {
		dash = ` stroke-dasharray="9 5"`
	}
	tag := "polyline"
	if f.closed {
		tag = "polygon"
	}
	fmt.Fprintf(buf, "  <%s points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\"%s/>\n",
		tag, svgPoints(pg, f.points), f.color, dash)
}

func renderBaseline(buf *bytes.Buffer, pg page, s scene) {
	y := pg.Y(s.baseY)
	fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"2\"/>\n",
		pg.X(s.bounds.Min.X), y, pg.X(s.bounds.Max.X), y, strokeColor)
}

func renderDim(buf *bytes.Buffer, pg page, f dimFig) {
	line := func(a, b geometry.Vec2) {
		fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"0.75\"/>\n",
			pg.X(a.X), pg.Y(a.Y), pg.X(b.X), pg.Y(b.Y), dimColor)
	}
	line(f.a, f.offA)
	line(f.b, f.offB)
	line(f.offA, f.offB)

	// Ticks and label placement work in page space so text stays upright.
	ax, ay := pg.X(f.offA.X), pg.Y(f.offA.Y)
	bx, by := pg.X(f.offB.X), pg.Y(f.offB.Y)
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	dx, dy = dx/l, dy/l

	// 45 degree ticks where the extension lines cross the dimension line.
	const half = 3.5
	tx, ty := (dx-dy)*half, (dx+dy)*half
	for _, p := range [][2]float64{{ax, ay}, {bx, by}} {
		fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"1\"/>\n",
			p[0]-tx, p[1]-ty, p[0]+tx, p[1]+ty, dimColor)
	}

	if f.label != "" {
		mx, my := (ax+bx)/2-dy*8, (ay+by)/2+dx*8
		fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"11\" fill=\"%s\" text-anchor=\"middle\">%s</text>\n",
			mx, my, strokeColor, escapeText(f.label))
	}
}

func svgPoints(pg page, pts []geometry.Vec2) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", pg.X(p.X), pg.Y(p.Y))
	}
	return strings.Join(parts, " ")
}

func writeRingPath(d *strings.Builder, pg page, ring []geometry.Vec2) {
	for i, p := range ring {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(d, "%s%.1f %.1f ", cmd, pg.X(p.X), pg.Y(p.Y))
	}
	d.WriteString("Z ")
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
