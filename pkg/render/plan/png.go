package plan

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
)

// PlanPNG renders the top view of the model as a PNG image. Same scene
// as [PlanSVG], rasterized.
func PlanPNG(m *model.Model, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	return renderPNG(composePlan(m, r), r.scale)
}

func renderPNG(s scene, scale float64) ([]byte, error) {
	pg := newPage(s.bounds, scale)
	w := int(math.Ceil(pg.W))
	h := int(math.Ceil(pg.H))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if s.hasBase {
		y := pg.Y(s.baseY)
		dc.DrawLine(pg.X(s.bounds.Min.X), y, pg.X(s.bounds.Max.X), y)
		dc.SetHexColor(strokeColor)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	for _, f := range s.shapes {
		for _, ring := range f.rings {
			tracePath(dc, pg, ring, true)
		}
		dc.SetFillRule(gg.FillRuleEvenOdd)
		dc.SetHexColor(f.fill)
		dc.FillPreserve()
		dc.SetHexColor(strokeColor)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	for _, f := range s.marks {
		if f.dashed {
			dc.SetDash(8, 4)
		}
		tracePath(dc, pg, f.points, f.closed)
		dc.SetHexColor(f.color)
		dc.SetLineWidth(1.5)
		dc.Stroke()
		dc.SetDash()
	}

	for _, f := range s.dims {
		drawDim(dc, pg, f)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode plan png")
	}
	return buf.Bytes(), nil
}

func tracePath(dc *gg.Context, pg page, pts []geometry.Vec2, closed bool) {
	if len(pts) == 0 {
		return
	}
	dc.MoveTo(pg.X(pts[0].X), pg.Y(pts[0].Y))
	for _, p := range pts[1:] {
		dc.LineTo(pg.X(p.X), pg.Y(p.Y))
	}
	if closed {
		dc.ClosePath()
	}
}

func drawDim(dc *gg.Context, pg page, f dimFig) {
	dc.SetHexColor(dimColor)
	dc.SetLineWidth(0.75)
	for _, seg := range [][2]geometry.Vec2{{f.a, f.offA}, {f.b, f.offB}, {f.offA, f.offB}} {
		dc.DrawLine(pg.X(seg[0].X), pg.Y(seg[0].Y), pg.X(seg[1].X), pg.Y(seg[1].Y))
	}
	dc.Stroke()

	ax, ay := pg.X(f.offA.X), pg.Y(f.offA.Y)
	bx, by := pg.X(f.offB.X), pg.Y(f.offB.Y)
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	dx, dy = dx/l, dy/l

	const half = 3.5
	tx, ty := (dx-dy)*half, (dx+dy)*half
	dc.SetLineWidth(1)
	for _, p := range [][2]float64{{ax, ay}, {bx, by}} {
		dc.DrawLine(p[0]-tx, p[1]-ty, p[0]+tx, p[1]+ty)
	}
	dc.Stroke()

	if f.label != "" {
		dc.SetHexColor(strokeColor)
		dc.DrawStringAnchored(f.label, (ax+bx)/2-dy*8, (ay+by)/2+dx*8, 0.5, 0.5)
	}
}
