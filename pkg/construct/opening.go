package construct

import (
	"fmt"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
)

// Frame is the vertical envelope available to a wall's framing: the
// core depth across the wall and the elevation band between the plates.
// Without plates the band is [0, storey height].
type Frame struct {
	Thickness float64
	Bottom    float64
	Top       float64
}

// FrameOpening builds the framing of one opening segment: a header
// above the opening, a sill below it, a filling per individual opening,
// and infill for the residual bands. Members that do not fit are still
// emitted together with an error referencing them; nothing is silently
// dropped. Each individual opening is also recorded as a highlight area
// for diagrams.
func FrameOpening(seg Segment, cfg *assembly.Config, f Frame) []model.Part {
	o := seg.Openings[0]
	sill, head := o.SillHeight, o.HeadHeight()
	op := cfg.Opening

	var parts []model.Part
	for _, each := range seg.Openings {
		parts = append(parts, model.AreaPart(model.NewArea("opening",
			geometry.Vec3{X: each.Offset, Z: each.SillHeight},
			geometry.Vec3{X: each.End(), Z: each.SillHeight},
			geometry.Vec3{X: each.End(), Z: each.HeadHeight()},
			geometry.Vec3{X: each.Offset, Z: each.HeadHeight()},
		)))
	}

	headerTop := head
	if op.HasHeader() && head < f.Top-geometry.Eps {
		header := model.NewElement(model.TypeHeader, op.HeaderMaterial,
			geometry.Vec3{X: seg.Start, Y: 0, Z: head},
			model.BoxShape(geometry.Vec3{X: seg.Width, Y: f.Thickness, Z: op.HeaderThickness}))
		parts = append(parts, model.ElementPart(header))
		if head+op.HeaderThickness > f.Top+geometry.Eps {
			parts = append(parts, model.ErrorPart(model.NewIssue(
				fmt.Sprintf("header does not fit: needs %.0fmm but only %.0fmm available",
					op.HeaderThickness, f.Top-head),
				header.ID)))
		}
		headerTop = head + op.HeaderThickness
	}

	sillBottom := sill
	if op.HasSill() && sill > geometry.Eps {
		sillEl := model.NewElement(model.TypeSill, op.SillMaterial,
			geometry.Vec3{X: seg.Start, Y: 0, Z: sill - op.SillThickness},
			model.BoxShape(geometry.Vec3{X: seg.Width, Y: f.Thickness, Z: op.SillThickness}))
		parts = append(parts, model.ElementPart(sillEl))
		if op.SillThickness > sill-f.Bottom+geometry.Eps {
			parts = append(parts, model.ErrorPart(model.NewIssue(
				fmt.Sprintf("sill does not fit: needs %.0fmm but only %.0fmm available",
					op.SillThickness, sill-f.Bottom),
				sillEl.ID)))
		}
		sillBottom = sill - op.SillThickness
	}

	if op.HasFilling() {
		for _, each := range seg.Openings {
			w := each.Width - 2*op.Padding
			h := each.Height - 2*op.Padding
			if w <= geometry.Eps || h <= geometry.Eps {
				continue
			}
			filling := model.NewElement(model.TypeFilling, op.FillingMaterial,
				geometry.Vec3{
					X: each.Offset + op.Padding,
					Y: (f.Thickness - op.FillingThickness) / 2,
					Z: each.SillHeight + op.Padding,
				},
				model.BoxShape(geometry.Vec3{X: w, Y: op.FillingThickness, Z: h}))
			parts = append(parts, model.ElementPart(filling))
		}
	}

	// Residual bands keep the surrounding jamb posts and take no posts
	// of their own.
	if above := f.Top - headerTop; above > geometry.Eps {
		parts = append(parts, LayoutInfill(Area{
			Start:  seg.Start,
			Width:  seg.Width,
			Depth:  f.Thickness,
			Bottom: headerTop,
			Height: above,
		}, cfg.Infill)...)
	}
	if below := sillBottom - f.Bottom; below > geometry.Eps {
		parts = append(parts, LayoutInfill(Area{
			Start:  seg.Start,
			Width:  seg.Width,
			Depth:  f.Thickness,
			Bottom: f.Bottom,
			Height: below,
		}, cfg.Infill)...)
	}

	return parts
}
