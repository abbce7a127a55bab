package construct

import (
	"fmt"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

// Dimension line offsets for generated measurements, in mm.
const (
	runDimOffset     = 300
	openingDimOffset = 150
)

// WallContext carries what BuildWall needs about one wall of a resolved
// perimeter.
type WallContext struct {
	Perimeter  *perimeter.Perimeter
	Index      int
	Assemblies *assembly.Registry
	Materials  material.Resolver
}

// BuildWall synthesizes one wall in run-local coordinates: x along the
// construction run from [perimeter.Perimeter.RunOrigin], y across the
// core from the inside face, z up. The caller places the result into the
// plan by wrapping it in the wall's transform.
//
// Configuration problems (unknown assembly or material, openings that do
// not fit the run, plates that consume the storey) fail the call; layout
// findings are recorded as issues on the returned model instead.
func BuildWall(wc WallContext) (*model.Model, error) {
	p := wc.Perimeter
	w := p.WallAt(wc.Index)

	cfg, err := wc.Assemblies.Assembly(w.Assembly)
	if err != nil {
		return nil, err
	}
	if err := checkMaterials(cfg, wc.Materials); err != nil {
		return nil, err
	}

	runLen := p.RunLength(wc.Index)
	height := p.StoreyHeight

	// Openings are placed relative to the inside corner; the run starts
	// StartExtension before it.
	shifted := make([]perimeter.Opening, len(w.Openings))
	for i, o := range w.Openings {
		o.Offset += w.StartExtension
		shifted[i] = o
	}

	segments, err := SegmentWall(runLen, shifted)
	if err != nil {
		return nil, err
	}

	var parts []model.Part

	frame := Frame{Thickness: w.Thickness, Bottom: 0, Top: height}
	if cfg.Plate.HasBase() {
		frame.Bottom = cfg.Plate.BaseThickness
		parts = append(parts, model.ElementPart(model.NewElement(
			model.TypePlate, cfg.Plate.Material,
			geometry.Vec3{},
			model.BoxShape(geometry.Vec3{X: runLen, Y: w.Thickness, Z: cfg.Plate.BaseThickness}))))
	}
	if cfg.Plate.HasTop() {
		frame.Top = height - cfg.Plate.TopThickness
		parts = append(parts, model.ElementPart(model.NewElement(
			model.TypePlate, cfg.Plate.Material,
			geometry.Vec3{Z: frame.Top},
			model.BoxShape(geometry.Vec3{X: runLen, Y: w.Thickness, Z: cfg.Plate.TopThickness}))))
	}
	if frame.Top-frame.Bottom <= geometry.Eps {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"plates leave no frame height in a %.0fmm storey", height)
	}

	for _, seg := range segments {
		switch seg.Kind {
		case SegmentKindWall:
			// Boundary posts double as corner and jamb posts.
			parts = append(parts, LayoutInfill(Area{
				Start:  seg.Start,
				Width:  seg.Width,
				Depth:  w.Thickness,
				Bottom: frame.Bottom,
				Height: frame.Top - frame.Bottom,
				Bounds: PostBounds{Start: true, End: true},
			}, cfg.Infill)...)
		case SegmentKindOpening:
			parts = append(parts, FrameOpening(seg, cfg, frame)...)
		}
	}

	layerParts, err := BuildLayers(p, wc.Index, cfg, wc.Assemblies, shifted)
	if err != nil {
		return nil, err
	}
	parts = append(parts, layerParts...)

	parts = append(parts, model.MeasurementPart(model.Measurement{
		From:   geometry.Vec3{},
		To:     geometry.Vec3{X: runLen},
		Offset: runDimOffset,
		Label:  fmt.Sprintf("%.0f", runLen),
	}))
	for _, o := range shifted {
		parts = append(parts, model.MeasurementPart(model.Measurement{
			From:   geometry.Vec3{X: o.Offset, Z: o.SillHeight},
			To:     geometry.Vec3{X: o.End(), Z: o.SillHeight},
			Offset: openingDimOffset,
			Label:  fmt.Sprintf("%.0f", o.Width),
		}))
	}

	return model.Collect(fmt.Sprintf("wall-%d", wc.Index), parts...), nil
}

// checkMaterials verifies that every material the assembly references
// resolves, so element synthesis never emits an id the part list cannot
// price.
func checkMaterials(cfg *assembly.Config, resolve material.Resolver) error {
	for _, id := range cfg.Materials() {
		if _, ok := resolve(id); !ok {
			return errors.New(errors.ErrCodeMaterialNotFound,
				"assembly %q references unknown material %q", cfg.ID, id)
		}
	}
	return nil
}
