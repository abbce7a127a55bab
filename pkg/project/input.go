package project

import (
	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/construct"
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

// ToInput converts the file into synthesis input: the perimeter with
// its registries, ring beam selection, and roof height lines, plus the
// canonical project hash that keys the model cache.
//
// The perimeter geometry is resolved here, so geometry errors surface
// from ToInput and the returned input is ready for [construct.BuildPerimeter]
// or [construct.Builder].
func (f *File) ToInput() (construct.PerimeterInput, string, error) {
	if err := f.Validate(); err != nil {
		return construct.PerimeterInput{}, "", err
	}
	lib, reg, err := f.buildRegistries()
	if err != nil {
		return construct.PerimeterInput{}, "", err
	}

	p := &perimeter.Perimeter{
		Corners:      make([]perimeter.Corner, len(f.Perimeter.Corners)),
		Walls:        make([]perimeter.Wall, len(f.Perimeter.Walls)),
		StoreyHeight: f.Project.StoreyHeight,
	}
	ring := make(geometry.Polygon, len(f.Perimeter.Corners))
	for i, c := range f.Perimeter.Corners {
		p.Corners[i] = perimeter.Corner{
			Inside: geometry.V2(c.X, c.Y),
			Owner:  perimeter.Owner(c.Owner),
		}
		ring[i] = p.Corners[i].Inside
	}
	for i, w := range f.Perimeter.Walls {
		openings := make([]perimeter.Opening, len(w.Openings))
		for j, o := range w.Openings {
			openings[j] = perimeter.Opening{
				Kind:       perimeter.OpeningKind(o.Kind),
				Offset:     o.Offset,
				Width:      o.Width,
				Height:     o.Height,
				SillHeight: o.SillHeight,
			}
		}
		p.Walls[i] = perimeter.Wall{
			Thickness: w.Thickness,
			Assembly:  assembly.ID(w.Assembly),
			Openings:  openings,
		}
	}

	// Resolve may reorient a counter-clockwise ring; remember so roof
	// lines can follow their walls.
	flipped := !ring.IsClockwise()
	if err := perimeter.Resolve(p, perimeter.ResolveOptions{}); err != nil {
		return construct.PerimeterInput{}, "", err
	}

	heights, err := f.heightLines(p, flipped)
	if err != nil {
		return construct.PerimeterInput{}, "", err
	}

	beams := make([]assembly.ID, len(f.RingBeams))
	for i, b := range f.RingBeams {
		beams[i] = assembly.ID(b.ID)
	}

	hash, err := cache.HashJSON(f)
	if err != nil {
		return construct.PerimeterInput{}, "", errors.Wrap(errors.ErrCodeInternal, err, "hash project")
	}

	return construct.PerimeterInput{
		Perimeter:   p,
		Assemblies:  reg,
		Materials:   lib.Resolver(),
		RingBeams:   beams,
		HeightLines: heights,
	}, hash, nil
}

// Library converts the [[material]] entries into a material library.
func (f *File) Library() (*material.Library, error) {
	mats := make([]material.Material, len(f.Materials))
	for i, m := range f.Materials {
		mats[i] = m.toMaterial()
	}
	return material.NewLibrary(mats...)
}

// buildRegistries converts the catalog sections into their domain
// registries. Every entry is validated on insert.
func (f *File) buildRegistries() (*material.Library, *assembly.Registry, error) {
	lib, err := f.Library()
	if err != nil {
		return nil, nil, err
	}
	reg := assembly.NewRegistry()
	for _, a := range f.Assemblies {
		if err := reg.AddAssembly(a.toConfig()); err != nil {
			return nil, nil, err
		}
	}
	for _, b := range f.RingBeams {
		if err := reg.AddRingBeam(b.toConfig()); err != nil {
			return nil, nil, err
		}
	}
	return lib, reg, nil
}

// heightLines builds the per-wall height line map, keyed by resolved
// wall index. flipped reports that Resolve reoriented the ring; line
// indices and shapes mirror with their walls.
func (f *File) heightLines(p *perimeter.Perimeter, flipped bool) (map[int]construct.HeightLine, error) {
	if len(f.Roof.Lines) == 0 {
		return nil, nil
	}
	n := p.Len()
	out := make(map[int]construct.HeightLine, len(f.Roof.Lines))
	for _, line := range f.Roof.Lines {
		idx := line.Wall
		if flipped {
			idx = (n - 1 - idx) % n
		}
		length := p.WallAt(idx).InsideLength

		var hl construct.HeightLine
		var err error
		switch line.Shape {
		case RoofLineGable:
			hl, err = construct.Gable(length, f.Roof.Slope)
		case RoofLineShed:
			hl, err = construct.Shed(length, f.Roof.Slope)
		default:
			hl = construct.HeightLine{Points: append([]construct.HeightPoint(nil), line.Points...)}
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "roof line for wall %d", line.Wall)
		}
		if flipped {
			hl = mirrorLine(hl, length)
		}
		out[idx] = hl
	}
	return out, nil
}

// mirrorLine flips a height line across the middle of its run, for
// walls whose direction reversed during ring reorientation.
func mirrorLine(hl construct.HeightLine, length float64) construct.HeightLine {
	pts := make([]construct.HeightPoint, len(hl.Points))
	for i, pt := range hl.Points {
		pts[len(pts)-1-i] = construct.HeightPoint{Position: length - pt.Position, Offset: pt.Offset}
	}
	return construct.HeightLine{Points: pts}
}

// ===== Section conversions =====

func (m Material) toMaterial() material.Material {
	stock := make([]material.StockSize, len(m.Stock))
	for i, s := range m.Stock {
		stock[i] = material.StockSize{Length: s.Length, Width: s.Width, Height: s.Height}
	}
	return material.Material{
		ID:      material.ID(m.ID),
		Name:    m.Name,
		Color:   m.Color,
		Density: m.Density,
		Stock:   stock,
	}
}

func (a Assembly) toConfig() assembly.Config {
	return assembly.Config{
		ID:   assembly.ID(a.ID),
		Name: a.Name,
		Layers: assembly.LayerSet{
			Inside:  layerList(a.Layers.Inside),
			Outside: layerList(a.Layers.Outside),
		},
		Infill: assembly.InfillConfig{
			PostType:       assembly.PostType(a.Infill.PostType),
			PostWidth:      a.Infill.PostWidth,
			PostDepth:      a.Infill.PostDepth,
			PostMaterial:   material.ID(a.Infill.PostMaterial),
			StrawMaterial:  material.ID(a.Infill.StrawMaterial),
			BaleLength:     a.Infill.BaleLength,
			BaleHeight:     a.Infill.BaleHeight,
			MinStrawSpace:  a.Infill.MinStrawSpace,
			DesiredSpacing: a.Infill.DesiredSpacing,
			MaxSpacing:     a.Infill.MaxSpacing,
		},
		Opening: assembly.OpeningConfig{
			HeaderThickness:  a.Framing.HeaderThickness,
			HeaderMaterial:   material.ID(a.Framing.HeaderMaterial),
			SillThickness:    a.Framing.SillThickness,
			SillMaterial:     material.ID(a.Framing.SillMaterial),
			Padding:          a.Framing.Padding,
			FillingThickness: a.Framing.FillingThickness,
			FillingMaterial:  material.ID(a.Framing.FillingMaterial),
		},
		Plate: assembly.PlateConfig{
			BaseThickness: a.Plates.BaseThickness,
			TopThickness:  a.Plates.TopThickness,
			Material:      material.ID(a.Plates.Material),
		},
	}
}

func layerList(in []Layer) []assembly.Layer {
	if len(in) == 0 {
		return nil
	}
	out := make([]assembly.Layer, len(in))
	for i, l := range in {
		out[i] = assembly.Layer{Thickness: l.Thickness, Material: material.ID(l.Material)}
	}
	return out
}

func (b RingBeam) toConfig() assembly.RingBeam {
	return assembly.RingBeam{
		ID:             assembly.ID(b.ID),
		Position:       assembly.RingBeamPosition(b.Position),
		Type:           assembly.RingBeamType(b.Type),
		Height:         b.Height,
		Width:          b.Width,
		OffsetFromEdge: b.OffsetFromEdge,
		LeafWidth:      b.LeafWidth,
		Material:       material.ID(b.Material),
		InfillMaterial: material.ID(b.InfillMaterial),
	}
}
