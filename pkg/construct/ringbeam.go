package construct

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
	"github.com/baleframe/baleframe/pkg/solid"
)

// BeamRun is one straight stretch of ring beam: consecutive walls whose
// joints are colinear collapse into a single run mitred only at its two
// real corners.
type BeamRun struct {
	Walls       []int
	StartCorner int
	EndCorner   int
	Origin      geometry.Vec2
	Direction   geometry.Vec2
	Length      float64
}

// GroupRuns collapses consecutive colinear walls of a resolved
// perimeter into beam runs. Runs start and end at real corners.
func GroupRuns(p *perimeter.Perimeter) []BeamRun {
	n := p.Len()
	realCorner := func(i int) bool {
		return !straightJoint(p.WallAt(i-1), p.WallAt(i))
	}

	start := 0
	for start < n && !realCorner(start) {
		start++
	}
	if start == n {
		start = 0
	}

	var runs []BeamRun
	for count := 0; count < n; {
		walls := []int{(start + count) % n}
		count++
		for count < n && !realCorner((start+count)%n) {
			walls = append(walls, (start+count)%n)
			count++
		}

		first := walls[0]
		length := 0.0
		for _, wi := range walls {
			length += p.WallAt(wi).InsideLength
		}
		runs = append(runs, BeamRun{
			Walls:       walls,
			StartCorner: first,
			EndCorner:   (walls[len(walls)-1] + 1) % n,
			Origin:      p.CornerAt(first).Inside,
			Direction:   p.WallAt(first).Direction,
			Length:      length,
		})
	}
	return runs
}

// BuildRingBeams constructs one configured ring beam around the whole
// perimeter: one mitred footprint per run, sliced and slope-adapted by
// the walls' height lines when the beam sits at the top.
func BuildRingBeams(ctx context.Context, p *perimeter.Perimeter, rb *assembly.RingBeam, heights map[int]HeightLine, materials material.Resolver, kernel solid.Kernel, shapes *solid.Cache) (*model.Model, error) {
	if materials != nil {
		if _, ok := materials(rb.Material); !ok {
			return nil, errors.New(errors.ErrCodeMaterialNotFound, "ring beam %q: material %q not found", rb.ID, rb.Material)
		}
		if rb.Type == assembly.RingBeamDouble {
			if _, ok := materials(rb.InfillMaterial); !ok {
				return nil, errors.New(errors.ErrCodeMaterialNotFound, "ring beam %q: infill material %q not found", rb.ID, rb.InfillMaterial)
			}
		}
	}
	for wi, hl := range heights {
		if err := hl.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "height line for wall %d", wi)
		}
	}
	if kernel == nil {
		kernel = solid.NewBuiltin()
	}
	if shapes == nil {
		shapes = solid.NewCache(nil)
	}

	base := 0.0
	if rb.Position == assembly.RingBeamTop {
		base = p.StoreyHeight - rb.Height
	}

	variant := variantFor(rb.Type)
	var runModels []*model.Model
	for i, run := range GroupRuns(p) {
		bc := &beamContext{
			ctx:    ctx,
			p:      p,
			run:    run,
			rb:     rb,
			base:   base,
			kernel: kernel,
			shapes: shapes,
		}
		bc.startCut = runCutLine(p, rb, run.StartCorner, false)
		bc.endCut = runCutLine(p, rb, run.EndCorner, true)
		bc.pieces = []runPiece{{a: 0, b: run.Length}}
		if rb.Position == assembly.RingBeamTop {
			bc.pieces = runHeightLine(p, run, heights).pieces(run.Length)
		}

		name := fmt.Sprintf("ringbeam-%s-run-%d", rb.ID, i)
		local := model.Collect(name, variant.construct(bc)...)
		t := geometry.Transform{
			Rotation:    run.Direction.Angle(),
			Translation: geometry.Vec3{X: run.Origin.X, Y: run.Origin.Y},
		}
		runModels = append(runModels, model.ApplyTransform(local, name, t))
	}

	return model.Merge(runModels...), nil
}

// runHeightLine stitches the per-wall height lines of a run into one
// line in run-local positions.
func runHeightLine(p *perimeter.Perimeter, run BeamRun, heights map[int]HeightLine) HeightLine {
	var points []HeightPoint
	shift := 0.0
	for _, wi := range run.Walls {
		if hl, ok := heights[wi]; ok {
			for _, pt := range hl.Points {
				points = append(points, HeightPoint{Position: pt.Position + shift, Offset: pt.Offset})
			}
		}
		shift += p.WallAt(wi).InsideLength
	}
	return HeightLine{Points: points}
}

// runCutLine picks the neighbor run's inner or outer offset line as the
// mitre cut at a run boundary corner. A convex corner owned by the
// current run cuts across the neighbor's outer line; a concave corner
// not owned by the current run extends around it the same way; every
// other combination stops at the neighbor's inner line.
func runCutLine(p *perimeter.Perimeter, rb *assembly.RingBeam, cornerIdx int, atEnd bool) geometry.Line {
	corner := p.CornerAt(cornerIdx)

	neighbor := p.WallAt(cornerIdx - 1) // wall ending at the run's start corner
	owned := corner.Owner == perimeter.OwnerNext
	if atEnd {
		neighbor = p.WallAt(cornerIdx) // wall starting at the run's end corner
		owned = corner.Owner == perimeter.OwnerPrev
	}

	useOuter := (corner.Convex && owned) || (!corner.Convex && !owned)
	if useOuter {
		return neighbor.InsideLine.Offset(rb.OffsetFromEdge + rb.Width)
	}
	return neighbor.InsideLine.Offset(rb.OffsetFromEdge)
}

// ===== Variants =====

type beamContext struct {
	ctx    context.Context
	p      *perimeter.Perimeter
	run    BeamRun
	rb     *assembly.RingBeam
	base   float64
	pieces []runPiece

	startCut, endCut geometry.Line

	kernel solid.Kernel
	shapes *solid.Cache
}

// beamVariant is the closed set of ring beam constructions, selected by
// the configured type.
type beamVariant interface {
	construct(bc *beamContext) []model.Part
}

func variantFor(t assembly.RingBeamType) beamVariant {
	switch t {
	case assembly.RingBeamDouble:
		return doubleBeam{}
	case assembly.RingBeamBrick:
		return brickBeam{}
	default:
		return fullBeam{}
	}
}

type fullBeam struct{}

func (fullBeam) construct(bc *beamContext) []model.Part {
	off := bc.rb.OffsetFromEdge
	return bc.bandParts(off, off+bc.rb.Width, model.TypeRingBeam, bc.rb.Material)
}

// doubleBeam splits the width into two timber leaves with an insulation
// strip between them. The leaves inherit the run's mitre cuts.
type doubleBeam struct{}

func (doubleBeam) construct(bc *beamContext) []model.Part {
	off, w := bc.rb.OffsetFromEdge, bc.rb.Width
	lw := bc.rb.EffectiveLeafWidth()

	parts := bc.bandParts(off, off+lw, model.TypeRingBeam, bc.rb.Material)
	parts = append(parts, bc.bandParts(off+w-lw, off+w, model.TypeRingBeam, bc.rb.Material)...)
	if gap := w - 2*lw; gap > geometry.Eps {
		parts = append(parts, bc.bandParts(off+lw, off+w-lw, model.TypeInfillStrip, bc.rb.InfillMaterial)...)
	}
	return parts
}

// brickBeam is a masonry course over the full footprint. Masonry
// cannot shear, so sloped pieces are re-sliced into level steps of at
// most one course rise, each kept at or below the roof line.
type brickBeam struct{}

func (brickBeam) construct(bc *beamContext) []model.Part {
	stepped := make([]runPiece, 0, len(bc.pieces))
	for _, piece := range bc.pieces {
		if piece.level() {
			stepped = append(stepped, piece)
			continue
		}
		rise := absf(piece.o1 - piece.o0)
		steps := int(math.Ceil(rise / bc.rb.Height))
		if steps < 1 {
			steps = 1
		}
		width := (piece.b - piece.a) / float64(steps)
		lerp := func(x float64) float64 {
			return piece.o0 + (x-piece.a)/(piece.b-piece.a)*(piece.o1-piece.o0)
		}
		for s := 0; s < steps; s++ {
			a := piece.a + float64(s)*width
			b := a + width
			o := minf(lerp(a), lerp(b))
			stepped = append(stepped, runPiece{a: a, b: b, o0: o, o1: o})
		}
	}

	sub := *bc
	sub.pieces = stepped
	off := bc.rb.OffsetFromEdge
	return sub.bandParts(off, off+bc.rb.Width, model.TypeRingBeam, bc.rb.Material)
}

// ===== Band construction =====

// bandParts emits the elements of one band [y0, y1] across the run's
// pieces. Level pieces extrude the mitred footprint plainly; sloped
// pieces become sheared boxes whose solid handle is built through the
// kernel by expanding the footprint, extruding and clipping it against
// the vertical prism of the unexpanded footprint.
func (bc *beamContext) bandParts(y0, y1 float64, t model.ElementType, mat material.ID) []model.Part {
	inside := bc.p.WallAt(bc.run.Walls[0]).InsideLine
	inner := inside.Offset(y0)
	outer := inside.Offset(y1)
	h := bc.rb.Height

	var parts []model.Part
	for _, piece := range bc.pieces {
		cutA := bc.cutAt(piece.a, bc.startCut)
		cutB := bc.cutAt(piece.b, bc.endCut)

		if piece.level() {
			quad := geometry.Polygon{
				bc.toLocal(cutPoint(inner, cutA, bc.run.Origin)),
				bc.toLocal(cutPoint(inner, cutB, bc.run.Origin)),
				bc.toLocal(cutPoint(outer, cutB, bc.run.Origin)),
				bc.toLocal(cutPoint(outer, cutA, bc.run.Origin)),
			}
			el := model.NewElement(t, mat,
				geometry.Vec3{Z: bc.base + piece.o0},
				model.PrismShape(geometry.Path{Outer: quad}, model.PlanePlan, h))
			parts = append(parts, model.ElementPart(el))
			bc.buildLevelSolid(quad, h)
			continue
		}

		// Sloped pieces sit between perpendicular breakpoint cuts, so
		// their footprint is the plain band rectangle.
		length := piece.b - piece.a
		rise := piece.o1 - piece.o0
		el := model.NewElement(t, mat,
			geometry.Vec3{X: piece.a, Y: y0, Z: bc.base + piece.o0},
			model.SlopedBoxShape(geometry.Vec3{X: length, Y: y1 - y0, Z: h}, rise))
		parts = append(parts, model.ElementPart(el))
		bc.buildSlopedSolid(length, y1-y0, h, rise)
	}
	return parts
}

// cutAt returns the world cut line at a run-local position: the mitre
// line at the run boundaries, a perpendicular cut at interior
// breakpoints.
func (bc *beamContext) cutAt(x float64, boundary geometry.Line) geometry.Line {
	if geometry.AlmostEqual(x, 0) || geometry.AlmostEqual(x, bc.run.Length) {
		return boundary
	}
	at := bc.run.Origin.Add(bc.run.Direction.Scale(x))
	return geometry.Line{Point: at, Dir: bc.run.Direction.Perp()}
}

// cutPoint intersects a band line with a cut line, falling back to the
// projection of the reference point when the lines are parallel.
func cutPoint(band, cut geometry.Line, near geometry.Vec2) geometry.Vec2 {
	if pt, ok := band.Intersect(cut); ok {
		return pt
	}
	return band.At(band.Project(near))
}

// toLocal maps a plan point into run-local coordinates: x along the
// run, y outward from the inside line.
func (bc *beamContext) toLocal(pt geometry.Vec2) geometry.Vec2 {
	rel := pt.Sub(bc.run.Origin)
	return geometry.Vec2{X: rel.Dot(bc.run.Direction), Y: rel.Dot(bc.run.Direction.Perp())}
}

func (bc *beamContext) buildLevelSolid(quad geometry.Polygon, h float64) {
	if bc.shapes == nil {
		return
	}
	shape := model.PrismShape(geometry.Path{Outer: quad}, model.PlanePlan, h)
	bc.shapes.GetOrBuild(bc.ctx, shapeParams(shape), func() solid.Solid {
		return bc.kernel.Extrude(quad, h)
	})
}

func (bc *beamContext) buildSlopedSolid(length, width, h, rise float64) {
	if bc.shapes == nil {
		return
	}
	shape := model.SlopedBoxShape(geometry.Vec3{X: length, Y: width, Z: h}, rise)
	bc.shapes.GetOrBuild(bc.ctx, shapeParams(shape), func() solid.Solid {
		return slopedSolid(bc.kernel, length, width, h, rise)
	})
}

func fparam(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
