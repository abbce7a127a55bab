package construct

import (
	"sort"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

type wallSide int

const (
	sideInside wallSide = iota
	sideOutside
)

// BuildLayers emits the finish layers of both wall sides as extruded
// prism elements in the wall plane. Openings become holes in the
// outline; holes touching the floor or ceiling are carved as notches
// and full-height holes split the outline into separate pieces.
//
// The horizontal extent of each side depends on corner ownership. At
// the wrap side of a corner (outside when convex, inside when reflex)
// the owning wall's layers run past the corner by the neighbor's stack
// so the joint closes; the other wall's layers butt against them. The
// joint tiles exactly regardless of either wall's stack thickness.
func BuildLayers(p *perimeter.Perimeter, index int, cfg *assembly.Config, assemblies *assembly.Registry, openings []perimeter.Opening) ([]model.Part, error) {
	w := p.WallAt(index)
	var parts []model.Part

	for _, side := range []wallSide{sideInside, sideOutside} {
		stack := cfg.Layers.Inside
		if side == sideOutside {
			stack = cfg.Layers.Outside
		}
		if len(stack) == 0 {
			continue
		}

		x0, err := layerExtent(p, index, side, assemblies, false)
		if err != nil {
			return nil, err
		}
		x1, err := layerExtent(p, index, side, assemblies, true)
		if err != nil {
			return nil, err
		}
		if x1-x0 <= geometry.Eps {
			continue
		}

		cum := 0.0
		for _, layer := range stack {
			y := w.Thickness + cum
			if side == sideInside {
				y = -(cum + layer.Thickness)
			}
			for _, outline := range carveOutline(x0, x1, p.StoreyHeight, openings) {
				parts = append(parts, model.ElementPart(model.NewElement(
					model.TypeLayer, layer.Material,
					geometry.Vec3{X: 0, Y: y, Z: 0},
					model.PrismShape(outline, model.PlaneWall, layer.Thickness))))
			}
			cum += layer.Thickness
		}
	}

	return parts, nil
}

// layerExtent computes the run-local boundary of one side's layers at
// the start (atEnd false) or end (atEnd true) of wall index.
func layerExtent(p *perimeter.Perimeter, index int, side wallSide, assemblies *assembly.Registry, atEnd bool) (float64, error) {
	w := p.WallAt(index)

	cornerIdx := index
	neighborIdx := index - 1
	owns := p.OwnsStart(index)
	if atEnd {
		cornerIdx = index + 1
		neighborIdx = index + 1
		owns = p.OwnsEnd(index)
	}
	corner := p.CornerAt(cornerIdx)
	neighbor := p.WallAt(neighborIdx)

	// Run-local along coordinate of the side's corner point.
	proj := w.StartExtension
	if atEnd {
		proj += w.InsideLength
	}
	if side == sideOutside {
		proj = (corner.Outside.Sub(p.CornerAt(index).Inside)).Dot(w.Direction) + w.StartExtension
	}

	// Colinear joints have no corner block; both walls' layers meet at
	// the shared point.
	if straightJoint(neighbor, w) {
		return proj, nil
	}

	wrap := side == sideOutside
	if !corner.Convex {
		wrap = side == sideInside
	}

	adjust := 0.0
	if wrap && owns {
		cfg, err := assemblies.Assembly(neighbor.Assembly)
		if err != nil {
			return 0, err
		}
		adjust = sideStack(cfg, side)
	}
	if !wrap && !owns {
		cfg, err := assemblies.Assembly(neighbor.Assembly)
		if err != nil {
			return 0, err
		}
		adjust = -sideStack(cfg, side)
	}

	if atEnd {
		return proj + adjust, nil
	}
	return proj - adjust, nil
}

func sideStack(cfg *assembly.Config, side wallSide) float64 {
	if side == sideInside {
		return cfg.Layers.InsideThickness()
	}
	return cfg.Layers.OutsideThickness()
}

func straightJoint(a, b *perimeter.Wall) bool {
	cross := a.Direction.Cross(b.Direction)
	return cross < geometry.Eps && cross > -geometry.Eps && a.Direction.Dot(b.Direction) > 0
}

// ===== Outline carving =====

type holeRect struct {
	x0, x1, z0, z1 float64
}

// carveOutline returns the layer outline paths for the rectangle
// [x0,x1] x [0,height] minus one hole per opening. Holes are clipped to
// the rectangle; holes touching an edge turn into notches and holes
// spanning the full height split the outline.
func carveOutline(x0, x1, height float64, openings []perimeter.Opening) []geometry.Path {
	var full, bottom, top, interior []holeRect
	for _, o := range openings {
		h := holeRect{
			x0: maxf(o.Offset, x0),
			x1: minf(o.End(), x1),
			z0: maxf(o.SillHeight, 0),
			z1: minf(o.HeadHeight(), height),
		}
		if h.x1-h.x0 <= geometry.Eps || h.z1-h.z0 <= geometry.Eps {
			continue
		}
		touchBottom := h.z0 <= geometry.Eps
		touchTop := h.z1 >= height-geometry.Eps
		switch {
		case touchBottom && touchTop:
			full = append(full, h)
		case touchBottom:
			bottom = append(bottom, h)
		case touchTop:
			top = append(top, h)
		default:
			interior = append(interior, h)
		}
	}
	for _, hs := range [][]holeRect{full, bottom, top, interior} {
		sort.Slice(hs, func(i, j int) bool { return hs[i].x0 < hs[j].x0 })
	}

	// Full-height holes partition the outline into slabs.
	var paths []geometry.Path
	cur := x0
	emit := func(sx0, sx1 float64) {
		if sx1-sx0 <= geometry.Eps {
			return
		}
		paths = append(paths, slabPath(sx0, sx1, height, bottom, top, interior))
	}
	for _, h := range full {
		emit(cur, h.x0)
		cur = h.x1
	}
	emit(cur, x1)
	return paths
}

// slabPath builds one outline polygon with bottom/top notches and
// interior holes, clipped to [sx0, sx1].
func slabPath(sx0, sx1, height float64, bottom, top, interior []holeRect) geometry.Path {
	ring := geometry.Polygon{{X: sx0, Y: 0}}

	for _, h := range bottom {
		bx0, bx1 := maxf(h.x0, sx0), minf(h.x1, sx1)
		if bx1-bx0 <= geometry.Eps {
			continue
		}
		ring = append(ring,
			geometry.Vec2{X: bx0, Y: 0},
			geometry.Vec2{X: bx0, Y: h.z1},
			geometry.Vec2{X: bx1, Y: h.z1},
			geometry.Vec2{X: bx1, Y: 0},
		)
	}
	ring = append(ring, geometry.Vec2{X: sx1, Y: 0}, geometry.Vec2{X: sx1, Y: height})

	for i := len(top) - 1; i >= 0; i-- {
		h := top[i]
		tx0, tx1 := maxf(h.x0, sx0), minf(h.x1, sx1)
		if tx1-tx0 <= geometry.Eps {
			continue
		}
		ring = append(ring,
			geometry.Vec2{X: tx1, Y: height},
			geometry.Vec2{X: tx1, Y: h.z0},
			geometry.Vec2{X: tx0, Y: h.z0},
			geometry.Vec2{X: tx0, Y: height},
		)
	}
	ring = append(ring, geometry.Vec2{X: sx0, Y: height})

	path := geometry.Path{Outer: dedupe(ring)}
	for _, h := range interior {
		hx0, hx1 := maxf(h.x0, sx0), minf(h.x1, sx1)
		if hx1-hx0 <= geometry.Eps {
			continue
		}
		path.Holes = append(path.Holes, geometry.Polygon{
			{X: hx0, Y: h.z0}, {X: hx1, Y: h.z0}, {X: hx1, Y: h.z1}, {X: hx0, Y: h.z1},
		})
	}
	return path
}

// dedupe removes consecutive duplicate ring points, including a
// duplicate closing point.
func dedupe(ring geometry.Polygon) geometry.Polygon {
	out := ring[:0:0]
	for _, pt := range ring {
		if len(out) > 0 {
			last := out[len(out)-1]
			if geometry.AlmostEqual(last.X, pt.X) && geometry.AlmostEqual(last.Y, pt.Y) {
				continue
			}
		}
		out = append(out, pt)
	}
	if len(out) > 1 {
		first, last := out[0], out[len(out)-1]
		if geometry.AlmostEqual(first.X, last.X) && geometry.AlmostEqual(first.Y, last.Y) {
			out = out[:len(out)-1]
		}
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
