package plan

import (
	"fmt"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
)

// ElevationSVG renders one wall face as an SVG document: posts, bales,
// headers, and plates in the wall plane, viewed from outside. Finish
// layers are skipped so the structure stays visible. The wall index is
// the position of the wall in the perimeter.
func ElevationSVG(m *model.Model, wall int, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)

	name := fmt.Sprintf("wall-%d", wall)
	g, world, ok := findGroup(m.Root, geometry.Identity(), name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "model has no group %q", name)
	}
	return emitSVG(composeElevation(m, g, world, r), r.scale), nil
}

// findGroup locates the named group and the transform from its local
// frame to world coordinates.
func findGroup(g model.Group, parent geometry.Transform, name string) (model.Group, geometry.Transform, bool) {
	world := parent.Compose(g.Transform)
	if g.Name == name {
		return g, world, true
	}
	for _, sub := range g.Groups {
		if f, w, found := findGroup(sub, world, name); found {
			return f, w, true
		}
	}
	return model.Group{}, geometry.Transform{}, false
}

// walkBelow visits every element under g with the transform from its
// frame to g's frame, not composing g's own transform.
func walkBelow(g model.Group, parent geometry.Transform, fn func(e model.Element, local geometry.Transform)) {
	for _, e := range g.Elements {
		fn(e, parent)
	}
	for _, sub := range g.Groups {
		walkBelow(sub, parent.Compose(sub.Transform), fn)
	}
}

// composeElevation projects the wall group onto its own plane: x along
// the wall, y up. Areas and measurements are stored in world coordinates
// after merging, so they come back through the inverse wall transform;
// whatever lands on the wall plane belongs to this view.
func composeElevation(m *model.Model, g model.Group, world geometry.Transform, r renderer) scene {
	var s scene

	walkBelow(g, geometry.Identity(), func(e model.Element, local geometry.Transform) {
		if e.Type == model.TypeLayer {
			return
		}
		p := local.Apply(e.Position)
		fill := r.fillFor(e)
		for _, rings := range elevationFace(e, p) {
			s.addShape(shapeFig{rings: rings, fill: fill})
		}
	})

	inv := world.Invert()

	for _, a := range m.Areas {
		if ring, ok := onWallPlane(inv, a.Outline); ok {
			s.addMark(markFig{points: ring, closed: true, dashed: true, color: areaColor(a.Kind)})
		}
	}

	if r.dimensions {
		for _, d := range m.Measurements {
			pts, ok := onWallPlane(inv, []geometry.Vec3{d.From, d.To})
			if !ok {
				continue
			}
			// Dimensions hang below the measured edge in elevation.
			if f, dimOK := makeDim(pts[0], pts[1], -d.Offset, d.Label); dimOK {
				s.addDim(f)
			}
		}
	}

	if s.hasPts {
		s.include(geometry.V2(s.bounds.Min.X-150, 0), geometry.V2(s.bounds.Max.X+150, 0))
		s.baseY = 0
		s.hasBase = true
	}
	return s
}

// elevationFace returns the wall-plane outlines of one element placed at
// p in the wall frame.
func elevationFace(e model.Element, p geometry.Vec3) [][][]geometry.Vec2 {
	switch e.Shape.Kind {
	case model.ShapeKindBox:
		return [][][]geometry.Vec2{{rect2(p.X, p.Z, p.X+e.Shape.Size.X, p.Z+e.Shape.Size.Z)}}

	case model.ShapeKindSlopedBox:
		ring := []geometry.Vec2{
			geometry.V2(p.X, p.Z),
			geometry.V2(p.X+e.Shape.Size.X, p.Z+e.Shape.Rise),
			geometry.V2(p.X+e.Shape.Size.X, p.Z+e.Shape.Rise+e.Shape.Size.Z),
			geometry.V2(p.X, p.Z+e.Shape.Size.Z),
		}
		return [][][]geometry.Vec2{{ring}}

	case model.ShapeKindPrism:
		switch e.Shape.Plane {
		case model.PlaneWall:
			rings := make([][]geometry.Vec2, 0, 1+len(e.Shape.Outline.Holes))
			rings = append(rings, shiftRing(e.Shape.Outline.Outer, p.X, p.Z))
			for _, h := range e.Shape.Outline.Holes {
				rings = append(rings, shiftRing(h, p.X, p.Z))
			}
			return [][][]geometry.Vec2{rings}

		default: // PlanePlan reads as its extruded band
			b := e.Shape.Outline.Bounds()
			return [][][]geometry.Vec2{{rect2(p.X+b.Min.X, p.Z, p.X+b.Max.X, p.Z+e.Shape.Depth)}}
		}
	}
	return nil
}

func rect2(x0, y0, x1, y1 float64) []geometry.Vec2 {
	return []geometry.Vec2{
		geometry.V2(x0, y0), geometry.V2(x1, y0),
		geometry.V2(x1, y1), geometry.V2(x0, y1),
	}
}

func shiftRing(ring geometry.Polygon, dx, dy float64) []geometry.Vec2 {
	out := make([]geometry.Vec2, len(ring))
	for i, q := range ring {
		out[i] = geometry.V2(q.X+dx, q.Y+dy)
	}
	return out
}

// onWallPlane maps world points into the wall frame and keeps them when
// they all sit on the wall plane, returning (along, elevation) pairs.
// The tolerance covers accumulated transform rounding.
func onWallPlane(inv geometry.Transform, pts []geometry.Vec3) ([]geometry.Vec2, bool) {
	out := make([]geometry.Vec2, len(pts))
	for i, p := range pts {
		q := inv.Apply(p)
		if q.Y > 1 || q.Y < -1 {
			return nil, false
		}
		out[i] = geometry.V2(q.X, q.Z)
	}
	return out, true
}
