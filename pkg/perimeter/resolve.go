package perimeter

import (
	"math"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
)

// ResolveOptions tunes geometry resolution.
type ResolveOptions struct {
	// DefaultOwner decides corner ownership when the input does not pin
	// it. Nil applies [DefaultOwner].
	DefaultOwner func(convex bool) Owner
}

// DefaultOwner is the standard ownership rule: the wall leaving a convex
// corner builds through the corner block; at reflex corners the arriving
// wall does.
func DefaultOwner(convex bool) Owner {
	if convex {
		return OwnerNext
	}
	return OwnerPrev
}

// Resolve validates the perimeter input and recomputes every derived
// field: wall axes and faces, outside corner points, angles, convexity,
// ownership, and run extensions.
//
// Counter-clockwise input is reoriented in place (corners, walls, and
// opening offsets all remapped); everything else invalid is rejected with
// a coded error and the perimeter left untouched beyond that reorientation.
func Resolve(p *Perimeter, opts ResolveOptions) error {
	n := len(p.Corners)
	if n < 3 {
		return errors.New(errors.ErrCodeInvalidGeometry, "perimeter needs at least 3 corners, got %d", n)
	}
	if len(p.Walls) != n {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"perimeter has %d corners but %d walls", n, len(p.Walls))
	}
	if p.StoreyHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"storey height must be positive, got %.1fmm", p.StoreyHeight)
	}
	for i := range p.Walls {
		if p.Walls[i].Thickness <= 0 {
			return errors.New(errors.ErrCodeInvalidGeometry,
				"wall %d thickness must be positive, got %.1fmm", i, p.Walls[i].Thickness)
		}
	}

	ring := p.insideRing()
	for i := 0; i < n; i++ {
		if ring[i].DistanceTo(ring[(i+1)%n]) < geometry.Eps {
			return errors.New(errors.ErrCodeInvalidGeometry, "wall %d has zero length", i)
		}
	}

	// The ring is stored clockwise; drawing tools may emit either.
	if !ring.IsClockwise() {
		reverse(p)
		ring = p.insideRing()
	}

	if ring.SelfIntersects() {
		return errors.New(errors.ErrCodeInvalidPerimeter, "perimeter outline self-intersects")
	}

	// Wall axes and faces.
	for i := range p.Walls {
		w := &p.Walls[i]
		a := p.Corners[i].Inside
		b := p.Corners[(i+1)%n].Inside
		line, _ := geometry.LineThrough(a, b)
		w.InsideLine = line
		w.Direction = line.Dir
		w.OutNormal = line.Dir.Perp()
		w.InsideLength = a.DistanceTo(b)
		w.OutsideLine = line.Offset(w.Thickness)
	}

	for i := range p.Walls {
		if err := validateOpenings(i, &p.Walls[i], p.StoreyHeight); err != nil {
			return err
		}
	}

	ownerRule := opts.DefaultOwner
	if ownerRule == nil {
		ownerRule = DefaultOwner
	}

	// Corner geometry: outside points, angles, convexity, owners.
	for i := range p.Corners {
		c := &p.Corners[i]
		prev := p.WallAt(i - 1)
		next := p.WallAt(i)

		out, ok := prev.OutsideLine.Intersect(next.OutsideLine)
		if !ok {
			// Parallel faces: the outer corner is ambiguous, split the
			// gap between the two offset-line ends.
			pe := c.Inside.Add(prev.OutNormal.Scale(prev.Thickness))
			ns := c.Inside.Add(next.OutNormal.Scale(next.Thickness))
			out = pe.Add(ns).Scale(0.5)
		}
		c.Outside = out

		cross := prev.Direction.Cross(next.Direction)
		dot := prev.Direction.Dot(next.Direction)
		c.Convex = cross < geometry.Eps
		c.InteriorAngle = math.Pi + math.Atan2(cross, dot)

		switch c.Owner {
		case "":
			c.Owner = ownerRule(c.Convex)
		case OwnerPrev, OwnerNext:
		default:
			return errors.New(errors.ErrCodeInvalidGeometry,
				"corner %d has unknown owner %q", i, c.Owner)
		}
	}

	// Run extensions: the owning wall's run grows to cover the corner
	// block (clamped ≥ 0); the other wall is trimmed when the outer
	// corner falls short of its inside end (clamped ≤ 0).
	for i := range p.Walls {
		w := &p.Walls[i]
		start := p.CornerAt(i)
		end := p.CornerAt(i + 1)

		pStart := -start.Outside.Sub(start.Inside).Dot(w.Direction)
		if p.OwnsStart(i) {
			w.StartExtension = math.Max(0, pStart)
		} else {
			w.StartExtension = math.Min(0, pStart)
		}

		pEnd := end.Outside.Sub(end.Inside).Dot(w.Direction)
		if p.OwnsEnd(i) {
			w.EndExtension = math.Max(0, pEnd)
		} else {
			w.EndExtension = math.Min(0, pEnd)
		}

		w.OutsideLength = end.Outside.Sub(start.Outside).Dot(w.Direction)
	}

	return nil
}

func (p *Perimeter) insideRing() geometry.Polygon {
	ring := make(geometry.Polygon, len(p.Corners))
	for i, c := range p.Corners {
		ring[i] = c.Inside
	}
	return ring
}

// reverse reorients a counter-clockwise perimeter to clockwise, keeping
// the first corner first. Wall order and directions flip, so opening
// offsets are remeasured from the new wall start and corner ownership
// swaps sides.
func reverse(p *Perimeter) {
	n := len(p.Corners)

	lengths := make([]float64, n)
	for i := range p.Walls {
		lengths[i] = p.Corners[i].Inside.DistanceTo(p.Corners[(i+1)%n].Inside)
	}

	corners := make([]Corner, n)
	for j := 0; j < n; j++ {
		c := p.Corners[(n-j)%n]
		switch c.Owner {
		case OwnerPrev:
			c.Owner = OwnerNext
		case OwnerNext:
			c.Owner = OwnerPrev
		}
		corners[j] = c
	}

	walls := make([]Wall, n)
	for j := 0; j < n; j++ {
		src := (n - 1 - j) % n
		w := p.Walls[src]
		if len(w.Openings) > 0 {
			flipped := make([]Opening, len(w.Openings))
			for oi, o := range w.Openings {
				o.Offset = lengths[src] - o.End()
				flipped[len(w.Openings)-1-oi] = o
			}
			w.Openings = flipped
		}
		walls[j] = w
	}

	p.Corners = corners
	p.Walls = walls
}

func validateOpenings(i int, w *Wall, storeyHeight float64) error {
	cursor := 0.0
	for j, o := range w.Openings {
		switch o.Kind {
		case OpeningDoor, OpeningWindow, OpeningPassage:
		default:
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d: unknown kind %q", i, j, o.Kind)
		}
		if o.Width <= 0 {
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d: width must be positive, got %.1fmm", i, j, o.Width)
		}
		if o.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d: height must be positive, got %.1fmm", i, j, o.Height)
		}
		if o.SillHeight < 0 {
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d: sill height must not be negative, got %.1fmm", i, j, o.SillHeight)
		}
		if o.Offset < cursor-geometry.Eps {
			if j == 0 {
				return errors.New(errors.ErrCodeInvalidOpening,
					"wall %d opening %d starts before the wall at %.1fmm", i, j, o.Offset)
			}
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d overlaps or precedes the previous opening", i, j)
		}
		if o.End() > w.InsideLength+geometry.Eps {
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d extends beyond the wall end: %.1fmm > %.1fmm",
				i, j, o.End(), w.InsideLength)
		}
		if o.HeadHeight() > storeyHeight+geometry.Eps {
			return errors.New(errors.ErrCodeInvalidOpening,
				"wall %d opening %d head at %.1fmm exceeds the storey height %.1fmm",
				i, j, o.HeadHeight(), storeyHeight)
		}
		cursor = o.End()
	}
	return nil
}
