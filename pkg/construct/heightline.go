package construct

import (
	"math"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
)

// HeightPoint is one sample of a height line: an elevation offset at an
// along-run position.
type HeightPoint struct {
	Position float64 `json:"position" toml:"position" bson:"position"`
	Offset   float64 `json:"offset" toml:"offset" bson:"offset"`
}

// HeightLine maps along-run position to an elevation offset, piecewise
// linear between its points. Top ring beams follow it so the beam meets
// the roof plane. An empty line is flat at offset zero. Two points at
// the same position form a step.
type HeightLine struct {
	Points []HeightPoint `json:"points" toml:"points"`
}

// IsFlat reports whether the line has no elevation changes.
func (hl HeightLine) IsFlat() bool {
	for _, p := range hl.Points {
		if !geometry.AlmostEqual(p.Offset, 0) {
			return false
		}
	}
	return true
}

// Validate checks that positions never decrease.
func (hl HeightLine) Validate() error {
	for i := 1; i < len(hl.Points); i++ {
		if hl.Points[i].Position < hl.Points[i-1].Position-geometry.Eps {
			return errors.New(errors.ErrCodeInvalidConfig,
				"height line positions must not decrease: %.0fmm after %.0fmm",
				hl.Points[i].Position, hl.Points[i-1].Position)
		}
	}
	return nil
}

// At returns the elevation offset at position x. Outside the sampled
// range the nearest endpoint's offset extends level.
func (hl HeightLine) At(x float64) float64 {
	if len(hl.Points) == 0 {
		return 0
	}
	if x <= hl.Points[0].Position {
		return hl.Points[0].Offset
	}
	last := hl.Points[len(hl.Points)-1]
	if x >= last.Position {
		return last.Offset
	}
	for i := 1; i < len(hl.Points); i++ {
		a, b := hl.Points[i-1], hl.Points[i]
		if x > b.Position {
			continue
		}
		span := b.Position - a.Position
		if span <= geometry.Eps {
			return b.Offset
		}
		t := (x - a.Position) / span
		return a.Offset + t*(b.Offset-a.Offset)
	}
	return last.Offset
}

// Gable returns the height line of a symmetric gable end over a run of
// the given length: eaves at both ends, ridge in the middle, rising at
// slopeDeg degrees.
func Gable(length, slopeDeg float64) (HeightLine, error) {
	if err := validateSlope(slopeDeg); err != nil {
		return HeightLine{}, err
	}
	if length <= geometry.Eps {
		return HeightLine{}, errors.New(errors.ErrCodeInvalidConfig, "gable run length must be positive, got %.0fmm", length)
	}
	half := length / 2
	peak := half * math.Tan(slopeDeg*math.Pi/180)
	return HeightLine{Points: []HeightPoint{
		{Position: 0, Offset: 0},
		{Position: half, Offset: peak},
		{Position: length, Offset: 0},
	}}, nil
}

// Shed returns the height line of a mono-pitch run rising over its full
// length at slopeDeg degrees.
func Shed(length, slopeDeg float64) (HeightLine, error) {
	if err := validateSlope(slopeDeg); err != nil {
		return HeightLine{}, err
	}
	if length <= geometry.Eps {
		return HeightLine{}, errors.New(errors.ErrCodeInvalidConfig, "shed run length must be positive, got %.0fmm", length)
	}
	return HeightLine{Points: []HeightPoint{
		{Position: 0, Offset: 0},
		{Position: length, Offset: length * math.Tan(slopeDeg*math.Pi/180)},
	}}, nil
}

func validateSlope(slopeDeg float64) error {
	if slopeDeg <= 0 || slopeDeg >= 90 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"roof slope must be between 0 and 90 degrees, got %.1f", slopeDeg)
	}
	return nil
}

// runPiece is one slice of a beam run between height line breakpoints.
type runPiece struct {
	a, b   float64
	o0, o1 float64
}

func (p runPiece) level() bool { return geometry.AlmostEqual(p.o0, p.o1) }

// pieces slices [0, length] at the line's breakpoints. Zero-length
// spans (steps) produce no piece; the step shows as a jump between
// neighbors.
func (hl HeightLine) pieces(length float64) []runPiece {
	if len(hl.Points) == 0 {
		return []runPiece{{a: 0, b: length}}
	}

	var out []runPiece
	emit := func(a, b, o0, o1 float64) {
		a2, b2 := maxf(a, 0), minf(b, length)
		if b2-a2 <= geometry.Eps {
			return
		}
		// Re-interpolate offsets when the span was clipped to the run.
		if span := b - a; span > geometry.Eps {
			lerp := func(t float64) float64 { return o0 + t*(o1-o0) }
			o0, o1 = lerp((a2-a)/span), lerp((b2-a)/span)
		}
		out = append(out, runPiece{a: a2, b: b2, o0: o0, o1: o1})
	}

	first := hl.Points[0]
	if first.Position > geometry.Eps {
		emit(0, first.Position, first.Offset, first.Offset)
	}
	for i := 1; i < len(hl.Points); i++ {
		a, b := hl.Points[i-1], hl.Points[i]
		emit(a.Position, b.Position, a.Offset, b.Offset)
	}
	last := hl.Points[len(hl.Points)-1]
	if last.Position < length-geometry.Eps {
		emit(last.Position, length, last.Offset, last.Offset)
	}
	return out
}
