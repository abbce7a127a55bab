package construct

import (
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

// SegmentKind distinguishes plain wall stretches from opening spans.
type SegmentKind string

// Segment kinds.
const (
	SegmentKindWall    SegmentKind = "wall"
	SegmentKindOpening SegmentKind = "opening"
)

// Segment is one slice of a wall run along its axis. Opening segments
// carry the openings they span; touching openings with identical sill
// and header elevations share one segment.
type Segment struct {
	Kind     SegmentKind
	Start    float64
	Width    float64
	Openings []perimeter.Opening
}

// End returns the along-axis end of the segment.
func (s Segment) End() float64 { return s.Start + s.Width }

// SegmentWall partitions a wall run [0, length) into wall and opening
// segments. Openings must be sorted by offset and given in run-local
// coordinates (corner extensions already applied). The result tiles the
// run exactly: widths sum to length, segments are contiguous, none
// overlap.
func SegmentWall(length float64, openings []perimeter.Opening) ([]Segment, error) {
	if length <= geometry.Eps {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "wall run has no length")
	}

	var segments []Segment
	cursor := 0.0

	for i := 0; i < len(openings); {
		o := openings[i]
		if o.Offset < cursor-geometry.Eps {
			return nil, errors.New(errors.ErrCodeInvalidOpening,
				"opening at %.0fmm overlaps the preceding segment ending at %.0fmm", o.Offset, cursor)
		}
		if o.End() > length+geometry.Eps {
			return nil, errors.New(errors.ErrCodeInvalidOpening,
				"opening ends at %.0fmm beyond wall run length %.0fmm", o.End(), length)
		}

		if gap := o.Offset - cursor; gap > geometry.Eps {
			segments = append(segments, Segment{Kind: SegmentKindWall, Start: cursor, Width: gap})
		}

		// Absorb touching openings with the same vertical extents into
		// one segment so they share a header and sill.
		group := []perimeter.Opening{o}
		end := o.End()
		j := i + 1
		for ; j < len(openings); j++ {
			next := openings[j]
			if next.Offset-end > geometry.Eps {
				break
			}
			if next.Offset < end-geometry.Eps {
				return nil, errors.New(errors.ErrCodeInvalidOpening,
					"opening at %.0fmm overlaps the preceding segment ending at %.0fmm", next.Offset, end)
			}
			if !geometry.AlmostEqual(next.SillHeight, o.SillHeight) ||
				!geometry.AlmostEqual(next.HeadHeight(), o.HeadHeight()) {
				break
			}
			if next.End() > length+geometry.Eps {
				return nil, errors.New(errors.ErrCodeInvalidOpening,
					"opening ends at %.0fmm beyond wall run length %.0fmm", next.End(), length)
			}
			group = append(group, next)
			end = next.End()
		}

		segments = append(segments, Segment{
			Kind:     SegmentKindOpening,
			Start:    o.Offset,
			Width:    end - o.Offset,
			Openings: group,
		})
		cursor = end
		i = j
	}

	if rest := length - cursor; rest > geometry.Eps {
		segments = append(segments, Segment{Kind: SegmentKindWall, Start: cursor, Width: rest})
	}
	return segments, nil
}
