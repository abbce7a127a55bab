package construct

import (
	"fmt"
	"math"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
)

// PostBounds selects whether the first and last bay boundary of an
// infill area receive a post. Residual areas above headers reuse the
// jamb posts of the surrounding segments and exclude both.
type PostBounds struct {
	Start bool
	End   bool
}

// Area is one rectangular infill region in wall-local coordinates:
// along-axis origin and width, core depth across the wall, and the
// vertical band it fills.
type Area struct {
	Start  float64
	Width  float64
	Depth  float64
	Bottom float64
	Height float64
	Bounds PostBounds
}

// LayoutInfill fills an area with a post grid and straw bales. Post
// boundaries divide the width into N = ceil(width/desired) uniform bays;
// when the resulting spacing falls outside the configured range one
// warning referencing the area is emitted and layout continues with the
// computed spacing. Bays are filled with whole bale columns plus a
// partial column for the remainder; columns stack in courses of the
// configured bale height.
func LayoutInfill(area Area, cfg assembly.InfillConfig) []model.Part {
	if area.Width <= geometry.Eps || area.Height <= geometry.Eps {
		return nil
	}

	highlight := model.NewArea("infill",
		geometry.Vec3{X: area.Start, Y: 0, Z: area.Bottom},
		geometry.Vec3{X: area.Start + area.Width, Y: 0, Z: area.Bottom},
		geometry.Vec3{X: area.Start + area.Width, Y: 0, Z: area.Bottom + area.Height},
		geometry.Vec3{X: area.Start, Y: 0, Z: area.Bottom + area.Height},
	)
	parts := []model.Part{model.AreaPart(highlight)}

	n := 1
	if cfg.DesiredSpacing > 0 {
		n = int(math.Ceil((area.Width - geometry.Eps) / cfg.DesiredSpacing))
		if n < 1 {
			n = 1
		}
	}
	spacing := area.Width / float64(n)

	if spacing < cfg.MinStrawSpace-geometry.Eps || spacing > cfg.MaxSpacing+geometry.Eps {
		issue := model.Issue{
			ID: model.NewIssueID(),
			Message: fmt.Sprintf("post spacing %.0fmm outside allowed range %.0f-%.0fmm",
				spacing, cfg.MinStrawSpace, cfg.MaxSpacing),
			Areas: []model.AreaID{highlight.ID},
		}
		parts = append(parts, model.Part{Warning: &issue})
	}

	// Post boundaries. Edge posts sit flush inside the area, interior
	// posts are centered on their boundary.
	hasPost := func(i int) bool {
		switch i {
		case 0:
			return area.Bounds.Start
		case n:
			return area.Bounds.End
		default:
			return true
		}
	}
	postLeft := func(i int) float64 {
		x := area.Start + float64(i)*spacing
		switch i {
		case 0:
			return x
		case n:
			return x - cfg.PostWidth
		default:
			return x - cfg.PostWidth/2
		}
	}

	for i := 0; i <= n; i++ {
		if !hasPost(i) {
			continue
		}
		parts = append(parts, postParts(postLeft(i), area, cfg)...)
	}

	for i := 1; i <= n; i++ {
		left := area.Start + float64(i-1)*spacing
		if hasPost(i - 1) {
			left = postLeft(i-1) + cfg.PostWidth
		}
		right := area.Start + float64(i)*spacing
		if hasPost(i) {
			right = postLeft(i)
		}
		parts = append(parts, baleParts(left, right, area, cfg)...)
	}

	return parts
}

// postParts emits the elements of one post at along-axis position x.
func postParts(x float64, area Area, cfg assembly.InfillConfig) []model.Part {
	size := geometry.Vec3{X: cfg.PostWidth, Y: cfg.PostDepth, Z: area.Height}

	if cfg.PostType == assembly.PostFull {
		pos := geometry.Vec3{X: x, Y: (area.Depth - cfg.PostDepth) / 2, Z: area.Bottom}
		return []model.Part{model.ElementPart(
			model.NewElement(model.TypePost, cfg.PostMaterial, pos, model.BoxShape(size)),
		)}
	}

	// Double posts: one leaf at each core face, straw strip between.
	inner := model.NewElement(model.TypePost, cfg.PostMaterial,
		geometry.Vec3{X: x, Y: 0, Z: area.Bottom}, model.BoxShape(size))
	outer := model.NewElement(model.TypePost, cfg.PostMaterial,
		geometry.Vec3{X: x, Y: area.Depth - cfg.PostDepth, Z: area.Bottom}, model.BoxShape(size))
	parts := []model.Part{model.ElementPart(inner), model.ElementPart(outer)}

	if gap := area.Depth - 2*cfg.PostDepth; gap > geometry.Eps {
		strip := model.NewElement(model.TypeInfillStrip, cfg.StrawMaterial,
			geometry.Vec3{X: x, Y: cfg.PostDepth, Z: area.Bottom},
			model.BoxShape(geometry.Vec3{X: cfg.PostWidth, Y: gap, Z: area.Height}))
		parts = append(parts, model.ElementPart(strip))
	}
	return parts
}

// baleParts fills the bay [left, right) with bale columns and courses.
func baleParts(left, right float64, area Area, cfg assembly.InfillConfig) []model.Part {
	width := right - left
	if width <= geometry.Eps {
		return nil
	}

	var parts []model.Part
	emitColumn := func(x, w float64, partial bool) {
		courses := 0
		if cfg.BaleHeight > 0 {
			courses = int((area.Height + geometry.Eps) / cfg.BaleHeight)
		}
		z := area.Bottom
		for c := 0; c < courses; c++ {
			t := model.TypeBale
			if partial {
				t = model.TypePartialBale
			}
			parts = append(parts, model.ElementPart(model.NewElement(t, cfg.StrawMaterial,
				geometry.Vec3{X: x, Y: 0, Z: z},
				model.BoxShape(geometry.Vec3{X: w, Y: area.Depth, Z: cfg.BaleHeight}))))
			z += cfg.BaleHeight
		}
		if rest := area.Bottom + area.Height - z; rest > geometry.Eps {
			parts = append(parts, model.ElementPart(model.NewElement(model.TypePartialBale, cfg.StrawMaterial,
				geometry.Vec3{X: x, Y: 0, Z: z},
				model.BoxShape(geometry.Vec3{X: w, Y: area.Depth, Z: rest}))))
		}
	}

	columns := 0
	if cfg.BaleLength > 0 {
		columns = int((width + geometry.Eps) / cfg.BaleLength)
	}
	x := left
	for c := 0; c < columns; c++ {
		emitColumn(x, cfg.BaleLength, false)
		x += cfg.BaleLength
	}
	if rest := right - x; rest > geometry.Eps {
		emitColumn(x, rest, true)
	}
	return parts
}
