package construct

import (
	"testing"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
)

func testInfillConfig() assembly.InfillConfig {
	return testAssembly().Infill
}

func TestLayoutInfill_DegenerateArea(t *testing.T) {
	cfg := testInfillConfig()
	if parts := LayoutInfill(Area{Width: 0, Height: 2400}, cfg); parts != nil {
		t.Errorf("zero width: got %d parts, want none", len(parts))
	}
	if parts := LayoutInfill(Area{Width: 900, Height: 0}, cfg); parts != nil {
		t.Errorf("zero height: got %d parts, want none", len(parts))
	}
}

func TestLayoutInfill_UniformBays(t *testing.T) {
	area := Area{Start: 0, Width: 2700, Depth: 360, Bottom: 0, Height: 2400,
		Bounds: PostBounds{Start: true, End: true}}
	parts := LayoutInfill(area, testInfillConfig())

	if len(parts) == 0 || parts[0].Area == nil || parts[0].Area.Kind != "infill" {
		t.Fatal("first part must be the infill highlight area")
	}
	if n := countWarnings(parts); n != 0 {
		t.Errorf("2700mm over 3 bays is 900mm spacing, in range; got %d warnings", n)
	}

	posts := elementsOfType(parts, model.TypePost)
	if len(posts) != 4 {
		t.Fatalf("expected 4 posts for 3 bays, got %d", len(posts))
	}
	// Edge posts flush, interior posts centered on their boundary.
	wantX := []float64{0, 870, 1770, 2640}
	for i, p := range posts {
		if !geometry.AlmostEqual(p.Position.X, wantX[i]) {
			t.Errorf("post %d at x=%.1f, want %.1f", i, p.Position.X, wantX[i])
		}
		if !geometry.AlmostEqual(p.Position.Y, 80) {
			t.Errorf("post %d at y=%.1f, want centered at 80", i, p.Position.Y)
		}
	}

	// 2400mm of 400mm courses divides evenly: full columns only, no top fill.
	if n := countElements(parts, model.TypeBale); n != 18 {
		t.Errorf("full bales = %d, want 18 (3 bays x 1 column x 6 courses)", n)
	}
	if n := countElements(parts, model.TypePartialBale); n != 18 {
		t.Errorf("partial bales = %d, want 18 (remainder column per bay)", n)
	}
}

func TestLayoutInfill_TightSpacingWarns(t *testing.T) {
	area := Area{Start: 0, Width: 200, Depth: 360, Bottom: 0, Height: 2400,
		Bounds: PostBounds{Start: true, End: true}}
	parts := LayoutInfill(area, testInfillConfig())

	if n := countWarnings(parts); n != 1 {
		t.Fatalf("expected 1 spacing warning, got %d", n)
	}
	for _, p := range parts {
		if p.Warning == nil {
			continue
		}
		if len(p.Warning.Areas) != 1 || p.Warning.Areas[0] != parts[0].Area.ID {
			t.Error("warning must reference the infill highlight area")
		}
	}
	// Layout continues despite the warning.
	if n := countElements(parts, model.TypePost); n != 2 {
		t.Errorf("posts = %d, want 2", n)
	}
}

func TestLayoutInfill_OpenBounds(t *testing.T) {
	area := Area{Start: 0, Width: 1000, Depth: 360, Bottom: 0, Height: 2400,
		Bounds: PostBounds{}}
	parts := LayoutInfill(area, testInfillConfig())

	posts := elementsOfType(parts, model.TypePost)
	if len(posts) != 1 {
		t.Fatalf("open bounds keep only the interior post, got %d", len(posts))
	}
	if !geometry.AlmostEqual(posts[0].Position.X, 470) {
		t.Errorf("interior post at x=%.1f, want 470", posts[0].Position.X)
	}
}

func TestLayoutInfill_DoublePosts(t *testing.T) {
	cfg := testInfillConfig()
	cfg.PostType = assembly.PostDouble
	cfg.PostDepth = 100

	area := Area{Start: 0, Width: 900, Depth: 360, Bottom: 0, Height: 2400,
		Bounds: PostBounds{Start: true}}
	parts := LayoutInfill(area, cfg)

	posts := elementsOfType(parts, model.TypePost)
	if len(posts) != 2 {
		t.Fatalf("expected 2 leaves, got %d posts", len(posts))
	}
	if !geometry.AlmostEqual(posts[0].Position.Y, 0) || !geometry.AlmostEqual(posts[1].Position.Y, 260) {
		t.Errorf("leaves at y=%.1f and y=%.1f, want 0 and 260", posts[0].Position.Y, posts[1].Position.Y)
	}

	strips := elementsOfType(parts, model.TypeInfillStrip)
	if len(strips) != 1 {
		t.Fatalf("expected 1 straw strip between the leaves, got %d", len(strips))
	}
	s := strips[0]
	if s.Material != cfg.StrawMaterial {
		t.Errorf("strip material = %q, want %q", s.Material, cfg.StrawMaterial)
	}
	if !geometry.AlmostEqual(s.Shape.Size.Y, 160) || !geometry.AlmostEqual(s.Position.Y, 100) {
		t.Errorf("strip fills y=[%.1f, %.1f], want [100, 260]", s.Position.Y, s.Position.Y+s.Shape.Size.Y)
	}
}

func TestLayoutInfill_CoursesAndTopFill(t *testing.T) {
	area := Area{Start: 0, Width: 800, Depth: 360, Bottom: 0, Height: 1300,
		Bounds: PostBounds{}}
	parts := LayoutInfill(area, testInfillConfig())

	full := elementsOfType(parts, model.TypeBale)
	if len(full) != 3 {
		t.Fatalf("expected 3 full courses in 1300mm, got %d", len(full))
	}
	partial := elementsOfType(parts, model.TypePartialBale)
	if len(partial) != 1 {
		t.Fatalf("expected 1 partial course on top, got %d", len(partial))
	}
	p := partial[0]
	if !geometry.AlmostEqual(p.Position.Z, 1200) || !geometry.AlmostEqual(p.Shape.Size.Z, 100) {
		t.Errorf("top fill at z=%.1f height %.1f, want z=1200 height 100", p.Position.Z, p.Shape.Size.Z)
	}
}
