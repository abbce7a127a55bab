package construct

import (
	"testing"

	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

func openingSegment(openings ...perimeter.Opening) Segment {
	start := openings[0].Offset
	end := openings[len(openings)-1].End()
	return Segment{Kind: SegmentKindOpening, Start: start, Width: end - start, Openings: openings}
}

func TestFrameOpening_HeaderAndSill(t *testing.T) {
	cfg := testAssembly()
	seg := openingSegment(window(1000, 900, 800, 1200))
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2800})

	if n := countErrors(parts); n != 0 {
		t.Fatalf("expected no errors, got %d", n)
	}

	headers := elementsOfType(parts, model.TypeHeader)
	if len(headers) != 1 {
		t.Fatalf("expected 1 header, got %d", len(headers))
	}
	h := headers[0]
	if !geometry.AlmostEqual(h.Position.Z, 2000) || !geometry.AlmostEqual(h.Position.X, 1000) {
		t.Errorf("header at (%.1f, %.1f), want x=1000 z=2000", h.Position.X, h.Position.Z)
	}
	if !geometry.AlmostEqual(h.Shape.Size.X, 900) || !geometry.AlmostEqual(h.Shape.Size.Z, 60) {
		t.Errorf("header size = %v, want 900x60 spanning the segment", h.Shape.Size)
	}

	sills := elementsOfType(parts, model.TypeSill)
	if len(sills) != 1 {
		t.Fatalf("expected 1 sill, got %d", len(sills))
	}
	if s := sills[0]; !geometry.AlmostEqual(s.Position.Z, 740) {
		t.Errorf("sill top must meet the 800mm sill height, got z=%.1f", s.Position.Z)
	}

	// Residual bands above the header and below the sill reuse the jamb
	// posts of the surrounding segments.
	if n := countElements(parts, model.TypePost); n != 0 {
		t.Errorf("residual bands must not place posts, got %d", n)
	}
	if n := countElements(parts, model.TypeBale) + countElements(parts, model.TypePartialBale); n == 0 {
		t.Error("expected straw infill above and below the opening")
	}
}

func TestFrameOpening_HighlightAreas(t *testing.T) {
	cfg := testAssembly()
	seg := openingSegment(window(1000, 900, 800, 1200))
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2800})

	var openings int
	for _, p := range parts {
		if p.Area != nil && p.Area.Kind == "opening" {
			openings++
			if len(p.Area.Outline) != 4 {
				t.Errorf("opening outline has %d points, want 4", len(p.Area.Outline))
			}
		}
	}
	if openings != 1 {
		t.Errorf("expected 1 opening highlight, got %d", openings)
	}
}

func TestFrameOpening_FullHeightDoor(t *testing.T) {
	cfg := testAssembly()
	seg := openingSegment(door(0, 900, 2800))
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2800})

	// A door reaching the top plate needs no header, and a sill at floor
	// level never exists. Only the highlight remains.
	if len(parts) != 1 || parts[0].Area == nil {
		t.Fatalf("expected only the opening highlight, got %d parts", len(parts))
	}
}

func TestFrameOpening_HeaderDoesNotFit(t *testing.T) {
	cfg := testAssembly()
	seg := openingSegment(window(1000, 900, 800, 1200))
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2030})

	headers := elementsOfType(parts, model.TypeHeader)
	if len(headers) != 1 {
		t.Fatal("the header is still emitted so the clash is visible")
	}
	if n := countErrors(parts); n != 1 {
		t.Fatalf("expected 1 error, got %d", n)
	}
	for _, p := range parts {
		if p.Error == nil {
			continue
		}
		if len(p.Error.Elements) != 1 || p.Error.Elements[0] != headers[0].ID {
			t.Error("error must reference the clashing header")
		}
	}
}

func TestFrameOpening_SillDoesNotFit(t *testing.T) {
	cfg := testAssembly()
	seg := openingSegment(window(1000, 900, 40, 1200))
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2800})

	if n := countElements(parts, model.TypeSill); n != 1 {
		t.Fatalf("expected the sill to be emitted, got %d", n)
	}
	if n := countErrors(parts); n != 1 {
		t.Fatalf("expected 1 error for a 60mm sill under a 40mm sill height, got %d", n)
	}
}

func TestFrameOpening_Filling(t *testing.T) {
	cfg := testAssembly()
	cfg.Opening.Padding = 20
	cfg.Opening.FillingThickness = 80
	cfg.Opening.FillingMaterial = "timber"

	seg := openingSegment(window(1000, 900, 800, 1200))
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2800})

	fillings := elementsOfType(parts, model.TypeFilling)
	if len(fillings) != 1 {
		t.Fatalf("expected 1 filling, got %d", len(fillings))
	}
	f := fillings[0]
	want := geometry.Vec3{X: 1020, Y: 140, Z: 820}
	if !geometry.AlmostEqual(f.Position.X, want.X) ||
		!geometry.AlmostEqual(f.Position.Y, want.Y) ||
		!geometry.AlmostEqual(f.Position.Z, want.Z) {
		t.Errorf("filling at %v, want %v", f.Position, want)
	}
	size := geometry.Vec3{X: 860, Y: 80, Z: 1160}
	if !geometry.AlmostEqual(f.Shape.Size.X, size.X) ||
		!geometry.AlmostEqual(f.Shape.Size.Y, size.Y) ||
		!geometry.AlmostEqual(f.Shape.Size.Z, size.Z) {
		t.Errorf("filling size = %v, want %v", f.Shape.Size, size)
	}
}

func TestFrameOpening_MergedOpeningsShareFraming(t *testing.T) {
	cfg := testAssembly()
	cfg.Opening.Padding = 20
	cfg.Opening.FillingThickness = 80
	cfg.Opening.FillingMaterial = "timber"

	seg := openingSegment(
		window(500, 800, 800, 1200),
		window(1300, 600, 800, 1200),
	)
	parts := FrameOpening(seg, &cfg, Frame{Thickness: 360, Bottom: 0, Top: 2800})

	headers := elementsOfType(parts, model.TypeHeader)
	if len(headers) != 1 {
		t.Fatalf("merged openings share one header, got %d", len(headers))
	}
	if !geometry.AlmostEqual(headers[0].Shape.Size.X, 1400) {
		t.Errorf("header spans %.1fmm, want the full 1400mm segment", headers[0].Shape.Size.X)
	}
	if n := countElements(parts, model.TypeSill); n != 1 {
		t.Errorf("merged openings share one sill, got %d", n)
	}
	if n := countElements(parts, model.TypeFilling); n != 2 {
		t.Errorf("each opening keeps its own filling, got %d", n)
	}
}
