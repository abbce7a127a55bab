package construct

import (
	"context"
	"strings"
	"testing"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

// ===== Shared fixtures =====

func testMaterials(t *testing.T) material.Resolver {
	t.Helper()
	lib, err := material.NewLibrary(
		material.Material{ID: "timber", Name: "Timber", Density: 500},
		material.Material{ID: "straw", Name: "Straw bale", Density: 110},
		material.Material{ID: "lime", Name: "Lime plaster", Density: 1800},
		material.Material{ID: "clay", Name: "Clay plaster", Density: 1700},
	)
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return lib.Resolver()
}

func testAssembly() assembly.Config {
	return assembly.Config{
		ID: "strawbale",
		Layers: assembly.LayerSet{
			Inside:  []assembly.Layer{{Thickness: 30, Material: "clay"}},
			Outside: []assembly.Layer{{Thickness: 30, Material: "lime"}},
		},
		Infill: assembly.InfillConfig{
			PostType:       assembly.PostFull,
			PostWidth:      60,
			PostDepth:      200,
			PostMaterial:   "timber",
			StrawMaterial:  "straw",
			BaleLength:     800,
			BaleHeight:     400,
			MinStrawSpace:  300,
			DesiredSpacing: 900,
			MaxSpacing:     1200,
		},
		Opening: assembly.OpeningConfig{
			HeaderThickness: 60,
			HeaderMaterial:  "timber",
			SillThickness:   60,
			SillMaterial:    "timber",
		},
	}
}

func testRegistry(t *testing.T) *assembly.Registry {
	t.Helper()
	reg := assembly.NewRegistry()
	if err := reg.AddAssembly(testAssembly()); err != nil {
		t.Fatalf("AddAssembly: %v", err)
	}
	return reg
}

// squarePerimeter returns an unresolved clockwise 6x4m rectangle with
// 360mm walls, first wall running up the left side.
func squarePerimeter() *perimeter.Perimeter {
	return &perimeter.Perimeter{
		Corners: []perimeter.Corner{
			{Inside: geometry.V2(0, 0)},
			{Inside: geometry.V2(0, 4000)},
			{Inside: geometry.V2(6000, 4000)},
			{Inside: geometry.V2(6000, 0)},
		},
		Walls: []perimeter.Wall{
			{Thickness: 360, Assembly: "strawbale"},
			{Thickness: 360, Assembly: "strawbale"},
			{Thickness: 360, Assembly: "strawbale"},
			{Thickness: 360, Assembly: "strawbale"},
		},
		StoreyHeight: 2800,
	}
}

func resolvedSquare(t *testing.T) *perimeter.Perimeter {
	t.Helper()
	p := squarePerimeter()
	if err := perimeter.Resolve(p, perimeter.ResolveOptions{}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return p
}

func countElements(parts []model.Part, et model.ElementType) int {
	n := 0
	for _, p := range parts {
		if p.Element != nil && p.Element.Type == et {
			n++
		}
	}
	return n
}

func elementsOfType(parts []model.Part, et model.ElementType) []model.Element {
	var out []model.Element
	for _, p := range parts {
		if p.Element != nil && p.Element.Type == et {
			out = append(out, *p.Element)
		}
	}
	return out
}

func countWarnings(parts []model.Part) int {
	n := 0
	for _, p := range parts {
		if p.Warning != nil {
			n++
		}
	}
	return n
}

func countErrors(parts []model.Part) int {
	n := 0
	for _, p := range parts {
		if p.Error != nil {
			n++
		}
	}
	return n
}

// ===== BuildPerimeter =====

func TestBuildPerimeter(t *testing.T) {
	m, err := BuildPerimeter(context.Background(), PerimeterInput{
		Perimeter:  squarePerimeter(),
		Assemblies: testRegistry(t),
		Materials:  testMaterials(t),
	})
	if err != nil {
		t.Fatalf("BuildPerimeter: %v", err)
	}
	if len(m.Errors) != 0 {
		t.Fatalf("expected clean build, got errors: %v", m.Errors)
	}
	if m.CountElements() == 0 {
		t.Fatal("expected elements")
	}
	// One run-length measurement per wall.
	if len(m.Measurements) < 4 {
		t.Errorf("expected at least 4 measurements, got %d", len(m.Measurements))
	}
	if m.Bounds.IsEmpty() {
		t.Error("expected non-empty bounds")
	}
	// The plan footprint covers the outside faces.
	if m.Bounds.Min.X > -360+geometry.Eps || m.Bounds.Max.X < 6360-geometry.Eps {
		t.Errorf("bounds do not cover the outside faces: %v", m.Bounds)
	}
}

func TestBuildPerimeter_InputRequired(t *testing.T) {
	_, err := BuildPerimeter(context.Background(), PerimeterInput{})
	if err == nil {
		t.Fatal("expected error for missing perimeter")
	}
}

func TestBuildPerimeter_WallFailureBecomesModelError(t *testing.T) {
	p := squarePerimeter()
	p.Walls[2].Assembly = "missing"

	m, err := BuildPerimeter(context.Background(), PerimeterInput{
		Perimeter:  p,
		Assemblies: testRegistry(t),
		Materials:  testMaterials(t),
	})
	if err != nil {
		t.Fatalf("BuildPerimeter: %v", err)
	}

	// Wall 2 fails directly; walls 1 and 3 fail because their layer
	// extents need wall 2's stack. Wall 0 still builds.
	if len(m.Errors) != 3 {
		t.Fatalf("expected 3 wall errors, got %d: %v", len(m.Errors), m.Errors)
	}
	found := false
	for _, issue := range m.Errors {
		if strings.Contains(issue.Message, "wall 2") && strings.Contains(issue.Message, "missing") {
			found = true
		}
	}
	if !found {
		t.Errorf("no error names wall 2: %v", m.Errors)
	}
	if m.CountElements() == 0 {
		t.Error("expected the healthy wall to still produce elements")
	}
}

func TestBuildPerimeter_UnknownRingBeam(t *testing.T) {
	_, err := BuildPerimeter(context.Background(), PerimeterInput{
		Perimeter:  squarePerimeter(),
		Assemblies: testRegistry(t),
		Materials:  testMaterials(t),
		RingBeams:  []assembly.ID{"nope"},
	})
	if err == nil {
		t.Fatal("expected error for unknown ring beam id")
	}
}

// ===== Builder =====

func TestBuilder_Execute(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	result, err := b.Execute(context.Background(), Options{
		Input: PerimeterInput{
			Perimeter:  squarePerimeter(),
			Assemblies: testRegistry(t),
			Materials:  testMaterials(t),
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Model == nil {
		t.Fatal("expected a model")
	}
	if result.Stats.CornerCount != 4 || result.Stats.WallCount != 4 {
		t.Errorf("counts = %d corners, %d walls, want 4/4",
			result.Stats.CornerCount, result.Stats.WallCount)
	}
	if result.Stats.ElementCount != result.Model.CountElements() {
		t.Errorf("ElementCount %d does not match model %d",
			result.Stats.ElementCount, result.Model.CountElements())
	}
	if result.CacheInfo.ModelHit {
		t.Error("first run must not hit the model cache")
	}
	// Identical posts across the four walls dedupe in the shape cache.
	if result.CacheInfo.Shapes.Hits == 0 {
		t.Error("expected shape cache hits from repeated parts")
	}
}

func TestBuilder_ModelCache(t *testing.T) {
	b := NewBuilder(cache.NewMemoryCache(), nil, nil)
	opts := Options{
		Input: PerimeterInput{
			Perimeter:  squarePerimeter(),
			Assemblies: testRegistry(t),
			Materials:  testMaterials(t),
		},
		Hash: "project-hash",
	}

	first, err := b.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.ModelHit {
		t.Fatal("first run must miss")
	}

	second, err := b.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.ModelHit {
		t.Fatal("second run must hit the model cache")
	}
	if second.Stats.ElementCount != first.Stats.ElementCount {
		t.Errorf("cached model has %d elements, fresh build %d",
			second.Stats.ElementCount, first.Stats.ElementCount)
	}

	refreshed, err := b.Execute(context.Background(), Options{
		Input:   opts.Input,
		Hash:    opts.Hash,
		Refresh: true,
	})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.ModelHit {
		t.Error("refresh must bypass the model cache")
	}
}

func TestBuilder_InvalidOptions(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	if _, err := b.Execute(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for empty options")
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	m, err := b.Build(context.Background(), Options{
		Input: PerimeterInput{
			Perimeter:  squarePerimeter(),
			Assemblies: testRegistry(t),
			Materials:  testMaterials(t),
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.CountElements() == 0 {
		t.Fatal("expected elements")
	}
}

func TestCheckMaterials(t *testing.T) {
	cfg := testAssembly()
	resolver := testMaterials(t)
	if err := checkMaterials(&cfg, resolver); err != nil {
		t.Fatalf("valid assembly rejected: %v", err)
	}

	cfg.Infill.StrawMaterial = "hay"
	if err := checkMaterials(&cfg, resolver); err == nil {
		t.Fatal("expected unknown material to be rejected")
	}
}
