package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/baleframe/baleframe/pkg/geometry"
)

func box(size geometry.Vec3) Shape { return BoxShape(size) }

func TestShape_BoxBoundsVolume(t *testing.T) {
	s := BoxShape(geometry.V3(1000, 360, 2400))

	b := s.Bounds()
	if !b.Min.AlmostEqual(geometry.V3(0, 0, 0)) || !b.Max.AlmostEqual(geometry.V3(1000, 360, 2400)) {
		t.Errorf("Bounds() = %v", b)
	}
	if got, want := s.Volume(), 1000.0*360*2400; !geometry.AlmostEqual(got, want) {
		t.Errorf("Volume() = %v, want %v", got, want)
	}
}

func TestShape_PrismWallPlane(t *testing.T) {
	// A 2000×2400 wall face with a 1000×1000 hole, 40mm thick.
	outline := geometry.Path{
		Outer: geometry.R(0, 0, 2000, 2400).Ring(),
		Holes: []geometry.Polygon{geometry.R(500, 800, 1500, 1800).Ring()},
	}
	s := PrismShape(outline, PlaneWall, 40)

	b := s.Bounds()
	if !b.Min.AlmostEqual(geometry.V3(0, 0, 0)) || !b.Max.AlmostEqual(geometry.V3(2000, 40, 2400)) {
		t.Errorf("Bounds() = %v", b)
	}
	want := (2000*2400 - 1000*1000) * 40.0
	if got := s.Volume(); !geometry.AlmostEqual(got, want) {
		t.Errorf("Volume() = %v, want %v", got, want)
	}
}

func TestShape_PrismPlanPlane(t *testing.T) {
	s := PrismShape(geometry.Path{Outer: geometry.R(0, 0, 300, 400).Ring()}, PlanePlan, 120)

	b := s.Bounds()
	if !b.Max.AlmostEqual(geometry.V3(300, 400, 120)) {
		t.Errorf("Bounds().Max = %v, want (300, 400, 120)", b.Max)
	}
}

func TestShape_SlopedBox(t *testing.T) {
	// Sheared beam: 3000 long, rising 600 over its length.
	s := SlopedBoxShape(geometry.V3(3000, 120, 200), 600)

	b := s.Bounds()
	if !b.Min.AlmostEqual(geometry.V3(0, 0, 0)) || !b.Max.AlmostEqual(geometry.V3(3000, 120, 800)) {
		t.Errorf("Bounds() = %v", b)
	}
	// Shear preserves the straight-beam volume.
	if got, want := s.Volume(), 3000.0*120*200; !geometry.AlmostEqual(got, want) {
		t.Errorf("Volume() = %v, want %v", got, want)
	}
}

func TestElement_Bounds(t *testing.T) {
	e := NewElement(TypePost, "clt", geometry.V3(100, 0, 50), box(geometry.V3(60, 360, 2400)))

	b := e.Bounds()
	if !b.Min.AlmostEqual(geometry.V3(100, 0, 50)) || !b.Max.AlmostEqual(geometry.V3(160, 360, 2450)) {
		t.Errorf("Bounds() = %v", b)
	}
}

func TestNewElement_FreshIDs(t *testing.T) {
	a := NewElement(TypePost, "clt", geometry.Vec3{}, box(geometry.V3(1, 1, 1)))
	b := NewElement(TypePost, "clt", geometry.Vec3{}, box(geometry.V3(1, 1, 1)))
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("NewElement() ids not unique: %q, %q", a.ID, b.ID)
	}
}

func TestGroup_BoundsWithTransform(t *testing.T) {
	e := NewElement(TypePost, "clt", geometry.V3(0, 0, 0), box(geometry.V3(100, 200, 300)))
	g := NewGroup("wall", geometry.Transform{
		Rotation:    math.Pi / 2,
		Translation: geometry.V3(1000, 0, 0),
	}, []Element{e}, nil)

	// 90° CCW maps [0,100]×[0,200] to [-200,0]×[0,100], then +1000 on X.
	if !g.Bounds.Min.AlmostEqual(geometry.V3(800, 0, 0)) || !g.Bounds.Max.AlmostEqual(geometry.V3(1000, 100, 300)) {
		t.Errorf("Bounds = %v", g.Bounds)
	}
}

func TestCollect(t *testing.T) {
	post := NewElement(TypePost, "clt", geometry.V3(0, 0, 0), box(geometry.V3(60, 360, 2400)))
	bale := NewElement(TypeBale, "straw", geometry.V3(60, 0, 0), box(geometry.V3(800, 360, 500)))
	warn := NewIssue("post spacing exceeds maximum", post.ID)

	m := Collect("wall",
		ElementPart(post),
		ElementPart(bale),
		WarningPart(warn),
		MeasurementPart(Measurement{From: geometry.V3(0, 0, 0), To: geometry.V3(860, 0, 0), Label: "860"}),
	)

	if got := m.CountElements(); got != 2 {
		t.Errorf("CountElements() = %d, want 2", got)
	}
	if len(m.Warnings) != 1 || len(m.Errors) != 0 {
		t.Errorf("issues = %d warnings, %d errors, want 1/0", len(m.Warnings), len(m.Errors))
	}
	if len(m.Measurements) != 1 {
		t.Errorf("Measurements = %d, want 1", len(m.Measurements))
	}
	if !m.Bounds.Max.AlmostEqual(geometry.V3(860, 360, 2400)) {
		t.Errorf("Bounds.Max = %v, want (860, 360, 2400)", m.Bounds.Max)
	}
	if m.Root.Name != "wall" {
		t.Errorf("Root.Name = %q, want wall", m.Root.Name)
	}
}

func TestMerge(t *testing.T) {
	a := Collect("a", ElementPart(NewElement(TypePost, "clt", geometry.V3(0, 0, 0), box(geometry.V3(100, 100, 100)))))
	b := Collect("b",
		ElementPart(NewElement(TypePost, "clt", geometry.V3(500, 0, 0), box(geometry.V3(100, 100, 100)))),
		ErrorPart(NewIssue("boom")),
	)

	m := Merge(a, b)

	if got := m.CountElements(); got != 2 {
		t.Errorf("CountElements() = %d, want 2", got)
	}
	if len(m.Errors) != 1 {
		t.Errorf("Errors = %d, want 1", len(m.Errors))
	}
	if !m.Bounds.Min.AlmostEqual(geometry.V3(0, 0, 0)) || !m.Bounds.Max.AlmostEqual(geometry.V3(600, 100, 100)) {
		t.Errorf("Bounds = %v", m.Bounds)
	}
	// Inputs must stay intact.
	if a.CountElements() != 1 || b.CountElements() != 1 {
		t.Error("Merge() mutated an input model")
	}
}

func TestMerge_NestsTransformedRoots(t *testing.T) {
	a := Collect("a", ElementPart(NewElement(TypePost, "clt", geometry.V3(0, 0, 0), box(geometry.V3(100, 100, 100)))))
	placed := ApplyTransform(a, "a-placed", geometry.TranslationOf(geometry.V3(1000, 0, 0)))

	m := Merge(placed)

	if got := len(m.Root.Groups); got != 1 {
		t.Fatalf("Root.Groups = %d, want 1 nested group", got)
	}
	if !m.Bounds.Min.AlmostEqual(geometry.V3(1000, 0, 0)) {
		t.Errorf("Bounds.Min = %v, want (1000, 0, 0)", m.Bounds.Min)
	}
}

func TestApplyTransform(t *testing.T) {
	e := NewElement(TypePost, "clt", geometry.V3(0, 0, 0), box(geometry.V3(100, 200, 300)))
	m := Collect("wall",
		ElementPart(e),
		MeasurementPart(Measurement{From: geometry.V3(0, 0, 0), To: geometry.V3(100, 0, 0)}),
		AreaPart(NewArea("opening", geometry.V3(0, 0, 0), geometry.V3(100, 0, 0))),
	)

	tr := geometry.Transform{Rotation: math.Pi / 2, Translation: geometry.V3(500, 0, 0)}
	placed := ApplyTransform(m, "wall-east", tr)

	if placed.Root.Name != "wall-east" {
		t.Errorf("Root.Name = %q, want wall-east", placed.Root.Name)
	}
	if !placed.Bounds.Min.AlmostEqual(geometry.V3(300, 0, 0)) || !placed.Bounds.Max.AlmostEqual(geometry.V3(500, 100, 300)) {
		t.Errorf("Bounds = %v", placed.Bounds)
	}
	if !placed.Measurements[0].To.AlmostEqual(geometry.V3(500, 100, 0)) {
		t.Errorf("Measurement.To = %v, want (500, 100, 0)", placed.Measurements[0].To)
	}
	if !placed.Areas[0].Outline[1].AlmostEqual(geometry.V3(500, 100, 0)) {
		t.Errorf("Area.Outline[1] = %v, want (500, 100, 0)", placed.Areas[0].Outline[1])
	}
}

func TestApplyTransform_IdentityRoundTrip(t *testing.T) {
	m := Collect("wall",
		ElementPart(NewElement(TypePost, "clt", geometry.V3(10, 20, 30), box(geometry.V3(100, 200, 300)))),
		MeasurementPart(Measurement{From: geometry.V3(1, 2, 3), To: geometry.V3(4, 5, 6)}),
	)

	out := ApplyTransform(m, "wrapped", geometry.Identity())

	if !out.Bounds.Min.AlmostEqual(m.Bounds.Min) || !out.Bounds.Max.AlmostEqual(m.Bounds.Max) {
		t.Errorf("Bounds changed: %v vs %v", out.Bounds, m.Bounds)
	}

	var worldBefore, worldAfter []geometry.Vec3
	m.Walk(func(e Element, w geometry.Transform) {
		worldBefore = append(worldBefore, w.Apply(e.Position))
	})
	out.Walk(func(e Element, w geometry.Transform) {
		worldAfter = append(worldAfter, w.Apply(e.Position))
	})
	if len(worldBefore) != len(worldAfter) {
		t.Fatalf("element count changed: %d vs %d", len(worldBefore), len(worldAfter))
	}
	for i := range worldBefore {
		if !worldBefore[i].AlmostEqual(worldAfter[i]) {
			t.Errorf("element %d world position changed: %v vs %v", i, worldBefore[i], worldAfter[i])
		}
	}
}

func TestWalk_AccumulatesTransforms(t *testing.T) {
	e := NewElement(TypePost, "clt", geometry.V3(100, 0, 0), box(geometry.V3(10, 10, 10)))
	inner := NewGroup("inner", geometry.TranslationOf(geometry.V3(0, 50, 0)), []Element{e}, nil)
	outer := NewGroup("outer", geometry.TranslationOf(geometry.V3(1000, 0, 0)), nil, []Group{inner})
	m := &Model{Root: outer, Bounds: outer.Bounds}

	var got geometry.Vec3
	m.Walk(func(e Element, w geometry.Transform) {
		got = w.Apply(e.Position)
	})
	if !got.AlmostEqual(geometry.V3(1100, 50, 0)) {
		t.Errorf("world position = %v, want (1100, 50, 0)", got)
	}
}

func TestModel_JSONRoundTrip(t *testing.T) {
	m := Collect("wall",
		ElementPart(NewElement(TypePost, "clt", geometry.V3(0, 0, 0), box(geometry.V3(60, 360, 2400)))),
		ElementPart(NewElement(TypeLayer, "lime", geometry.V3(0, -40, 0), PrismShape(geometry.Path{
			Outer: geometry.R(0, 0, 2000, 2400).Ring(),
			Holes: []geometry.Polygon{geometry.R(500, 800, 1500, 1800).Ring()},
		}, PlaneWall, 40))),
		WarningPart(NewIssue("tight fit")),
	)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var back Model
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if back.CountElements() != m.CountElements() {
		t.Errorf("CountElements() = %d, want %d", back.CountElements(), m.CountElements())
	}
	if len(back.Warnings) != 1 {
		t.Errorf("Warnings = %d, want 1", len(back.Warnings))
	}
	if !back.Bounds.Max.AlmostEqual(m.Bounds.Max) {
		t.Errorf("Bounds.Max = %v, want %v", back.Bounds.Max, m.Bounds.Max)
	}
	layer := back.Root.Elements[1]
	if layer.Shape.Kind != ShapeKindPrism || len(layer.Shape.Outline.Holes) != 1 {
		t.Errorf("prism shape lost in round trip: %+v", layer.Shape)
	}
}
