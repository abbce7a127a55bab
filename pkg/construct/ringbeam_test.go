package construct

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/perimeter"
)

func baseBeam() assembly.RingBeam {
	return assembly.RingBeam{
		ID:       "base",
		Position: assembly.RingBeamBase,
		Type:     assembly.RingBeamFull,
		Height:   120,
		Width:    360,
		Material: "timber",
	}
}

// worldElement pairs an element with its world-space position.
type worldElement struct {
	model.Element
	World geometry.Vec3
}

func modelElements(m *model.Model) []worldElement {
	var out []worldElement
	m.Walk(func(e model.Element, w geometry.Transform) {
		out = append(out, worldElement{Element: e, World: w.Apply(e.Position)})
	})
	return out
}

func TestGroupRuns_Square(t *testing.T) {
	runs := GroupRuns(resolvedSquare(t))
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(runs))
	}
	wantLen := []float64{4000, 6000, 4000, 6000}
	for i, run := range runs {
		if len(run.Walls) != 1 {
			t.Errorf("run %d spans %d walls, want 1", i, len(run.Walls))
		}
		if !geometry.AlmostEqual(run.Length, wantLen[i]) {
			t.Errorf("run %d length = %.0f, want %.0f", i, run.Length, wantLen[i])
		}
		if run.EndCorner != (run.StartCorner+1)%4 {
			t.Errorf("run %d corners = %d..%d", i, run.StartCorner, run.EndCorner)
		}
	}
}

func TestGroupRuns_CollapsesColinearWalls(t *testing.T) {
	// The top side is split by a colinear corner; its two walls form one
	// run.
	p := &perimeter.Perimeter{
		Corners: []perimeter.Corner{
			{Inside: geometry.V2(0, 0)},
			{Inside: geometry.V2(0, 4000)},
			{Inside: geometry.V2(3000, 4000)},
			{Inside: geometry.V2(6000, 4000)},
			{Inside: geometry.V2(6000, 0)},
		},
		Walls: []perimeter.Wall{
			{Thickness: 360}, {Thickness: 360}, {Thickness: 360},
			{Thickness: 360}, {Thickness: 360},
		},
		StoreyHeight: 2800,
	}
	if err := perimeter.Resolve(p, perimeter.ResolveOptions{}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	runs := GroupRuns(p)
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs from 5 walls, got %d", len(runs))
	}
	var merged *BeamRun
	for i := range runs {
		if len(runs[i].Walls) == 2 {
			merged = &runs[i]
		}
	}
	if merged == nil {
		t.Fatal("no run spans the colinear walls")
	}
	if !geometry.AlmostEqual(merged.Length, 6000) {
		t.Errorf("merged run length = %.0f, want 6000", merged.Length)
	}
}

func TestBuildRingBeams_FullBase(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()

	m, err := BuildRingBeams(context.Background(), p, &rb, nil, testMaterials(t), nil, nil)
	if err != nil {
		t.Fatalf("BuildRingBeams: %v", err)
	}

	els := modelElements(m)
	if len(els) != 4 {
		t.Fatalf("expected 4 beam pieces, got %d", len(els))
	}

	// Each run's footprint is mitred at the owned corner and butts at
	// the other, so the four quads tile the full band between the inside
	// and outside rings.
	shortVol := 4360.0 * 360 * 120
	longVol := 6360.0 * 360 * 120
	total := 0.0
	for _, e := range els {
		if e.Type != model.TypeRingBeam || e.Material != "timber" {
			t.Errorf("element = %s %s, want ring beam of timber", e.Type, e.Material)
		}
		if !geometry.AlmostEqual(e.World.Z, 0) {
			t.Errorf("base beam sits at z=%.1f, want 0", e.World.Z)
		}
		v := e.Volume()
		if !geometry.AlmostEqual(v, shortVol) && !geometry.AlmostEqual(v, longVol) {
			t.Errorf("piece volume = %.0f, want %.0f or %.0f", v, shortVol, longVol)
		}
		total += v
	}
	bandArea := 6720.0*4720 - 6000.0*4000
	if !geometry.AlmostEqual(total, bandArea*120) {
		t.Errorf("total volume = %.0f, want %.0f (band area x height)", total, bandArea*120)
	}

	if len(m.Root.Groups) != 4 {
		t.Fatalf("expected one group per run, got %d", len(m.Root.Groups))
	}
	for _, g := range m.Root.Groups {
		if !strings.HasPrefix(g.Name, "ringbeam-base-run-") {
			t.Errorf("group name = %q", g.Name)
		}
	}
}

func TestBuildRingBeams_TopPosition(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()
	rb.ID = "top"
	rb.Position = assembly.RingBeamTop

	m, err := BuildRingBeams(context.Background(), p, &rb, nil, testMaterials(t), nil, nil)
	if err != nil {
		t.Fatalf("BuildRingBeams: %v", err)
	}
	for _, e := range modelElements(m) {
		if !geometry.AlmostEqual(e.World.Z, 2680) {
			t.Errorf("top beam sits at z=%.1f, want 2680 under the 2800mm storey", e.World.Z)
		}
	}
}

func TestBuildRingBeams_Double(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()
	rb.Type = assembly.RingBeamDouble
	rb.InfillMaterial = "straw"

	m, err := BuildRingBeams(context.Background(), p, &rb, nil, testMaterials(t), nil, nil)
	if err != nil {
		t.Fatalf("BuildRingBeams: %v", err)
	}

	els := modelElements(m)
	var leaves, strips int
	total := 0.0
	for _, e := range els {
		switch e.Type {
		case model.TypeRingBeam:
			leaves++
			if e.Material != "timber" {
				t.Errorf("leaf material = %q", e.Material)
			}
		case model.TypeInfillStrip:
			strips++
			if e.Material != "straw" {
				t.Errorf("strip material = %q", e.Material)
			}
		default:
			t.Errorf("unexpected element type %q", e.Type)
		}
		total += e.Volume()
	}
	if leaves != 8 || strips != 4 {
		t.Errorf("got %d leaves and %d strips, want 8 and 4", leaves, strips)
	}
	// Leaves and strip tile the same band a full beam fills.
	bandArea := 6720.0*4720 - 6000.0*4000
	if !geometry.AlmostEqual(total, bandArea*120) {
		t.Errorf("total volume = %.0f, want %.0f", total, bandArea*120)
	}
}

func TestBuildRingBeams_GableTop(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()
	rb.ID = "top"
	rb.Position = assembly.RingBeamTop

	gable, err := Gable(4000, 30)
	if err != nil {
		t.Fatal(err)
	}
	heights := map[int]HeightLine{0: gable}

	m, err := BuildRingBeams(context.Background(), p, &rb, heights, testMaterials(t), nil, nil)
	if err != nil {
		t.Fatalf("BuildRingBeams: %v", err)
	}

	els := modelElements(m)
	if len(els) != 5 {
		t.Fatalf("expected 2 sloped + 3 level pieces, got %d", len(els))
	}

	peak := 2000 * math.Tan(30*math.Pi/180)
	var rising, falling int
	for _, e := range els {
		if e.Shape.Kind != model.ShapeKindSlopedBox {
			continue
		}
		switch {
		case geometry.AlmostEqual(e.Shape.Rise, peak):
			rising++
			if !geometry.AlmostEqual(e.World.Z, 2680) {
				t.Errorf("rising piece starts at z=%.1f, want 2680", e.World.Z)
			}
		case geometry.AlmostEqual(e.Shape.Rise, -peak):
			falling++
			if !geometry.AlmostEqual(e.World.Z, 2680+peak) {
				t.Errorf("falling piece starts at z=%.1f, want %.1f", e.World.Z, 2680+peak)
			}
		default:
			t.Errorf("unexpected rise %.1f", e.Shape.Rise)
		}
	}
	if rising != 1 || falling != 1 {
		t.Errorf("got %d rising and %d falling pieces, want 1 each", rising, falling)
	}
}

func TestBuildRingBeams_BrickSteps(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()
	rb.ID = "top"
	rb.Position = assembly.RingBeamTop
	rb.Type = assembly.RingBeamBrick

	gable, err := Gable(4000, 30)
	if err != nil {
		t.Fatal(err)
	}
	heights := map[int]HeightLine{0: gable}

	m, err := BuildRingBeams(context.Background(), p, &rb, heights, testMaterials(t), nil, nil)
	if err != nil {
		t.Fatalf("BuildRingBeams: %v", err)
	}

	// The 1155mm rise over each gable slope re-slices into 10 level
	// steps of at most one 120mm course rise.
	els := modelElements(m)
	if len(els) != 23 {
		t.Fatalf("expected 10+10 steps plus 3 level runs, got %d", len(els))
	}

	peak := 2000 * math.Tan(30*math.Pi/180)
	maxZ := 0.0
	for _, e := range els {
		if e.Shape.Kind == model.ShapeKindSlopedBox {
			t.Fatal("masonry must not shear")
		}
		if e.World.Z < 2680-geometry.Eps {
			t.Errorf("step below the beam base: z=%.1f", e.World.Z)
		}
		maxZ = math.Max(maxZ, e.World.Z)
	}
	// Each step stays at or below the roof line: the highest step sits
	// one step width short of the ridge.
	if want := 2680 + peak*0.9; !geometry.AlmostEqual(maxZ, want) {
		t.Errorf("highest step at z=%.1f, want %.1f", maxZ, want)
	}
}

func TestBuildRingBeams_UnknownMaterial(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()
	rb.Material = "steel"

	_, err := BuildRingBeams(context.Background(), p, &rb, nil, testMaterials(t), nil, nil)
	if !errors.Is(err, errors.ErrCodeMaterialNotFound) {
		t.Fatalf("error = %v, want MATERIAL_NOT_FOUND", err)
	}

	rb = baseBeam()
	rb.Type = assembly.RingBeamDouble
	rb.InfillMaterial = "cork"
	_, err = BuildRingBeams(context.Background(), p, &rb, nil, testMaterials(t), nil, nil)
	if !errors.Is(err, errors.ErrCodeMaterialNotFound) {
		t.Fatalf("infill error = %v, want MATERIAL_NOT_FOUND", err)
	}
}

func TestBuildRingBeams_BadHeightLine(t *testing.T) {
	p := resolvedSquare(t)
	rb := baseBeam()
	rb.Position = assembly.RingBeamTop

	heights := map[int]HeightLine{
		0: {Points: []HeightPoint{{Position: 1000}, {Position: 500}}},
	}
	_, err := BuildRingBeams(context.Background(), p, &rb, heights, testMaterials(t), nil, nil)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
}
