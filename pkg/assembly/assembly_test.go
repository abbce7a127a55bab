package assembly

import (
	"strings"
	"testing"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/material"
)

func validInfill() InfillConfig {
	return InfillConfig{
		PostType:       PostFull,
		PostWidth:      60,
		PostDepth:      120,
		PostMaterial:   "clt",
		StrawMaterial:  "straw",
		BaleLength:     800,
		BaleHeight:     500,
		MinStrawSpace:  300,
		DesiredSpacing: 800,
		MaxSpacing:     1000,
	}
}

func validConfig() Config {
	return Config{
		ID:   "strawbale-36",
		Name: "36cm straw bale wall",
		Layers: LayerSet{
			Inside:  []Layer{{Thickness: 30, Material: "clay"}},
			Outside: []Layer{{Thickness: 20, Material: "lime"}, {Thickness: 10, Material: "lime-finish"}},
		},
		Infill: validInfill(),
		Opening: OpeningConfig{
			HeaderThickness: 60,
			HeaderMaterial:  "clt",
			SillThickness:   40,
			SillMaterial:    "clt",
		},
		Plate: PlateConfig{BaseThickness: 60, TopThickness: 60, Material: "clt"},
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v for valid config", err)
	}

	bad := validConfig()
	bad.ID = ""
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted empty assembly id")
	}
}

func TestConfig_Materials(t *testing.T) {
	got := validConfig().Materials()
	want := []material.ID{"clt", "straw", "clay", "lime", "lime-finish"}
	if len(got) != len(want) {
		t.Fatalf("Materials() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Materials()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	beam := RingBeam{ID: "top", Position: RingBeamTop, Type: RingBeamDouble,
		Height: 120, Width: 240, Material: "clt", InfillMaterial: "straw"}
	if ids := beam.Materials(); len(ids) != 2 || ids[0] != "clt" || ids[1] != "straw" {
		t.Errorf("RingBeam.Materials() = %v, want [clt straw]", ids)
	}
	beam.Type = RingBeamFull
	if ids := beam.Materials(); len(ids) != 1 || ids[0] != "clt" {
		t.Errorf("full beam Materials() = %v, want [clt]", ids)
	}
}

func TestInfillConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*InfillConfig)
		wantErr string
	}{
		{"valid", func(c *InfillConfig) {}, ""},
		{"unknown post type", func(c *InfillConfig) { c.PostType = "triple" }, "post type"},
		{"zero post width", func(c *InfillConfig) { c.PostWidth = 0 }, "post width"},
		{"negative bale length", func(c *InfillConfig) { c.BaleLength = -1 }, "bale length"},
		{"min over max", func(c *InfillConfig) { c.MinStrawSpace = 1200 }, "exceeds max spacing"},
		{"missing post material", func(c *InfillConfig) { c.PostMaterial = "" }, "post material"},
		{"missing straw material", func(c *InfillConfig) { c.StrawMaterial = "" }, "straw material"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validInfill()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLayerSet_Thickness(t *testing.T) {
	ls := LayerSet{
		Inside:  []Layer{{Thickness: 30, Material: "clay"}},
		Outside: []Layer{{Thickness: 20, Material: "lime"}, {Thickness: 10, Material: "lime-finish"}},
	}
	if got := ls.InsideThickness(); got != 30 {
		t.Errorf("InsideThickness() = %v, want 30", got)
	}
	if got := ls.OutsideThickness(); got != 30 {
		t.Errorf("OutsideThickness() = %v, want 30", got)
	}
}

func TestLayerSet_Validate(t *testing.T) {
	bad := LayerSet{Inside: []Layer{{Thickness: 0, Material: "clay"}}}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted zero-thickness layer")
	}
	missing := LayerSet{Outside: []Layer{{Thickness: 10}}}
	if err := missing.Validate(); err == nil {
		t.Error("Validate() accepted layer without material")
	}
}

func TestOpeningConfig_Flags(t *testing.T) {
	cfg := OpeningConfig{HeaderThickness: 60, HeaderMaterial: "clt"}
	if !cfg.HasHeader() {
		t.Error("HasHeader() = false")
	}
	if cfg.HasSill() || cfg.HasFilling() {
		t.Error("HasSill()/HasFilling() = true for unset members")
	}
}

func TestOpeningConfig_Validate(t *testing.T) {
	bad := OpeningConfig{HeaderThickness: 60}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted header without material")
	}
	if err := (OpeningConfig{}).Validate(); err != nil {
		t.Errorf("Validate() error = %v for empty config", err)
	}
}

func TestPlateConfig_Validate(t *testing.T) {
	if err := (PlateConfig{}).Validate(); err != nil {
		t.Errorf("Validate() error = %v for empty config", err)
	}
	if err := (PlateConfig{BaseThickness: 60, TopThickness: 60, Material: "clt"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v for valid config", err)
	}
	if err := (PlateConfig{BaseThickness: 60}).Validate(); err == nil {
		t.Error("Validate() accepted plate without material")
	}
	if err := (PlateConfig{TopThickness: -1, Material: "clt"}).Validate(); err == nil {
		t.Error("Validate() accepted negative thickness")
	}
}

func TestRingBeam_Validate(t *testing.T) {
	valid := RingBeam{
		ID:       "base-beam",
		Position: RingBeamBase,
		Type:     RingBeamFull,
		Height:   120,
		Width:    240,
		Material: "clt",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v for valid beam", err)
	}

	tests := []struct {
		name   string
		mutate func(*RingBeam)
	}{
		{"bad position", func(b *RingBeam) { b.Position = "middle" }},
		{"bad type", func(b *RingBeam) { b.Type = "hollow" }},
		{"zero height", func(b *RingBeam) { b.Height = 0 }},
		{"negative offset", func(b *RingBeam) { b.OffsetFromEdge = -5 }},
		{"missing material", func(b *RingBeam) { b.Material = "" }},
		{
			"double without infill material",
			func(b *RingBeam) { b.Type = RingBeamDouble },
		},
		{
			"double leaves exceed width",
			func(b *RingBeam) {
				b.Type = RingBeamDouble
				b.InfillMaterial = "straw"
				b.LeafWidth = 120
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			if err := b.Validate(); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestRingBeam_EffectiveLeafWidth(t *testing.T) {
	b := RingBeam{Width: 240}
	if got := b.EffectiveLeafWidth(); got != 60 {
		t.Errorf("EffectiveLeafWidth() = %v, want 60 (width/4)", got)
	}
	b.LeafWidth = 80
	if got := b.EffectiveLeafWidth(); got != 80 {
		t.Errorf("EffectiveLeafWidth() = %v, want 80", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.AddAssembly(validConfig()); err != nil {
		t.Fatalf("AddAssembly() error = %v", err)
	}
	if err := r.AddRingBeam(RingBeam{
		ID: "base-beam", Position: RingBeamBase, Type: RingBeamFull,
		Height: 120, Width: 240, Material: "clt",
	}); err != nil {
		t.Fatalf("AddRingBeam() error = %v", err)
	}

	if _, err := r.Assembly("strawbale-36"); err != nil {
		t.Errorf("Assembly() error = %v", err)
	}
	if _, err := r.Assembly("nope"); !errors.Is(err, errors.ErrCodeAssemblyNotFound) {
		t.Errorf("Assembly(nope) code = %v, want %v", errors.GetCode(err), errors.ErrCodeAssemblyNotFound)
	}
	if _, err := r.RingBeam("nope"); !errors.Is(err, errors.ErrCodeRingBeamNotFound) {
		t.Errorf("RingBeam(nope) code = %v, want %v", errors.GetCode(err), errors.ErrCodeRingBeamNotFound)
	}
}

func TestRegistry_Duplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.AddAssembly(validConfig()); err != nil {
		t.Fatalf("AddAssembly() error = %v", err)
	}
	if err := r.AddAssembly(validConfig()); err == nil {
		t.Error("AddAssembly() accepted duplicate id")
	}
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	r := NewRegistry()
	bad := validConfig()
	bad.Infill.PostWidth = -1
	if err := r.AddAssembly(bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("AddAssembly() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}
