// Package assembly defines wall build-ups: the layer stacks, infill
// parameters, opening framing, and ring beams that turn a bare wall
// outline into buildable elements.
//
// Configs are declarative records, typically decoded from a project file
// and validated once before synthesis. Geometry code receives them
// read-only through a [Registry].
package assembly

import (
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/material"
)

// ID identifies an assembly or ring-beam config within a project.
type ID string

// PostType selects the infill post construction.
type PostType string

// Post types.
const (
	PostFull   PostType = "full"   // one solid post centered in the core
	PostDouble PostType = "double" // two leaves at the core faces, straw between
)

// Layer is one finish layer: plaster, boarding, membranes. Layers stack
// core-outward on either wall side.
type Layer struct {
	Thickness float64     `json:"thickness"`
	Material  material.ID `json:"material"`
}

// LayerSet holds the finish layers of both wall sides, each ordered from
// the core outward.
type LayerSet struct {
	Inside  []Layer `json:"inside,omitempty"`
	Outside []Layer `json:"outside,omitempty"`
}

// InsideThickness returns the cumulative inside stack thickness.
func (ls LayerSet) InsideThickness() float64 { return stackThickness(ls.Inside) }

// OutsideThickness returns the cumulative outside stack thickness.
func (ls LayerSet) OutsideThickness() float64 { return stackThickness(ls.Outside) }

func stackThickness(layers []Layer) float64 {
	var sum float64
	for _, l := range layers {
		sum += l.Thickness
	}
	return sum
}

// Validate checks every layer of the set.
func (ls LayerSet) Validate() error {
	for _, l := range append(append([]Layer{}, ls.Inside...), ls.Outside...) {
		if err := errors.ValidatePositive("layer thickness", l.Thickness); err != nil {
			return err
		}
		if l.Material == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "layer is missing a material")
		}
	}
	return nil
}

// InfillConfig parameterizes the post-and-bale infill of wall segments.
// All dimensions in mm.
type InfillConfig struct {
	PostType      PostType    `json:"post_type"`
	PostWidth     float64     `json:"post_width"`
	PostDepth     float64     `json:"post_depth"`
	PostMaterial  material.ID `json:"post_material"`
	StrawMaterial material.ID `json:"straw_material"`

	BaleLength float64 `json:"bale_length"`
	BaleHeight float64 `json:"bale_height"`

	// Spacing drives post placement: bays aim for DesiredSpacing and the
	// layout is flagged when the achievable spacing leaves less than
	// MinStrawSpace or more than MaxSpacing between posts.
	MinStrawSpace  float64 `json:"min_straw_space"`
	DesiredSpacing float64 `json:"desired_spacing"`
	MaxSpacing     float64 `json:"max_spacing"`
}

// Validate checks the infill parameters.
func (c InfillConfig) Validate() error {
	switch c.PostType {
	case PostFull, PostDouble:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown post type %q", c.PostType)
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"post width", c.PostWidth},
		{"post depth", c.PostDepth},
		{"bale length", c.BaleLength},
		{"bale height", c.BaleHeight},
		{"desired spacing", c.DesiredSpacing},
		{"max spacing", c.MaxSpacing},
	} {
		if err := errors.ValidatePositive(v.name, v.value); err != nil {
			return err
		}
	}
	if err := errors.ValidateNonNegative("min straw space", c.MinStrawSpace); err != nil {
		return err
	}
	if c.MinStrawSpace > c.MaxSpacing {
		return errors.New(errors.ErrCodeInvalidConfig,
			"min straw space %.0fmm exceeds max spacing %.0fmm", c.MinStrawSpace, c.MaxSpacing)
	}
	if c.PostMaterial == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "infill is missing a post material")
	}
	if c.StrawMaterial == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "infill is missing a straw material")
	}
	return nil
}

// OpeningConfig parameterizes how openings are framed. A zero thickness
// disables the respective member.
type OpeningConfig struct {
	HeaderThickness float64     `json:"header_thickness,omitempty"`
	HeaderMaterial  material.ID `json:"header_material,omitempty"`
	SillThickness   float64     `json:"sill_thickness,omitempty"`
	SillMaterial    material.ID `json:"sill_material,omitempty"`

	// Filling is the element occupying the opening itself (a window or
	// door blank), inset by Padding on all sides and centered across the
	// wall at FillingThickness.
	Padding          float64     `json:"padding,omitempty"`
	FillingThickness float64     `json:"filling_thickness,omitempty"`
	FillingMaterial  material.ID `json:"filling_material,omitempty"`
}

// HasHeader reports whether headers are configured.
func (c OpeningConfig) HasHeader() bool { return c.HeaderThickness > 0 && c.HeaderMaterial != "" }

// HasSill reports whether sills are configured.
func (c OpeningConfig) HasSill() bool { return c.SillThickness > 0 && c.SillMaterial != "" }

// HasFilling reports whether opening fillings are configured.
func (c OpeningConfig) HasFilling() bool { return c.FillingThickness > 0 && c.FillingMaterial != "" }

// Validate checks the opening framing parameters.
func (c OpeningConfig) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"header thickness", c.HeaderThickness},
		{"sill thickness", c.SillThickness},
		{"padding", c.Padding},
		{"filling thickness", c.FillingThickness},
	} {
		if err := errors.ValidateNonNegative(v.name, v.value); err != nil {
			return err
		}
	}
	if c.HeaderThickness > 0 && c.HeaderMaterial == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "header thickness set but no header material")
	}
	if c.SillThickness > 0 && c.SillMaterial == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "sill thickness set but no sill material")
	}
	if c.FillingThickness > 0 && c.FillingMaterial == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "filling thickness set but no filling material")
	}
	return nil
}

// PlateConfig configures the optional horizontal plates closing the wall
// frame at floor and ceiling. A zero thickness disables the plate.
type PlateConfig struct {
	BaseThickness float64     `json:"base_thickness,omitempty"`
	TopThickness  float64     `json:"top_thickness,omitempty"`
	Material      material.ID `json:"material,omitempty"`
}

// HasBase reports whether a base plate is configured.
func (p PlateConfig) HasBase() bool { return p.BaseThickness > 0 && p.Material != "" }

// HasTop reports whether a top plate is configured.
func (p PlateConfig) HasTop() bool { return p.TopThickness > 0 && p.Material != "" }

// Validate checks the plate parameters.
func (p PlateConfig) Validate() error {
	if err := errors.ValidateNonNegative("base plate thickness", p.BaseThickness); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("top plate thickness", p.TopThickness); err != nil {
		return err
	}
	if (p.BaseThickness > 0 || p.TopThickness > 0) && p.Material == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "plate thickness set but no plate material")
	}
	return nil
}

// Config is one wall assembly: how a wall of this type is built up.
type Config struct {
	ID      ID            `json:"id"`
	Name    string        `json:"name,omitempty"`
	Layers  LayerSet      `json:"layers"`
	Infill  InfillConfig  `json:"infill"`
	Opening OpeningConfig `json:"opening"`
	Plate   PlateConfig   `json:"plate"`
}

// Validate checks the whole assembly config.
func (c Config) Validate() error {
	if err := errors.ValidateAssemblyID(string(c.ID)); err != nil {
		return err
	}
	if err := c.Layers.Validate(); err != nil {
		return err
	}
	if err := c.Infill.Validate(); err != nil {
		return err
	}
	if err := c.Opening.Validate(); err != nil {
		return err
	}
	return c.Plate.Validate()
}

// Materials returns every material id the assembly references, deduped
// in first-reference order. Disabled members (zero thickness) contribute
// nothing.
func (c Config) Materials() []material.ID {
	ids := []material.ID{c.Infill.PostMaterial, c.Infill.StrawMaterial}
	if c.Opening.HasHeader() {
		ids = append(ids, c.Opening.HeaderMaterial)
	}
	if c.Opening.HasSill() {
		ids = append(ids, c.Opening.SillMaterial)
	}
	if c.Opening.HasFilling() {
		ids = append(ids, c.Opening.FillingMaterial)
	}
	if c.Plate.HasBase() || c.Plate.HasTop() {
		ids = append(ids, c.Plate.Material)
	}
	for _, l := range c.Layers.Inside {
		ids = append(ids, l.Material)
	}
	for _, l := range c.Layers.Outside {
		ids = append(ids, l.Material)
	}

	seen := make(map[material.ID]bool, len(ids))
	var out []material.ID
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ===== Ring beams =====

// RingBeamPosition places a ring beam at the wall base or top.
type RingBeamPosition string

// Ring beam positions.
const (
	RingBeamBase RingBeamPosition = "base"
	RingBeamTop  RingBeamPosition = "top"
)

// RingBeamType selects the beam construction variant.
type RingBeamType string

// Ring beam types.
const (
	RingBeamFull   RingBeamType = "full"   // one solid beam
	RingBeamDouble RingBeamType = "double" // two leaves with infill between
	RingBeamBrick  RingBeamType = "brick"  // masonry course
)

// RingBeam is a horizontal beam running around the perimeter at the wall
// base or top, offset inward from the outside face.
type RingBeam struct {
	ID       ID               `json:"id"`
	Position RingBeamPosition `json:"position"`
	Type     RingBeamType     `json:"type"`

	Height float64 `json:"height"`
	Width  float64 `json:"width"`

	// OffsetFromEdge is measured from the wall inside face toward the
	// outside; the beam strip spans [offset, offset+width] across.
	OffsetFromEdge float64 `json:"offset_from_edge"`

	// LeafWidth is the width of each leaf of a double beam.
	// Zero defaults to a quarter of Width.
	LeafWidth float64 `json:"leaf_width,omitempty"`

	Material       material.ID `json:"material"`
	InfillMaterial material.ID `json:"infill_material,omitempty"`
}

// EffectiveLeafWidth returns the leaf width, applying the default.
func (b RingBeam) EffectiveLeafWidth() float64 {
	if b.LeafWidth > 0 {
		return b.LeafWidth
	}
	return b.Width / 4
}

// Materials returns the material ids the beam references.
func (b RingBeam) Materials() []material.ID {
	ids := []material.ID{b.Material}
	if b.Type == RingBeamDouble && b.InfillMaterial != "" {
		ids = append(ids, b.InfillMaterial)
	}
	return ids
}

// Validate checks the ring beam parameters.
func (b RingBeam) Validate() error {
	if err := errors.ValidateAssemblyID(string(b.ID)); err != nil {
		return err
	}
	switch b.Position {
	case RingBeamBase, RingBeamTop:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown ring beam position %q", b.Position)
	}
	switch b.Type {
	case RingBeamFull, RingBeamDouble, RingBeamBrick:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown ring beam type %q", b.Type)
	}
	if err := errors.ValidatePositive("ring beam height", b.Height); err != nil {
		return err
	}
	if err := errors.ValidatePositive("ring beam width", b.Width); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("ring beam offset", b.OffsetFromEdge); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("ring beam leaf width", b.LeafWidth); err != nil {
		return err
	}
	if b.Material == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "ring beam is missing a material")
	}
	if b.Type == RingBeamDouble {
		if b.InfillMaterial == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "double ring beam is missing an infill material")
		}
		if lw := b.EffectiveLeafWidth(); 2*lw >= b.Width-geometry.Eps {
			return errors.New(errors.ErrCodeInvalidConfig,
				"double ring beam leaves (2x%.0fmm) leave no room in %.0fmm width", lw, b.Width)
		}
	}
	return nil
}
