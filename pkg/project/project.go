// Package project reads, validates, and converts baleframe project
// files: the TOML documents that describe a building's materials, wall
// assemblies, ring beams, perimeter, and roof.
//
// # File format
//
// A project file has up to six sections:
//
//	[project]        name and storey height
//	[[material]]     material catalog with optional stock sizes
//	[[assembly]]     wall build-ups: layers, infill, framing, plates
//	[[ringbeam]]     beams run around the whole perimeter
//	[perimeter]      corners, walls, and the openings in them
//	[roof]           slope, overhang, and per-wall height lines
//
// Corner i connects to corner i+1 through wall i; the last wall closes
// the ring back to the first corner, so a file needs as many walls as
// corners. All dimensions are millimetres, angles degrees. The JSON
// form of a project uses the same keys, so API clients can post either
// encoding.
//
// # Usage
//
//	file, err := project.Load("house.toml")
//	if err != nil {
//	    return err
//	}
//	input, hash, err := file.ToInput()
//	if err != nil {
//	    return err
//	}
//	result, err := builder.Execute(ctx, construct.Options{Input: input, Hash: hash})
//
// Load and Decode validate the file's configuration. ToInput
// additionally resolves the perimeter geometry, so geometry problems
// (self-intersecting outlines, openings off the wall) surface before
// synthesis starts.
package project

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/baleframe/baleframe/pkg/assembly"
	"github.com/baleframe/baleframe/pkg/construct"
	"github.com/baleframe/baleframe/pkg/errors"
)

// File is a parsed project file. The struct mirrors the TOML sections;
// [File.ToInput] converts it into the synthesis input types.
type File struct {
	Project    Info       `toml:"project" json:"project" bson:"project"`
	Materials  []Material `toml:"material" json:"material,omitempty" bson:"material,omitempty"`
	Assemblies []Assembly `toml:"assembly" json:"assembly,omitempty" bson:"assembly,omitempty"`
	RingBeams  []RingBeam `toml:"ringbeam" json:"ringbeam,omitempty" bson:"ringbeam,omitempty"`
	Perimeter  Perimeter  `toml:"perimeter" json:"perimeter" bson:"perimeter"`
	Roof       Roof       `toml:"roof" json:"roof,omitempty" bson:"roof,omitempty"`
}

// Info is the [project] section.
type Info struct {
	Name         string  `toml:"name" json:"name" bson:"name"`
	StoreyHeight float64 `toml:"storey_height" json:"storey_height" bson:"storey_height"`
}

// Material is one [[material]] entry.
type Material struct {
	ID      string  `toml:"id" json:"id" bson:"id"`
	Name    string  `toml:"name" json:"name" bson:"name"`
	Color   string  `toml:"color" json:"color,omitempty" bson:"color,omitempty"`
	Density float64 `toml:"density" json:"density,omitempty" bson:"density,omitempty"`
	Stock   []Stock `toml:"stock" json:"stock,omitempty" bson:"stock,omitempty"`
}

// Stock is one [[material.stock]] size. A zero dimension means the
// material is cut to size on that axis.
type Stock struct {
	Length float64 `toml:"length" json:"length,omitempty" bson:"length,omitempty"`
	Width  float64 `toml:"width" json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty" bson:"height,omitempty"`
}

// Assembly is one [[assembly]] entry.
type Assembly struct {
	ID      string  `toml:"id" json:"id" bson:"id"`
	Name    string  `toml:"name" json:"name,omitempty" bson:"name,omitempty"`
	Layers  Layers  `toml:"layer" json:"layer,omitempty" bson:"layer,omitempty"`
	Infill  Infill  `toml:"infill" json:"infill" bson:"infill"`
	Framing Framing `toml:"opening" json:"opening,omitempty" bson:"opening,omitempty"`
	Plates  Plates  `toml:"plate" json:"plate,omitempty" bson:"plate,omitempty"`
}

// Layers holds the finish layers of both wall sides, each ordered from
// the straw core outward.
type Layers struct {
	Inside  []Layer `toml:"inside" json:"inside,omitempty" bson:"inside,omitempty"`
	Outside []Layer `toml:"outside" json:"outside,omitempty" bson:"outside,omitempty"`
}

// Layer is one finish layer.
type Layer struct {
	Thickness float64 `toml:"thickness" json:"thickness" bson:"thickness"`
	Material  string  `toml:"material" json:"material" bson:"material"`
}

// Infill is the [assembly.infill] table: posts and bales.
type Infill struct {
	PostType      string  `toml:"post_type" json:"post_type" bson:"post_type"`
	PostWidth     float64 `toml:"post_width" json:"post_width" bson:"post_width"`
	PostDepth     float64 `toml:"post_depth" json:"post_depth" bson:"post_depth"`
	PostMaterial  string  `toml:"post_material" json:"post_material" bson:"post_material"`
	StrawMaterial string  `toml:"straw_material" json:"straw_material" bson:"straw_material"`

	BaleLength float64 `toml:"bale_length" json:"bale_length" bson:"bale_length"`
	BaleHeight float64 `toml:"bale_height" json:"bale_height" bson:"bale_height"`

	MinStrawSpace  float64 `toml:"min_straw_space" json:"min_straw_space" bson:"min_straw_space"`
	DesiredSpacing float64 `toml:"desired_spacing" json:"desired_spacing" bson:"desired_spacing"`
	MaxSpacing     float64 `toml:"max_spacing" json:"max_spacing" bson:"max_spacing"`
}

// Framing is the [assembly.opening] table: how openings are framed.
// A zero thickness disables the respective member.
type Framing struct {
	HeaderThickness float64 `toml:"header_thickness" json:"header_thickness,omitempty" bson:"header_thickness,omitempty"`
	HeaderMaterial  string  `toml:"header_material" json:"header_material,omitempty" bson:"header_material,omitempty"`
	SillThickness   float64 `toml:"sill_thickness" json:"sill_thickness,omitempty" bson:"sill_thickness,omitempty"`
	SillMaterial    string  `toml:"sill_material" json:"sill_material,omitempty" bson:"sill_material,omitempty"`

	Padding          float64 `toml:"padding" json:"padding,omitempty" bson:"padding,omitempty"`
	FillingThickness float64 `toml:"filling_thickness" json:"filling_thickness,omitempty" bson:"filling_thickness,omitempty"`
	FillingMaterial  string  `toml:"filling_material" json:"filling_material,omitempty" bson:"filling_material,omitempty"`
}

// Plates is the [assembly.plate] table: the horizontal plates closing
// the wall frame at floor and ceiling.
type Plates struct {
	BaseThickness float64 `toml:"base_thickness" json:"base_thickness,omitempty" bson:"base_thickness,omitempty"`
	TopThickness  float64 `toml:"top_thickness" json:"top_thickness,omitempty" bson:"top_thickness,omitempty"`
	Material      string  `toml:"material" json:"material,omitempty" bson:"material,omitempty"`
}

// RingBeam is one [[ringbeam]] entry. Every entry is built; the beams
// run around the whole perimeter in file order.
type RingBeam struct {
	ID       string `toml:"id" json:"id" bson:"id"`
	Position string `toml:"position" json:"position" bson:"position"`
	Type     string `toml:"type" json:"type" bson:"type"`

	Height         float64 `toml:"height" json:"height" bson:"height"`
	Width          float64 `toml:"width" json:"width" bson:"width"`
	OffsetFromEdge float64 `toml:"offset_from_edge" json:"offset_from_edge" bson:"offset_from_edge"`
	LeafWidth      float64 `toml:"leaf_width" json:"leaf_width,omitempty" bson:"leaf_width,omitempty"`

	Material       string `toml:"material" json:"material" bson:"material"`
	InfillMaterial string `toml:"infill_material" json:"infill_material,omitempty" bson:"infill_material,omitempty"`
}

// Perimeter is the [perimeter] section. Corners are listed in drawing
// order; wall i runs from corner i to corner i+1.
type Perimeter struct {
	Corners []Corner `toml:"corner" json:"corner" bson:"corner"`
	Walls   []Wall   `toml:"wall" json:"wall" bson:"wall"`
}

// Corner is one [[perimeter.corner]] entry: the inside point of a ring
// vertex in plan, with an optional ownership override for the corner
// block ("prev" or "next").
type Corner struct {
	X     float64 `toml:"x" json:"x" bson:"x"`
	Y     float64 `toml:"y" json:"y" bson:"y"`
	Owner string  `toml:"owner" json:"owner,omitempty" bson:"owner,omitempty"`
}

// Wall is one [[perimeter.wall]] entry.
type Wall struct {
	Thickness float64   `toml:"thickness" json:"thickness" bson:"thickness"`
	Assembly  string    `toml:"assembly" json:"assembly" bson:"assembly"`
	Openings  []Opening `toml:"opening" json:"opening,omitempty" bson:"opening,omitempty"`
}

// Opening is one [[perimeter.wall.opening]] entry, measured along the
// wall's inside face from its start corner.
type Opening struct {
	Kind       string  `toml:"kind" json:"kind" bson:"kind"`
	Offset     float64 `toml:"offset" json:"offset" bson:"offset"`
	Width      float64 `toml:"width" json:"width" bson:"width"`
	Height     float64 `toml:"height" json:"height" bson:"height"`
	SillHeight float64 `toml:"sill_height" json:"sill_height,omitempty" bson:"sill_height,omitempty"`
}

// Roof is the [roof] section. Slope feeds the gable and shed height
// lines; Overhang widens the roof outline past the outside faces in
// plan drawings.
type Roof struct {
	Slope    float64    `toml:"slope" json:"slope,omitempty" bson:"slope,omitempty"`
	Overhang float64    `toml:"overhang" json:"overhang,omitempty" bson:"overhang,omitempty"`
	Lines    []RoofLine `toml:"heightline" json:"heightline,omitempty" bson:"heightline,omitempty"`
}

// Roof line shapes.
const (
	RoofLineGable  = "gable"
	RoofLineShed   = "shed"
	RoofLineCustom = "custom"
)

// RoofLine is one [[roof.heightline]] entry: the roof edge over one
// wall. Gable and shed lines derive their points from the wall length
// and the roof slope; custom lines list their points explicitly.
//
// Wall indices follow the file's drawing order. Counter-clockwise
// perimeters are reoriented to clockwise during synthesis and roof
// lines move and mirror with their wall, so the drawn roof is
// preserved either way.
type RoofLine struct {
	Wall   int                     `toml:"wall" json:"wall" bson:"wall"`
	Shape  string                  `toml:"shape" json:"shape,omitempty" bson:"shape,omitempty"`
	Points []construct.HeightPoint `toml:"point" json:"point,omitempty" bson:"point,omitempty"`
}

// Load reads and validates the project file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "project file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer fh.Close()
	return Decode(fh)
}

// Decode parses a TOML project file from r and validates it. Unknown
// keys are rejected so typos fail loudly instead of silently dropping
// configuration.
func Decode(r io.Reader) (*File, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse project file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown keys in project file: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// DecodeJSON parses a JSON project from r and validates it. The JSON
// form uses the same keys as the TOML form, so API clients can post
// either encoding.
func DecodeJSON(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse project JSON")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the file's configuration: section completeness,
// dimension signs, id uniqueness, and cross references. Geometry is not
// resolved here; [File.ToInput] covers that.
func (f *File) Validate() error {
	if strings.TrimSpace(f.Project.Name) == "" {
		return errors.New(errors.ErrCodeInvalidProject, "project name is required")
	}
	if err := errors.ValidatePositive("storey height", f.Project.StoreyHeight); err != nil {
		return err
	}

	lib, reg, err := f.buildRegistries()
	if err != nil {
		return err
	}

	for _, id := range reg.AssemblyIDs() {
		cfg, _ := reg.Assembly(id)
		for _, mid := range cfg.Materials() {
			if _, ok := lib.Resolve(mid); !ok {
				return errors.New(errors.ErrCodeMaterialNotFound,
					"assembly %q references unknown material %q", id, mid)
			}
		}
	}
	for _, id := range reg.RingBeamIDs() {
		rb, _ := reg.RingBeam(id)
		for _, mid := range rb.Materials() {
			if _, ok := lib.Resolve(mid); !ok {
				return errors.New(errors.ErrCodeMaterialNotFound,
					"ring beam %q references unknown material %q", id, mid)
			}
		}
	}

	if err := f.validatePerimeter(reg); err != nil {
		return err
	}
	return f.validateRoof()
}

// validatePerimeter checks the [perimeter] section's configuration.
func (f *File) validatePerimeter(reg *assembly.Registry) error {
	p := f.Perimeter
	if len(p.Corners) < 3 {
		return errors.New(errors.ErrCodeInvalidPerimeter,
			"perimeter needs at least 3 corners, got %d", len(p.Corners))
	}
	if len(p.Walls) != len(p.Corners) {
		return errors.New(errors.ErrCodeInvalidPerimeter,
			"perimeter has %d corners but %d walls", len(p.Corners), len(p.Walls))
	}
	for i, c := range p.Corners {
		switch c.Owner {
		case "", "prev", "next":
		default:
			return errors.New(errors.ErrCodeInvalidConfig,
				"corner %d has unknown owner %q (want prev or next)", i, c.Owner)
		}
	}
	for i, w := range p.Walls {
		if err := errors.ValidatePositive("wall thickness", w.Thickness); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "wall %d", i)
		}
		if w.Assembly == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "wall %d has no assembly", i)
		}
		if _, err := reg.Assembly(assembly.ID(w.Assembly)); err != nil {
			return errors.New(errors.ErrCodeAssemblyNotFound,
				"wall %d references unknown assembly %q", i, w.Assembly)
		}
		for j, o := range w.Openings {
			if err := validateOpening(o); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "wall %d opening %d", i, j)
			}
		}
	}
	return nil
}

func validateOpening(o Opening) error {
	switch o.Kind {
	case "door", "window", "passage":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown kind %q", o.Kind)
	}
	if err := errors.ValidateNonNegative("offset", o.Offset); err != nil {
		return err
	}
	if err := errors.ValidatePositive("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("height", o.Height); err != nil {
		return err
	}
	return errors.ValidateNonNegative("sill height", o.SillHeight)
}

// validateRoof checks the [roof] section.
func (f *File) validateRoof() error {
	r := f.Roof
	if err := errors.ValidateNonNegative("roof overhang", r.Overhang); err != nil {
		return err
	}
	if r.Slope != 0 && (r.Slope <= 0 || r.Slope >= 90) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"roof slope must be between 0 and 90 degrees, got %.1f", r.Slope)
	}

	seen := make(map[int]bool, len(r.Lines))
	for i, line := range r.Lines {
		if line.Wall < 0 || line.Wall >= len(f.Perimeter.Walls) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"roof line %d: wall %d out of range", i, line.Wall)
		}
		if seen[line.Wall] {
			return errors.New(errors.ErrCodeInvalidConfig,
				"roof line %d: duplicate line for wall %d", i, line.Wall)
		}
		seen[line.Wall] = true

		switch line.Shape {
		case RoofLineGable, RoofLineShed:
			if r.Slope <= 0 {
				return errors.New(errors.ErrCodeInvalidConfig,
					"roof line %d: shape %q needs a [roof] slope", i, line.Shape)
			}
			if len(line.Points) > 0 {
				return errors.New(errors.ErrCodeInvalidConfig,
					"roof line %d: shape %q does not take points", i, line.Shape)
			}
		case RoofLineCustom, "":
			hl := construct.HeightLine{Points: line.Points}
			if err := hl.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "roof line %d", i)
			}
		default:
			return errors.New(errors.ErrCodeInvalidConfig,
				"roof line %d: unknown shape %q", i, line.Shape)
		}
	}
	return nil
}
