// Package material defines the physical materials referenced by wall
// assemblies and construction elements.
//
// Materials are identified by short string ids ("straw", "clt", "lime").
// Synthesis never embeds material properties into elements; elements carry
// the id and consumers resolve it through a [Resolver] when they need
// density, color, or stock sizes.
package material

import (
	"sort"

	"github.com/baleframe/baleframe/pkg/errors"
)

// ID identifies a material. Ids are lowercase slugs, validated by
// [errors.ValidateMaterialID].
type ID string

// StockSize describes one size a material is available in, in mm.
// A zero dimension means the material is cut to size on that axis
// (plaster, poured fills, membranes).
type StockSize struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Material is a physical material with the properties the part list and
// renderers need.
type Material struct {
	ID      ID          `json:"id"`
	Name    string      `json:"name"`
	Color   string      `json:"color,omitempty"`   // hex, e.g. "#d4b483"
	Density float64     `json:"density,omitempty"` // kg/m³
	Stock   []StockSize `json:"stock,omitempty"`
}

// Validate checks the material record for internal consistency.
func (m Material) Validate() error {
	if err := errors.ValidateMaterialID(string(m.ID)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("density", m.Density); err != nil {
		return err
	}
	for _, s := range m.Stock {
		if err := errors.ValidateNonNegative("stock length", s.Length); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative("stock width", s.Width); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative("stock height", s.Height); err != nil {
			return err
		}
	}
	return nil
}

// Resolver maps a material id to its record. The second return value
// reports whether the id is known.
type Resolver func(ID) (Material, bool)

// Library is a map-backed material catalog. The zero value is unusable;
// use [NewLibrary].
type Library struct {
	byID map[ID]Material
}

// NewLibrary builds a library from the given materials. Duplicate ids are
// rejected so a project cannot silently shadow a material.
func NewLibrary(materials ...Material) (*Library, error) {
	lib := &Library{byID: make(map[ID]Material, len(materials))}
	for _, m := range materials {
		if err := lib.Add(m); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Add validates m and inserts it into the library.
func (l *Library) Add(m Material) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := l.byID[m.ID]; exists {
		return errors.New(errors.ErrCodeInvalidConfig, "duplicate material id %q", m.ID)
	}
	l.byID[m.ID] = m
	return nil
}

// Resolve looks up a material by id.
func (l *Library) Resolve(id ID) (Material, bool) {
	m, ok := l.byID[id]
	return m, ok
}

// Resolver returns the library's lookup as a [Resolver].
func (l *Library) Resolver() Resolver { return l.Resolve }

// Len returns the number of materials in the library.
func (l *Library) Len() int { return len(l.byID) }

// All returns the materials sorted by id for stable iteration.
func (l *Library) All() []Material {
	out := make([]Material, 0, len(l.byID))
	for _, m := range l.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
