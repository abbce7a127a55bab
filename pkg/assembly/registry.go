package assembly

import (
	"sort"

	"github.com/baleframe/baleframe/pkg/errors"
)

// Registry resolves assembly and ring-beam ids for synthesis. Configs are
// validated on insert so geometry code can trust what it receives.
type Registry struct {
	assemblies map[ID]*Config
	ringBeams  map[ID]*RingBeam
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		assemblies: make(map[ID]*Config),
		ringBeams:  make(map[ID]*RingBeam),
	}
}

// AddAssembly validates and registers an assembly config.
func (r *Registry) AddAssembly(c Config) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "assembly %q", c.ID)
	}
	if _, exists := r.assemblies[c.ID]; exists {
		return errors.New(errors.ErrCodeInvalidConfig, "duplicate assembly id %q", c.ID)
	}
	r.assemblies[c.ID] = &c
	return nil
}

// AddRingBeam validates and registers a ring beam config.
func (r *Registry) AddRingBeam(b RingBeam) error {
	if err := b.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ring beam %q", b.ID)
	}
	if _, exists := r.ringBeams[b.ID]; exists {
		return errors.New(errors.ErrCodeInvalidConfig, "duplicate ring beam id %q", b.ID)
	}
	r.ringBeams[b.ID] = &b
	return nil
}

// Assembly resolves an assembly id.
func (r *Registry) Assembly(id ID) (*Config, error) {
	c, ok := r.assemblies[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeAssemblyNotFound, "assembly %q not found", id)
	}
	return c, nil
}

// RingBeam resolves a ring beam id.
func (r *Registry) RingBeam(id ID) (*RingBeam, error) {
	b, ok := r.ringBeams[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeRingBeamNotFound, "ring beam %q not found", id)
	}
	return b, nil
}

// AssemblyIDs returns the registered assembly ids, sorted.
func (r *Registry) AssemblyIDs() []ID {
	out := make([]ID, 0, len(r.assemblies))
	for id := range r.assemblies {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RingBeamIDs returns the registered ring beam ids, sorted.
func (r *Registry) RingBeamIDs() []ID {
	out := make([]ID, 0, len(r.ringBeams))
	for id := range r.ringBeams {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
