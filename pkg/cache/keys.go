package cache

import (
	"sort"
	"strings"
)

// ModelKeyOpts carries the inputs beyond the project content that change
// a synthesized model.
type ModelKeyOpts struct {
	// Version is the synthesis code version; bumping it invalidates
	// models cached by earlier releases.
	Version string `json:"version"`
}

// Keyer generates cache keys for the payload kinds the engine caches.
// Implementations must be deterministic: equal inputs, equal keys.
type Keyer interface {
	// ModelKey generates a key for a whole synthesized model, keyed by
	// the canonical hash of the project input.
	ModelKey(projectHash string, opts ModelKeyOpts) string

	// ShapeKey generates a key for a solid-kernel shape from its build
	// parameters. Parameter order must not matter.
	ShapeKey(params map[string]string) string
}

// DefaultKeyer is the standard key scheme: a short payload prefix plus a
// SHA-256 over the canonicalized inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ModelKey generates a key for a whole synthesized model.
func (k *DefaultKeyer) ModelKey(projectHash string, opts ModelKeyOpts) string {
	return hashKey("model", projectHash, opts)
}

// ShapeKey generates an order-independent key for shape parameters.
func (k *DefaultKeyer) ShapeKey(params map[string]string) string {
	return hashKey("shape", CanonicalParams(params))
}

// CanonicalParams flattens a parameter map into a deterministic
// "k=v;k=v" string with sorted keys, so map iteration order never leaks
// into keys.
func CanonicalParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
