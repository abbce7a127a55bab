// Package construct synthesizes construction models from building
// perimeters: the core of the envelope engine.
//
// # Architecture
//
// A run consists of three stages:
//
//  1. Resolve: compute the perimeter's derived geometry (corner points,
//     wall lines, run extensions, corner ownership).
//  2. Synthesize: build every wall and ring beam in its local frame and
//     place it into the plan.
//  3. Aggregate: merge the placed models into one and warm the shared
//     shape cache.
//
// Walls build independently. A wall that cannot be built becomes a model
// error, so one bad assembly reference never hides the rest of the
// building; only structurally invalid input fails a run.
//
// # Usage
//
// Create a Builder and execute a run:
//
//	builder := construct.NewBuilder(cache, nil, logger)
//	result, err := builder.Execute(ctx, construct.Options{
//	    Input: construct.PerimeterInput{
//	        Perimeter:  p,
//	        Assemblies: registry,
//	        Materials:  library.Resolver(),
//	    },
//	    Hash: projectHash,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m := result.Model
//
// One-shot synthesis without caching or stats is available through
// [BuildPerimeter].
package construct

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/solid"
)

// Options contains all configuration for one Builder run.
type Options struct {
	// Input is the perimeter, registries, and beam selection to build.
	Input PerimeterInput

	// Hash is the canonical hash of the project the input came from.
	// When set, the synthesized model is cached under it; empty disables
	// model caching.
	Hash string

	// Refresh bypasses the model cache and overwrites it.
	Refresh bool

	// Logger overrides the builder's logger for this run.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Input.validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a Builder run.
type Result struct {
	// Model is the synthesized construction model.
	Model *model.Model

	// Hash is the project hash the run was keyed by, if any.
	Hash string

	// Stats contains counts and timing information.
	Stats Stats

	// CacheInfo tracks cache effectiveness for the run.
	CacheInfo CacheInfo
}

// Stats contains synthesis statistics. The API returns it verbatim, so
// fields carry wire names.
type Stats struct {
	CornerCount  int `json:"corner_count"`
	WallCount    int `json:"wall_count"`
	OpeningCount int `json:"opening_count"`
	ElementCount int `json:"element_count"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`

	ResolveTime    time.Duration `json:"resolve_ns"`
	SynthesizeTime time.Duration `json:"synthesize_ns"`
	AggregateTime  time.Duration `json:"aggregate_ns"`
}

// CacheInfo tracks cache effectiveness for a run.
type CacheInfo struct {
	ModelHit bool        // Whether the whole model came from cache
	Shapes   solid.Stats // Shape cache counters after the run
}

// countModel fills the model-derived stats.
func countModel(s *Stats, m *model.Model) {
	s.ElementCount = m.CountElements()
	s.ErrorCount = len(m.Errors)
	s.WarningCount = len(m.Warnings)
}
