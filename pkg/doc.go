// Package pkg provides the core libraries for Baleframe construction synthesis.
//
// # Overview
//
// Baleframe turns a perimeter description of a straw bale building into a
// buildable construction model: every post, bale, finish layer, ring beam,
// and opening frame with exact positions and dimensions. The pkg directory
// is organized into four main areas:
//
//  1. Domain input ([perimeter], [assembly], [material], [project])
//  2. Synthesis ([construct], [geometry], [solid], [model])
//  3. Derived outputs ([partlist], [render/plan], [render/tree])
//  4. Infrastructure ([cache], [store], [errors], [observability])
//
// # Architecture
//
// The typical data flow through Baleframe:
//
//	Project file (TOML)
//	         ↓
//	    [perimeter] package (resolve corners, wall baselines)
//	         ↓
//	    [construct] package (segment walls, fill with posts and bales)
//	         ↓
//	    [model] package (element tree + issues)
//	         ↓
//	    Part lists, plan drawings, hierarchy diagrams
//
// # Quick Start
//
// Load a project and synthesize its model:
//
//	import (
//	    "context"
//	    "github.com/baleframe/baleframe/pkg/construct"
//	    "github.com/baleframe/baleframe/pkg/partlist"
//	    "github.com/baleframe/baleframe/pkg/project"
//	)
//
//	// 1. Load the project file
//	f, _ := project.Load("house.toml")
//	input, hash, _ := f.ToInput()
//
//	// 2. Synthesize the model
//	b, _ := construct.NewBuilder(nil, nil, nil)
//	m, _ := b.Build(context.Background(), construct.Options{Input: input, Hash: hash})
//
//	// 3. Derive the part list
//	report := partlist.Aggregate(m, f.Library().Resolver())
//
// # Main Packages
//
// ## Domain Input
//
// [perimeter] - Perimeter resolution. Takes corner points and per-wall
// thicknesses and computes inside/outside face rings, wall baselines, and
// corner ownership so adjacent walls meet without gaps.
//
// [assembly] - Wall assembly definitions: infill rules (post dimensions,
// bale sizes, spacing bounds), finish layer stacks, and opening framing
// parameters, with a registry for lookup by id.
//
// [material] - Material definitions (density, stock sizes) and the
// Resolver interface consumed by part listing and rendering.
//
// [project] - The TOML project file: parsing, validation, conversion to
// synthesis input, and model import/export as JSON.
//
// ## Synthesis
//
// [construct] - The synthesis pipeline. Segments each wall around its
// openings, lays out posts and straw bales within spacing bounds, stacks
// finish layers, frames openings with headers and sills, and runs ring
// beams around the perimeter. Problems become model issues, not failures.
//
// [geometry] - 2D/3D primitives: vectors, polygons with offset and
// orientation, boxes, and affine transforms. All dimensions in mm.
//
// [solid] - Shape kernel behind element geometry: boxes, prisms, and
// sloped pieces, with a keyed cache so identical shapes are computed once.
//
// [model] - The output tree: groups of elements with transforms, bounds,
// measurements, highlight areas, and error/warning issues.
//
// ## Derived Outputs
//
// [partlist] - Aggregates model elements into purchasable lines (count,
// length, area, volume, weight per material and type), CSV export, and
// stock checking against material stock sizes.
//
// [render/plan] - Plan and elevation drawings. Slices the model at a cut
// height and emits dimensioned SVG or PNG with per-material colors.
//
// [render/tree] - Model hierarchy diagrams as Graphviz DOT and SVG.
//
// ## Infrastructure
//
// [cache] - Byte caches for synthesis results: memory, sharded file
// directory, Redis, or none. Keys come from a Keyer so every consumer
// agrees on what goes into a key.
//
// [store] - Project persistence for the API: memory, file directory,
// SQLite, or MongoDB backends behind one CRUD interface.
//
// [errors] - Structured errors with hierarchical codes, user messages,
// and helpers the API maps to HTTP statuses.
//
// [observability] - Hook points the builder calls around synthesis
// stages, for timing and logging without coupling to a metrics stack.
//
// # Common Workflows
//
// Draw a plan at a custom cut height:
//
//	svg := plan.PlanSVG(m, plan.WithCutHeight(1500), plan.WithScale(0.2))
//
// Check the part list against stock sizes:
//
//	report := partlist.Aggregate(m, resolver)
//	for _, issue := range partlist.CheckStock(m, resolver) {
//	    fmt.Println(issue.Message)
//	}
//
// Cache synthesized models between runs:
//
//	c, _ := cache.NewFileCache(dir)
//	b, _ := construct.NewBuilder(c, nil, logger)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/construct/...      # Specific package
//	go test -run Example             # Examples only
//
// [perimeter]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/perimeter
// [assembly]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/assembly
// [material]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/material
// [project]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/project
// [construct]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/construct
// [geometry]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/geometry
// [solid]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/solid
// [model]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/model
// [partlist]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/partlist
// [render/plan]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/render/plan
// [render/tree]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/render/tree
// [cache]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/cache
// [store]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/store
// [errors]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/errors
// [observability]: https://pkg.go.dev/github.com/baleframe/baleframe/pkg/observability
package pkg
