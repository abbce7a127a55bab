package construct

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/baleframe/baleframe/pkg/buildinfo"
	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/observability"
	"github.com/baleframe/baleframe/pkg/perimeter"
	"github.com/baleframe/baleframe/pkg/solid"
)

// Builder encapsulates synthesis with model and shape caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Builder is stateless except for its caches and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Builder
// with different options.
type Builder struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Kernel solid.Kernel
	Shapes *solid.Cache
	Logger *log.Logger
}

// NewBuilder creates a builder with the given model cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (model caching disabled).
func NewBuilder(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Builder {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		Cache:  c,
		Keyer:  keyer,
		Kernel: solid.NewBuiltin(),
		Shapes: solid.NewCache(keyer),
		Logger: logger,
	}
}

// Execute runs the complete resolve → synthesize → aggregate pipeline
// with model caching.
func (b *Builder) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	b.applyLogger(&opts)

	in := opts.Input
	p := in.Perimeter
	result := &Result{Hash: opts.Hash}

	// Try the model cache first (unless refresh requested).
	var cacheKey string
	if opts.Hash != "" {
		cacheKey = b.Keyer.ModelKey(opts.Hash, cache.ModelKeyOpts{Version: buildinfo.Version})
	}
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := b.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m model.Model
			if err := json.Unmarshal(data, &m); err == nil {
				observability.Cache().OnCacheHit(ctx, "model")
				result.Model = &m
				result.CacheInfo.ModelHit = true
				result.CacheInfo.Shapes = b.Shapes.Stats()
				result.Stats.CornerCount = len(p.Corners)
				result.Stats.WallCount = len(p.Walls)
				for i := range p.Walls {
					result.Stats.OpeningCount += len(p.Walls[i].Openings)
				}
				countModel(&result.Stats, &m)
				opts.Logger.Info("loaded model from cache",
					"elements", result.Stats.ElementCount,
					"issues", result.Stats.ErrorCount+result.Stats.WarningCount)
				return result, nil
			}
			// An undecodable entry falls through to a fresh build.
		}
		observability.Cache().OnCacheMiss(ctx, "model")
	}

	hooks := observability.Synthesis()

	// Stage 1: Resolve
	resolveStart := time.Now()
	hooks.OnResolveStart(ctx, len(p.Corners), len(p.Walls))
	err := perimeter.Resolve(p, in.Resolve)
	result.Stats.ResolveTime = time.Since(resolveStart)
	hooks.OnResolveComplete(ctx, result.Stats.ResolveTime, err)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Stats.CornerCount = p.Len()
	result.Stats.WallCount = len(p.Walls)
	for i := range p.Walls {
		result.Stats.OpeningCount += len(p.Walls[i].Openings)
	}

	opts.Logger.Info("resolved perimeter",
		"corners", result.Stats.CornerCount,
		"walls", result.Stats.WallCount,
		"duration", result.Stats.ResolveTime)

	// Stage 2: Synthesize
	synthStart := time.Now()
	hooks.OnSynthesizeStart(ctx, len(p.Walls))
	models, err := synthesize(ctx, in, b.Kernel, b.Shapes)
	result.Stats.SynthesizeTime = time.Since(synthStart)
	if err != nil {
		hooks.OnSynthesizeComplete(ctx, 0, 0, result.Stats.SynthesizeTime, err)
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	var elements, issues int
	for _, wm := range models {
		elements += wm.CountElements()
		issues += len(wm.Errors) + len(wm.Warnings)
	}
	hooks.OnSynthesizeComplete(ctx, elements, issues, result.Stats.SynthesizeTime, nil)

	opts.Logger.Info("synthesized perimeter",
		"elements", elements,
		"issues", issues,
		"duration", result.Stats.SynthesizeTime)

	// Stage 3: Aggregate
	aggStart := time.Now()
	hooks.OnAggregateStart(ctx)
	m := model.Merge(models...)
	b.warmShapes(ctx, m)
	result.Stats.AggregateTime = time.Since(aggStart)
	hooks.OnAggregateComplete(ctx, result.Stats.AggregateTime, nil)

	result.Model = m
	countModel(&result.Stats, m)
	result.CacheInfo.Shapes = b.Shapes.Stats()

	// Cache the result
	if cacheKey != "" {
		if data, err := json.Marshal(m); err == nil {
			if b.Cache.Set(ctx, cacheKey, data, cache.TTLModel) == nil {
				observability.Cache().OnCacheSet(ctx, "model", len(data))
			}
		}
	}

	opts.Logger.Info("aggregated model",
		"elements", result.Stats.ElementCount,
		"errors", result.Stats.ErrorCount,
		"warnings", result.Stats.WarningCount,
		"duration", result.Stats.AggregateTime)

	return result, nil
}

// Build is a convenience wrapper that calls Execute and returns just the
// model.
func (b *Builder) Build(ctx context.Context, opts Options) (*model.Model, error) {
	result, err := b.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	return result.Model, nil
}

// warmShapes resolves every element shape to a cached kernel solid.
// Repeated parts (posts, bales, standard beam pieces) land on one cache
// entry each; the hit counters quantify the dedup.
func (b *Builder) warmShapes(ctx context.Context, m *model.Model) {
	if b.Shapes == nil || b.Kernel == nil {
		return
	}
	m.Walk(func(e model.Element, _ geometry.Transform) {
		shape := e.Shape
		b.Shapes.GetOrBuild(ctx, shapeParams(shape), func() solid.Solid {
			return buildSolid(b.Kernel, shape)
		})
	})
}

// Close releases resources held by the builder (primarily the cache).
func (b *Builder) Close() error {
	if b.Cache != nil {
		return b.Cache.Close()
	}
	return nil
}

// applyLogger sets the builder's logger on options if not already set.
func (b *Builder) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = b.Logger
	}
}

// ===== Shape cache parameters =====

// shapeParams maps a shape to its cache parameter set. Synthesis code
// that builds solids eagerly uses the same scheme, so the aggregate
// warm-up lands on those entries instead of duplicating them.
func shapeParams(s model.Shape) map[string]string {
	switch s.Kind {
	case model.ShapeKindBox:
		return map[string]string{
			"kind": "box",
			"x":    fparam(s.Size.X),
			"y":    fparam(s.Size.Y),
			"z":    fparam(s.Size.Z),
		}
	case model.ShapeKindSlopedBox:
		return map[string]string{
			"kind": "sloped_box",
			"l":    fparam(s.Size.X),
			"w":    fparam(s.Size.Y),
			"h":    fparam(s.Size.Z),
			"rise": fparam(s.Rise),
		}
	case model.ShapeKindPrism:
		return map[string]string{
			"kind":  "prism",
			"plane": string(s.Plane),
			"depth": fparam(s.Depth),
			"path":  encodePath(s.Outline),
		}
	}
	return map[string]string{"kind": string(s.Kind)}
}

// encodePath flattens an outline into a canonical parameter value.
func encodePath(p geometry.Path) string {
	var b strings.Builder
	writeRing := func(ring geometry.Polygon) {
		for i, pt := range ring {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(fparam(pt.X))
			b.WriteByte(',')
			b.WriteString(fparam(pt.Y))
		}
	}
	writeRing(p.Outer)
	for _, hole := range p.Holes {
		b.WriteByte('|')
		writeRing(hole)
	}
	return b.String()
}

// buildSolid realizes a shape on the kernel.
func buildSolid(k solid.Kernel, s model.Shape) solid.Solid {
	switch s.Kind {
	case model.ShapeKindBox:
		return k.Cuboid(s.Size)
	case model.ShapeKindSlopedBox:
		return slopedSolid(k, s.Size.X, s.Size.Y, s.Size.Z, s.Rise)
	case model.ShapeKindPrism:
		return k.Extrude(s.Outline.Outer, s.Depth)
	}
	return k.Cuboid(geometry.Vec3{})
}

// slopedSolid realizes a vertically sheared box on a kernel without a
// shear op: an oversized slab intersected with the upright prism of the
// footprint. Bounds come out exact; volume is an upper estimate.
func slopedSolid(k solid.Kernel, length, width, h, rise float64) solid.Solid {
	if length <= geometry.Eps || absf(rise) <= geometry.Eps {
		return k.Cuboid(geometry.Vec3{X: length, Y: width, Z: h})
	}
	grow := absf(rise) * h / length
	expanded := []geometry.Vec2{
		{X: -grow, Y: 0}, {X: length + grow, Y: 0},
		{X: length + grow, Y: width}, {X: -grow, Y: width},
	}
	footprint := []geometry.Vec2{
		{X: 0, Y: 0}, {X: length, Y: 0}, {X: length, Y: width}, {X: 0, Y: width},
	}
	slab := k.Extrude(expanded, h+absf(rise))
	prism := k.Extrude(footprint, h+absf(rise))
	return k.Intersect(slab, prism)
}
