// Package render holds the drawing backends for construction models.
//
// # Overview
//
// The subpackages turn a synthesized model into reviewable artifacts:
//
//   - Plan and elevation drawings (in [plan] subpackage)
//   - Hierarchy diagrams (in [tree] subpackage)
//
// # Plan Drawings
//
// The [plan] subpackage slices the model horizontally at a cut height
// and draws every intersected element with per-material hatching, plus
// dimension lines and opening highlights. Elevations project one wall
// face-on instead.
//
//	svg := plan.PlanSVG(m, plan.WithCutHeight(1000))
//	png, err := plan.PlanPNG(m, plan.WithScale(0.2))
//	elev, err := plan.ElevationSVG(m, 0)
//
// # Hierarchy Diagrams
//
// The [tree] subpackage renders the model's group tree as a directed
// graph via Graphviz: walls, segments, and elements as nested boxes
// connected by containment edges.
//
//	dot := tree.ToDOT(m, tree.Options{Detailed: true})
//	svg, err := tree.RenderSVG(dot)
//
// [plan]: github.com/baleframe/baleframe/pkg/render/plan
// [tree]: github.com/baleframe/baleframe/pkg/render/tree
package render
