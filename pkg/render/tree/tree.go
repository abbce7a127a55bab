// Package tree renders the construction model's group hierarchy as a
// node-link diagram: groups as grey boxes, elements as boxes filled with
// their material color, edges following containment.
//
// Convert a model to DOT format, then render to SVG:
//
//	dot := tree.ToDOT(m, tree.Options{Materials: library.Resolver()})
//	svg, err := tree.RenderSVG(dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools or customized before rendering.
package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/material"
	"github.com/baleframe/baleframe/pkg/model"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed includes positions and shape kinds in element labels.
	// When false, only the element type and material are shown.
	Detailed bool

	// Materials fills element nodes with their material color. Elements
	// whose material is unknown or colorless stay white.
	Materials material.Resolver
}

// ToDOT converts a model tree to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG] or external Graphviz tools.
func ToDOT(m *model.Model, opts Options) string {
	var nodes, edges bytes.Buffer
	writeGroup(&nodes, &edges, m.Root, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph model {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func writeGroup(nodes, edges *bytes.Buffer, g model.Group, opts Options) {
	fmt.Fprintf(nodes, "  %q [label=%q, fillcolor=lightgrey];\n", g.ID, groupLabel(g))

	for _, e := range g.Elements {
		attrs := []string{fmt.Sprintf("label=%q", elementLabel(e, opts.Detailed))}
		if opts.Materials != nil {
			if mat, ok := opts.Materials(e.Material); ok && mat.Color != "" {
				attrs = append(attrs, fmt.Sprintf("fillcolor=%q", mat.Color))
			}
		}
		fmt.Fprintf(nodes, "  %q [%s];\n", e.ID, strings.Join(attrs, ", "))
		fmt.Fprintf(edges, "  %q -> %q;\n", g.ID, e.ID)
	}

	for _, sub := range g.Groups {
		fmt.Fprintf(edges, "  %q -> %q;\n", g.ID, sub.ID)
		writeGroup(nodes, edges, sub, opts)
	}
}

func groupLabel(g model.Group) string {
	name := g.Name
	if name == "" {
		name = "group"
	}
	n := len(g.Elements)
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s\n%d elements", name, n)
}

func elementLabel(e model.Element, detailed bool) string {
	label := string(e.Type)
	if e.Material != "" {
		label += "\n" + string(e.Material)
	}
	if !detailed {
		return label
	}
	parts := []string{
		fmt.Sprintf("pos: (%.0f, %.0f, %.0f)", e.Position.X, e.Position.Y, e.Position.Z),
		fmt.Sprintf("shape: %s", e.Shape.Kind),
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg tag so the viewBox starts
// at the origin and the document carries explicit pixel dimensions.
// Embedding contexts rely on both.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
