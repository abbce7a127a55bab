package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/pkg/construct"
	"github.com/baleframe/baleframe/pkg/geometry"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/project"
	"github.com/baleframe/baleframe/pkg/render/plan"
)

// ErrIssues reports that synthesis finished but the model carries
// construction errors. main maps it to exit code 2 so scripts can tell
// "model has problems" apart from "command failed".
var ErrIssues = errors.New("model has construction errors")

// Plan drawing defaults, shared with the plan command.
const (
	defaultCutHeight = 1000 // plan slice height above floor level (mm)
	defaultScale     = 0.1  // drawing scale (pixels per mm)
)

// buildFormats is the set of formats the build command accepts.
var buildFormats = map[string]bool{formatJSON: true, formatSVG: true, formatPNG: true}

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output  string   // output file (single format) or base path
	formats []string // output formats: "json", "svg", "png"
	refresh bool     // bypass the model cache and overwrite it
	noCache bool     // disable caching entirely
	cut     float64  // plan cut height in mm
	scale   float64  // drawing scale in px/mm
}

// buildCommand creates the build command for synthesizing models.
func (c *CLI) buildCommand() *cobra.Command {
	var formatsStr string
	opts := buildOpts{cut: defaultCutHeight, scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "build [project.toml]",
		Short: "Synthesize a project into a construction model",
		Long: `Synthesize a project into a construction model.

The build command reads a project file, resolves its perimeter, and
synthesizes every wall: posts, straw bales, finish layers, ring beams,
and framed openings. The model is written as JSON by default; svg and
png formats add a floor plan drawing.

Synthesized models are cached locally for faster subsequent runs.

Exit code 2 means the model was built but carries construction errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, formatJSON)
			if err := validateFormats(opts.formats, buildFormats, "'json', 'svg', or 'png'"); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the model cache and overwrite it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.cut, "cut", opts.cut, "plan cut height above floor level in mm")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "drawing scale in pixels per mm")

	return cmd
}

// runBuild synthesizes the project and writes the requested artifacts.
func (c *CLI) runBuild(ctx context.Context, input string, opts buildOpts) error {
	f, err := project.Load(input)
	if err != nil {
		return err
	}
	in, hash, err := f.ToInput()
	if err != nil {
		return err
	}

	b, err := c.newBuilder(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize builder: %w", err)
	}
	defer b.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Synthesizing %s...", f.Project.Name))
	spinner.Start()

	res, err := b.Execute(ctx, construct.Options{Input: in, Hash: hash, Refresh: opts.refresh})
	if err != nil {
		spinner.StopWithError("Synthesis failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	loaded := &buildResult{file: f, input: in, model: res.Model}
	base := basePath(opts.output, input)
	single := len(opts.formats) == 1

	var paths []string
	for _, format := range opts.formats {
		path, err := c.writeBuildArtifact(loaded, format, base, opts, single)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Synthesis complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.ElementCount, res.Stats.ErrorCount, res.Stats.WarningCount, res.CacheInfo.ModelHit)
	reportIssues(res.Model)
	if len(res.Model.Errors) > 0 {
		return ErrIssues
	}

	printNewline()
	printNextStep("Part list", appName+" parts "+input)
	return nil
}

// writeBuildArtifact renders and writes one build output format.
func (c *CLI) writeBuildArtifact(res *buildResult, format, base string, opts buildOpts, single bool) (string, error) {
	switch format {
	case formatJSON:
		path := artifactPath(opts.output, base, "model", formatJSON, single)
		if err := project.ExportModel(res.model, path); err != nil {
			return "", err
		}
		return path, nil
	case formatSVG:
		path := artifactPath(opts.output, base, "plan", formatSVG, single)
		data := plan.PlanSVG(res.model, planOptions(res, opts.cut, opts.scale, true)...)
		return path, os.WriteFile(path, data, 0o644)
	case formatPNG:
		path := artifactPath(opts.output, base, "plan", formatPNG, single)
		data, err := plan.PlanPNG(res.model, planOptions(res, opts.cut, opts.scale, true)...)
		if err != nil {
			return "", err
		}
		return path, os.WriteFile(path, data, 0o644)
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

// reportIssues prints the model's errors and warnings.
func reportIssues(m *model.Model) {
	for _, iss := range m.Errors {
		printError("%s", iss.Message)
	}
	for _, iss := range m.Warnings {
		printWarning("%s", iss.Message)
	}
}

// =============================================================================
// Shared Model Building
// =============================================================================

// buildResult carries a synthesized model together with the project it
// came from, for commands that need the registries or the geometry.
type buildResult struct {
	file  *project.File
	input construct.PerimeterInput
	model *model.Model
}

// buildModel loads the project at path and synthesizes its model, showing
// a spinner while the builder runs. Repeat runs hit the model cache
// unless refresh or noCache is set.
func (c *CLI) buildModel(ctx context.Context, path string, refresh, noCache bool) (*buildResult, error) {
	f, err := project.Load(path)
	if err != nil {
		return nil, err
	}
	in, hash, err := f.ToInput()
	if err != nil {
		return nil, err
	}

	b, err := c.newBuilder(noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize builder: %w", err)
	}
	defer b.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Synthesizing %s...", f.Project.Name))
	spinner.Start()

	m, err := b.Build(ctx, construct.Options{Input: in, Hash: hash, Refresh: refresh})
	if err != nil {
		spinner.StopWithError("Synthesis failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return &buildResult{file: f, input: in, model: m}, nil
}

// planOptions assembles plan renderer options from the loaded project.
func planOptions(res *buildResult, cut, scale float64, dims bool) []plan.Option {
	opts := []plan.Option{
		plan.WithCutHeight(cut),
		plan.WithScale(scale),
		plan.WithMaterials(res.input.Materials),
	}
	if ring := roofOutline(res); len(ring) >= 3 {
		opts = append(opts, plan.WithRoofOutline(ring))
	}
	if !dims {
		opts = append(opts, plan.WithoutDimensions())
	}
	return opts
}

// roofOutline returns the roof edge ring in plan: the outside face ring
// grown by the overhang. Nil when the project has no roof.
func roofOutline(res *buildResult) geometry.Polygon {
	if len(res.file.Roof.Lines) == 0 {
		return nil
	}
	p := res.input.Perimeter
	ring := make(geometry.Polygon, len(p.Corners))
	for i := range p.Corners {
		ring[i] = p.Corners[i].Outside
	}
	return ring.Offset(res.file.Roof.Overhang)
}
