package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/pkg/render/plan"
)

// planFormats is the set of formats the plan command accepts.
var planFormats = map[string]bool{formatSVG: true, formatPNG: true}

// planCmdOpts holds the command-line flags for the plan command.
type planCmdOpts struct {
	output    string
	formats   []string
	refresh   bool
	noCache   bool
	cut       float64
	scale     float64
	elevation int // wall index for an elevation view, -1 for the plan
	noDims    bool
}

// planCommand creates the plan command for drawing the model.
func (c *CLI) planCommand() *cobra.Command {
	var formatsStr string
	opts := planCmdOpts{cut: defaultCutHeight, scale: defaultScale, elevation: -1}

	cmd := &cobra.Command{
		Use:   "plan [project.toml]",
		Short: "Draw the floor plan or a wall elevation",
		Long: `Draw the floor plan or a wall elevation.

The plan view slices the model horizontally at the cut height and shows
posts, bales, and finish layers with per-material colors, openings as
dashed highlights, and the drawn dimensions. --elevation draws one wall
face-on instead, with its structure and opening framing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, formatSVG)
			if err := validateFormats(opts.formats, planFormats, "'svg' or 'png'"); err != nil {
				return err
			}
			if opts.elevation >= 0 && (len(opts.formats) != 1 || opts.formats[0] != formatSVG) {
				return fmt.Errorf("elevation views support only the svg format")
			}
			return c.runPlan(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().Float64Var(&opts.cut, "cut", opts.cut, "plan cut height above floor level in mm")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "drawing scale in pixels per mm")
	cmd.Flags().IntVar(&opts.elevation, "elevation", opts.elevation, "draw the elevation of this wall instead of the plan")
	cmd.Flags().BoolVar(&opts.noDims, "no-dimensions", false, "hide dimension lines")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the model cache and overwrite it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runPlan synthesizes the model and writes the requested drawings.
func (c *CLI) runPlan(ctx context.Context, input string, opts planCmdOpts) error {
	res, err := c.buildModel(ctx, input, opts.refresh, opts.noCache)
	if err != nil {
		return err
	}

	popts := planOptions(res, opts.cut, opts.scale, !opts.noDims)
	base := basePath(opts.output, input)
	single := len(opts.formats) == 1

	var paths []string
	for _, format := range opts.formats {
		var (
			data []byte
			path string
		)
		switch {
		case opts.elevation >= 0:
			data, err = plan.ElevationSVG(res.model, opts.elevation, popts...)
			path = artifactPath(opts.output, base, fmt.Sprintf("wall%d", opts.elevation), formatSVG, single)
		case format == formatPNG:
			data, err = plan.PlanPNG(res.model, popts...)
			path = artifactPath(opts.output, base, "plan", formatPNG, single)
		default:
			data = plan.PlanSVG(res.model, popts...)
			path = artifactPath(opts.output, base, "plan", formatSVG, single)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Drawing complete")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
