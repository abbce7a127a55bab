package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/pkg/render/tree"
)

// treeFormats is the set of formats the tree command accepts.
var treeFormats = map[string]bool{formatDOT: true, formatSVG: true}

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	output   string
	formats  []string
	detailed bool
	refresh  bool
	noCache  bool
}

// treeCommand creates the tree command for rendering the model hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var formatsStr string
	opts := treeOpts{}

	cmd := &cobra.Command{
		Use:   "tree [project.toml]",
		Short: "Render the model's group hierarchy as a diagram",
		Long: `Render the model's group hierarchy as a diagram.

The tree view shows the group structure the synthesizer produced: one
box per group and element, with elements colored by their material.
This is mainly a debugging aid for checking how walls were assembled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, formatSVG)
			if err := validateFormats(opts.formats, treeFormats, "'dot' or 'svg'"); err != nil {
				return err
			}
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show element positions and shapes")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the model cache and overwrite it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runTree synthesizes the model and writes its hierarchy diagram.
func (c *CLI) runTree(ctx context.Context, input string, opts treeOpts) error {
	res, err := c.buildModel(ctx, input, opts.refresh, opts.noCache)
	if err != nil {
		return err
	}

	dot := tree.ToDOT(res.model, tree.Options{
		Detailed:  opts.detailed,
		Materials: res.input.Materials,
	})

	base := basePath(opts.output, input)
	single := len(opts.formats) == 1

	var paths []string
	for _, format := range opts.formats {
		var data []byte
		switch format {
		case formatDOT:
			data = []byte(dot)
		case formatSVG:
			data, err = tree.RenderSVG(dot)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format: %s", format)
		}

		path := artifactPath(opts.output, base, "tree", format, single)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Hierarchy rendered")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
