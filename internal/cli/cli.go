// Package cli implements the baleframe command-line interface.
//
// This package provides commands for synthesizing construction models
// from project files, inspecting their part lists and issues, drawing
// plans and elevations, and running the HTTP API. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - build: Synthesize a project into a construction model
//   - parts: Aggregate the model into an ordering part list
//   - issues: List or browse construction issues
//   - plan: Draw the floor plan or a wall elevation
//   - tree: Render the model hierarchy as a diagram
//   - serve: Run the HTTP API server
//   - cache: Manage the synthesized model cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/pkg/buildinfo"
	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/construct"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "baleframe"
)

// Output formats shared across commands.
const (
	formatJSON = "json"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatDOT  = "dot"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "baleframe",
		Short:         "Baleframe synthesizes straw bale building models",
		Long:          `Baleframe turns a drawn building perimeter into a complete construction model: posts, straw bales, finish layers, ring beams, and framed openings, with part lists and drawings derived from the model.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.partsCommand())
	root.AddCommand(c.issuesCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Builder Factory
// =============================================================================

// newBuilder creates a synthesis builder for CLI use.
func (c *CLI) newBuilder(noCache bool) (*construct.Builder, error) {
	mc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return construct.NewBuilder(mc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/baleframe/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/baleframe/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// outputExts is the set of artifact extensions basePath recognizes and
// strips from an explicit output path.
var outputExts = map[string]bool{
	formatJSON: true,
	formatSVG:  true,
	formatPNG:  true,
	formatDOT:  true,
	"csv":      true,
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has an artifact extension (.svg, .json, etc.), it strips that
// extension. This is used when generating multiple files
// (e.g., house.model.json, house.plan.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if outputExts[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath builds the output path for one artifact. When the user gave
// a full filename for a single requested format, it is used verbatim;
// otherwise the artifact suffix and format extension are appended to base.
func artifactPath(output, base, suffix, format string, single bool) string {
	if single && output != "" && strings.EqualFold(filepath.Ext(output), "."+format) {
		return output
	}
	if suffix != "" {
		return base + "." + suffix + "." + format
	}
	return base + "." + format
}

// parseFormats parses a comma-separated format string into a slice,
// falling back to def when empty.
func parseFormats(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are in the valid set.
// The usage string names the accepted values in the error message.
func validateFormats(formats []string, valid map[string]bool, usage string) error {
	for _, f := range formats {
		if !valid[f] {
			return fmt.Errorf("invalid format: %s (must be %s)", f, usage)
		}
	}
	return nil
}
