package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baleframe/baleframe/pkg/project"
)

// houseTOML is a complete 6x4m straw bale project with one window and a
// base ring beam.
const houseTOML = `
[project]
name = "test house"
storey_height = 2800.0

[[material]]
id = "timber"
name = "Timber"
density = 500.0

[[material]]
id = "straw"
name = "Straw bale"
density = 110.0

[[material]]
id = "clay"
name = "Clay plaster"
density = 1800.0

[[assembly]]
id = "bale"
name = "Straw bale wall"

  [assembly.infill]
  post_type = "full"
  post_width = 60.0
  post_depth = 200.0
  post_material = "timber"
  straw_material = "straw"
  bale_length = 800.0
  bale_height = 400.0
  min_straw_space = 300.0
  desired_spacing = 900.0
  max_spacing = 1200.0

  [[assembly.layer.inside]]
  thickness = 30.0
  material = "clay"

  [assembly.opening]
  header_thickness = 60.0
  header_material = "timber"
  sill_thickness = 60.0
  sill_material = "timber"

[[ringbeam]]
id = "base"
position = "base"
type = "full"
height = 120.0
width = 360.0
offset_from_edge = 0.0
material = "timber"

[perimeter]

  [[perimeter.corner]]
  x = 0.0
  y = 0.0

  [[perimeter.corner]]
  x = 0.0
  y = 4000.0

  [[perimeter.corner]]
  x = 6000.0
  y = 4000.0

  [[perimeter.corner]]
  x = 6000.0
  y = 0.0

  [[perimeter.wall]]
  thickness = 360.0
  assembly = "bale"

    [[perimeter.wall.opening]]
    kind = "window"
    offset = 1000.0
    width = 900.0
    height = 1200.0
    sill_height = 800.0

  [[perimeter.wall]]
  thickness = 360.0
  assembly = "bale"

  [[perimeter.wall]]
  thickness = 360.0
  assembly = "bale"

  [[perimeter.wall]]
  thickness = 360.0
  assembly = "bale"
`

// writeProject writes the fixture project into a temp dir and returns
// its path.
func writeProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "house.toml")
	if err := os.WriteFile(path, []byte(houseTOML), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}
	return path
}

// execute runs the CLI with the given arguments against a discarded
// logger. ErrIssues still counts as success: the artifacts are written
// before the issue exit code is decided.
func execute(t *testing.T, args ...string) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil && !errors.Is(err, ErrIssues) {
		t.Fatalf("baleframe %s: %v", strings.Join(args, " "), err)
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestRootCommandWiring(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"build", "parts", "issues", "plan", "tree", "serve", "cache", "completion"}
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("root command is missing %q", name)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	proj := writeProject(t)
	execute(t, "build", proj, "--no-cache", "-f", "json,svg")

	base := strings.TrimSuffix(proj, ".toml")

	m, err := project.ImportModel(base + ".model.json")
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	if m.CountElements() == 0 {
		t.Error("model has no elements")
	}
	if len(m.Root.Groups) < 4 {
		t.Errorf("model has %d root groups, want at least 4 walls", len(m.Root.Groups))
	}

	data, err := os.ReadFile(base + ".plan.svg")
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("plan output does not look like SVG: %.40s", data)
	}
}

func TestBuildCommandExplicitOutput(t *testing.T) {
	proj := writeProject(t)
	out := filepath.Join(filepath.Dir(proj), "custom.json")
	execute(t, "build", proj, "--no-cache", "-o", out)

	if _, err := os.Stat(out); err != nil {
		t.Errorf("explicit output not written: %v", err)
	}
}

func TestBuildCommandBadFormat(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"build", "nonexistent.toml", "-f", "pdf"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("expected invalid format error, got %v", err)
	}
}

func TestPartsCommandCSV(t *testing.T) {
	proj := writeProject(t)
	out := filepath.Join(filepath.Dir(proj), "parts.csv")
	execute(t, "parts", proj, "--no-cache", "--csv", "-o", out)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		t.Fatalf("csv has %d lines, want header plus data", len(lines))
	}
	if !strings.HasPrefix(lines[0], "material,name,type,count") {
		t.Errorf("csv header = %q", lines[0])
	}
	if !strings.Contains(string(data), "straw") {
		t.Error("csv should contain a straw line")
	}
}

func TestPlanCommandElevation(t *testing.T) {
	proj := writeProject(t)
	execute(t, "plan", proj, "--no-cache", "--elevation", "0")

	base := strings.TrimSuffix(proj, ".toml")
	data, err := os.ReadFile(base + ".wall0.svg")
	if err != nil {
		t.Fatalf("read elevation: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("elevation output does not look like SVG: %.40s", data)
	}
}

func TestPlanCommandElevationRejectsPNG(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"plan", "nonexistent.toml", "--elevation", "0", "-f", "png"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "svg") {
		t.Errorf("expected elevation format error, got %v", err)
	}
}

func TestTreeCommandDOT(t *testing.T) {
	proj := writeProject(t)
	execute(t, "tree", proj, "--no-cache", "-f", "dot")

	base := strings.TrimSuffix(proj, ".toml")
	data, err := os.ReadFile(base + ".tree.dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph model {") {
		t.Errorf("dot output header = %.40s", data)
	}
	if !strings.Contains(string(data), "wall-0") {
		t.Error("dot output should contain the wall-0 group")
	}
}

func TestIssuesCommand(t *testing.T) {
	proj := writeProject(t)
	// List mode only; the interactive browser needs a TTY.
	execute(t, "issues", proj, "--no-cache")
}

// =============================================================================
// Helpers
// =============================================================================

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output strips input ext", "", "house.toml", "house"},
		{"output with artifact ext", "out.svg", "house.toml", "out"},
		{"output with unknown ext", "out.backup", "house.toml", "out.backup"},
		{"plain output", "renders/out", "house.toml", "renders/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		base   string
		suffix string
		format string
		single bool
		want   string
	}{
		{"explicit single output", "custom.svg", "custom", "plan", "svg", true, "custom.svg"},
		{"derived with suffix", "", "house", "plan", "svg", true, "house.plan.svg"},
		{"derived without suffix", "", "house", "", "json", false, "house.json"},
		{"multiple formats ignore explicit name", "custom.svg", "custom", "plan", "png", false, "custom.plan.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPath(tt.output, tt.base, tt.suffix, tt.format, tt.single)
			if got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats("", "svg"); len(got) != 1 || got[0] != "svg" {
		t.Errorf("parseFormats(empty) = %v, want [svg]", got)
	}
	if got := parseFormats("json,png", "svg"); len(got) != 2 || got[0] != "json" || got[1] != "png" {
		t.Errorf("parseFormats(json,png) = %v", got)
	}
}

func TestValidateFormats(t *testing.T) {
	valid := map[string]bool{"svg": true, "png": true}

	if err := validateFormats([]string{"svg", "png"}, valid, "'svg' or 'png'"); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	err := validateFormats([]string{"pdf"}, valid, "'svg' or 'png'")
	if err == nil || !strings.Contains(err.Error(), "pdf") {
		t.Errorf("invalid format not rejected: %v", err)
	}
}
