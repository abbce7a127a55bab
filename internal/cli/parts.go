package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/pkg/partlist"
)

// partsOpts holds the command-line flags for the parts command.
type partsOpts struct {
	output  string
	csv     bool
	refresh bool
	noCache bool
}

// partsCommand creates the parts command for aggregating part lists.
func (c *CLI) partsCommand() *cobra.Command {
	opts := partsOpts{}

	cmd := &cobra.Command{
		Use:   "parts [project.toml]",
		Short: "Aggregate the model into an ordering part list",
		Long: `Aggregate the model into an ordering part list.

The parts command synthesizes the project (or loads it from cache) and
folds every element into one line per material and element type, with
counts, summed dimensions, and weight from the material's density.
Elements that fit no declared stock size are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParts(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "write CSV instead of a table")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the model cache and overwrite it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runParts synthesizes the model and prints or writes its part list.
func (c *CLI) runParts(ctx context.Context, input string, opts partsOpts) error {
	res, err := c.buildModel(ctx, input, opts.refresh, opts.noCache)
	if err != nil {
		return err
	}

	report := partlist.Aggregate(res.model, res.input.Materials)

	if opts.csv {
		return writePartsCSV(report, opts.output, input)
	}

	fmt.Println(partsTable(report))
	printKeyValue("Weight", fmt.Sprintf("%.0f kg", report.TotalWeight()))
	printKeyValue("Volume", fmt.Sprintf("%.2f m³", report.TotalVolume()/1e9))

	for _, iss := range partlist.CheckStock(res.model, res.input.Materials) {
		printWarning("%s", iss.Message)
	}
	return nil
}

// writePartsCSV writes the report as CSV to the output path, or stdout
// when no path was given.
func writePartsCSV(report partlist.Report, output, input string) error {
	if output == "" {
		return partlist.WriteCSV(os.Stdout, report)
	}

	path := artifactPath(output, basePath(output, input), "parts", "csv", true)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := partlist.WriteCSV(f, report); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// partsTable renders the report as a bordered table. Dimensions are in
// mm in the report and shown in meters here.
func partsTable(r partlist.Report) string {
	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, []string{
			l.Name,
			string(l.Type),
			fmt.Sprintf("%d", l.Count),
			formatLength(l.TotalLength),
			formatArea(l.TotalArea),
			formatVolume(l.TotalVolume),
			formatWeight(l.TotalWeight),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Material", "Type", "Count", "Length", "Area", "Volume", "Weight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return StyleNumber
			}
			return StyleValue
		})

	return t.Render()
}

func formatLength(mm float64) string {
	if mm == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f m", mm/1000)
}

func formatArea(mm2 float64) string {
	if mm2 == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f m²", mm2/1e6)
}

func formatVolume(mm3 float64) string {
	if mm3 == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f m³", mm3/1e9)
}

func formatWeight(kg float64) string {
	if kg == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f kg", kg)
}
