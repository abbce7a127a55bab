package cli

import (
	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/pkg/model"
)

// issuesCommand creates the issues command for reviewing construction
// problems.
func (c *CLI) issuesCommand() *cobra.Command {
	var (
		interactive bool
		refresh     bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "issues [project.toml]",
		Short: "List construction issues found during synthesis",
		Long: `List construction issues found during synthesis.

Errors mark walls or openings the synthesizer could not build as drawn;
warnings mark spots worth reviewing, like stretched bale spacing or
elements without a matching stock size. Use --interactive to browse
issues with the elements they reference.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.buildModel(cmd.Context(), args[0], refresh, noCache)
			if err != nil {
				return err
			}
			if interactive {
				return browseIssues(res.model)
			}
			listIssues(res.model)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse issues in an interactive view")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the model cache and overwrite it")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// listIssues prints all issues with the count of elements they reference.
func listIssues(m *model.Model) {
	if len(m.Errors) == 0 && len(m.Warnings) == 0 {
		printSuccess("No issues")
		return
	}

	for _, iss := range m.Errors {
		printError("%s", iss.Message)
		if n := len(iss.Elements); n > 0 {
			printDetail("%d element(s) affected", n)
		}
	}
	for _, iss := range m.Warnings {
		printWarning("%s", iss.Message)
		if n := len(iss.Elements); n > 0 {
			printDetail("%d element(s) affected", n)
		}
	}

	printNewline()
	printInfo("%d error(s), %d warning(s)", len(m.Errors), len(m.Warnings))
}
