package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/selection"
	"github.com/matzehuels/setlist/pkg/statechart"
)

// statechartCommand creates the statechart command.
func (c *CLI) statechartCommand() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "statechart",
		Short: "Draw the card selection state machine",
		Long: `Draw the selection state machine that drives the card grid.

The format follows the output extension: .dot writes Graphviz source,
.svg lays the graph out with the embedded Graphviz. Without --output the
DOT source is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dot := statechart.ToDOT(selection.Transitions(), statechart.Options{Detailed: detailed})
			if output == "" {
				fmt.Print(dot)
				return nil
			}

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				svg, err := statechart.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
				data = svg
			default:
				return fmt.Errorf("unsupported output format %q (want .dot or .svg)", ext)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Wrote state chart")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show card layering in each state")
	return cmd
}
