package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/strata/pkg/graph"
)

// fmtCommand creates the fmt command that validates a graph document and
// rewrites it in canonical form.
func (c *CLI) fmtCommand() *cobra.Command {
	var (
		output  string
		inPlace bool
	)

	cmd := &cobra.Command{
		Use:   "fmt <graph.json>",
		Short: "Validate a graph document and print it in canonical form",
		Long: `Validate a graph document and print it in canonical form.

The document is decoded with the same checks the layout command applies
(node IDs, duplicates, unknown edge endpoints) and written back indented,
with internal metadata dropped. Use -w to rewrite the file in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			d, err := graph.ReadGraphFile(input)
			if err != nil {
				return fmt.Errorf("load graph %s: %w", input, err)
			}

			if inPlace {
				output = input
			}
			if output == "" || output == "-" {
				return graph.WriteGraph(d, c.Out)
			}
			if err := graph.WriteGraphFile(d, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(c.Out, "Graph is valid")
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite the input file")
	cmd.MarkFlagsMutuallyExclusive("output", "write")
	return cmd
}
