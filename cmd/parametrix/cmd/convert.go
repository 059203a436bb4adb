package cmd

import (
	"fmt"
	"strconv"

	"github.com/solatis/parametrix/internal/parametric"
	"github.com/spf13/cobra"
)

func newConvertCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a length between units",
		Long: `Convert a length between in, ft, mm, cm and m. An unsupported unit pair
prints a warning and returns the value unchanged.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}

			engine := parametric.NewEngine(root.logger, parametric.Options{})
			result := engine.ConvertUnit(value, args[1], args[2])

			out := cmd.OutOrStdout()
			if root.format == "json" {
				_, converted := parametric.Convert(value, args[1], args[2])
				return writeJSON(out, map[string]any{"value": result, "converted": converted})
			}
			fmt.Fprintln(out, strconv.FormatFloat(result, 'g', -1, 64))
			return nil
		},
	}
}
