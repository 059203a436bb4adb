package cmd

import (
	"fmt"

	"github.com/solatis/parametrix/internal/family"
	"github.com/solatis/parametrix/internal/parametric"
	"github.com/spf13/cobra"
)

type variantResult struct {
	Name       string                 `json:"name"`
	Evaluation *parametric.Evaluation `json:"evaluation"`
}

func newVariantsCommand(root *rootOptions) *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "variants <family-file>",
		Short: "Evaluate every size preset of a family file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := family.Load(args[0])
			if err != nil {
				return err
			}

			engine := flags.engine(root.logger)
			variants := engine.GenerateVariants(f.Parameters, f.Presets)

			results := make([]variantResult, 0, len(variants))
			for _, v := range variants {
				ev, err := engine.Evaluate(v.Parameters, nil)
				if err != nil {
					return fmt.Errorf("variant %s: %w", v.Name, err)
				}
				results = append(results, variantResult{Name: v.Name, Evaluation: ev})
			}

			out := cmd.OutOrStdout()
			if root.format == "json" {
				return writeJSON(out, map[string]any{"variants": results})
			}
			for i, r := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "variant: %s\n", r.Name)
				writeValues(out, f.Parameters, r.Evaluation)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
