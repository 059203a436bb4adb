package cmd

import (
	"fmt"

	"github.com/solatis/parametrix/internal/family"
	"github.com/spf13/cobra"
)

func newOrderCommand(root *rootOptions) *cobra.Command {
	var flags engineFlags

	cmd := &cobra.Command{
		Use:   "order <family-file>",
		Short: "Print the evaluation order of a family file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := family.Load(args[0])
			if err != nil {
				return err
			}

			order, err := flags.engine(root.logger).EvaluationOrder(f.Parameters)
			if err != nil {
				return fmt.Errorf("failed to order %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if root.format == "json" {
				return writeJSON(out, map[string][]string{"order": order})
			}
			for _, name := range order {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
