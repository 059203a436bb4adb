package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/solatis/parametrix/internal/family"
	"github.com/solatis/parametrix/internal/parametric"
	"github.com/solatis/parametrix/internal/types"
	"github.com/spf13/cobra"
)

// errValidationFailed makes the process exit non-zero after the report has
// been printed.
var errValidationFailed = errors.New("constraint validation failed")

// engineFlags are the engine policy flags shared by the offline commands.
type engineFlags struct {
	strict        bool
	maxParameters int
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail when any formula cannot be evaluated")
	cmd.Flags().IntVar(&f.maxParameters, "max-parameters", types.DefaultMaxParameters, "maximum parameters per family (0 = unlimited)")
}

func (f *engineFlags) engine(logger *slog.Logger) *parametric.Engine {
	return parametric.NewEngine(logger, parametric.Options{
		StrictFormulas: f.strict,
		MaxParameters:  f.maxParameters,
	})
}

type evaluateOptions struct {
	*rootOptions
	engineFlags
	set []string
}

func newEvaluateCommand(root *rootOptions) *cobra.Command {
	opts := &evaluateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "evaluate <family-file>",
		Short: "Evaluate and validate a family file",
		Long: `Evaluate every parameter of a YAML or JSON family file in dependency
order, then check its constraints. Exits non-zero when any error-severity
constraint is violated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "override a parameter value (name=value, repeatable)")
	opts.engineFlags.register(cmd)
	return cmd
}

func runEvaluate(cmd *cobra.Command, opts *evaluateOptions, path string) error {
	f, err := family.Load(path)
	if err != nil {
		return err
	}

	overrides, err := parseOverrides(opts.set)
	if err != nil {
		return err
	}

	res, err := opts.engine(opts.logger).Check(f.Parameters, f.Constraints, overrides)
	if err != nil {
		return fmt.Errorf("failed to evaluate %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		if err := writeJSON(out, struct {
			Family string `json:"family"`
			*parametric.CheckResult
		}{f.Name, res}); err != nil {
			return err
		}
	} else {
		writeCheck(out, f, res)
	}

	if !res.Validation.Valid {
		return errValidationFailed
	}
	return nil
}

// parseOverrides turns name=value pairs into an override map.
func parseOverrides(pairs []string) (map[string]float64, error) {
	overrides := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid override %q: expected name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", pair, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid override %q: value must be finite", pair)
		}
		overrides[name] = v
	}
	return overrides, nil
}
