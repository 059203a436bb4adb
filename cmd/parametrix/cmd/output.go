package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/solatis/parametrix/internal/parametric"
	"github.com/solatis/parametrix/internal/types"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeValues prints evaluated values in evaluation order, aligned by name.
func writeValues(w io.Writer, params []types.Parameter, ev *parametric.Evaluation) {
	units := make(map[string]string, len(params))
	for _, p := range params {
		units[p.Name] = p.Unit
	}

	width := 0
	for _, name := range ev.Order {
		width = max(width, len(name))
	}

	for _, name := range ev.Order {
		value := fmt.Sprintf("%v", ev.Values[name])
		if unit := units[name]; unit != "" {
			value += " " + unit
		}
		fmt.Fprintf(w, "  %-*s  %s\n", width, name, value)
	}
}

func writeCheck(w io.Writer, f *types.Family, res *parametric.CheckResult) {
	ev := res.Evaluation
	fmt.Fprintf(w, "family: %s\n", f.Name)
	fmt.Fprintf(w, "order: %s\n", strings.Join(ev.Order, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "values:")
	writeValues(w, f.Parameters, ev)

	if len(ev.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "failures:")
		for _, failure := range ev.Failures {
			fmt.Fprintf(w, "  %s: %s\n", failure.Parameter, failure.Reason)
		}
	}

	v := res.Validation
	state := "valid"
	if !v.Valid {
		state = "INVALID"
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "constraints: %s (%d errors, %d warnings, %d infos, %d skipped)\n",
		state, len(v.Errors), len(v.Warnings), len(v.Infos), len(v.Skipped))
	for _, bucket := range [][]parametric.ConstraintViolation{v.Errors, v.Warnings, v.Infos} {
		for _, violation := range bucket {
			fmt.Fprintf(w, "  [%s] %s: %s\n", violation.Severity, violation.ConstraintName, violation.Message)
		}
	}
	for _, skipped := range v.Skipped {
		fmt.Fprintf(w, "  [skipped] %s: %s\n", skipped.ConstraintName, skipped.Reason)
	}
}
