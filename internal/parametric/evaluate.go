// internal/parametric/evaluate.go
package parametric

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/solatis/parametrix/internal/formula"
	"github.com/solatis/parametrix/internal/types"
)

/*
 * Parameter evaluation.
 *
 * Evaluation flow, per parameter in dependency order:
 *   1. Non-numeric types (text, boolean, material): literal passes through
 *   2. Override present: use it, even over a formula (NaN and Inf fail)
 *   3. Formula present: evaluate against parameters resolved so far
 *   4. Otherwise: coerce the literal to float64
 *   5. Clamp to [min, max] when both bounds are declared
 *   6. Publish into the running context and the result map
 *
 * Failure containment: an unresolved variable, a syntax error, a
 * non-finite result or override, or a bad literal affects only that
 * parameter. It is
 * logged, recorded as a FormulaFailure and the parameter evaluates to
 * 0 so dependents keep working. Options.StrictFormulas turns recorded
 * failures into an EvaluationFailedError instead.
 *
 * Cycles are not contained: any order derived from a cyclic graph would be
 * meaningless, so Evaluate returns the CircularDependencyError.
 */

// Evaluation is the outcome of one evaluation pass.
type Evaluation struct {
	// Values has exactly one entry per input parameter: float64 for
	// number/angle parameters, the original literal otherwise.
	Values   map[string]any   `json:"values"`
	Order    []string         `json:"order"`
	Failures []FormulaFailure `json:"failures"`
}

// Number returns the numeric value of name and whether it is numeric.
func (ev *Evaluation) Number(name string) (float64, bool) {
	v, ok := ev.Values[name].(float64)
	return v, ok
}

// FormulaFailure records a parameter that fell back to 0.
type FormulaFailure struct {
	Parameter string `json:"parameter"`
	Formula   string `json:"formula,omitempty"`
	Reason    string `json:"reason"`
	Err       error  `json:"-"`
}

// EvaluationFailedError is returned in strict mode when any formula failed.
// Unwraps to types.ErrFormulaFailed.
type EvaluationFailedError struct {
	Failures []FormulaFailure
}

func (e *EvaluationFailedError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Parameter
	}
	return fmt.Sprintf("formula evaluation failed for %d parameter(s): %s", len(e.Failures), strings.Join(names, ", "))
}

func (e *EvaluationFailedError) Unwrap() error {
	return types.ErrFormulaFailed
}

// Evaluate computes final values for every parameter.
// overrides maps parameter names to values that win over formulas and
// literals for this call; entries for unknown names are ignored.
func (e *Engine) Evaluate(params []types.Parameter, overrides map[string]float64) (*Evaluation, error) {
	if err := e.checkLimits(params); err != nil {
		return nil, err
	}

	order, err := EvaluationOrder(params)
	if err != nil {
		e.logger.Error("evaluation aborted", "error", err)
		return nil, err
	}

	byName := make(map[string]types.Parameter, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}

	ev := &Evaluation{
		Values:   make(map[string]any, len(params)),
		Order:    order,
		Failures: []FormulaFailure{},
	}
	ctx := make(map[string]float64, len(params))

	for _, name := range order {
		p := byName[name]
		if !p.DataType.IsNumeric() {
			ev.Values[name] = p.Value
			continue
		}

		v, err := e.resolve(p, overrides, ctx)
		if err != nil {
			e.logger.Warn("parameter evaluation failed, using 0",
				"parameter", name, "formula", p.Formula, "error", err)
			ev.Failures = append(ev.Failures, FormulaFailure{
				Parameter: name,
				Formula:   p.Formula,
				Reason:    err.Error(),
				Err:       err,
			})
			v = 0
		}

		v = Clamp(v, p.Min, p.Max)
		ctx[name] = v
		ev.Values[name] = v
	}

	if e.opts.StrictFormulas && len(ev.Failures) > 0 {
		return nil, &EvaluationFailedError{Failures: ev.Failures}
	}
	return ev, nil
}

// resolve picks override, formula or literal for a numeric parameter.
func (e *Engine) resolve(p types.Parameter, overrides map[string]float64, ctx map[string]float64) (float64, error) {
	if v, ok := overrides[p.Name]; ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: override %v", types.ErrNonFinite, v)
		}
		return v, nil
	}

	if strings.TrimSpace(p.Formula) != "" {
		f, err := formula.Parse(p.Formula)
		if err != nil {
			return 0, err
		}
		v, err := f.Evaluate(ctx)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q = %v", types.ErrNonFinite, p.Formula, v)
		}
		return v, nil
	}

	v, err := CoerceNumber(p.Value)
	if err != nil {
		return 0, fmt.Errorf("%w: value %v", err, p.Value)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: value %v", types.ErrNonFinite, p.Value)
	}
	return v, nil
}

// Clamp pulls v into [min, max]. Clamping applies only when both bounds are
// declared; a single bound is informational.
func Clamp(v float64, lo, hi *float64) float64 {
	if lo == nil || hi == nil {
		return v
	}
	if v < *lo {
		return *lo
	}
	if v > *hi {
		return *hi
	}
	return v
}

// IsCircular reports whether err is a dependency cycle.
func IsCircular(err error) bool {
	return errors.Is(err, types.ErrCircularDependency)
}
