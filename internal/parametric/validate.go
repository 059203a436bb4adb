// internal/parametric/validate.go
package parametric

import (
	"fmt"

	"github.com/solatis/parametrix/internal/formula"
	"github.com/solatis/parametrix/internal/types"
)

/*
 * Constraint validation.
 *
 * Each constraint expression is parsed and evaluated against a numeric view
 * of the evaluated values (numbers as-is, booleans as 1/0, text excluded).
 * A result of 0 or NaN is a violation. Violations are bucketed by severity;
 * only error-severity violations make the result invalid, so warnings and
 * infos never block export.
 *
 * A constraint that fails to parse or evaluate (typically because it
 * references an excluded text value) is logged and skipped: it is neither a
 * pass nor a violation and appears only in Skipped.
 */

// ConstraintViolation describes one violated constraint.
type ConstraintViolation struct {
	ConstraintID       types.ConstraintID `json:"constraint_id,omitempty"`
	ConstraintName     string             `json:"constraint_name"`
	Severity           types.Severity     `json:"severity"`
	Message            string             `json:"message"`
	AffectedParameters []string           `json:"affected_parameters"`
}

// SkippedConstraint records a constraint that could not be evaluated.
type SkippedConstraint struct {
	ConstraintID   types.ConstraintID `json:"constraint_id,omitempty"`
	ConstraintName string             `json:"constraint_name"`
	Reason         string             `json:"reason"`
}

// ValidationResult is the outcome of validating a set of constraints.
type ValidationResult struct {
	Valid    bool                  `json:"valid"`
	Errors   []ConstraintViolation `json:"errors"`
	Warnings []ConstraintViolation `json:"warnings"`
	Infos    []ConstraintViolation `json:"infos"`
	Skipped  []SkippedConstraint   `json:"skipped"`
}

// Validate checks constraints against evaluated values.
func (e *Engine) Validate(constraints []types.Constraint, values map[string]any) ValidationResult {
	result := ValidationResult{
		Errors:   []ConstraintViolation{},
		Warnings: []ConstraintViolation{},
		Infos:    []ConstraintViolation{},
		Skipped:  []SkippedConstraint{},
	}

	ctx := make(map[string]float64, len(values))
	for name, v := range values {
		if f, ok := ContextValue(v); ok {
			ctx[name] = f
		}
	}

	for _, c := range constraints {
		f, err := formula.Parse(c.Expression)
		if err == nil {
			var v float64
			v, err = f.Evaluate(ctx)
			if err == nil {
				if formula.Truthy(v) {
					continue
				}
				result.add(violation(c, f))
				continue
			}
		}

		e.logger.Warn("constraint skipped", "constraint", c.Name, "expression", c.Expression, "error", err)
		result.Skipped = append(result.Skipped, SkippedConstraint{
			ConstraintID:   c.ID,
			ConstraintName: c.Name,
			Reason:         err.Error(),
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func violation(c types.Constraint, f *formula.Formula) ConstraintViolation {
	msg := c.Message
	if msg == "" {
		msg = fmt.Sprintf("constraint %q violated: %s", c.Name, c.Expression)
	}
	severity := c.Severity
	if severity == "" {
		severity = types.SeverityError
	}
	return ConstraintViolation{
		ConstraintID:       c.ID,
		ConstraintName:     c.Name,
		Severity:           severity,
		Message:            msg,
		AffectedParameters: f.Variables(),
	}
}

// add buckets v by severity. Unknown severities count as errors.
func (r *ValidationResult) add(v ConstraintViolation) {
	switch v.Severity {
	case types.SeverityWarning:
		r.Warnings = append(r.Warnings, v)
	case types.SeverityInfo:
		r.Infos = append(r.Infos, v)
	default:
		r.Errors = append(r.Errors, v)
	}
}
