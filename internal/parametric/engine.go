// Package parametric evaluates parameter sets and validates constraints.
//
// An Engine orders parameters by formula dependencies, evaluates them with
// overrides and range clamping, and checks constraint expressions against
// the results. Engines hold no mutable state: every call builds fresh
// structures from its inputs, so one Engine may serve concurrent callers.
package parametric

import (
	"log/slog"

	"github.com/solatis/parametrix/internal/types"
)

// Options tune engine policy.
type Options struct {
	// StrictFormulas turns contained formula failures (unresolved variable,
	// syntax error, non-finite result) into an error from Evaluate instead of
	// a zero value plus a recorded FormulaFailure.
	StrictFormulas bool

	// MaxParameters rejects larger parameter sets. Zero means unlimited.
	MaxParameters int
}

// Engine is the parametric evaluation facade.
type Engine struct {
	logger *slog.Logger
	opts   Options
}

// NewEngine creates an engine. A nil logger discards log output.
func NewEngine(logger *slog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger, opts: opts}
}

// Options returns the engine's policy settings.
func (e *Engine) Options() Options {
	return e.opts
}

// CheckResult combines an evaluation with validation of its values.
type CheckResult struct {
	Evaluation *Evaluation      `json:"evaluation"`
	Validation ValidationResult `json:"validation"`
}

// Check evaluates params and validates constraints against the result.
// Export-style callers gate on CheckResult.Validation.Valid.
func (e *Engine) Check(params []types.Parameter, constraints []types.Constraint, overrides map[string]float64) (*CheckResult, error) {
	ev, err := e.Evaluate(params, overrides)
	if err != nil {
		return nil, err
	}
	return &CheckResult{
		Evaluation: ev,
		Validation: e.Validate(constraints, ev.Values),
	}, nil
}

func (e *Engine) checkLimits(params []types.Parameter) error {
	if e.opts.MaxParameters > 0 && len(params) > e.opts.MaxParameters {
		return types.ErrTooManyParameters
	}
	return nil
}
