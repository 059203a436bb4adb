// Package formula parses and evaluates parameter formulas and constraint
// expressions.
//
// Formulas are arithmetic/logical expressions over named numeric variables
// with a fixed vocabulary of math functions. Parsing produces an AST that is
// interpreted directly; nothing is compiled or executed dynamically.
// A parsed Formula is immutable and safe for concurrent use.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solatis/parametrix/internal/types"
)

// Formula is a parsed expression ready for repeated evaluation.
type Formula struct {
	source    string
	root      node
	variables []string
	nodes     int
}

// SyntaxError describes a malformed formula. Unwraps to types.ErrSyntax.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return types.ErrSyntax
}

// EvaluationError reports a variable missing from the evaluation context.
// Unwraps to types.ErrVariableNotFound.
type EvaluationError struct {
	Formula  string
	Variable string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating %q: variable not found: %s", e.Formula, e.Variable)
}

func (e *EvaluationError) Unwrap() error {
	return types.ErrVariableNotFound
}

// Parse validates src and builds its AST.
// Returns types.ErrEmptyFormula for blank input and types.ErrFormulaTooLong
// past types.MaxFormulaLength.
func Parse(src string) (*Formula, error) {
	if len(src) > types.MaxFormulaLength {
		return nil, types.ErrFormulaTooLong
	}
	if strings.TrimSpace(src) == "" {
		return nil, types.ErrEmptyFormula
	}

	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, seen: make(map[string]bool)}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.unexpected("expected end of formula")
	}

	return &Formula{
		source:    src,
		root:      root,
		variables: p.variables,
		nodes:     p.nodes,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(src string) *Formula {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Source returns the original formula text.
func (f *Formula) Source() string {
	return f.source
}

// Variables returns free identifiers in first-seen order.
func (f *Formula) Variables() []string {
	out := make([]string, len(f.variables))
	copy(out, f.variables)
	return out
}

// Nodes returns the AST node count, a rough evaluation cost.
func (f *Formula) Nodes() int {
	return f.nodes
}

// Evaluate computes the formula against ctx. Every variable must be present;
// the first missing one (in first-seen order) yields an *EvaluationError.
func (f *Formula) Evaluate(ctx map[string]float64) (float64, error) {
	for _, name := range f.variables {
		if _, ok := ctx[name]; !ok {
			return 0, &EvaluationError{Formula: f.source, Variable: name}
		}
	}
	return f.root.eval(ctx), nil
}

// ExtractVariables parses src and returns its free identifiers.
// Unparsable formulas yield nil; callers that need the cause use Parse.
func ExtractVariables(src string) []string {
	f, err := Parse(src)
	if err != nil {
		return nil
	}
	return f.variables
}

// IsSyntaxError reports whether err stems from malformed formula text
// (as opposed to a resource limit or an evaluation failure).
func IsSyntaxError(err error) bool {
	return errors.Is(err, types.ErrSyntax) ||
		errors.Is(err, types.ErrUnknownFunction) ||
		errors.Is(err, types.ErrArity)
}
