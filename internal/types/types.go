// Package types provides domain models shared across parametrix components.
//
// Zero-dependency design: types.go, parameters.go and errors.go use only the
// standard library so the engine packages stay importable without the
// service stack. ID utilities in ids.go import uuid but are isolated.
//
// Separation from transport: RPC payloads are google.protobuf.Struct values
// shaped like these types. Conversion happens at the API boundary.
package types

// FamilyID represents a UUIDv7 family identifier.
// String alias enables type safety while maintaining JSON string serialization.
type FamilyID string

// ConstraintID represents a UUIDv7 constraint identifier.
type ConstraintID string

// EvaluationID represents a UUIDv7 identifier for an audited evaluation run.
type EvaluationID string

// Resource limits enforced by the formula parser and the evaluation engine.
const (
	// MaxFormulaLength caps formula source size before tokenizing.
	// 4KB comfortably fits hand-written dimension formulas.
	MaxFormulaLength = 4096

	// MaxFormulaDepth prevents stack overflow in the recursive-descent parser.
	// Counts nested parentheses, unary operators and call arguments.
	MaxFormulaDepth = 64

	// MaxFormulaNodes bounds AST size so evaluation cost stays linear in a
	// small constant per formula.
	MaxFormulaNodes = 1024

	// MaxFunctionArgs limits variadic min/max calls.
	MaxFunctionArgs = 64

	// DefaultMaxParameters is the default per-call parameter limit applied by
	// the service layer.
	DefaultMaxParameters = 10000
)
