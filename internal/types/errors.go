package types

import "errors"

// Sentinel errors for parametrix operations.
var (
	// ErrEmptyFormula indicates a formula or constraint expression has no tokens.
	ErrEmptyFormula = errors.New("formula is empty")

	// ErrFormulaTooLong indicates a formula exceeds MaxFormulaLength.
	ErrFormulaTooLong = errors.New("formula exceeds maximum length")

	// ErrFormulaTooDeep indicates nesting exceeds MaxFormulaDepth.
	ErrFormulaTooDeep = errors.New("formula exceeds maximum nesting depth")

	// ErrFormulaTooComplex indicates the AST exceeds MaxFormulaNodes.
	ErrFormulaTooComplex = errors.New("formula exceeds maximum node count")

	// ErrSyntax indicates a formula could not be parsed.
	ErrSyntax = errors.New("formula syntax error")

	// ErrUnknownFunction indicates a call to a function outside the whitelist.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArity indicates a whitelisted function was called with the wrong argument count.
	ErrArity = errors.New("wrong number of function arguments")

	// ErrVariableNotFound indicates a formula references a name absent from the context.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrNonFinite indicates a formula produced NaN or an infinity.
	ErrNonFinite = errors.New("formula result is not finite")

	// ErrCoercionFailed indicates a literal could not be converted to a number.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrCircularDependency indicates the parameter dependency graph has a cycle.
	ErrCircularDependency = errors.New("circular dependency")

	// ErrDuplicateParameter indicates two parameters share a name.
	ErrDuplicateParameter = errors.New("duplicate parameter name")

	// ErrTooManyParameters indicates a request exceeds the configured parameter limit.
	ErrTooManyParameters = errors.New("too many parameters")

	// ErrInvalidParameter indicates a parameter definition is malformed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidConstraint indicates a constraint definition is malformed.
	ErrInvalidConstraint = errors.New("invalid constraint")

	// ErrFormulaFailed indicates strict evaluation rejected at least one formula.
	ErrFormulaFailed = errors.New("formula evaluation failed")

	// ErrFamilyNotFound indicates a catalog lookup found no family.
	ErrFamilyNotFound = errors.New("family not found")

	// ErrStorage indicates the catalog database failed.
	ErrStorage = errors.New("storage error")
)
