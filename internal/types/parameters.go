// internal/types/parameters.go
package types

/*
 * Domain types for parametric evaluation.
 *
 * Provides Parameter, Constraint, Family and VariantPreset structures used by
 * internal/parametric for evaluation and validation. These types are
 * wire-format agnostic: YAML loading lives in internal/family and RPC
 * conversion in internal/core/api.
 *
 * Key types:
 *   - Parameter: named, typed value with optional formula and bounds
 *   - Constraint: named boolean expression with severity
 *   - Family: bundle of parameters, constraints and size presets
 *   - VariantPreset: named multiplier set for family-size variants
 */

// DataType classifies a parameter value.
// Only number and angle parameters take part in formulas and clamping.
type DataType string

const (
	DataTypeNumber   DataType = "number"
	DataTypeText     DataType = "text"
	DataTypeBoolean  DataType = "boolean"
	DataTypeAngle    DataType = "angle"
	DataTypeMaterial DataType = "material"
)

// IsNumeric reports whether the type participates in formula evaluation.
// An unset type is treated as number.
func (d DataType) IsNumeric() bool {
	return d == DataTypeNumber || d == DataTypeAngle || d == ""
}

// Valid reports whether d is a known data type (or unset).
func (d DataType) Valid() bool {
	switch d {
	case "", DataTypeNumber, DataTypeText, DataTypeBoolean, DataTypeAngle, DataTypeMaterial:
		return true
	}
	return false
}

// Group is a display classification with no evaluation semantics.
type Group string

const (
	GroupDimensions Group = "dimensions"
	GroupIdentity   Group = "identity"
	GroupAppearance Group = "appearance"
	GroupStructural Group = "structural"
	GroupMEP        Group = "mep"
	GroupOther      Group = "other"
)

// Severity of a constraint violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Valid reports whether s is a known severity (or unset, which means error).
func (s Severity) Valid() bool {
	switch s {
	case "", SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Parameter is a named, typed, possibly formula-derived value.
type Parameter struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`     // literal (float64, int, string, bool)
	Formula  string   `json:"formula,omitempty" yaml:"formula,omitempty"` // number/angle only
	DataType DataType `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Group    Group    `json:"group,omitempty" yaml:"group,omitempty"`
	Unit     string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Constraint is a named boolean rule over evaluated parameter values.
type Constraint struct {
	ID         ConstraintID `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string       `json:"name" yaml:"name"`
	Expression string       `json:"expression" yaml:"expression"`
	Severity   Severity     `json:"severity,omitempty" yaml:"severity,omitempty"`
	Message    string       `json:"message,omitempty" yaml:"message,omitempty"`
}

// VariantPreset scales numeric parameters by per-name multipliers.
// Parameters without an entry keep factor 1.
type VariantPreset struct {
	Name        string             `json:"name" yaml:"name"`
	Multipliers map[string]float64 `json:"multipliers" yaml:"multipliers"`
}

// Family bundles everything needed to evaluate one parametric design.
type Family struct {
	ID          FamilyID        `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []Parameter     `json:"parameters" yaml:"parameters"`
	Constraints []Constraint    `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Presets     []VariantPreset `json:"presets,omitempty" yaml:"presets,omitempty"`
}

// Float returns a pointer to v. Convenience for Min/Max literals.
func Float(v float64) *float64 {
	return &v
}
