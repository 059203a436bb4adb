// Package family loads parametric family definitions from YAML or JSON.
//
// A family file bundles parameters, constraints and variant presets. Load
// decodes it strictly (unknown keys are rejected), fills in generated
// constraint IDs and runs structural validation. Formula syntax is not
// checked here: a broken formula is contained at evaluation time like any
// other formula failure.
package family

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solatis/parametrix/internal/formula"
	"github.com/solatis/parametrix/internal/types"
)

// Load reads and validates the family file at path.
func Load(path string) (*types.Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read family file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a family document. JSON documents are
// accepted since JSON is valid YAML.
func Parse(data []byte) (*types.Family, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one family document from r.
func Decode(r io.Reader) (*types.Family, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var f types.Family
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("family document is empty")
		}
		return nil, fmt.Errorf("failed to decode family: %w", err)
	}

	AssignIDs(&f)
	if err := Validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// AssignIDs generates IDs for constraints that lack one.
func AssignIDs(f *types.Family) {
	for i := range f.Constraints {
		if f.Constraints[i].ID == "" {
			f.Constraints[i].ID = types.NewConstraintID()
		}
	}
}

// Validate checks the structure of f and reports every problem found.
func Validate(f *types.Family) error {
	var errs []error

	seen := make(map[string]bool, len(f.Parameters))
	for i, p := range f.Parameters {
		if err := validateParameter(p); err != nil {
			errs = append(errs, fmt.Errorf("parameters[%d]: %w", i, err))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("parameters[%d]: %w: %q", i, types.ErrDuplicateParameter, p.Name))
		}
		seen[p.Name] = true
	}

	ids := make(map[types.ConstraintID]bool, len(f.Constraints))
	for i, c := range f.Constraints {
		if err := validateConstraint(c); err != nil {
			errs = append(errs, fmt.Errorf("constraints[%d]: %w", i, err))
			continue
		}
		if c.ID != "" && ids[c.ID] {
			errs = append(errs, fmt.Errorf("constraints[%d]: %w: duplicate id %q", i, types.ErrInvalidConstraint, c.ID))
		}
		ids[c.ID] = true
	}

	presets := make(map[string]bool, len(f.Presets))
	for i, v := range f.Presets {
		if v.Name == "" || presets[v.Name] {
			errs = append(errs, fmt.Errorf("presets[%d]: missing or duplicate name %q", i, v.Name))
		}
		presets[v.Name] = true
		for name := range v.Multipliers {
			if !seen[name] {
				errs = append(errs, fmt.Errorf("presets[%d]: multiplier for unknown parameter %q", i, name))
			}
		}
	}

	return errors.Join(errs...)
}

func validateParameter(p types.Parameter) error {
	switch {
	case !formula.IsIdentifier(p.Name):
		return fmt.Errorf("%w: name %q is not a formula identifier", types.ErrInvalidParameter, p.Name)
	case formula.IsReserved(p.Name):
		return fmt.Errorf("%w: name %q is reserved", types.ErrInvalidParameter, p.Name)
	case !p.DataType.Valid():
		return fmt.Errorf("%w: %q has unknown data type %q", types.ErrInvalidParameter, p.Name, p.DataType)
	case p.Formula != "" && !p.DataType.IsNumeric():
		return fmt.Errorf("%w: %q is %s and cannot have a formula", types.ErrInvalidParameter, p.Name, p.DataType)
	case p.Min != nil && p.Max != nil && *p.Min > *p.Max:
		return fmt.Errorf("%w: %q has min %v above max %v", types.ErrInvalidParameter, p.Name, *p.Min, *p.Max)
	}
	return nil
}

func validateConstraint(c types.Constraint) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is required", types.ErrInvalidConstraint)
	case c.Expression == "":
		return fmt.Errorf("%w: %q has no expression", types.ErrInvalidConstraint, c.Name)
	case !c.Severity.Valid():
		return fmt.Errorf("%w: %q has unknown severity %q", types.ErrInvalidConstraint, c.Name, c.Severity)
	}
	return nil
}
