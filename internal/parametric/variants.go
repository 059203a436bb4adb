// internal/parametric/variants.go
package parametric

import (
	"strings"

	"github.com/solatis/parametrix/internal/types"
)

// Variant is a scaled copy of a base parameter set.
type Variant struct {
	Name       string            `json:"name"`
	Parameters []types.Parameter `json:"parameters"`
}

// GenerateVariants produces one scaled parameter set per preset.
//
// Only numeric literal values scale; formula parameters keep their formula
// (and so follow their scaled inputs), and non-numeric parameters are
// copied as-is. A parameter without a multiplier keeps factor 1. Bounds are
// not scaled, so a scaled value still clamps at evaluation time.
func GenerateVariants(base []types.Parameter, presets []types.VariantPreset) []Variant {
	variants := make([]Variant, 0, len(presets))
	for _, preset := range presets {
		params := make([]types.Parameter, len(base))
		for i, p := range base {
			params[i] = scaleParameter(p, preset.Multipliers)
		}
		variants = append(variants, Variant{Name: preset.Name, Parameters: params})
	}
	return variants
}

func scaleParameter(p types.Parameter, multipliers map[string]float64) types.Parameter {
	if !p.DataType.IsNumeric() || strings.TrimSpace(p.Formula) != "" || p.Value == nil {
		return p
	}
	factor, ok := multipliers[p.Name]
	if !ok {
		factor = 1
	}
	v, err := CoerceNumber(p.Value)
	if err != nil {
		return p
	}
	p.Value = v * factor
	return p
}

// GenerateVariants is the engine-bound form of the package function.
func (e *Engine) GenerateVariants(base []types.Parameter, presets []types.VariantPreset) []Variant {
	e.logger.Debug("generating variants", "parameters", len(base), "presets", len(presets))
	return GenerateVariants(base, presets)
}
