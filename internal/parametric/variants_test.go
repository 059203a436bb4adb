package parametric

import (
	"testing"

	"github.com/solatis/parametrix/internal/types"
)

func TestGenerateVariants(t *testing.T) {
	base := []types.Parameter{
		{Name: "width", Value: 20.0, Min: types.Float(10), Max: types.Float(40)},
		{Name: "depth", Value: "18"},
		{Name: "height", Formula: "width * 2"},
		{Name: "finish", DataType: types.DataTypeText, Value: "oak"},
		{Name: "unset"},
	}
	presets := []types.VariantPreset{
		{Name: "compact", Multipliers: map[string]float64{"width": 0.5, "height": 3}},
		{Name: "wide", Multipliers: map[string]float64{"width": 1.5, "depth": 2}},
	}

	variants := GenerateVariants(base, presets)
	if len(variants) != 2 {
		t.Fatalf("len(variants) = %d, want 2", len(variants))
	}

	compact := variants[0]
	if compact.Name != "compact" {
		t.Errorf("Name = %q, want compact", compact.Name)
	}
	if compact.Parameters[0].Value != 10.0 {
		t.Errorf("compact width = %v, want 10", compact.Parameters[0].Value)
	}
	if compact.Parameters[1].Value != 18.0 {
		t.Errorf("compact depth = %v, want 18 (factor 1)", compact.Parameters[1].Value)
	}
	if compact.Parameters[2].Formula != "width * 2" || compact.Parameters[2].Value != nil {
		t.Errorf("compact height = %+v, want formula unchanged", compact.Parameters[2])
	}
	if compact.Parameters[3].Value != "oak" {
		t.Errorf("compact finish = %v, want oak", compact.Parameters[3].Value)
	}
	if compact.Parameters[4].Value != nil {
		t.Errorf("compact unset = %v, want nil", compact.Parameters[4].Value)
	}

	wide := variants[1]
	if wide.Parameters[0].Value != 30.0 || wide.Parameters[1].Value != 36.0 {
		t.Errorf("wide = %v/%v, want 30/36", wide.Parameters[0].Value, wide.Parameters[1].Value)
	}
	if *wide.Parameters[0].Max != 40 {
		t.Errorf("bounds must not scale, Max = %v", *wide.Parameters[0].Max)
	}

	if base[0].Value != 20.0 {
		t.Errorf("base mutated: width = %v", base[0].Value)
	}
}

func TestGenerateVariants_BlankFormulaScalesLiteral(t *testing.T) {
	base := []types.Parameter{{Name: "width", Value: 20.0, Formula: "  \t"}}
	presets := []types.VariantPreset{{Name: "half", Multipliers: map[string]float64{"width": 0.5}}}

	variants := GenerateVariants(base, presets)
	if got := variants[0].Parameters[0].Value; got != 10.0 {
		t.Errorf("width = %v, want 10", got)
	}

	ev, err := NewEngine(nil, Options{}).Evaluate(variants[0].Parameters, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
	if ev.Values["width"] != 10.0 {
		t.Errorf("evaluated width = %v, want 10", ev.Values["width"])
	}
}

func TestGenerateVariants_EvaluatesWithFormulas(t *testing.T) {
	engine := NewEngine(nil, Options{})
	base := []types.Parameter{
		{Name: "width", Value: 20.0, Min: types.Float(10), Max: types.Float(40)},
		{Name: "height", Formula: "width * 2"},
	}
	variants := engine.GenerateVariants(base, []types.VariantPreset{
		{Name: "huge", Multipliers: map[string]float64{"width": 3}},
	})

	ev, err := engine.Evaluate(variants[0].Parameters, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if ev.Values["width"] != 40.0 || ev.Values["height"] != 80.0 {
		t.Errorf("values = %v, want width 40 (clamped) and height 80", ev.Values)
	}
}

func TestGenerateVariants_NoPresets(t *testing.T) {
	variants := GenerateVariants([]types.Parameter{{Name: "a", Value: 1.0}}, nil)
	if variants == nil || len(variants) != 0 {
		t.Errorf("GenerateVariants() = %v, want empty non-nil", variants)
	}
}
