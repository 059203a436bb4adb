// internal/parametric/evaluate_test.go
package parametric

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/solatis/parametrix/internal/types"
)

func TestEvaluate_FormulaReferencesParameter(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "width", Value: 10.0},
		{Name: "height", Formula: "width * 2"},
	}

	ev, err := engine.Evaluate(params, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}

	if ev.Values["width"] != 10.0 {
		t.Errorf("width = %v, want 10", ev.Values["width"])
	}
	if ev.Values["height"] != 20.0 {
		t.Errorf("height = %v, want 20", ev.Values["height"])
	}
	if len(ev.Failures) != 0 {
		t.Errorf("Failures = %v, want none", ev.Failures)
	}
}

func TestEvaluate_OverrideWinsOverFormula(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "width", Value: 10.0},
		{Name: "height", Formula: "width * 2"},
	}

	ev, err := engine.Evaluate(params, map[string]float64{"height": 5})
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}

	if ev.Values["width"] != 10.0 {
		t.Errorf("width = %v, want 10", ev.Values["width"])
	}
	if ev.Values["height"] != 5.0 {
		t.Errorf("height = %v, want 5 (override)", ev.Values["height"])
	}
}

func TestEvaluate_DependentsSeeOverride(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "area", Formula: "width * depth"},
		{Name: "width", Value: 10},
		{Name: "depth", Value: 2},
	}

	ev, err := engine.Evaluate(params, map[string]float64{"width": 7})
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
	if ev.Values["area"] != 14.0 {
		t.Errorf("area = %v, want 14", ev.Values["area"])
	}
}

func TestEvaluate_ClampsToRange(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "w", Value: 500.0, Min: types.Float(0), Max: types.Float(100)},
		{Name: "low", Value: -5.0, Min: types.Float(1), Max: types.Float(100)},
		{Name: "inside", Value: 50.0, Min: types.Float(0), Max: types.Float(100)},
		{Name: "min_only", Value: -5.0, Min: types.Float(0)},
	}

	ev, err := engine.Evaluate(params, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}

	want := map[string]float64{"w": 100, "low": 1, "inside": 50, "min_only": -5}
	for name, w := range want {
		if ev.Values[name] != w {
			t.Errorf("%s = %v, want %v", name, ev.Values[name], w)
		}
	}
}

func TestEvaluate_OverrideIsClamped(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "seat_height", Value: 18.0, Min: types.Float(14), Max: types.Float(22)},
		{Name: "back_height", Formula: "seat_height + 16"},
	}

	ev, err := engine.Evaluate(params, map[string]float64{"seat_height": 40})
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
	if ev.Values["seat_height"] != 22.0 {
		t.Errorf("seat_height = %v, want 22", ev.Values["seat_height"])
	}
	if ev.Values["back_height"] != 38.0 {
		t.Errorf("back_height = %v, want 38 (sees clamped value)", ev.Values["back_height"])
	}
}

func TestEvaluate_NonFiniteOverrideFails(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "w", Value: 5.0, Min: types.Float(0), Max: types.Float(100)},
		{Name: "h", Value: 5.0, Min: types.Float(10), Max: types.Float(100)},
		{Name: "d", Formula: "w + 1"},
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ev, err := engine.Evaluate(params, map[string]float64{"w": bad, "h": bad})
		if err != nil {
			t.Fatalf("Evaluate(%v) error = %v, want nil", bad, err)
		}
		if ev.Values["w"] != 0.0 {
			t.Errorf("override %v: w = %v, want 0", bad, ev.Values["w"])
		}
		if ev.Values["h"] != 10.0 {
			t.Errorf("override %v: h = %v, want 10 (0 clamped to min)", bad, ev.Values["h"])
		}
		if ev.Values["d"] != 1.0 {
			t.Errorf("override %v: d = %v, want 1", bad, ev.Values["d"])
		}
		if len(ev.Failures) != 2 {
			t.Fatalf("override %v: failures = %d, want 2", bad, len(ev.Failures))
		}
		for _, f := range ev.Failures {
			if !errors.Is(f.Err, types.ErrNonFinite) {
				t.Errorf("failure %s err = %v, want ErrNonFinite", f.Parameter, f.Err)
			}
		}
	}

	strict := NewEngine(nil, Options{StrictFormulas: true})
	if _, err := strict.Evaluate(params, map[string]float64{"w": math.NaN()}); !errors.Is(err, types.ErrFormulaFailed) {
		t.Errorf("strict Evaluate() error = %v, want ErrFormulaFailed", err)
	}
}

func TestEvaluate_CircularDependency(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "a", Formula: "b+1"},
		{Name: "b", Formula: "a+1"},
	}

	ev, err := engine.Evaluate(params, nil)
	if ev != nil {
		t.Errorf("Evaluate() result = %v, want nil", ev)
	}
	if !errors.Is(err, types.ErrCircularDependency) {
		t.Fatalf("Evaluate() error = %v, want ErrCircularDependency", err)
	}
	if !IsCircular(err) {
		t.Errorf("IsCircular() = false, want true")
	}
	msg := err.Error()
	if !strings.Contains(msg, "a") || !strings.Contains(msg, "b") {
		t.Errorf("error %q does not name both a and b", msg)
	}
}

func TestEvaluate_NonNumericPassThrough(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "finish", Value: "walnut", DataType: types.DataTypeText},
		{Name: "has_arms", Value: true, DataType: types.DataTypeBoolean},
		{Name: "material", Value: "mat-oak-01", DataType: types.DataTypeMaterial},
		{Name: "tilt", Value: 12.5, DataType: types.DataTypeAngle, Min: types.Float(0), Max: types.Float(10)},
		{Name: "label", Value: "x", DataType: types.DataTypeText, Formula: "tilt * 2"},
	}

	ev, err := engine.Evaluate(params, map[string]float64{"finish": 3})
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}

	if ev.Values["finish"] != "walnut" {
		t.Errorf("finish = %v, want walnut (overrides ignored for text)", ev.Values["finish"])
	}
	if ev.Values["has_arms"] != true {
		t.Errorf("has_arms = %v, want true", ev.Values["has_arms"])
	}
	if ev.Values["material"] != "mat-oak-01" {
		t.Errorf("material = %v, want mat-oak-01", ev.Values["material"])
	}
	if ev.Values["tilt"] != 10.0 {
		t.Errorf("tilt = %v, want 10 (angle clamps)", ev.Values["tilt"])
	}
	if ev.Values["label"] != "x" {
		t.Errorf("label = %v, want x (formula ignored for text)", ev.Values["label"])
	}
	if len(ev.Values) != len(params) {
		t.Errorf("len(Values) = %d, want %d", len(ev.Values), len(params))
	}
}

func TestEvaluate_FailuresAreContained(t *testing.T) {
	engine := NewEngine(nil, Options{})
	params := []types.Parameter{
		{Name: "width", Value: 10},
		{Name: "unresolved", Formula: "width * ghost"},
		{Name: "broken", Formula: "width *"},
		{Name: "infinite", Formula: "width / 0"},
		{Name: "bad_literal", Value: "wide"},
		{Name: "dependent", Formula: "unresolved + width"},
	}

	ev, err := engine.Evaluate(params, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}

	for _, name := range []string{"unresolved", "broken", "infinite", "bad_literal"} {
		if ev.Values[name] != 0.0 {
			t.Errorf("%s = %v, want 0", name, ev.Values[name])
		}
	}
	if ev.Values["dependent"] != 10.0 {
		t.Errorf("dependent = %v, want 10", ev.Values["dependent"])
	}

	if len(ev.Failures) != 4 {
		t.Fatalf("len(Failures) = %d, want 4: %v", len(ev.Failures), ev.Failures)
	}
	wantErrs := map[string]error{
		"unresolved":  types.ErrVariableNotFound,
		"broken":      types.ErrSyntax,
		"infinite":    types.ErrNonFinite,
		"bad_literal": types.ErrCoercionFailed,
	}
	for _, f := range ev.Failures {
		if !errors.Is(f.Err, wantErrs[f.Parameter]) {
			t.Errorf("failure %s err = %v, want %v", f.Parameter, f.Err, wantErrs[f.Parameter])
		}
		if f.Reason == "" {
			t.Errorf("failure %s has empty reason", f.Parameter)
		}
	}
}

func TestEvaluate_StrictFormulas(t *testing.T) {
	engine := NewEngine(nil, Options{StrictFormulas: true})
	params := []types.Parameter{
		{Name: "width", Value: 10},
		{Name: "depth", Formula: "width * ghost"},
	}

	ev, err := engine.Evaluate(params, nil)
	if ev != nil {
		t.Errorf("Evaluate() result = %v, want nil", ev)
	}
	if !errors.Is(err, types.ErrFormulaFailed) {
		t.Fatalf("Evaluate() error = %v, want ErrFormulaFailed", err)
	}
	var failed *EvaluationFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error type = %T, want *EvaluationFailedError", err)
	}
	if len(failed.Failures) != 1 || failed.Failures[0].Parameter != "depth" {
		t.Errorf("Failures = %v, want [depth]", failed.Failures)
	}
}

func TestEvaluate_StrictFormulasCleanRun(t *testing.T) {
	engine := NewEngine(nil, Options{StrictFormulas: true})
	ev, err := engine.Evaluate([]types.Parameter{{Name: "a", Value: 1}, {Name: "b", Formula: "a + 1"}}, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
	if ev.Values["b"] != 2.0 {
		t.Errorf("b = %v, want 2", ev.Values["b"])
	}
}

func TestEvaluate_TooManyParameters(t *testing.T) {
	engine := NewEngine(nil, Options{MaxParameters: 1})
	_, err := engine.Evaluate([]types.Parameter{{Name: "a"}, {Name: "b"}}, nil)
	if !errors.Is(err, types.ErrTooManyParameters) {
		t.Errorf("Evaluate() error = %v, want ErrTooManyParameters", err)
	}
}

func TestEvaluate_UnsetNumericIsZero(t *testing.T) {
	engine := NewEngine(nil, Options{})
	ev, err := engine.Evaluate([]types.Parameter{{Name: "a"}}, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v, want nil", err)
	}
	if ev.Values["a"] != 0.0 || len(ev.Failures) != 0 {
		t.Errorf("a = %v, failures = %v; want 0 and none", ev.Values["a"], ev.Failures)
	}
}

func TestEvaluation_Number(t *testing.T) {
	ev := &Evaluation{Values: map[string]any{"w": 3.0, "finish": "oak"}}
	if v, ok := ev.Number("w"); !ok || v != 3 {
		t.Errorf("Number(w) = %v, %v; want 3, true", v, ok)
	}
	if _, ok := ev.Number("finish"); ok {
		t.Errorf("Number(finish) ok = true, want false")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		lo, hi *float64
		want   float64
	}{
		{name: "below", v: -1, lo: types.Float(0), hi: types.Float(10), want: 0},
		{name: "above", v: 11, lo: types.Float(0), hi: types.Float(10), want: 10},
		{name: "inside", v: 5, lo: types.Float(0), hi: types.Float(10), want: 5},
		{name: "on bound", v: 10, lo: types.Float(0), hi: types.Float(10), want: 10},
		{name: "no bounds", v: 99, want: 99},
		{name: "max only", v: 99, hi: types.Float(10), want: 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_NonFiniteLiteralFails(t *testing.T) {
	engine := NewEngine(nil, Options{})
	ev, err := engine.Evaluate([]types.Parameter{
		{Name: "a", Value: "NaN"},
		{Name: "b", Value: "+Inf", Min: types.Float(0), Max: types.Float(10)},
	}, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if ev.Values["a"] != 0.0 {
		t.Errorf("a = %v, want 0", ev.Values["a"])
	}
	if ev.Values["b"] != 0.0 {
		t.Errorf("b = %v, want 0 (failure value is clamped, not the infinity)", ev.Values["b"])
	}
	if len(ev.Failures) != 2 || !errors.Is(ev.Failures[0].Err, types.ErrNonFinite) {
		t.Errorf("Failures = %+v, want two non-finite failures", ev.Failures)
	}
}
