package parametric

import (
	"math"
	"testing"
)

func TestConvertUnit(t *testing.T) {
	engine := NewEngine(nil, Options{})

	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{name: "inches to feet", value: 12, from: "in", to: "ft", want: 1},
		{name: "feet to inches", value: 2, from: "ft", to: "in", want: 24},
		{name: "inches to mm", value: 1, from: "in", to: "mm", want: 25.4},
		{name: "meters to cm", value: 1.5, from: "m", to: "cm", want: 150},
		{name: "cm to mm", value: 3, from: "cm", to: "mm", want: 30},
		{name: "mm to m", value: 2500, from: "mm", to: "m", want: 2.5},
		{name: "same unit", value: 7, from: "cm", to: "cm", want: 7},
		{name: "case and space insensitive", value: 12, from: " IN", to: "Ft ", want: 1},
		{name: "unknown target", value: 5, from: "in", to: "parsecs", want: 5},
		{name: "unknown source", value: 5, from: "furlong", to: "m", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ConvertUnit(tt.value, tt.from, tt.to)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConvertUnit(%v, %q, %q) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvert_ExactInchesToFeet(t *testing.T) {
	got, ok := Convert(12, "in", "ft")
	if !ok || got != 1 {
		t.Errorf("Convert(12, in, ft) = %v, %v; want exactly 1, true", got, ok)
	}
}

func TestConvert_UnknownPair(t *testing.T) {
	got, ok := Convert(5, "in", "parsecs")
	if ok {
		t.Errorf("ok = true, want false")
	}
	if got != 5 {
		t.Errorf("Convert() = %v, want 5 unchanged", got)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	for _, from := range Units() {
		for _, to := range Units() {
			there, ok := Convert(100, from, to)
			if !ok {
				t.Fatalf("Convert(%s -> %s) unsupported", from, to)
			}
			back, _ := Convert(there, to, from)
			if math.Abs(back-100) > 1e-9 {
				t.Errorf("round trip %s -> %s -> %s = %v, want 100", from, to, from, back)
			}
		}
	}
}
