// internal/parametric/units.go
package parametric

import "strings"

// conversions holds direct factors between supported length units.
// Factors are stored per pair rather than via a base unit so common
// conversions like 12in -> 1ft come out exact.
var conversions = map[string]map[string]float64{
	"in": {"ft": 1.0 / 12, "mm": 25.4, "cm": 2.54, "m": 0.0254},
	"ft": {"in": 12, "mm": 304.8, "cm": 30.48, "m": 0.3048},
	"mm": {"in": 1 / 25.4, "ft": 1 / 304.8, "cm": 0.1, "m": 0.001},
	"cm": {"in": 1 / 2.54, "ft": 1 / 30.48, "mm": 10, "m": 0.01},
	"m":  {"in": 1 / 0.0254, "ft": 1 / 0.3048, "mm": 1000, "cm": 100},
}

// Convert converts value between length units. ok is false for an unknown
// pair, in which case value is returned unchanged.
func Convert(value float64, from, to string) (float64, bool) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == to {
		return value, true
	}
	factor, ok := conversions[from][to]
	if !ok {
		return value, false
	}
	return value * factor, true
}

// Units lists the supported unit names.
func Units() []string {
	return []string{"in", "ft", "mm", "cm", "m"}
}

// ConvertUnit converts value between length units. Unknown pairs log a
// warning and return value unchanged; it never fails.
func (e *Engine) ConvertUnit(value float64, from, to string) float64 {
	out, ok := Convert(value, from, to)
	if !ok {
		e.logger.Warn("unknown unit conversion", "from", from, "to", to)
	}
	return out
}
