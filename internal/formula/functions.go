// internal/formula/functions.go
package formula

import "math"

/*
 * Whitelisted math vocabulary.
 *
 * Static table of callable functions and named constants. The parser checks
 * calls against this table at parse time, so an evaluated formula can only
 * ever reach these implementations. Identifiers found here (and the literals
 * true/false) are never reported as formula variables.
 *
 * round follows half-up semantics (floor(x + 0.5)) so -2.5 rounds to -2,
 * matching how the browser front-end rounds slider values.
 */

// variadic marks a function accepting one or more arguments.
const variadic = -1

type function struct {
	arity int // exact argument count, or variadic
	call  func(args []float64) float64
}

var functions = map[string]function{
	"abs":   {arity: 1, call: func(a []float64) float64 { return math.Abs(a[0]) }},
	"sqrt":  {arity: 1, call: func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"pow":   {arity: 2, call: func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"min":   {arity: variadic, call: minOf},
	"max":   {arity: variadic, call: maxOf},
	"floor": {arity: 1, call: func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {arity: 1, call: func(a []float64) float64 { return math.Ceil(a[0]) }},
	"round": {arity: 1, call: func(a []float64) float64 { return math.Floor(a[0] + 0.5) }},
	"sin":   {arity: 1, call: func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":   {arity: 1, call: func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":   {arity: 1, call: func(a []float64) float64 { return math.Tan(a[0]) }},
}

var constants = map[string]float64{
	"PI": math.Pi,
	"E":  math.E,
}

// minOf and maxOf propagate NaN like their browser counterparts.
func minOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		if math.IsNaN(v) {
			return v
		}
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(args []float64) float64 {
	m := args[0]
	for _, v := range args[1:] {
		if math.IsNaN(v) {
			return v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// IsReserved reports whether name belongs to the built-in vocabulary and can
// therefore never be a parameter reference.
func IsReserved(name string) bool {
	if _, ok := functions[name]; ok {
		return true
	}
	if _, ok := constants[name]; ok {
		return true
	}
	return name == "true" || name == "false"
}
