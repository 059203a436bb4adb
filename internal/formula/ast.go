// internal/formula/ast.go
package formula

import "math"

/*
 * Formula AST and interpreter.
 *
 * Nodes evaluate directly over a float64 context; there is no code
 * generation. Booleans are numbers: comparisons and logical negation yield
 * 1 or 0, and truthiness is "non-zero and not NaN".
 *
 * && and || return the deciding operand rather than 1/0 (so "0 || 5" is 5),
 * matching the value semantics formulas were written against. Variables are
 * checked for presence before evaluation starts (see Formula.Evaluate), so
 * short-circuiting never hides a missing variable.
 */

type node interface {
	eval(ctx map[string]float64) float64
}

type numberNode struct {
	value float64
}

func (n numberNode) eval(map[string]float64) float64 { return n.value }

type identNode struct {
	name string
}

func (n identNode) eval(ctx map[string]float64) float64 { return ctx[n.name] }

type unaryNode struct {
	op      string
	operand node
}

func (n unaryNode) eval(ctx map[string]float64) float64 {
	v := n.operand.eval(ctx)
	switch n.op {
	case "-":
		return -v
	case "!":
		return boolValue(!truthy(v))
	default:
		return v
	}
}

type binaryNode struct {
	op          string
	left, right node
}

func (n binaryNode) eval(ctx map[string]float64) float64 {
	l := n.left.eval(ctx)
	switch n.op {
	case "&&":
		if !truthy(l) {
			return l
		}
		return n.right.eval(ctx)
	case "||":
		if truthy(l) {
			return l
		}
		return n.right.eval(ctx)
	}

	r := n.right.eval(ctx)
	switch n.op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return math.Mod(l, r)
	case "<":
		return boolValue(l < r)
	case "<=":
		return boolValue(l <= r)
	case ">":
		return boolValue(l > r)
	case ">=":
		return boolValue(l >= r)
	case "==", "===":
		return boolValue(l == r)
	case "!=", "!==":
		return boolValue(l != r)
	default:
		return math.NaN()
	}
}

type ternaryNode struct {
	cond, then, otherwise node
}

func (n ternaryNode) eval(ctx map[string]float64) float64 {
	if truthy(n.cond.eval(ctx)) {
		return n.then.eval(ctx)
	}
	return n.otherwise.eval(ctx)
}

type callNode struct {
	fn   function
	args []node
}

func (n callNode) eval(ctx map[string]float64) float64 {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		vals[i] = a.eval(ctx)
	}
	return n.fn.call(vals)
}

// Truthy reports whether v counts as true: non-zero and not NaN.
func Truthy(v float64) bool {
	return truthy(v)
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
