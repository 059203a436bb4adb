// internal/formula/parser.go
package formula

import (
	"fmt"

	"github.com/solatis/parametrix/internal/types"
)

/*
 * Recursive-descent formula parser.
 *
 * Grammar, lowest precedence first:
 *
 *   expr       = logicalOr [ "?" expr ":" expr ]
 *   logicalOr  = logicalAnd { "||" logicalAnd }
 *   logicalAnd = equality { "&&" equality }
 *   equality   = relational { ("==" | "!=" | "===" | "!==") relational }
 *   relational = additive { ("<" | "<=" | ">" | ">=") additive }
 *   additive   = term { ("+" | "-") term }
 *   term       = unary { ("*" | "/" | "%") unary }
 *   unary      = ("-" | "+" | "!") unary | primary
 *   primary    = number | "true" | "false" | constant | call | ident | "(" expr ")"
 *   call       = function "(" expr { "," expr } ")"
 *
 * Resource limits (types.MaxFormulaDepth, types.MaxFormulaNodes) are enforced
 * while parsing so a hostile formula fails before it is ever evaluated.
 * Function names are resolved against the static whitelist here; an unknown
 * call is a parse error, an unknown bare identifier is a variable.
 */

type parser struct {
	tokens    []token
	pos       int
	depth     int
	nodes     int
	variables []string
	seen      map[string]bool
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// accept consumes the next token if it is one of ops.
func (p *parser) accept(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) expect(op string) error {
	if _, ok := p.accept(op); ok {
		return nil
	}
	return p.unexpected(fmt.Sprintf("expected %q", op))
}

func (p *parser) unexpected(msg string) error {
	t := p.peek()
	if t.kind == tokEOF {
		return &SyntaxError{Pos: t.pos, Msg: msg + ", got end of formula"}
	}
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("%s, got %q", msg, t.text)}
}

// add counts an AST node against types.MaxFormulaNodes.
func (p *parser) add(n node) (node, error) {
	p.nodes++
	if p.nodes > types.MaxFormulaNodes {
		return nil, types.ErrFormulaTooComplex
	}
	return n, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > types.MaxFormulaDepth {
		return types.ErrFormulaTooDeep
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseExpr() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept("?"); !ok {
		return cond, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return p.add(ternaryNode{cond: cond, then: then, otherwise: otherwise})
}

// precedence lists binary operator levels from loosest to tightest.
var precedence = [][]string{
	{"||"},
	{"&&"},
	{"==", "!=", "===", "!=="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

// parseBinary parses a left-associative chain at the given precedence level.
func (p *parser) parseBinary(level int) (node, error) {
	if level == len(precedence) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept(precedence[level]...)
		if !ok {
			return left, nil
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left, err = p.add(binaryNode{op: op, left: left, right: right})
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	op, ok := p.accept("-", "+", "!")
	if !ok {
		return p.parsePrimary()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.add(unaryNode{op: op, operand: operand})
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		return p.add(numberNode{value: t.num})
	case tokIdent:
		p.next()
		return p.parseIdent(t)
	case tokOp:
		if t.text == "(" {
			p.next()
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, p.unexpected("expected number, name or \"(\"")
}

func (p *parser) parseIdent(t token) (node, error) {
	switch t.text {
	case "true":
		return p.add(numberNode{value: 1})
	case "false":
		return p.add(numberNode{value: 0})
	}
	if v, ok := constants[t.text]; ok {
		return p.add(numberNode{value: v})
	}

	if _, ok := p.accept("("); ok {
		return p.parseCall(t)
	}
	if _, ok := functions[t.text]; ok {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("function %q used without arguments", t.text)}
	}

	if !p.seen[t.text] {
		p.seen[t.text] = true
		p.variables = append(p.variables, t.text)
	}
	return p.add(identNode{name: t.text})
}

// parseCall parses arguments after the opening parenthesis of a call.
func (p *parser) parseCall(name token) (node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownFunction, name.text)
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var args []node
	if _, ok := p.accept(")"); !ok {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if len(args) > types.MaxFunctionArgs {
				return nil, fmt.Errorf("%w: %s takes at most %d arguments", types.ErrArity, name.text, types.MaxFunctionArgs)
			}
			if _, ok := p.accept(","); !ok {
				break
			}
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
	}

	switch {
	case fn.arity == variadic && len(args) == 0:
		return nil, fmt.Errorf("%w: %s needs at least 1 argument", types.ErrArity, name.text)
	case fn.arity != variadic && len(args) != fn.arity:
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", types.ErrArity, name.text, fn.arity, len(args))
	}
	return p.add(callNode{fn: fn, args: args})
}
