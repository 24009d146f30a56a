package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ============================================================
// Infix parser
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret // "^" or "**"
	tokLParen
	tokRParen
	tokComma
	tokEq  // "=="
	tokAnd // "&&"
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
			continue
		case unicode.IsDigit(c) || c == '.':
			start := i
			for i < len(src) && (unicode.IsDigit(rune(src[i])) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{tokNumber, src[start:i], start})
			continue
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(src) && (unicode.IsLetter(rune(src[i])) || unicode.IsDigit(rune(src[i])) || src[i] == '_') {
				i++
			}
			toks = append(toks, token{tokIdent, src[start:i], start})
			continue
		}
		two := ""
		if i+1 < len(src) {
			two = src[i : i+2]
		}
		switch two {
		case "**":
			toks = append(toks, token{tokCaret, two, i})
			i += 2
			continue
		case "==":
			toks = append(toks, token{tokEq, two, i})
			i += 2
			continue
		case "&&":
			toks = append(toks, token{tokAnd, two, i})
			i += 2
			continue
		}
		kinds := map[byte]tokenKind{
			'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
			'^': tokCaret, '(': tokLParen, ')': tokRParen, ',': tokComma,
		}
		k, ok := kinds[src[i]]
		if !ok {
			return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrParse, src[i], i)
		}
		toks = append(toks, token{k, src[i : i+1], i})
		i++
	}
	return append(toks, token{tokEOF, "", len(src)}), nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) need(k tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != k {
		return t, p.unexpected(t, what)
	}
	return t, nil
}

func (p *parser) unexpected(t token, want string) error {
	if t.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of input, want %s", ErrParse, want)
	}
	return fmt.Errorf("%w: unexpected %q at %d, want %s", ErrParse, t.text, t.pos, want)
}

// Binding powers; ^ is right-associative and binds tighter than unary minus.
const (
	bpSum     = 10
	bpProduct = 20
	bpUnary   = 25
	bpPower   = 30
)

func lbp(k tokenKind) int {
	switch k {
	case tokPlus, tokMinus:
		return bpSum
	case tokStar, tokSlash:
		return bpProduct
	case tokCaret:
		return bpPower
	}
	return 0
}

func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		bp := lbp(t.kind)
		if bp <= minBP {
			return left, nil
		}
		p.next()
		rbp := bp
		if t.kind == tokCaret {
			rbp = bp - 1
		}
		right, err := p.expr(rbp)
		if err != nil {
			return nil, err
		}
		switch t.kind {
		case tokPlus:
			left = AddOf(left, right)
		case tokMinus:
			left = AddOf(left, MulOf(N(-1), right))
		case tokStar:
			left = MulOf(left, right)
		case tokSlash:
			if isNumEqual(right, 0) {
				return nil, fmt.Errorf("%w: division by zero at %d", ErrParse, t.pos)
			}
			left = MulOf(left, PowOf(right, N(-1)))
		case tokCaret:
			left = PowOf(left, right)
		}
	}
}

func (p *parser) prefix() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokMinus:
		operand, err := p.expr(bpUnary)
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), operand), nil
	case tokPlus:
		return p.expr(bpUnary)
	case tokNumber:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q at %d", ErrParse, t.text, t.pos)
		}
		return &Num{val: r}, nil
	case tokLParen:
		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return e, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.call(t)
		}
		if c, ok := constByName(t.text); ok {
			return c, nil
		}
		return S(t.text), nil
	}
	return nil, p.unexpected(t, "expression")
}

func (p *parser) call(name token) (Expr, error) {
	p.next() // "("
	var args []Expr
	if p.peek().kind != tokRParen {
		for {
			a, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.need(tokRParen, `")"`); err != nil {
		return nil, err
	}
	fn := strings.ToLower(name.text)
	switch fn {
	case "sqrt":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: sqrt takes 1 argument, got %d", ErrParse, len(args))
		}
		return SqrtOf(args[0]), nil
	case "log":
		fn = "ln"
	}
	arity, ok := funcArities[fn]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q at %d", ErrParse, name.text, name.pos)
	}
	if len(args) != arity {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrParse, fn, arity, len(args))
	}
	return funcOf(fn, args...).Simplify(), nil
}

func (p *parser) pred() (Pred, error) {
	var parts []Pred
	for {
		part, err := p.atomPred()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
		if p.peek().kind != tokAnd {
			break
		}
		p.next()
	}
	return Conjoin(parts...), nil
}

func (p *parser) atomPred() (Pred, error) {
	t := p.peek()
	if t.kind == tokIdent {
		switch t.text {
		case "true", "True":
			p.next()
			return True, nil
		case "false", "False":
			p.next()
			return False, nil
		}
	}
	lhs, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(tokEq, `"=="`); err != nil {
		return nil, err
	}
	rhs, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	return Eq(lhs, rhs), nil
}

// Parse reads an infix expression such as "r*cos(t) + 2^x". Decimal
// literals are exact: "0.25" is 1/4. The identifier "pi" is Pi.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t, "end of input")
	}
	return e, nil
}

// ParsePred reads a conjunction of equalities such as "x == 1 && y == z",
// or a literal "true" / "false".
func ParsePred(src string) (Pred, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	pr, err := p.pred()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t, "end of input")
	}
	return pr, nil
}

// MustParse is Parse for literals known to be valid; it panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseAll parses each string in srcs.
func ParseAll(srcs []string) ([]Expr, error) {
	out := make([]Expr, len(srcs))
	for i, s := range srcs {
		e, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("item %d %q: %w", i, s, err)
		}
		out[i] = e
	}
	return out, nil
}

// MustParseAll is ParseAll for literals known to be valid; it panics on error.
func MustParseAll(srcs ...string) []Expr {
	es, err := ParseAll(srcs)
	if err != nil {
		panic(err)
	}
	return es
}
