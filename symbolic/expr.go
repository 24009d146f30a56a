// Package symbolic is the exact-arithmetic expression kernel used by ndspace.
//
// It covers what the subspace hierarchy needs from a computer algebra system:
//   - Exact rational arithmetic (math/big.Rat) with pi as a symbolic constant
//   - Deterministic simplification and stable output
//   - Simultaneous substitution and free-symbol queries
//   - Equality predicates and conjunctions that fold to literals when decidable
//   - Least-squares solving of linear systems with symbolic right-hand sides
//   - An infix parser and a JSON tree codec
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f exactly; 0.25 becomes 1/4. It panics on NaN or infinity.
func NFloat(f float64) *Num {
	n, ok := numFloat(f)
	if !ok {
		panic(fmt.Sprintf("symbolic: %v is not a finite number", f))
	}
	return n
}

// NRat wraps a copy of r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func numFloat(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}, true
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct {
	name  string
	dummy bool
}

func S(name string) *Sym { return &Sym{name: name} }

// Dummy returns a fresh symbol whose name cannot collide with any other
// symbol, user-written or generated. Solvers use it for free parameters.
func Dummy(base string) *Sym {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Sym{name: base + "_" + id[:12], dummy: true}
}

// Syms is shorthand for building several symbols at once.
func Syms(names ...string) []*Sym {
	out := make([]*Sym, len(names))
	for i, n := range names {
		out[i] = S(n)
	}
	return out
}

func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) IsDummy() bool         { return s.dummy }
func (s *Sym) toJSON() map[string]interface{} {
	m := map[string]interface{}{"type": "sym", "name": s.name}
	if s.dummy {
		m["dummy"] = true
	}
	return m
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

// ============================================================
// Const — named irrational constant
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
}

// Pi is the circle constant. It stays symbolic; trig functions of rational
// multiples of Pi with small denominators fold to exact values.
var Pi = &Const{name: "pi", latex: `\pi`, value: math.Pi}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Eval() (*Num, bool)    { return numFloat(c.value) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

func constByName(name string) (*Const, bool) {
	if name == Pi.name {
		return Pi, true
	}
	return nil, false
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// NonzeroConstant reports whether e has no free symbols and is provably
// nonzero, either from the signs of its parts or from outward-rounded
// bounds that exclude zero. An expression such as sin(1)^2 + cos(1)^2 - 1
// is not judged either way.
func NonzeroConstant(e Expr) bool {
	s, ok := signOf(e.Simplify())
	return ok && s != 0
}

// constSign returns the sign of a constant expression when it follows from
// the signs of its parts.
func constSign(e Expr) (int, bool) {
	switch v := e.(type) {
	case *Num:
		return v.val.Sign(), true
	case *Const:
		return 1, true
	case *Mul:
		sign := 1
		for _, f := range v.factors {
			fs, ok := constSign(f)
			if !ok {
				return 0, false
			}
			sign *= fs
		}
		return sign, true
	case *Add:
		sign := 0
		for _, t := range v.terms {
			ts, ok := constSign(t)
			if !ok || (ts != 0 && sign != 0 && ts != sign) {
				return 0, false
			}
			if ts != 0 {
				sign = ts
			}
		}
		return sign, true
	case *Pow:
		bs, ok := constSign(v.base)
		if !ok {
			return 0, false
		}
		if _, ok := constSign(v.exp); !ok {
			return 0, false
		}
		switch {
		case bs > 0:
			return 1, true
		case bs < 0:
			if n, ok := v.exp.(*Num); ok && n.IsInteger() {
				if n.val.Num().Bit(0) == 0 {
					return 1, true
				}
				return -1, true
			}
		}
	case *Func:
		if len(v.args) != 1 {
			return 0, false
		}
		as, ok := constSign(v.args[0])
		if !ok {
			return 0, false
		}
		switch v.name {
		case "exp", "cosh":
			return 1, true
		case "abs":
			if as != 0 {
				return 1, true
			}
			return 0, true
		case "sign", "sinh", "tanh", "atan", "asin":
			return as, true
		}
	}
	return 0, false
}
