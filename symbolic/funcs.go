package symbolic

import (
	"math"
	"math/big"
	"strings"
)

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	args []Expr
}

func funcOf(name string, args ...Expr) *Func { return &Func{name: name, args: args} }

func SinOf(arg Expr) Expr    { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr    { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr    { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr    { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr     { return funcOf("ln", arg).Simplify() }
func AbsOf(arg Expr) Expr    { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr   { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr   { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr   { return funcOf("atan", arg).Simplify() }
func Atan2Of(y, x Expr) Expr { return funcOf("atan2", y, x).Simplify() }
func SinhOf(arg Expr) Expr   { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr   { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr   { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr  { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr   { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr   { return funcOf("sign", arg).Simplify() }

// PiTimes returns q*pi.
func PiTimes(q *Num) Expr { return MulOf(q, Pi) }

var funcArities = map[string]int{
	"sin": 1, "cos": 1, "tan": 1, "exp": 1, "ln": 1, "abs": 1,
	"asin": 1, "acos": 1, "atan": 1, "atan2": 2,
	"sinh": 1, "cosh": 1, "tanh": 1, "floor": 1, "ceil": 1, "sign": 1,
}

var unaryFloat = map[string]func(float64) float64{
	"sin": math.Sin, "cos": math.Cos, "tan": math.Tan, "exp": math.Exp,
	"ln": math.Log, "abs": math.Abs, "asin": math.Asin, "acos": math.Acos,
	"atan": math.Atan, "sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
	"floor": math.Floor, "ceil": math.Ceil,
}

func (f *Func) Simplify() Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Simplify()
	}
	if f.name == "atan2" && len(args) == 2 {
		if r, ok := simplifyAtan2(args[0], args[1]); ok {
			return r
		}
		return &Func{name: f.name, args: args}
	}
	if len(args) != 1 {
		return &Func{name: f.name, args: args}
	}
	arg := args[0]

	switch f.name {
	case "sin", "cos", "tan":
		if q, ok := piMultiple(arg); ok {
			if r, ok := exactTrig(f.name, q); ok {
				return r
			}
		}
	}

	if n, ok := arg.(*Num); ok {
		switch f.name {
		case "sign":
			return N(int64(n.val.Sign()))
		case "abs":
			if n.IsNegative() {
				return numNeg(n)
			}
			return n
		case "floor", "ceil":
			q, r := new(big.Int).QuoRem(n.val.Num(), n.val.Denom(), new(big.Int))
			if f.name == "floor" && r.Sign() < 0 {
				q.Sub(q, big.NewInt(1))
			}
			if f.name == "ceil" && r.Sign() > 0 {
				q.Add(q, big.NewInt(1))
			}
			return &Num{val: new(big.Rat).SetInt(q)}
		}
		if r, ok := exactInverseTrig(f.name, n); ok {
			return r
		}
	}
	switch f.name {
	case "ln":
		if n2, ok := arg.(*Num); ok && n2.IsOne() {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.args[0]
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.args[0]
		}
	case "abs":
		if m, ok := arg.(*Mul); ok && len(m.factors) >= 1 {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				inner := m.factors[1:]
				if len(inner) == 1 {
					return AbsOf(inner[0])
				}
				return AbsOf(MulOf(inner...))
			}
		}
	}
	return &Func{name: f.name, args: args}
}

// exactInverseTrig folds the remaining functions at the few rational
// arguments where the value is 0, 1 or a simple multiple of pi. Other
// numeric arguments stay symbolic.
func exactInverseTrig(name string, n *Num) (Expr, bool) {
	switch {
	case n.IsZero():
		switch name {
		case "exp", "cosh":
			return N(1), true
		case "asin", "atan", "sinh", "tanh":
			return N(0), true
		case "acos":
			return PiTimes(F(1, 2)), true
		}
	case n.IsOne():
		switch name {
		case "asin":
			return PiTimes(F(1, 2)), true
		case "acos":
			return N(0), true
		case "atan":
			return PiTimes(F(1, 4)), true
		}
	case n.IsNegOne():
		switch name {
		case "asin":
			return PiTimes(F(-1, 2)), true
		case "acos":
			return Pi, true
		case "atan":
			return PiTimes(F(-1, 4)), true
		}
	}
	return nil, false
}

// piMultiple recognises q*pi for rational q.
func piMultiple(e Expr) (*big.Rat, bool) {
	switch v := e.(type) {
	case *Num:
		if v.IsZero() {
			return new(big.Rat), true
		}
	case *Const:
		if v == Pi || v.name == Pi.name {
			return big.NewRat(1, 1), true
		}
	case *Mul:
		if len(v.factors) == 2 {
			c, okc := v.factors[0].(*Num)
			k, okk := v.factors[1].(*Const)
			if okc && okk && k.name == Pi.name {
				return c.Rat(), true
			}
		}
	}
	return nil, false
}

// exactTrig evaluates sin, cos or tan at q*pi when q has denominator 1, 2,
// 3, 4 or 6.
func exactTrig(name string, q *big.Rat) (Expr, bool) {
	switch name {
	case "sin":
		return exactSin(q)
	case "cos":
		return exactSin(new(big.Rat).Add(q, big.NewRat(1, 2)))
	case "tan":
		s, ok1 := exactSin(q)
		c, ok2 := exactSin(new(big.Rat).Add(q, big.NewRat(1, 2)))
		if !ok1 || !ok2 || isNumEqual(c, 0) {
			return nil, false
		}
		return MulOf(s, PowOf(c, N(-1))), true
	}
	return nil, false
}

func exactSin(q *big.Rat) (Expr, bool) {
	d := q.Denom()
	if !d.IsInt64() {
		return nil, false
	}
	switch d.Int64() {
	case 1, 2, 3, 4, 6:
	default:
		return nil, false
	}
	// Reduce to [0, 2).
	two := big.NewRat(2, 1)
	turns := new(big.Rat).Quo(q, two)
	whole := new(big.Int).Div(turns.Num(), turns.Denom())
	r := new(big.Rat).Sub(q, new(big.Rat).Mul(two, new(big.Rat).SetInt(whole)))

	sign := int64(1)
	one := big.NewRat(1, 1)
	if r.Cmp(one) >= 0 {
		sign = -1
		r.Sub(r, one)
	}
	if r.Cmp(big.NewRat(1, 2)) > 0 {
		r.Sub(one, r)
	}
	var v Expr
	switch r.RatString() {
	case "0":
		v = N(0)
	case "1/6":
		v = F(1, 2)
	case "1/4":
		v = MulOf(F(1, 2), SqrtOf(N(2)))
	case "1/3":
		v = MulOf(F(1, 2), SqrtOf(N(3)))
	case "1/2":
		v = N(1)
	default:
		return nil, false
	}
	return MulOf(N(sign), v), true
}

// simplifyAtan2 folds atan2 on the axes and the diagonals when the signs
// of both arguments are known.
func simplifyAtan2(y, x Expr) (Expr, bool) {
	ys, xs := y.Simplify(), x.Simplify()
	ysg, yok := signOf(ys)
	xsg, xok := signOf(xs)
	if !yok || !xok {
		return nil, false
	}
	switch {
	case ysg == 0 && xsg > 0:
		return N(0), true
	case ysg == 0 && xsg < 0:
		return Pi, true
	case xsg == 0 && ysg > 0:
		return PiTimes(F(1, 2)), true
	case xsg == 0 && ysg < 0:
		return PiTimes(F(-1, 2)), true
	case ys.Equal(xs) && xsg > 0:
		return PiTimes(F(1, 4)), true
	case ys.Equal(xs) && xsg < 0:
		return PiTimes(F(-3, 4)), true
	case isNumEqual(Expand(AddOf(ys, xs)), 0) && xsg > 0:
		return PiTimes(F(-1, 4)), true
	case isNumEqual(Expand(AddOf(ys, xs)), 0) && xsg < 0:
		return PiTimes(F(3, 4)), true
	}
	return nil, false
}

func (f *Func) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Func) LaTeX() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.LaTeX()
	}
	arg := strings.Join(parts, ", ")
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + arg + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + arg + "\\right)"
	case "acos":
		return "\\arccos\\left(" + arg + "\\right)"
	case "atan":
		return "\\arctan\\left(" + arg + "\\right)"
	case "abs":
		return "\\left|" + arg + "\\right|"
	case "floor":
		return "\\lfloor " + arg + " \\rfloor"
	case "ceil":
		return "\\lceil " + arg + " \\rceil"
	}
	return "\\operatorname{" + f.name + "}\\left(" + arg + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Sub(varName, value)
	}
	return funcOf(f.name, args...).Simplify()
}

func (f *Func) Eval() (*Num, bool) {
	vals := make([]float64, len(f.args))
	for i, a := range f.args {
		n, ok := a.Eval()
		if !ok {
			return nil, false
		}
		vals[i] = n.Float64()
	}
	if f.name == "atan2" && len(vals) == 2 {
		return numFloat(math.Atan2(vals[0], vals[1]))
	}
	if len(vals) != 1 {
		return nil, false
	}
	if f.name == "sign" {
		switch {
		case vals[0] > 0:
			return N(1), true
		case vals[0] < 0:
			return N(-1), true
		}
		return N(0), true
	}
	fn, ok := unaryFloat[f.name]
	if !ok {
		return nil, false
	}
	return numFloat(fn(vals[0]))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	if !ok || f.name != o.name || len(f.args) != len(o.args) {
		return false
	}
	for i := range f.args {
		if !f.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	args := make([]map[string]interface{}, len(f.args))
	for i, a := range f.args {
		args[i] = a.toJSON()
	}
	return map[string]interface{}{"type": "func", "name": f.name, "args": args}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Args() []Expr     { return append([]Expr(nil), f.args...) }
