package symbolic

import "math"

// ============================================================
// Interval bounds for constant expressions
// ============================================================

// interval encloses the exact value of a constant expression. Every float
// step rounds outward, so a bound that excludes zero proves the value is
// nonzero.
type interval struct{ lo, hi float64 }

// libmErr bounds the relative error of the math package's elementary
// functions, with headroom.
const libmErr = 1e-14

func down(f float64) float64 { return math.Nextafter(f, math.Inf(-1)) }
func up(f float64) float64   { return math.Nextafter(f, math.Inf(1)) }

func pointBounds(f float64) (interval, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return interval{}, false
	}
	return interval{lo: down(f), hi: up(f)}, true
}

func (a interval) finite() bool {
	return !math.IsNaN(a.lo) && !math.IsNaN(a.hi) && !math.IsInf(a.lo, 0) && !math.IsInf(a.hi, 0)
}

func (a interval) add(b interval) interval {
	return interval{lo: down(a.lo + b.lo), hi: up(a.hi + b.hi)}
}

func (a interval) mul(b interval) interval {
	p := [4]float64{a.lo * b.lo, a.lo * b.hi, a.hi * b.lo, a.hi * b.hi}
	lo, hi := p[0], p[0]
	for _, v := range p[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return interval{lo: down(lo), hi: up(hi)}
}

// widen grows a by the libm error of values of its magnitude plus abs.
func (a interval) widen(abs float64) interval {
	return interval{
		lo: down(a.lo - math.Abs(a.lo)*libmErr - abs),
		hi: up(a.hi + math.Abs(a.hi)*libmErr + abs),
	}
}

// bounds encloses a constant expression. It reports false for expressions
// with free symbols or functions it cannot bound.
func bounds(e Expr) (interval, bool) {
	var out interval
	switch v := e.(type) {
	case *Num:
		return pointBounds(v.Float64())
	case *Const:
		return pointBounds(v.value)
	case *Add:
		out = interval{}
		for _, t := range v.terms {
			b, ok := bounds(t)
			if !ok {
				return interval{}, false
			}
			out = out.add(b)
		}
	case *Mul:
		out = interval{lo: 1, hi: 1}
		for _, f := range v.factors {
			b, ok := bounds(f)
			if !ok {
				return interval{}, false
			}
			out = out.mul(b)
		}
	case *Pow:
		b, ok := bounds(v.base)
		en, isNum := v.exp.(*Num)
		if !ok || !isNum {
			return interval{}, false
		}
		return powBounds(b, en)
	case *Func:
		if len(v.args) != 1 {
			return interval{}, false
		}
		a, ok := bounds(v.args[0])
		if !ok {
			return interval{}, false
		}
		return funcBounds(v.name, a)
	default:
		return interval{}, false
	}
	return out, out.finite()
}

func powBounds(b interval, e *Num) (interval, bool) {
	if e.IsInteger() && e.val.Num().IsInt64() {
		k := e.val.Num().Int64()
		if k < -64 || k > 64 {
			return interval{}, false
		}
		out := interval{lo: 1, hi: 1}
		for i := int64(0); i < abs64(k); i++ {
			out = out.mul(b)
		}
		if k < 0 {
			if out.lo <= 0 && out.hi >= 0 {
				return interval{}, false
			}
			out = interval{lo: down(1 / out.hi), hi: up(1 / out.lo)}
		}
		return out, out.finite()
	}
	if b.lo <= 0 {
		return interval{}, false
	}
	f := e.Float64()
	x, y := math.Pow(b.lo, f), math.Pow(b.hi, f)
	out := interval{lo: math.Min(x, y), hi: math.Max(x, y)}.widen(0)
	return out, out.finite()
}

func funcBounds(name string, a interval) (interval, bool) {
	var out interval
	switch name {
	case "sin", "cos":
		fn := math.Sin
		if name == "cos" {
			fn = math.Cos
		}
		// Both are 1-Lipschitz, so the midpoint value plus the radius
		// encloses the range.
		mid := a.lo/2 + a.hi/2
		r := (a.hi - a.lo) / 2
		v := fn(mid)
		slack := r + math.Abs(mid)*libmErr + libmErr
		out = interval{lo: math.Max(-1, down(v-slack)), hi: math.Min(1, up(v+slack))}
	case "exp", "atan", "sinh", "tanh":
		fn := map[string]func(float64) float64{
			"exp": math.Exp, "atan": math.Atan, "sinh": math.Sinh, "tanh": math.Tanh,
		}[name]
		out = interval{lo: fn(a.lo), hi: fn(a.hi)}.widen(libmErr)
	case "ln":
		if a.lo <= 0 {
			return interval{}, false
		}
		out = interval{lo: math.Log(a.lo), hi: math.Log(a.hi)}.widen(libmErr)
	case "abs":
		switch {
		case a.lo >= 0:
			out = a
		case a.hi <= 0:
			out = interval{lo: -a.hi, hi: -a.lo}
		default:
			out = interval{lo: 0, hi: math.Max(-a.lo, a.hi)}
		}
	default:
		return interval{}, false
	}
	return out, out.finite()
}

func abs64(k int64) int64 {
	if k < 0 {
		return -k
	}
	return k
}

// signOf returns the sign of a constant expression, first from the signs of
// its parts and then from its interval bounds.
func signOf(e Expr) (int, bool) {
	if s, ok := constSign(e); ok {
		return s, true
	}
	b, ok := bounds(e)
	switch {
	case !ok:
		return 0, false
	case b.lo > 0:
		return 1, true
	case b.hi < 0:
		return -1, true
	}
	return 0, false
}
