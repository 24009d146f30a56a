package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

// termKey identifies the non-numeric part of a term for like-term grouping.
func termKey(e Expr) string { return e.exprType() + ":" + e.String() }

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and collects like terms.
// Symbols come first in name order, then other terms in key order, then the
// numeric constant.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	keys := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := termKey(rest)
		if _, seen := coeffs[key]; !seen {
			keys = append(keys, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		_, si := rests[keys[i]].(*Sym)
		_, sj := rests[keys[j]].(*Sym)
		if si != sj {
			return si
		}
		return keys[i] < keys[j]
	})
	result := []Expr{}
	for _, key := range keys {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
			continue
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) LaTeX() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.LaTeX()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numbers into a leading
// coefficient and merges repeated bases into powers.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	type power struct{ base, exp Expr }
	coeff := N(1)
	powers := map[string]*power{}
	keys := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := termKey(base)
		if pw, seen := powers[key]; seen {
			pw.exp = AddOf(pw.exp, exp)
			continue
		}
		powers[key] = &power{base: base, exp: exp}
		keys = append(keys, key)
	}
	if coeff.IsZero() {
		return N(0)
	}
	others := []Expr{}
	for _, key := range keys {
		pw := powers[key]
		f := PowOf(pw.base, pw.exp)
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, g := range v.factors {
				if gn, ok := g.(*Num); ok {
					coeff = numMul(coeff, gn)
				} else {
					others = append(others, g)
				}
			}
		default:
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sortedOthers := make([]Expr, len(ks))
	for i := range ks {
		sortedOthers[i] = ks[i].e
	}
	others = sortedOthers

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		_, isAdd := f.(*Add)
		if isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		_, isAdd := f.(*Add)
		if isAdd {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }
func SqrtOf(arg Expr) Expr      { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 {
			// 0^0 is indeterminate; 0^negative is division by zero.
			if en.IsZero() || en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
		}
		return N(0)
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() && en.val.Num().IsInt64() {
			e := en.val.Num().Int64()
			if e >= 0 && e <= 20 {
				result := N(1)
				for i := int64(0); i < e; i++ {
					result = numMul(result, bn)
				}
				return result
			}
			if e < 0 && e >= -20 {
				result := N(1)
				for i := int64(0); i < -e; i++ {
					result = numMul(result, bn)
				}
				return numRecip(result)
			}
		}
	}
	if bn, ok := base.(*Num); ok && bn.IsPositive() {
		if en, ok2 := exp.(*Num); ok2 && !en.IsInteger() {
			if r, ok3 := ratRoot(bn.val, en.val.Denom()); ok3 {
				return PowOf(&Num{val: r}, &Num{val: new(big.Rat).SetInt(en.val.Num())})
			}
		}
	}
	// (b^p)^q = b^(p*q) only holds on every branch for integer q or
	// -1 < p <= 1.
	if inner, ok := base.(*Pow); ok && nestable(inner.exp, exp) {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	// (a*b)^n = a^n * b^n for integer n.
	if m, ok := base.(*Mul); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			factors := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func nestable(p, q Expr) bool {
	if qn, ok := q.(*Num); ok && qn.IsInteger() {
		return true
	}
	pn, ok := p.(*Num)
	return ok && pn.val.Cmp(big.NewRat(-1, 1)) > 0 && pn.val.Cmp(big.NewRat(1, 1)) <= 0
}

// ratRoot returns the exact positive d-th root of r when both its numerator
// and denominator are perfect d-th powers.
func ratRoot(r *big.Rat, d *big.Int) (*big.Rat, bool) {
	if r.Sign() <= 0 || !d.IsInt64() || d.Int64() < 2 || d.Int64() > 64 {
		return nil, false
	}
	n := d.Int64()
	num, ok1 := intRoot(r.Num(), n)
	den, ok2 := intRoot(r.Denom(), n)
	if !ok1 || !ok2 {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

// intRoot finds the integer n-th root of a positive x by bisection.
func intRoot(x *big.Int, n int64) (*big.Int, bool) {
	lo := big.NewInt(1)
	hi := new(big.Int).Lsh(big.NewInt(1), uint(x.BitLen()/int(n)+1))
	pow := new(big.Int)
	exp := big.NewInt(n)
	for lo.Cmp(hi) <= 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Rsh(mid, 1)
		switch pow.Exp(mid, exp, nil).Cmp(x) {
		case 0:
			return mid, true
		case -1:
			lo = mid.Add(mid, big.NewInt(1))
		default:
			hi = mid.Sub(mid, big.NewInt(1))
		}
	}
	return nil, false
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	expStr := p.exp.String()
	switch v := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			baseStr = "(" + baseStr + ")"
		}
	}
	switch v := p.exp.(type) {
	case *Add, *Mul, *Pow:
		expStr = "(" + expStr + ")"
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	expStr := p.exp.LaTeX()
	_, baseIsAdd := p.base.(*Add)
	_, baseIsMul := p.base.(*Mul)
	if baseIsAdd || baseIsMul {
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + expStr + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if e.IsInteger() {
		if r, ok := PowOf(b, e).(*Num); ok {
			return r, true
		}
	}
	return numFloat(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Expansion
// ============================================================

// Expand distributes products over sums and small integer powers.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return expandExpr(AddOf(terms...))
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		base := expandExpr(v.base)
		if a, ok := base.(*Add); ok {
			if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
				if k := n.val.Num().Int64(); k >= 2 && k <= 10 {
					result := Expr(a)
					for i := int64(1); i < k; i++ {
						result = distribute(result, a)
					}
					return result
				}
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = expandExpr(a)
		}
		return funcOf(v.name, args...).Simplify()
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	var out []Expr
	for _, ta := range termsOf(a) {
		for _, tb := range termsOf(b) {
			out = append(out, expandExpr(MulOf(ta, tb)))
		}
	}
	return AddOf(out...)
}

func termsOf(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}
