package symbolic

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// SubstituteAll replaces every symbol named in mapping at once, so values
// that mention other keys are not substituted again.
func SubstituteAll(e Expr, mapping map[string]Expr) Expr {
	if len(mapping) == 0 {
		return e
	}
	return substituteAll(e, mapping).Simplify()
}

func substituteAll(e Expr, m map[string]Expr) Expr {
	switch v := e.(type) {
	case *Sym:
		if r, ok := m[v.name]; ok {
			return r
		}
		return v
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = substituteAll(t, m)
		}
		return &Add{terms: terms}
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = substituteAll(f, m)
		}
		return &Mul{factors: factors}
	case *Pow:
		return &Pow{base: substituteAll(v.base, m), exp: substituteAll(v.exp, m)}
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = substituteAll(a, m)
		}
		return &Func{name: v.name, args: args}
	}
	return e
}

// SubstitutePred is SubstituteAll for predicates.
func SubstitutePred(p Pred, mapping map[string]Expr) Pred {
	if len(mapping) == 0 {
		return p
	}
	return substitutePred(p, mapping).Simplify()
}

func substitutePred(p Pred, m map[string]Expr) Pred {
	switch v := p.(type) {
	case *Equality:
		return &Equality{lhs: substituteAll(v.lhs, m), rhs: substituteAll(v.rhs, m)}
	case *And:
		args := make([]Pred, len(v.args))
		for i, a := range v.args {
			args[i] = substitutePred(a, m)
		}
		return &And{args: args}
	}
	return p
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// PredFreeSymbols returns the symbols still free in p.
func PredFreeSymbols(p Pred) map[string]struct{} {
	result := map[string]struct{}{}
	collectPredSymbols(p, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		for _, a := range v.args {
			collectSymbols(a, out)
		}
	}
}

func collectPredSymbols(p Pred, out map[string]struct{}) {
	switch v := p.(type) {
	case *Equality:
		collectSymbols(v.lhs, out)
		collectSymbols(v.rhs, out)
	case *And:
		for _, a := range v.args {
			collectPredSymbols(a, out)
		}
	}
}

// SortedNames returns the names in set in natural order, so "x2" sorts
// before "x10".
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
	return names
}

func naturalLess(a, b string) bool {
	pa, na := splitTrailingDigits(a)
	pb, nb := splitTrailingDigits(b)
	if pa != pb || na < 0 || nb < 0 {
		return a < b
	}
	return na < nb
}

func splitTrailingDigits(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}
	return s[:i], n
}

// JoinExprs renders a tuple of expressions as "(a, b, c)".
func JoinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
