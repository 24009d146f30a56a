package symbolic

import "strings"

// ============================================================
// Pred — boolean-valued expressions
// ============================================================

// Pred is a boolean condition over symbols. Simplification folds a
// predicate to True or False whenever that can be decided exactly.
type Pred interface {
	Simplify() Pred
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Pred
	Equal(other Pred) bool
	// Truth returns the literal value and whether the predicate is a literal.
	Truth() (value, known bool)
	predType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Bool — literal truth value
// ============================================================

type Bool struct{ value bool }

var (
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

func BoolOf(v bool) *Bool {
	if v {
		return True
	}
	return False
}

func (b *Bool) Simplify() Pred        { return b }
func (b *Bool) Sub(string, Expr) Pred { return b }
func (b *Bool) Truth() (bool, bool)   { return b.value, true }
func (b *Bool) Equal(other Pred) bool { o, ok := other.(*Bool); return ok && o.value == b.value }
func (b *Bool) predType() string      { return "bool" }
func (b *Bool) String() string {
	if b.value {
		return "true"
	}
	return "false"
}
func (b *Bool) LaTeX() string {
	if b.value {
		return `\top`
	}
	return `\bot`
}
func (b *Bool) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "bool", "value": b.value}
}

// ============================================================
// Equality
// ============================================================

type Equality struct{ lhs, rhs Expr }

// Eq builds lhs == rhs. The result is True when both sides are structurally
// equal or their expanded difference is zero, False when that difference is
// a nonzero constant, and an unresolved Equality otherwise.
func Eq(lhs, rhs Expr) Pred { return (&Equality{lhs: lhs, rhs: rhs}).Simplify() }

func (e *Equality) Simplify() Pred {
	l, r := e.lhs.Simplify(), e.rhs.Simplify()
	if l.Equal(r) {
		return True
	}
	res := Expand(AddOf(l, MulOf(N(-1), r)))
	if n, ok := res.(*Num); ok {
		return BoolOf(n.IsZero())
	}
	if NonzeroConstant(res) {
		return False
	}
	return &Equality{lhs: l, rhs: r}
}

func (e *Equality) String() string { return e.lhs.String() + " == " + e.rhs.String() }
func (e *Equality) LaTeX() string  { return e.lhs.LaTeX() + " = " + e.rhs.LaTeX() }
func (e *Equality) Sub(varName string, value Expr) Pred {
	return Eq(e.lhs.Sub(varName, value), e.rhs.Sub(varName, value))
}
func (e *Equality) Truth() (bool, bool) { return false, false }
func (e *Equality) Equal(other Pred) bool {
	o, ok := other.(*Equality)
	return ok && e.lhs.Equal(o.lhs) && e.rhs.Equal(o.rhs)
}
func (e *Equality) predType() string { return "eq" }
func (e *Equality) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "eq", "lhs": e.lhs.toJSON(), "rhs": e.rhs.toJSON()}
}
func (e *Equality) LHS() Expr { return e.lhs }
func (e *Equality) RHS() Expr { return e.rhs }

// Residual returns lhs - rhs, expanded.
func (e *Equality) Residual() Expr {
	return Expand(AddOf(e.lhs, MulOf(N(-1), e.rhs)))
}

// ============================================================
// And — conjunction
// ============================================================

type And struct{ args []Pred }

// Conjoin builds the conjunction of preds, short-circuiting on False and
// dropping True and duplicate operands.
func Conjoin(preds ...Pred) Pred { return (&And{args: preds}).Simplify() }

func (a *And) Simplify() Pred {
	flat := make([]Pred, 0, len(a.args))
	for _, p := range a.args {
		s := p.Simplify()
		if inner, ok := s.(*And); ok {
			flat = append(flat, inner.args...)
		} else {
			flat = append(flat, s)
		}
	}
	out := make([]Pred, 0, len(flat))
	for _, p := range flat {
		if v, known := p.Truth(); known {
			if !v {
				return False
			}
			continue
		}
		dup := false
		for _, q := range out {
			if q.Equal(p) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return True
	case 1:
		return out[0]
	}
	return &And{args: out}
}

func (a *And) String() string {
	parts := make([]string, len(a.args))
	for i, p := range a.args {
		parts[i] = p.String()
	}
	return strings.Join(parts, " && ")
}

func (a *And) LaTeX() string {
	parts := make([]string, len(a.args))
	for i, p := range a.args {
		parts[i] = p.LaTeX()
	}
	return strings.Join(parts, ` \land `)
}

func (a *And) Sub(varName string, value Expr) Pred {
	args := make([]Pred, len(a.args))
	for i, p := range a.args {
		args[i] = p.Sub(varName, value)
	}
	return Conjoin(args...)
}

func (a *And) Truth() (bool, bool) { return false, false }

func (a *And) Equal(other Pred) bool {
	o, ok := other.(*And)
	if !ok || len(a.args) != len(o.args) {
		return false
	}
	for i := range a.args {
		if !a.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (a *And) predType() string { return "and" }
func (a *And) toJSON() map[string]interface{} {
	args := make([]map[string]interface{}, len(a.args))
	for i, p := range a.args {
		args[i] = p.toJSON()
	}
	return map[string]interface{}{"type": "and", "args": args}
}
func (a *And) Args() []Pred { return append([]Pred(nil), a.args...) }
