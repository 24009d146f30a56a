package ndspace

import (
	"fmt"
	"strings"

	"github.com/njchilds90/ndspace/symbolic"
)

// ============================================================
// Subspace
// ============================================================

// Subspace is a space located by coordinate expressions over its own
// parameters, in the frame of its parent. Coordinates beyond len(Coords)
// are zero.
//
// implicit, when set, is a predicate over the parent's parameters (the root
// coordinates when the parent is Root) that holds exactly for parent points
// inside the subspace. inverse, when set, recovers each parameter from such
// a point.
type Subspace struct {
	coords     []symbolic.Expr
	params     []*symbolic.Sym
	parent     Space
	implicit   symbolic.Pred
	inverse    []symbolic.Expr
	hasInverse bool
}

// Option configures New.
type Option func(*Subspace)

// WithParent embeds the subspace in p instead of Root.
func WithParent(p Space) Option {
	return func(s *Subspace) { s.parent = p }
}

// WithImplicit sets the membership predicate over the parent's parameters.
func WithImplicit(p symbolic.Pred) Option {
	return func(s *Subspace) { s.implicit = p }
}

// WithInverse sets one expression per parameter, in parameter order. An
// empty call gives a point an empty inverse.
func WithInverse(inverse ...symbolic.Expr) Option {
	return func(s *Subspace) {
		s.inverse = append([]symbolic.Expr(nil), inverse...)
		s.hasInverse = true
	}
}

// New validates and builds a subspace. params must be distinct symbols. It
// fails with a *ValidationError when a construction rule is broken.
func New(coords, params []symbolic.Expr, opts ...Option) (*Subspace, error) {
	s := &Subspace{parent: Root}
	for _, opt := range opts {
		opt(s)
	}
	if !validParent(s.parent) {
		return nil, invalid(RuleCoords, ErrBadParent, "parent %T", s.parent)
	}

	seen := make(map[string]bool, len(params))
	s.params = make([]*symbolic.Sym, len(params))
	for i, p := range params {
		sym, ok := p.(*symbolic.Sym)
		if !ok {
			return nil, invalid(RuleParams, ErrParamNotSymbol, "params[%d] = %s", i, p)
		}
		if seen[sym.Name()] {
			return nil, invalid(RuleParams, ErrDuplicateParam, "%s", sym.Name())
		}
		seen[sym.Name()] = true
		s.params[i] = sym
	}

	if order := s.parent.Order(); len(coords) > order {
		return nil, invalid(RuleCoords, ErrTooManyCoords, "%d coordinates, parent order %d", len(coords), order)
	}
	s.coords = make([]symbolic.Expr, len(coords))
	for i, c := range coords {
		s.coords[i] = c.Simplify()
	}

	if s.hasInverse {
		if s.implicit == nil {
			return nil, invalid(RuleInverse, ErrInverseWithoutImplicit, "")
		}
		if len(s.inverse) != len(s.params) {
			return nil, invalid(RuleInverse, ErrInverseLength, "%d inverse expressions, %d params", len(s.inverse), len(s.params))
		}
		for i, e := range s.inverse {
			s.inverse[i] = e.Simplify()
		}
	}
	if s.implicit != nil {
		if !isRoot(s.parent) {
			if _, ok := frameOf(s.parent).Inverse(); !ok {
				return nil, invalid(RuleImplicit, ErrParentInverse, "parent %s", s.parent)
			}
		}
		s.implicit = s.implicit.Simplify()
	}
	return s, nil
}

// MustNew is New for literals known to be valid; it panics on error.
func MustNew(coords, params []symbolic.Expr, opts ...Option) *Subspace {
	s, err := New(coords, params, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func validParent(p Space) bool {
	switch v := p.(type) {
	case RootSpace, *RootSpace:
		return true
	case *Subspace:
		return v != nil
	case *Bound:
		return v != nil
	}
	return false
}

// frameOf returns the subspace whose parameters form the coordinate frame
// of a non-root space. A Bound lends its carrier's frame.
func frameOf(s Space) *Subspace {
	switch v := s.(type) {
	case *Subspace:
		return v
	case *Bound:
		return v.carrier
	}
	panic(fmt.Sprintf("ndspace: %T has no coordinate frame", s))
}

func (s *Subspace) Parent() Space { return s.parent }
func (s *Subspace) Order() int    { return len(s.params) }

// Coords returns a copy of the coordinate expressions.
func (s *Subspace) Coords() []symbolic.Expr { return append([]symbolic.Expr(nil), s.coords...) }

// Coord returns coordinate i, or zero beyond the defined coordinates.
func (s *Subspace) Coord(i int) symbolic.Expr {
	if i >= 0 && i < len(s.coords) {
		return s.coords[i]
	}
	return symbolic.N(0)
}

// Params returns a copy of the parameter symbols.
func (s *Subspace) Params() []*symbolic.Sym { return append([]*symbolic.Sym(nil), s.params...) }

// Implicit returns the membership predicate and whether one is set.
func (s *Subspace) Implicit() (symbolic.Pred, bool) { return s.implicit, s.implicit != nil }

// Inverse returns a copy of the inverse map and whether one is set.
func (s *Subspace) Inverse() ([]symbolic.Expr, bool) {
	if !s.hasInverse {
		return nil, false
	}
	return append([]symbolic.Expr(nil), s.inverse...), true
}

func (s *Subspace) paramNames() map[string]struct{} {
	out := make(map[string]struct{}, len(s.params))
	for _, p := range s.params {
		out[p.Name()] = struct{}{}
	}
	return out
}

// inverseMapping maps each parameter name to its inverse expression.
func (s *Subspace) inverseMapping() map[string]symbolic.Expr {
	m := make(map[string]symbolic.Expr, len(s.params))
	for i, p := range s.params {
		m[p.Name()] = s.inverse[i]
	}
	return m
}

// Equal reports structural equality, including the parent chain.
func (s *Subspace) Equal(o *Subspace) bool {
	if s == o {
		return true
	}
	if o == nil || len(s.coords) != len(o.coords) || len(s.params) != len(o.params) {
		return false
	}
	for i := range s.coords {
		if !s.coords[i].Equal(o.coords[i]) {
			return false
		}
	}
	for i := range s.params {
		if !s.params[i].Equal(o.params[i]) {
			return false
		}
	}
	if (s.implicit == nil) != (o.implicit == nil) || (s.implicit != nil && !s.implicit.Equal(o.implicit)) {
		return false
	}
	if s.hasInverse != o.hasInverse || len(s.inverse) != len(o.inverse) {
		return false
	}
	for i := range s.inverse {
		if !s.inverse[i].Equal(o.inverse[i]) {
			return false
		}
	}
	return Equal(s.parent, o.parent)
}

func (s *Subspace) String() string {
	var sb strings.Builder
	sb.WriteString("Subspace(")
	sb.WriteString(symbolic.JoinExprs(s.coords))
	sb.WriteString(", ")
	params := make([]symbolic.Expr, len(s.params))
	for i, p := range s.params {
		params[i] = p
	}
	sb.WriteString(symbolic.JoinExprs(params))
	if s.implicit != nil {
		sb.WriteString(", implicit=")
		sb.WriteString(s.implicit.String())
	}
	if s.hasInverse {
		sb.WriteString(", inverse=")
		sb.WriteString(symbolic.JoinExprs(s.inverse))
	}
	if !isRoot(s.parent) {
		sb.WriteString(", parent=")
		sb.WriteString(s.parent.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// ============================================================
// Substitution
// ============================================================

// Substitute returns a new subspace with mapping applied to coordinates,
// the implicit predicate, the inverse and the parent chain. A parameter
// mapped to a symbol is renamed. A parameter mapped to anything else stops
// being a parameter; when an inverse exists its entry is removed and the
// implicit predicate gains inverse == value.
func (s *Subspace) Substitute(mapping map[string]symbolic.Expr) (*Subspace, error) {
	if len(mapping) == 0 {
		return s, nil
	}
	parent := s.parent
	switch p := s.parent.(type) {
	case *Subspace:
		np, err := p.Substitute(mapping)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		parent = np
	case *Bound:
		nb, err := p.Substitute(mapping)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		parent = nb
	}

	coords := make([]symbolic.Expr, len(s.coords))
	for i, c := range s.coords {
		coords[i] = symbolic.SubstituteAll(c, mapping)
	}

	var implicit symbolic.Pred
	if s.implicit != nil {
		implicit = symbolic.SubstitutePred(s.implicit, mapping)
	}
	var inverse []symbolic.Expr
	var bound []symbolic.Pred

	params := make([]symbolic.Expr, 0, len(s.params))
	for i, p := range s.params {
		var inv symbolic.Expr
		if s.hasInverse {
			inv = symbolic.SubstituteAll(s.inverse[i], mapping)
		}
		value, hit := mapping[p.Name()]
		if !hit {
			params = append(params, p)
			if s.hasInverse {
				inverse = append(inverse, inv)
			}
			continue
		}
		if sym, ok := value.(*symbolic.Sym); ok {
			params = append(params, sym)
			if s.hasInverse {
				inverse = append(inverse, inv)
			}
			continue
		}
		if s.hasInverse {
			bound = append(bound, symbolic.Eq(inv, value))
		}
	}
	if len(bound) > 0 {
		implicit = symbolic.Conjoin(append([]symbolic.Pred{implicit}, bound...)...)
	}

	opts := []Option{WithParent(parent)}
	if implicit != nil {
		opts = append(opts, WithImplicit(implicit))
	}
	if s.hasInverse {
		opts = append(opts, WithInverse(inverse...))
	}
	return New(coords, params, opts...)
}
