package ndspace

import "github.com/njchilds90/ndspace/symbolic"

// ============================================================
// Ancestor lifting
// ============================================================

// Lift re-expresses s in the coordinate frame of its n-th ancestor.
// Lift(0) returns s, and lifting stops at the root, so any n at or above
// Depth(s) gives the same result as LiftAll. The result keeps s's
// parameters and is parented at that ancestor.
func (s *Subspace) Lift(n int) *Subspace {
	cur := s
	for ; n > 0 && !isRoot(cur.parent); n-- {
		cur = cur.liftOnce()
	}
	return cur
}

// LiftAll expresses s in root coordinates.
func (s *Subspace) LiftAll() *Subspace { return s.Lift(Unbounded) }

// liftOnce moves s one level up. The parent's parameters are replaced by
// s's coordinates in the parent's coordinates (missing ones by zero), and
// in s's implicit predicate and inverse by the parent's inverse.
func (s *Subspace) liftOnce() *Subspace {
	if b, ok := s.parent.(*Bound); ok {
		// The bound shares its carrier's frame.
		out := *s
		out.parent = b.carrier
		return &out
	}
	p := s.parent.(*Subspace)

	along := make(map[string]symbolic.Expr, len(p.params))
	for i, q := range p.params {
		along[q.Name()] = s.Coord(i)
	}
	coords := make([]symbolic.Expr, len(p.coords))
	for i, c := range p.coords {
		coords[i] = symbolic.SubstituteAll(c, along)
	}
	out := &Subspace{coords: coords, params: s.params, parent: p.parent}

	if s.implicit == nil && !s.hasInverse {
		return out
	}
	// New guarantees p has an inverse whenever s has an implicit predicate.
	back := p.inverseMapping()
	if s.implicit != nil {
		out.implicit = symbolic.Conjoin(symbolic.SubstitutePred(s.implicit, back), p.implicit)
	}
	if s.hasInverse {
		out.hasInverse = true
		out.inverse = make([]symbolic.Expr, len(s.inverse))
		for i, e := range s.inverse {
			out.inverse[i] = symbolic.SubstituteAll(e, back)
		}
	}
	return out
}
