package ndspace

import (
	"fmt"
	"sort"

	"github.com/njchilds90/ndspace/symbolic"
)

// ============================================================
// Containment
// ============================================================

// Contains decides whether other lies wholly within s.
//
// The result is True, False, or a predicate over free symbols that holds
// exactly when other is inside s. Both spaces are first lifted to root
// coordinates. A point s is compared coordinate by coordinate; otherwise s
// needs an implicit predicate, and without one Contains returns
// ErrUnsupported. Coordinates of other beyond those of s must vanish: a
// nonzero constant there gives False, and any other expression adds a
// coord == 0 conjunct to the result. When the predicate still mentions
// other's parameters after substitution the two spaces only intersect,
// which is False.
func (s *Subspace) Contains(other *Subspace) (symbolic.Pred, error) {
	if IsDescendant(other, s) {
		return symbolic.True, nil
	}
	ls, lo := s.LiftAll(), other.LiftAll()

	// Coordinates s does not define are zero for every point of s.
	var beyond []symbolic.Pred
	for i := len(ls.coords); i < len(lo.coords); i++ {
		if symbolic.NonzeroConstant(lo.coords[i]) {
			return symbolic.False, nil
		}
		beyond = append(beyond, symbolic.Eq(lo.coords[i], symbolic.N(0)))
	}

	if ls.Order() == 0 {
		n := max(len(ls.coords), len(lo.coords))
		eqs := make([]symbolic.Pred, n)
		for i := 0; i < n; i++ {
			eqs[i] = symbolic.Eq(ls.Coord(i), lo.Coord(i))
		}
		return symbolic.Conjoin(eqs...), nil
	}

	if ls.implicit == nil {
		return nil, fmt.Errorf("%w: containment in %s needs an implicit predicate", ErrUnsupported, s)
	}
	pred := symbolic.Conjoin(append([]symbolic.Pred{ls.implicit}, beyond...)...)
	for _, i := range rootIndices(pred) {
		if _, known := pred.Truth(); known {
			break
		}
		pred = symbolic.SubstitutePred(pred, map[string]symbolic.Expr{Root.Coord(i).Name(): lo.Coord(i)})
	}

	free := symbolic.PredFreeSymbols(pred)
	for name := range other.paramNames() {
		if _, ok := free[name]; ok {
			return symbolic.False, nil
		}
	}
	return pred, nil
}

// rootIndices lists, in increasing order, the root coordinates free in p.
func rootIndices(p symbolic.Pred) []int {
	var out []int
	for name := range symbolic.PredFreeSymbols(p) {
		if i, ok := Root.CoordIndex(symbolic.S(name)); ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
