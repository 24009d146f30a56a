// Package shapes builds common subspaces: cylindrical coordinates and
// affine (vector) spaces such as lines and planes through given points.
//
// Every constructor returns a plain *ndspace.Subspace with an implicit
// predicate and inverse map whenever those can be derived, so the result
// takes part in lifting and containment like any other subspace.
package shapes

import (
	"errors"
	"fmt"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/symbolic"
)

var (
	// ErrStartNotPoint indicates a vector-space start that is not order 0.
	ErrStartNotPoint = errors.New("shapes: start must be a point")
	// ErrNoPoints indicates ThroughPoints was given nothing to go through.
	ErrNoPoints = errors.New("shapes: at least one point is required")
)

// parentCoords returns the first n coordinate symbols of parent's frame.
func parentCoords(parent ndspace.Space, n int) ([]symbolic.Expr, error) {
	switch p := parent.(type) {
	case ndspace.RootSpace, *ndspace.RootSpace:
		syms, err := ndspace.Root.Coords(0, n)
		if err != nil {
			return nil, err
		}
		out := make([]symbolic.Expr, n)
		for i, s := range syms {
			out[i] = s
		}
		return out, nil
	case *ndspace.Subspace:
		return firstParams(p, n)
	case *ndspace.Bound:
		return firstParams(p.Carrier(), n)
	}
	return nil, fmt.Errorf("%w: parent %T", ndspace.ErrBadParent, parent)
}

func firstParams(s *ndspace.Subspace, n int) ([]symbolic.Expr, error) {
	ps := s.Params()
	if len(ps) < n {
		return nil, fmt.Errorf("%w: need %d parent parameters, have %d", ndspace.ErrTooManyCoords, n, len(ps))
	}
	out := make([]symbolic.Expr, n)
	for i := range out {
		out[i] = ps[i]
	}
	return out, nil
}

// parentInvertible reports whether a subspace embedded in parent may carry
// an implicit predicate.
func parentInvertible(parent ndspace.Space) bool {
	switch p := parent.(type) {
	case ndspace.RootSpace, *ndspace.RootSpace:
		return true
	case *ndspace.Subspace:
		_, ok := p.Inverse()
		return ok
	case *ndspace.Bound:
		_, ok := p.Carrier().Inverse()
		return ok
	}
	return false
}
