package shapes

import (
	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/symbolic"
)

// Cylindrical returns cylindrical coordinates (r, theta, z) in the first
// three coordinates of parent:
//
//	(r cos theta, r sin theta, z)
//
// Every point of parent is reachable, so the implicit predicate is True.
// The inverse is (sqrt(x^2 + y^2), atan2(y, x) + 2 pi n, z) where n is a
// fresh dummy standing for any integer; each call gets its own n.
func Cylindrical(parent ndspace.Space) (*ndspace.Subspace, error) {
	r, theta, z := symbolic.S("r"), symbolic.S("theta"), symbolic.S("z")
	coords := []symbolic.Expr{
		symbolic.MulOf(r, symbolic.CosOf(theta)),
		symbolic.MulOf(r, symbolic.SinOf(theta)),
		z,
	}
	params := []symbolic.Expr{r, theta, z}
	if _, err := ndspace.New(coords, params, ndspace.WithParent(parent)); err != nil {
		return nil, err
	}
	if !parentInvertible(parent) {
		return ndspace.New(coords, params, ndspace.WithParent(parent))
	}

	pc, err := parentCoords(parent, 3)
	if err != nil {
		return nil, err
	}
	x, y, pz := pc[0], pc[1], pc[2]
	n := symbolic.Dummy("n")
	inverse := []symbolic.Expr{
		symbolic.SqrtOf(symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.PowOf(y, symbolic.N(2)))),
		symbolic.AddOf(symbolic.Atan2Of(y, x), symbolic.MulOf(symbolic.N(2), symbolic.Pi, n)),
		pz,
	}
	return ndspace.New(coords, params,
		ndspace.WithParent(parent),
		ndspace.WithImplicit(symbolic.True),
		ndspace.WithInverse(inverse...))
}
