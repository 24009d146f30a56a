package ndspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/symbolic"
)

// exprs parses each source string.
func exprs(t *testing.T, srcs ...string) []symbolic.Expr {
	t.Helper()
	es, err := symbolic.ParseAll(srcs)
	require.NoError(t, err)
	return es
}

// syms builds parameter lists.
func syms(names ...string) []symbolic.Expr {
	out := make([]symbolic.Expr, len(names))
	for i, n := range names {
		out[i] = symbolic.S(n)
	}
	return out
}

func pred(t *testing.T, src string) symbolic.Pred {
	t.Helper()
	p, err := symbolic.ParsePred(src)
	require.NoError(t, err)
	return p
}

func point(t *testing.T, coords ...string) *ndspace.Subspace {
	t.Helper()
	p, err := ndspace.New(exprs(t, coords...), nil)
	require.NoError(t, err)
	return p
}

type tower struct {
	cylinder, circle, point *ndspace.Subspace
}

// cylinderTower builds a cylinder in root coordinates, a circle of radius 1
// at height 3 on it, and the point a quarter of the way round the circle.
func cylinderTower(t *testing.T) tower {
	t.Helper()
	cylinder, err := ndspace.New(exprs(t, "r*cos(t)", "r*sin(t)", "z"), syms("r", "t", "z"))
	require.NoError(t, err)
	circle, err := ndspace.New(exprs(t, "1", "a*2*pi", "3"), syms("a"), ndspace.WithParent(cylinder))
	require.NoError(t, err)
	pt, err := ndspace.New(exprs(t, "0.25"), nil, ndspace.WithParent(circle))
	require.NoError(t, err)
	return tower{cylinder: cylinder, circle: circle, point: pt}
}

// xyPlane is the plane Global2 = 0 with parameters (u, v) and a full
// implicit/inverse pair.
func xyPlane(t *testing.T) *ndspace.Subspace {
	t.Helper()
	plane, err := ndspace.New(exprs(t, "u", "v"), syms("u", "v"),
		ndspace.WithImplicit(pred(t, "Global2 == 0")),
		ndspace.WithInverse(exprs(t, "Global0", "Global1")...))
	require.NoError(t, err)
	return plane
}
