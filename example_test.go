package ndspace_test

import (
	"errors"
	"fmt"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/symbolic"
)

func ExampleSubspace_Lift() {
	r, th, z, a := symbolic.S("r"), symbolic.S("t"), symbolic.S("z"), symbolic.S("a")
	cylinder := ndspace.MustNew(
		[]symbolic.Expr{symbolic.MulOf(r, symbolic.CosOf(th)), symbolic.MulOf(r, symbolic.SinOf(th)), z},
		[]symbolic.Expr{r, th, z})
	circle := ndspace.MustNew(
		[]symbolic.Expr{symbolic.N(1), symbolic.MulOf(symbolic.N(2), symbolic.Pi, a), symbolic.N(3)},
		[]symbolic.Expr{a}, ndspace.WithParent(cylinder))
	quarter := ndspace.MustNew([]symbolic.Expr{symbolic.F(1, 4)}, nil, ndspace.WithParent(circle))

	fmt.Println(symbolic.JoinExprs(quarter.Lift(1).Coords()))
	fmt.Println(symbolic.JoinExprs(quarter.Lift(2).Coords()))
	fmt.Println(ndspace.IsDescendant(quarter, cylinder))
	// Output:
	// (1, 1/2*pi, 3)
	// (0, 1, 3)
	// true
}

func ExampleSubspace_Contains() {
	plane := ndspace.MustNew(
		symbolic.MustParseAll("u", "v"), []symbolic.Expr{symbolic.S("u"), symbolic.S("v")},
		ndspace.WithImplicit(symbolic.Eq(ndspace.Root.Z(), symbolic.N(0))),
		ndspace.WithInverse(ndspace.Root.X(), ndspace.Root.Y()))

	for _, src := range [][]string{{"1", "2", "0"}, {"1", "2", "5"}, {"1", "2", "c"}} {
		p := ndspace.MustNew(symbolic.MustParseAll(src...), nil)
		in, err := plane.Contains(p)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(in)
	}

	curve := ndspace.MustNew(symbolic.MustParseAll("t", "t^2"), []symbolic.Expr{symbolic.S("t")})
	_, err := curve.Contains(ndspace.MustNew(symbolic.MustParseAll("1", "1"), nil))
	fmt.Println(errors.Is(err, ndspace.ErrUnsupported))
	// Output:
	// true
	// false
	// c == 0
	// true
}
