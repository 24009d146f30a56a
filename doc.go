// Package ndspace models a hierarchy of parametric coordinate subspaces:
// points, curves, surfaces and higher-order manifolds, each given by
// coordinate functions of its own symbolic parameters and embedded in a
// parent space, down to the infinite-dimensional Root.
//
// The package offers three operations over that hierarchy:
//
//   - Lift re-expresses a subspace in the coordinate frame of an ancestor,
//     composing coordinates, implicit predicates and inverse maps.
//   - Contains decides whether one subspace lies wholly within another. The
//     answer is a symbolic.Pred: True, False or a condition on free symbols.
//     When no decision can be made it returns ErrUnsupported.
//   - IsDescendant walks parent links.
//
// All spaces are immutable values and safe for concurrent use. Loop and
// Bound describe closed boundaries built from same-order subspaces.
//
// Quick start:
//
//	r, t, z, a := symbolic.S("r"), symbolic.S("t"), symbolic.S("z"), symbolic.S("a")
//	cylinder, _ := ndspace.New(
//		[]symbolic.Expr{symbolic.MulOf(r, symbolic.CosOf(t)), symbolic.MulOf(r, symbolic.SinOf(t)), z},
//		[]symbolic.Expr{r, t, z})
//	circle, _ := ndspace.New(
//		[]symbolic.Expr{symbolic.N(1), symbolic.MulOf(symbolic.N(2), symbolic.Pi, a), symbolic.N(3)},
//		[]symbolic.Expr{a}, ndspace.WithParent(cylinder))
//	fmt.Println(circle.LiftAll())
package ndspace
