package shapes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/shapes"
	"github.com/njchilds90/ndspace/symbolic"
)

func ex(t *testing.T, srcs ...string) []symbolic.Expr {
	t.Helper()
	es, err := symbolic.ParseAll(srcs)
	require.NoError(t, err)
	return es
}

func vecs(t *testing.T, vs ...[]string) [][]symbolic.Expr {
	t.Helper()
	out := make([][]symbolic.Expr, len(vs))
	for i, v := range vs {
		out[i] = ex(t, v...)
	}
	return out
}

func expandAll(es []symbolic.Expr) string {
	out := make([]symbolic.Expr, len(es))
	for i, e := range es {
		out[i] = symbolic.Expand(e)
	}
	return symbolic.JoinExprs(out)
}

func subsInverse(t *testing.T, s *ndspace.Subspace, m map[string]symbolic.Expr) []symbolic.Expr {
	t.Helper()
	inv, ok := s.Inverse()
	require.True(t, ok)
	out := make([]symbolic.Expr, len(inv))
	for i, e := range inv {
		out[i] = symbolic.SubstituteAll(e, m)
	}
	return out
}

func subsImplicit(t *testing.T, s *ndspace.Subspace, m map[string]symbolic.Expr) symbolic.Pred {
	t.Helper()
	imp, ok := s.Implicit()
	require.True(t, ok)
	return symbolic.SubstitutePred(imp, m)
}

func pt(t *testing.T, coords ...string) *ndspace.Subspace {
	t.Helper()
	p, err := ndspace.New(ex(t, coords...), nil)
	require.NoError(t, err)
	return p
}

// ============================================================
// Cylindrical
// ============================================================

func TestCylindrical(t *testing.T) {
	c, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Order())

	quarter := map[string]symbolic.Expr{
		"r": symbolic.N(1), "theta": symbolic.PiTimes(symbolic.F(1, 4)), "z": symbolic.N(1),
	}
	coords := c.Coords()
	for i := range coords {
		coords[i] = symbolic.SubstituteAll(coords[i], quarter)
	}
	halfRoot2 := symbolic.MulOf(symbolic.F(1, 2), symbolic.SqrtOf(symbolic.N(2)))
	assert.True(t, coords[0].Equal(halfRoot2), "x = %s", coords[0])
	assert.True(t, coords[1].Equal(halfRoot2), "y = %s", coords[1])
	assert.True(t, coords[2].Equal(symbolic.N(1)))

	imp, ok := c.Implicit()
	require.True(t, ok)
	assert.True(t, imp.Equal(symbolic.True))

	inv, _ := c.Inverse()
	var n *symbolic.Sym
	for name := range symbolic.FreeSymbols(inv[1]) {
		if name != "Global0" && name != "Global1" {
			n = symbolic.S(name)
		}
	}
	require.NotNil(t, n, "inverse should carry a dummy turn count")

	invRoot2 := symbolic.PowOf(symbolic.N(2), symbolic.F(-1, 2))
	got := subsInverse(t, c, map[string]symbolic.Expr{
		"Global0": invRoot2, "Global1": invRoot2, "Global2": symbolic.N(1),
	})
	assert.True(t, got[0].Equal(symbolic.N(1)), "r = %s", got[0])
	wantTheta := symbolic.AddOf(symbolic.MulOf(symbolic.N(2), symbolic.Pi, n), symbolic.PiTimes(symbolic.F(1, 4)))
	assert.True(t, got[1].Equal(wantTheta), "theta = %s", got[1])
	assert.True(t, got[2].Equal(symbolic.N(1)))
}

func TestCylindrical_FreshDummies(t *testing.T) {
	a, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	b, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
}

func TestCylindrical_ContainsEverything3D(t *testing.T) {
	c, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	in, err := c.Contains(pt(t, "3", "4", "5"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.True))
	in, err = c.Contains(pt(t, "3", "4", "5", "6"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.False))
}

func TestCylindrical_ParentTooSmall(t *testing.T) {
	plane, err := ndspace.New(ex(t, "u", "v"), ex(t, "u", "v"))
	require.NoError(t, err)
	_, err = shapes.Cylindrical(plane)
	assert.ErrorIs(t, err, ndspace.ErrTooManyCoords)
}

// ============================================================
// Vector spaces
// ============================================================

func TestVectorSpace_Line(t *testing.T) {
	line, err := shapes.NewVectorSpace(ex(t, "0", "0"), vecs(t, []string{"1", "1"}), ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, "(t0, t0)", symbolic.JoinExprs(line.Coords()))
	require.Len(t, line.Params(), 1)
	assert.Equal(t, "t0", line.Params()[0].Name())
	assert.True(t, ndspace.Equal(ndspace.Root, line.Parent()))

	onDiagonal := map[string]symbolic.Expr{"Global1": ndspace.Root.X()}
	assert.True(t, subsImplicit(t, line, onDiagonal).Equal(symbolic.True))
	assert.Equal(t, "(Global0)", expandAll(subsInverse(t, line, onDiagonal)))

	in, err := line.Contains(pt(t, "7", "7"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.True))
	in, err = line.Contains(pt(t, "8", "7"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.False))
}

func TestVectorSpace_Plane(t *testing.T) {
	plane, err := shapes.NewVectorSpace(ex(t, "1"), vecs(t, []string{"1", "1"}, []string{"0", "1", "1"}), ndspace.Root)
	require.NoError(t, err)
	want := ex(t, "1 + t0", "t0 + t1", "t1")
	assert.Equal(t, symbolic.JoinExprs(want), symbolic.JoinExprs(plane.Coords()))
	assert.Equal(t, 2, plane.Order())

	onPlane := map[string]symbolic.Expr{"Global1": symbolic.MustParse("Global0 - 1 + Global2")}
	assert.True(t, subsImplicit(t, plane, onPlane).Equal(symbolic.True))
	assert.Equal(t, "(Global0 + -1, Global2)", expandAll(subsInverse(t, plane, onPlane)))

	in, err := plane.Contains(pt(t, "2", "3", "2"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.True))
	in, err = plane.Contains(pt(t, "2", "3", "3"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.False))
}

func TestPad(t *testing.T) {
	start, vs := shapes.Pad(ex(t, "1"), vecs(t, []string{"1", "1"}, []string{"0", "1", "1"}))
	assert.Equal(t, "(1, 0, 0)", symbolic.JoinExprs(start))
	assert.Equal(t, "(1, 1, 0)", symbolic.JoinExprs(vs[0]))
	assert.Equal(t, "(0, 1, 1)", symbolic.JoinExprs(vs[1]))
}

func TestVectorSpace_Redundant(t *testing.T) {
	splane, err := shapes.NewVectorSpace(ex(t, "0"), vecs(t, []string{"0"}, []string{"1", "0"}, []string{"0", "1"}), ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, "(t1, t2)", symbolic.JoinExprs(splane.Coords()))
	assert.Equal(t, 3, splane.Order())
	imp, _ := splane.Implicit()
	assert.True(t, imp.Equal(symbolic.True))

	inv, _ := splane.Inverse()
	require.Len(t, inv, 3)
	w, ok := inv[0].(*symbolic.Sym)
	require.True(t, ok)
	assert.True(t, w.IsDummy())
	assert.Equal(t, "Global0", inv[1].String())
	assert.Equal(t, "Global1", inv[2].String())

	splane2, err := shapes.NewVectorSpace(ex(t, "0"), vecs(t, []string{"1"}, []string{"1", "1"}, []string{"0", "1"}), ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, symbolic.JoinExprs(ex(t, "t0 + t1", "t1 + t2")), symbolic.JoinExprs(splane2.Coords()))
	imp, _ = splane2.Implicit()
	assert.True(t, imp.Equal(symbolic.True))

	// Any choice of the free dummy maps back onto the same point.
	inv, _ = splane2.Inverse()
	coords := splane2.Coords()
	m := map[string]symbolic.Expr{}
	for i, p := range splane2.Params() {
		m[p.Name()] = inv[i]
	}
	for i, c := range coords {
		assert.True(t, symbolic.Expand(symbolic.SubstituteAll(c, m)).Equal(ndspace.Root.Coord(i)))
	}
}

func TestVectorSpace_SymbolicVectors(t *testing.T) {
	s, err := shapes.NewVectorSpace(ex(t, "0", "0"), vecs(t, []string{"1", "k"}), ndspace.Root)
	require.NoError(t, err)
	_, ok := s.Implicit()
	assert.False(t, ok)
	_, err = s.Contains(pt(t, "1", "2"))
	assert.ErrorIs(t, err, ndspace.ErrUnsupported)
}

func TestVectorSpace_ParentWithoutInverse(t *testing.T) {
	surface, err := ndspace.New(ex(t, "u", "v", "u*v"), ex(t, "u", "v"))
	require.NoError(t, err)
	curve, err := shapes.NewVectorSpace(ex(t, "0", "0"), vecs(t, []string{"1", "1"}), surface)
	require.NoError(t, err)
	_, ok := curve.Implicit()
	assert.False(t, ok)
	assert.Equal(t, "(t0, t0, t0^2)", symbolic.JoinExprs(curve.LiftAll().Coords()))
}

func TestVectorSpace_InCylindrical(t *testing.T) {
	cyl, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	// theta = pi/2, z = 1: the ray along +y at height 1.
	ray, err := shapes.NewVectorSpace(ex(t, "0", "pi/2", "1"), vecs(t, []string{"1"}), cyl)
	require.NoError(t, err)

	in, err := ray.Contains(pt(t, "0", "3", "1"))
	require.NoError(t, err)
	assert.False(t, in.Equal(symbolic.False), "got %s", in)
}

func TestVectorSpaceFromPoint(t *testing.T) {
	line, err := shapes.VectorSpaceFromPoint(pt(t, "1", "1"), vecs(t, []string{"1", "0"}), ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, symbolic.JoinExprs(ex(t, "t0 + 1", "1")), symbolic.JoinExprs(line.Coords()))

	cyl, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	_, err = shapes.VectorSpaceFromPoint(cyl, vecs(t, []string{"1", "1"}), ndspace.Root)
	assert.ErrorIs(t, err, shapes.ErrStartNotPoint)
}

func TestThroughPoints(t *testing.T) {
	cases := []struct {
		name    string
		points  [][]string
		start   []string
		vectors [][]string
	}{
		{"line", [][]string{{"0", "0"}, {"1", "1"}}, []string{"0", "0"}, [][]string{{"1", "1"}}},
		{"plane", [][]string{{"0", "0"}, {"1", "1"}, {"0", "1", "1"}},
			[]string{"0", "0", "0"}, [][]string{{"1", "1", "0"}, {"0", "1", "1"}}},
		{"offset plane", [][]string{{"-1", "0"}, {"1", "1"}, {"0", "1", "1"}},
			[]string{"-1", "0", "0"}, [][]string{{"2", "1", "0"}, {"1", "1", "1"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pts := vecs(t, tc.points...)
			got, err := shapes.ThroughPoints(pts, ndspace.Root)
			require.NoError(t, err)
			want, err := shapes.NewVectorSpace(ex(t, tc.start...), vecs(t, tc.vectors...), ndspace.Root)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}

	_, err := shapes.ThroughPoints(nil, ndspace.Root)
	assert.ErrorIs(t, err, shapes.ErrNoPoints)
}

func TestLineAndPlane(t *testing.T) {
	line, err := shapes.Line(ex(t, "0", "0", "0"), ex(t, "1", "2", "3"), ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Order())
	in, err := line.Contains(pt(t, "2", "4", "6"))
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.True))

	plane, err := shapes.Plane(ex(t, "0", "0", "0"), ex(t, "1", "0", "0"), ex(t, "0", "1", "0"), ndspace.Root)
	require.NoError(t, err)
	assert.Equal(t, 2, plane.Order())
	in, err = plane.Contains(line)
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.False))

	flat, err := shapes.Line(ex(t, "0", "0", "0"), ex(t, "1", "1", "0"), ndspace.Root)
	require.NoError(t, err)
	in, err = plane.Contains(flat)
	require.NoError(t, err)
	assert.True(t, in.Equal(symbolic.True))
}

func TestCylindrical_SurfaceContains(t *testing.T) {
	cyl, err := shapes.Cylindrical(ndspace.Root)
	require.NoError(t, err)
	s, h := symbolic.S("s"), symbolic.S("h")
	tube, err := ndspace.New(ex(t, "1", "s", "h"), []symbolic.Expr{s, h},
		ndspace.WithParent(cyl),
		ndspace.WithImplicit(symbolic.Eq(symbolic.S("r"), symbolic.N(1))),
		ndspace.WithInverse(symbolic.S("theta"), symbolic.S("z")))
	require.NoError(t, err)

	lifted := tube.LiftAll()
	imp, ok := lifted.Implicit()
	require.True(t, ok)
	assert.Empty(t, symbolic.PredFreeSymbols(symbolic.SubstitutePred(imp, map[string]symbolic.Expr{
		"Global0": symbolic.N(0), "Global1": symbolic.N(1),
	})))

	cases := []struct {
		name  string
		point []string
		want  symbolic.Pred
	}{
		{"on the y axis", []string{"0", "1", "5"}, symbolic.True},
		{"rational point", []string{"3/5", "4/5", "-2"}, symbolic.True},
		{"radius 5", []string{"3", "4", "0"}, symbolic.False},
		{"radius 2", []string{"0", "2", "0"}, symbolic.False},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tube.Contains(pt(t, tc.point...))
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %s", got)
		})
	}

	got, err := tube.Contains(pt(t, "c", "0", "0"))
	require.NoError(t, err)
	_, known := got.Truth()
	assert.False(t, known, "got %s", got)
}
