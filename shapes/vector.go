package shapes

import (
	"errors"
	"fmt"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/symbolic"
)

// Pad extends start and every vector with zeros to a common length, so
// (1) and [(1, 1), (0, 1, 1)] become (1, 0, 0) and [(1, 1, 0), (0, 1, 1)].
// The inputs are not modified.
func Pad(start []symbolic.Expr, vectors [][]symbolic.Expr) ([]symbolic.Expr, [][]symbolic.Expr) {
	dim := len(start)
	for _, v := range vectors {
		dim = max(dim, len(v))
	}
	pad := func(v []symbolic.Expr) []symbolic.Expr {
		out := make([]symbolic.Expr, dim)
		for i := range out {
			if i < len(v) {
				out[i] = v[i]
			} else {
				out[i] = symbolic.N(0)
			}
		}
		return out
	}
	vs := make([][]symbolic.Expr, len(vectors))
	for i, v := range vectors {
		vs[i] = pad(v)
	}
	return pad(start), vs
}

// VectorParams returns the parameters t0, t1, ... of a vector space
// spanned by k vectors.
func VectorParams(k int) []*symbolic.Sym {
	out := make([]*symbolic.Sym, k)
	for i := range out {
		out[i] = symbolic.S(fmt.Sprintf("t%d", i))
	}
	return out
}

// NewVectorSpace returns the affine space start + t0 v0 + t1 v1 + ... in
// parent. Redundant or zero vectors are allowed.
//
// With numeric vectors and an invertible parent, the inverse is the
// least-squares solution x of A x = p - start, where A has the vectors as
// columns and p is the parent point; solver-introduced dummies stand for
// the directions redundant vectors leave free. The implicit predicate
// A x == p - start then holds exactly for points on the space. Otherwise
// the space has neither, and containment in it is ErrUnsupported.
func NewVectorSpace(start []symbolic.Expr, vectors [][]symbolic.Expr, parent ndspace.Space) (*ndspace.Subspace, error) {
	start, vectors = Pad(start, vectors)
	dim, k := len(start), len(vectors)
	params := VectorParams(k)

	coords := make([]symbolic.Expr, dim)
	for i := range coords {
		terms := []symbolic.Expr{start[i]}
		for j, v := range vectors {
			terms = append(terms, symbolic.MulOf(params[j], v[i]))
		}
		coords[i] = symbolic.AddOf(terms...)
	}
	paramExprs := make([]symbolic.Expr, k)
	for i, p := range params {
		paramExprs[i] = p
	}
	plain, err := ndspace.New(coords, paramExprs, ndspace.WithParent(parent))
	if err != nil || !parentInvertible(parent) {
		return plain, err
	}

	pc, err := parentCoords(parent, dim)
	if err != nil {
		return nil, err
	}
	a := symbolic.NewMatrix(dim, k)
	for j, v := range vectors {
		for i := range v {
			a.Set(i, j, v[i])
		}
	}
	b := make([]symbolic.Expr, dim)
	for i := range b {
		b[i] = symbolic.AddOf(pc[i], symbolic.MulOf(symbolic.N(-1), start[i]))
	}
	x, err := symbolic.SolveLeastSquares(a, b)
	if errors.Is(err, symbolic.ErrNonNumericMatrix) {
		return plain, nil
	}
	if err != nil {
		return nil, err
	}
	ax, err := a.MulVec(x)
	if err != nil {
		return nil, err
	}
	eqs := make([]symbolic.Pred, dim)
	for i := range eqs {
		eqs[i] = symbolic.Eq(ax[i], b[i])
	}
	return ndspace.New(coords, paramExprs,
		ndspace.WithParent(parent),
		ndspace.WithImplicit(symbolic.Conjoin(eqs...)),
		ndspace.WithInverse(x...))
}

// VectorSpaceFromPoint is NewVectorSpace with the start given as a point.
func VectorSpaceFromPoint(start *ndspace.Subspace, vectors [][]symbolic.Expr, parent ndspace.Space) (*ndspace.Subspace, error) {
	if start.Order() != 0 {
		return nil, fmt.Errorf("%w: got order %d", ErrStartNotPoint, start.Order())
	}
	return NewVectorSpace(start.Coords(), vectors, parent)
}

// ThroughPoints returns the vector space starting at points[0] and spanned
// by the differences points[i] - points[0]. Points of unequal length are
// zero-padded.
func ThroughPoints(points [][]symbolic.Expr, parent ndspace.Space) (*ndspace.Subspace, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	start := points[0]
	vectors := make([][]symbolic.Expr, 0, len(points)-1)
	for _, p := range points[1:] {
		dim := max(len(start), len(p))
		v := make([]symbolic.Expr, dim)
		for i := range v {
			v[i] = symbolic.AddOf(at(p, i), symbolic.MulOf(symbolic.N(-1), at(start, i)))
		}
		vectors = append(vectors, v)
	}
	return NewVectorSpace(start, vectors, parent)
}

func at(v []symbolic.Expr, i int) symbolic.Expr {
	if i < len(v) {
		return v[i]
	}
	return symbolic.N(0)
}

// Line is the line through a and b.
func Line(a, b []symbolic.Expr, parent ndspace.Space) (*ndspace.Subspace, error) {
	return ThroughPoints([][]symbolic.Expr{a, b}, parent)
}

// Plane is the plane through a, b and c.
func Plane(a, b, c []symbolic.Expr, parent ndspace.Space) (*ndspace.Subspace, error) {
	return ThroughPoints([][]symbolic.Expr{a, b, c}, parent)
}
