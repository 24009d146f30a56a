package ndspace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/ndspace/symbolic"
)

// Unbounded is the order of the root space.
const Unbounded = math.MaxInt

// ============================================================
// Space
// ============================================================

// Space is a node of the embedding hierarchy. Following Parent from any
// space reaches the root, whose Parent is nil.
type Space interface {
	Parent() Space
	// Order is the number of free parameters; Unbounded for the root.
	Order() int
	String() string
}

// IsDescendant reports whether ancestor is s itself or appears on the chain
// of parents above s. Every space descends from the root.
func IsDescendant(s, ancestor Space) bool {
	for cur := s; cur != nil; cur = cur.Parent() {
		if Equal(cur, ancestor) {
			return true
		}
	}
	return false
}

// Depth is the number of parent hops from s to the root.
func Depth(s Space) int {
	n := 0
	for cur := s.Parent(); cur != nil; cur = cur.Parent() {
		n++
	}
	return n
}

// Equal reports structural equality. All root spaces are equal.
func Equal(a, b Space) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case RootSpace, *RootSpace:
		return isRoot(b)
	case *Subspace:
		y, ok := b.(*Subspace)
		return ok && x.Equal(y)
	case *Bound:
		y, ok := b.(*Bound)
		return ok && x.Equal(y)
	}
	return false
}

func isRoot(s Space) bool {
	switch s.(type) {
	case RootSpace, *RootSpace:
		return true
	}
	return false
}

// ============================================================
// RootSpace
// ============================================================

// RootSpace is the infinite-dimensional rectilinear space every hierarchy
// bottoms out in. Its coordinate i is the symbol "Global<i>".
type RootSpace struct{}

// Root is the root space. Any RootSpace value is interchangeable with it.
var Root = RootSpace{}

const rootPrefix = "Global"

func (RootSpace) Parent() Space  { return nil }
func (RootSpace) Order() int     { return Unbounded }
func (RootSpace) String() string { return "Root" }

// Coord returns the i-th root coordinate symbol. It panics if i < 0.
func (RootSpace) Coord(i int) *symbolic.Sym {
	if i < 0 {
		panic(fmt.Sprintf("ndspace: negative root coordinate index %d", i))
	}
	return symbolic.S(rootPrefix + strconv.Itoa(i))
}

// Coords returns the root coordinates start, start+1, ..., stop-1. A
// negative stop asks for every coordinate from start on, which cannot be
// materialised, so it fails with ErrCoordRange like any other bad range.
func (r RootSpace) Coords(start, stop int) ([]*symbolic.Sym, error) {
	switch {
	case stop < 0:
		return nil, fmt.Errorf("%w: cannot slice to the end of an infinite space", ErrCoordRange)
	case start < 0 || stop < start:
		return nil, fmt.Errorf("%w: [%d, %d)", ErrCoordRange, start, stop)
	}
	out := make([]*symbolic.Sym, 0, stop-start)
	for i := start; i < stop; i++ {
		out = append(out, r.Coord(i))
	}
	return out, nil
}

func (r RootSpace) X() *symbolic.Sym { return r.Coord(0) }
func (r RootSpace) Y() *symbolic.Sym { return r.Coord(1) }
func (r RootSpace) Z() *symbolic.Sym { return r.Coord(2) }

// CoordIndex returns i when e is the root coordinate symbol Global<i>.
func (RootSpace) CoordIndex(e symbolic.Expr) (int, bool) {
	s, ok := e.(*symbolic.Sym)
	if !ok || s.IsDummy() {
		return 0, false
	}
	digits, ok := strings.CutPrefix(s.Name(), rootPrefix)
	if !ok || digits == "" || digits[0] < '0' || digits[0] > '9' || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(digits)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
