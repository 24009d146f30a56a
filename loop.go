package ndspace

import (
	"fmt"
	"strings"

	"github.com/njchilds90/ndspace/symbolic"
)

// ============================================================
// Loop
// ============================================================

// Loop is a closed boundary made of same-order spaces. Two points form a
// loop of order 0. For higher orders every member is a *Bound and each
// space bounding a member is shared by exactly two members. A loop need not
// be a single connected cycle.
type Loop struct {
	members []Space
}

// NewLoop validates members and builds a loop. Violations are
// *ValidationError values with rule RuleLoop.
func NewLoop(members ...Space) (*Loop, error) {
	if len(members) == 0 {
		return nil, invalid(RuleLoop, ErrEmptyLoop, "")
	}
	for i, m := range members {
		if isNilSpace(m) {
			return nil, invalid(RuleLoop, ErrLoopNilMember, "member %d", i)
		}
	}
	order := members[0].Order()
	for i, m := range members[1:] {
		if m.Order() != order {
			return nil, invalid(RuleLoop, ErrLoopOrderMismatch, "member %d has order %d, member 0 has %d", i+1, m.Order(), order)
		}
	}
	if order == 0 {
		if len(members) != 2 {
			return nil, invalid(RuleLoop, ErrLoopPointCount, "got %d points", len(members))
		}
		return &Loop{members: append([]Space(nil), members...)}, nil
	}

	counts := map[string]int{}
	var keys []string
	for i, m := range members {
		b, ok := m.(*Bound)
		if !ok {
			return nil, invalid(RuleLoop, ErrLoopMemberUnbounded, "member %d is %T", i, m)
		}
		for _, edge := range b.loop.members {
			k := edge.String()
			if counts[k] == 0 {
				keys = append(keys, k)
			}
			counts[k]++
		}
	}
	for _, k := range keys {
		if counts[k] != 2 {
			return nil, invalid(RuleLoop, ErrLoopNotManifold, "%s is shared by %d members", k, counts[k])
		}
	}
	return &Loop{members: append([]Space(nil), members...)}, nil
}

func isNilSpace(s Space) bool {
	switch v := s.(type) {
	case nil:
		return true
	case *Subspace:
		return v == nil
	case *Bound:
		return v == nil
	}
	return false
}

// Members returns a copy of the loop members.
func (l *Loop) Members() []Space { return append([]Space(nil), l.members...) }

// Order is the common order of the members, or -1 for a Loop not built by
// NewLoop.
func (l *Loop) Order() int {
	if len(l.members) == 0 {
		return -1
	}
	return l.members[0].Order()
}

// Equal compares members positionally.
func (l *Loop) Equal(o *Loop) bool {
	if l == o {
		return true
	}
	if o == nil || len(l.members) != len(o.members) {
		return false
	}
	for i := range l.members {
		if !Equal(l.members[i], o.members[i]) {
			return false
		}
	}
	return true
}

func (l *Loop) String() string {
	parts := make([]string, len(l.members))
	for i, m := range l.members {
		parts[i] = m.String()
	}
	return "Loop(" + strings.Join(parts, ", ") + ")"
}

// ============================================================
// Bound
// ============================================================

// Bound is a subspace restricted to the region enclosed by a loop whose
// order is one below it, such as a segment of a line between two points.
// Its parent is the carrier subspace and it shares the carrier's frame.
type Bound struct {
	carrier *Subspace
	loop    *Loop
}

// NewBound restricts carrier by loop.
func NewBound(carrier *Subspace, loop *Loop) (*Bound, error) {
	if carrier == nil || loop == nil {
		return nil, invalid(RuleBound, ErrBoundOrder, "nil carrier or loop")
	}
	if len(loop.members) == 0 {
		return nil, invalid(RuleBound, ErrEmptyLoop, "")
	}
	if loop.Order() != carrier.Order()-1 {
		return nil, invalid(RuleBound, ErrBoundOrder, "loop order %d, carrier order %d", loop.Order(), carrier.Order())
	}
	return &Bound{carrier: carrier, loop: loop}, nil
}

func (b *Bound) Parent() Space       { return b.carrier }
func (b *Bound) Order() int          { return b.carrier.Order() }
func (b *Bound) Carrier() *Subspace  { return b.carrier }
func (b *Bound) BoundingLoop() *Loop { return b.loop }

func (b *Bound) Equal(o *Bound) bool {
	return b == o || (o != nil && b.carrier.Equal(o.carrier) && b.loop.Equal(o.loop))
}

func (b *Bound) String() string {
	return fmt.Sprintf("Bound(%s, %s)", b.carrier, b.loop)
}

// Substitute applies mapping to the carrier and every loop member. It fails
// when the substitution breaks the order relation between them.
func (b *Bound) Substitute(mapping map[string]symbolic.Expr) (*Bound, error) {
	carrier, err := b.carrier.Substitute(mapping)
	if err != nil {
		return nil, err
	}
	members := make([]Space, len(b.loop.members))
	for i, m := range b.loop.members {
		switch v := m.(type) {
		case *Subspace:
			if members[i], err = v.Substitute(mapping); err != nil {
				return nil, err
			}
		case *Bound:
			if members[i], err = v.Substitute(mapping); err != nil {
				return nil, err
			}
		default:
			members[i] = m
		}
	}
	loop, err := NewLoop(members...)
	if err != nil {
		return nil, err
	}
	return NewBound(carrier, loop)
}
