package ndspace

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every construction failure. Use errors.Is with
// the specific sentinels below to branch on the violated rule.
var ErrValidation = errors.New("ndspace: validation failed")

// ErrUnsupported is returned by Contains when no decision procedure applies.
// It means "unknown", never "not contained".
var ErrUnsupported = errors.New("ndspace: unsupported operation")

// ErrCoordRange indicates a root coordinate range that is negative, reversed
// or open-ended.
var ErrCoordRange = errors.New("ndspace: invalid root coordinate range")

// Subspace rules.
var (
	ErrParamNotSymbol         = errors.New("ndspace: parameter is not a symbol")
	ErrDuplicateParam         = errors.New("ndspace: duplicate parameter")
	ErrTooManyCoords          = errors.New("ndspace: more coordinates than parent parameters")
	ErrInverseWithoutImplicit = errors.New("ndspace: inverse requires an implicit predicate")
	ErrInverseLength          = errors.New("ndspace: inverse length differs from parameter count")
	ErrParentInverse          = errors.New("ndspace: implicit predicate requires a parent inverse")
	ErrBadParent              = errors.New("ndspace: parent must be Root, a *Subspace or a *Bound")
)

// Loop and Bound rules.
var (
	ErrEmptyLoop           = errors.New("ndspace: loop has no members")
	ErrLoopNilMember       = errors.New("ndspace: loop member is nil")
	ErrLoopOrderMismatch   = errors.New("ndspace: loop members differ in order")
	ErrLoopPointCount      = errors.New("ndspace: a loop of points must have exactly two members")
	ErrLoopMemberUnbounded = errors.New("ndspace: loop member has no bounding loop")
	ErrLoopNotManifold     = errors.New("ndspace: loop is not 2-manifold")
	ErrBoundOrder          = errors.New("ndspace: bounding loop order must be one below the carrier order")
)

// Rule names the construction invariant a ValidationError reports.
type Rule int

const (
	// RuleParams: every parameter is a distinct symbol.
	RuleParams Rule = iota + 1
	// RuleCoords: no more coordinates than the parent has parameters.
	RuleCoords
	// RuleInverse: an inverse comes with an implicit predicate and has one
	// entry per parameter.
	RuleInverse
	// RuleImplicit: an implicit predicate needs a parent inverse unless the
	// parent is the root.
	RuleImplicit
	// RuleLoop: loop membership and manifold checks.
	RuleLoop
	// RuleBound: bounding loop order.
	RuleBound
)

func (r Rule) String() string {
	switch r {
	case RuleParams:
		return "params"
	case RuleCoords:
		return "coords"
	case RuleInverse:
		return "inverse"
	case RuleImplicit:
		return "implicit"
	case RuleLoop:
		return "loop"
	case RuleBound:
		return "bound"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ValidationError reports a construction-time invariant violation.
type ValidationError struct {
	Rule   Rule
	Err    error // one of the rule sentinels
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s [%s]", e.Err, e.Rule)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Err, e.Rule, e.Detail)
}

// Unwrap exposes both ErrValidation and the rule sentinel to errors.Is.
func (e *ValidationError) Unwrap() []error { return []error{ErrValidation, e.Err} }

func invalid(rule Rule, err error, format string, args ...any) error {
	return &ValidationError{Rule: rule, Err: err, Detail: fmt.Sprintf(format, args...)}
}
