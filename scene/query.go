package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/symbolic"
)

// Query ops.
const (
	OpLift         = "lift"
	OpContains     = "contains"
	OpIsDescendant = "is_descendant"
	OpSubstitute   = "substitute"
	OpLoop         = "loop"
)

// Query asks one question about the scene.
//
//	lift          Space lifted by Levels (0 lifts to the root)
//	contains      whether Space contains Other
//	is_descendant whether Space descends from Other
//	substitute    Space with Mapping applied
//	loop          validates Members as a loop
//
// Lift and substitute results are registered under As when it is set.
type Query struct {
	Op      string            `yaml:"op" json:"op"`
	Space   string            `yaml:"space,omitempty" json:"space,omitempty"`
	Other   string            `yaml:"other,omitempty" json:"other,omitempty"`
	Levels  int               `yaml:"levels,omitempty" json:"levels,omitempty"`
	Mapping map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
	Members []string          `yaml:"members,omitempty" json:"members,omitempty"`
	As      string            `yaml:"as,omitempty" json:"as,omitempty"`
}

// Result is the answer to a Query. Which fields are set depends on Op.
type Result struct {
	Op string
	// Space is set for lift and substitute.
	Space ndspace.Space
	// Pred is set for contains.
	Pred symbolic.Pred
	// Loop is set for loop.
	Loop *ndspace.Loop
	// Value and Known report a decided boolean: always for is_descendant,
	// and for contains when Pred folded to a literal.
	Value bool
	Known bool
}

func (r Result) String() string {
	switch {
	case r.Space != nil:
		return r.Space.String()
	case r.Pred != nil:
		return r.Pred.String()
	case r.Loop != nil:
		return r.Loop.String()
	}
	return strconv.FormatBool(r.Value)
}

// Run evaluates q.
func (s *Scene) Run(q Query) (Result, error) {
	start := time.Now()
	res, err := s.run(q)
	queryDuration.WithLabelValues(q.Op).Observe(time.Since(start).Seconds())
	queryTotal.WithLabelValues(q.Op, outcome(err)).Inc()
	if err != nil {
		s.logger.Debug("Query failed",
			slog.String("op", q.Op),
			slog.String("space", q.Space),
			slog.String("error", err.Error()))
		return Result{}, fmt.Errorf("%s %s: %w", q.Op, q.Space, err)
	}
	s.logger.Debug("Query evaluated",
		slog.String("op", q.Op),
		slog.String("space", q.Space),
		slog.String("result", res.String()),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ndspace.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ndspace.ErrValidation):
		return "invalid"
	}
	return "error"
}

func (s *Scene) run(q Query) (Result, error) {
	switch q.Op {
	case OpLift:
		sub, err := s.subspace(q.Space)
		if err != nil {
			return Result{}, err
		}
		lifted := sub.LiftAll()
		if q.Levels > 0 {
			lifted = sub.Lift(q.Levels)
		}
		liftDepth.Observe(float64(ndspace.Depth(sub) - ndspace.Depth(lifted)))
		return s.keep(q, Result{Op: q.Op, Space: lifted})

	case OpContains:
		sub, err := s.subspace(q.Space)
		if err != nil {
			return Result{}, err
		}
		other, err := s.subspace(q.Other)
		if err != nil {
			return Result{}, err
		}
		p, err := sub.Contains(other)
		if err != nil {
			return Result{}, err
		}
		v, known := p.Truth()
		return Result{Op: q.Op, Pred: p, Value: v, Known: known}, nil

	case OpIsDescendant:
		sp, err := s.lookup(q.Space)
		if err != nil {
			return Result{}, err
		}
		anc, err := s.lookup(q.Other)
		if err != nil {
			return Result{}, err
		}
		return Result{Op: q.Op, Value: ndspace.IsDescendant(sp, anc), Known: true}, nil

	case OpSubstitute:
		mapping, err := parseMapping(q.Mapping)
		if err != nil {
			return Result{}, err
		}
		sp, err := s.lookup(q.Space)
		if err != nil {
			return Result{}, err
		}
		var out ndspace.Space
		switch v := sp.(type) {
		case *ndspace.Subspace:
			out, err = v.Substitute(mapping)
		case *ndspace.Bound:
			out, err = v.Substitute(mapping)
		default:
			err = fmt.Errorf("%q: %w", q.Space, ErrNotSubspace)
		}
		if err != nil {
			return Result{}, err
		}
		return s.keep(q, Result{Op: q.Op, Space: out})

	case OpLoop:
		s.mu.RLock()
		loop, err := s.loopLocked(q.Members)
		s.mu.RUnlock()
		if err != nil {
			return Result{}, err
		}
		return Result{Op: q.Op, Loop: loop, Value: true, Known: true}, nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownOp, q.Op)
}

func (s *Scene) keep(q Query, r Result) (Result, error) {
	if q.As == "" {
		return r, nil
	}
	if err := s.store(q.As, r.Space); err != nil {
		return Result{}, err
	}
	return r, nil
}

func parseMapping(m map[string]string) (map[string]symbolic.Expr, error) {
	out := make(map[string]symbolic.Expr, len(m))
	for k, src := range m {
		e, err := symbolic.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("mapping %s: %w", k, err)
		}
		out[k] = e
	}
	return out, nil
}
