// Package scene keeps a registry of named spaces and evaluates queries
// against it. Scenes can be built programmatically with Define and Run or
// loaded from YAML files.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/njchilds90/ndspace"
	"github.com/njchilds90/ndspace/shapes"
	"github.com/njchilds90/ndspace/symbolic"
)

var (
	ErrEmptyName     = errors.New("scene: name is required")
	ErrReservedName  = errors.New("scene: name is reserved")
	ErrDuplicateName = errors.New("scene: name already defined")
	ErrUnknownSpace  = errors.New("scene: unknown space")
	ErrUnknownKind   = errors.New("scene: unknown kind")
	ErrUnknownOp     = errors.New("scene: unknown query op")
	ErrNotSubspace   = errors.New("scene: space is not a subspace")
)

// RootName refers to the root space in definitions and queries.
const RootName = "root"

// Definition kinds.
const (
	KindSubspace    = "subspace"
	KindCylindrical = "cylindrical"
	KindVector      = "vector"
	KindPoints      = "points"
	KindBound       = "bound"
)

// Definition describes one named space. Expressions are written in the
// symbolic package's infix syntax.
type Definition struct {
	Name string `yaml:"name" json:"name"`
	// Kind defaults to "subspace".
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Parent string `yaml:"parent,omitempty" json:"parent,omitempty"`

	// subspace
	Coords   []string `yaml:"coords,omitempty" json:"coords,omitempty"`
	Params   []string `yaml:"params,omitempty" json:"params,omitempty"`
	Implicit string   `yaml:"implicit,omitempty" json:"implicit,omitempty"`
	Inverse  []string `yaml:"inverse,omitempty" json:"inverse,omitempty"`

	// vector
	Start   []string   `yaml:"start,omitempty" json:"start,omitempty"`
	Vectors [][]string `yaml:"vectors,omitempty" json:"vectors,omitempty"`

	// points
	Points [][]string `yaml:"points,omitempty" json:"points,omitempty"`

	// bound
	Carrier string   `yaml:"carrier,omitempty" json:"carrier,omitempty"`
	Loop    []string `yaml:"loop,omitempty" json:"loop,omitempty"`
}

// Scene is a registry of named spaces. It is safe for concurrent use.
type Scene struct {
	mu     sync.RWMutex
	spaces map[string]ndspace.Space
	logger *slog.Logger
}

// New returns an empty scene. A nil logger means slog.Default().
func New(logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scene{spaces: make(map[string]ndspace.Space), logger: logger}
}

// Get returns the space registered under name; "root" is always present.
func (s *Scene) Get(name string) (ndspace.Space, bool) {
	if strings.EqualFold(name, RootName) {
		return ndspace.Root, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.spaces[name]
	return sp, ok
}

// Names returns the registered names in sorted order.
func (s *Scene) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.spaces))
	for n := range s.spaces {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered spaces, not counting root.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spaces)
}

// Define builds the space d describes and registers it under d.Name.
func (s *Scene) Define(d Definition) (ndspace.Space, error) {
	kind := d.Kind
	if kind == "" {
		kind = KindSubspace
	}
	if err := checkName(d.Name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spaces[d.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, d.Name)
	}
	sp, err := s.build(kind, d)
	if err != nil {
		definitionsTotal.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("define %q: %w", d.Name, err)
	}
	s.spaces[d.Name] = sp
	definitionsTotal.WithLabelValues(kind, "ok").Inc()
	s.logger.Debug("Space defined",
		slog.String("name", d.Name),
		slog.String("kind", kind),
		slog.Int("order", sp.Order()))
	return sp, nil
}

func checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.EqualFold(name, RootName) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return nil
}

// store registers sp under name.
func (s *Scene) store(name string, sp ndspace.Space) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spaces[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.spaces[name] = sp
	return nil
}

// build runs with s.mu held.
func (s *Scene) build(kind string, d Definition) (ndspace.Space, error) {
	switch kind {
	case KindBound:
		return s.buildBound(d)
	case KindSubspace, KindCylindrical, KindVector, KindPoints:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	parent, err := s.lookupLocked(d.Parent)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindCylindrical:
		return shapes.Cylindrical(parent)
	case KindVector:
		start, err := symbolic.ParseAll(d.Start)
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		vectors, err := parseRows("vectors", d.Vectors)
		if err != nil {
			return nil, err
		}
		return shapes.NewVectorSpace(start, vectors, parent)
	case KindPoints:
		points, err := parseRows("points", d.Points)
		if err != nil {
			return nil, err
		}
		return shapes.ThroughPoints(points, parent)
	}

	coords, err := symbolic.ParseAll(d.Coords)
	if err != nil {
		return nil, fmt.Errorf("coords: %w", err)
	}
	params, err := symbolic.ParseAll(d.Params)
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	opts := []ndspace.Option{ndspace.WithParent(parent)}
	if d.Implicit != "" {
		imp, err := symbolic.ParsePred(d.Implicit)
		if err != nil {
			return nil, fmt.Errorf("implicit: %w", err)
		}
		opts = append(opts, ndspace.WithImplicit(imp))
	}
	if d.Inverse != nil {
		inv, err := symbolic.ParseAll(d.Inverse)
		if err != nil {
			return nil, fmt.Errorf("inverse: %w", err)
		}
		opts = append(opts, ndspace.WithInverse(inv...))
	}
	return ndspace.New(coords, params, opts...)
}

func (s *Scene) buildBound(d Definition) (ndspace.Space, error) {
	carrier, err := s.lookupLocked(d.Carrier)
	if err != nil {
		return nil, err
	}
	sub, ok := carrier.(*ndspace.Subspace)
	if !ok {
		return nil, fmt.Errorf("carrier %q: %w", d.Carrier, ErrNotSubspace)
	}
	loop, err := s.loopLocked(d.Loop)
	if err != nil {
		return nil, err
	}
	return ndspace.NewBound(sub, loop)
}

func (s *Scene) loopLocked(names []string) (*ndspace.Loop, error) {
	members := make([]ndspace.Space, len(names))
	for i, n := range names {
		sp, err := s.lookupLocked(n)
		if err != nil {
			return nil, err
		}
		members[i] = sp
	}
	return ndspace.NewLoop(members...)
}

// lookupLocked resolves name; the empty name and "root" are the root space.
func (s *Scene) lookupLocked(name string) (ndspace.Space, error) {
	if name == "" || strings.EqualFold(name, RootName) {
		return ndspace.Root, nil
	}
	sp, ok := s.spaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpace, name)
	}
	return sp, nil
}

func (s *Scene) lookup(name string) (ndspace.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(name)
}

func (s *Scene) subspace(name string) (*ndspace.Subspace, error) {
	sp, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	sub, ok := sp.(*ndspace.Subspace)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotSubspace)
	}
	return sub, nil
}

func parseRows(field string, rows [][]string) ([][]symbolic.Expr, error) {
	out := make([][]symbolic.Expr, len(rows))
	for i, r := range rows {
		es, err := symbolic.ParseAll(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out[i] = es
	}
	return out, nil
}
