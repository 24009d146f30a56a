package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML form of a scene:
//
//	subspaces:
//	  - name: cylinder
//	    kind: cylindrical
//	  - name: circle
//	    parent: cylinder
//	    coords: ["1", "2*pi*a", "3"]
//	    params: [a]
//	queries:
//	  - op: lift
//	    space: circle
type File struct {
	Subspaces []Definition `yaml:"subspaces" json:"subspaces"`
	Queries   []Query      `yaml:"queries,omitempty" json:"queries,omitempty"`
}

// Report pairs a query with its outcome.
type Report struct {
	Query  Query
	Result Result
	Err    error
}

// Load reads and decodes a scene file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a scene file. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	return &f, nil
}

// Apply defines every space in f, in order, then runs its queries. A failed
// definition stops Apply; a failed query is recorded in its Report.
func (s *Scene) Apply(f *File) ([]Report, error) {
	for _, d := range f.Subspaces {
		if _, err := s.Define(d); err != nil {
			return nil, err
		}
	}
	reports := make([]Report, len(f.Queries))
	for i, q := range f.Queries {
		res, err := s.Run(q)
		if err != nil {
			s.logger.Warn("Query failed", slog.Int("index", i), slog.String("error", err.Error()))
		}
		reports[i] = Report{Query: q, Result: res, Err: err}
	}
	return reports, nil
}
