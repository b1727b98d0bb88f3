// Package clauses holds the versioned clause taxonomy. Identifiers are
// contract keys: within a major version they are only ever added, never
// renamed or removed.
package clauses

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"clausegrade/internal/domain"
)

//go:embed clauses.yaml
var embedded []byte

var (
	ErrDuplicateID     = errors.New("duplicate clause id")
	ErrInvalidCategory = errors.New("invalid clause category")
	ErrInvalidSeverity = errors.New("invalid typical severity")
)

// Registry is an immutable clause table. Share it by pointer.
type Registry struct {
	version *semver.Version
	types   []domain.ClauseType
	byID    map[string]int
}

type file struct {
	Version string              `yaml:"version"`
	Clauses []domain.ClauseType `yaml:"clauses"`
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry compiled into the binary. It panics if the
// embedded table is invalid, which the package tests guard against.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Load(embedded)
		if err != nil {
			panic(fmt.Sprintf("clauses: embedded registry: %v", err))
		}
		defaultReg = r
	})
	return defaultReg
}

// Load parses and validates a YAML clause table.
func Load(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("clauses: parse: %w", err)
	}
	v, err := semver.NewVersion(f.Version)
	if err != nil {
		return nil, fmt.Errorf("clauses: version %q: %w", f.Version, err)
	}
	r := &Registry{version: v, byID: make(map[string]int, len(f.Clauses))}
	for _, ct := range f.Clauses {
		if ct.ID == "" {
			return nil, fmt.Errorf("clauses: empty id")
		}
		if _, dup := r.byID[ct.ID]; dup {
			return nil, fmt.Errorf("clauses: %w: %s", ErrDuplicateID, ct.ID)
		}
		switch ct.Category {
		case domain.CategoryLegal, domain.CategoryReturns, domain.CategoryPricing, domain.CategoryPrivacy, domain.CategoryShipping:
		default:
			return nil, fmt.Errorf("clauses: %w: %s has %q", ErrInvalidCategory, ct.ID, ct.Category)
		}
		if !ct.TypicalSeverity.Valid() {
			return nil, fmt.Errorf("clauses: %w: %s has %q", ErrInvalidSeverity, ct.ID, ct.TypicalSeverity)
		}
		r.byID[ct.ID] = len(r.types)
		r.types = append(r.types, ct)
	}
	return r, nil
}

// Version is the semantic version of the table.
func (r *Registry) Version() string { return r.version.String() }

// Compatible reports whether identifiers from a table at version are still
// valid keys in this one, which holds when the major versions match.
func (r *Registry) Compatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Major() == r.version.Major()
}

// List returns the clause types in table order.
func (r *Registry) List() []domain.ClauseType {
	out := make([]domain.ClauseType, len(r.types))
	copy(out, r.types)
	return out
}

func (r *Registry) Lookup(id string) (domain.ClauseType, bool) {
	i, ok := r.byID[id]
	if !ok {
		return domain.ClauseType{}, false
	}
	return r.types[i], true
}

// IDs returns every identifier in table order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.types))
	for i, ct := range r.types {
		out[i] = ct.ID
	}
	return out
}

// Index returns the table position of id, or -1. Extraction output is ordered by it.
func (r *Registry) Index(id string) int {
	i, ok := r.byID[id]
	if !ok {
		return -1
	}
	return i
}
