// Package ladder defines the ranked collections served by the pagination
// engine: teams, clans, matches and clan membership events.
//
// Each collection declares its row type, the sort keys it may be listed
// by, a typed filter and, for collections stored one row per child, the
// assembler that turns rows into entities. Sort keys and column accessors
// are read-only after package initialization.
package ladder

import (
	"sort"

	"github.com/friendsofgo/errors"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
)

// sorts maps the public sort names of a collection to their paginators.
type sorts[P any] struct {
	byName   map[string]P
	fallback string
}

// pick returns the paginator for name. An empty name selects the default.
func (s sorts[P]) pick(name string) (P, error) {
	if name == "" {
		name = s.fallback
	}
	p, ok := s.byName[name]
	if !ok {
		var zero P
		return zero, errors.Wrapf(paging.ErrInvalidArgument, "unknown sort %q, expected one of %v", name, s.names())
	}
	return p, nil
}

func (s sorts[P]) names() []string {
	names := lo.Keys(s.byName)
	sort.Strings(names)
	return names
}

// bound turns an optional range bound into a filter value.
func bound[V any](v *V) any {
	if v == nil {
		return nil
	}
	return *v
}
