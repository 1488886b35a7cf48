package filter

import (
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
)

// Accessor returns the value of a named field of one row.
type Accessor func(field string) (any, bool)

// Match evaluates pred against a single row in memory.
// An unknown field or an incomparable value is an error.
func Match(pred paging.Predicate, get Accessor) (bool, error) {
	for _, c := range pred {
		v, ok := get(c.Field)
		if !ok {
			return false, errors.Errorf("unknown field %q", c.Field)
		}

		matched, err := matchOne(c, v)
		if err != nil {
			return false, errors.Wrapf(err, "field %s", c.Field)
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}

func matchOne(c paging.Criterion, v any) (bool, error) {
	switch c.Op {
	case paging.OpEq:
		cmp, err := paging.Compare(v, c.Value)
		return cmp == 0, err

	case paging.OpIn:
		values, ok := c.Value.([]any)
		if !ok {
			return false, errors.Errorf("IN expects []any, got %T", c.Value)
		}
		for _, want := range values {
			cmp, err := paging.Compare(v, want)
			if err != nil {
				return false, err
			}
			if cmp == 0 {
				return true, nil
			}
		}
		return false, nil

	case paging.OpGte:
		cmp, err := paging.Compare(v, c.Value)
		return cmp >= 0, err

	case paging.OpLte:
		cmp, err := paging.Compare(v, c.Value)
		return cmp <= 0, err

	case paging.OpPrefix, paging.OpContains:
		s, ok := v.(string)
		if !ok {
			return false, errors.Errorf("%s expects a string column, got %T", c.Op, v)
		}
		q, ok := c.Value.(string)
		if !ok {
			return false, errors.Errorf("%s expects a string query, got %T", c.Op, c.Value)
		}
		if c.Op == paging.OpPrefix {
			return strings.HasPrefix(s, q), nil
		}
		return strings.Contains(s, q), nil
	}

	return false, errors.Errorf("unsupported operator %q", c.Op)
}

// Fields lists the distinct fields referenced by pred.
func Fields(pred paging.Predicate) []string {
	return lo.Uniq(lo.Map(pred, func(c paging.Criterion, _ int) string { return c.Field }))
}
