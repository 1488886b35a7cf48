// Package memory provides a RowSource over a static in-memory slice.
//
// It backs read-only reference data built once at startup and serves as
// the row source of unit tests: it counts its calls so tests can assert
// that invalid requests never reach the store.
package memory

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/friendsofgo/errors"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/filter"
)

// Accessor returns the value of a named column of one row.
type Accessor[T any] func(row T, column string) (any, bool)

// Source is an immutable, concurrency-safe RowSource over a slice.
type Source[T any] struct {
	rows  []T
	get   Accessor[T]
	calls atomic.Int64
}

// New creates a Source over a copy of rows.
func New[T any](rows []T, get Accessor[T]) *Source[T] {
	return &Source[T]{
		rows: append([]T(nil), rows...),
		get:  get,
	}
}

// Calls returns how many times Fetch has been called.
func (s *Source[T]) Calls() int {
	return int(s.calls.Load())
}

// Len returns the number of rows held.
func (s *Source[T]) Len() int {
	return len(s.rows)
}

// Fetch implements paging.RowSource. It filters by q.Predicate and
// q.Boundary, sorts by q.Order and truncates to q.Limit.
func (s *Source[T]) Fetch(ctx context.Context, q paging.Query) ([]T, error) {
	s.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		out     []T
		scanErr error
	)
	for _, row := range s.rows {
		ok, err := s.admits(row, q)
		if err != nil {
			scanErr = err
			break
		}
		if ok {
			out = append(out, row)
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}

	sort.SliceStable(out, func(i, j int) bool {
		if scanErr != nil {
			return false
		}
		c, err := s.compare(out[i], out[j], q.Order)
		if err != nil {
			scanErr = err
			return false
		}
		return c < 0
	})
	if scanErr != nil {
		return nil, scanErr
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if out == nil {
		out = []T{}
	}

	return out, nil
}

func (s *Source[T]) admits(row T, q paging.Query) (bool, error) {
	ok, err := filter.Match(q.Predicate, func(field string) (any, bool) {
		return s.get(row, field)
	})
	if err != nil || !ok {
		return false, err
	}

	if q.Boundary == nil {
		return true, nil
	}

	tuple, err := s.tuple(row, q.Boundary.Columns)
	if err != nil {
		return false, err
	}
	return q.Boundary.Admits(tuple)
}

func (s *Source[T]) compare(a, b T, order []paging.Sort) (int, error) {
	ta, err := s.tuple(a, order)
	if err != nil {
		return 0, err
	}
	tb, err := s.tuple(b, order)
	if err != nil {
		return 0, err
	}
	return paging.CompareTuples(ta, tb, order)
}

func (s *Source[T]) tuple(row T, cols []paging.Sort) ([]any, error) {
	var missing string
	tuple := lo.Map(cols, func(col paging.Sort, _ int) any {
		v, ok := s.get(row, col.Column)
		if !ok && missing == "" {
			missing = col.Column
		}
		return v
	})
	if missing != "" {
		return nil, errors.Errorf("unknown column %q", missing)
	}
	return tuple, nil
}
