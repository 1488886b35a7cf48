package cursor

import (
	"context"

	paging "github.com/nrfta/ladder-paging"
)

// fillState tracks state across the fetches of one grouped page.
type fillState[R any] struct {
	rows       []R
	iteration  int
	groups     int
	lastParent []any
	exhausted  bool
}

// needsMore reports whether the page's last group may still be open. The
// pageSize-th group is complete only once the next one has started.
func (s *fillState[R]) needsMore(pageSize int) bool {
	return !s.exhausted && s.groups <= pageSize
}

// fill reads rows in q.Order until pageSize+1 groups have started, the
// source is exhausted or the iteration budget is spent. Every fetch after
// the first is anchored on the full parent+child key of the last row read.
func (g *Grouped[R, E]) fill(ctx context.Context, state *fillState[R], q paging.Query, pageSize int) error {
	for state.needsMore(pageSize) && state.iteration < g.cfg.maxFillIterations {
		if err := g.fillIteration(ctx, state, &q); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grouped[R, E]) fillIteration(ctx context.Context, state *fillState[R], q *paging.Query) error {
	rows, err := g.source.Fetch(ctx, *q)
	if err != nil {
		return &paging.StoreError{Key: g.parent.ID(), Err: err}
	}
	state.iteration++

	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	if len(rows) < q.Limit {
		state.exhausted = true
	}

	parentOrder := q.Order[:g.parent.Len()]
	for _, row := range rows {
		pos, err := g.parent.Position(row)
		if err != nil {
			return err
		}
		if state.lastParent == nil {
			state.groups++
		} else {
			c, err := paging.CompareTuples(pos, state.lastParent, parentOrder)
			if err != nil {
				return err
			}
			if c != 0 {
				state.groups++
			}
		}
		state.lastParent = pos
	}
	state.rows = append(state.rows, rows...)

	if state.exhausted || len(rows) == 0 {
		return nil
	}

	anchor, err := g.combined.Position(rows[len(rows)-1])
	if err != nil {
		return err
	}
	q.Boundary = &paging.Boundary{Columns: q.Order, Values: anchor}

	return nil
}
