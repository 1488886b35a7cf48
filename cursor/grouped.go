package cursor

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/filter"
)

// AssembleFunc builds one parent entity from all of its child rows. Rows
// arrive in base order (parent key, then child key).
type AssembleFunc[R any, E any] func(rows []R) (E, error)

// Grouped paginates parent entities stored as one row per child, such as a
// team with its members or a match with its participants.
//
// The page boundary is defined over the parent key only: a parent is never
// split across pages, so a page may contain more than pageSize raw rows.
// Cursors encode the parent tuple.
type Grouped[R any, E any] struct {
	parent   *SortKey[R]
	child    *SortKey[R]
	combined *SortKey[R]
	source   paging.RowSource[R]
	assemble AssembleFunc[R, E]
	cfg      *config
}

// NewGrouped creates a grouped paginator. parent must end in the unique
// parent id and child in an id unique within one parent.
//
// Example usage:
//
//	p, err := cursor.NewGrouped(teamRating, teamMember, source, assembleTeam,
//	    cursor.WithRowsPerGroup(4),
//	)
func NewGrouped[R any, E any](
	parent, child *SortKey[R],
	source paging.RowSource[R],
	assemble AssembleFunc[R, E],
	opts ...Option,
) (*Grouped[R, E], error) {
	if err := parent.Validate(); err != nil {
		return nil, err
	}
	if err := child.Validate(); err != nil {
		return nil, err
	}
	if dup := lo.Intersect(parent.Columns(), child.Columns()); len(dup) > 0 {
		return nil, errors.Errorf("sort key %s: child key repeats columns %v", parent.ID(), dup)
	}
	if source == nil {
		return nil, errors.New("row source is nil")
	}
	if assemble == nil {
		return nil, errors.New("assemble func is nil")
	}

	return &Grouped[R, E]{
		parent:   parent,
		child:    child,
		combined: parent.Join(child),
		source:   source,
		assemble: assemble,
		cfg:      newConfig(opts),
	}, nil
}

// Key returns the parent sort key.
func (g *Grouped[R, E]) Key() *SortKey[R] {
	return g.parent
}

// Paginate validates request arguments, decodes the cursor token and
// fetches one page of parent entities.
func (g *Grouped[R, E]) Paginate(ctx context.Context, args *paging.PageArgs, filters filter.Filters) (*paging.Page[E], error) {
	cur, size, err := prepare(args, g.parent, g.cfg)
	if err != nil {
		g.cfg.metrics.ObserveError(g.parent.ID(), err)
		return nil, err
	}
	return g.Fetch(ctx, filters, cur, size)
}

// Fetch returns the page of at most pageSize parent entities adjacent to
// cur, each with all of its child rows.
func (g *Grouped[R, E]) Fetch(ctx context.Context, filters filter.Filters, cur *paging.Cursor, pageSize int) (*paging.Page[E], error) {
	start := time.Now()

	page, state, err := g.fetch(ctx, filters, cur, pageSize)
	if err != nil {
		g.cfg.metrics.ObserveError(g.parent.ID(), err)
		return nil, err
	}

	dir := directionOf(cur)
	g.cfg.metrics.ObserveFetch(g.parent.ID(), dir, len(state.rows), time.Since(start))
	g.cfg.metrics.ObserveFill(g.parent.ID(), state.iteration)
	g.cfg.logger.WithFields(logrus.Fields{
		"key":        g.parent.ID(),
		"direction":  dir.String(),
		"limit":      pageSize,
		"rows":       len(state.rows),
		"groups":     len(page.Rows),
		"iterations": state.iteration,
	}).Debug("fetched grouped page")

	return page, nil
}

func (g *Grouped[R, E]) fetch(ctx context.Context, filters filter.Filters, cur *paging.Cursor, pageSize int) (*paging.Page[E], *fillState[R], error) {
	if pageSize <= 0 {
		return nil, nil, &paging.PageSizeError{Requested: pageSize}
	}

	pred, err := g.cfg.composer.Compose(filters)
	if err != nil {
		return nil, nil, err
	}

	boundary, _, err := BuildBoundary(cur, g.parent)
	if err != nil {
		return nil, nil, err
	}

	dir := directionOf(cur)
	order := g.combined.BaseOrder()
	if dir == paging.Backward {
		order = paging.InvertOrder(order)
	}

	state := &fillState[R]{}
	if err := g.fill(ctx, state, paging.Query{
		Order:     order,
		Boundary:  boundary,
		Predicate: pred,
		Limit:     pageSize*g.cfg.rowsPerGroup + 1,
	}, pageSize); err != nil {
		return nil, nil, err
	}

	groups, err := g.split(state.rows, order)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case len(groups) > pageSize:
		groups = groups[:pageSize]
	case !state.exhausted:
		dropped := groups[len(groups)-1]
		groups = groups[:len(groups)-1]
		g.cfg.logger.WithFields(logrus.Fields{
			"key":        g.parent.ID(),
			"iterations": state.iteration,
			"rows":       len(dropped),
		}).Warn("dropped incomplete trailing group")
		if len(groups) == 0 {
			return nil, nil, errors.Wrapf(paging.ErrGroupOverflow, "sort key %s: no complete group after %d fetches", g.parent.ID(), state.iteration)
		}
	}

	if dir == paging.Backward {
		groups = lo.Reverse(groups)
		for _, grp := range groups {
			lo.Reverse(grp)
		}
	}

	if len(groups) == 0 {
		return emptyPage[E](pageSize), state, nil
	}

	entities := make([]E, len(groups))
	for i, grp := range groups {
		e, err := g.assemble(grp)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "assemble group %d", i)
		}
		entities[i] = e
	}

	first, err := g.parent.Position(groups[0][0])
	if err != nil {
		return nil, nil, err
	}
	last, err := g.parent.Position(groups[len(groups)-1][0])
	if err != nil {
		return nil, nil, err
	}

	page, err := newPage(g.parent, entities, pageSize, first, last)
	if err != nil {
		return nil, nil, err
	}

	return page, state, nil
}

// split partitions rows, already in fetch order, into runs sharing the same
// parent tuple.
func (g *Grouped[R, E]) split(rows []R, order []paging.Sort) ([][]R, error) {
	parentOrder := order[:g.parent.Len()]

	var (
		groups [][]R
		prev   []any
	)
	for _, row := range rows {
		pos, err := g.parent.Position(row)
		if err != nil {
			return nil, err
		}

		same := false
		if prev != nil {
			c, err := paging.CompareTuples(pos, prev, parentOrder)
			if err != nil {
				return nil, err
			}
			same = c == 0
		}

		if same {
			groups[len(groups)-1] = append(groups[len(groups)-1], row)
		} else {
			groups = append(groups, []R{row})
		}
		prev = pos
	}

	return groups, nil
}
