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

// Paginator is the paginator for flat keyset pagination: one row per
// entity, one bounded fetch per page.
//
// A Paginator holds only immutable configuration and may be shared by
// concurrent requests.
type Paginator[T any] struct {
	key    *SortKey[T]
	source paging.RowSource[T]
	cfg    *config
}

// New creates a flat paginator over source ordered by key.
//
// Example usage:
//
//	p, err := cursor.New(teamRating, sqlboiler.NewSource(queryTeams),
//	    cursor.WithLogger(logger),
//	    cursor.WithMetrics(collector),
//	)
//	page, err := p.Paginate(ctx, args, filters)
func New[T any](key *SortKey[T], source paging.RowSource[T], opts ...Option) (*Paginator[T], error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("row source is nil")
	}

	return &Paginator[T]{
		key:    key,
		source: source,
		cfg:    newConfig(opts),
	}, nil
}

// Key returns the sort key of the paginator.
func (p *Paginator[T]) Key() *SortKey[T] {
	return p.key
}

// Paginate validates request arguments, decodes the cursor token and
// fetches one page. All validation happens before the row source is called.
func (p *Paginator[T]) Paginate(ctx context.Context, args *paging.PageArgs, filters filter.Filters) (*paging.Page[T], error) {
	cur, size, err := prepare(args, p.key, p.cfg)
	if err != nil {
		p.cfg.metrics.ObserveError(p.key.ID(), err)
		return nil, err
	}
	return p.Fetch(ctx, filters, cur, size)
}

// Fetch returns the page of at most pageSize rows adjacent to cur.
//
// A nil cursor fetches from the start of the base order. Rows are always
// returned in base order; After continues forward from the last row and
// Before continues backward from the first. An empty page has neither.
func (p *Paginator[T]) Fetch(ctx context.Context, filters filter.Filters, cur *paging.Cursor, pageSize int) (*paging.Page[T], error) {
	start := time.Now()

	page, err := p.fetch(ctx, filters, cur, pageSize)
	if err != nil {
		p.cfg.metrics.ObserveError(p.key.ID(), err)
		return nil, err
	}

	dir := directionOf(cur)
	p.cfg.metrics.ObserveFetch(p.key.ID(), dir, len(page.Rows), time.Since(start))
	p.cfg.logger.WithFields(logrus.Fields{
		"key":       p.key.ID(),
		"direction": dir.String(),
		"limit":     pageSize,
		"rows":      len(page.Rows),
	}).Debug("fetched page")

	return page, nil
}

func (p *Paginator[T]) fetch(ctx context.Context, filters filter.Filters, cur *paging.Cursor, pageSize int) (*paging.Page[T], error) {
	if pageSize <= 0 {
		return nil, &paging.PageSizeError{Requested: pageSize}
	}

	pred, err := p.cfg.composer.Compose(filters)
	if err != nil {
		return nil, err
	}

	boundary, order, err := BuildBoundary(cur, p.key)
	if err != nil {
		return nil, err
	}

	rows, err := p.source.Fetch(ctx, paging.Query{
		Order:     order,
		Boundary:  boundary,
		Predicate: pred,
		Limit:     pageSize,
	})
	if err != nil {
		return nil, &paging.StoreError{Key: p.key.ID(), Err: err}
	}

	if len(rows) > pageSize {
		rows = rows[:pageSize]
	}
	if directionOf(cur) == paging.Backward {
		rows = lo.Reverse(rows)
	}

	if len(rows) == 0 {
		return emptyPage[T](pageSize), nil
	}

	first, err := p.key.Position(rows[0])
	if err != nil {
		return nil, err
	}
	last, err := p.key.Position(rows[len(rows)-1])
	if err != nil {
		return nil, err
	}

	return newPage(p.key, rows, pageSize, first, last)
}

// prepare validates PageArgs and resolves the cursor token and page size.
func prepare(args *paging.PageArgs, key Key, cfg *config) (*paging.Cursor, int, error) {
	if err := args.ValidateWith(cfg.pageConfig); err != nil {
		return nil, 0, err
	}

	tok, dir := args.Token()

	var step int
	if args != nil && args.PageDiff != nil {
		step = *args.PageDiff
	}
	if err := ValidateStep(step, dir); err != nil {
		return nil, 0, err
	}

	size := cfg.pageConfig.EffectiveLimit(args)
	if tok == "" {
		return nil, size, nil
	}

	cur, err := Decode(tok, key)
	if err != nil {
		return nil, 0, err
	}
	if cur.Direction != dir {
		return nil, 0, errors.Wrapf(paging.ErrInvalidArgument, "%s cursor supplied as %s token", cur.Direction, dir)
	}

	return &cur, size, nil
}

func directionOf(cur *paging.Cursor) paging.Direction {
	if cur == nil {
		return paging.Forward
	}
	return cur.Direction
}

func emptyPage[T any](pageSize int) *paging.Page[T] {
	return &paging.Page[T]{Rows: []T{}, PageSize: pageSize}
}

// newPage derives the edge cursors from the first and last positions and
// encodes them into the page navigation.
func newPage[T any](key Key, rows []T, pageSize int, first, last []any) (*paging.Page[T], error) {
	page := &paging.Page[T]{
		Rows:     rows,
		PageSize: pageSize,
		After:    &paging.Cursor{Position: last, Direction: paging.Forward},
		Before:   &paging.Cursor{Position: first, Direction: paging.Backward},
	}

	var err error
	if page.Navigation.After, err = EncodeCursor(key, page.After); err != nil {
		return nil, err
	}
	if page.Navigation.Before, err = EncodeCursor(key, page.Before); err != nil {
		return nil, err
	}

	return page, nil
}
