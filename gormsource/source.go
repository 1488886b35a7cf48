// Package gormsource adapts GORM to paging.RowSource.
//
// Example usage:
//
//	source := gormsource.New[*ladder.ClanRow](db, func(tx *gorm.DB) *gorm.DB {
//	    return tx.Table("clans").Where("disbanded_at IS NULL")
//	})
//	p, err := cursor.New(ladder.ClanActiveMembers, source)
package gormsource

import (
	"context"

	"github.com/friendsofgo/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/internal/sqlexpr"
)

// Scope narrows the base query, e.g. to a table, a join or a fixed WHERE.
type Scope = func(*gorm.DB) *gorm.DB

// Source implements paging.RowSource[T] over a GORM connection.
type Source[T any] struct {
	db     *gorm.DB
	scopes []Scope
}

// New creates a source. Scopes are applied to every fetch before the
// paging clauses.
func New[T any](db *gorm.DB, scopes ...Scope) *Source[T] {
	return &Source[T]{db: db, scopes: scopes}
}

// Fetch implements paging.RowSource.
func (s *Source[T]) Fetch(ctx context.Context, q paging.Query) ([]T, error) {
	tx, err := Apply(s.db.WithContext(ctx).Scopes(s.scopes...), q)
	if err != nil {
		return nil, err
	}

	rows := []T{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Apply adds the WHERE, ORDER BY and LIMIT clauses of q to db.
func Apply(db *gorm.DB, q paging.Query) (*gorm.DB, error) {
	for _, c := range q.Predicate {
		if c.Op == paging.OpIn {
			in, err := inClause(c)
			if err != nil {
				return nil, err
			}
			db = db.Where(in)
			continue
		}

		cond, err := sqlexpr.Criterion(c)
		if err != nil {
			return nil, err
		}
		db = db.Where(cond.SQL, cond.Args...)
	}

	dnf, err := sqlexpr.Keyset(q.Boundary)
	if err != nil {
		return nil, err
	}
	if sql, args := dnf.SQL(); sql != "" {
		db = db.Where(sql, args...)
	}

	for _, s := range q.Order {
		if err := sqlexpr.CheckColumn(s.Column); err != nil {
			return nil, err
		}
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: sqlexpr.Quote(s.Column), Raw: true},
			Desc:   s.Desc,
		})
	}

	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	return db, nil
}

func inClause(c paging.Criterion) (clause.IN, error) {
	if err := sqlexpr.CheckColumn(c.Field); err != nil {
		return clause.IN{}, err
	}
	values, ok := c.Value.([]any)
	if !ok {
		return clause.IN{}, errors.Errorf("field %s: IN expects []any, got %T", c.Field, c.Value)
	}
	return clause.IN{
		Column: clause.Column{Name: sqlexpr.Quote(c.Field), Raw: true},
		Values: values,
	}, nil
}
