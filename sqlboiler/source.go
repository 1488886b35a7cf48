// Package sqlboiler adapts SQLBoiler queries to paging.RowSource.
//
// The paginator hands the source a paging.Query; the source renders it as
// query mods for PostgreSQL and runs the caller's query function with them.
//
// Example usage:
//
//	source := sqlboiler.NewSource(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.TeamMember, error) {
//	        return models.TeamMembers(mods...).All(ctx, db)
//	    },
//	    qm.InnerJoin("teams ON teams.id = team_members.team_id"),
//	)
//
//	p, err := cursor.NewGrouped(teamRating, teamMember, source, assembleTeam)
package sqlboiler

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"

	paging "github.com/nrfta/ladder-paging"
)

// QueryFunc executes a SQLBoiler query and returns results.
//
// Type parameter T is the row type (e.g., *models.TeamMember).
type QueryFunc[T any] func(ctx context.Context, mods ...qm.QueryMod) ([]T, error)

// Source implements paging.RowSource[T] for SQLBoiler queries.
type Source[T any] struct {
	queryFunc QueryFunc[T]
	base      []qm.QueryMod
}

// NewSource creates a source. base mods, such as joins or a fixed WHERE,
// are applied before the mods rendered for each fetch.
func NewSource[T any](queryFunc QueryFunc[T], base ...qm.QueryMod) *Source[T] {
	return &Source[T]{
		queryFunc: queryFunc,
		base:      base,
	}
}

// Fetch implements paging.RowSource.
func (s *Source[T]) Fetch(ctx context.Context, q paging.Query) ([]T, error) {
	mods, err := QueryToMods(q)
	if err != nil {
		return nil, err
	}

	all := make([]qm.QueryMod, 0, len(s.base)+len(mods))
	all = append(all, s.base...)
	all = append(all, mods...)

	return s.queryFunc(ctx, all...)
}
