// Package models binds the ladder integration tables with SQLBoiler.
package models

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/ladder-paging/ladder"
)

var dialect = drivers.Dialect{
	LQ:                   0x22,
	RQ:                   0x22,
	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

// NewQuery initializes a new Query using the passed in QueryMods.
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

// TeamRows selects from the team_rows view, one row per member.
func TeamRows(ctx context.Context, exec boil.ContextExecutor, mods ...qm.QueryMod) ([]*ladder.TeamRow, error) {
	return all[*ladder.TeamRow](ctx, exec, "team_rows", mods)
}

// Clans selects from the clans table.
func Clans(ctx context.Context, exec boil.ContextExecutor, mods ...qm.QueryMod) ([]*ladder.Clan, error) {
	return all[*ladder.Clan](ctx, exec, "clans", mods)
}

// MatchRows selects from the match_rows view, one row per participant.
func MatchRows(ctx context.Context, exec boil.ContextExecutor, mods ...qm.QueryMod) ([]*ladder.MatchRow, error) {
	return all[*ladder.MatchRow](ctx, exec, "match_rows", mods)
}

// ClanMemberEvents selects from the clan_member_events table.
func ClanMemberEvents(ctx context.Context, exec boil.ContextExecutor, mods ...qm.QueryMod) ([]*ladder.ClanMemberEvent, error) {
	return all[*ladder.ClanMemberEvent](ctx, exec, "clan_member_events", mods)
}

func all[T any](ctx context.Context, exec boil.ContextExecutor, table string, mods []qm.QueryMod) ([]T, error) {
	q := NewQuery(mods...)
	queries.SetFrom(q, `"`+table+`"`)

	var rows []T
	if err := q.Bind(ctx, exec, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
