package ladder

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/filter"
	"github.com/nrfta/ladder-paging/rank"
)

// TeamRow is one team member joined with its team.
type TeamRow struct {
	TeamID        int64     `boil:"team_id" json:"team_id"`
	Name          string    `boil:"name" json:"name"`
	Region        string    `boil:"region" json:"region"`
	League        string    `boil:"league" json:"league"`
	Rating        int64     `boil:"rating" json:"rating"`
	LastPlayed    time.Time `boil:"last_played" json:"last_played"`
	Excluded      bool      `boil:"excluded" json:"excluded"`
	Slot          int64     `boil:"slot" json:"slot"`
	CharacterID   int64     `boil:"character_id" json:"character_id"`
	CharacterName string    `boil:"character_name" json:"character_name"`
}

// Member is one character of a team.
type Member struct {
	CharacterID int64  `json:"character_id"`
	Name        string `json:"name"`
	Slot        int64  `json:"slot"`
}

// Team is a ranked team with all of its members.
type Team struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Region     string     `json:"region"`
	League     string     `json:"league"`
	Rating     int64      `json:"rating"`
	LastPlayed time.Time  `json:"last_played"`
	Members    []Member   `json:"members"`
	Ranks      rank.Ranks `json:"ranks"`
}

var (
	// TeamRating orders teams from the highest rating down.
	TeamRating = cursor.NewSortKey[*TeamRow]("team-rating").
			Field("rating", paging.TypeInt, cursor.DESC, func(r *TeamRow) any { return r.Rating }).
			Tiebreak("team_id", paging.TypeInt, cursor.DESC, func(r *TeamRow) any { return r.TeamID }).
			Must()

	// TeamLastPlayed orders teams from the most recently active.
	TeamLastPlayed = cursor.NewSortKey[*TeamRow]("team-last-played").
			Field("last_played", paging.TypeTime, cursor.DESC, func(r *TeamRow) any { return r.LastPlayed }).
			Tiebreak("team_id", paging.TypeInt, cursor.DESC, func(r *TeamRow) any { return r.TeamID }).
			Must()

	// TeamMember orders the members within one team.
	TeamMember = cursor.NewSortKey[*TeamRow]("team-member").
			Field("slot", paging.TypeInt, cursor.ASC, func(r *TeamRow) any { return r.Slot }).
			Tiebreak("character_id", paging.TypeInt, cursor.ASC, func(r *TeamRow) any { return r.CharacterID }).
			Must()
)

// TeamColumn returns a named column of a team row.
func TeamColumn(r *TeamRow, column string) (any, bool) {
	switch column {
	case "team_id":
		return r.TeamID, true
	case "name":
		return r.Name, true
	case "region":
		return r.Region, true
	case "league":
		return r.League, true
	case "rating":
		return r.Rating, true
	case "last_played":
		return r.LastPlayed, true
	case "excluded":
		return r.Excluded, true
	case "slot":
		return r.Slot, true
	case "character_id":
		return r.CharacterID, true
	case "character_name":
		return r.CharacterName, true
	}
	return nil, false
}

// AssembleTeam builds a team from its member rows.
func AssembleTeam(rows []*TeamRow) (*Team, error) {
	if len(rows) == 0 {
		return nil, errors.New("team without rows")
	}

	head := rows[0]
	team := &Team{
		ID:         head.TeamID,
		Name:       head.Name,
		Region:     head.Region,
		League:     head.League,
		Rating:     head.Rating,
		LastPlayed: head.LastPlayed,
		Members:    make([]Member, 0, len(rows)),
	}
	for _, r := range rows {
		if r.TeamID != team.ID {
			return nil, errors.Errorf("row of team %d grouped with team %d", r.TeamID, team.ID)
		}
		team.Members = append(team.Members, Member{CharacterID: r.CharacterID, Name: r.CharacterName, Slot: r.Slot})
	}

	return team, nil
}

// TeamFilter narrows a team listing. Excluded teams are never listed.
type TeamFilter struct {
	Regions   []string
	Leagues   []string
	MinRating *int64
	MaxRating *int64
}

// Filters converts f into engine filters.
func (f TeamFilter) Filters() filter.Filters {
	out := filter.Filters{
		Sets: []filter.Set{
			filter.SetOf("region", f.Regions),
			filter.SetOf("league", f.Leagues),
		},
		Flags: []filter.Flag{{Field: "excluded", Value: false}},
	}
	if f.MinRating != nil || f.MaxRating != nil {
		out.Ranges = append(out.Ranges, filter.Range{Field: "rating", Min: bound(f.MinRating), Max: bound(f.MaxRating)})
	}
	return out
}

// TeamEntry describes a team row for ranking.
func TeamEntry(r *TeamRow) rank.Entry {
	return rank.Entry{ID: r.TeamID, Region: r.Region, Category: r.League, Excluded: r.Excluded}
}

// RankTeams builds the team rating snapshot from team rows. Rows of the
// same team are counted once.
func RankTeams(rows []*TeamRow) (*rank.Snapshot, error) {
	teams := lo.UniqBy(rows, func(r *TeamRow) int64 { return r.TeamID })
	return rank.Build(TeamRating, teams, TeamEntry)
}

// Teams lists teams with their members and ranks.
type Teams struct {
	sorts sorts[*cursor.Grouped[*TeamRow, *Team]]
	ranks *rank.Store
}

// NewTeams creates a team listing over source. Sort names are "rating"
// (default) and "last_played". ranks may be nil, leaving ranks null.
func NewTeams(source paging.RowSource[*TeamRow], ranks *rank.Store, opts ...cursor.Option) (*Teams, error) {
	byRating, err := cursor.NewGrouped(TeamRating, TeamMember, source, AssembleTeam, opts...)
	if err != nil {
		return nil, err
	}
	byLastPlayed, err := cursor.NewGrouped(TeamLastPlayed, TeamMember, source, AssembleTeam, opts...)
	if err != nil {
		return nil, err
	}

	return &Teams{
		sorts: sorts[*cursor.Grouped[*TeamRow, *Team]]{
			byName: map[string]*cursor.Grouped[*TeamRow, *Team]{
				"rating":      byRating,
				"last_played": byLastPlayed,
			},
			fallback: "rating",
		},
		ranks: ranks,
	}, nil
}

// List returns one page of teams sorted by sortName.
func (t *Teams) List(ctx context.Context, sortName string, args *paging.PageArgs, f TeamFilter) (*paging.Page[*Team], error) {
	p, err := t.sorts.pick(sortName)
	if err != nil {
		return nil, err
	}

	filters := f.Filters()
	page, err := p.Paginate(ctx, args, filters)
	if err != nil {
		return nil, err
	}

	var snap *rank.Snapshot
	if t.ranks != nil {
		snap = t.ranks.Current()
	}
	rank.Annotate(snap, rank.ScopeOf(filters, "region", "league"), page.Rows,
		func(team *Team) int64 { return team.ID },
		func(team *Team, r rank.Ranks) { team.Ranks = r },
	)

	return page, nil
}
