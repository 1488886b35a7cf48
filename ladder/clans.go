package ladder

import (
	"context"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/filter"
)

// Clan is one row of the clan ladder.
type Clan struct {
	ID            int64   `boil:"id" json:"id"`
	Name          string  `boil:"name" json:"name"`
	Tag           string  `boil:"tag" json:"tag"`
	Region        string  `boil:"region" json:"region"`
	ActiveMembers int64   `boil:"active_members" json:"active_members"`
	AvgRating     float64 `boil:"avg_rating" json:"avg_rating"`
	Games         int64   `boil:"games" json:"games"`
}

var (
	ClanActiveMembers = cursor.NewSortKey[*Clan]("clan-active-members").
				Field("active_members", paging.TypeInt, cursor.DESC, func(c *Clan) any { return c.ActiveMembers }).
				Tiebreak("id", paging.TypeInt, cursor.DESC, func(c *Clan) any { return c.ID }).
				Must()

	ClanAvgRating = cursor.NewSortKey[*Clan]("clan-avg-rating").
			Field("avg_rating", paging.TypeFloat, cursor.DESC, func(c *Clan) any { return c.AvgRating }).
			Tiebreak("id", paging.TypeInt, cursor.DESC, func(c *Clan) any { return c.ID }).
			Must()

	ClanGames = cursor.NewSortKey[*Clan]("clan-games").
			Field("games", paging.TypeInt, cursor.DESC, func(c *Clan) any { return c.Games }).
			Tiebreak("id", paging.TypeInt, cursor.DESC, func(c *Clan) any { return c.ID }).
			Must()
)

// ClanColumn returns a named column of a clan.
func ClanColumn(c *Clan, column string) (any, bool) {
	switch column {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "tag":
		return c.Tag, true
	case "region":
		return c.Region, true
	case "active_members":
		return c.ActiveMembers, true
	case "avg_rating":
		return c.AvgRating, true
	case "games":
		return c.Games, true
	}
	return nil, false
}

// ClanFilter narrows a clan listing. Name is matched by prefix once it is
// long enough, exactly below that.
type ClanFilter struct {
	Regions          []string
	Tags             []string
	Name             string
	MinActiveMembers *int64
	MaxActiveMembers *int64
	MinAvgRating     *float64
	MaxAvgRating     *float64
	MinGames         *int64
	MaxGames         *int64
}

// Filters converts f into engine filters.
func (f ClanFilter) Filters() filter.Filters {
	out := filter.Filters{
		Sets: []filter.Set{
			filter.SetOf("region", f.Regions),
			filter.SetOf("tag", f.Tags),
		},
	}
	if f.MinActiveMembers != nil || f.MaxActiveMembers != nil {
		out.Ranges = append(out.Ranges, filter.Range{Field: "active_members", Min: bound(f.MinActiveMembers), Max: bound(f.MaxActiveMembers)})
	}
	if f.MinAvgRating != nil || f.MaxAvgRating != nil {
		out.Ranges = append(out.Ranges, filter.Range{Field: "avg_rating", Min: bound(f.MinAvgRating), Max: bound(f.MaxAvgRating)})
	}
	if f.MinGames != nil || f.MaxGames != nil {
		out.Ranges = append(out.Ranges, filter.Range{Field: "games", Min: bound(f.MinGames), Max: bound(f.MaxGames)})
	}
	if f.Name != "" {
		out.Texts = append(out.Texts, filter.Text{Field: "name", Query: f.Name, Mode: filter.Prefix})
	}
	return out
}

// Clans lists the clan ladder.
type Clans struct {
	sorts sorts[*cursor.Paginator[*Clan]]
}

// NewClans creates a clan listing over source. Sort names are
// "active_members" (default), "avg_rating" and "games".
func NewClans(source paging.RowSource[*Clan], opts ...cursor.Option) (*Clans, error) {
	byName := map[string]*cursor.Paginator[*Clan]{}
	for name, key := range map[string]*cursor.SortKey[*Clan]{
		"active_members": ClanActiveMembers,
		"avg_rating":     ClanAvgRating,
		"games":          ClanGames,
	} {
		p, err := cursor.New(key, source, opts...)
		if err != nil {
			return nil, err
		}
		byName[name] = p
	}

	return &Clans{sorts: sorts[*cursor.Paginator[*Clan]]{byName: byName, fallback: "active_members"}}, nil
}

// List returns one page of clans sorted by sortName.
func (c *Clans) List(ctx context.Context, sortName string, args *paging.PageArgs, f ClanFilter) (*paging.Page[*Clan], error) {
	p, err := c.sorts.pick(sortName)
	if err != nil {
		return nil, err
	}
	return p.Paginate(ctx, args, f.Filters())
}
