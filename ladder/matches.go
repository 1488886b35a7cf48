package ladder

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/filter"
)

// MatchRow is one participant joined with its match.
type MatchRow struct {
	MatchID       int64     `boil:"match_id" json:"match_id"`
	Date          time.Time `boil:"date" json:"date"`
	Type          string    `boil:"type" json:"type"`
	MapID         int64     `boil:"map_id" json:"map_id"`
	Region        string    `boil:"region" json:"region"`
	Side          int64     `boil:"side" json:"side"`
	CharacterID   int64     `boil:"character_id" json:"character_id"`
	CharacterName string    `boil:"character_name" json:"character_name"`
	Won           bool      `boil:"won" json:"won"`
	RatingChange  int64     `boil:"rating_change" json:"rating_change"`
}

// Participant is one character of a match.
type Participant struct {
	CharacterID  int64  `json:"character_id"`
	Name         string `json:"name"`
	Side         int64  `json:"side"`
	Won          bool   `json:"won"`
	RatingChange int64  `json:"rating_change"`
}

// Match is a played match with every participant.
type Match struct {
	ID           int64         `json:"id"`
	Date         time.Time     `json:"date"`
	Type         string        `json:"type"`
	MapID        int64         `json:"map_id"`
	Region       string        `json:"region"`
	Participants []Participant `json:"participants"`
}

var (
	// MatchDate orders matches from the most recent.
	MatchDate = cursor.NewSortKey[*MatchRow]("match-date").
			Field("date", paging.TypeTime, cursor.DESC, func(r *MatchRow) any { return r.Date }).
			Field("type", paging.TypeString, cursor.DESC, func(r *MatchRow) any { return r.Type }).
			Field("map_id", paging.TypeInt, cursor.DESC, func(r *MatchRow) any { return r.MapID }).
			Tiebreak("match_id", paging.TypeInt, cursor.DESC, func(r *MatchRow) any { return r.MatchID }).
			Must()

	// MatchParticipant orders participants by side.
	MatchParticipant = cursor.NewSortKey[*MatchRow]("match-participant").
				Field("side", paging.TypeInt, cursor.ASC, func(r *MatchRow) any { return r.Side }).
				Tiebreak("character_id", paging.TypeInt, cursor.DESC, func(r *MatchRow) any { return r.CharacterID }).
				Must()
)

// MatchColumn returns a named column of a match row.
func MatchColumn(r *MatchRow, column string) (any, bool) {
	switch column {
	case "match_id":
		return r.MatchID, true
	case "date":
		return r.Date, true
	case "type":
		return r.Type, true
	case "map_id":
		return r.MapID, true
	case "region":
		return r.Region, true
	case "side":
		return r.Side, true
	case "character_id":
		return r.CharacterID, true
	case "character_name":
		return r.CharacterName, true
	case "won":
		return r.Won, true
	case "rating_change":
		return r.RatingChange, true
	}
	return nil, false
}

// AssembleMatch builds a match from its participant rows.
func AssembleMatch(rows []*MatchRow) (*Match, error) {
	if len(rows) == 0 {
		return nil, errors.New("match without rows")
	}

	head := rows[0]
	m := &Match{
		ID:           head.MatchID,
		Date:         head.Date,
		Type:         head.Type,
		MapID:        head.MapID,
		Region:       head.Region,
		Participants: make([]Participant, 0, len(rows)),
	}
	for _, r := range rows {
		if r.MatchID != m.ID {
			return nil, errors.Errorf("row of match %d grouped with match %d", r.MatchID, m.ID)
		}
		m.Participants = append(m.Participants, Participant{
			CharacterID:  r.CharacterID,
			Name:         r.CharacterName,
			Side:         r.Side,
			Won:          r.Won,
			RatingChange: r.RatingChange,
		})
	}

	return m, nil
}

// MatchFilter narrows a match history. From and To are inclusive.
type MatchFilter struct {
	Regions []string
	Types   []string
	From    *time.Time
	To      *time.Time
}

// Filters converts f into engine filters.
func (f MatchFilter) Filters() filter.Filters {
	out := filter.Filters{
		Sets: []filter.Set{
			filter.SetOf("region", f.Regions),
			filter.SetOf("type", f.Types),
		},
	}
	if f.From != nil || f.To != nil {
		out.Ranges = append(out.Ranges, filter.Range{Field: "date", Min: bound(f.From), Max: bound(f.To)})
	}
	return out
}

// Matches lists match history, newest first.
type Matches struct {
	paginator *cursor.Grouped[*MatchRow, *Match]
}

// NewMatches creates a match listing over source, newest first.
func NewMatches(source paging.RowSource[*MatchRow], opts ...cursor.Option) (*Matches, error) {
	p, err := cursor.NewGrouped(MatchDate, MatchParticipant, source, AssembleMatch, opts...)
	if err != nil {
		return nil, err
	}
	return &Matches{paginator: p}, nil
}

// List returns one page of matches.
func (m *Matches) List(ctx context.Context, args *paging.PageArgs, f MatchFilter) (*paging.Page[*Match], error) {
	return m.paginator.Paginate(ctx, args, f.Filters())
}
