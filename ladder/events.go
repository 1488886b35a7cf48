package ladder

import (
	"context"
	"time"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/filter"
)

// Clan membership event types.
const (
	EventJoined   = "joined"
	EventLeft     = "left"
	EventKicked   = "kicked"
	EventPromoted = "promoted"
	EventDemoted  = "demoted"
)

// ClanMemberEvent records one change of clan membership.
type ClanMemberEvent struct {
	ID          int64     `boil:"id" json:"id"`
	ClanID      int64     `boil:"clan_id" json:"clan_id"`
	CharacterID int64     `boil:"character_id" json:"character_id"`
	Type        string    `boil:"type" json:"type"`
	Created     time.Time `boil:"created" json:"created"`
}

// ClanMemberEventKey orders events from the most recent.
var ClanMemberEventKey = cursor.NewSortKey[*ClanMemberEvent]("clan-member-event").
	Field("created", paging.TypeTime, cursor.DESC, func(e *ClanMemberEvent) any { return e.Created }).
	Field("character_id", paging.TypeInt, cursor.DESC, func(e *ClanMemberEvent) any { return e.CharacterID }).
	Tiebreak("id", paging.TypeInt, cursor.DESC, func(e *ClanMemberEvent) any { return e.ID }).
	Must()

// ClanMemberEventColumn returns a named column of an event.
func ClanMemberEventColumn(e *ClanMemberEvent, column string) (any, bool) {
	switch column {
	case "id":
		return e.ID, true
	case "clan_id":
		return e.ClanID, true
	case "character_id":
		return e.CharacterID, true
	case "type":
		return e.Type, true
	case "created":
		return e.Created, true
	}
	return nil, false
}

// ClanMemberEventFilter narrows an event log. From and To are inclusive.
type ClanMemberEventFilter struct {
	ClanIDs []int64
	Types   []string
	From    *time.Time
	To      *time.Time
}

// Filters converts f into engine filters.
func (f ClanMemberEventFilter) Filters() filter.Filters {
	out := filter.Filters{
		Sets: []filter.Set{
			filter.SetOf("clan_id", f.ClanIDs),
			filter.SetOf("type", f.Types),
		},
	}
	if f.From != nil || f.To != nil {
		out.Ranges = append(out.Ranges, filter.Range{Field: "created", Min: bound(f.From), Max: bound(f.To)})
	}
	return out
}

// ClanMemberEvents lists clan membership history.
type ClanMemberEvents struct {
	paginator *cursor.Paginator[*ClanMemberEvent]
}

func NewClanMemberEvents(source paging.RowSource[*ClanMemberEvent], opts ...cursor.Option) (*ClanMemberEvents, error) {
	p, err := cursor.New(ClanMemberEventKey, source, opts...)
	if err != nil {
		return nil, err
	}
	return &ClanMemberEvents{paginator: p}, nil
}

// List returns one page of events.
func (e *ClanMemberEvents) List(ctx context.Context, args *paging.PageArgs, f ClanMemberEventFilter) (*paging.Page[*ClanMemberEvent], error) {
	return e.paginator.Paginate(ctx, args, f.Filters())
}
