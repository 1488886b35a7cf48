package cursor_test

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/memory"
	"github.com/nrfta/ladder-paging/metrics"
)

// player is a flat ranked entity.
type player struct {
	ID     int64
	Score  int64
	Name   string
	Region string
}

var scoreKey = cursor.NewSortKey[*player]("player-score").
	Field("score", paging.TypeInt, cursor.DESC, func(p *player) any { return p.Score }).
	Tiebreak("id", paging.TypeInt, cursor.DESC, func(p *player) any { return p.ID }).
	Must()

func playerColumn(p *player, column string) (any, bool) {
	switch column {
	case "id":
		return p.ID, true
	case "score":
		return p.Score, true
	case "name":
		return p.Name, true
	case "region":
		return p.Region, true
	}
	return nil, false
}

// rankedPlayers returns n players ranked 1..n: rank r has id r and score n+1-r.
func rankedPlayers(n int) []*player {
	out := make([]*player, n)
	for i := range out {
		rank := int64(i + 1)
		region := "eu"
		if rank%2 == 0 {
			region = "na"
		}
		out[i] = &player{ID: rank, Score: int64(n) + 1 - rank, Name: fmt.Sprintf("player-%02d", rank), Region: region}
	}
	return out
}

func scores(rows []*player) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.Score
	}
	return out
}

func playerIDs(rows []*player) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func newPlayerSource(rows []*player) *memory.Source[*player] {
	return memory.New(rows, playerColumn)
}

// memberRow is one team member joined with its team.
type memberRow struct {
	TeamID   int64
	Rating   int64
	MemberID int64
}

type team struct {
	ID      int64
	Rating  int64
	Members []int64
}

var (
	teamKey = cursor.NewSortKey[*memberRow]("team-rating").
		Field("rating", paging.TypeInt, cursor.DESC, func(r *memberRow) any { return r.Rating }).
		Tiebreak("team_id", paging.TypeInt, cursor.DESC, func(r *memberRow) any { return r.TeamID }).
		Must()

	memberKey = cursor.NewSortKey[*memberRow]("team-member").
			Field("slot", paging.TypeInt, cursor.ASC, func(r *memberRow) any { return r.MemberID % 100 }).
			Tiebreak("member_id", paging.TypeInt, cursor.ASC, func(r *memberRow) any { return r.MemberID }).
			Must()
)

func memberColumn(r *memberRow, column string) (any, bool) {
	switch column {
	case "rating":
		return r.Rating, true
	case "team_id":
		return r.TeamID, true
	case "slot":
		return r.MemberID % 100, true
	case "member_id":
		return r.MemberID, true
	}
	return nil, false
}

func assembleTeam(rows []*memberRow) (*team, error) {
	t := &team{ID: rows[0].TeamID, Rating: rows[0].Rating}
	for _, r := range rows {
		if r.TeamID != t.ID {
			return nil, fmt.Errorf("row of team %d in group of team %d", r.TeamID, t.ID)
		}
		t.Members = append(t.Members, r.MemberID)
	}
	return t, nil
}

// teamRows builds one row per member. Team i (1-based) has sizes[i-1]
// members and rating 1000 + 10*(len(sizes)-i), so team 1 ranks first.
func teamRows(sizes ...int) []*memberRow {
	var out []*memberRow
	for i, size := range sizes {
		id := int64(i + 1)
		for m := 0; m < size; m++ {
			out = append(out, &memberRow{
				TeamID:   id,
				Rating:   1000 + 10*int64(len(sizes)-i-1),
				MemberID: id*100 + int64(m),
			})
		}
	}
	return out
}

func teamIDs(teams []*team) []int64 {
	out := make([]int64, len(teams))
	for i, t := range teams {
		out[i] = t.ID
	}
	return out
}

func newCollector(registry *prometheus.Registry) *metrics.Collector {
	return metrics.NewCollector(metrics.WithPrometheusRegistry(registry))
}
