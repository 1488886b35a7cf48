package ladder_test

import (
	"context"

	"github.com/aarondl/null/v8"
	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/ladder"
	"github.com/nrfta/ladder-paging/memory"
	"github.com/nrfta/ladder-paging/rank"
)

func member(team *ladder.TeamRow, slot, characterID int64) *ladder.TeamRow {
	row := *team
	row.Slot = slot
	row.CharacterID = characterID
	row.CharacterName = team.Name + "-" + string(rune('a'+slot))
	return &row
}

// teamRows ranks as 1, 3, 2, 5 by rating. Team 4 is excluded.
func teamRows() []*ladder.TeamRow {
	alpha := &ladder.TeamRow{TeamID: 1, Name: "Alpha", Region: "eu", League: "gold", Rating: 2000, LastPlayed: day(5)}
	bravo := &ladder.TeamRow{TeamID: 2, Name: "Bravo", Region: "na", League: "gold", Rating: 1900, LastPlayed: day(9)}
	charlie := &ladder.TeamRow{TeamID: 3, Name: "Charlie", Region: "eu", League: "silver", Rating: 1900, LastPlayed: day(1)}
	delta := &ladder.TeamRow{TeamID: 4, Name: "Delta", Region: "eu", League: "gold", Rating: 1800, LastPlayed: day(10), Excluded: true}
	echo := &ladder.TeamRow{TeamID: 5, Name: "Echo", Region: "eu", League: "gold", Rating: 1700, LastPlayed: day(3)}

	return []*ladder.TeamRow{
		member(bravo, 3, 23),
		member(alpha, 1, 11),
		member(echo, 2, 52),
		member(bravo, 1, 21),
		member(charlie, 1, 31),
		member(delta, 1, 41),
		member(alpha, 2, 12),
		member(echo, 1, 51),
		member(bravo, 2, 22),
	}
}

func teamIDs(teams []*ladder.Team) []int64 {
	return lo.Map(teams, func(t *ladder.Team, _ int) int64 { return t.ID })
}

func memberIDs(t *ladder.Team) []int64 {
	return lo.Map(t.Members, func(m ladder.Member, _ int) int64 { return m.CharacterID })
}

func inView(teams []*ladder.Team) []null.Int64 {
	return lo.Map(teams, func(t *ladder.Team, _ int) null.Int64 { return t.Ranks.InView })
}

var _ = Describe("Teams", func() {
	var (
		ctx    context.Context
		source *memory.Source[*ladder.TeamRow]
		store  *rank.Store
		teams  *ladder.Teams
	)

	BeforeEach(func() {
		ctx = context.Background()
		rows := teamRows()
		source = memory.New(rows, ladder.TeamColumn)

		snap, err := ladder.RankTeams(rows)
		Expect(err).ToNot(HaveOccurred())
		store = rank.NewStore()
		store.Replace(snap)

		teams, err = ladder.NewTeams(source, store)
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("List", func() {
		It("should page through teams by rating with all of their members", func() {
			page, err := teams.List(ctx, "", first(2), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{1, 3}))
			Expect(memberIDs(page.Rows[0])).To(Equal([]int64{11, 12}))

			page, err = teams.List(ctx, "rating", after(2, page), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{2, 5}))
			Expect(memberIDs(page.Rows[0])).To(Equal([]int64{21, 22, 23}))

			back, err := teams.List(ctx, "rating", before(2, page), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(back.Rows)).To(Equal([]int64{1, 3}))
		})

		It("should sort by last played", func() {
			page, err := teams.List(ctx, "last_played", first(10), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{2, 1, 5, 3}))
		})

		It("should never list excluded teams", func() {
			page, err := teams.List(ctx, "", first(10), ladder.TeamFilter{MinRating: lo.ToPtr(int64(1750))})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{1, 3, 2}))
		})

		It("should rank a global view globally", func() {
			page, err := teams.List(ctx, "", first(10), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(inView(page.Rows)).To(Equal([]null.Int64{
				null.Int64From(1), null.Int64From(2), null.Int64From(3), null.Int64From(4),
			}))
		})

		It("should rank a region view within the region", func() {
			page, err := teams.List(ctx, "", first(10), ladder.TeamFilter{Regions: []string{"eu"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{1, 3, 5}))
			Expect(inView(page.Rows)).To(Equal([]null.Int64{
				null.Int64From(1), null.Int64From(2), null.Int64From(3),
			}))
			Expect(page.Rows[2].Ranks.Global).To(Equal(null.Int64From(4)))
			Expect(page.Rows[2].Ranks.Category).To(Equal(null.Int64From(3)))
		})

		It("should rank a league view within the league", func() {
			page, err := teams.List(ctx, "", first(10), ladder.TeamFilter{Leagues: []string{"gold"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{1, 2, 5}))
			Expect(inView(page.Rows)).To(Equal([]null.Int64{
				null.Int64From(1), null.Int64From(2), null.Int64From(3),
			}))
		})

		It("should leave the rank in view null for views without a ranking", func() {
			page, err := teams.List(ctx, "", first(10), ladder.TeamFilter{Regions: []string{"eu"}, Leagues: []string{"gold"}})
			Expect(err).ToNot(HaveOccurred())
			Expect(teamIDs(page.Rows)).To(Equal([]int64{1, 5}))
			Expect(page.Rows[0].Ranks.InView.Valid).To(BeFalse())
			Expect(page.Rows[0].Ranks.Global).To(Equal(null.Int64From(1)))
		})

		It("should leave ranks null without a snapshot", func() {
			unranked, err := ladder.NewTeams(source, nil)
			Expect(err).ToNot(HaveOccurred())

			page, err := unranked.List(ctx, "", first(1), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())
			Expect(page.Rows[0].Ranks).To(Equal(rank.Ranks{}))
		})

		It("should reject an unknown sort before querying", func() {
			_, err := teams.List(ctx, "wins", first(2), ladder.TeamFilter{})

			Expect(errors.Is(err, paging.ErrInvalidArgument)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("last_played")))
			Expect(source.Calls()).To(Equal(0))
		})

		It("should reject a cursor of another sort", func() {
			page, err := teams.List(ctx, "rating", first(2), ladder.TeamFilter{})
			Expect(err).ToNot(HaveOccurred())

			_, err = teams.List(ctx, "last_played", after(2, page), ladder.TeamFilter{})
			Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
		})
	})

	Describe("RankTeams", func() {
		It("should count every team once", func() {
			snap, err := ladder.RankTeams(teamRows())
			Expect(err).ToNot(HaveOccurred())
			Expect(snap.Population.Global).To(Equal(int64(4)))
			Expect(snap.Population.Region).To(Equal(map[string]int64{"eu": 3, "na": 1}))
			Expect(snap.Positions).ToNot(HaveKey(int64(4)))
		})
	})

	Describe("AssembleTeam", func() {
		It("should refuse rows of different teams", func() {
			rows := teamRows()
			_, err := ladder.AssembleTeam([]*ladder.TeamRow{rows[0], rows[1]})
			Expect(err).To(MatchError("row of team 1 grouped with team 2"))
		})
	})
})
