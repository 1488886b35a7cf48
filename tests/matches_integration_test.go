package paging_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"
	"gorm.io/gorm"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/gormsource"
	"github.com/nrfta/ladder-paging/ladder"
	"github.com/nrfta/ladder-paging/memory"
)

func matchDigests(matches []*ladder.Match) []string {
	return lo.Map(matches, func(m *ladder.Match, _ int) string {
		ids := lo.Map(m.Participants, func(p ladder.Participant, _ int) int64 { return p.CharacterID })
		return fmt.Sprintf("%d:%v", m.ID, ids)
	})
}

var _ = Describe("Match History Integration Tests", func() {
	var (
		matches *ladder.Matches
		oracle  *ladder.Matches
	)

	BeforeEach(func() {
		err := CleanupTables(ctx, container.DB)
		Expect(err).ToNot(HaveOccurred())

		rows, err := SeedMatches(ctx, container.DB, 30)
		Expect(err).ToNot(HaveOccurred())

		oracle, err = ladder.NewMatches(memory.New(rows, ladder.MatchColumn))
		Expect(err).ToNot(HaveOccurred())

		matches, err = ladder.NewMatches(
			gormsource.New[*ladder.MatchRow](container.GORM, func(tx *gorm.DB) *gorm.DB {
				return tx.Table("match_rows")
			}),
			cursor.WithRowsPerGroup(2),
		)
		Expect(err).ToNot(HaveOccurred())
	})

	DescribeTable("never splitting a match across pages",
		func(f ladder.MatchFilter) {
			want, err := oracle.List(ctx, &paging.PageArgs{First: lo.ToPtr(1000)}, f)
			Expect(err).ToNot(HaveOccurred())
			Expect(want.Rows).ToNot(BeEmpty())

			pages, err := CollectForward(4, func(args *paging.PageArgs) (*paging.Page[*ladder.Match], error) {
				return matches.List(ctx, args, f)
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(matchDigests(Flatten(pages))).To(Equal(matchDigests(want.Rows)))
		},
		Entry("unfiltered", ladder.MatchFilter{}),
		Entry("by type", ladder.MatchFilter{Types: []string{"ranked"}}),
		Entry("by region", ladder.MatchFilter{Regions: []string{"eu", "kr"}}),
		Entry("by date range", ladder.MatchFilter{From: lo.ToPtr(epoch.AddDate(0, 0, 2)), To: lo.ToPtr(epoch.AddDate(0, 0, 6))}),
	)

	It("should walk back to the first page", func() {
		first, err := matches.List(ctx, &paging.PageArgs{First: lo.ToPtr(4)}, ladder.MatchFilter{})
		Expect(err).ToNot(HaveOccurred())

		second, err := matches.List(ctx, &paging.PageArgs{First: lo.ToPtr(4), After: first.Navigation.After}, ladder.MatchFilter{})
		Expect(err).ToNot(HaveOccurred())

		back, err := matches.List(ctx, &paging.PageArgs{First: lo.ToPtr(4), Before: second.Navigation.Before}, ladder.MatchFilter{})
		Expect(err).ToNot(HaveOccurred())
		Expect(matchDigests(back.Rows)).To(Equal(matchDigests(first.Rows)))
	})
})
