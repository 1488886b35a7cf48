package cursor_test

import (
	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
)

var _ = Describe("BuildBoundary", func() {
	base := []paging.Sort{{Column: "score", Desc: true}, {Column: "id", Desc: true}}
	inverted := []paging.Sort{{Column: "score", Desc: false}, {Column: "id", Desc: false}}

	It("should be unbounded without a cursor", func() {
		b, order, err := cursor.BuildBoundary(nil, scoreKey)

		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(BeNil())
		Expect(order).To(Equal(base))
	})

	It("should continue in base order when forward", func() {
		b, order, err := cursor.BuildBoundary(&paging.Cursor{
			Position:  []any{15, 10},
			Direction: paging.Forward,
		}, scoreKey)

		Expect(err).ToNot(HaveOccurred())
		Expect(order).To(Equal(base))
		Expect(b.Columns).To(Equal(base))
		Expect(b.Values).To(Equal([]any{int64(15), int64(10)}))
	})

	It("should scan the inverted order when backward", func() {
		b, order, err := cursor.BuildBoundary(&paging.Cursor{
			Position:  []any{int64(14), int64(11)},
			Direction: paging.Backward,
		}, scoreKey)

		Expect(err).ToNot(HaveOccurred())
		Expect(order).To(Equal(inverted))
		Expect(b.Columns).To(Equal(inverted))

		// rows before (14, 11) in base order are after it in the inverted order
		ok, err := b.Admits([]any{int64(15), int64(10)})
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = b.Admits([]any{int64(13), int64(12)})
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should compare the full tuple including the tiebreaker", func() {
		b, _, err := cursor.BuildBoundary(&paging.Cursor{
			Position:  []any{int64(15), int64(10)},
			Direction: paging.Forward,
		}, scoreKey)
		Expect(err).ToNot(HaveOccurred())

		ok, err := b.Admits([]any{int64(15), int64(9)})
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = b.Admits([]any{int64(15), int64(11)})
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should reject arity mismatches", func() {
		_, _, err := cursor.BuildBoundary(&paging.Cursor{
			Position:  []any{int64(15)},
			Direction: paging.Forward,
		}, scoreKey)

		Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
	})

	It("should reject positions of the wrong type", func() {
		_, _, err := cursor.BuildBoundary(&paging.Cursor{
			Position:  []any{"15", int64(10)},
			Direction: paging.Forward,
		}, scoreKey)

		Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
	})

	It("should reject unknown directions", func() {
		_, _, err := cursor.BuildBoundary(&paging.Cursor{
			Position:  []any{int64(15), int64(10)},
			Direction: "sideways",
		}, scoreKey)

		Expect(errors.Is(err, paging.ErrInvalidCursor)).To(BeTrue())
	})
})

var _ = Describe("ValidateStep", func() {
	DescribeTable("single steps",
		func(diff int, dir paging.Direction, ok bool) {
			err := cursor.ValidateStep(diff, dir)
			if ok {
				Expect(err).ToNot(HaveOccurred())
			} else {
				Expect(errors.Is(err, paging.ErrInvalidArgument)).To(BeTrue())
			}
		},
		Entry("not supplied", 0, paging.Forward, true),
		Entry("one forward", 1, paging.Forward, true),
		Entry("one backward", -1, paging.Backward, true),
		Entry("two forward", 2, paging.Forward, false),
		Entry("three backward", -3, paging.Backward, false),
		Entry("forward step with a before cursor", 1, paging.Backward, false),
		Entry("backward step with an after cursor", -1, paging.Forward, false),
	)
})
