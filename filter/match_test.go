package filter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/filter"
)

func rowAccessor(row map[string]any) filter.Accessor {
	return func(field string) (any, bool) {
		v, ok := row[field]
		return v, ok
	}
}

var _ = Describe("Match", func() {
	row := map[string]any{
		"name":     "abcd",
		"region":   "eu",
		"rating":   int64(1400),
		"excluded": false,
	}

	It("should match an empty predicate", func() {
		ok, err := filter.Match(nil, rowAccessor(row))

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("should evaluate every operator", func() {
		pred, err := filter.Compose(filter.New().
			In("region", "eu", "na").
			Between("rating", 1000, 1500).
			Prefix("name", "abc").
			Is("excluded", false).
			Value())
		Expect(err).ToNot(HaveOccurred())

		ok, err := filter.Match(pred, rowAccessor(row))
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("should fail a bound that excludes the row", func() {
		ok, err := filter.Match(paging.Predicate{{Field: "rating", Op: paging.OpGte, Value: 1500}}, rowAccessor(row))

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should match substrings in contains mode", func() {
		ok, err := filter.Match(paging.Predicate{{Field: "name", Op: paging.OpContains, Value: "bcd"}}, rowAccessor(row))

		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("should report unknown fields", func() {
		_, err := filter.Match(paging.Predicate{{Field: "clan", Op: paging.OpEq, Value: "x"}}, rowAccessor(row))

		Expect(err).To(MatchError(ContainSubstring(`unknown field "clan"`)))
	})

	It("should report type mismatches", func() {
		_, err := filter.Match(paging.Predicate{{Field: "rating", Op: paging.OpPrefix, Value: "14"}}, rowAccessor(row))

		Expect(err).To(HaveOccurred())
	})
})
