// Package filter composes storage-neutral filter conditions for paginated
// reads.
//
// A Filters value is a conjunction of independent predicates: set
// membership, inclusive ranges, text matches and boolean flags. Compose
// validates and normalizes it into a paging.Predicate that every RowSource
// understands. There is no OR and no negation.
//
// Example:
//
//	f := filter.New().
//	    In("region", "eu", "na").
//	    Between("rating", 1200, nil).
//	    Prefix("name", "dra").
//	    Is("excluded", false)
//
//	pred, err := filter.Compose(f)
package filter

import (
	"github.com/samber/lo"
)

// DefaultMinTextLength is the shortest text query that still performs a
// prefix or substring match. Shorter queries degrade to exact match.
const DefaultMinTextLength = 3

// TextMode selects how a text filter matches once it is long enough.
type TextMode int

const (
	Prefix TextMode = iota
	Contains
)

// Set restricts Field to one of Values. A nil or empty Values means no
// restriction.
type Set struct {
	Field  string
	Values []any
}

// Range restricts Field to Min <= x <= Max. A nil bound is absent.
type Range struct {
	Field string
	Min   any
	Max   any
}

// Text matches Field against Query by prefix or substring.
type Text struct {
	Field string
	Query string
	Mode  TextMode
}

// Flag restricts a boolean Field to Value.
type Flag struct {
	Field string
	Value bool
}

// Filters is a conjunction of independent predicates.
// The zero value matches every row.
type Filters struct {
	Sets   []Set
	Ranges []Range
	Texts  []Text
	Flags  []Flag
}

// New returns an empty Filters ready for chaining.
func New() *Filters {
	return &Filters{}
}

// In adds a set-membership filter.
func (f *Filters) In(field string, values ...any) *Filters {
	f.Sets = append(f.Sets, Set{Field: field, Values: values})
	return f
}

// Between adds an inclusive range filter. Pass nil for an open bound.
func (f *Filters) Between(field string, low, high any) *Filters {
	f.Ranges = append(f.Ranges, Range{Field: field, Min: low, Max: high})
	return f
}

// Prefix adds a prefix text filter.
func (f *Filters) Prefix(field, query string) *Filters {
	f.Texts = append(f.Texts, Text{Field: field, Query: query, Mode: Prefix})
	return f
}

// Contains adds a substring text filter.
func (f *Filters) Contains(field, query string) *Filters {
	f.Texts = append(f.Texts, Text{Field: field, Query: query, Mode: Contains})
	return f
}

// Is adds a boolean flag filter.
func (f *Filters) Is(field string, value bool) *Filters {
	f.Flags = append(f.Flags, Flag{Field: field, Value: value})
	return f
}

// Value returns a copy of f. A nil receiver yields the empty filter.
func (f *Filters) Value() Filters {
	if f == nil {
		return Filters{}
	}
	return *f
}

// SetOf builds a Set from a typed slice. A nil slice yields an unrestricted
// set.
func SetOf[V any](field string, values []V) Set {
	if values == nil {
		return Set{Field: field}
	}
	return Set{
		Field:  field,
		Values: lo.Map(values, func(v V, _ int) any { return v }),
	}
}

// Lookup returns the first non-empty set filter on field.
func (f Filters) Lookup(field string) (Set, bool) {
	return lo.Find(f.Sets, func(s Set) bool {
		return s.Field == field && len(s.Values) > 0
	})
}

// Flag returns the value of the flag filter on field, if present.
func (f Filters) Flag(field string) (bool, bool) {
	flag, ok := lo.Find(f.Flags, func(fl Flag) bool { return fl.Field == field })
	return flag.Value, ok
}
