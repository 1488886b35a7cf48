package filter

import (
	"unicode/utf8"

	"github.com/friendsofgo/errors"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
)

// Composer turns Filters into a predicate. The zero value uses
// DefaultMinTextLength.
type Composer struct {
	// MinTextLength is the shortest query that performs prefix or substring
	// matching. Values <= 0 select DefaultMinTextLength.
	MinTextLength int
}

// Compose validates f with the default text threshold.
func Compose(f Filters) (paging.Predicate, error) {
	return Composer{}.Compose(f)
}

// Compose validates f and returns its criteria in a deterministic order:
// sets, ranges, texts, flags, each in input order.
//
// Empty sets and blank text queries impose no restriction. A range with
// both bounds present must satisfy min <= max, otherwise ErrInvalidRange is
// returned. No I/O is performed.
func (c Composer) Compose(f Filters) (paging.Predicate, error) {
	minText := c.MinTextLength
	if minText <= 0 {
		minText = DefaultMinTextLength
	}

	pred := make(paging.Predicate, 0, len(f.Sets)+2*len(f.Ranges)+len(f.Texts)+len(f.Flags))

	for _, s := range f.Sets {
		if err := checkField(s.Field); err != nil {
			return nil, err
		}
		if len(s.Values) == 0 {
			continue
		}

		values := lo.Uniq(s.Values)
		if len(values) == 1 {
			pred = append(pred, paging.Criterion{Field: s.Field, Op: paging.OpEq, Value: values[0]})
			continue
		}
		pred = append(pred, paging.Criterion{Field: s.Field, Op: paging.OpIn, Value: values})
	}

	for _, r := range f.Ranges {
		if err := checkField(r.Field); err != nil {
			return nil, err
		}
		if r.Min != nil && r.Max != nil {
			cmp, err := paging.Compare(r.Min, r.Max)
			if err != nil {
				return nil, errors.Wrapf(paging.ErrInvalidRange, "%s: %v", r.Field, err)
			}
			if cmp > 0 {
				return nil, errors.Wrapf(paging.ErrInvalidRange, "%s: min %v > max %v", r.Field, r.Min, r.Max)
			}
		}
		if r.Min != nil {
			pred = append(pred, paging.Criterion{Field: r.Field, Op: paging.OpGte, Value: r.Min})
		}
		if r.Max != nil {
			pred = append(pred, paging.Criterion{Field: r.Field, Op: paging.OpLte, Value: r.Max})
		}
	}

	for _, t := range f.Texts {
		if err := checkField(t.Field); err != nil {
			return nil, err
		}
		if t.Query == "" {
			continue
		}

		op := paging.OpEq
		if utf8.RuneCountInString(t.Query) >= minText {
			op = paging.OpPrefix
			if t.Mode == Contains {
				op = paging.OpContains
			}
		}
		pred = append(pred, paging.Criterion{Field: t.Field, Op: op, Value: t.Query})
	}

	for _, fl := range f.Flags {
		if err := checkField(fl.Field); err != nil {
			return nil, err
		}
		pred = append(pred, paging.Criterion{Field: fl.Field, Op: paging.OpEq, Value: fl.Value})
	}

	return pred, nil
}

func checkField(field string) error {
	if field == "" {
		return errors.Wrap(paging.ErrInvalidArgument, "filter field is empty")
	}
	return nil
}
