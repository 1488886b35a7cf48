package cursor

import (
	"github.com/friendsofgo/errors"

	paging "github.com/nrfta/ladder-paging"
)

// BuildBoundary turns a cursor into a boundary predicate and the row order
// to request from the store.
//
//   - nil cursor: no boundary, base order.
//   - Forward: rows strictly after the anchor in base order, base order.
//   - Backward: rows strictly before the anchor in base order, expressed as
//     strictly after it in the inverted order, which is also the order
//     returned. The caller must reverse the fetched batch.
//
// The comparison is lexicographic over every field including the
// tiebreaker. A cursor whose arity or value types do not match key fails
// with paging.ErrInvalidCursor.
func BuildBoundary(cur *paging.Cursor, key Key) (*paging.Boundary, []paging.Sort, error) {
	base := key.BaseOrder()
	if cur == nil {
		return nil, base, nil
	}

	types := key.Types()
	if len(cur.Position) != len(types) {
		return nil, nil, invalid("%d values for %d fields", len(cur.Position), len(types))
	}

	values := make([]any, len(types))
	for i, t := range types {
		v, err := paging.Normalize(cur.Position[i], t)
		if err != nil {
			return nil, nil, invalid("field %d: %v", i, err)
		}
		values[i] = v
	}

	switch cur.Direction {
	case paging.Forward:
		return &paging.Boundary{Columns: base, Values: values}, base, nil
	case paging.Backward:
		inverted := paging.InvertOrder(base)
		return &paging.Boundary{Columns: inverted, Values: values}, inverted, nil
	default:
		return nil, nil, invalid("unknown direction %q", cur.Direction)
	}
}

// ValidateStep checks a requested page step. Zero means no step was
// supplied. Only single-page steps are supported, and the sign must agree
// with the direction of the supplied cursor: +1 forward, -1 backward.
func ValidateStep(pageDiff int, dir paging.Direction) error {
	switch pageDiff {
	case 0:
		return nil
	case 1:
		if dir == paging.Backward {
			return errors.Wrap(paging.ErrInvalidArgument, "pageDiff +1 conflicts with a before cursor")
		}
		return nil
	case -1:
		if dir != paging.Backward {
			return errors.Wrap(paging.ErrInvalidArgument, "pageDiff -1 requires a before cursor")
		}
		return nil
	default:
		return errors.Wrapf(paging.ErrInvalidArgument, "pageDiff %d: only single-page steps are supported", pageDiff)
	}
}
