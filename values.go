package paging

import (
	"cmp"
	"time"

	"github.com/friendsofgo/errors"
)

// Normalize converts v into the canonical Go type for t:
// int64, float64, string, time.Time (UTC) or bool.
// Integers of any width normalize to int64; times are converted to UTC.
func Normalize(v any, t FieldType) (any, error) {
	switch t {
	case TypeInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint8:
			return int64(n), nil
		case uint16:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		}
	case TypeFloat:
		switch n := v.(type) {
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeTime:
		if tm, ok := v.(time.Time); ok {
			return tm.UTC(), nil
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}

	return nil, errors.Errorf("value %v (%T) is not a %s", v, v, t)
}

// Compare orders two values of the same canonical type.
// It returns -1, 0 or +1, or an error when the values are not comparable.
//
// Any integer width is accepted and compared as int64 so callers can pass
// raw extractor output.
func Compare(a, b any) (int, error) {
	if ai, ok := asInt64(a); ok {
		if bi, ok := asInt64(b); ok {
			return cmp.Compare(ai, bi), nil
		}
		if bf, ok := b.(float64); ok {
			return cmp.Compare(float64(ai), bf), nil
		}
	}

	switch av := a.(type) {
	case float64:
		if bf, ok := b.(float64); ok {
			return cmp.Compare(av, bf), nil
		}
		if bi, ok := asInt64(b); ok {
			return cmp.Compare(av, float64(bi)), nil
		}
	case string:
		if bs, ok := b.(string); ok {
			return cmp.Compare(av, bs), nil
		}
	case time.Time:
		if bt, ok := b.(time.Time); ok {
			return av.Compare(bt), nil
		}
	case bool:
		if bb, ok := b.(bool); ok {
			switch {
			case av == bb:
				return 0, nil
			case !av:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}

	return 0, errors.Errorf("cannot compare %T with %T", a, b)
}

// CompareTuples compares two tuples lexicographically under order.
// A DESC column inverts the natural comparison of that column, so a
// positive result always means "a comes after b in order".
func CompareTuples(a, b []any, order []Sort) (int, error) {
	if len(a) != len(order) || len(b) != len(order) {
		return 0, errors.Errorf("tuple arity mismatch: %d/%d values for %d columns", len(a), len(b), len(order))
	}

	for i, s := range order {
		c, err := Compare(a[i], b[i])
		if err != nil {
			return 0, errors.Wrapf(err, "column %s", s.Column)
		}
		if c == 0 {
			continue
		}
		if s.Desc {
			return -c, nil
		}
		return c, nil
	}

	return 0, nil
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}
