package cursor

import (
	"github.com/friendsofgo/errors"
	"github.com/samber/lo"

	paging "github.com/nrfta/ladder-paging"
)

// Order is the base sort direction of one sort key field.
type Order bool

const (
	ASC  Order = false
	DESC Order = true
)

// Key is the type-independent view of a sort key used by the codec and the
// boundary builder.
type Key interface {
	ID() string
	Types() []paging.FieldType
	BaseOrder() []paging.Sort
}

// fieldSpec defines a single field of a sort key.
type fieldSpec[T any] struct {
	name      string
	typ       paging.FieldType
	order     Order
	extractor func(T) any
	tiebreak  bool
}

// SortKey is an ordered, tie-break-terminated list of typed fields that
// defines a total order over rows of type T. It is the single source of
// truth for the ORDER BY clause, the boundary predicate and the cursor
// payload, so the three can never disagree.
//
// Sort keys are static per endpoint: build them once at init and share them.
//
// Example:
//
//	var teamRating = cursor.NewSortKey[*TeamRow]("team-rating").
//	    Field("teams.rating", paging.TypeInt, cursor.DESC, func(r *TeamRow) any { return r.Rating }).
//	    Tiebreak("teams.id", paging.TypeInt, cursor.DESC, func(r *TeamRow) any { return r.ID }).
//	    Must()
type SortKey[T any] struct {
	id     string
	fields []*fieldSpec[T]
}

// NewSortKey creates an empty sort key. id is embedded in every cursor
// produced for this key.
func NewSortKey[T any](id string) *SortKey[T] {
	return &SortKey[T]{id: id}
}

// Field appends an ordinary sort field.
//
// Parameters:
//   - name: SQL column name (can be qualified: "teams.rating")
//   - typ: declared type; cursor values are parsed back into exactly this type
//   - order: base direction (cursor.ASC or cursor.DESC)
//   - extractor: returns the field value of a row
func (k *SortKey[T]) Field(name string, typ paging.FieldType, order Order, extractor func(T) any) *SortKey[T] {
	k.fields = append(k.fields, &fieldSpec[T]{
		name:      name,
		typ:       typ,
		order:     order,
		extractor: extractor,
	})
	return k
}

// Tiebreak appends the unique identifier field. It must be declared last.
func (k *SortKey[T]) Tiebreak(name string, typ paging.FieldType, order Order, extractor func(T) any) *SortKey[T] {
	k.fields = append(k.fields, &fieldSpec[T]{
		name:      name,
		typ:       typ,
		order:     order,
		extractor: extractor,
		tiebreak:  true,
	})
	return k
}

// Validate checks that the key has at least two fields, ends in exactly one
// tiebreaker, has no duplicate columns and uses safe column names.
func (k *SortKey[T]) Validate() error {
	if k.id == "" {
		return errors.New("sort key id is empty")
	}
	if len(k.fields) < 2 {
		return errors.Errorf("sort key %s: need at least 2 fields, got %d", k.id, len(k.fields))
	}

	seen := make(map[string]struct{}, len(k.fields))
	for i, f := range k.fields {
		if f.tiebreak && i != len(k.fields)-1 {
			return errors.Errorf("sort key %s: tiebreaker %s must be the last field", k.id, f.name)
		}
		if f.extractor == nil {
			return errors.Errorf("sort key %s: field %s has no extractor", k.id, f.name)
		}
		if f.typ < paging.TypeInt || f.typ > paging.TypeBool {
			return errors.Errorf("sort key %s: field %s has unknown type", k.id, f.name)
		}
		if !validColumn(f.name) {
			return errors.Errorf("sort key %s: invalid column name %q", k.id, f.name)
		}
		if _, dup := seen[f.name]; dup {
			return errors.Errorf("sort key %s: duplicate column %s", k.id, f.name)
		}
		seen[f.name] = struct{}{}
	}

	if !k.fields[len(k.fields)-1].tiebreak {
		return errors.Errorf("sort key %s: last field must be declared with Tiebreak", k.id)
	}

	return nil
}

// Must validates the key and panics on error. Intended for package-level
// sort key variables.
func (k *SortKey[T]) Must() *SortKey[T] {
	if err := k.Validate(); err != nil {
		panic(err)
	}
	return k
}

// ID returns the identifier embedded in cursors.
func (k *SortKey[T]) ID() string {
	return k.id
}

// Len returns the number of fields.
func (k *SortKey[T]) Len() int {
	return len(k.fields)
}

// Columns returns the column names in key order.
func (k *SortKey[T]) Columns() []string {
	return lo.Map(k.fields, func(f *fieldSpec[T], _ int) string { return f.name })
}

// Types returns the declared field types in key order.
func (k *SortKey[T]) Types() []paging.FieldType {
	return lo.Map(k.fields, func(f *fieldSpec[T], _ int) paging.FieldType { return f.typ })
}

// BaseOrder returns the caller-facing ordering.
func (k *SortKey[T]) BaseOrder() []paging.Sort {
	return lo.Map(k.fields, func(f *fieldSpec[T], _ int) paging.Sort {
		return paging.Sort{Column: f.name, Desc: bool(f.order)}
	})
}

// Position extracts the typed tuple of row in key order.
func (k *SortKey[T]) Position(row T) ([]any, error) {
	pos := make([]any, len(k.fields))
	for i, f := range k.fields {
		v, err := paging.Normalize(f.extractor(row), f.typ)
		if err != nil {
			return nil, errors.Wrapf(err, "sort key %s: field %s", k.id, f.name)
		}
		pos[i] = v
	}
	return pos, nil
}

// CursorFor builds a cursor anchored on row.
func (k *SortKey[T]) CursorFor(row T, dir paging.Direction) (*paging.Cursor, error) {
	pos, err := k.Position(row)
	if err != nil {
		return nil, err
	}
	return &paging.Cursor{Position: pos, Direction: dir}, nil
}

// Join returns a new key with the fields of k followed by the fields of
// next. The result has the id of k; it orders parent rows and then the
// child rows within each parent.
func (k *SortKey[T]) Join(next *SortKey[T]) *SortKey[T] {
	joined := &SortKey[T]{id: k.id, fields: make([]*fieldSpec[T], 0, len(k.fields)+len(next.fields))}
	joined.fields = append(joined.fields, k.fields...)
	joined.fields = append(joined.fields, next.fields...)
	return joined
}

func validColumn(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '.', r == '"':
		default:
			return false
		}
	}
	return true
}
