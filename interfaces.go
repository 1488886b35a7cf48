package paging

import "context"

// RowSource abstracts the storage collaborator behind a paginator.
// It is the single seam between the pagination engine and any database
// layer: SQLBoiler, GORM, an in-memory slice, or a multi-step query that
// joins several tables before returning rows.
//
// Type parameter T is the row type returned by the store (e.g., a team row
// with one member, a match row with one participant).
//
// Implementations must:
//   - apply every criterion in Query.Predicate (logical AND)
//   - apply Query.Boundary when it is non-nil
//   - return rows in exactly Query.Order
//   - return at most Query.Limit rows (fewer only at the end of data)
//
// Example implementation:
//
//	type teamSource struct{ db *sql.DB }
//
//	func (s *teamSource) Fetch(ctx context.Context, q paging.Query) ([]*TeamRow, error) {
//	    // render q.Boundary and q.Predicate as a WHERE clause,
//	    // q.Order as ORDER BY and q.Limit as LIMIT
//	    ...
//	}
type RowSource[T any] interface {
	// Fetch performs one bounded, ordered read.
	Fetch(ctx context.Context, q Query) ([]T, error)
}

// RowSourceFunc adapts a plain function to the RowSource interface.
type RowSourceFunc[T any] func(ctx context.Context, q Query) ([]T, error)

// Fetch implements RowSource.
func (f RowSourceFunc[T]) Fetch(ctx context.Context, q Query) ([]T, error) {
	return f(ctx, q)
}

// Query is everything a RowSource needs to perform one bounded fetch.
// Paginators construct it from a cursor, a sort key and composed filters.
type Query struct {
	// Order is the ordering the store must return rows in. For backward
	// navigation this is the inverse of the caller-facing base order.
	Order []Sort

	// Boundary restricts the fetch to rows strictly after an anchor tuple
	// in Order. Nil means unbounded (start of the ordering).
	Boundary *Boundary

	// Predicate holds the composed filter criteria, combined with AND.
	Predicate Predicate

	// Limit is the maximum number of rows to return.
	Limit int
}

// Sort represents a sort directive for one column.
type Sort struct {
	// Column is the name of the column to sort by.
	Column string

	// Desc indicates descending order. False means ascending.
	Desc bool
}

// Inverse returns the same column sorted the opposite way.
func (s Sort) Inverse() Sort {
	return Sort{Column: s.Column, Desc: !s.Desc}
}

// InvertOrder returns a copy of order with every directive inverted.
func InvertOrder(order []Sort) []Sort {
	out := make([]Sort, len(order))
	for i, s := range order {
		out[i] = s.Inverse()
	}
	return out
}

// Boundary is a tuple comparison anchored on a cursor position.
//
// A row qualifies when its tuple over Columns is strictly after Values
// under the per-column directions of Columns. Comparison is lexicographic
// over the full list, so the final (unique) column always breaks ties.
//
// Example for Columns (rating DESC, id DESC) and Values (1500, 42):
//
//	rating < 1500 OR (rating = 1500 AND id < 42)
type Boundary struct {
	Columns []Sort
	Values  []any
}

// Admits reports whether a row tuple lies strictly after the anchor.
// The tuple must be aligned with b.Columns.
func (b *Boundary) Admits(tuple []any) (bool, error) {
	if b == nil {
		return true, nil
	}
	c, err := CompareTuples(tuple, b.Values, b.Columns)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Op is a predicate operator understood by every RowSource.
type Op string

const (
	OpEq       Op = "="
	OpIn       Op = "IN"
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpPrefix   Op = "PREFIX"
	OpContains Op = "CONTAINS"
)

// Criterion is a storage-neutral filter condition.
//
// Value holds a single value for OpEq, OpGte, OpLte, OpPrefix and
// OpContains, and a []any for OpIn.
type Criterion struct {
	Field string
	Op    Op
	Value any
}

// Predicate is a conjunction of criteria. An empty predicate matches every row.
type Predicate []Criterion
