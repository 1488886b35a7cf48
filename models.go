package paging

// Direction is the scroll direction encoded in a cursor.
type Direction string

const (
	// Forward continues toward lower rank, older or smaller-key values in
	// the base order.
	Forward Direction = "f"

	// Backward continues toward the start of the base order.
	Backward Direction = "b"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Forward || d == Backward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// FieldType is the declared type of a sort key field.
// Cursor values are parsed back into exactly this type.
type FieldType int

const (
	TypeInt FieldType = iota + 1
	TypeFloat
	TypeString
	TypeTime
	TypeBool
)

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Cursor is a navigation anchor: the sort key tuple of an edge row plus the
// direction to continue in. A cursor is only meaningful together with the
// sort key that produced it.
type Cursor struct {
	Position  []any
	Direction Direction
}

// Page represents a single page of results.
//
// Rows are always in the caller-facing base order, independent of the
// direction used to fetch them. After continues forward from the last row,
// Before continues backward from the first row. Both are nil when the page
// is empty.
//
// Type parameter T is the entity type (a row, or a parent entity assembled
// from several rows).
type Page[T any] struct {
	Rows     []T
	PageSize int
	After    *Cursor
	Before   *Cursor

	// Navigation holds After and Before encoded as opaque tokens.
	Navigation Navigation
}

// Navigation carries opaque cursor tokens for the response envelope.
type Navigation struct {
	After  *string `json:"after"`
	Before *string `json:"before"`
}

// IsEmpty reports whether the page has no rows.
func (p *Page[T]) IsEmpty() bool {
	return p == nil || len(p.Rows) == 0
}
