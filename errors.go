package paging

import (
	"fmt"

	"github.com/friendsofgo/errors"
)

var (
	// ErrInvalidCursor is returned for malformed, mismatched or
	// unsupported-version cursor tokens. Clients should restart from the
	// first page.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrInvalidArgument is returned for a bad page size, a multi-page jump
	// or conflicting after/before cursors.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRange is returned when a range filter has min > max.
	ErrInvalidRange = errors.New("invalid range")

	// ErrStoreUnavailable marks failures of the row source. It is never
	// retried by the paginator.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrGroupOverflow is returned when a grouped page cannot complete a
	// single parent entity within the fill iteration budget.
	ErrGroupOverflow = errors.New("group exceeds fill budget")
)

// PageSizeError is returned when the requested page size is not positive
// or exceeds the maximum allowed.
type PageSizeError struct {
	Requested int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	if e.Requested <= 0 {
		return fmt.Sprintf("page size must be positive, got %d", e.Requested)
	}
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d",
		e.Requested, e.Maximum)
}

// Is makes a PageSizeError match ErrInvalidArgument.
func (e *PageSizeError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// StoreError wraps a row source failure.
type StoreError struct {
	// Key is the sort key id of the failing fetch.
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", ErrStoreUnavailable, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is makes a StoreError match ErrStoreUnavailable.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// ErrorKind maps err to a stable, low-cardinality label suitable for
// metrics and transport status mapping.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidCursor):
		return "invalid_cursor"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrGroupOverflow):
		return "group_overflow"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

// IsClientError reports whether err was caused by caller input rather than
// the store or the engine.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidCursor) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidRange)
}
