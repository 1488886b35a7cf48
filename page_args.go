package paging

import "github.com/friendsofgo/errors"

const (
	// DefaultPageSize is the default number of items per page when not specified.
	DefaultPageSize = 50

	// DefaultMaxPageSize is the default maximum page size allowed.
	// This protects against resource exhaustion from unreasonably large page requests.
	DefaultMaxPageSize = 1000
)

// PageConfig holds pagination configuration options.
// Use NewPageConfig() to create a config with sensible defaults,
// then customize using the With* methods.
//
// Example:
//
//	config := paging.NewPageConfig().WithMaxSize(500)
//	limit := config.EffectiveLimit(args)
type PageConfig struct {
	// DefaultSize is the page size used when not specified in PageArgs.
	DefaultSize int

	// MaxSize is the maximum allowed page size. Validate rejects requests
	// above it; EffectiveLimit caps them.
	MaxSize int
}

// NewPageConfig creates a PageConfig with sensible defaults:
// - DefaultSize: 50
// - MaxSize: 1000
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MaxSize:     DefaultMaxPageSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

func (c *PageConfig) sizes() (defaultSize, maxSize int) {
	if c == nil {
		return DefaultPageSize, DefaultMaxPageSize
	}

	defaultSize = c.DefaultSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}

	maxSize = c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}

	if defaultSize > maxSize {
		defaultSize = maxSize
	}

	return defaultSize, maxSize
}

// EffectiveLimit returns the page size to use, applying defaults and caps.
// - If args is nil or First is nil, returns DefaultSize
// - If First exceeds MaxSize, returns MaxSize
// - Otherwise returns First
func (c *PageConfig) EffectiveLimit(args *PageArgs) int {
	defaultSize, maxSize := c.sizes()

	if args == nil || args.First == nil || *args.First <= 0 {
		return defaultSize
	}

	if *args.First > maxSize {
		return maxSize
	}

	return *args.First
}

// Validate checks the requested page size. A First that is zero, negative
// or above MaxSize yields a *PageSizeError, which matches ErrInvalidArgument.
func (c *PageConfig) Validate(args *PageArgs) error {
	if args == nil || args.First == nil {
		return nil
	}

	_, maxSize := c.sizes()

	if *args.First <= 0 || *args.First > maxSize {
		return &PageSizeError{
			Requested: *args.First,
			Maximum:   maxSize,
		}
	}

	return nil
}

// PageArgs represents pagination query parameters as received from the web
// layer: a page size, at most one of the After / Before cursor tokens, and
// an optional single-page step (+1 forward, -1 backward).
type PageArgs struct {
	First    *int    `json:"first,omitempty"`
	After    *string `json:"after,omitempty"`
	Before   *string `json:"before,omitempty"`
	PageDiff *int    `json:"pageDiff,omitempty"`
}

// GetFirst returns the requested page size.
func (pa *PageArgs) GetFirst() *int {
	if pa == nil {
		return nil
	}
	return pa.First
}

// GetAfter returns the forward cursor token.
func (pa *PageArgs) GetAfter() *string {
	if pa == nil {
		return nil
	}
	return pa.After
}

// GetBefore returns the backward cursor token.
func (pa *PageArgs) GetBefore() *string {
	if pa == nil {
		return nil
	}
	return pa.Before
}

// Token returns the cursor token to continue from and its direction.
// It returns an empty token when neither cursor is set.
func (pa *PageArgs) Token() (string, Direction) {
	switch {
	case pa == nil:
		return "", Forward
	case pa.After != nil && *pa.After != "":
		return *pa.After, Forward
	case pa.Before != nil && *pa.Before != "":
		return *pa.Before, Backward
	default:
		return "", Forward
	}
}

// Validate validates the PageArgs using DefaultMaxPageSize (1000).
func (pa *PageArgs) Validate() error {
	return pa.ValidateWith(NewPageConfig())
}

// ValidateWith validates the PageArgs using a custom PageConfig.
// Supplying both After and Before is rejected with ErrInvalidArgument.
//
// Example:
//
//	config := paging.NewPageConfig().WithMaxSize(100)
//	if err := args.ValidateWith(config); err != nil {
//	    return nil, err
//	}
func (pa *PageArgs) ValidateWith(config *PageConfig) error {
	if pa == nil {
		return nil
	}

	if pa.After != nil && pa.Before != nil {
		return errors.Wrap(ErrInvalidArgument, "after and before are mutually exclusive")
	}

	return config.Validate(pa)
}
