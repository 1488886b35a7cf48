package cursor

import (
	"io"

	"github.com/sirupsen/logrus"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/filter"
	"github.com/nrfta/ladder-paging/metrics"
)

// Default configuration values
const (
	defaultRowsPerGroup      = 4
	defaultMaxFillIterations = 16
)

// Option configures a paginator.
type Option func(*config)

// config holds paginator configuration.
type config struct {
	pageConfig        *paging.PageConfig
	composer          filter.Composer
	logger            logrus.FieldLogger
	metrics           *metrics.Collector
	rowsPerGroup      int
	maxFillIterations int
}

func newConfig(opts []Option) *config {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	cfg := &config{
		pageConfig:        paging.NewPageConfig(),
		logger:            discard,
		rowsPerGroup:      defaultRowsPerGroup,
		maxFillIterations: defaultMaxFillIterations,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithPageConfig sets the default and maximum page size used by Paginate.
func WithPageConfig(pc *paging.PageConfig) Option {
	return func(c *config) {
		if pc != nil {
			c.pageConfig = pc
		}
	}
}

// WithMinTextLength sets the shortest text query that still performs
// prefix or substring matching.
func WithMinTextLength(n int) Option {
	return func(c *config) {
		c.composer.MinTextLength = n
	}
}

// WithLogger sets the logger used for dropped groups and fill warnings.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics reports fetches, errors and fill iterations to collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *config) {
		c.metrics = collector
	}
}

// WithRowsPerGroup sets the expected number of child rows per parent,
// used to size the first fetch of a grouped page.
func WithRowsPerGroup(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.rowsPerGroup = n
		}
	}
}

// WithMaxFillIterations bounds the number of row source calls a grouped
// page may issue.
func WithMaxFillIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxFillIterations = n
		}
	}
}
