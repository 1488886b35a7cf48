// Package config loads the settings of a ladder-paging deployment.
//
// Settings are layered, lowest precedence first: built-in defaults, the
// YAML file named by LADDER_CONFIG, then LADDER_* environment variables.
//
// Example:
//
//	cfg, err := config.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	teams, err := ladder.NewTeams(source, store, cfg.PaginatorOptions(cfg.NewLogger())...)
package config

import (
	"time"

	"github.com/friendsofgo/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	paging "github.com/nrfta/ladder-paging"
	"github.com/nrfta/ladder-paging/cursor"
	"github.com/nrfta/ladder-paging/filter"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds process configuration.
type Config struct {
	// LogLevel is a logrus level name: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	PageDefaultSize int `koanf:"page_default_size"`
	PageMaxSize     int `koanf:"page_max_size"`

	// TextMinLength is the shortest text query matched by prefix or
	// substring. Shorter queries match exactly.
	TextMinLength int `koanf:"text_min_length"`

	// RowsPerGroup is the expected number of child rows per grouped
	// entity, e.g. members per team.
	RowsPerGroup      int `koanf:"rows_per_group"`
	MaxFillIterations int `koanf:"max_fill_iterations"`

	PostgresDSN string `koanf:"postgres_dsn"`
	RedisAddr   string `koanf:"redis_addr"`

	// SnapshotKey is the Redis key of the published rank snapshot.
	SnapshotKey string `koanf:"snapshot_key"`
	// SnapshotRefresh is how often the rank snapshot is reloaded. Zero
	// disables reloading.
	SnapshotRefresh time.Duration `koanf:"snapshot_refresh"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		PageDefaultSize:   paging.DefaultPageSize,
		PageMaxSize:       paging.DefaultMaxPageSize,
		TextMinLength:     filter.DefaultMinTextLength,
		RowsPerGroup:      4,
		MaxFillIterations: 16,
		SnapshotKey:       "ladder:rank:team-rating",
		SnapshotRefresh:   time.Minute,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level: %v", err)
	}
	switch {
	case c.PageDefaultSize <= 0:
		return errors.Wrapf(ErrInvalidConfig, "page_default_size must be positive, got %d", c.PageDefaultSize)
	case c.PageMaxSize < c.PageDefaultSize:
		return errors.Wrapf(ErrInvalidConfig, "page_max_size %d is below page_default_size %d", c.PageMaxSize, c.PageDefaultSize)
	case c.TextMinLength <= 0:
		return errors.Wrapf(ErrInvalidConfig, "text_min_length must be positive, got %d", c.TextMinLength)
	case c.RowsPerGroup <= 0:
		return errors.Wrapf(ErrInvalidConfig, "rows_per_group must be positive, got %d", c.RowsPerGroup)
	case c.MaxFillIterations <= 0:
		return errors.Wrapf(ErrInvalidConfig, "max_fill_iterations must be positive, got %d", c.MaxFillIterations)
	case c.SnapshotRefresh < 0:
		return errors.Wrapf(ErrInvalidConfig, "snapshot_refresh must not be negative, got %s", c.SnapshotRefresh)
	}
	return nil
}

// NewLogger returns a text logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// PageConfig returns the page size limits.
func (c *Config) PageConfig() *paging.PageConfig {
	return paging.NewPageConfig().
		WithDefaultSize(c.PageDefaultSize).
		WithMaxSize(c.PageMaxSize)
}

// PaginatorOptions returns the paginator options for this configuration.
// extra options are appended and take precedence.
func (c *Config) PaginatorOptions(logger logrus.FieldLogger, extra ...cursor.Option) []cursor.Option {
	opts := []cursor.Option{
		cursor.WithPageConfig(c.PageConfig()),
		cursor.WithMinTextLength(c.TextMinLength),
		cursor.WithRowsPerGroup(c.RowsPerGroup),
		cursor.WithMaxFillIterations(c.MaxFillIterations),
		cursor.WithLogger(logger),
	}
	return append(opts, extra...)
}

// RedisOptions returns the client options for the snapshot store.
func (c *Config) RedisOptions() *redis.Options {
	return &redis.Options{Addr: c.RedisAddr}
}
