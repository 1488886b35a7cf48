package rank

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"

	"github.com/nrfta/ladder-paging/metrics"
)

// Loader fetches the latest published snapshot.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*Snapshot, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used to report refreshes.
func WithStoreLogger(logger logrus.FieldLogger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreMetrics reports snapshot age to collector.
func WithStoreMetrics(collector *metrics.Collector) StoreOption {
	return func(s *Store) {
		s.metrics = collector
	}
}

// Store serves the current snapshot. Readers never block: a refresh swaps
// in a new immutable snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
	logger  logrus.FieldLogger
	metrics *metrics.Collector
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{logger: discard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the snapshot being served, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace serves snap from now on.
func (s *Store) Replace(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
	s.metrics.ObserveSnapshot(snap.Age())
}

// Refresh loads a snapshot and serves it. An older snapshot than the
// current one is ignored. On error the current snapshot keeps being
// served.
func (s *Store) Refresh(ctx context.Context, loader Loader) error {
	snap, err := loader.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load rank snapshot")
	}
	if snap == nil {
		return errors.New("load rank snapshot: loader returned nil")
	}

	if cur := s.Current(); cur != nil && snap.BuiltAt.Before(cur.BuiltAt) {
		s.logger.WithFields(logrus.Fields{
			"key":      snap.Key,
			"built_at": snap.BuiltAt,
			"current":  cur.BuiltAt,
		}).Warn("ignored stale rank snapshot")
		return nil
	}

	s.Replace(snap)
	s.logger.WithFields(logrus.Fields{
		"key":        snap.Key,
		"built_at":   snap.BuiltAt,
		"population": snap.Population.Global,
	}).Info("refreshed rank snapshot")

	return nil
}

// Watch refreshes the snapshot every interval until ctx is done. Failed
// refreshes are logged and retried on the next tick.
func (s *Store) Watch(ctx context.Context, loader Loader, interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("invalid refresh interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Refresh(ctx, loader); err != nil {
			s.logger.WithError(err).Error("rank snapshot refresh failed")
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
