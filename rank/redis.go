package rank

import (
	"context"
	"encoding/json"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned when nothing has been published yet.
var ErrNoSnapshot = errors.New("rank snapshot not published")

// RedisLoader reads the JSON snapshot stored under Key.
type RedisLoader struct {
	Client redis.Cmdable
	Key    string
}

// NewRedisLoader creates a RedisLoader.
func NewRedisLoader(client redis.Cmdable, key string) *RedisLoader {
	return &RedisLoader{Client: client, Key: key}
}

// Load implements Loader.
func (l *RedisLoader) Load(ctx context.Context) (*Snapshot, error) {
	data, err := l.Client.Get(ctx, l.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.Wrapf(ErrNoSnapshot, "key %s", l.Key)
		}
		return nil, errors.Wrapf(err, "get %s", l.Key)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", l.Key)
	}
	return &snap, nil
}

// RedisPublisher writes snapshots for RedisLoader to read.
type RedisPublisher struct {
	Client redis.Cmdable
	Key    string
	// TTL of the stored snapshot. Zero keeps it until overwritten.
	TTL time.Duration
}

// NewRedisPublisher creates a RedisPublisher without expiry.
func NewRedisPublisher(client redis.Cmdable, key string) *RedisPublisher {
	return &RedisPublisher{Client: client, Key: key}
}

// Publish stores snap under the publisher's key.
func (p *RedisPublisher) Publish(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.New("publish rank snapshot: snapshot is nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	if err := p.Client.Set(ctx, p.Key, data, p.TTL).Err(); err != nil {
		return errors.Wrapf(err, "set %s", p.Key)
	}
	return nil
}
