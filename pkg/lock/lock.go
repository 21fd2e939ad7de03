// Package lock provides a lease that at most one process holds per key.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("lock held by another owner")

type Locker interface {
	// Acquire returns ErrLocked when another owner holds key.
	Acquire(ctx context.Context, key string) (Lease, error)
}

type Lease interface {
	Release(ctx context.Context) error
}

// Redis implements Locker with SET NX PX. A lease expires after ttl even if
// its holder dies without releasing it.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, prefix: "videoflix:lock:"}
}

// Only the token that set the key may delete it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *Redis) Acquire(ctx context.Context, key string) (Lease, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return &redisLease{client: l.client, key: l.prefix + key, token: token}, nil
}

type redisLease struct {
	client redis.Cmdable
	key    string
	token  string
}

func (l *redisLease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
}

// Nop grants every request. It is used when no Redis is configured.
type Nop struct{}

func (Nop) Acquire(context.Context, string) (Lease, error) {
	return nopLease{}, nil
}

type nopLease struct{}

func (nopLease) Release(context.Context) error {
	return nil
}
