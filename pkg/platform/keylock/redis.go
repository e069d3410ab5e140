package keylock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dErrors "lifeline/pkg/domain-errors"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX. The TTL bounds how long a
// crashed holder can block others; critical sections must finish well within it.
type RedisLocker struct {
	client    redis.UniversalClient
	prefix    string
	ttl       time.Duration
	retryWait time.Duration
	timeout   time.Duration
}

type RedisOption func(*RedisLocker)

func WithTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithRetryWait(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.retryWait = d
		}
	}
}

func WithWaitTimeout(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func NewRedisLocker(client redis.UniversalClient, prefix string, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:    client,
		prefix:    prefix,
		ttl:       10 * time.Second,
		retryWait: 25 * time.Millisecond,
		timeout:   defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	redisKey := l.prefix + key
	token := uuid.NewString()
	ticker := time.NewTicker(l.retryWait)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for lock")
			}
			return nil, fmt.Errorf("acquire lock %s: %w", redisKey, err)
		}
		if ok {
			return func() {
				// Release must run even if the caller's ctx is already done.
				_ = releaseScript.Run(context.Background(), l.client, []string{redisKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for lock")
		case <-ticker.C:
		}
	}
}
