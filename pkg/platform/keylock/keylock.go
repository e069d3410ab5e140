// Package keylock serialises work per key.
//
// The in-process Sharded locker maps keys onto a fixed set of mutexes; two keys
// may share a shard, so callers must hold at most one key lock at a time.
// RedisLocker provides the same contract across processes.
package keylock

import (
	"context"
	"sync"
	"time"

	dErrors "lifeline/pkg/domain-errors"
)

// Locker acquires an exclusive lock on key. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

const numShards = 128

// defaultLockTimeout bounds how long a caller waits when ctx has no deadline.
const defaultLockTimeout = 5 * time.Second

// Sharded distributes keys across 128 mutexes by FNV-1a hash.
type Sharded struct {
	shards  [numShards]chan struct{}
	timeout time.Duration
}

type ShardedOption func(*Sharded)

func WithTimeout(d time.Duration) ShardedOption {
	return func(s *Sharded) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewSharded(opts ...ShardedOption) *Sharded {
	s := &Sharded{timeout: defaultLockTimeout}
	for i := range s.shards {
		s.shards[i] = make(chan struct{}, 1)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lock waits for the key's shard or until ctx (bounded by the locker timeout)
// is done.
func (s *Sharded) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "lock aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	shard := s.shards[hash(key)%numShards]
	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for lock")
	}

	var once sync.Once
	return func() { once.Do(func() { <-shard }) }, nil
}

// hash is FNV-1a.
func hash(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
