package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifeline/pkg/domain-errors"
)

func TestSharded_SerialisesSameKey(t *testing.T) {
	locker := NewSharded()
	ctx := context.Background()

	var inside atomic.Int32
	var maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "request:abc")
			require.NoError(t, err)
			defer unlock()

			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}

func TestSharded_TimesOut(t *testing.T) {
	locker := NewSharded(WithTimeout(20 * time.Millisecond))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "drive:1")
	require.NoError(t, err)
	defer unlock()

	_, err = locker.Lock(ctx, "drive:1")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestSharded_CancelledContext(t *testing.T) {
	locker := NewSharded()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Lock(ctx, "any")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestSharded_UnlockIsIdempotent(t *testing.T) {
	locker := NewSharded(WithTimeout(50 * time.Millisecond))
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k")
	require.NoError(t, err)
	unlock()
	unlock()

	unlock2, err := locker.Lock(ctx, "k")
	require.NoError(t, err)
	unlock2()
}
