package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return d.tx, nil
}

func TestUndo(t *testing.T) {
	ctx := context.Background()

	t.Run("runs newest first and joins failures", func(t *testing.T) {
		var order []int
		u := &Undo{}
		u.Add(func(context.Context) error { order = append(order, 1); return errors.New("first") })
		u.Add(func(context.Context) error { order = append(order, 2); return nil })
		u.Add(func(context.Context) error { order = append(order, 3); return errors.New("third") })

		err := u.Run(ctx)
		assert.Equal(t, []int{3, 2, 1}, order)
		assert.ErrorContains(t, err, "first")
		assert.ErrorContains(t, err, "third")
		assert.NoError(t, u.Run(ctx), "steps run once")
	})

	t.Run("nil undo ignores steps", func(t *testing.T) {
		var u *Undo
		u.Add(func(context.Context) error { t.Fatal("must not run"); return nil })
		assert.NoError(t, u.Run(ctx))
	})
}

func TestRunOrUndo(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("compensates without a transaction", func(t *testing.T) {
		var undone bool
		var reported error
		err := RunOrUndo(ctx, nil, func(ctx context.Context, undo *Undo) error {
			require.NotNil(t, undo)
			undo.Add(func(context.Context) error { undone = true; return errors.New("undo failed") })
			return boom
		}, func(err error) { reported = err })

		assert.ErrorIs(t, err, boom)
		assert.True(t, undone)
		assert.ErrorContains(t, reported, "undo failed")
	})

	t.Run("success skips compensation", func(t *testing.T) {
		err := RunOrUndo(ctx, nil, func(ctx context.Context, undo *Undo) error {
			undo.Add(func(context.Context) error { t.Fatal("must not run"); return nil })
			return nil
		}, nil)
		assert.NoError(t, err)
	})

	t.Run("rolls back a transaction", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		err := RunOrUndo(ctx, db, func(ctx context.Context, undo *Undo) error {
			assert.Nil(t, undo)
			_, ok := From(ctx)
			assert.True(t, ok)
			return boom
		}, nil)

		assert.ErrorIs(t, err, boom)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
	})

	t.Run("commits a transaction", func(t *testing.T) {
		db := &fakeDB{tx: &fakeTx{}}
		require.NoError(t, RunOrUndo(ctx, db, func(context.Context, *Undo) error { return nil }, nil))
		assert.True(t, db.tx.committed)
	})

	t.Run("joins the caller's transaction", func(t *testing.T) {
		outer := &fakeTx{}
		err := RunOrUndo(WithTx(ctx, outer), nil, func(ctx context.Context, undo *Undo) error {
			assert.Nil(t, undo)
			return nil
		}, nil)
		require.NoError(t, err)
		assert.False(t, outer.committed, "the outer caller owns commit")
	})
}
