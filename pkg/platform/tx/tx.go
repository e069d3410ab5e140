// Package tx carries a pgx transaction through context so stores can join a
// unit of work started by a caller.
package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ctxKey struct{}

var txKey = ctxKey{}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions; *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx stores a transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a transaction from context if present.
func From(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// Executor returns the transaction in ctx, or fallback when there is none.
func Executor(ctx context.Context, fallback DBTX) DBTX {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return fallback
}

// Run executes fn inside a transaction. If ctx already carries one, fn joins it
// and the outer caller owns commit.
func Run(ctx context.Context, db Beginner, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	t, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(WithTx(ctx, t)); err != nil {
		_ = t.Rollback(ctx)
		return err
	}
	if err := t.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Undo collects compensating steps for work done outside a transaction. A
// nil *Undo ignores Add, so code running inside a transaction can share the
// same path.
type Undo struct {
	steps []func(context.Context) error
}

func (u *Undo) Add(step func(context.Context) error) {
	if u == nil {
		return
	}
	u.steps = append(u.steps, step)
}

// Run executes the collected steps newest first and joins their failures.
func (u *Undo) Run(ctx context.Context) error {
	if u == nil {
		return nil
	}
	var errs []error
	for i := len(u.steps) - 1; i >= 0; i-- {
		if err := u.steps[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	u.steps = nil
	return errors.Join(errs...)
}

// RunOrUndo runs fn in a transaction when db is set or ctx already carries
// one; fn then receives a nil *Undo. Otherwise fn runs directly and the steps
// it registered are undone if it fails. onUndoErr receives compensation
// failures; the returned error is always fn's.
func RunOrUndo(ctx context.Context, db Beginner, fn func(ctx context.Context, undo *Undo) error, onUndoErr func(error)) error {
	if _, ok := From(ctx); ok || db != nil {
		return Run(ctx, db, func(ctx context.Context) error { return fn(ctx, nil) })
	}
	undo := &Undo{}
	if err := fn(ctx, undo); err != nil {
		if uerr := undo.Run(ctx); uerr != nil && onUndoErr != nil {
			onUndoErr(uerr)
		}
		return err
	}
	return nil
}
