// Package worker runs badge checks in the background so awarding points does
// not wait on the badge catalog.
package worker

import (
	"context"
	"log/slog"

	platformmetrics "lifeline/internal/platform/metrics"
	"lifeline/internal/reputation/models"
	id "lifeline/pkg/domain"
)

type BadgeChecker interface {
	CheckAndAwardBadges(ctx context.Context, userID id.UserID) ([]*models.UserBadge, error)
}

// Worker consumes user ids from a bounded queue and checks their badges.
type Worker struct {
	inbox   chan id.UserID
	logger  *slog.Logger
	metrics *platformmetrics.Metrics
}

// New creates a worker with room for queueSize pending checks. m may be nil.
func New(queueSize int, logger *slog.Logger, m *platformmetrics.Metrics) *Worker {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Worker{inbox: make(chan id.UserID, queueSize), logger: logger, metrics: m}
}

// Enqueue never blocks. It returns false when the queue is full.
func (w *Worker) Enqueue(userID id.UserID) bool {
	select {
	case w.inbox <- userID:
		w.metrics.SetBadgeQueueDepth(len(w.inbox))
		return true
	default:
		return false
	}
}

// Pending is the number of queued checks.
func (w *Worker) Pending() int {
	return len(w.inbox)
}

// Run processes the queue until ctx is cancelled. A failed check is logged
// and does not stop the worker.
func (w *Worker) Run(ctx context.Context, checker BadgeChecker) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case userID := <-w.inbox:
			w.check(ctx, checker, userID)
		}
	}
}

// Drain processes whatever is queued and returns. Used on shutdown after Run
// has stopped.
func (w *Worker) Drain(ctx context.Context, checker BadgeChecker) {
	for {
		select {
		case userID := <-w.inbox:
			w.check(ctx, checker, userID)
		default:
			return
		}
	}
}

func (w *Worker) check(ctx context.Context, checker BadgeChecker, userID id.UserID) {
	w.metrics.SetBadgeQueueDepth(len(w.inbox))
	granted, err := checker.CheckAndAwardBadges(ctx, userID)
	if w.logger == nil {
		return
	}
	if err != nil {
		w.logger.ErrorContext(ctx, "background badge check failed",
			"user_id", userID.String(),
			"error", err,
		)
		return
	}
	if len(granted) > 0 {
		w.logger.InfoContext(ctx, "badges granted",
			"user_id", userID.String(),
			"count", len(granted),
		)
	}
}
