package postgres

import (
	"context"
	"fmt"

	id "lifeline/pkg/domain"
	audit "lifeline/pkg/platform/audit"
	txcontext "lifeline/pkg/platform/tx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements audit.Store on the audit_events table. When the caller's
// context carries a transaction the insert joins it.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	var userID *uuid.UUID
	if !event.UserID.IsNil() {
		uid := uuid.UUID(event.UserID)
		userID = &uid
	}

	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO audit_events (id, category, occurred_at, user_id, subject, action, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New(), string(category), event.Timestamp, userID, event.Subject, event.Action, event.Reason, event.RequestID)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns userID's events in the order they were appended.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category, occurred_at, user_id, subject, action, reason, request_id
		FROM audit_events
		WHERE user_id = $1
		ORDER BY seq
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]audit.Event, error) {
	defer rows.Close()
	var events []audit.Event
	for rows.Next() {
		var (
			category string
			event    audit.Event
			userID   *uuid.UUID
		)
		if err := rows.Scan(&category, &event.Timestamp, &userID, &event.Subject, &event.Action, &event.Reason, &event.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if userID != nil {
			event.UserID = id.UserID(*userID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
