package badge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/platform/postgres"
	"lifeline/internal/reputation/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
	txcontext "lifeline/pkg/platform/tx"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, b *models.Badge) error {
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO badges (id, title, description, points_required)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(b.ID), b.Title, b.Description, b.PointsRequired)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create badge: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Badge, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, `
		SELECT id, title, description, points_required FROM badges
		ORDER BY points_required, title
	`)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Badge, 0)
	for rows.Next() {
		var (
			b       models.Badge
			badgeID uuid.UUID
		)
		if err := rows.Scan(&badgeID, &b.Title, &b.Description, &b.PointsRequired); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.ID = id.BadgeID(badgeID)
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate badges: %w", err)
	}
	return out, nil
}

// Grant relies on the (user_id, badge_id) primary key; a repeated grant
// inserts nothing and reports ErrAlreadyUsed.
func (s *PostgresStore) Grant(ctx context.Context, ub *models.UserBadge) error {
	tag, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO user_badges (user_id, badge_id, awarded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, uuid.UUID(ub.UserID), uuid.UUID(ub.BadgeID), ub.AwardedAt)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("grant badge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.UserBadge, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, `
		SELECT user_id, badge_id, awarded_at FROM user_badges
		WHERE user_id = $1 ORDER BY awarded_at, badge_id::text
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	defer rows.Close()
	out := make([]*models.UserBadge, 0)
	for rows.Next() {
		var (
			ub              models.UserBadge
			user, badgeUUID uuid.UUID
		)
		if err := rows.Scan(&user, &badgeUUID, &ub.AwardedAt); err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		ub.UserID = id.UserID(user)
		ub.BadgeID = id.BadgeID(badgeUUID)
		out = append(out, &ub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user badges: %w", err)
	}
	return out, nil
}
