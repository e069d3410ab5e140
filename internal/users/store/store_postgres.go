package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/platform/postgres"
	"lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
	txcontext "lifeline/pkg/platform/tx"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userSelectCols = `id, email, first_name, last_name, blood_type, latitude, longitude, role, emergency_opt_in, points, created_at, updated_at`

func scanUser(scan func(...any) error) (*models.User, error) {
	var (
		u         models.User
		userID    uuid.UUID
		bloodType string
		role      string
	)
	if err := scan(&userID, &u.Email, &u.FirstName, &u.LastName, &bloodType, &u.Location.Lat, &u.Location.Lon,
		&role, &u.EmergencyOptIn, &u.Points, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.UserID(userID)
	u.BloodType = id.BloodType(bloodType)
	u.Role = models.Role(role)
	return &u, nil
}

func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO users (`+userSelectCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			blood_type = EXCLUDED.blood_type,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			role = EXCLUDED.role,
			emergency_opt_in = EXCLUDED.emergency_opt_in,
			updated_at = EXCLUDED.updated_at
	`, uuid.UUID(user.ID), user.Email, user.FirstName, user.LastName, string(user.BloodType),
		user.Location.Lat, user.Location.Lon, string(user.Role), user.EmergencyOptIn, user.Points,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := txcontext.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1`, uuid.UUID(userID))
	u, err := scanUser(row.Scan)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	return s.query(ctx, `SELECT `+userSelectCols+` FROM users WHERE role = $1 ORDER BY id::text`, string(role))
}

func (s *PostgresStore) FindDonorsOptedIn(ctx context.Context, bloodType *id.BloodType) ([]*models.User, error) {
	if bloodType == nil {
		return s.query(ctx, `SELECT `+userSelectCols+` FROM users
			WHERE role = 'DONOR' AND emergency_opt_in ORDER BY id::text`)
	}
	return s.query(ctx, `SELECT `+userSelectCols+` FROM users
		WHERE role = 'DONOR' AND emergency_opt_in AND blood_type = $1 ORDER BY id::text`, string(*bloodType))
}

// AddPoints increments points in a single statement so concurrent awards never
// lose updates.
func (s *PostgresStore) AddPoints(ctx context.Context, userID id.UserID, amount int) (int, error) {
	var total int
	err := txcontext.Executor(ctx, s.pool).QueryRow(ctx, `
		UPDATE users SET points = points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points
	`, uuid.UUID(userID), amount).Scan(&total)
	if err != nil {
		if postgres.IsNoRows(err) {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("add points: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]*models.User, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
