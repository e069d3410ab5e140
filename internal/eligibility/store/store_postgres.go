package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/eligibility/models"
	"lifeline/internal/platform/postgres"
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

const recordSelectCols = `user_id, last_donation_date, next_eligible_date, medical_notes, created_at, updated_at`

func scanRecord(scan func(...any) error) (*models.HealthRecord, error) {
	var (
		rec    models.HealthRecord
		userID uuid.UUID
	)
	if err := scan(&userID, &rec.LastDonationDate, &rec.NextEligibleDate, &rec.MedicalNotes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.UserID = id.UserID(userID)
	return &rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.HealthRecord) error {
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO health_records (`+recordSelectCols+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.UUID(rec.UserID), rec.LastDonationDate, rec.NextEligibleDate, rec.MedicalNotes, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create health record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID id.UserID) (*models.HealthRecord, error) {
	row := txcontext.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT `+recordSelectCols+` FROM health_records WHERE user_id = $1`, uuid.UUID(userID))
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find health record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByUsers(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.HealthRecord, error) {
	out := make(map[id.UserID]*models.HealthRecord, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(userIDs))
	for i, uid := range userIDs {
		ids[i] = uuid.UUID(uid)
	}
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx,
		`SELECT `+recordSelectCols+` FROM health_records WHERE user_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query health records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan health record: %w", err)
		}
		out[rec.UserID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate health records: %w", err)
	}
	return out, nil
}

// Upsert locks the row (creating it if absent) for the duration of mutate.
func (s *PostgresStore) Upsert(ctx context.Context, userID id.UserID, now time.Time, mutate func(*models.HealthRecord)) (*models.HealthRecord, error) {
	var result *models.HealthRecord
	err := txcontext.Run(ctx, s.pool, func(ctx context.Context) error {
		db := txcontext.Executor(ctx, s.pool)
		if _, err := db.Exec(ctx, `
			INSERT INTO health_records (user_id, created_at, updated_at)
			VALUES ($1, $2, $2)
			ON CONFLICT (user_id) DO NOTHING
		`, uuid.UUID(userID), now); err != nil {
			return fmt.Errorf("ensure health record: %w", err)
		}

		rec, err := scanRecord(db.QueryRow(ctx,
			`SELECT `+recordSelectCols+` FROM health_records WHERE user_id = $1 FOR UPDATE`, uuid.UUID(userID)).Scan)
		if err != nil {
			return fmt.Errorf("lock health record: %w", err)
		}

		mutate(rec)

		if _, err := db.Exec(ctx, `
			UPDATE health_records
			SET last_donation_date = $2, next_eligible_date = $3, medical_notes = $4, updated_at = $5
			WHERE user_id = $1
		`, uuid.UUID(userID), rec.LastDonationDate, rec.NextEligibleDate, rec.MedicalNotes, rec.UpdatedAt); err != nil {
			return fmt.Errorf("update health record: %w", err)
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
