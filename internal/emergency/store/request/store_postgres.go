package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/emergency/models"
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

const requestSelectCols = `id, patient_id, blood_type, units_needed, latitude, longitude, urgency, status, notes, created_at, updated_at`

func scanRequest(scan func(...any) error) (*models.EmergencyRequest, error) {
	var (
		r                    models.EmergencyRequest
		requestID, patientID uuid.UUID
		bloodType            string
		urgency, status      string
	)
	if err := scan(&requestID, &patientID, &bloodType, &r.UnitsNeeded, &r.Location.Lat, &r.Location.Lon,
		&urgency, &status, &r.Notes, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = id.RequestID(requestID)
	r.PatientID = id.UserID(patientID)
	r.BloodType = id.BloodType(bloodType)
	r.Urgency = models.Urgency(urgency)
	r.Status = models.RequestStatus(status)
	return &r, nil
}

func (s *PostgresStore) Create(ctx context.Context, r *models.EmergencyRequest) error {
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO emergency_requests (`+requestSelectCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, uuid.UUID(r.ID), uuid.UUID(r.PatientID), string(r.BloodType), r.UnitsNeeded, r.Location.Lat, r.Location.Lon,
		string(r.Urgency), string(r.Status), r.Notes, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create emergency request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, requestID id.RequestID) (*models.EmergencyRequest, error) {
	row := txcontext.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT `+requestSelectCols+` FROM emergency_requests WHERE id = $1`, uuid.UUID(requestID))
	r, err := scanRequest(row.Scan)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find emergency request: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.RequestStatus, bt *id.BloodType) ([]*models.EmergencyRequest, error) {
	if bt == nil {
		return s.query(ctx, `SELECT `+requestSelectCols+` FROM emergency_requests
			WHERE status = $1 ORDER BY created_at DESC, id::text`, string(status))
	}
	return s.query(ctx, `SELECT `+requestSelectCols+` FROM emergency_requests
		WHERE status = $1 AND blood_type = $2 ORDER BY created_at DESC, id::text`, string(status), string(*bt))
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patientID id.UserID) ([]*models.EmergencyRequest, error) {
	return s.query(ctx, `SELECT `+requestSelectCols+` FROM emergency_requests
		WHERE patient_id = $1 ORDER BY created_at DESC, id::text`, uuid.UUID(patientID))
}

// Execute holds the request row lock across validate and mutate.
func (s *PostgresStore) Execute(ctx context.Context, requestID id.RequestID, validate func(*models.EmergencyRequest) error, mutate func(*models.EmergencyRequest)) (*models.EmergencyRequest, error) {
	var result *models.EmergencyRequest
	err := txcontext.Run(ctx, s.pool, func(ctx context.Context) error {
		db := txcontext.Executor(ctx, s.pool)
		r, err := scanRequest(db.QueryRow(ctx,
			`SELECT `+requestSelectCols+` FROM emergency_requests WHERE id = $1 FOR UPDATE`, uuid.UUID(requestID)).Scan)
		if err != nil {
			if postgres.IsNoRows(err) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock emergency request: %w", err)
		}
		if err := validate(r); err != nil {
			return err
		}
		mutate(r)
		if _, err := db.Exec(ctx, `
			UPDATE emergency_requests SET status = $2, notes = $3, updated_at = $4 WHERE id = $1
		`, uuid.UUID(r.ID), string(r.Status), r.Notes, r.UpdatedAt); err != nil {
			return fmt.Errorf("update emergency request: %w", err)
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]*models.EmergencyRequest, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query emergency requests: %w", err)
	}
	defer rows.Close()
	out := make([]*models.EmergencyRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan emergency request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emergency requests: %w", err)
	}
	return out, nil
}
