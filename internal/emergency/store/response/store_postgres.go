package response

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

const responseSelectCols = `id, request_id, donor_id, status, current_latitude, current_longitude, estimated_arrival, created_at, updated_at`

func scanResponse(scan func(...any) error) (*models.EmergencyResponse, error) {
	var (
		r                              models.EmergencyResponse
		responseID, requestID, donorID uuid.UUID
		status                         string
		lat, lon                       *float64
	)
	if err := scan(&responseID, &requestID, &donorID, &status, &lat, &lon, &r.EstimatedArrival,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = id.ResponseID(responseID)
	r.RequestID = id.RequestID(requestID)
	r.DonorID = id.UserID(donorID)
	r.Status = models.ResponseStatus(status)
	if lat != nil && lon != nil {
		r.CurrentLocation = &id.Location{Lat: *lat, Lon: *lon}
	}
	return &r, nil
}

func locationArgs(loc *id.Location) (lat, lon *float64) {
	if loc == nil {
		return nil, nil
	}
	return &loc.Lat, &loc.Lon
}

// CreateIfNoActive relies on the partial unique index over live responses;
// a conflicting insert affects no rows.
func (s *PostgresStore) CreateIfNoActive(ctx context.Context, r *models.EmergencyResponse) error {
	lat, lon := locationArgs(r.CurrentLocation)
	tag, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO emergency_responses (`+responseSelectCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (donor_id, request_id) WHERE status <> 'CANCELLED' DO NOTHING
	`, uuid.UUID(r.ID), uuid.UUID(r.RequestID), uuid.UUID(r.DonorID), string(r.Status), lat, lon,
		r.EstimatedArrival, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create emergency response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, responseID id.ResponseID) (*models.EmergencyResponse, error) {
	row := txcontext.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT `+responseSelectCols+` FROM emergency_responses WHERE id = $1`, uuid.UUID(responseID))
	r, err := scanResponse(row.Scan)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find emergency response: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.EmergencyResponse, error) {
	return s.query(ctx, `SELECT `+responseSelectCols+` FROM emergency_responses
		WHERE request_id = $1 ORDER BY created_at, id::text`, uuid.UUID(requestID))
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.EmergencyResponse, error) {
	return s.query(ctx, `SELECT `+responseSelectCols+` FROM emergency_responses
		WHERE donor_id = $1 ORDER BY created_at, id::text`, uuid.UUID(donorID))
}

func (s *PostgresStore) ListByDonorAndRequest(ctx context.Context, donorID id.UserID, requestID id.RequestID) ([]*models.EmergencyResponse, error) {
	return s.query(ctx, `SELECT `+responseSelectCols+` FROM emergency_responses
		WHERE donor_id = $1 AND request_id = $2 ORDER BY created_at, id::text`, uuid.UUID(donorID), uuid.UUID(requestID))
}

func (s *PostgresStore) Execute(ctx context.Context, responseID id.ResponseID, validate func(*models.EmergencyResponse) error, mutate func(*models.EmergencyResponse)) (*models.EmergencyResponse, error) {
	var result *models.EmergencyResponse
	err := txcontext.Run(ctx, s.pool, func(ctx context.Context) error {
		db := txcontext.Executor(ctx, s.pool)
		r, err := scanResponse(db.QueryRow(ctx,
			`SELECT `+responseSelectCols+` FROM emergency_responses WHERE id = $1 FOR UPDATE`, uuid.UUID(responseID)).Scan)
		if err != nil {
			if postgres.IsNoRows(err) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock emergency response: %w", err)
		}
		if err := validate(r); err != nil {
			return err
		}
		mutate(r)
		lat, lon := locationArgs(r.CurrentLocation)
		if _, err := db.Exec(ctx, `
			UPDATE emergency_responses
			SET status = $2, current_latitude = $3, current_longitude = $4, estimated_arrival = $5, updated_at = $6
			WHERE id = $1
		`, uuid.UUID(r.ID), string(r.Status), lat, lon, r.EstimatedArrival, r.UpdatedAt); err != nil {
			return fmt.Errorf("update emergency response: %w", err)
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]*models.EmergencyResponse, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query emergency responses: %w", err)
	}
	defer rows.Close()
	out := make([]*models.EmergencyResponse, 0)
	for rows.Next() {
		r, err := scanResponse(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan emergency response: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emergency responses: %w", err)
	}
	return out, nil
}
