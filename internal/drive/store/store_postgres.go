package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/drive/models"
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

const driveSelectCols = `id, organizer_id, title, description, latitude, longitude, start_date, end_date,
	required_blood_types, max_capacity, current_donors, status, status_overridden, created_at, updated_at`

func scanDrive(scan func(...any) error) (*models.Drive, error) {
	var (
		d           models.Drive
		driveID     uuid.UUID
		organizerID uuid.UUID
		bloodTypes  []string
		status      string
	)
	if err := scan(&driveID, &organizerID, &d.Title, &d.Description, &d.Location.Lat, &d.Location.Lon,
		&d.StartDate, &d.EndDate, &bloodTypes, &d.MaxCapacity, &d.CurrentDonors, &status,
		&d.StatusOverridden, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ID = id.DriveID(driveID)
	d.OrganizerID = id.UserID(organizerID)
	d.Status = models.Status(status)
	d.RequiredBloodTypes = make([]id.BloodType, len(bloodTypes))
	for i, bt := range bloodTypes {
		d.RequiredBloodTypes[i] = id.BloodType(bt)
	}
	return &d, nil
}

func bloodTypeArray(types []id.BloodType) []string {
	out := make([]string, len(types))
	for i, bt := range types {
		out[i] = string(bt)
	}
	return out
}

func (s *PostgresStore) Create(ctx context.Context, d *models.Drive) error {
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO donation_drives (`+driveSelectCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, uuid.UUID(d.ID), uuid.UUID(d.OrganizerID), d.Title, d.Description, d.Location.Lat, d.Location.Lon,
		d.StartDate, d.EndDate, bloodTypeArray(d.RequiredBloodTypes), d.MaxCapacity, d.CurrentDonors,
		string(d.Status), d.StatusOverridden, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create drive: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, driveID id.DriveID) (*models.Drive, error) {
	row := txcontext.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT `+driveSelectCols+` FROM donation_drives WHERE id = $1`, uuid.UUID(driveID))
	d, err := scanDrive(row.Scan)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find drive: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Drive, error) {
	return s.query(ctx, `SELECT `+driveSelectCols+` FROM donation_drives ORDER BY start_date, id::text`)
}

func (s *PostgresStore) ListByOrganizer(ctx context.Context, organizerID id.UserID) ([]*models.Drive, error) {
	return s.query(ctx, `SELECT `+driveSelectCols+` FROM donation_drives
		WHERE organizer_id = $1 ORDER BY start_date, id::text`, uuid.UUID(organizerID))
}

func (s *PostgresStore) ListByBloodType(ctx context.Context, bt id.BloodType) ([]*models.Drive, error) {
	return s.query(ctx, `SELECT `+driveSelectCols+` FROM donation_drives
		WHERE $1 = ANY(required_blood_types) ORDER BY start_date, id::text`, string(bt))
}

// Execute locks the drive row with SELECT ... FOR UPDATE for the duration of
// validate and mutate, joining a transaction already on ctx.
func (s *PostgresStore) Execute(ctx context.Context, driveID id.DriveID, validate func(*models.Drive) error, mutate func(*models.Drive)) (*models.Drive, error) {
	var result *models.Drive
	err := txcontext.Run(ctx, s.pool, func(ctx context.Context) error {
		db := txcontext.Executor(ctx, s.pool)
		d, err := scanDrive(db.QueryRow(ctx,
			`SELECT `+driveSelectCols+` FROM donation_drives WHERE id = $1 FOR UPDATE`, uuid.UUID(driveID)).Scan)
		if err != nil {
			if postgres.IsNoRows(err) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock drive: %w", err)
		}
		if err := validate(d); err != nil {
			return err
		}
		mutate(d)
		if _, err := db.Exec(ctx, `
			UPDATE donation_drives
			SET current_donors = $2, status = $3, status_overridden = $4, updated_at = $5
			WHERE id = $1
		`, uuid.UUID(d.ID), d.CurrentDonors, string(d.Status), d.StatusOverridden, d.UpdatedAt); err != nil {
			if postgres.IsCheckViolation(err) {
				return sentinel.ErrInvalidState
			}
			return fmt.Errorf("update drive: %w", err)
		}
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]*models.Drive, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query drives: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Drive, 0)
	for rows.Next() {
		d, err := scanDrive(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan drive: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drives: %w", err)
	}
	return out, nil
}
