package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lifeline/internal/donation/models"
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

const donationSelectCols = `id, donor_id, drive_id, request_id, blood_type, units, points_awarded, status,
	donation_date, rewards_applied, created_at, updated_at`

func scanDonation(scan func(...any) error) (*models.Donation, error) {
	var (
		d                  models.Donation
		donationID, donor  uuid.UUID
		driveID, requestID *uuid.UUID
		bloodType, status  string
	)
	if err := scan(&donationID, &donor, &driveID, &requestID, &bloodType, &d.Units, &d.PointsAwarded, &status,
		&d.DonationDate, &d.RewardsApplied, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ID = id.DonationID(donationID)
	d.DonorID = id.UserID(donor)
	d.BloodType = id.BloodType(bloodType)
	d.Status = models.Status(status)
	if driveID != nil {
		v := id.DriveID(*driveID)
		d.DriveID = &v
	}
	if requestID != nil {
		v := id.RequestID(*requestID)
		d.RequestID = &v
	}
	return &d, nil
}

func foreignKeys(d *models.Donation) (driveID, requestID *uuid.UUID) {
	if d.DriveID != nil {
		v := uuid.UUID(*d.DriveID)
		driveID = &v
	}
	if d.RequestID != nil {
		v := uuid.UUID(*d.RequestID)
		requestID = &v
	}
	return driveID, requestID
}

func (s *PostgresStore) Create(ctx context.Context, d *models.Donation) error {
	driveID, requestID := foreignKeys(d)
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO donations (`+donationSelectCols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, uuid.UUID(d.ID), uuid.UUID(d.DonorID), driveID, requestID, string(d.BloodType), d.Units, d.PointsAwarded,
		string(d.Status), d.DonationDate, d.RewardsApplied, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, donationID id.DonationID) error {
	tag, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `DELETE FROM donations WHERE id = $1`, uuid.UUID(donationID))
	if err != nil {
		return fmt.Errorf("delete donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, donationID id.DonationID) (*models.Donation, error) {
	row := txcontext.Executor(ctx, s.pool).QueryRow(ctx,
		`SELECT `+donationSelectCols+` FROM donations WHERE id = $1`, uuid.UUID(donationID))
	d, err := scanDonation(row.Scan)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find donation: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.Donation, error) {
	return s.query(ctx, `SELECT `+donationSelectCols+` FROM donations
		WHERE donor_id = $1 ORDER BY donation_date DESC, id::text`, uuid.UUID(donorID))
}

func (s *PostgresStore) ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Donation, error) {
	return s.query(ctx, `SELECT `+donationSelectCols+` FROM donations
		WHERE drive_id = $1 ORDER BY donation_date DESC, id::text`, uuid.UUID(driveID))
}

func (s *PostgresStore) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Donation, error) {
	return s.query(ctx, `SELECT `+donationSelectCols+` FROM donations
		WHERE request_id = $1 ORDER BY donation_date DESC, id::text`, uuid.UUID(requestID))
}

func (s *PostgresStore) SumUnitsByRequest(ctx context.Context, requestID id.RequestID) (float64, error) {
	var total float64
	err := txcontext.Executor(ctx, s.pool).QueryRow(ctx, `
		SELECT COALESCE(SUM(units), 0) FROM donations
		WHERE request_id = $1 AND status <> $2
	`, uuid.UUID(requestID), string(models.StatusCancelled)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum donation units: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) Execute(ctx context.Context, donationID id.DonationID, validate func(*models.Donation) error, mutate func(*models.Donation)) (*models.Donation, error) {
	var result *models.Donation
	err := txcontext.Run(ctx, s.pool, func(ctx context.Context) error {
		db := txcontext.Executor(ctx, s.pool)
		d, err := scanDonation(db.QueryRow(ctx,
			`SELECT `+donationSelectCols+` FROM donations WHERE id = $1 FOR UPDATE`, uuid.UUID(donationID)).Scan)
		if err != nil {
			if postgres.IsNoRows(err) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock donation: %w", err)
		}
		if err := validate(d); err != nil {
			return err
		}
		mutate(d)
		if _, err := db.Exec(ctx, `
			UPDATE donations
			SET status = $2, points_awarded = $3, rewards_applied = $4, updated_at = $5
			WHERE id = $1
		`, uuid.UUID(d.ID), string(d.Status), d.PointsAwarded, d.RewardsApplied, d.UpdatedAt); err != nil {
			return fmt.Errorf("update donation: %w", err)
		}
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]*models.Donation, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query donations: %w", err)
	}
	defer rows.Close()
	out := make([]*models.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donations: %w", err)
	}
	return out, nil
}
