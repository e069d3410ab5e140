package note

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

func (s *PostgresStore) Create(ctx context.Context, n *models.ThankYouNote) error {
	_, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `
		INSERT INTO thank_you_notes (id, patient_id, donor_id, donation_id, message, anonymous, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(n.ID), uuid.UUID(n.PatientID), uuid.UUID(n.DonorID), uuid.UUID(n.DonationID),
		n.Message, n.Anonymous, n.CreatedAt)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return sentinel.ErrAlreadyUsed
		case postgres.IsForeignKeyViolation(err):
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("create thank-you note: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, noteID id.NoteID) error {
	tag, err := txcontext.Executor(ctx, s.pool).Exec(ctx, `DELETE FROM thank_you_notes WHERE id = $1`, uuid.UUID(noteID))
	if err != nil {
		return fmt.Errorf("delete thank-you note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.ThankYouNote, error) {
	rows, err := txcontext.Executor(ctx, s.pool).Query(ctx, `
		SELECT id, patient_id, donor_id, donation_id, message, anonymous, created_at
		FROM thank_you_notes
		WHERE donor_id = $1
		ORDER BY created_at DESC, id::text
	`, uuid.UUID(donorID))
	if err != nil {
		return nil, fmt.Errorf("list thank-you notes: %w", err)
	}
	defer rows.Close()
	out := make([]*models.ThankYouNote, 0)
	for rows.Next() {
		var (
			n                                models.ThankYouNote
			noteID, patient, donor, donation uuid.UUID
		)
		if err := rows.Scan(&noteID, &patient, &donor, &donation, &n.Message, &n.Anonymous, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan thank-you note: %w", err)
		}
		n.ID = id.NoteID(noteID)
		n.PatientID = id.UserID(patient)
		n.DonorID = id.UserID(donor)
		n.DonationID = id.DonationID(donation)
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate thank-you notes: %w", err)
	}
	return out, nil
}
