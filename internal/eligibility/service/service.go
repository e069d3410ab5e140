// Package service implements the eligibility tracker: the only writer of
// health record donation windows.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lifeline/internal/eligibility/models"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/platform/tracing"
	"lifeline/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks HealthRecordStore,UserDirectory

var tracer = otel.Tracer("lifeline/eligibility")

type HealthRecordStore interface {
	Create(ctx context.Context, rec *models.HealthRecord) error
	FindByUser(ctx context.Context, userID id.UserID) (*models.HealthRecord, error)
	FindByUsers(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.HealthRecord, error)
	Upsert(ctx context.Context, userID id.UserID, now time.Time, mutate func(*models.HealthRecord)) (*models.HealthRecord, error)
}

type UserDirectory interface {
	FindByRole(ctx context.Context, role usermodels.Role) ([]*usermodels.User, error)
}

type Service struct {
	records        HealthRecordStore
	users          UserDirectory
	logger         *slog.Logger
	auditPublisher audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func New(records HealthRecordStore, users UserDirectory, opts ...Option) *Service {
	s := &Service{records: records, users: users}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordDonation opens a new cooldown window starting at donationDate,
// creating the record when the donor has none. Later donations overwrite.
func (s *Service) RecordDonation(ctx context.Context, donorID id.UserID, donationDate time.Time) (rec *models.HealthRecord, err error) {
	ctx, span := tracer.Start(ctx, "eligibility.RecordDonation",
		trace.WithAttributes(attribute.String("donor_id", donorID.String())))
	defer func() { tracing.End(span, err) }()

	if donorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "donor id is required")
	}
	if donationDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "donation date is required")
	}

	now := requestcontext.Now(ctx)
	rec, err = s.records.Upsert(ctx, donorID, now, func(r *models.HealthRecord) {
		r.ApplyDonation(donationDate, now)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record donation")
	}

	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventEligibilityUpdated,
		"user_id", donorID.String(),
		"subject", rec.NextEligibleDate.Format(time.DateOnly),
	)
	return rec, nil
}

// IsEligible reports whether the donor may give at asOf.
func (s *Service) IsEligible(ctx context.Context, donorID id.UserID, asOf time.Time) (bool, error) {
	rec, err := s.records.FindByUser(ctx, donorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return true, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load health record")
	}
	return rec.IsEligible(asOf), nil
}

// ListEligibleDonors returns donor-role users whose window has closed by
// asOf, or who have never donated.
func (s *Service) ListEligibleDonors(ctx context.Context, asOf time.Time) (donors []*usermodels.User, err error) {
	ctx, span := tracer.Start(ctx, "eligibility.ListEligibleDonors")
	defer func() { tracing.End(span, err) }()

	all, err := s.users.FindByRole(ctx, usermodels.RoleDonor)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	ids := make([]id.UserID, len(all))
	for i, u := range all {
		ids[i] = u.ID
	}
	records, err := s.records.FindByUsers(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load health records")
	}

	donors = make([]*usermodels.User, 0, len(all))
	for _, u := range all {
		if records[u.ID].IsEligible(asOf) {
			donors = append(donors, u)
		}
	}
	span.SetAttributes(attribute.Int("eligible", len(donors)))
	return donors, nil
}

// CreateHealthRecord registers an empty record for a new donor. Each user has
// at most one.
func (s *Service) CreateHealthRecord(ctx context.Context, userID id.UserID, medicalNotes string) (*models.HealthRecord, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	rec := models.NewHealthRecord(userID, medicalNotes, requestcontext.Now(ctx))
	if err := s.records.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "health record already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create health record")
	}
	return rec, nil
}

func (s *Service) GetHealthRecord(ctx context.Context, userID id.UserID) (*models.HealthRecord, error) {
	rec, err := s.records.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "health record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load health record")
	}
	return rec, nil
}
