// Package service is the drive capacity manager. Every change to a drive's
// donor count goes through the store's Execute so the capacity check and the
// increment are one atomic unit per drive.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	drivemetrics "lifeline/internal/drive/metrics"
	"lifeline/internal/drive/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/platform/tracing"
	"lifeline/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DriveStore

var tracer = otel.Tracer("lifeline/drive")

type DriveStore interface {
	Create(ctx context.Context, drive *models.Drive) error
	FindByID(ctx context.Context, driveID id.DriveID) (*models.Drive, error)
	List(ctx context.Context) ([]*models.Drive, error)
	ListByOrganizer(ctx context.Context, organizerID id.UserID) ([]*models.Drive, error)
	ListByBloodType(ctx context.Context, bt id.BloodType) ([]*models.Drive, error)
	Execute(ctx context.Context, driveID id.DriveID, validate func(*models.Drive) error, mutate func(*models.Drive)) (*models.Drive, error)
}

type Service struct {
	drives         DriveStore
	logger         *slog.Logger
	auditPublisher audit.Emitter
	metrics        *drivemetrics.Metrics
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

func WithMetrics(m *drivemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(drives DriveStore, opts ...Option) *Service {
	s := &Service{drives: drives}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDriveInput carries caller-supplied drive fields. RequiredBloodTypes
// accepts any spelling ParseBloodType does; blanks and duplicates are dropped.
type CreateDriveInput struct {
	OrganizerID        id.UserID
	Title              string
	Description        string
	Location           id.Location
	StartDate          time.Time
	EndDate            time.Time
	RequiredBloodTypes []string
	MaxCapacity        int
}

func (s *Service) CreateDrive(ctx context.Context, in CreateDriveInput) (*models.Drive, error) {
	bloodTypes, err := id.ParseBloodTypes(in.RequiredBloodTypes)
	if err != nil {
		return nil, err
	}
	d, err := models.NewDrive(id.DriveID(uuid.New()), in.OrganizerID, in.Title, in.Description, in.Location,
		in.StartDate, in.EndDate, bloodTypes, in.MaxCapacity, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := s.drives.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create drive")
	}
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDriveCreated,
		"user_id", d.OrganizerID.String(),
		"subject", d.ID.String(),
	)
	return d, nil
}

// GetDrive returns the drive with its status evaluated at the request time.
func (s *Service) GetDrive(ctx context.Context, driveID id.DriveID) (*models.Drive, error) {
	d, err := s.drives.FindByID(ctx, driveID)
	if err != nil {
		return nil, wrapDriveErr(err, "failed to load drive")
	}
	d.Refresh(requestcontext.Now(ctx))
	return d, nil
}

// Register takes one donor slot. It fails with CodeInvalidState unless the
// drive is ACTIVE and with CodeCapacityExceeded when every slot is taken.
func (s *Service) Register(ctx context.Context, driveID id.DriveID) (d *models.Drive, err error) {
	ctx, span := tracer.Start(ctx, "drive.Register",
		trace.WithAttributes(attribute.String("drive_id", driveID.String())))
	defer func() { tracing.End(span, err) }()
	defer s.metrics.ObserveRegister(time.Now())

	now := requestcontext.Now(ctx)
	d, err = s.drives.Execute(ctx, driveID,
		func(d *models.Drive) error {
			return d.CanRegister(now)
		},
		func(d *models.Drive) {
			d.ApplyRegistration(now)
		},
	)
	if err != nil {
		if dErrors.IsInvalidState(err) {
			s.metrics.IncrementRejected(string(dErrors.CodeOf(err)))
			audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDriveRegistrationRejected,
				"subject", driveID.String(),
				"reason", err.Error(),
			)
		}
		return nil, wrapDriveErr(err, "failed to register for drive")
	}
	s.metrics.IncrementRegistration()
	span.SetAttributes(attribute.Int("current_donors", d.CurrentDonors))
	return d, nil
}

// Unregister releases one slot. The count never drops below zero.
func (s *Service) Unregister(ctx context.Context, driveID id.DriveID) (*models.Drive, error) {
	now := requestcontext.Now(ctx)
	d, err := s.drives.Execute(ctx, driveID,
		func(*models.Drive) error { return nil },
		func(d *models.Drive) {
			d.ApplyUnregistration(now)
		},
	)
	if err != nil {
		return nil, wrapDriveErr(err, "failed to release drive slot")
	}
	s.metrics.IncrementUnregistration()
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDriveRegistrationReleased,
		"subject", driveID.String(),
	)
	return d, nil
}

// OverrideStatus applies an administrative status that holds until the next
// override. Only forward transitions are allowed.
func (s *Service) OverrideStatus(ctx context.Context, driveID id.DriveID, next models.Status) (*models.Drive, error) {
	now := requestcontext.Now(ctx)
	d, err := s.drives.Execute(ctx, driveID,
		func(d *models.Drive) error {
			return d.CanOverride(next, now)
		},
		func(d *models.Drive) {
			d.ApplyOverride(next, now)
		},
	)
	if err != nil {
		return nil, wrapDriveErr(err, "failed to override drive status")
	}
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDriveStatusOverridden,
		"user_id", requestcontext.ActorID(ctx).String(),
		"subject", driveID.String(),
		"reason", string(next),
	)
	return d, nil
}

func (s *Service) CancelDrive(ctx context.Context, driveID id.DriveID) (*models.Drive, error) {
	return s.OverrideStatus(ctx, driveID, models.StatusCancelled)
}

// ListDrives returns drives ordered by start date, optionally only those whose
// current status is status.
func (s *Service) ListDrives(ctx context.Context, status *models.Status) ([]*models.Drive, error) {
	drives, err := s.drives.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drives")
	}
	return s.refresh(ctx, drives, status), nil
}

// ListDrivesByBloodType returns drives that ask for bt explicitly.
func (s *Service) ListDrivesByBloodType(ctx context.Context, bt id.BloodType) ([]*models.Drive, error) {
	if !bt.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown blood type %q", bt)
	}
	drives, err := s.drives.ListByBloodType(ctx, bt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drives")
	}
	return s.refresh(ctx, drives, nil), nil
}

func (s *Service) ListDrivesByOrganizer(ctx context.Context, organizerID id.UserID) ([]*models.Drive, error) {
	drives, err := s.drives.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drives")
	}
	return s.refresh(ctx, drives, nil), nil
}

func (s *Service) refresh(ctx context.Context, drives []*models.Drive, status *models.Status) []*models.Drive {
	now := requestcontext.Now(ctx)
	out := drives[:0]
	for _, d := range drives {
		d.Refresh(now)
		if status == nil || d.Status == *status {
			out = append(out, d)
		}
	}
	return out
}

func wrapDriveErr(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "drive not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeCapacityExceeded, "drive is at full capacity")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
