// Package service records donations and applies their consequences: drive
// capacity, emergency fulfillment, eligibility cooldown and reputation points.
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

	"lifeline/internal/compatibility"
	donationmetrics "lifeline/internal/donation/metrics"
	"lifeline/internal/donation/models"
	drivemodels "lifeline/internal/drive/models"
	eligibilitymodels "lifeline/internal/eligibility/models"
	emergencymodels "lifeline/internal/emergency/models"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/keylock"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/platform/tracing"
	txcontext "lifeline/pkg/platform/tx"
	"lifeline/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks DonationStore,DonorDirectory,DriveRegistrar,EligibilityRecorder,PointsAwarder,RequestLedger,ResponseVerifier

var tracer = otel.Tracer("lifeline/donation")

const (
	DriveDonationPoints     = 100
	EmergencyDonationPoints = 150
)

type DonationStore interface {
	Create(ctx context.Context, d *models.Donation) error
	Delete(ctx context.Context, donationID id.DonationID) error
	FindByID(ctx context.Context, donationID id.DonationID) (*models.Donation, error)
	ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.Donation, error)
	ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Donation, error)
	ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Donation, error)
	SumUnitsByRequest(ctx context.Context, requestID id.RequestID) (float64, error)
	Execute(ctx context.Context, donationID id.DonationID, validate func(*models.Donation) error, mutate func(*models.Donation)) (*models.Donation, error)
}

// DriveRegistrar takes and releases drive slots.
type DriveRegistrar interface {
	Register(ctx context.Context, driveID id.DriveID) (*drivemodels.Drive, error)
	Unregister(ctx context.Context, driveID id.DriveID) (*drivemodels.Drive, error)
}

type RequestLedger interface {
	GetRequest(ctx context.Context, requestID id.RequestID) (*emergencymodels.EmergencyRequest, error)
	FulfillRequest(ctx context.Context, requestID id.RequestID) (*emergencymodels.EmergencyRequest, error)
}

type ResponseVerifier interface {
	HasCompletedResponse(ctx context.Context, donorID id.UserID, requestID id.RequestID) (bool, error)
}

type EligibilityRecorder interface {
	RecordDonation(ctx context.Context, donorID id.UserID, donationDate time.Time) (*eligibilitymodels.HealthRecord, error)
}

type DonorDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (*usermodels.User, error)
}

type PointsAwarder interface {
	AwardPoints(ctx context.Context, userID id.UserID, amount int) (int, error)
}

type Service struct {
	donations   DonationStore
	drives      DriveRegistrar
	requests    RequestLedger
	responses   ResponseVerifier
	eligibility EligibilityRecorder
	donors      DonorDirectory
	points      PointsAwarder

	logger         *slog.Logger
	auditPublisher audit.Emitter
	metrics        *donationmetrics.Metrics
	locker         keylock.Locker
	transactor     txcontext.Beginner
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

func WithMetrics(m *donationmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker replaces the in-process lock that serialises fulfillment
// accounting per request.
func WithLocker(l keylock.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithTransactor runs each recording as one database transaction. Without
// it, a failed recording is rolled back step by step.
func WithTransactor(db txcontext.Beginner) Option {
	return func(s *Service) {
		s.transactor = db
	}
}

// Deps groups the collaborators a Service needs.
type Deps struct {
	Donations   DonationStore
	Drives      DriveRegistrar
	Requests    RequestLedger
	Responses   ResponseVerifier
	Eligibility EligibilityRecorder
	Donors      DonorDirectory
	Points      PointsAwarder
}

func New(deps Deps, opts ...Option) *Service {
	s := &Service{
		donations:   deps.Donations,
		drives:      deps.Drives,
		requests:    deps.Requests,
		responses:   deps.Responses,
		eligibility: deps.Eligibility,
		donors:      deps.Donors,
		points:      deps.Points,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locker == nil {
		s.locker = keylock.NewSharded()
	}
	return s
}

// DonationInput carries the caller-supplied part of a donation. Status
// defaults to COMPLETED, DonationDate to now and BloodType to the donor's.
type DonationInput struct {
	BloodType    string
	Units        float64
	Status       models.Status
	DonationDate time.Time
}

func (in DonationInput) resolve(donor *usermodels.User) (id.BloodType, models.Status, error) {
	bt := donor.BloodType
	if in.BloodType != "" {
		parsed, err := id.ParseBloodType(in.BloodType)
		if err != nil {
			return "", "", err
		}
		bt = parsed
	}
	status := in.Status
	if status == "" {
		status = models.StatusCompleted
	}
	return bt, status, nil
}

// CreateDriveDonation takes a slot at an ACTIVE drive and records the
// donation. Nothing is kept when any step fails: the slot is released and no
// donation, cooldown or points remain.
func (s *Service) CreateDriveDonation(ctx context.Context, donorID id.UserID, driveID id.DriveID, in DonationInput) (d *models.Donation, err error) {
	ctx, span := tracer.Start(ctx, "donation.CreateDriveDonation", trace.WithAttributes(
		attribute.String("donor_id", donorID.String()),
		attribute.String("drive_id", driveID.String()),
	))
	defer func() { tracing.End(span, err) }()

	donor, err := s.loadDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	bt, status, err := in.resolve(donor)
	if err != nil {
		return nil, err
	}
	d, err = models.NewDriveDonation(id.DonationID(uuid.New()), donorID, driveID, bt, in.Units, status, in.DonationDate, requestcontext.Now(ctx))
	if err != nil {
		return nil, asValidation(err)
	}

	err = s.unitOfWork(ctx, func(ctx context.Context, undo *txcontext.Undo) error {
		if _, err := s.drives.Register(ctx, driveID); err != nil {
			return err
		}
		undo.Add(func(ctx context.Context) error {
			_, err := s.drives.Unregister(ctx, driveID)
			return err
		})
		if err := s.save(ctx, d, undo); err != nil {
			return err
		}
		settled, err := s.settle(ctx, d, DriveDonationPoints)
		if err != nil {
			return err
		}
		d = settled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorded(ctx, d, "drive")
	return d, nil
}

// CreateEmergencyDonation records blood given against an ACTIVE request by a
// compatible donor who completed a response to it. Accounting is serialised
// per request: once the non-cancelled units reach UnitsNeeded the request is
// fulfilled.
func (s *Service) CreateEmergencyDonation(ctx context.Context, donorID id.UserID, requestID id.RequestID, in DonationInput) (d *models.Donation, err error) {
	ctx, span := tracer.Start(ctx, "donation.CreateEmergencyDonation", trace.WithAttributes(
		attribute.String("donor_id", donorID.String()),
		attribute.String("request_id", requestID.String()),
	))
	defer func() { tracing.End(span, err) }()

	unlock, err := s.locker.Lock(ctx, "fulfillment:"+requestID.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := req.RequireActive(); err != nil {
		return nil, err
	}
	donor, err := s.loadDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	ok, err := compatibility.CanDonate(donor.BloodType, req.BloodType)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeIncompatibleType, "%s cannot donate to %s", donor.BloodType, req.BloodType)
	}
	completed, err := s.responses.HasCompletedResponse(ctx, donorID, requestID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, dErrors.New(dErrors.CodeInvalidState, "donor has no completed response for this request")
	}

	bt, status, err := in.resolve(donor)
	if err != nil {
		return nil, err
	}
	d, err = models.NewEmergencyDonation(id.DonationID(uuid.New()), donorID, requestID, bt, in.Units, status, in.DonationDate, requestcontext.Now(ctx))
	if err != nil {
		return nil, asValidation(err)
	}

	// Fulfillment stays last so the earlier steps can still be undone.
	err = s.unitOfWork(ctx, func(ctx context.Context, undo *txcontext.Undo) error {
		if err := s.save(ctx, d, undo); err != nil {
			return err
		}
		settled, err := s.settle(ctx, d, EmergencyDonationPoints+req.Urgency.Bonus())
		if err != nil {
			return err
		}
		d = settled

		total, err := s.donations.SumUnitsByRequest(ctx, requestID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to total donated units")
		}
		span.SetAttributes(attribute.Float64("units_total", total))
		if total >= float64(req.UnitsNeeded) {
			if _, err := s.requests.FulfillRequest(ctx, requestID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorded(ctx, d, "emergency")
	return d, nil
}

// UpdateStatus moves a donation through its lifecycle. Entering COMPLETED
// applies eligibility and points once; cancelling a drive donation releases
// its slot. Points already awarded are kept. A failure leaves the donation in
// its previous status.
func (s *Service) UpdateStatus(ctx context.Context, donationID id.DonationID, next models.Status) (d *models.Donation, err error) {
	ctx, span := tracer.Start(ctx, "donation.UpdateStatus", trace.WithAttributes(
		attribute.String("donation_id", donationID.String()),
		attribute.String("next", string(next)),
	))
	defer func() { tracing.End(span, err) }()

	current, err := s.donations.FindByID(ctx, donationID)
	if err != nil {
		return nil, wrapErr(err, "failed to load donation")
	}

	now := requestcontext.Now(ctx)
	var rewarded bool
	err = s.unitOfWork(ctx, func(ctx context.Context, undo *txcontext.Undo) error {
		var release bool
		updated, err := s.donations.Execute(ctx, donationID,
			func(d *models.Donation) error {
				return d.CanTransition(next)
			},
			func(d *models.Donation) {
				d.ApplyStatus(next, now)
				release = next == models.StatusCancelled && d.IsDriveDonation()
			},
		)
		if err != nil {
			return wrapErr(err, "failed to update donation status")
		}
		undo.Add(func(ctx context.Context) error {
			_, err := s.donations.Execute(ctx, donationID,
				func(*models.Donation) error { return nil },
				func(d *models.Donation) { d.ApplyStatus(current.Status, current.UpdatedAt) },
			)
			return err
		})

		if release {
			if _, err := s.drives.Unregister(ctx, *updated.DriveID); err != nil {
				return err
			}
		}
		if updated.NeedsRewards() {
			points, err := s.pointsFor(ctx, updated)
			if err != nil {
				return err
			}
			if updated, err = s.settle(ctx, updated, points); err != nil {
				return err
			}
			rewarded = true
		}
		d = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDonationStatusChanged,
		"user_id", d.DonorID.String(),
		"subject", d.ID.String(),
		"reason", string(next),
	)
	if next == models.StatusCancelled {
		s.metrics.IncrementCancelled()
	}
	if rewarded {
		s.metrics.AddPoints(d.PointsAwarded)
	}
	return d, nil
}

func (s *Service) GetDonation(ctx context.Context, donationID id.DonationID) (*models.Donation, error) {
	d, err := s.donations.FindByID(ctx, donationID)
	if err != nil {
		return nil, wrapErr(err, "failed to load donation")
	}
	return d, nil
}

func (s *Service) ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.Donation, error) {
	out, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return out, nil
}

func (s *Service) ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Donation, error) {
	out, err := s.donations.ListByDrive(ctx, driveID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return out, nil
}

func (s *Service) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Donation, error) {
	out, err := s.donations.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return out, nil
}

// DonorStats summarises donorID's history alongside their current points.
func (s *Service) DonorStats(ctx context.Context, donorID id.UserID) (models.Stats, error) {
	donor, err := s.loadDonor(ctx, donorID)
	if err != nil {
		return models.Stats{}, err
	}
	donations, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		return models.Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return models.ComputeStats(donations, donor.Points), nil
}

func (s *Service) loadDonor(ctx context.Context, donorID id.UserID) (*usermodels.User, error) {
	if donorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "donor id is required")
	}
	donor, err := s.donors.FindByID(ctx, donorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	if !donor.IsDonor() {
		return nil, dErrors.New(dErrors.CodeValidation, "user is not a donor")
	}
	return donor, nil
}

func (s *Service) pointsFor(ctx context.Context, d *models.Donation) (int, error) {
	if d.IsDriveDonation() {
		return DriveDonationPoints, nil
	}
	req, err := s.requests.GetRequest(ctx, *d.RequestID)
	if err != nil {
		return 0, err
	}
	return EmergencyDonationPoints + req.Urgency.Bonus(), nil
}

func (s *Service) unitOfWork(ctx context.Context, fn func(ctx context.Context, undo *txcontext.Undo) error) error {
	return txcontext.RunOrUndo(ctx, s.transactor, fn, func(err error) {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to roll back donation", "error", err)
		}
	})
}

func (s *Service) save(ctx context.Context, d *models.Donation, undo *txcontext.Undo) error {
	if err := s.donations.Create(ctx, d); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save donation")
	}
	donationID := d.ID
	undo.Add(func(ctx context.Context) error {
		return s.donations.Delete(ctx, donationID)
	})
	return nil
}

// settle awards points and opens the cooldown window for a COMPLETED donation
// that has not had them yet, then marks them applied. Points are awarded
// before anything else is written.
func (s *Service) settle(ctx context.Context, d *models.Donation, points int) (*models.Donation, error) {
	if !d.NeedsRewards() {
		return d, nil
	}
	if points > 0 {
		if _, err := s.points.AwardPoints(ctx, d.DonorID, points); err != nil {
			return nil, err
		}
	}
	if _, err := s.eligibility.RecordDonation(ctx, d.DonorID, d.DonationDate); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	settled, err := s.donations.Execute(ctx, d.ID,
		func(cur *models.Donation) error {
			if !cur.NeedsRewards() {
				return dErrors.New(dErrors.CodeInvalidState, "donation rewards already applied")
			}
			return nil
		},
		func(cur *models.Donation) { cur.ClaimRewards(points, now) },
	)
	if err != nil {
		return nil, wrapErr(err, "failed to mark donation rewards applied")
	}
	return settled, nil
}

func (s *Service) recorded(ctx context.Context, d *models.Donation, kind string) {
	s.metrics.IncrementRecorded(kind, d.BloodType.String(), d.Units)
	if d.RewardsApplied {
		s.metrics.AddPoints(d.PointsAwarded)
	}
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDonationRecorded,
		"user_id", d.DonorID.String(),
		"subject", d.ID.String(),
		"reason", kind,
	)
}

func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}

func wrapErr(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "donation not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
