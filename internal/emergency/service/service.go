// Package service holds the emergency request lifecycle, the donor matcher and
// the response coordinator.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	emergencymetrics "lifeline/internal/emergency/metrics"
	"lifeline/internal/emergency/models"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/keylock"
	"lifeline/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RequestStore,ResponseStore,DonorDirectory,EligibilityChecker,Notifier

var tracer = otel.Tracer("lifeline/emergency")

// DefaultAverageSpeedKMH is the travel speed assumed for arrival estimates.
const DefaultAverageSpeedKMH = 30.0

type RequestStore interface {
	Create(ctx context.Context, req *models.EmergencyRequest) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.EmergencyRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus, bt *id.BloodType) ([]*models.EmergencyRequest, error)
	ListByPatient(ctx context.Context, patientID id.UserID) ([]*models.EmergencyRequest, error)
	Execute(ctx context.Context, requestID id.RequestID, validate func(*models.EmergencyRequest) error, mutate func(*models.EmergencyRequest)) (*models.EmergencyRequest, error)
}

type ResponseStore interface {
	CreateIfNoActive(ctx context.Context, resp *models.EmergencyResponse) error
	FindByID(ctx context.Context, responseID id.ResponseID) (*models.EmergencyResponse, error)
	ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.EmergencyResponse, error)
	ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.EmergencyResponse, error)
	ListByDonorAndRequest(ctx context.Context, donorID id.UserID, requestID id.RequestID) ([]*models.EmergencyResponse, error)
	Execute(ctx context.Context, responseID id.ResponseID, validate func(*models.EmergencyResponse) error, mutate func(*models.EmergencyResponse)) (*models.EmergencyResponse, error)
}

type DonorDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (*usermodels.User, error)
	FindDonorsOptedIn(ctx context.Context, bloodType *id.BloodType) ([]*usermodels.User, error)
}

type EligibilityChecker interface {
	IsEligible(ctx context.Context, donorID id.UserID, asOf time.Time) (bool, error)
}

// Notifier is fire-and-forget from the engine's point of view: errors are
// logged and never undo the operation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

type options struct {
	logger           *slog.Logger
	auditPublisher   audit.Emitter
	metrics          *emergencymetrics.Metrics
	notifier         Notifier
	locker           keylock.Locker
	averageSpeedKMH  float64
	matchConcurrency int
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(o *options) {
		o.auditPublisher = publisher
	}
}

func WithMetrics(m *emergencymetrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithLocker replaces the in-process key lock, e.g. with a Redis lock shared
// by several instances.
func WithLocker(l keylock.Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

func WithAverageSpeed(kmh float64) Option {
	return func(o *options) {
		if kmh > 0 {
			o.averageSpeedKMH = kmh
		}
	}
}

// WithMatchConcurrency bounds the eligibility lookups FindCandidates runs at once.
func WithMatchConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.matchConcurrency = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		averageSpeedKMH:  DefaultAverageSpeedKMH,
		matchConcurrency: 8,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = keylock.NewSharded()
	}
	return o
}

func (o *options) logAudit(ctx context.Context, event audit.AuditEvent, attrs ...any) {
	audit.LogAudit(ctx, o.logger, o.auditPublisher, event, attrs...)
}

func wrapErr(err error, entity, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", entity)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
