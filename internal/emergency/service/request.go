package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lifeline/internal/emergency/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/tracing"
	"lifeline/pkg/requestcontext"
)

// RequestService manages the emergency request lifecycle.
type RequestService struct {
	requests RequestStore
	options
}

func NewRequestService(requests RequestStore, opts ...Option) *RequestService {
	return &RequestService{requests: requests, options: newOptions(opts)}
}

// CreateRequestInput carries caller-supplied fields. Status may be PENDING or
// ACTIVE and defaults to ACTIVE.
type CreateRequestInput struct {
	PatientID   id.UserID
	BloodType   string
	UnitsNeeded int
	Location    id.Location
	Urgency     string
	Status      string
	Notes       string
}

func (s *RequestService) CreateRequest(ctx context.Context, in CreateRequestInput) (req *models.EmergencyRequest, err error) {
	ctx, span := tracer.Start(ctx, "emergency.CreateRequest")
	defer func() { tracing.End(span, err) }()

	bt, err := id.ParseBloodType(in.BloodType)
	if err != nil {
		return nil, err
	}
	urgency, err := models.ParseUrgency(in.Urgency)
	if err != nil {
		return nil, err
	}
	status := models.RequestActive
	if strings.TrimSpace(in.Status) != "" {
		status = models.RequestStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	}

	req, err = models.NewRequest(id.RequestID(uuid.New()), in.PatientID, bt, in.UnitsNeeded, in.Location,
		urgency, status, in.Notes, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create emergency request")
	}
	span.SetAttributes(attribute.String("request_id", req.ID.String()))

	s.metrics.IncrementRequestCreated(string(req.Urgency))
	s.logAudit(ctx, audit.EventRequestCreated,
		"user_id", req.PatientID.String(),
		"subject", req.ID.String(),
		"reason", string(req.Urgency),
	)
	if req.IsActive() {
		s.notify(ctx, req)
	}
	return req, nil
}

// ActivateRequest moves a PENDING request to ACTIVE and alerts donors.
func (s *RequestService) ActivateRequest(ctx context.Context, requestID id.RequestID) (*models.EmergencyRequest, error) {
	req, err := s.transition(ctx, requestID, models.RequestActive)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventRequestActivated,
		"user_id", req.PatientID.String(),
		"subject", req.ID.String(),
	)
	s.notify(ctx, req)
	return req, nil
}

func (s *RequestService) CancelRequest(ctx context.Context, requestID id.RequestID) (*models.EmergencyRequest, error) {
	req, err := s.transition(ctx, requestID, models.RequestCancelled)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventRequestCancelled,
		"user_id", req.PatientID.String(),
		"subject", req.ID.String(),
	)
	return req, nil
}

// FulfillRequest marks an ACTIVE request FULFILLED. Calling it on a request
// that is already FULFILLED returns the request unchanged.
func (s *RequestService) FulfillRequest(ctx context.Context, requestID id.RequestID) (req *models.EmergencyRequest, err error) {
	ctx, span := tracer.Start(ctx, "emergency.FulfillRequest",
		trace.WithAttributes(attribute.String("request_id", requestID.String())))
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	transitioned := false
	req, err = s.requests.Execute(ctx, requestID,
		func(r *models.EmergencyRequest) error {
			if r.Status == models.RequestFulfilled {
				return nil
			}
			return r.CanTransition(models.RequestFulfilled)
		},
		func(r *models.EmergencyRequest) {
			if r.Status != models.RequestFulfilled {
				r.ApplyStatus(models.RequestFulfilled, now)
				transitioned = true
			}
		},
	)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to fulfill emergency request")
	}
	if transitioned {
		s.metrics.IncrementRequestFulfilled()
		s.logAudit(ctx, audit.EventRequestFulfilled,
			"user_id", req.PatientID.String(),
			"subject", req.ID.String(),
		)
	}
	return req, nil
}

func (s *RequestService) GetRequest(ctx context.Context, requestID id.RequestID) (*models.EmergencyRequest, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to load emergency request")
	}
	return req, nil
}

// ListActiveRequests returns ACTIVE requests, newest first, optionally only
// those for bloodType.
func (s *RequestService) ListActiveRequests(ctx context.Context, bloodType *id.BloodType) ([]*models.EmergencyRequest, error) {
	if bloodType != nil && !bloodType.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown blood type %q", *bloodType)
	}
	reqs, err := s.requests.ListByStatus(ctx, models.RequestActive, bloodType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list emergency requests")
	}
	return reqs, nil
}

func (s *RequestService) ListRequestsByPatient(ctx context.Context, patientID id.UserID) ([]*models.EmergencyRequest, error) {
	reqs, err := s.requests.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list emergency requests")
	}
	return reqs, nil
}

func (s *RequestService) transition(ctx context.Context, requestID id.RequestID, next models.RequestStatus) (*models.EmergencyRequest, error) {
	now := requestcontext.Now(ctx)
	req, err := s.requests.Execute(ctx, requestID,
		func(r *models.EmergencyRequest) error {
			return r.CanTransition(next)
		},
		func(r *models.EmergencyRequest) {
			r.ApplyStatus(next, now)
		},
	)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to update emergency request")
	}
	return req, nil
}

func (s *RequestService) notify(ctx context.Context, req *models.EmergencyRequest) {
	if s.notifier == nil {
		return
	}
	title := fmt.Sprintf("Emergency: %s blood needed", req.BloodType)
	body := fmt.Sprintf("%d unit(s) of %s needed (%s) near %.4f,%.4f",
		req.UnitsNeeded, req.BloodType, req.Urgency, req.Location.Lat, req.Location.Lon)
	if err := s.notifier.Notify(ctx, title, body); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "emergency notification failed",
				"request_id", req.ID.String(),
				"error", err,
			)
		}
		return
	}
	s.logAudit(ctx, audit.EventNotificationDispatched,
		"subject", req.ID.String(),
	)
}
