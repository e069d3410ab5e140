package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lifeline/internal/compatibility"
	"lifeline/internal/emergency/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/platform/tracing"
	"lifeline/pkg/requestcontext"
)

// Coordinator tracks donors from accepting a request to completing it.
type Coordinator struct {
	responses ResponseStore
	requests  RequestStore
	donors    DonorDirectory
	options
}

func NewCoordinator(responses ResponseStore, requests RequestStore, donors DonorDirectory, opts ...Option) *Coordinator {
	return &Coordinator{responses: responses, requests: requests, donors: donors, options: newOptions(opts)}
}

func responseKey(donorID id.UserID, requestID id.RequestID) string {
	return "response:" + donorID.String() + ":" + requestID.String()
}

// CreateResponse records that donorID is answering requestID. The request
// must be ACTIVE and the donor's blood compatible; a donor holds at most one
// live response per request, and a repeat is refused before the request's
// status is checked.
func (c *Coordinator) CreateResponse(ctx context.Context, donorID id.UserID, requestID id.RequestID) (resp *models.EmergencyResponse, err error) {
	ctx, span := tracer.Start(ctx, "emergency.CreateResponse", trace.WithAttributes(
		attribute.String("donor_id", donorID.String()),
		attribute.String("request_id", requestID.String()),
	))
	defer func() { tracing.End(span, err) }()

	unlock, err := c.locker.Lock(ctx, responseKey(donorID, requestID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	req, err := c.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to load emergency request")
	}
	// A repeat answer is reported as such even once the request has closed.
	existing, err := c.responses.ListByDonorAndRequest(ctx, donorID, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	for _, r := range existing {
		if r.IsLive() {
			return nil, c.alreadyResponded()
		}
	}
	if err := req.RequireActive(); err != nil {
		return nil, err
	}
	donor, err := c.donors.FindByID(ctx, donorID)
	if err != nil {
		return nil, wrapErr(err, "donor", "failed to load donor")
	}
	if !donor.IsDonor() {
		return nil, dErrors.New(dErrors.CodeValidation, "user is not a donor")
	}
	ok, err := compatibility.CanDonate(donor.BloodType, req.BloodType)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeIncompatibleType, "%s cannot donate to %s", donor.BloodType, req.BloodType)
	}

	now := requestcontext.Now(ctx)
	resp = models.NewResponse(id.ResponseID(uuid.New()), requestID, donorID, now)
	resp.ApplyLocation(donor.Location,
		models.EstimateArrival(donor.Location.DistanceKM(req.Location), c.averageSpeedKMH, now), now)

	if err := c.responses.CreateIfNoActive(ctx, resp); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, c.alreadyResponded()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create response")
	}

	c.metrics.IncrementResponseCreated()
	c.logAudit(ctx, audit.EventResponseCreated,
		"user_id", donorID.String(),
		"subject", requestID.String(),
	)
	return resp, nil
}

func (c *Coordinator) alreadyResponded() error {
	c.metrics.IncrementDuplicateResponse()
	return dErrors.New(dErrors.CodeAlreadyResponded, "donor has already responded to this request")
}

// UpdateLocation moves a live response's position and recomputes the arrival
// estimate. Status is unchanged.
func (c *Coordinator) UpdateLocation(ctx context.Context, responseID id.ResponseID, lat, lon float64) (*models.EmergencyResponse, error) {
	loc, err := id.NewLocation(lat, lon)
	if err != nil {
		return nil, err
	}
	current, err := c.responses.FindByID(ctx, responseID)
	if err != nil {
		return nil, wrapErr(err, "emergency response", "failed to load response")
	}
	req, err := c.requests.FindByID(ctx, current.RequestID)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to load emergency request")
	}

	now := requestcontext.Now(ctx)
	eta := models.EstimateArrival(loc.DistanceKM(req.Location), c.averageSpeedKMH, now)
	resp, err := c.responses.Execute(ctx, responseID,
		func(r *models.EmergencyResponse) error {
			return r.CanUpdateLocation()
		},
		func(r *models.EmergencyResponse) {
			r.ApplyLocation(loc, eta, now)
		},
	)
	if err != nil {
		return nil, wrapErr(err, "emergency response", "failed to update response location")
	}
	return resp, nil
}

// AdvanceStatus moves a response to the next state in order, or to CANCELLED.
// Progress (anything but cancelling) is refused once the request itself has
// been cancelled.
func (c *Coordinator) AdvanceStatus(ctx context.Context, responseID id.ResponseID, next models.ResponseStatus) (resp *models.EmergencyResponse, err error) {
	ctx, span := tracer.Start(ctx, "emergency.AdvanceStatus", trace.WithAttributes(
		attribute.String("response_id", responseID.String()),
		attribute.String("next", string(next)),
	))
	defer func() { tracing.End(span, err) }()

	current, err := c.responses.FindByID(ctx, responseID)
	if err != nil {
		return nil, wrapErr(err, "emergency response", "failed to load response")
	}
	req, err := c.requests.FindByID(ctx, current.RequestID)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to load emergency request")
	}

	now := requestcontext.Now(ctx)
	resp, err = c.responses.Execute(ctx, responseID,
		func(r *models.EmergencyResponse) error {
			if err := r.CanAdvance(next); err != nil {
				return err
			}
			if next != models.ResponseCancelled && req.Status == models.RequestCancelled {
				return dErrors.New(dErrors.CodeRequestNotActive, "emergency request was cancelled")
			}
			return nil
		},
		func(r *models.EmergencyResponse) {
			r.ApplyStatus(next, now)
		},
	)
	if err != nil {
		return nil, wrapErr(err, "emergency response", "failed to update response status")
	}

	c.logAudit(ctx, audit.EventResponseStatusChanged,
		"user_id", resp.DonorID.String(),
		"subject", resp.RequestID.String(),
		"reason", string(next),
	)
	return resp, nil
}

func (c *Coordinator) GetResponse(ctx context.Context, responseID id.ResponseID) (*models.EmergencyResponse, error) {
	resp, err := c.responses.FindByID(ctx, responseID)
	if err != nil {
		return nil, wrapErr(err, "emergency response", "failed to load response")
	}
	return resp, nil
}

func (c *Coordinator) ListResponsesByRequest(ctx context.Context, requestID id.RequestID) ([]*models.EmergencyResponse, error) {
	out, err := c.responses.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	return out, nil
}

func (c *Coordinator) ListResponsesByDonor(ctx context.Context, donorID id.UserID) ([]*models.EmergencyResponse, error) {
	out, err := c.responses.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	return out, nil
}

// HasCompletedResponse reports whether donorID finished a response to
// requestID, the precondition for recording an emergency donation.
func (c *Coordinator) HasCompletedResponse(ctx context.Context, donorID id.UserID, requestID id.RequestID) (bool, error) {
	responses, err := c.responses.ListByDonorAndRequest(ctx, donorID, requestID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list responses")
	}
	for _, r := range responses {
		if r.Status == models.ResponseCompleted {
			return true, nil
		}
	}
	return false, nil
}
