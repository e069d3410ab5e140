package models

import (
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type ResponseStatus string

const (
	ResponseAccepted  ResponseStatus = "ACCEPTED"
	ResponseEnRoute   ResponseStatus = "EN_ROUTE"
	ResponseArrived   ResponseStatus = "ARRIVED"
	ResponseCompleted ResponseStatus = "COMPLETED"
	ResponseCancelled ResponseStatus = "CANCELLED"
)

var nextResponseStatus = map[ResponseStatus]ResponseStatus{
	ResponseAccepted: ResponseEnRoute,
	ResponseEnRoute:  ResponseArrived,
	ResponseArrived:  ResponseCompleted,
}

func (s ResponseStatus) IsValid() bool {
	switch s {
	case ResponseAccepted, ResponseEnRoute, ResponseArrived, ResponseCompleted, ResponseCancelled:
		return true
	}
	return false
}

func (s ResponseStatus) IsTerminal() bool {
	return s == ResponseCompleted || s == ResponseCancelled
}

// CanTransitionTo allows only the next step in order, or CANCELLED from any
// non-terminal state.
func (s ResponseStatus) CanTransitionTo(next ResponseStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == ResponseCancelled {
		return true
	}
	return nextResponseStatus[s] == next
}

// EmergencyResponse is one donor's commitment to one request. At most one
// non-cancelled response exists per (donor, request).
type EmergencyResponse struct {
	ID               id.ResponseID  `json:"id"`
	RequestID        id.RequestID   `json:"request_id"`
	DonorID          id.UserID      `json:"donor_id"`
	Status           ResponseStatus `json:"status"`
	CurrentLocation  *id.Location   `json:"current_location,omitempty"`
	EstimatedArrival *time.Time     `json:"estimated_arrival,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func NewResponse(responseID id.ResponseID, requestID id.RequestID, donorID id.UserID, now time.Time) *EmergencyResponse {
	return &EmergencyResponse{
		ID:        responseID,
		RequestID: requestID,
		DonorID:   donorID,
		Status:    ResponseAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsLive reports whether the response still blocks the donor from responding
// again to the same request.
func (r *EmergencyResponse) IsLive() bool {
	return r.Status != ResponseCancelled
}

func (r *EmergencyResponse) CanAdvance(next ResponseStatus) error {
	if !next.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown response status %q", next)
	}
	if !r.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "response cannot move from %s to %s", r.Status, next)
	}
	return nil
}

func (r *EmergencyResponse) ApplyStatus(next ResponseStatus, now time.Time) {
	r.Status = next
	r.UpdatedAt = now
}

func (r *EmergencyResponse) CanUpdateLocation() error {
	if r.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeInvalidState, "response is %s", r.Status)
	}
	return nil
}

// ApplyLocation records the donor's position and the arrival estimate. Status
// is left alone.
func (r *EmergencyResponse) ApplyLocation(loc id.Location, eta time.Time, now time.Time) {
	r.CurrentLocation = &loc
	r.EstimatedArrival = &eta
	r.UpdatedAt = now
}

// EstimateArrival returns now plus the travel time over distanceKM at
// speedKMH. A non-positive speed yields now.
func EstimateArrival(distanceKM, speedKMH float64, now time.Time) time.Time {
	if speedKMH <= 0 {
		return now
	}
	return now.Add(time.Duration(distanceKM / speedKMH * float64(time.Hour)))
}
