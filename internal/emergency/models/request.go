package models

import (
	"slices"
	"strings"
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

var urgencyBonus = map[Urgency]int{
	UrgencyLow:      0,
	UrgencyMedium:   50,
	UrgencyHigh:     100,
	UrgencyCritical: 200,
}

func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(strings.ToUpper(strings.TrimSpace(s)))
	if !u.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown urgency %q", s)
	}
	return u, nil
}

func (u Urgency) IsValid() bool {
	_, ok := urgencyBonus[u]
	return ok
}

// Bonus is the extra reputation awarded for an emergency donation.
func (u Urgency) Bonus() int {
	return urgencyBonus[u]
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestActive    RequestStatus = "ACTIVE"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestCancelled RequestStatus = "CANCELLED"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestActive, RequestCancelled},
	RequestActive:  {RequestFulfilled, RequestCancelled},
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestActive, RequestFulfilled, RequestCancelled:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestFulfilled || s == RequestCancelled
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return slices.Contains(requestTransitions[s], next)
}

// EmergencyRequest is a patient's call for blood. It is immutable once
// FULFILLED or CANCELLED.
type EmergencyRequest struct {
	ID          id.RequestID  `json:"id"`
	PatientID   id.UserID     `json:"patient_id"`
	BloodType   id.BloodType  `json:"blood_type"`
	UnitsNeeded int           `json:"units_needed"`
	Location    id.Location   `json:"location"`
	Urgency     Urgency       `json:"urgency"`
	Status      RequestStatus `json:"status"`
	Notes       string        `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewRequest validates a request. Only PENDING and ACTIVE are valid initial
// statuses.
func NewRequest(requestID id.RequestID, patientID id.UserID, bt id.BloodType, unitsNeeded int, loc id.Location,
	urgency Urgency, status RequestStatus, notes string, now time.Time,
) (*EmergencyRequest, error) {
	if patientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient is required")
	}
	if !bt.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown blood type %q", bt)
	}
	if unitsNeeded <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "units needed must be positive")
	}
	if !urgency.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown urgency %q", urgency)
	}
	if status != RequestPending && status != RequestActive {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "request cannot start as %q", status)
	}
	if err := loc.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid request location")
	}
	return &EmergencyRequest{
		ID:          requestID,
		PatientID:   patientID,
		BloodType:   bt,
		UnitsNeeded: unitsNeeded,
		Location:    loc,
		Urgency:     urgency,
		Status:      status,
		Notes:       strings.TrimSpace(notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *EmergencyRequest) IsActive() bool {
	return r.Status == RequestActive
}

// RequireActive returns CodeRequestNotActive unless the request is ACTIVE.
func (r *EmergencyRequest) RequireActive() error {
	if !r.IsActive() {
		return dErrors.Newf(dErrors.CodeRequestNotActive, "emergency request is %s", r.Status)
	}
	return nil
}

// CanTransition checks a status change. Use with ApplyStatus in Execute
// callbacks.
func (r *EmergencyRequest) CanTransition(next RequestStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "request cannot move from %s to %s", r.Status, next)
	}
	return nil
}

func (r *EmergencyRequest) ApplyStatus(next RequestStatus, now time.Time) {
	r.Status = next
	r.UpdatedAt = now
}
