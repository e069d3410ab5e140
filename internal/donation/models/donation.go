package models

import (
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusVerified  Status = "VERIFIED"
)

var transitions = map[Status][]Status{
	StatusScheduled: {StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusVerified, StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown donation status %q", s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusVerified:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Counts reports whether the donation still contributes units and impact.
func (s Status) Counts() bool {
	return s != StatusCancelled
}

// Donation records blood given either at a drive or against an emergency
// request, never both. RewardsApplied is set once eligibility and points have
// been applied for the donation.
type Donation struct {
	ID             id.DonationID `json:"id"`
	DonorID        id.UserID     `json:"donor_id"`
	DriveID        *id.DriveID   `json:"drive_id,omitempty"`
	RequestID      *id.RequestID `json:"request_id,omitempty"`
	BloodType      id.BloodType  `json:"blood_type"`
	Units          float64       `json:"units"`
	PointsAwarded  int           `json:"points_awarded"`
	Status         Status        `json:"status"`
	DonationDate   time.Time     `json:"donation_date"`
	RewardsApplied bool          `json:"rewards_applied"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func NewDriveDonation(donationID id.DonationID, donorID id.UserID, driveID id.DriveID, bt id.BloodType,
	units float64, status Status, donationDate, now time.Time) (*Donation, error) {
	if driveID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "drive id is required")
	}
	d, err := newDonation(donationID, donorID, bt, units, status, donationDate, now)
	if err != nil {
		return nil, err
	}
	d.DriveID = &driveID
	return d, nil
}

func NewEmergencyDonation(donationID id.DonationID, donorID id.UserID, requestID id.RequestID, bt id.BloodType,
	units float64, status Status, donationDate, now time.Time) (*Donation, error) {
	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "request id is required")
	}
	d, err := newDonation(donationID, donorID, bt, units, status, donationDate, now)
	if err != nil {
		return nil, err
	}
	d.RequestID = &requestID
	return d, nil
}

func newDonation(donationID id.DonationID, donorID id.UserID, bt id.BloodType, units float64,
	status Status, donationDate, now time.Time) (*Donation, error) {
	if donorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "donor id is required")
	}
	if !bt.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown blood type %q", bt)
	}
	if units <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "units must be positive")
	}
	if status != StatusScheduled && status != StatusCompleted {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "donation cannot start as %s", status)
	}
	if donationDate.IsZero() {
		donationDate = now
	}
	return &Donation{
		ID:           donationID,
		DonorID:      donorID,
		BloodType:    bt,
		Units:        units,
		Status:       status,
		DonationDate: donationDate.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (d *Donation) IsDriveDonation() bool {
	return d.DriveID != nil
}

// NeedsRewards reports whether the donation is COMPLETED but eligibility and
// points have not been applied yet.
func (d *Donation) NeedsRewards() bool {
	return d.Status == StatusCompleted && !d.RewardsApplied
}

// ClaimRewards marks the rewards as applied and records the points. It
// returns false when they were already claimed.
func (d *Donation) ClaimRewards(points int, now time.Time) bool {
	if !d.NeedsRewards() {
		return false
	}
	d.RewardsApplied = true
	d.PointsAwarded = points
	d.UpdatedAt = now
	return true
}

func (d *Donation) CanTransition(next Status) error {
	if !next.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown donation status %q", next)
	}
	if !d.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "donation cannot move from %s to %s", d.Status, next)
	}
	return nil
}

func (d *Donation) ApplyStatus(next Status, now time.Time) {
	d.Status = next
	d.UpdatedAt = now
}
