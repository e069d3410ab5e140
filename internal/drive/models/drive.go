package models

import (
	"slices"
	"strings"
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusUpcoming: {StatusActive, StatusCancelled},
	StatusActive:   {StatusCompleted, StatusCancelled},
}

// ParseStatus validates a status string from a caller.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown drive status %q", s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// StatusForWindow derives the status a drive has at now from its schedule.
func StatusForWindow(start, end, now time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.Before(end):
		return StatusActive
	default:
		return StatusCompleted
	}
}

// Drive is a scheduled donation event with a fixed number of donor slots.
//
// Invariants:
//   - 0 <= CurrentDonors <= MaxCapacity
//   - EndDate is after StartDate
//   - RequiredBloodTypes holds no duplicates; empty means any type is welcome
//   - Status follows the schedule unless StatusOverridden is set or the drive
//     was cancelled
type Drive struct {
	ID                 id.DriveID     `json:"id"`
	OrganizerID        id.UserID      `json:"organizer_id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Location           id.Location    `json:"location"`
	StartDate          time.Time      `json:"start_date"`
	EndDate            time.Time      `json:"end_date"`
	RequiredBloodTypes []id.BloodType `json:"required_blood_types"`
	MaxCapacity        int            `json:"max_capacity"`
	CurrentDonors      int            `json:"current_donors"`
	Status             Status         `json:"status"`
	StatusOverridden   bool           `json:"status_overridden"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func NewDrive(driveID id.DriveID, organizerID id.UserID, title, description string, loc id.Location,
	start, end time.Time, bloodTypes []id.BloodType, maxCapacity int, now time.Time,
) (*Drive, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "drive title is required")
	}
	if organizerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organizer is required")
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "drive must end after it starts")
	}
	if maxCapacity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "max capacity must be positive")
	}
	if err := loc.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid drive location")
	}
	required := make([]id.BloodType, 0, len(bloodTypes))
	for _, bt := range bloodTypes {
		if !bt.IsValid() {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown blood type %q", bt)
		}
		if !slices.Contains(required, bt) {
			required = append(required, bt)
		}
	}
	d := &Drive{
		ID:                 driveID,
		OrganizerID:        organizerID,
		Title:              title,
		Description:        strings.TrimSpace(description),
		Location:           loc,
		StartDate:          start.UTC(),
		EndDate:            end.UTC(),
		RequiredBloodTypes: required,
		MaxCapacity:        maxCapacity,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	d.Status = StatusForWindow(d.StartDate, d.EndDate, now)
	return d, nil
}

// EffectiveStatus is the status the drive has at now.
func (d *Drive) EffectiveStatus(now time.Time) Status {
	if d.StatusOverridden || d.Status == StatusCancelled {
		return d.Status
	}
	return StatusForWindow(d.StartDate, d.EndDate, now)
}

// Refresh stores the effective status so readers see the schedule-derived value.
func (d *Drive) Refresh(now time.Time) {
	d.Status = d.EffectiveStatus(now)
}

func (d *Drive) IsFull() bool {
	return d.CurrentDonors >= d.MaxCapacity
}

func (d *Drive) RemainingCapacity() int {
	return max(d.MaxCapacity-d.CurrentDonors, 0)
}

// AcceptsBloodType reports whether donors of bt are wanted at this drive.
func (d *Drive) AcceptsBloodType(bt id.BloodType) bool {
	return len(d.RequiredBloodTypes) == 0 || slices.Contains(d.RequiredBloodTypes, bt)
}

// CanRegister checks a new donor slot can be taken at now.
// Use with ApplyRegistration in Execute callbacks.
func (d *Drive) CanRegister(now time.Time) error {
	if st := d.EffectiveStatus(now); st != StatusActive {
		return dErrors.Newf(dErrors.CodeInvalidState, "drive is %s, not accepting donors", st)
	}
	if d.IsFull() {
		return dErrors.New(dErrors.CodeCapacityExceeded, "drive is at full capacity")
	}
	return nil
}

// ApplyRegistration takes one slot. Must only be called after CanRegister.
func (d *Drive) ApplyRegistration(now time.Time) {
	d.CurrentDonors++
	d.Refresh(now)
	d.UpdatedAt = now
}

// ApplyUnregistration releases one slot; the count never goes below zero.
func (d *Drive) ApplyUnregistration(now time.Time) {
	if d.CurrentDonors > 0 {
		d.CurrentDonors--
	}
	d.Refresh(now)
	d.UpdatedAt = now
}

// CanOverride checks an administrative status change. Re-applying the current
// status is allowed and pins it against the schedule.
func (d *Drive) CanOverride(next Status, now time.Time) error {
	if !next.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown drive status %q", next)
	}
	current := d.EffectiveStatus(now)
	if current == next {
		return nil
	}
	if !current.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "drive cannot move from %s to %s", current, next)
	}
	return nil
}

// ApplyOverride sets and pins the status. Must only be called after CanOverride.
func (d *Drive) ApplyOverride(next Status, now time.Time) {
	d.Status = next
	d.StatusOverridden = true
	d.UpdatedAt = now
}
