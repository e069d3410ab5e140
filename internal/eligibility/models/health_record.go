package models

import (
	"time"

	id "lifeline/pkg/domain"
)

// CooldownMonths is the minimum number of calendar months between donations.
const CooldownMonths = 3

// HealthRecord tracks a donor's eligibility window. Only the eligibility
// tracker mutates the dates.
type HealthRecord struct {
	UserID           id.UserID  `json:"user_id"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	NextEligibleDate *time.Time `json:"next_eligible_date,omitempty"`
	MedicalNotes     string     `json:"medical_notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewHealthRecord(userID id.UserID, notes string, now time.Time) *HealthRecord {
	return &HealthRecord{
		UserID:       userID,
		MedicalNotes: notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyDonation overwrites the window with one starting at donationDate.
func (h *HealthRecord) ApplyDonation(donationDate, now time.Time) {
	last := donationDate.UTC()
	next := NextEligibleDate(last)
	h.LastDonationDate = &last
	h.NextEligibleDate = &next
	h.UpdatedAt = now
}

// IsEligible is true when no window is set or asOf has reached its end.
func (h *HealthRecord) IsEligible(asOf time.Time) bool {
	if h == nil || h.NextEligibleDate == nil {
		return true
	}
	return !asOf.Before(*h.NextEligibleDate)
}

// NextEligibleDate adds CooldownMonths calendar months to d. When the target
// month is shorter the result is clamped to its last day, so Nov 30 becomes
// Feb 28 (or 29) rather than rolling into March.
func NextEligibleDate(d time.Time) time.Time {
	year, month, day := d.Date()
	target := time.Month(int(month) + CooldownMonths)
	lastDay := time.Date(year, target+1, 0, 0, 0, 0, 0, d.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, minute, sec := d.Clock()
	return time.Date(year, target, day, hour, minute, sec, d.Nanosecond(), d.Location())
}
