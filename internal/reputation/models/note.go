package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

const (
	// ThankYouPoints is awarded to the donor for every note received.
	ThankYouPoints = 20

	maxMessageLength = 2000
)

// ThankYouNote is a patient's message to a donor about one donation. A
// patient writes at most one note per donation.
type ThankYouNote struct {
	ID         id.NoteID     `json:"id"`
	PatientID  id.UserID     `json:"patient_id"`
	DonorID    id.UserID     `json:"donor_id"`
	DonationID id.DonationID `json:"donation_id"`
	Message    string        `json:"message"`
	Anonymous  bool          `json:"anonymous"`
	CreatedAt  time.Time     `json:"created_at"`
}

func NewThankYouNote(noteID id.NoteID, patientID, donorID id.UserID, donationID id.DonationID,
	message string, anonymous bool, now time.Time) (*ThankYouNote, error) {
	if patientID.IsNil() || donorID.IsNil() || donationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "patient, donor and donation are required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "message is required")
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "message exceeds %d characters", maxMessageLength)
	}
	return &ThankYouNote{
		ID:         noteID,
		PatientID:  patientID,
		DonorID:    donorID,
		DonationID: donationID,
		Message:    message,
		Anonymous:  anonymous,
		CreatedAt:  now,
	}, nil
}

// Author returns the patient id, or the zero id for anonymous notes.
func (n *ThankYouNote) Author() id.UserID {
	if n.Anonymous {
		return id.UserID{}
	}
	return n.PatientID
}
