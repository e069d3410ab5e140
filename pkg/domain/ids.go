package domain

import (
	"github.com/google/uuid"

	dErrors "lifeline/pkg/domain-errors"
)

// Typed identifiers. Entities reference each other only through these, so a
// DriveID can never be passed where a RequestID is expected.
type (
	UserID     uuid.UUID
	DriveID    uuid.UUID
	RequestID  uuid.UUID
	ResponseID uuid.UUID
	DonationID uuid.UUID
	BadgeID    uuid.UUID
	NoteID     uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id DriveID) String() string    { return uuid.UUID(id).String() }
func (id RequestID) String() string  { return uuid.UUID(id).String() }
func (id ResponseID) String() string { return uuid.UUID(id).String() }
func (id DonationID) String() string { return uuid.UUID(id).String() }
func (id BadgeID) String() string    { return uuid.UUID(id).String() }
func (id NoteID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DriveID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ResponseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DonationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BadgeID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id NoteID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// Less orders user ids by their canonical string form. Used for deterministic
// tie-breaking.
func (id UserID) Less(other UserID) bool { return id.String() < other.String() }

// parseUUID is the single parsing rule for every id type: valid, non-nil UUID.
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, kind+" cannot be nil")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func ParseDriveID(s string) (DriveID, error) {
	u, err := parseUUID(s, "drive id")
	return DriveID(u), err
}

func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s, "request id")
	return RequestID(u), err
}

func ParseResponseID(s string) (ResponseID, error) {
	u, err := parseUUID(s, "response id")
	return ResponseID(u), err
}

func ParseDonationID(s string) (DonationID, error) {
	u, err := parseUUID(s, "donation id")
	return DonationID(u), err
}

func ParseBadgeID(s string) (BadgeID, error) {
	u, err := parseUUID(s, "badge id")
	return BadgeID(u), err
}

func ParseNoteID(s string) (NoteID, error) {
	u, err := parseUUID(s, "note id")
	return NoteID(u), err
}
