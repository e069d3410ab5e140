package models

import (
	"net/mail"
	"strings"
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type Role string

const (
	RoleDonor   Role = "DONOR"
	RolePatient Role = "PATIENT"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RolePatient, RoleAdmin:
		return true
	}
	return false
}

// User is a directory entry. Points is a non-negative running total that only
// the reputation engine changes.
type User struct {
	ID             id.UserID    `json:"id"`
	Email          string       `json:"email"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	BloodType      id.BloodType `json:"blood_type"`
	Location       id.Location  `json:"location"`
	Role           Role         `json:"role"`
	EmergencyOptIn bool         `json:"emergency_opt_in"`
	Points         int          `json:"points"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewUser validates invariants and returns a user with zero points.
func NewUser(userID id.UserID, email, firstName, lastName string, bloodType id.BloodType, loc id.Location, role Role, optIn bool, now time.Time) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email is invalid")
	}
	if !bloodType.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown blood type %q", bloodType)
	}
	if !role.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown role %q", role)
	}
	if err := loc.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "invalid location")
	}
	return &User{
		ID:             userID,
		Email:          email,
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		BloodType:      bloodType,
		Location:       loc,
		Role:           role,
		EmergencyOptIn: optIn,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (u *User) IsDonor() bool {
	return u.Role == RoleDonor
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
