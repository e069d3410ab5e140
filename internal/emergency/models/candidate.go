package models

import (
	usermodels "lifeline/internal/users/models"
)

// Candidate is a donor who can serve a request, with their distance to it.
type Candidate struct {
	Donor      *usermodels.User `json:"donor"`
	DistanceKM float64          `json:"distance_km"`
}
