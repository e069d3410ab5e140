package models

import (
	"strings"
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// Badge is granted once a user's points reach PointsRequired.
type Badge struct {
	ID             id.BadgeID `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PointsRequired int        `json:"points_required"`
}

func NewBadge(badgeID id.BadgeID, title, description string, pointsRequired int) (*Badge, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "badge title is required")
	}
	if pointsRequired < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "points required cannot be negative")
	}
	return &Badge{
		ID:             badgeID,
		Title:          title,
		Description:    strings.TrimSpace(description),
		PointsRequired: pointsRequired,
	}, nil
}

// EarnedWith reports whether a user holding points qualifies for the badge.
func (b *Badge) EarnedWith(points int) bool {
	return points >= b.PointsRequired
}

// UserBadge is unique per (user, badge).
type UserBadge struct {
	UserID    id.UserID  `json:"user_id"`
	BadgeID   id.BadgeID `json:"badge_id"`
	AwardedAt time.Time  `json:"awarded_at"`
}

// DefaultBadge describes an entry of the built-in catalog.
type DefaultBadge struct {
	Title          string
	Description    string
	PointsRequired int
}

func DefaultCatalog() []DefaultBadge {
	return []DefaultBadge{
		{Title: "First Drop", Description: "Earned your first 100 points", PointsRequired: 100},
		{Title: "Lifesaver", Description: "Reached 500 points", PointsRequired: 500},
		{Title: "Guardian", Description: "Reached 1000 points", PointsRequired: 1000},
		{Title: "Legend", Description: "Reached 2500 points", PointsRequired: 2500},
	}
}
