package audit

import (
	"context"
	"time"

	id "lifeline/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so stores can
// apply different retention.
type EventCategory string

const (
	// CategoryLedger covers facts that change a donor's record: donations,
	// points, badges, eligibility. These are kept for the lifetime of the donor.
	CategoryLedger EventCategory = "ledger"

	// CategoryOperations covers coordination events useful for debugging:
	// responses, registrations, notifications. These can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Subject   string
	Action    string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	// Donation lifecycle
	EventDonationRecorded      AuditEvent = "donation_recorded"
	EventDonationStatusChanged AuditEvent = "donation_status_changed"
	EventEligibilityUpdated    AuditEvent = "eligibility_updated"

	// Reputation
	EventPointsAwarded   AuditEvent = "points_awarded"
	EventBadgeGranted    AuditEvent = "badge_granted"
	EventThankYouCreated AuditEvent = "thank_you_created"

	// Emergency coordination
	EventRequestCreated         AuditEvent = "request_created"
	EventRequestActivated       AuditEvent = "request_activated"
	EventRequestCancelled       AuditEvent = "request_cancelled"
	EventRequestFulfilled       AuditEvent = "request_fulfilled"
	EventResponseCreated        AuditEvent = "response_created"
	EventResponseStatusChanged  AuditEvent = "response_status_changed"
	EventNotificationDispatched AuditEvent = "notification_dispatched"

	// Drives
	EventDriveCreated              AuditEvent = "drive_created"
	EventDriveStatusOverridden     AuditEvent = "drive_status_overridden"
	EventDriveRegistrationRejected AuditEvent = "drive_registration_rejected"
	EventDriveRegistrationReleased AuditEvent = "drive_registration_released"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDonationRecorded:      CategoryLedger,
	EventDonationStatusChanged: CategoryLedger,
	EventEligibilityUpdated:    CategoryLedger,
	EventPointsAwarded:         CategoryLedger,
	EventBadgeGranted:          CategoryLedger,
	EventThankYouCreated:       CategoryLedger,
	EventRequestFulfilled:      CategoryLedger,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
