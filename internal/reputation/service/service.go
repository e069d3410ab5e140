// Package service is the reputation engine: points, badges and thank-you
// notes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	donationmodels "lifeline/internal/donation/models"
	"lifeline/internal/reputation/models"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/platform/tracing"
	txcontext "lifeline/pkg/platform/tx"
	"lifeline/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks BadgeQueue,BadgeStore,DonationLookup,NoteStore,UserDirectory

var tracer = otel.Tracer("lifeline/reputation")

type UserDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (*usermodels.User, error)
	AddPoints(ctx context.Context, userID id.UserID, amount int) (int, error)
}

type BadgeStore interface {
	Create(ctx context.Context, b *models.Badge) error
	List(ctx context.Context) ([]*models.Badge, error)
	Grant(ctx context.Context, ub *models.UserBadge) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.UserBadge, error)
}

type NoteStore interface {
	Create(ctx context.Context, n *models.ThankYouNote) error
	Delete(ctx context.Context, noteID id.NoteID) error
	ListByDonor(ctx context.Context, donorID id.UserID) ([]*models.ThankYouNote, error)
}

type DonationLookup interface {
	GetDonation(ctx context.Context, donationID id.DonationID) (*donationmodels.Donation, error)
}

// BadgeQueue defers badge checks. Enqueue reports false when the queue is
// full, in which case the check runs inline.
type BadgeQueue interface {
	Enqueue(userID id.UserID) bool
}

type Service struct {
	users     UserDirectory
	badges    BadgeStore
	notes     NoteStore
	donations DonationLookup

	logger         *slog.Logger
	auditPublisher audit.Emitter
	queue          BadgeQueue
	transactor     txcontext.Beginner
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithBadgeQueue moves badge checks after AwardPoints off the caller's path.
func WithBadgeQueue(q BadgeQueue) Option {
	return func(s *Service) {
		s.queue = q
	}
}

// WithTransactor stores a thank-you note and its points in one transaction.
func WithTransactor(db txcontext.Beginner) Option {
	return func(s *Service) {
		s.transactor = db
	}
}

func New(users UserDirectory, badges BadgeStore, notes NoteStore, donations DonationLookup, opts ...Option) *Service {
	s := &Service{users: users, badges: badges, notes: notes, donations: donations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AwardPoints adds amount to the user's total and returns the new total.
// Badges are checked afterwards, inline or through the queue.
func (s *Service) AwardPoints(ctx context.Context, userID id.UserID, amount int) (total int, err error) {
	ctx, span := tracer.Start(ctx, "reputation.AwardPoints", trace.WithAttributes(
		attribute.String("user_id", userID.String()),
		attribute.Int("amount", amount),
	))
	defer func() { tracing.End(span, err) }()

	if amount < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "points cannot be negative")
	}
	total, err = s.users.AddPoints(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to award points")
	}
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventPointsAwarded,
		"user_id", userID.String(),
		"subject", strconv.Itoa(total),
		"reason", strconv.Itoa(amount),
	)

	if s.queue != nil && s.queue.Enqueue(userID) {
		return total, nil
	}
	// A failed check is picked up by the next award: every qualifying badge
	// not yet held is granted then.
	if _, err := s.CheckAndAwardBadges(ctx, userID); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "badge check failed",
			"user_id", userID.String(),
			"error", err,
		)
	}
	return total, nil
}

// CheckAndAwardBadges grants every badge the user's points qualify for and
// returns the newly granted ones. Concurrent calls grant each badge once.
func (s *Service) CheckAndAwardBadges(ctx context.Context, userID id.UserID) ([]*models.UserBadge, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	catalog, err := s.badges.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list badges")
	}
	held, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list user badges")
	}
	owned := make(map[id.BadgeID]bool, len(held))
	for _, ub := range held {
		owned[ub.BadgeID] = true
	}

	now := requestcontext.Now(ctx)
	granted := make([]*models.UserBadge, 0)
	for _, b := range catalog {
		if owned[b.ID] || !b.EarnedWith(user.Points) {
			continue
		}
		ub := &models.UserBadge{UserID: userID, BadgeID: b.ID, AwardedAt: now}
		if err := s.badges.Grant(ctx, ub); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				continue
			}
			return granted, dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant badge")
		}
		granted = append(granted, ub)
		audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventBadgeGranted,
			"user_id", userID.String(),
			"subject", b.Title,
		)
	}
	return granted, nil
}

// RecordThankYouNote stores a patient's note about one of donorID's
// donations and awards the donor ThankYouPoints. The note is kept only if
// the points are.
func (s *Service) RecordThankYouNote(ctx context.Context, patientID, donorID id.UserID, donationID id.DonationID,
	message string, anonymous bool) (*models.ThankYouNote, error) {
	n, err := models.NewThankYouNote(id.NoteID(uuid.New()), patientID, donorID, donationID, message, anonymous, requestcontext.Now(ctx))
	if err != nil {
		return nil, asValidation(err)
	}
	donation, err := s.donations.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != donorID {
		return nil, dErrors.New(dErrors.CodeValidation, "donation was not made by this donor")
	}
	if _, err := s.users.FindByID(ctx, patientID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "patient not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load patient")
	}

	err = txcontext.RunOrUndo(ctx, s.transactor, func(ctx context.Context, undo *txcontext.Undo) error {
		if err := s.notes.Create(ctx, n); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				return dErrors.New(dErrors.CodeDuplicateNote, "a thank-you note already exists for this donation")
			case errors.Is(err, sentinel.ErrNotFound):
				return dErrors.New(dErrors.CodeNotFound, "donation not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save thank-you note")
		}
		undo.Add(func(ctx context.Context) error { return s.notes.Delete(ctx, n.ID) })
		_, err := s.AwardPoints(ctx, donorID, models.ThankYouPoints)
		return err
	}, func(err error) {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to remove thank-you note after award failure",
				"note_id", n.ID.String(),
				"error", err,
			)
		}
	})
	if err != nil {
		return nil, err
	}
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventThankYouCreated,
		"user_id", donorID.String(),
		"subject", donationID.String(),
	)
	return n, nil
}

func (s *Service) ListThankYouNotes(ctx context.Context, donorID id.UserID) ([]*models.ThankYouNote, error) {
	out, err := s.notes.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list thank-you notes")
	}
	return out, nil
}

func (s *Service) CreateBadge(ctx context.Context, title, description string, pointsRequired int) (*models.Badge, error) {
	b, err := models.NewBadge(id.BadgeID(uuid.New()), title, description, pointsRequired)
	if err != nil {
		return nil, asValidation(err)
	}
	if err := s.badges.Create(ctx, b); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "badge %q already exists", b.Title)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create badge")
	}
	return b, nil
}

func (s *Service) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	out, err := s.badges.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list badges")
	}
	return out, nil
}

func (s *Service) ListUserBadges(ctx context.Context, userID id.UserID) ([]*models.UserBadge, error) {
	out, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list user badges")
	}
	return out, nil
}

// SeedDefaultBadges creates the built-in catalog. Badges that already exist
// are left alone, so seeding is safe on every start.
func (s *Service) SeedDefaultBadges(ctx context.Context) error {
	for _, def := range models.DefaultCatalog() {
		if _, err := s.CreateBadge(ctx, def.Title, def.Description, def.PointsRequired); err != nil {
			if dErrors.HasCode(err, dErrors.CodeConflict) {
				continue
			}
			return err
		}
	}
	return nil
}

func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}
