//go:build integration

package note_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifeline/internal/reputation/models"
	"lifeline/internal/reputation/store/badge"
	"lifeline/internal/reputation/store/note"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/testutil/containers"
)

type ReputationStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	notes    *note.PostgresStore
	badges   *badge.PostgresStore
	now      time.Time
}

func TestReputationStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ReputationStoreSuite))
}

func (s *ReputationStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.notes = note.NewPostgres(s.postgres.Pool)
	s.badges = badge.NewPostgres(s.postgres.Pool)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *ReputationStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"thank_you_notes", "user_badges", "badges", "donations", "donation_drives"))
}

func (s *ReputationStoreSuite) seedDonation(donor id.UserID) id.DonationID {
	ctx := context.Background()
	driveID, donationID := uuid.New(), uuid.New()
	_, err := s.postgres.Exec(ctx, `
		INSERT INTO donation_drives (id, organizer_id, title, latitude, longitude, start_date, end_date, max_capacity, status)
		VALUES ($1, $2, 'Drive', 0, 0, $3, $4, 10, 'ACTIVE')
	`, driveID, uuid.New(), s.now.Add(-time.Hour), s.now.Add(time.Hour))
	s.Require().NoError(err)
	_, err = s.postgres.Exec(ctx, `
		INSERT INTO donations (id, donor_id, drive_id, blood_type, units, status, donation_date)
		VALUES ($1, $2, $3, 'O+', 1, 'COMPLETED', $4)
	`, donationID, uuid.UUID(donor), driveID, s.now)
	s.Require().NoError(err)
	return id.DonationID(donationID)
}

func (s *ReputationStoreSuite) TestNotesAreUniquePerDonationAndPatient() {
	ctx := context.Background()
	donor, patient := id.UserID(uuid.New()), id.UserID(uuid.New())
	donation := s.seedDonation(donor)

	n, err := models.NewThankYouNote(id.NoteID(uuid.New()), patient, donor, donation, "thank you", true, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.notes.Create(ctx, n))

	dup, err := models.NewThankYouNote(id.NoteID(uuid.New()), patient, donor, donation, "again", false, s.now)
	s.Require().NoError(err)
	s.ErrorIs(s.notes.Create(ctx, dup), sentinel.ErrAlreadyUsed)

	orphan, err := models.NewThankYouNote(id.NoteID(uuid.New()), patient, donor, id.DonationID(uuid.New()), "hi", false, s.now)
	s.Require().NoError(err)
	s.ErrorIs(s.notes.Create(ctx, orphan), sentinel.ErrNotFound)

	got, err := s.notes.ListByDonor(ctx, donor)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.True(got[0].Anonymous)
	s.Equal(donation, got[0].DonationID)

	s.Require().NoError(s.notes.Delete(ctx, n.ID))
	s.ErrorIs(s.notes.Delete(ctx, n.ID), sentinel.ErrNotFound)
	s.Require().NoError(s.notes.Create(ctx, dup))
}

func (s *ReputationStoreSuite) TestBadgeGrantsAreUnique() {
	ctx := context.Background()
	b, err := models.NewBadge(id.BadgeID(uuid.New()), "First Drop", "", 100)
	s.Require().NoError(err)
	s.Require().NoError(s.badges.Create(ctx, b))

	dup, err := models.NewBadge(id.BadgeID(uuid.New()), "First Drop", "", 200)
	s.Require().NoError(err)
	s.ErrorIs(s.badges.Create(ctx, dup), sentinel.ErrAlreadyUsed)

	user := id.UserID(uuid.New())
	grant := &models.UserBadge{UserID: user, BadgeID: b.ID, AwardedAt: s.now}
	s.Require().NoError(s.badges.Grant(ctx, grant))
	s.ErrorIs(s.badges.Grant(ctx, grant), sentinel.ErrAlreadyUsed)
	s.ErrorIs(s.badges.Grant(ctx, &models.UserBadge{UserID: user, BadgeID: id.BadgeID(uuid.New()), AwardedAt: s.now}), sentinel.ErrNotFound)

	held, err := s.badges.ListByUser(ctx, user)
	s.Require().NoError(err)
	s.Len(held, 1)

	catalog, err := s.badges.List(ctx)
	s.Require().NoError(err)
	s.Len(catalog, 1)
}
