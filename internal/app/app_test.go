package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	donationservice "lifeline/internal/donation/service"
	driveservice "lifeline/internal/drive/service"
	eligibilitymodels "lifeline/internal/eligibility/models"
	emergencymodels "lifeline/internal/emergency/models"
	emergencyservice "lifeline/internal/emergency/service"
	"lifeline/internal/platform/config"
	"lifeline/internal/platform/logger"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/requestcontext"
)

type EngineSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	engine  *Engine
	patient *usermodels.User
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.now = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.engine = s.build(config.EngineConfig{SeedDefaultBadges: true})
	s.patient = s.addUser(id.BloodTypeABNeg, usermodels.RolePatient, id.Location{Lat: 51.5074, Lon: -0.1278})
}

func (s *EngineSuite) TearDownTest() {
	s.engine.Close()
}

func (s *EngineSuite) build(engineCfg config.EngineConfig) *Engine {
	e, err := Build(s.ctx, config.Config{Engine: engineCfg}, logger.New("ERROR"))
	s.Require().NoError(err)
	return e
}

func (s *EngineSuite) addUser(bt id.BloodType, role usermodels.Role, loc id.Location) *usermodels.User {
	u, err := usermodels.NewUser(id.UserID(uuid.New()), uuid.NewString()+"@example.com", "Test", "User",
		bt, loc, role, true, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.engine.Users.Save(s.ctx, u))
	if role == usermodels.RoleDonor {
		_, err = s.engine.Eligibility.CreateHealthRecord(s.ctx, u.ID, "")
		s.Require().NoError(err)
	}
	return u
}

func (s *EngineSuite) respond(donor *usermodels.User, requestID id.RequestID) {
	resp, err := s.engine.Responses.CreateResponse(s.ctx, donor.ID, requestID)
	s.Require().NoError(err)
	for _, next := range []emergencymodels.ResponseStatus{
		emergencymodels.ResponseEnRoute, emergencymodels.ResponseArrived, emergencymodels.ResponseCompleted,
	} {
		_, err = s.engine.Responses.AdvanceStatus(s.ctx, resp.ID, next)
		s.Require().NoError(err)
	}
}

func (s *EngineSuite) points(userID id.UserID) int {
	u, err := s.engine.Users.FindByID(s.ctx, userID)
	s.Require().NoError(err)
	return u.Points
}

func (s *EngineSuite) TestCriticalRequestIsFulfilledByTwoDonors() {
	donorA := s.addUser(id.BloodTypeONeg, usermodels.RoleDonor, id.Location{Lat: 51.51, Lon: -0.13})
	donorB := s.addUser(id.BloodTypeABNeg, usermodels.RoleDonor, id.Location{Lat: 51.60, Lon: -0.20})
	incompatible := s.addUser(id.BloodTypeAPos, usermodels.RoleDonor, id.Location{Lat: 51.50, Lon: -0.12})

	req, err := s.engine.Requests.CreateRequest(s.ctx, emergencyservice.CreateRequestInput{
		PatientID:   s.patient.ID,
		BloodType:   "AB-",
		UnitsNeeded: 2,
		Location:    s.patient.Location,
		Urgency:     "CRITICAL",
	})
	s.Require().NoError(err)
	s.Equal(emergencymodels.RequestActive, req.Status)

	candidates, err := s.engine.Matcher.FindCandidates(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Require().Len(candidates, 2)
	s.Equal(donorA.ID, candidates[0].Donor.ID)
	s.Equal(donorB.ID, candidates[1].Donor.ID)

	_, err = s.engine.Responses.CreateResponse(s.ctx, incompatible.ID, req.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeIncompatibleType), "got %v", err)

	s.respond(donorA, req.ID)
	s.respond(donorB, req.ID)

	_, err = s.engine.Donations.CreateEmergencyDonation(s.ctx, donorA.ID, req.ID, donationservice.DonationInput{Units: 1.0})
	s.Require().NoError(err)
	current, err := s.engine.Requests.GetRequest(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(emergencymodels.RequestActive, current.Status)

	_, err = s.engine.Donations.CreateEmergencyDonation(s.ctx, donorB.ID, req.ID, donationservice.DonationInput{Units: 1.2})
	s.Require().NoError(err)
	current, err = s.engine.Requests.GetRequest(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(emergencymodels.RequestFulfilled, current.Status)

	for _, donor := range []*usermodels.User{donorA, donorB} {
		s.Equal(350, s.points(donor.ID))

		rec, err := s.engine.Eligibility.GetHealthRecord(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.Require().NotNil(rec.NextEligibleDate)
		s.Equal(eligibilitymodels.NextEligibleDate(s.now), *rec.NextEligibleDate)

		badges, err := s.engine.Reputation.ListUserBadges(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.Len(badges, 1, "350 points earns First Drop only")
	}

	_, err = s.engine.Matcher.FindCandidates(s.ctx, req.ID)
	s.True(dErrors.IsInvalidState(err), "got %v", err)

	events, err := s.engine.Audit.List(s.ctx, donorB.ID)
	s.Require().NoError(err)
	s.Contains(actions(events), string(audit.EventDonationRecorded))
	s.Contains(actions(events), string(audit.EventPointsAwarded))
	s.Contains(actions(events), string(audit.EventBadgeGranted))
}

func (s *EngineSuite) TestDonorWithinCooldownIsNotACandidate() {
	rested := s.addUser(id.BloodTypeONeg, usermodels.RoleDonor, id.Location{Lat: 51.52, Lon: -0.10})
	recent := s.addUser(id.BloodTypeONeg, usermodels.RoleDonor, id.Location{Lat: 51.51, Lon: -0.11})
	_, err := s.engine.Eligibility.RecordDonation(s.ctx, recent.ID, s.now.AddDate(0, -1, 0))
	s.Require().NoError(err)

	req, err := s.engine.Requests.CreateRequest(s.ctx, emergencyservice.CreateRequestInput{
		PatientID:   s.patient.ID,
		BloodType:   "B+",
		UnitsNeeded: 1,
		Location:    s.patient.Location,
		Urgency:     "HIGH",
	})
	s.Require().NoError(err)

	candidates, err := s.engine.Matcher.FindCandidates(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Require().Len(candidates, 1)
	s.Equal(rested.ID, candidates[0].Donor.ID)
}

func (s *EngineSuite) TestThankYouNoteRewardsDonor() {
	donor := s.addUser(id.BloodTypeOPos, usermodels.RoleDonor, id.Location{Lat: 51.5, Lon: -0.1})
	drive, err := s.engine.Drives.CreateDrive(s.ctx, driveservice.CreateDriveInput{
		OrganizerID: s.patient.ID,
		Title:       "Town hall drive",
		Location:    id.Location{Lat: 51.5, Lon: -0.1},
		StartDate:   s.now.Add(-time.Hour),
		EndDate:     s.now.Add(2 * time.Hour),
		MaxCapacity: 10,
	})
	s.Require().NoError(err)

	d, err := s.engine.Donations.CreateDriveDonation(s.ctx, donor.ID, drive.ID, donationservice.DonationInput{Units: 1})
	s.Require().NoError(err)
	s.Equal(donationservice.DriveDonationPoints, s.points(donor.ID))

	_, err = s.engine.Reputation.RecordThankYouNote(s.ctx, s.patient.ID, donor.ID, d.ID, "Thank you!", false)
	s.Require().NoError(err)
	s.Equal(donationservice.DriveDonationPoints+20, s.points(donor.ID))

	_, err = s.engine.Reputation.RecordThankYouNote(s.ctx, s.patient.ID, donor.ID, d.ID, "Again", false)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateNote), "got %v", err)
}

func (s *EngineSuite) TestAsyncBadgesAreGrantedByTheWorker() {
	e := s.build(config.EngineConfig{SeedDefaultBadges: true, AsyncBadges: true, BadgeQueueSize: 16})
	defer e.Close()

	u, err := usermodels.NewUser(id.UserID(uuid.New()), "async@example.com", "Async", "Donor",
		id.BloodTypeOPos, id.Location{}, usermodels.RoleDonor, true, s.now)
	s.Require().NoError(err)
	s.Require().NoError(e.Users.Save(s.ctx, u))

	_, err = e.Reputation.AwardPoints(s.ctx, u.ID, 600)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	cancel()
	s.Require().NoError(<-done)

	badges, err := e.Reputation.ListUserBadges(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Len(badges, 2)
}

func (s *EngineSuite) TestOpsHandler() {
	handler := s.engine.OpsHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	s.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "go_goroutines")
}

func actions(events []audit.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}
