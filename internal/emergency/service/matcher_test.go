package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lifeline/internal/emergency/models"
	"lifeline/internal/emergency/service/mocks"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type MatcherSuite struct {
	engineSuite
	matcher *Matcher
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

func (s *MatcherSuite) SetupTest() {
	opts := s.setupEngine()
	s.matcher = NewMatcher(s.requests, s.users, s.eligibility, opts...)
}

func (s *MatcherSuite) TestFindCandidates() {
	req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
	near := s.addDonor(id.BloodTypeONeg, id.Location{Lat: 40.01, Lon: -74.0})
	far := s.addDonor(id.BloodTypeABNeg, id.Location{Lat: 40.5, Lon: -74.0})
	mid := s.addDonor(id.BloodTypeANeg, id.Location{Lat: 40.1, Lon: -74.0})
	// Rh+ cannot give to AB-
	s.addDonor(id.BloodTypeOPos, id.Location{Lat: 40.0, Lon: -74.0})
	// opted out of emergency alerts
	s.addUser(id.BloodTypeONeg, usermodels.RoleDonor, false, s.patient.Location)
	cooling := s.addDonor(id.BloodTypeONeg, id.Location{Lat: 40.0, Lon: -74.0})
	_, err := s.eligibility.RecordDonation(s.ctx, cooling.ID, s.now.AddDate(0, -1, 0))
	s.Require().NoError(err)

	candidates, err := s.matcher.FindCandidates(s.ctx, req.ID)
	s.Require().NoError(err)

	var got []id.UserID
	for _, c := range candidates {
		got = append(got, c.Donor.ID)
	}
	s.Equal([]id.UserID{near.ID, mid.ID, far.ID}, got)
	s.InDelta(1.11, candidates[0].DistanceKM, 0.01)
}

func (s *MatcherSuite) TestTiesBreakOnDonorID() {
	req := s.addRequest(id.BloodTypeABPos, models.RequestActive)
	loc := id.Location{Lat: 40.2, Lon: -74.0}
	a := s.addDonor(id.BloodTypeAPos, loc)
	b := s.addDonor(id.BloodTypeBPos, loc)
	c := s.addDonor(id.BloodTypeOPos, loc)

	candidates, err := s.matcher.FindCandidates(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Require().Len(candidates, 3)

	want := []id.UserID{a.ID, b.ID, c.ID}
	for i := range want {
		for j := i + 1; j < len(want); j++ {
			if want[j].Less(want[i]) {
				want[i], want[j] = want[j], want[i]
			}
		}
	}
	s.Equal(want, []id.UserID{candidates[0].Donor.ID, candidates[1].Donor.ID, candidates[2].Donor.ID})
}

func (s *MatcherSuite) TestEmptyAndInactive() {
	s.Run("no match is an empty list", func() {
		req := s.addRequest(id.BloodTypeONeg, models.RequestActive)
		s.addDonor(id.BloodTypeAPos, s.patient.Location)

		candidates, err := s.matcher.FindCandidates(s.ctx, req.ID)
		s.Require().NoError(err)
		s.NotNil(candidates)
		s.Empty(candidates)
	})

	s.Run("pending request is invalid state", func() {
		req := s.addRequest(id.BloodTypeONeg, models.RequestPending)
		_, err := s.matcher.FindCandidates(s.ctx, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("unknown request is not found", func() {
		_, err := s.matcher.FindCandidates(s.ctx, id.RequestID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestFindCandidatesEligibilityFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	requests := mocks.NewMockRequestStore(ctrl)
	donors := mocks.NewMockDonorDirectory(ctrl)
	eligibility := mocks.NewMockEligibilityChecker(ctrl)
	m := NewMatcher(requests, donors, eligibility, WithMatchConcurrency(2))

	now := time.Now()
	req, err := models.NewRequest(id.RequestID(uuid.New()), id.UserID(uuid.New()), id.BloodTypeABPos, 1,
		id.Location{}, models.UrgencyHigh, models.RequestActive, "", now)
	assert.NoError(t, err)
	donor := &usermodels.User{ID: id.UserID(uuid.New()), BloodType: id.BloodTypeONeg, Role: usermodels.RoleDonor}

	requests.EXPECT().FindByID(gomock.Any(), req.ID).Return(req, nil)
	donors.EXPECT().FindDonorsOptedIn(gomock.Any(), nil).Return([]*usermodels.User{donor}, nil)
	eligibility.EXPECT().IsEligible(gomock.Any(), donor.ID, gomock.Any()).Return(false, errors.New("timeout"))

	_, err = m.FindCandidates(context.Background(), req.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
