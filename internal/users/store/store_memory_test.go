package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) newUser(bt id.BloodType, role models.Role, optIn bool) *models.User {
	u, err := models.NewUser(id.UserID(uuid.New()), uuid.NewString()+"@example.com", "Test", "User",
		bt, id.Location{Lat: 10, Lon: 10}, role, optIn, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(s.ctx, u))
	return u
}

func (s *UserStoreSuite) TestLookups() {
	s.Run("finds saved user by id", func() {
		u := s.newUser(id.BloodTypeONeg, models.RoleDonor, true)
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u.Email, found.Email)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.UserID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate email", func() {
		u := s.newUser(id.BloodTypeAPos, models.RolePatient, false)
		other := *u
		other.ID = id.UserID(uuid.New())
		s.ErrorIs(s.store.Save(s.ctx, &other), sentinel.ErrAlreadyUsed)
	})

	s.Run("returned users are copies", func() {
		u := s.newUser(id.BloodTypeBNeg, models.RoleDonor, false)
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		found.Points = 999
		again, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Zero(again.Points)
	})
}

func (s *UserStoreSuite) TestFindDonorsOptedIn() {
	oNeg := s.newUser(id.BloodTypeONeg, models.RoleDonor, true)
	aPos := s.newUser(id.BloodTypeAPos, models.RoleDonor, true)
	s.newUser(id.BloodTypeONeg, models.RoleDonor, false)
	s.newUser(id.BloodTypeONeg, models.RolePatient, true)

	all, err := s.store.FindDonorsOptedIn(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.True(all[0].ID.Less(all[1].ID), "results are ordered by id")

	bt := id.BloodTypeONeg
	filtered, err := s.store.FindDonorsOptedIn(s.ctx, &bt)
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(oNeg.ID, filtered[0].ID)
	s.NotEqual(aPos.ID, filtered[0].ID)
}

func (s *UserStoreSuite) TestAddPoints_Concurrent() {
	u := s.newUser(id.BloodTypeONeg, models.RoleDonor, true)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.AddPoints(s.ctx, u.ID, 5)
			s.NoError(err)
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(500, found.Points)

	_, err = s.store.AddPoints(s.ctx, id.UserID(uuid.New()), 5)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
