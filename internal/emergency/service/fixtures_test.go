package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	eligibilityservice "lifeline/internal/eligibility/service"
	eligibilitystore "lifeline/internal/eligibility/store"
	"lifeline/internal/emergency/models"
	requeststore "lifeline/internal/emergency/store/request"
	responsestore "lifeline/internal/emergency/store/response"
	usermodels "lifeline/internal/users/models"
	userstore "lifeline/internal/users/store"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/audit/publisher"
	auditmemory "lifeline/pkg/platform/audit/store/memory"
	"lifeline/pkg/requestcontext"
)

// engineSuite wires the emergency services over in-memory stores.
type engineSuite struct {
	suite.Suite
	ctx         context.Context
	now         time.Time
	users       *userstore.InMemoryStore
	requests    *requeststore.InMemoryStore
	responses   *responsestore.InMemoryStore
	eligibility *eligibilityservice.Service
	audit       *auditmemory.InMemoryStore
	patient     *usermodels.User
}

func (s *engineSuite) setupEngine() []Option {
	s.now = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.users = userstore.NewInMemoryStore()
	s.requests = requeststore.NewInMemoryStore()
	s.responses = responsestore.NewInMemoryStore()
	s.eligibility = eligibilityservice.New(eligibilitystore.NewInMemoryStore(), s.users)
	s.audit = auditmemory.NewInMemoryStore()
	s.patient = s.addUser(id.BloodTypeABNeg, usermodels.RolePatient, false, id.Location{Lat: 40.0, Lon: -74.0})
	return []Option{WithAuditPublisher(publisher.NewPublisher(s.audit))}
}

func (s *engineSuite) addUser(bt id.BloodType, role usermodels.Role, optIn bool, loc id.Location) *usermodels.User {
	u, err := usermodels.NewUser(id.UserID(uuid.New()), uuid.NewString()+"@example.com", "Test", "User",
		bt, loc, role, optIn, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.users.Save(s.ctx, u))
	return u
}

func (s *engineSuite) addDonor(bt id.BloodType, loc id.Location) *usermodels.User {
	return s.addUser(bt, usermodels.RoleDonor, true, loc)
}

func (s *engineSuite) addRequest(bt id.BloodType, status models.RequestStatus) *models.EmergencyRequest {
	req, err := models.NewRequest(id.RequestID(uuid.New()), s.patient.ID, bt, 2, s.patient.Location,
		models.UrgencyCritical, status, "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.requests.Create(s.ctx, req))
	return req
}
