package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifeline/internal/emergency/models"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

type CoordinatorSuite struct {
	engineSuite
	coordinator *Coordinator
	requestSvc  *RequestService
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	opts := s.setupEngine()
	s.coordinator = NewCoordinator(s.responses, s.requests, s.users, append(opts, WithAverageSpeed(60))...)
	s.requestSvc = NewRequestService(s.requests, opts...)
}

func (s *CoordinatorSuite) TestCreateResponse() {
	s.Run("starts accepted at the donor's home with an arrival estimate", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		// roughly 11.1 km north of the patient
		donor := s.addDonor(id.BloodTypeONeg, id.Location{Lat: 40.1, Lon: -74.0})

		resp, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.Require().NoError(err)
		s.Equal(models.ResponseAccepted, resp.Status)
		s.Equal(donor.Location, *resp.CurrentLocation)
		s.Require().NotNil(resp.EstimatedArrival)
		s.WithinDuration(s.now.Add(11*time.Minute), *resp.EstimatedArrival, 30*time.Second)
	})

	s.Run("duplicate response is refused", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		donor := s.addDonor(id.BloodTypeABNeg, s.patient.Location)

		_, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.Require().NoError(err)
		_, err = s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyResponded))
		s.True(dErrors.IsInvalidState(err))
	})

	s.Run("a cancelled response frees the donor to respond again", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		donor := s.addDonor(id.BloodTypeABNeg, s.patient.Location)

		first, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.Require().NoError(err)
		_, err = s.coordinator.AdvanceStatus(s.ctx, first.ID, models.ResponseCancelled)
		s.Require().NoError(err)

		_, err = s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.NoError(err)
	})

	s.Run("repeat answer to a fulfilled request is reported as a repeat", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		donor := s.addDonor(id.BloodTypeONeg, s.patient.Location)
		_, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.Require().NoError(err)
		_, err = s.requestSvc.FulfillRequest(s.ctx, req.ID)
		s.Require().NoError(err)

		_, err = s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyResponded), "got %v", err)

		_, err = s.coordinator.CreateResponse(s.ctx, s.addDonor(id.BloodTypeONeg, s.patient.Location).ID, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeRequestNotActive), "got %v", err)
	})

	s.Run("request must be active", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestPending)
		donor := s.addDonor(id.BloodTypeONeg, s.patient.Location)

		_, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeRequestNotActive))
	})

	s.Run("incompatible donor is refused", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		donor := s.addDonor(id.BloodTypeABPos, s.patient.Location)

		_, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeIncompatibleType))
	})

	s.Run("patients cannot respond", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		other := s.addUser(id.BloodTypeONeg, usermodels.RolePatient, false, s.patient.Location)

		_, err := s.coordinator.CreateResponse(s.ctx, other.ID, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown donor is not found", func() {
		req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
		_, err := s.coordinator.CreateResponse(s.ctx, id.UserID(uuid.New()), req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *CoordinatorSuite) TestConcurrentDuplicateResponses() {
	req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
	donor := s.addDonor(id.BloodTypeONeg, s.patient.Location)

	var (
		wg         sync.WaitGroup
		created    atomic.Int32
		duplicates atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
			switch {
			case err == nil:
				created.Add(1)
			case dErrors.HasCode(err, dErrors.CodeAlreadyResponded):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(19), duplicates.Load())
}

func (s *CoordinatorSuite) TestAdvanceStatus() {
	req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
	donor := s.addDonor(id.BloodTypeONeg, s.patient.Location)
	resp, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
	s.Require().NoError(err)

	_, err = s.coordinator.AdvanceStatus(s.ctx, resp.ID, models.ResponseArrived)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))

	for _, next := range []models.ResponseStatus{models.ResponseEnRoute, models.ResponseArrived} {
		got, err := s.coordinator.AdvanceStatus(s.ctx, resp.ID, next)
		s.Require().NoError(err)
		s.Equal(next, got.Status)
	}

	completed, err := s.coordinator.HasCompletedResponse(s.ctx, donor.ID, req.ID)
	s.Require().NoError(err)
	s.False(completed)

	_, err = s.coordinator.AdvanceStatus(s.ctx, resp.ID, models.ResponseCompleted)
	s.Require().NoError(err)

	completed, err = s.coordinator.HasCompletedResponse(s.ctx, donor.ID, req.ID)
	s.Require().NoError(err)
	s.True(completed)

	_, err = s.coordinator.AdvanceStatus(s.ctx, resp.ID, models.ResponseCancelled)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
}

func (s *CoordinatorSuite) TestCancelledRequestBlocksProgress() {
	req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
	donor := s.addDonor(id.BloodTypeONeg, s.patient.Location)
	resp, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
	s.Require().NoError(err)

	_, err = s.requestSvc.CancelRequest(s.ctx, req.ID)
	s.Require().NoError(err)

	_, err = s.coordinator.AdvanceStatus(s.ctx, resp.ID, models.ResponseEnRoute)
	s.True(dErrors.HasCode(err, dErrors.CodeRequestNotActive))

	got, err := s.coordinator.AdvanceStatus(s.ctx, resp.ID, models.ResponseCancelled)
	s.Require().NoError(err)
	s.Equal(models.ResponseCancelled, got.Status)
}

func (s *CoordinatorSuite) TestUpdateLocation() {
	req := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
	donor := s.addDonor(id.BloodTypeONeg, id.Location{Lat: 40.5, Lon: -74.0})
	resp, err := s.coordinator.CreateResponse(s.ctx, donor.ID, req.ID)
	s.Require().NoError(err)

	s.Run("moves the donor and shortens the estimate", func() {
		got, err := s.coordinator.UpdateLocation(s.ctx, resp.ID, 40.05, -74.0)
		s.Require().NoError(err)
		s.Equal(models.ResponseAccepted, got.Status)
		s.Equal(id.Location{Lat: 40.05, Lon: -74.0}, *got.CurrentLocation)
		s.True(got.EstimatedArrival.Before(*resp.EstimatedArrival))
	})

	s.Run("bad coordinates are a validation error", func() {
		_, err := s.coordinator.UpdateLocation(s.ctx, resp.ID, 91, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("terminal responses do not move", func() {
		_, err := s.coordinator.AdvanceStatus(s.ctx, resp.ID, models.ResponseCancelled)
		s.Require().NoError(err)
		_, err = s.coordinator.UpdateLocation(s.ctx, resp.ID, 40.0, -74.0)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("listing by request and donor", func() {
		byReq, err := s.coordinator.ListResponsesByRequest(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Len(byReq, 1)

		byDonor, err := s.coordinator.ListResponsesByDonor(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.Len(byDonor, 1)
	})
}
