package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	emergencymetrics "lifeline/internal/emergency/metrics"
	"lifeline/internal/emergency/models"
	"lifeline/internal/emergency/service/mocks"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/audit"
)

type RequestServiceSuite struct {
	engineSuite
	notifier *mocks.MockNotifier
	metrics  *emergencymetrics.Metrics
	service  *RequestService
}

func TestRequestServiceSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceSuite))
}

func (s *RequestServiceSuite) SetupTest() {
	opts := s.setupEngine()
	s.notifier = mocks.NewMockNotifier(gomock.NewController(s.T()))
	s.metrics = emergencymetrics.New(prometheus.NewRegistry())
	s.service = NewRequestService(s.requests, append(opts, WithNotifier(s.notifier), WithMetrics(s.metrics))...)
}

func (s *RequestServiceSuite) input() CreateRequestInput {
	return CreateRequestInput{
		PatientID:   s.patient.ID,
		BloodType:   "AB-",
		UnitsNeeded: 2,
		Location:    s.patient.Location,
		Urgency:     "critical",
	}
}

func (s *RequestServiceSuite) TestCreateRequest() {
	s.Run("defaults to active and notifies donors", func() {
		s.notifier.EXPECT().Notify(gomock.Any(), "Emergency: AB- blood needed", gomock.Any()).Return(nil)

		req, err := s.service.CreateRequest(s.ctx, s.input())
		s.Require().NoError(err)
		s.Equal(models.RequestActive, req.Status)
		s.Equal(models.UrgencyCritical, req.Urgency)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RequestsCreated.WithLabelValues("CRITICAL")))
	})

	s.Run("pending request does not notify", func() {
		in := s.input()
		in.Status = "pending"
		req, err := s.service.CreateRequest(s.ctx, in)
		s.Require().NoError(err)
		s.Equal(models.RequestPending, req.Status)
	})

	s.Run("notification failure does not roll back the request", func() {
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		req, err := s.service.CreateRequest(s.ctx, s.input())
		s.Require().NoError(err)

		stored, err := s.service.GetRequest(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Equal(models.RequestActive, stored.Status)
	})

	s.Run("validation errors", func() {
		in := s.input()
		in.BloodType = "X+"
		_, err := s.service.CreateRequest(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		in = s.input()
		in.Urgency = "whenever"
		_, err = s.service.CreateRequest(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		in = s.input()
		in.UnitsNeeded = 0
		_, err = s.service.CreateRequest(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		in = s.input()
		in.Status = "FULFILLED"
		_, err = s.service.CreateRequest(s.ctx, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *RequestServiceSuite) TestLifecycle() {
	s.Run("activate a pending request notifies", func() {
		req := s.addRequest(id.BloodTypeONeg, models.RequestPending)
		s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.service.ActivateRequest(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Equal(models.RequestActive, got.Status)

		_, err = s.service.ActivateRequest(s.ctx, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.Run("fulfill is idempotent and audited once", func() {
		req := s.addRequest(id.BloodTypeONeg, models.RequestActive)
		for range 3 {
			got, err := s.service.FulfillRequest(s.ctx, req.ID)
			s.Require().NoError(err)
			s.Equal(models.RequestFulfilled, got.Status)
		}

		events, err := s.audit.ListByUser(s.ctx, s.patient.ID)
		s.Require().NoError(err)
		fulfilled := 0
		for _, e := range events {
			if e.Action == string(audit.EventRequestFulfilled) && e.Subject == req.ID.String() {
				fulfilled++
			}
		}
		s.Equal(1, fulfilled)
	})

	s.Run("fulfilled request cannot be cancelled", func() {
		req := s.addRequest(id.BloodTypeONeg, models.RequestActive)
		_, err := s.service.FulfillRequest(s.ctx, req.ID)
		s.Require().NoError(err)

		_, err = s.service.CancelRequest(s.ctx, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.Run("cancelled request cannot be fulfilled", func() {
		req := s.addRequest(id.BloodTypeONeg, models.RequestActive)
		_, err := s.service.CancelRequest(s.ctx, req.ID)
		s.Require().NoError(err)

		_, err = s.service.FulfillRequest(s.ctx, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	s.Run("unknown request is not found", func() {
		_, err := s.service.GetRequest(s.ctx, id.RequestID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *RequestServiceSuite) TestListing() {
	abNeg := s.addRequest(id.BloodTypeABNeg, models.RequestActive)
	oNeg := s.addRequest(id.BloodTypeONeg, models.RequestActive)
	s.addRequest(id.BloodTypeONeg, models.RequestPending)

	all, err := s.service.ListActiveRequests(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	bt := id.BloodTypeONeg
	filtered, err := s.service.ListActiveRequests(s.ctx, &bt)
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(oNeg.ID, filtered[0].ID)

	byPatient, err := s.service.ListRequestsByPatient(s.ctx, s.patient.ID)
	s.Require().NoError(err)
	s.Len(byPatient, 3)
	s.Contains([]id.RequestID{byPatient[0].ID, byPatient[1].ID, byPatient[2].ID}, abNeg.ID)
}
