//go:build integration

package response_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifeline/internal/emergency/models"
	"lifeline/internal/emergency/store/request"
	"lifeline/internal/emergency/store/response"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
	"lifeline/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	requests  *request.PostgresStore
	responses *response.PostgresStore
	now       time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.requests = request.NewPostgres(s.postgres.Pool)
	s.responses = response.NewPostgres(s.postgres.Pool)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "emergency_responses", "emergency_requests"))
}

func (s *PostgresStoreSuite) newRequest() *models.EmergencyRequest {
	req, err := models.NewRequest(id.RequestID(uuid.New()), id.UserID(uuid.New()), id.BloodTypeABNeg, 2,
		id.Location{Lat: 1, Lon: 1}, models.UrgencyCritical, models.RequestActive, "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.requests.Create(context.Background(), req))
	return req
}

func (s *PostgresStoreSuite) TestCreateIfNoActive() {
	ctx := context.Background()
	req := s.newRequest()
	donor := id.UserID(uuid.New())

	first := models.NewResponse(id.ResponseID(uuid.New()), req.ID, donor, s.now)
	first.ApplyLocation(id.Location{Lat: 1.1, Lon: 1}, s.now.Add(10*time.Minute), s.now)
	s.Require().NoError(s.responses.CreateIfNoActive(ctx, first))

	dup := models.NewResponse(id.ResponseID(uuid.New()), req.ID, donor, s.now)
	s.ErrorIs(s.responses.CreateIfNoActive(ctx, dup), sentinel.ErrAlreadyUsed)

	_, err := s.responses.Execute(ctx, first.ID,
		func(r *models.EmergencyResponse) error { return r.CanAdvance(models.ResponseCancelled) },
		func(r *models.EmergencyResponse) { r.ApplyStatus(models.ResponseCancelled, s.now) },
	)
	s.Require().NoError(err)
	s.NoError(s.responses.CreateIfNoActive(ctx, dup))

	all, err := s.responses.ListByDonorAndRequest(ctx, donor, req.ID)
	s.Require().NoError(err)
	s.Len(all, 2)

	found, err := s.responses.FindByID(ctx, first.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.CurrentLocation)
	s.Equal(1.1, found.CurrentLocation.Lat)

	second, err := s.responses.FindByID(ctx, dup.ID)
	s.Require().NoError(err)
	s.Nil(second.CurrentLocation)
}

func (s *PostgresStoreSuite) TestConcurrentCreatesYieldOneLiveResponse() {
	ctx := context.Background()
	req := s.newRequest()
	donor := id.UserID(uuid.New())

	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := models.NewResponse(id.ResponseID(uuid.New()), req.ID, donor, s.now)
			if err := s.responses.CreateIfNoActive(ctx, r); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), created.Load())
}

func (s *PostgresStoreSuite) TestRequestExecuteAndListing() {
	ctx := context.Background()
	req := s.newRequest()

	_, err := s.requests.Execute(ctx, req.ID,
		func(r *models.EmergencyRequest) error { return r.CanTransition(models.RequestFulfilled) },
		func(r *models.EmergencyRequest) { r.ApplyStatus(models.RequestFulfilled, s.now) },
	)
	s.Require().NoError(err)

	active, err := s.requests.ListByStatus(ctx, models.RequestActive, nil)
	s.Require().NoError(err)
	s.Empty(active)

	bt := id.BloodTypeABNeg
	fulfilled, err := s.requests.ListByStatus(ctx, models.RequestFulfilled, &bt)
	s.Require().NoError(err)
	s.Len(fulfilled, 1)
}
