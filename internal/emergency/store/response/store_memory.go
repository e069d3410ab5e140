package response

import (
	"context"
	"sort"
	"sync"

	"lifeline/internal/emergency/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.Mutex
	responses map[id.ResponseID]*models.EmergencyResponse
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{responses: make(map[id.ResponseID]*models.EmergencyResponse)}
}

// CreateIfNoActive inserts resp unless the donor already holds a live
// response for the same request, in which case it returns ErrAlreadyUsed.
func (s *InMemoryStore) CreateIfNoActive(_ context.Context, resp *models.EmergencyResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.responses {
		if existing.DonorID == resp.DonorID && existing.RequestID == resp.RequestID && existing.IsLive() {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.responses[resp.ID] = clone(resp)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, responseID id.ResponseID) (*models.EmergencyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.responses[responseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(r), nil
}

func (s *InMemoryStore) ListByRequest(_ context.Context, requestID id.RequestID) ([]*models.EmergencyResponse, error) {
	return s.filter(func(r *models.EmergencyResponse) bool { return r.RequestID == requestID }), nil
}

func (s *InMemoryStore) ListByDonor(_ context.Context, donorID id.UserID) ([]*models.EmergencyResponse, error) {
	return s.filter(func(r *models.EmergencyResponse) bool { return r.DonorID == donorID }), nil
}

// ListByDonorAndRequest includes cancelled responses.
func (s *InMemoryStore) ListByDonorAndRequest(_ context.Context, donorID id.UserID, requestID id.RequestID) ([]*models.EmergencyResponse, error) {
	return s.filter(func(r *models.EmergencyResponse) bool {
		return r.DonorID == donorID && r.RequestID == requestID
	}), nil
}

func (s *InMemoryStore) Execute(_ context.Context, responseID id.ResponseID, validate func(*models.EmergencyResponse) error, mutate func(*models.EmergencyResponse)) (*models.EmergencyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.responses[responseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := clone(r)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.responses[responseID] = working
	return clone(working), nil
}

func (s *InMemoryStore) filter(keep func(*models.EmergencyResponse) bool) []*models.EmergencyResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.EmergencyResponse, 0)
	for _, r := range s.responses {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func clone(r *models.EmergencyResponse) *models.EmergencyResponse {
	cp := *r
	if r.CurrentLocation != nil {
		loc := *r.CurrentLocation
		cp.CurrentLocation = &loc
	}
	if r.EstimatedArrival != nil {
		eta := *r.EstimatedArrival
		cp.EstimatedArrival = &eta
	}
	return &cp
}
