package request

import (
	"context"
	"sort"
	"sync"

	"lifeline/internal/emergency/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.Mutex
	requests map[id.RequestID]*models.EmergencyRequest
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.RequestID]*models.EmergencyRequest)}
}

func (s *InMemoryStore) Create(_ context.Context, req *models.EmergencyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, requestID id.RequestID) (*models.EmergencyRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// ListByStatus returns requests in status, optionally of one blood type,
// newest first.
func (s *InMemoryStore) ListByStatus(_ context.Context, status models.RequestStatus, bt *id.BloodType) ([]*models.EmergencyRequest, error) {
	return s.filter(func(r *models.EmergencyRequest) bool {
		return r.Status == status && (bt == nil || r.BloodType == *bt)
	}), nil
}

func (s *InMemoryStore) ListByPatient(_ context.Context, patientID id.UserID) ([]*models.EmergencyRequest, error) {
	return s.filter(func(r *models.EmergencyRequest) bool { return r.PatientID == patientID }), nil
}

// Execute validates and mutates under the store lock; nothing is written when
// validate fails.
func (s *InMemoryStore) Execute(_ context.Context, requestID id.RequestID, validate func(*models.EmergencyRequest) error, mutate func(*models.EmergencyRequest)) (*models.EmergencyRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := *r
	if err := validate(&working); err != nil {
		return nil, err
	}
	mutate(&working)
	s.requests[requestID] = &working
	cp := working
	return &cp, nil
}

func (s *InMemoryStore) filter(keep func(*models.EmergencyRequest) bool) []*models.EmergencyRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.EmergencyRequest, 0)
	for _, r := range s.requests {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
