package store

import (
	"context"
	"sync"
	"time"

	"lifeline/internal/eligibility/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]*models.HealthRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]*models.HealthRecord)}
}

// Create inserts a record; a second record for the same user is ErrAlreadyUsed.
func (s *InMemoryStore) Create(_ context.Context, rec *models.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.UserID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.records[rec.UserID] = clone(rec)
	return nil
}

func (s *InMemoryStore) FindByUser(_ context.Context, userID id.UserID) (*models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(rec), nil
}

// FindByUsers returns the records that exist for userIDs, keyed by user.
func (s *InMemoryStore) FindByUsers(_ context.Context, userIDs []id.UserID) (map[id.UserID]*models.HealthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]*models.HealthRecord, len(userIDs))
	for _, uid := range userIDs {
		if rec, ok := s.records[uid]; ok {
			out[uid] = clone(rec)
		}
	}
	return out, nil
}

// Upsert runs mutate on the user's record under the store lock, creating an
// empty record first when none exists.
func (s *InMemoryStore) Upsert(_ context.Context, userID id.UserID, now time.Time, mutate func(*models.HealthRecord)) (*models.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		rec = models.NewHealthRecord(userID, "", now)
	} else {
		rec = clone(rec)
	}
	mutate(rec)
	s.records[userID] = rec
	return clone(rec), nil
}

func clone(rec *models.HealthRecord) *models.HealthRecord {
	cp := *rec
	if rec.LastDonationDate != nil {
		t := *rec.LastDonationDate
		cp.LastDonationDate = &t
	}
	if rec.NextEligibleDate != nil {
		t := *rec.NextEligibleDate
		cp.NextEligibleDate = &t
	}
	return &cp
}
