package store

import (
	"context"
	"sort"
	"sync"

	"lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

// InMemoryStore is the user directory used in tests and single-process runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*models.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]*models.User)}
}

// Save inserts or replaces a user. Email must be unique across users.
func (s *InMemoryStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryStore) FindByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	return s.filter(func(u *models.User) bool { return u.Role == role }), nil
}

// FindDonorsOptedIn returns donors who accept emergency alerts, optionally
// restricted to one blood type.
func (s *InMemoryStore) FindDonorsOptedIn(_ context.Context, bloodType *id.BloodType) ([]*models.User, error) {
	return s.filter(func(u *models.User) bool {
		if u.Role != models.RoleDonor || !u.EmergencyOptIn {
			return false
		}
		return bloodType == nil || u.BloodType == *bloodType
	}), nil
}

// AddPoints atomically adds amount and returns the new total.
func (s *InMemoryStore) AddPoints(_ context.Context, userID id.UserID, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	u.Points += amount
	return u.Points, nil
}

func (s *InMemoryStore) filter(keep func(*models.User) bool) []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0)
	for _, u := range s.users {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}
