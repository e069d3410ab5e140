package badge

import (
	"context"
	"sort"
	"sync"

	"lifeline/internal/reputation/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type grantKey struct {
	userID  id.UserID
	badgeID id.BadgeID
}

// InMemoryStore keeps the badge catalog and the grants made from it.
type InMemoryStore struct {
	mu     sync.RWMutex
	badges map[id.BadgeID]*models.Badge
	grants map[grantKey]*models.UserBadge
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		badges: make(map[id.BadgeID]*models.Badge),
		grants: make(map[grantKey]*models.UserBadge),
	}
}

// Create adds a badge. Titles are unique.
func (s *InMemoryStore) Create(_ context.Context, b *models.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.badges {
		if existing.ID == b.ID || existing.Title == b.Title {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *b
	s.badges[b.ID] = &cp
	return nil
}

// List returns the catalog ordered by PointsRequired, then title.
func (s *InMemoryStore) List(_ context.Context) ([]*models.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Badge, 0, len(s.badges))
	for _, b := range s.badges {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PointsRequired != out[j].PointsRequired {
			return out[i].PointsRequired < out[j].PointsRequired
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// Grant records that the user holds the badge, or returns ErrAlreadyUsed.
func (s *InMemoryStore) Grant(_ context.Context, ub *models.UserBadge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.badges[ub.BadgeID]; !ok {
		return sentinel.ErrNotFound
	}
	key := grantKey{userID: ub.UserID, badgeID: ub.BadgeID}
	if _, ok := s.grants[key]; ok {
		return sentinel.ErrAlreadyUsed
	}
	cp := *ub
	s.grants[key] = &cp
	return nil
}

// ListByUser returns the user's badges, oldest grant first.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.UserBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.UserBadge, 0)
	for key, ub := range s.grants {
		if key.userID == userID {
			cp := *ub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AwardedAt.Equal(out[j].AwardedAt) {
			return out[i].AwardedAt.Before(out[j].AwardedAt)
		}
		return out[i].BadgeID.String() < out[j].BadgeID.String()
	})
	return out, nil
}
