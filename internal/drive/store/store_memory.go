package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"lifeline/internal/drive/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

// InMemoryStore keeps drives in a map guarded by one mutex; Execute holds it
// across validate and mutate so capacity checks cannot interleave.
type InMemoryStore struct {
	mu     sync.Mutex
	drives map[id.DriveID]*models.Drive
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{drives: make(map[id.DriveID]*models.Drive)}
}

func (s *InMemoryStore) Create(_ context.Context, drive *models.Drive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drives[drive.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.drives[drive.ID] = clone(drive)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, driveID id.DriveID) (*models.Drive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drives[driveID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Drive, error) {
	return s.filter(func(*models.Drive) bool { return true }), nil
}

func (s *InMemoryStore) ListByOrganizer(_ context.Context, organizerID id.UserID) ([]*models.Drive, error) {
	return s.filter(func(d *models.Drive) bool { return d.OrganizerID == organizerID }), nil
}

// ListByBloodType returns drives that list bt among their required types.
func (s *InMemoryStore) ListByBloodType(_ context.Context, bt id.BloodType) ([]*models.Drive, error) {
	return s.filter(func(d *models.Drive) bool { return slices.Contains(d.RequiredBloodTypes, bt) }), nil
}

// Execute validates and mutates a drive under the store lock. A validation
// error is returned unchanged and nothing is written.
func (s *InMemoryStore) Execute(_ context.Context, driveID id.DriveID, validate func(*models.Drive) error, mutate func(*models.Drive)) (*models.Drive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drives[driveID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := clone(d)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.drives[driveID] = working
	return clone(working), nil
}

func (s *InMemoryStore) filter(keep func(*models.Drive) bool) []*models.Drive {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Drive, 0)
	for _, d := range s.drives {
		if keep(d) {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func clone(d *models.Drive) *models.Drive {
	cp := *d
	cp.RequiredBloodTypes = slices.Clone(d.RequiredBloodTypes)
	return &cp
}
