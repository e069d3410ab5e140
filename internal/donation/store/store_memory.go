package store

import (
	"context"
	"sort"
	"sync"

	"lifeline/internal/donation/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.Mutex
	donations map[id.DonationID]*models.Donation
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{donations: make(map[id.DonationID]*models.Donation)}
}

func (s *InMemoryStore) Create(_ context.Context, d *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[d.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.donations[d.ID] = clone(d)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, donationID id.DonationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[donationID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.donations, donationID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, donationID id.DonationID) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

// ListByDonor returns the donor's donations, most recent donation date first.
func (s *InMemoryStore) ListByDonor(_ context.Context, donorID id.UserID) ([]*models.Donation, error) {
	return s.filter(func(d *models.Donation) bool { return d.DonorID == donorID }), nil
}

func (s *InMemoryStore) ListByDrive(_ context.Context, driveID id.DriveID) ([]*models.Donation, error) {
	return s.filter(func(d *models.Donation) bool { return d.DriveID != nil && *d.DriveID == driveID }), nil
}

func (s *InMemoryStore) ListByRequest(_ context.Context, requestID id.RequestID) ([]*models.Donation, error) {
	return s.filter(func(d *models.Donation) bool { return d.RequestID != nil && *d.RequestID == requestID }), nil
}

// SumUnitsByRequest totals the units of every non-cancelled donation made
// against requestID.
func (s *InMemoryStore) SumUnitsByRequest(_ context.Context, requestID id.RequestID) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, d := range s.donations {
		if d.RequestID != nil && *d.RequestID == requestID && d.Status.Counts() {
			total += d.Units
		}
	}
	return total, nil
}

func (s *InMemoryStore) Execute(_ context.Context, donationID id.DonationID, validate func(*models.Donation) error, mutate func(*models.Donation)) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := clone(d)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.donations[donationID] = working
	return clone(working), nil
}

func (s *InMemoryStore) filter(keep func(*models.Donation) bool) []*models.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Donation, 0)
	for _, d := range s.donations {
		if keep(d) {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DonationDate.Equal(out[j].DonationDate) {
			return out[i].DonationDate.After(out[j].DonationDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func clone(d *models.Donation) *models.Donation {
	cp := *d
	if d.DriveID != nil {
		driveID := *d.DriveID
		cp.DriveID = &driveID
	}
	if d.RequestID != nil {
		requestID := *d.RequestID
		cp.RequestID = &requestID
	}
	return &cp
}
