package note

import (
	"context"
	"sort"
	"sync"

	"lifeline/internal/reputation/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu    sync.Mutex
	notes map[id.NoteID]*models.ThankYouNote
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{notes: make(map[id.NoteID]*models.ThankYouNote)}
}

// Create stores the note unless the patient already thanked the donor for
// the same donation, in which case it returns ErrAlreadyUsed.
func (s *InMemoryStore) Create(_ context.Context, n *models.ThankYouNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notes {
		if existing.DonationID == n.DonationID && existing.PatientID == n.PatientID {
			return sentinel.ErrAlreadyUsed
		}
	}
	cp := *n
	s.notes[n.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, noteID id.NoteID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[noteID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}

// ListByDonor returns notes received by donorID, newest first.
func (s *InMemoryStore) ListByDonor(_ context.Context, donorID id.UserID) ([]*models.ThankYouNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ThankYouNote, 0)
	for _, n := range s.notes {
		if n.DonorID == donorID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
