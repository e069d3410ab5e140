package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/drive/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	newDrive := func(t *testing.T, s *InMemoryStore) *models.Drive {
		d, err := models.NewDrive(id.DriveID(uuid.New()), id.UserID(uuid.New()), "Drive", "", id.Location{},
			now.Add(-time.Hour), now.Add(time.Hour), []id.BloodType{id.BloodTypeONeg}, 2, now)
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, d))
		return d
	}

	t.Run("execute does not write when validation fails", func(t *testing.T) {
		s := NewInMemoryStore()
		d := newDrive(t, s)
		boom := errors.New("rejected")

		_, err := s.Execute(ctx, d.ID,
			func(*models.Drive) error { return boom },
			func(d *models.Drive) { d.CurrentDonors = 2 },
		)
		assert.ErrorIs(t, err, boom)

		found, err := s.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.CurrentDonors)
	})

	t.Run("execute on unknown drive is ErrNotFound", func(t *testing.T) {
		s := NewInMemoryStore()
		_, err := s.Execute(ctx, id.DriveID(uuid.New()),
			func(*models.Drive) error { return nil },
			func(*models.Drive) {},
		)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("returned drives do not alias stored blood types", func(t *testing.T) {
		s := NewInMemoryStore()
		d := newDrive(t, s)
		found, err := s.FindByID(ctx, d.ID)
		require.NoError(t, err)
		found.RequiredBloodTypes[0] = id.BloodTypeAPos

		again, err := s.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, id.BloodTypeONeg, again.RequiredBloodTypes[0])
	})

	t.Run("duplicate id is ErrAlreadyUsed", func(t *testing.T) {
		s := NewInMemoryStore()
		d := newDrive(t, s)
		assert.ErrorIs(t, s.Create(ctx, d), sentinel.ErrAlreadyUsed)
	})
}
