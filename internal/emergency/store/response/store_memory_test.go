package response

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/emergency/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/sentinel"
)

func TestCreateIfNoActive(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	s := NewInMemoryStore()
	requestID := id.RequestID(uuid.New())
	donorID := id.UserID(uuid.New())

	first := models.NewResponse(id.ResponseID(uuid.New()), requestID, donorID, now)
	require.NoError(t, s.CreateIfNoActive(ctx, first))

	t.Run("second live response is refused", func(t *testing.T) {
		err := s.CreateIfNoActive(ctx, models.NewResponse(id.ResponseID(uuid.New()), requestID, donorID, now))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("other donors and requests are independent", func(t *testing.T) {
		assert.NoError(t, s.CreateIfNoActive(ctx, models.NewResponse(id.ResponseID(uuid.New()), requestID, id.UserID(uuid.New()), now)))
		assert.NoError(t, s.CreateIfNoActive(ctx, models.NewResponse(id.ResponseID(uuid.New()), id.RequestID(uuid.New()), donorID, now)))
	})

	t.Run("cancelling frees the pair", func(t *testing.T) {
		_, err := s.Execute(ctx, first.ID,
			func(*models.EmergencyResponse) error { return nil },
			func(r *models.EmergencyResponse) { r.ApplyStatus(models.ResponseCancelled, now) },
		)
		require.NoError(t, err)
		assert.NoError(t, s.CreateIfNoActive(ctx, models.NewResponse(id.ResponseID(uuid.New()), requestID, donorID, now)))

		pair, err := s.ListByDonorAndRequest(ctx, donorID, requestID)
		require.NoError(t, err)
		assert.Len(t, pair, 2)
	})
}
