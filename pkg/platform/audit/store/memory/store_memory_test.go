package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "lifeline/pkg/domain"
	audit "lifeline/pkg/platform/audit"
)

func TestInMemoryStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	donor := id.UserID(uuid.New())
	other := id.UserID(uuid.New())

	require.NoError(t, store.Append(ctx, audit.Event{UserID: donor, Action: string(audit.EventDonationRecorded)}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: other, Action: string(audit.EventBadgeGranted)}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: donor, Action: string(audit.EventPointsAwarded)}))

	events, err := store.ListByUser(ctx, donor)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventDonationRecorded), events[0].Action)
	assert.Equal(t, string(audit.EventPointsAwarded), events[1].Action)

	events[0].Action = "mutated"
	again, err := store.ListByUser(ctx, donor)
	require.NoError(t, err)
	assert.Equal(t, string(audit.EventDonationRecorded), again[0].Action)

	none, err := store.ListByUser(ctx, id.UserID(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, none)
}
