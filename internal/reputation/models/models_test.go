package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

func TestNewBadge(t *testing.T) {
	b, err := NewBadge(id.BadgeID(uuid.New()), "  Lifesaver ", "", 500)
	require.NoError(t, err)
	assert.Equal(t, "Lifesaver", b.Title)
	assert.False(t, b.EarnedWith(499))
	assert.True(t, b.EarnedWith(500))

	_, err = NewBadge(id.BadgeID(uuid.New()), " ", "", 1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	_, err = NewBadge(id.BadgeID(uuid.New()), "x", "", -1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog, 4)
	assert.Equal(t, "First Drop", catalog[0].Title)
	assert.Equal(t, 2500, catalog[3].PointsRequired)
}

func TestNewThankYouNote(t *testing.T) {
	now := time.Now().UTC()
	patient, donor, donation := id.UserID(uuid.New()), id.UserID(uuid.New()), id.DonationID(uuid.New())

	n, err := NewThankYouNote(id.NoteID(uuid.New()), patient, donor, donation, " thank you ", true, now)
	require.NoError(t, err)
	assert.Equal(t, "thank you", n.Message)
	assert.True(t, n.Author().IsNil())

	n.Anonymous = false
	assert.Equal(t, patient, n.Author())

	cases := map[string]func() (*ThankYouNote, error){
		"blank message": func() (*ThankYouNote, error) {
			return NewThankYouNote(id.NoteID(uuid.New()), patient, donor, donation, "  ", false, now)
		},
		"long message": func() (*ThankYouNote, error) {
			return NewThankYouNote(id.NoteID(uuid.New()), patient, donor, donation, strings.Repeat("a", maxMessageLength+1), false, now)
		},
		"missing donation": func() (*ThankYouNote, error) {
			return NewThankYouNote(id.NoteID(uuid.New()), patient, donor, id.DonationID{}, "hi", false, now)
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := build()
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "got %v", err)
		})
	}
}
