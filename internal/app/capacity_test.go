package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	donationservice "lifeline/internal/donation/service"
	driveservice "lifeline/internal/drive/service"
	"lifeline/internal/platform/config"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/requestcontext"
	"lifeline/pkg/testutil"
)

func TestDriveCapacityUnderLoad(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	testutil.Given(t, "an active drive with room for five donors", func(t *testing.T) {
		engine, err := Build(ctx, config.Config{}, nil)
		require.NoError(t, err)
		defer engine.Close()

		organizer := saveUser(t, ctx, engine, usermodels.RolePatient, now)
		drive, err := engine.Drives.CreateDrive(ctx, driveservice.CreateDriveInput{
			OrganizerID: organizer.ID,
			Title:       "Campus drive",
			Location:    id.Location{Lat: 48.85, Lon: 2.35},
			StartDate:   now.Add(-time.Hour),
			EndDate:     now.Add(time.Hour),
			MaxCapacity: 5,
		})
		require.NoError(t, err)

		testutil.When(t, "twenty donors record donations at once", func(t *testing.T) {
			var accepted, rejected atomic.Int32
			var wg sync.WaitGroup
			for range 20 {
				donor := saveUser(t, ctx, engine, usermodels.RoleDonor, now)
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := engine.Donations.CreateDriveDonation(ctx, donor.ID, drive.ID, donationservice.DonationInput{Units: 1})
					switch {
					case err == nil:
						accepted.Add(1)
					case dErrors.HasCode(err, dErrors.CodeCapacityExceeded):
						rejected.Add(1)
					}
				}()
			}
			wg.Wait()

			testutil.Then(t, "exactly five are accepted and the drive is full", func(t *testing.T) {
				assert.Equal(t, int32(5), accepted.Load())
				assert.Equal(t, int32(15), rejected.Load())

				current, err := engine.Drives.GetDrive(ctx, drive.ID)
				require.NoError(t, err)
				assert.Equal(t, 5, current.CurrentDonors)

				donations, err := engine.Donations.ListByDrive(ctx, drive.ID)
				require.NoError(t, err)
				assert.Len(t, donations, 5)
			})
		})
	})
}

func saveUser(t *testing.T, ctx context.Context, engine *Engine, role usermodels.Role, now time.Time) *usermodels.User {
	t.Helper()
	u, err := usermodels.NewUser(id.UserID(uuid.New()), uuid.NewString()+"@example.com", "Load", "Test",
		id.BloodTypeOPos, id.Location{Lat: 48.85, Lon: 2.35}, role, true, now)
	require.NoError(t, err)
	require.NoError(t, engine.Users.Save(ctx, u))
	return u
}
