//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	donationservice "lifeline/internal/donation/service"
	emergencymodels "lifeline/internal/emergency/models"
	emergencyservice "lifeline/internal/emergency/service"
	"lifeline/internal/platform/config"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/requestcontext"
	"lifeline/pkg/testutil/containers"
)

// TestDurableStackScenario runs the AB-/CRITICAL scenario with PostgreSQL
// stores, the Redis lock and the Kafka notification sink.
func TestDurableStackScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	mgr := containers.GetManager()
	pg := mgr.GetPostgres(t)
	rd := mgr.GetRedis(t)
	broker := mgr.GetRedpanda(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	ctx := requestcontext.WithTime(context.Background(), now)
	require.NoError(t, pg.TruncateTables(ctx, "thank_you_notes", "user_badges", "badges", "donations",
		"emergency_responses", "emergency_requests", "donation_drives", "health_records", "users", "audit_events"))

	engine, err := Build(ctx, config.Config{
		Postgres: config.PostgresConfig{DSN: pg.DSN, MaxConns: 5, MigrateOnStart: true},
		Redis:    config.RedisConfig{URL: rd.URL, LockTTL: 5 * time.Second},
		Kafka: config.KafkaConfig{
			Brokers:           broker.Brokers,
			NotificationTopic: "lifeline-app-it",
			Partitions:        1,
			ReplicationFactor: 1,
		},
		Engine: config.EngineConfig{SeedDefaultBadges: true, LockTimeout: 5 * time.Second},
	}, nil)
	require.NoError(t, err)
	defer engine.Close()

	newUser := func(bt id.BloodType, role usermodels.Role) *usermodels.User {
		u, err := usermodels.NewUser(id.UserID(uuid.New()), uuid.NewString()+"@example.com", "Int", "Test",
			bt, id.Location{Lat: 52.52, Lon: 13.40}, role, true, now)
		require.NoError(t, err)
		require.NoError(t, engine.Users.Save(ctx, u))
		return u
	}
	patient := newUser(id.BloodTypeABNeg, usermodels.RolePatient)
	donorA := newUser(id.BloodTypeONeg, usermodels.RoleDonor)
	donorB := newUser(id.BloodTypeABNeg, usermodels.RoleDonor)

	req, err := engine.Requests.CreateRequest(ctx, emergencyservice.CreateRequestInput{
		PatientID:   patient.ID,
		BloodType:   "AB-",
		UnitsNeeded: 2,
		Location:    patient.Location,
		Urgency:     "CRITICAL",
	})
	require.NoError(t, err)

	for _, donor := range []*usermodels.User{donorA, donorB} {
		resp, err := engine.Responses.CreateResponse(ctx, donor.ID, req.ID)
		require.NoError(t, err)
		for _, next := range []emergencymodels.ResponseStatus{
			emergencymodels.ResponseEnRoute, emergencymodels.ResponseArrived, emergencymodels.ResponseCompleted,
		} {
			_, err = engine.Responses.AdvanceStatus(ctx, resp.ID, next)
			require.NoError(t, err)
		}
	}

	_, err = engine.Donations.CreateEmergencyDonation(ctx, donorA.ID, req.ID, donationservice.DonationInput{Units: 1.0})
	require.NoError(t, err)
	_, err = engine.Donations.CreateEmergencyDonation(ctx, donorB.ID, req.ID, donationservice.DonationInput{Units: 1.2})
	require.NoError(t, err)

	current, err := engine.Requests.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, emergencymodels.RequestFulfilled, current.Status)

	for _, donor := range []*usermodels.User{donorA, donorB} {
		u, err := engine.Users.FindByID(ctx, donor.ID)
		require.NoError(t, err)
		assert.Equal(t, 350, u.Points)

		badges, err := engine.Reputation.ListUserBadges(ctx, donor.ID)
		require.NoError(t, err)
		assert.Len(t, badges, 1)
	}
}
