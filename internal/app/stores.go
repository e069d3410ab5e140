package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	donationservice "lifeline/internal/donation/service"
	donationstore "lifeline/internal/donation/store"
	driveservice "lifeline/internal/drive/service"
	drivestore "lifeline/internal/drive/store"
	eligibilityservice "lifeline/internal/eligibility/service"
	eligibilitystore "lifeline/internal/eligibility/store"
	emergencyservice "lifeline/internal/emergency/service"
	requeststore "lifeline/internal/emergency/store/request"
	responsestore "lifeline/internal/emergency/store/response"
	reputationservice "lifeline/internal/reputation/service"
	badgestore "lifeline/internal/reputation/store/badge"
	notestore "lifeline/internal/reputation/store/note"
	usermodels "lifeline/internal/users/models"
	userstore "lifeline/internal/users/store"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/audit"
	auditmemory "lifeline/pkg/platform/audit/store/memory"
	auditpostgres "lifeline/pkg/platform/audit/store/postgres"
	txcontext "lifeline/pkg/platform/tx"
)

// UserDirectory is the user store as the engine consumes it. Account
// management lives outside the engine; Save exists for seeding and tests.
type UserDirectory interface {
	Save(ctx context.Context, user *usermodels.User) error
	FindByID(ctx context.Context, userID id.UserID) (*usermodels.User, error)
	FindByRole(ctx context.Context, role usermodels.Role) ([]*usermodels.User, error)
	FindDonorsOptedIn(ctx context.Context, bloodType *id.BloodType) ([]*usermodels.User, error)
	AddPoints(ctx context.Context, userID id.UserID, amount int) (int, error)
}

type stores struct {
	users     UserDirectory
	records   eligibilityservice.HealthRecordStore
	drives    driveservice.DriveStore
	requests  emergencyservice.RequestStore
	responses emergencyservice.ResponseStore
	donations donationservice.DonationStore
	badges    reputationservice.BadgeStore
	notes     reputationservice.NoteStore
	audit     audit.Store
	// tx is nil for the in-memory stores.
	tx        txcontext.Beginner
}

func memoryStores() stores {
	return stores{
		users:     userstore.NewInMemoryStore(),
		records:   eligibilitystore.NewInMemoryStore(),
		drives:    drivestore.NewInMemoryStore(),
		requests:  requeststore.NewInMemoryStore(),
		responses: responsestore.NewInMemoryStore(),
		donations: donationstore.NewInMemoryStore(),
		badges:    badgestore.NewInMemoryStore(),
		notes:     notestore.NewInMemoryStore(),
		audit:     auditmemory.NewInMemoryStore(),
	}
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		tx:        pool,
		users:     userstore.NewPostgres(pool),
		records:   eligibilitystore.NewPostgres(pool),
		drives:    drivestore.NewPostgres(pool),
		requests:  requeststore.NewPostgres(pool),
		responses: responsestore.NewPostgres(pool),
		donations: donationstore.NewPostgres(pool),
		badges:    badgestore.NewPostgres(pool),
		notes:     notestore.NewPostgres(pool),
		audit:     auditpostgres.New(pool),
	}
}
