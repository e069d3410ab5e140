package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"lifeline/internal/compatibility"
	"lifeline/internal/emergency/models"
	usermodels "lifeline/internal/users/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/tracing"
	"lifeline/pkg/requestcontext"
)

// Matcher ranks donors who can serve an emergency request.
type Matcher struct {
	requests    RequestStore
	donors      DonorDirectory
	eligibility EligibilityChecker
	options
}

func NewMatcher(requests RequestStore, donors DonorDirectory, eligibility EligibilityChecker, opts ...Option) *Matcher {
	return &Matcher{requests: requests, donors: donors, eligibility: eligibility, options: newOptions(opts)}
}

// FindCandidates returns opted-in donors whose blood is compatible with the
// request and who are eligible now, nearest first with ties broken by donor
// id. The request must be ACTIVE. No match is an empty slice, not an error.
func (m *Matcher) FindCandidates(ctx context.Context, requestID id.RequestID) (candidates []models.Candidate, err error) {
	ctx, span := tracer.Start(ctx, "emergency.FindCandidates",
		trace.WithAttributes(attribute.String("request_id", requestID.String())))
	defer func() { tracing.End(span, err) }()
	start := time.Now()

	req, err := m.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, wrapErr(err, "emergency request", "failed to load emergency request")
	}
	if !req.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "emergency request is %s", req.Status)
	}

	pool, err := m.donors.FindDonorsOptedIn(ctx, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor pool")
	}

	compatible := make([]*usermodels.User, 0, len(pool))
	for _, donor := range pool {
		ok, err := compatibility.CanDonate(donor.BloodType, req.BloodType)
		if err != nil {
			// a malformed directory entry never matches
			continue
		}
		if ok {
			compatible = append(compatible, donor)
		}
	}

	now := requestcontext.Now(ctx)
	eligible := make([]bool, len(compatible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.matchConcurrency)
	for i, donor := range compatible {
		g.Go(func() error {
			ok, err := m.eligibility.IsEligible(gctx, donor.ID, now)
			if err != nil {
				return err
			}
			eligible[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check donor eligibility")
	}

	candidates = make([]models.Candidate, 0, len(compatible))
	for i, donor := range compatible {
		if eligible[i] {
			candidates = append(candidates, models.Candidate{
				Donor:      donor,
				DistanceKM: donor.Location.DistanceKM(req.Location),
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DistanceKM != candidates[j].DistanceKM {
			return candidates[i].DistanceKM < candidates[j].DistanceKM
		}
		return candidates[i].Donor.ID.Less(candidates[j].Donor.ID)
	})

	m.metrics.ObserveMatch(len(candidates), start)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, nil
}
