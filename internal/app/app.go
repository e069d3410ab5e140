// Package app assembles the engine. Without external configuration every
// store, lock and sink runs in process; a PostgreSQL DSN, a Redis URL and
// Kafka brokers each swap in their durable counterpart.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	donationmetrics "lifeline/internal/donation/metrics"
	donationmodels "lifeline/internal/donation/models"
	donationservice "lifeline/internal/donation/service"
	drivemetrics "lifeline/internal/drive/metrics"
	driveservice "lifeline/internal/drive/service"
	eligibilityservice "lifeline/internal/eligibility/service"
	emergencymetrics "lifeline/internal/emergency/metrics"
	emergencyservice "lifeline/internal/emergency/service"
	"lifeline/internal/notification"
	"lifeline/internal/platform/config"
	"lifeline/internal/platform/httpserver"
	platformmetrics "lifeline/internal/platform/metrics"
	"lifeline/internal/platform/postgres"
	platformredis "lifeline/internal/platform/redis"
	reputationservice "lifeline/internal/reputation/service"
	"lifeline/internal/reputation/worker"
	id "lifeline/pkg/domain"
	"lifeline/pkg/platform/audit"
	"lifeline/pkg/platform/audit/publisher"
	"lifeline/pkg/platform/keylock"
)

const lockPrefix = "lifeline:lock:"

// Engine exposes the engine's services. Fields are safe for concurrent use.
type Engine struct {
	Users       UserDirectory
	Eligibility *eligibilityservice.Service
	Drives      *driveservice.Service
	Requests    *emergencyservice.RequestService
	Matcher     *emergencyservice.Matcher
	Responses   *emergencyservice.Coordinator
	Donations   *donationservice.Service
	Reputation  *reputationservice.Service
	Audit       *publisher.Publisher

	registry    *prometheus.Registry
	badgeWorker *worker.Worker
	checks      map[string]httpserver.Check
	closers     []func()
	logger      *slog.Logger
}

// Build wires the engine described by cfg. Close releases whatever Build
// opened, including on the error path.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		registry: prometheus.NewRegistry(),
		checks:   map[string]httpserver.Check{},
		logger:   logger,
	}
	e.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	platformMetrics := platformmetrics.New(e.registry)

	st := memoryStores()
	if cfg.Postgres.DSN != "" {
		pool, err := openPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, pool.Close)
		e.checks["postgres"] = func(ctx context.Context) error { return postgres.Health(ctx, pool) }
		st = postgresStores(pool)
	}

	locker, err := e.buildLocker(ctx, cfg)
	if err != nil {
		e.Close()
		return nil, err
	}

	notifier, err := e.buildNotifier(ctx, cfg.Kafka, platformMetrics)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.Audit = publisher.NewPublisher(st.audit, publisher.WithAsyncBuffer(cfg.Engine.AuditBufferSize))
	e.closers = append(e.closers, e.Audit.Close)
	emitter := &droppedEventCounter{publisher: e.Audit, metrics: platformMetrics}

	e.Users = st.users
	e.Eligibility = eligibilityservice.New(st.records, st.users,
		eligibilityservice.WithLogger(logger),
		eligibilityservice.WithAuditPublisher(emitter),
	)
	e.Drives = driveservice.New(st.drives,
		driveservice.WithLogger(logger),
		driveservice.WithAuditPublisher(emitter),
		driveservice.WithMetrics(drivemetrics.New(e.registry)),
	)

	emergencyOpts := []emergencyservice.Option{
		emergencyservice.WithLogger(logger),
		emergencyservice.WithAuditPublisher(emitter),
		emergencyservice.WithMetrics(emergencymetrics.New(e.registry)),
		emergencyservice.WithNotifier(notifier),
		emergencyservice.WithLocker(locker),
		emergencyservice.WithAverageSpeed(cfg.Engine.AverageSpeedKMH),
	}
	e.Requests = emergencyservice.NewRequestService(st.requests, emergencyOpts...)
	e.Matcher = emergencyservice.NewMatcher(st.requests, st.users, e.Eligibility, emergencyOpts...)
	e.Responses = emergencyservice.NewCoordinator(st.responses, st.requests, st.users, emergencyOpts...)

	reputationOpts := []reputationservice.Option{
		reputationservice.WithLogger(logger),
		reputationservice.WithAuditPublisher(emitter),
		reputationservice.WithTransactor(st.tx),
	}
	if cfg.Engine.AsyncBadges {
		e.badgeWorker = worker.New(cfg.Engine.BadgeQueueSize, logger, platformMetrics)
		reputationOpts = append(reputationOpts, reputationservice.WithBadgeQueue(e.badgeWorker))
	}
	donations := &deferredDonations{}
	e.Reputation = reputationservice.New(st.users, st.badges, st.notes, donations, reputationOpts...)

	e.Donations = donationservice.New(donationservice.Deps{
		Donations:   st.donations,
		Drives:      e.Drives,
		Requests:    e.Requests,
		Responses:   e.Responses,
		Eligibility: e.Eligibility,
		Donors:      st.users,
		Points:      e.Reputation,
	},
		donationservice.WithLogger(logger),
		donationservice.WithAuditPublisher(emitter),
		donationservice.WithMetrics(donationmetrics.New(e.registry)),
		donationservice.WithLocker(locker),
		donationservice.WithTransactor(st.tx),
	)
	donations.service = e.Donations

	if cfg.Engine.SeedDefaultBadges {
		if err := e.Reputation.SeedDefaultBadges(ctx); err != nil {
			e.Close()
			return nil, fmt.Errorf("seed badges: %w", err)
		}
	}
	return e, nil
}

// Run drives background work until ctx is cancelled. Buffered badge checks
// are flushed before it returns.
func (e *Engine) Run(ctx context.Context) error {
	if e.badgeWorker == nil {
		<-ctx.Done()
		return nil
	}
	err := e.badgeWorker.Run(ctx, e.Reputation)
	e.badgeWorker.Drain(context.WithoutCancel(ctx), e.Reputation)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// OpsHandler serves health, readiness and Prometheus metrics.
func (e *Engine) OpsHandler() http.Handler {
	return httpserver.NewOpsRouter(platformmetrics.Handler(e.registry), e.checks)
}

// Close releases resources in reverse order of acquisition.
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return pool, nil
}

func (e *Engine) buildLocker(ctx context.Context, cfg config.Config) (keylock.Locker, error) {
	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		return keylock.NewSharded(keylock.WithTimeout(cfg.Engine.LockTimeout)), nil
	}
	e.closers = append(e.closers, func() {
		if err := client.Close(); err != nil {
			e.logger.Warn("redis close failed", "error", err)
		}
	})
	e.checks["redis"] = client.Health
	return keylock.NewRedisLocker(client.Client, lockPrefix,
		keylock.WithTTL(cfg.Redis.LockTTL),
		keylock.WithWaitTimeout(cfg.Engine.LockTimeout),
	), nil
}

func (e *Engine) buildNotifier(ctx context.Context, cfg config.KafkaConfig, m *platformmetrics.Metrics) (notification.Sink, error) {
	logSink := notification.NewLogSink(e.logger)
	if len(cfg.Brokers) == 0 {
		return logSink, nil
	}
	client, err := notification.NewKafkaClient(cfg.Brokers, cfg.NotificationTopic)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, client.Close)
	e.checks["kafka"] = func(ctx context.Context) error { return client.Ping(ctx) }
	if err := notification.EnsureTopic(ctx, client, cfg.NotificationTopic, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		// The broker may forbid topic creation; delivery still works when the
		// topic already exists, and the fallback covers the rest.
		e.logger.WarnContext(ctx, "kafka topic provisioning failed", "topic", cfg.NotificationTopic, "error", err)
	}
	return notification.NewFallbackSink("kafka", notification.NewKafkaSink(client, cfg.NotificationTopic), "log", logSink,
		notification.WithMetrics(m),
		notification.WithLogger(e.logger),
	), nil
}

// deferredDonations breaks the construction cycle between the donation
// recorder, which awards points, and the reputation engine, which looks up
// donations for thank-you notes.
type deferredDonations struct {
	service *donationservice.Service
}

func (d *deferredDonations) GetDonation(ctx context.Context, donationID id.DonationID) (*donationmodels.Donation, error) {
	return d.service.GetDonation(ctx, donationID)
}

// droppedEventCounter counts audit events lost to a full publisher buffer.
type droppedEventCounter struct {
	publisher *publisher.Publisher
	metrics   *platformmetrics.Metrics
}

func (c *droppedEventCounter) Emit(ctx context.Context, event audit.Event) error {
	err := c.publisher.Emit(ctx, event)
	if errors.Is(err, publisher.ErrBufferFull) {
		c.metrics.IncrementAuditDropped()
	}
	return err
}
