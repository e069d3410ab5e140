package notification

import (
	"context"
	"errors"
	"log/slog"

	platformmetrics "lifeline/internal/platform/metrics"
	"lifeline/pkg/platform/circuit"
)

// Sink is anything that can deliver a notification.
type Sink interface {
	Notify(ctx context.Context, title, body string) error
}

// FallbackSink tries the primary sink first and hands the notification to
// the fallback when the primary fails. A breaker tracks consecutive primary
// failures so the degraded state shows up in logs and metrics.
type FallbackSink struct {
	primary      Sink
	primaryName  string
	fallback     Sink
	fallbackName string
	breaker      *circuit.Breaker
	metrics      *platformmetrics.Metrics
	logger       *slog.Logger
}

type FallbackOption func(*FallbackSink)

func WithMetrics(m *platformmetrics.Metrics) FallbackOption {
	return func(s *FallbackSink) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) FallbackOption {
	return func(s *FallbackSink) {
		s.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) FallbackOption {
	return func(s *FallbackSink) {
		s.breaker = b
	}
}

func NewFallbackSink(primaryName string, primary Sink, fallbackName string, fallback Sink, opts ...FallbackOption) *FallbackSink {
	s := &FallbackSink{
		primary:      primary,
		primaryName:  primaryName,
		fallback:     fallback,
		fallbackName: fallbackName,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = circuit.New()
	}
	return s
}

func (s *FallbackSink) Notify(ctx context.Context, title, body string) error {
	primaryErr := s.primary.Notify(ctx, title, body)
	if primaryErr == nil {
		s.metrics.IncrementNotificationSent(s.primaryName)
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.metrics.SetNotificationCircuitOpen(false)
			s.log(ctx, slog.LevelInfo, "notification sink recovered")
		}
		return nil
	}

	s.metrics.IncrementNotificationFailure(s.primaryName)
	if _, change := s.breaker.RecordFailure(); change.Opened {
		s.metrics.SetNotificationCircuitOpen(true)
		s.log(ctx, slog.LevelWarn, "notification sink degraded, using fallback", "error", primaryErr)
	}
	if err := s.fallback.Notify(ctx, title, body); err != nil {
		s.metrics.IncrementNotificationFailure(s.fallbackName)
		return errors.Join(primaryErr, err)
	}
	s.metrics.IncrementNotificationSent(s.fallbackName)
	return nil
}

// Degraded reports whether the primary sink's circuit is open.
func (s *FallbackSink) Degraded() bool {
	return s.breaker.IsOpen()
}

func (s *FallbackSink) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "sink", s.primaryName)
	s.logger.Log(ctx, level, msg, args...)
}
