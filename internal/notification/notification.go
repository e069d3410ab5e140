// Package notification delivers emergency alerts. Delivery is best effort:
// callers log failures and carry on.
package notification

import (
	"context"
	"log/slog"
	"time"

	"lifeline/pkg/requestcontext"
)

// Message is the payload every sink delivers.
type Message struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

func newMessage(ctx context.Context, title, body string) Message {
	return Message{Title: title, Body: body, SentAt: requestcontext.Now(ctx)}
}

// LogSink writes notifications to the structured log. It is the default
// sink and the fallback for the Kafka sink.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(ctx context.Context, title, body string) error {
	if s.logger == nil {
		return nil
	}
	msg := newMessage(ctx, title, body)
	s.logger.InfoContext(ctx, "notification",
		"title", msg.Title,
		"body", msg.Body,
		"sent_at", msg.SentAt,
	)
	return nil
}
