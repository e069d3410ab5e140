package audit

import (
	"context"
	"log/slog"

	id "lifeline/pkg/domain"
	"lifeline/pkg/requestcontext"
)

// Emitter is the subset of a publisher that services depend on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// LogAudit writes an audit log line and, when a publisher is configured, emits
// the matching Event. The "user_id", "subject" and "reason" attributes, when
// present as strings, are copied onto the event.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher Emitter, event AuditEvent, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}

	if logger != nil {
		args := append(attrList, "event", string(event), "log_type", "audit")
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}

	var userID id.UserID
	if raw := stringAttr(attrList, "user_id"); raw != "" {
		userID, _ = id.ParseUserID(raw)
	}
	if err := publisher.Emit(ctx, Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Subject:   stringAttr(attrList, "subject"),
		Action:    string(event),
		Reason:    stringAttr(attrList, "reason"),
		RequestID: requestID,
	}); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

// stringAttr returns the string value paired with key in a slog-style
// key/value list, or "" when the key is absent or not a string.
func stringAttr(kv []any, key string) string {
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok && k == key {
			v, _ := kv[i+1].(string)
			return v
		}
	}
	return ""
}
