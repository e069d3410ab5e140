// Package tracing holds the span helpers shared by service packages. Without a
// configured SDK the global provider is a no-op, so spans cost nothing in tests.
package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// End records err on span (if any) and ends it. Use with a named error return:
//
//	ctx, span := tracer.Start(ctx, "drive.Register")
//	defer func() { tracing.End(span, err) }()
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
