package server

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/dropdown/pkg/protocol"
)

// eventSpanName names the span opened around every handled event.
const eventSpanName = "dropdown.event"

func newTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// startEventSpan opens the span for ev. The global provider is a no-op
// until the application installs one.
func startEventSpan(ctx context.Context, tracer trace.Tracer, sessionID string, ev *protocol.Event) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("dropdown.session_id", sessionID),
		attribute.String("dropdown.event.type", ev.Type.String()),
	}
	if ev.HID != "" {
		attrs = append(attrs, attribute.String("dropdown.event.hid", ev.HID))
	}
	if ev.Target != "" {
		attrs = append(attrs, attribute.String("dropdown.event.target", ev.Target))
	}
	if ev.Key != "" {
		attrs = append(attrs, attribute.String("dropdown.event.key", ev.Key))
	}
	return tracer.Start(ctx, eventSpanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

func endEventSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
