package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	SpanTextChanged = "reveal.text_changed"
	SpanSetLength   = "reveal.set_length"
	SpanResetLength = "reveal.reset_length"
	SpanSSHSession  = "ssh.session"
)

// Attribute keys.
const (
	AttrSessionID    = "session.id"
	AttrTextBytes    = "text.bytes"
	AttrTotalWords   = "reveal.total_words"
	AttrVisibleWords = "reveal.visible_words"
	AttrLength       = "scroll.length"
	AttrLengthCustom = "scroll.custom"
	AttrSSHUser      = "ssh.user"
)

// Noop returns a tracer that records nothing.
func Noop() trace.Tracer {
	return noop.NewTracerProvider().Tracer("noop")
}

// StartSession starts a span tagged with the reveal session ID.
func StartSession(ctx context.Context, tracer trace.Tracer, name, sessionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Noop()
	}
	attrs = append(attrs, attribute.String(AttrSessionID, sessionID))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
