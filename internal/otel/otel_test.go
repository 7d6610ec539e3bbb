package otel_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/hanpama/schemagraph/internal/eventbus"
	"github.com/hanpama/schemagraph/internal/events"
	"github.com/hanpama/schemagraph/internal/otel"
	"github.com/hanpama/schemagraph/internal/reqid"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpansFromEvents(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	unsubscribe := otel.Register(tp.Tracer("test"))
	defer unsubscribe()

	ctx, _ := reqid.NewContext(context.Background())
	req := httptest.NewRequest("POST", "/merge", nil)

	eventbus.Publish(ctx, events.HTTPStart{Request: req})
	eventbus.Publish(ctx, events.PipelineStart{Op: "merge"})
	eventbus.Publish(ctx, events.PipelineFinish{Op: "merge", Conflicts: 2, Err: errors.New("2 merge conflicts")})
	eventbus.Publish(ctx, events.HTTPFinish{Request: req, Route: "/merge", Status: 409})

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "schemagraph.merge", spans[0].Name())
	require.Equal(t, "http.request", spans[1].Name())
	require.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	require.Len(t, spans[0].Events(), 1)
}

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := otel.Setup("", "schemagraph")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
