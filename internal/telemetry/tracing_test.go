package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// Tests here swap the global provider, so they do not run in parallel.

func TestSpansRecordedThroughGlobalProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp, err := InitTracerProvider(context.Background(), "test-service", sdktrace.WithSpanProcessor(rec))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "generation", attribute.String("site_url", "https://example.com/"))
	require.NotEmpty(t, TraceID(ctx))
	_, child := StartSpan(ctx, "scrape")
	End(child, nil)
	End(span, errors.New("boom"))

	ended := rec.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "scrape", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, ended[1].SpanContext().TraceID(), ended[0].SpanContext().TraceID())

	require.Equal(t, "generation", ended[1].Name())
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Equal(t, "boom", ended[1].Status().Description)
	require.Contains(t, ended[1].Attributes(), attribute.String("site_url", "https://example.com/"))
	require.Equal(t, "test-service", serviceName(ended[1]))
}

func TestTraceIDEmptyWithoutSpan(t *testing.T) {
	require.Empty(t, TraceID(context.Background()))
}

func serviceName(span sdktrace.ReadOnlySpan) string {
	for _, kv := range span.Resource().Attributes() {
		if kv.Key == "service.name" {
			return kv.Value.AsString()
		}
	}
	return ""
}
