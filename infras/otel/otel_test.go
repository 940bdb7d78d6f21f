package otel_test

import (
	"context"
	"net/http"
	"testing"

	"hostly/config"
	"hostly/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNew_ContinuesUpstreamTrace(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "hostly-test"
	cfg.External.Otel.SampleRatio = 1

	tracer := otel.New(cfg)
	t.Cleanup(func() { _ = otel.Shutdown(context.Background(), tracer) })

	header := http.Header{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx := otel.Extract(context.Background(), propagation.HeaderCarrier(header))

	ctx, scope := tracer.NewScope(ctx, "test", "child")
	defer scope.End()

	span := trace.SpanContextFromContext(ctx)
	require.True(t, span.IsValid())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", span.TraceID().String())
	assert.NotEqual(t, "00f067aa0ba902b7", span.SpanID().String())
	assert.True(t, span.IsSampled())
}
