package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp, mp := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout exports spans and metrics", func(t *testing.T) {
		restoreGlobals(t)
		var buf bytes.Buffer
		p, err := Setup(ctx, Options{Exporter: ExporterStdout, Writer: &buf})
		require.NoError(t, err)

		_, span := otel.Tracer("test").Start(ctx, "maze.walk")
		span.End()
		counter, err := otel.Meter("test").Int64Counter("maze.steps")
		require.NoError(t, err)
		counter.Add(ctx, 3)

		require.NoError(t, p.Shutdown(ctx))
		out := buf.String()
		assert.Contains(t, out, "maze.walk")
		assert.Contains(t, out, "maze.steps")
		assert.Contains(t, out, defaultServiceName)
	})

	t.Run("installs global providers", func(t *testing.T) {
		restoreGlobals(t)
		p, err := Setup(ctx, Options{})
		require.NoError(t, err)
		defer func() { _ = p.Shutdown(ctx) }()

		assert.Same(t, p.Tracer, otel.GetTracerProvider())
		assert.Same(t, p.Meter, otel.GetMeterProvider())

		_, span := otel.Tracer("test").Start(ctx, "recorded")
		assert.True(t, span.SpanContext().IsValid())
		span.End()
	})

	t.Run("unknown exporter", func(t *testing.T) {
		restoreGlobals(t)
		_, err := Setup(ctx, Options{Exporter: "carrier-pigeon"})
		assert.ErrorIs(t, err, ErrUnknownExporter)
	})
}
