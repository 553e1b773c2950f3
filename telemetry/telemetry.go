// Package telemetry installs the OpenTelemetry SDK providers the solver
// reports its spans and instruments to.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Supported exporters.
const (
	ExporterNone   = "none"   // Spans and metrics are recorded but never exported
	ExporterStdout = "stdout" // Spans and metrics are written as JSON to Options.Writer
)

const (
	defaultServiceName    = "vinom-pathfinder"
	defaultMetricInterval = time.Minute
)

var ErrUnknownExporter = errors.New("unknown telemetry exporter")

// Options configures Setup.
type Options struct {
	Exporter       string        // ExporterNone or ExporterStdout, none when empty
	Writer         io.Writer     // Destination of the stdout exporter, os.Stdout when nil
	ServiceName    string        // Reported as service.name
	MetricInterval time.Duration // Export period of the metric reader
}

// Providers are the SDK providers installed by Setup.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Setup builds a tracer and a meter provider, registers them as the global
// providers and returns them so the caller can shut them down.
func Setup(ctx context.Context, opts Options) (*Providers, error) {
	if opts.Exporter == "" {
		opts.Exporter = ExporterNone
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.ServiceName == "" {
		opts.ServiceName = defaultServiceName
	}
	if opts.MetricInterval <= 0 {
		opts.MetricInterval = defaultMetricInterval
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(opts.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry resource: %w", err)
	}

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	switch opts.Exporter {
	case ExporterNone:
	case ExporterStdout:
		spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(opts.Writer))
		if err != nil {
			return nil, fmt.Errorf("creating span exporter: %w", err)
		}
		metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(opts.Writer))
		if err != nil {
			return nil, fmt.Errorf("creating metric exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))
		meterOpts = append(meterOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(opts.MetricInterval)),
		))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, opts.Exporter)
	}

	p := &Providers{
		Tracer: sdktrace.NewTracerProvider(traceOpts...),
		Meter:  sdkmetric.NewMeterProvider(meterOpts...),
	}
	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	return p, nil
}

// Shutdown flushes pending spans and metrics and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(p.Tracer.Shutdown(ctx), p.Meter.Shutdown(ctx))
}
