// Package telemetry installs the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Options selects where spans go. With neither an endpoint nor a writer the
// global no-op provider is left in place.
type Options struct {
	ServiceName string
	// Endpoint is an OTLP/HTTP collector, e.g. localhost:4318.
	Endpoint string
	// Writer receives pretty-printed spans when Endpoint is empty.
	Writer io.Writer
}

// NewProvider builds a tracer provider, sets it as the global one and
// returns its teardown.
func NewProvider(ctx context.Context, opts Options) (func(context.Context) error, error) {
	exp, err := newExporter(ctx, opts)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return func(context.Context) error { return nil }, nil
	}

	name := opts.ServiceName
	if name == "" {
		name = "usersync"
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(name),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, opts Options) (trace.SpanExporter, error) {
	switch {
	case opts.Endpoint != "":
		endpoint := strings.TrimPrefix(strings.TrimPrefix(opts.Endpoint, "http://"), "https://")
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithInsecure(),
			otlptracehttp.WithEndpoint(endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("telemetry: otlp exporter: %w", err)
		}
		return exp, nil
	case opts.Writer != nil:
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(opts.Writer),
			stdouttrace.WithPrettyPrint(),
			stdouttrace.WithoutTimestamps(),
		)
		if err != nil {
			return nil, fmt.Errorf("telemetry: stdout exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, nil
	}
}
