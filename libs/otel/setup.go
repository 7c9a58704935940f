package otelx

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/salonbook/libs/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Endpoint       string // host:port of an OTLP/gRPC collector
	Insecure       bool
	SampleRatio    float64
}

// ConfigFromEnv is opt-in: a terminal session rarely has a collector next to it.
func ConfigFromEnv(serviceName, version string) Config {
	ratio, err := strconv.ParseFloat(strings.TrimSpace(config.String("OTEL_SAMPLING_RATIO", "1")), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		ratio = 1
	}
	return Config{
		Enabled:        config.Bool("OTEL_ENABLED", false),
		ServiceName:    serviceName,
		ServiceVersion: version,
		Endpoint:       strings.TrimSpace(config.String("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
		Insecure:       config.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
		SampleRatio:    ratio,
	}
}

// Setup installs W3C propagation and, when enabled, a batching tracer provider. The
// returned func flushes pending spans and must run before exit.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(3 * time.Second),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		// short-lived CLI process
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
