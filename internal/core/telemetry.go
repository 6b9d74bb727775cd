// AngelaMos | 2026
// telemetry.go

package core

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/carterperez-dev/epic-events/internal/config"
)

const (
	exportTimeout   = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Telemetry owns the tracer provider for one invocation. Exporting is
// true only when an OTLP collector is configured.
type Telemetry struct {
	provider  *sdktrace.TracerProvider
	Tracer    trace.Tracer
	Exporting bool
}

// NewTelemetry always returns a recording provider so that audit span
// events attach to the command span. Spans leave the process only when
// otel.enabled is set and an endpoint is configured.
func NewTelemetry(
	ctx context.Context,
	cfg config.OtelConfig,
	app config.AppConfig,
) (*Telemetry, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return newTelemetry(sdktrace.NewTracerProvider(), cfg.ServiceName, false), nil
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := commandResource(ctx, cfg, app)
	if err != nil {
		return nil, err
	}

	// One command per process: export each span as it ends.
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(sampleRatio(cfg.SampleRate)),
		)),
	)
	otel.SetTracerProvider(provider)

	return newTelemetry(provider, cfg.ServiceName, true), nil
}

func newTelemetry(provider *sdktrace.TracerProvider, name string, exporting bool) *Telemetry {
	return &Telemetry{
		provider:  provider,
		Tracer:    provider.Tracer(name),
		Exporting: exporting,
	}
}

func exporterOptions(cfg config.OtelConfig) []otlptracegrpc.Option {
	creds := credentials.NewClientTLSFromCert(nil, "")
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	}

	return []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(exportTimeout),
		otlptracegrpc.WithTLSCredentials(creds),
	}
}

func commandResource(
	ctx context.Context,
	cfg config.OtelConfig,
	app config.AppConfig,
) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(app.Version),
			attribute.String("environment", app.Environment),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

func sampleRatio(rate float64) float64 {
	if rate <= 0 || rate > 1 {
		return 1
	}
	return rate
}

// Shutdown flushes pending spans. Safe to call on a non-exporting
// provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// TraceIDFromContext is empty outside a sampled span.
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
