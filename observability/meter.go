package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/permkit/logger"
	"github.com/kbukum/permkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Get().Version,
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the permission engine.
type Metrics struct {
	decisionTotal      metric.Int64Counter
	decisionDuration   metric.Float64Histogram
	cacheHits          metric.Int64Counter
	cacheMisses        metric.Int64Counter
	collaboratorErrors metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	decisionTotal, err := meter.Int64Counter("authz.decision.total",
		metric.WithDescription("Total number of authorization decisions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authz.decision.total counter: %w", err)
	}

	decisionDuration, err := meter.Float64Histogram("authz.decision.duration",
		metric.WithDescription("Duration of authorization decisions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authz.decision.duration histogram: %w", err)
	}

	cacheHits, err := meter.Int64Counter("authz.cache.hits",
		metric.WithDescription("Permission cache hits"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authz.cache.hits counter: %w", err)
	}

	cacheMisses, err := meter.Int64Counter("authz.cache.misses",
		metric.WithDescription("Permission cache misses"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authz.cache.misses counter: %w", err)
	}

	collaboratorErrors, err := meter.Int64Counter("authz.collaborator.errors",
		metric.WithDescription("Failed collaborator calls by collaborator name"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authz.collaborator.errors counter: %w", err)
	}

	return &Metrics{
		decisionTotal:      decisionTotal,
		decisionDuration:   decisionDuration,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		collaboratorErrors: collaboratorErrors,
	}, nil
}

// RecordDecision records a rendered authorization decision.
func (m *Metrics) RecordDecision(ctx context.Context, source string, allowed bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("allowed", allowed),
	)
	m.decisionTotal.Add(ctx, 1, attrs)
	m.decisionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordCacheHit records a permission cache hit.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

// RecordCacheMiss records a permission cache miss.
func (m *Metrics) RecordCacheMiss(ctx context.Context) {
	m.cacheMisses.Add(ctx, 1)
}

// RecordCollaboratorError records a failed collaborator call.
func (m *Metrics) RecordCollaboratorError(ctx context.Context, collaborator string) {
	m.collaboratorErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collaborator", collaborator),
	))
}
