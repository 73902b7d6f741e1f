// Package telemetry initializes OpenTelemetry metrics export and defines the
// dashboard's instruments.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Shutdown flushes and stops the exporters started by Init.
type Shutdown func(ctx context.Context) error

// Init configures the global meter provider. If endpoint is empty, export
// is disabled and the default no-op provider stays in place.
func Init(ctx context.Context, endpoint, serviceName, version string, insecure bool) (Shutdown, error) {
	if endpoint == "" {
		return func(ctx context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(endpoint),
	}
	if insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	metricExp, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExp,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// Meter returns the global meter for the given instrumentation scope.
func Meter(name string) metric.Meter {
	return otel.GetMeterProvider().Meter(name)
}

// DashboardMetrics counts dashboard transitions and live sessions.
type DashboardMetrics struct {
	events          metric.Int64Counter
	lookupsStarted  metric.Int64Counter
	lookupsResolved metric.Int64Counter
	lookupsStale    metric.Int64Counter
	liveSessions    metric.Int64UpDownCounter
}

// NewDashboardMetrics creates the instruments on m.
func NewDashboardMetrics(m metric.Meter) (*DashboardMetrics, error) {
	var (
		d   DashboardMetrics
		err error
	)
	if d.events, err = m.Int64Counter("dashboard.events",
		metric.WithDescription("Dashboard events applied, by event name")); err != nil {
		return nil, fmt.Errorf("telemetry: dashboard.events: %w", err)
	}
	if d.lookupsStarted, err = m.Int64Counter("dashboard.lookups.started"); err != nil {
		return nil, fmt.Errorf("telemetry: dashboard.lookups.started: %w", err)
	}
	if d.lookupsResolved, err = m.Int64Counter("dashboard.lookups.resolved"); err != nil {
		return nil, fmt.Errorf("telemetry: dashboard.lookups.resolved: %w", err)
	}
	if d.lookupsStale, err = m.Int64Counter("dashboard.lookups.stale",
		metric.WithDescription("Lookup completions ignored because a newer lookup was issued")); err != nil {
		return nil, fmt.Errorf("telemetry: dashboard.lookups.stale: %w", err)
	}
	if d.liveSessions, err = m.Int64UpDownCounter("dashboard.sessions.live"); err != nil {
		return nil, fmt.Errorf("telemetry: dashboard.sessions.live: %w", err)
	}
	return &d, nil
}

func (d *DashboardMetrics) EventApplied(ctx context.Context, event string) {
	d.events.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

func (d *DashboardMetrics) LookupStarted(ctx context.Context)  { d.lookupsStarted.Add(ctx, 1) }
func (d *DashboardMetrics) LookupResolved(ctx context.Context) { d.lookupsResolved.Add(ctx, 1) }
func (d *DashboardMetrics) LookupStale(ctx context.Context)    { d.lookupsStale.Add(ctx, 1) }
func (d *DashboardMetrics) SessionOpened(ctx context.Context)  { d.liveSessions.Add(ctx, 1) }
func (d *DashboardMetrics) SessionClosed(ctx context.Context)  { d.liveSessions.Add(ctx, -1) }
