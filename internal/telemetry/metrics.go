package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitMeterProvider wires the Prometheus exporter and returns the /metrics
// handler plus a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// Metrics are the storefront's own counters.
type Metrics struct {
	CheckoutsStarted metric.Int64Counter
	CheckoutsFailed  metric.Int64Counter
	CatalogFallbacks metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	started, err := meter.Int64Counter("storefront.checkouts.started",
		metric.WithDescription("Transactions created from the checkout view"))
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter("storefront.checkouts.failed",
		metric.WithDescription("Transaction creations that returned an error"))
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter("storefront.catalog.fallbacks",
		metric.WithDescription("Catalog list requests that failed and rendered empty"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		CheckoutsStarted: started,
		CheckoutsFailed:  failed,
		CatalogFallbacks: fallbacks,
	}, nil
}
