// Package telem holds the Prometheus collectors shared by the services and
// the OpenTelemetry tracing bootstrap.
package telem

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	TranslationItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_cache_items_total",
			Help: "Menu items resolved by the translation cache, by result (hit, miss, static).",
		},
		[]string{"result"},
	)

	TranslationBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_batch_calls_total",
			Help: "Calls to the translation service, by status.",
		},
		[]string{"status"},
	)

	DeliveryQuotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_quotes_total",
			Help: "Delivery fee quotes, by outcome.",
		},
		[]string{"outcome"},
	)

	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders accepted, by service type.",
		},
		[]string{"service_type"},
	)

	SalesEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_events_total",
			Help: "Order events seen by the best-seller aggregator, by outcome.",
		},
		[]string{"outcome"},
	)

	ExternalCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "external_call_duration_seconds",
			Help:    "Latency of calls to external collaborators.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(TranslationItems, TranslationBatches, DeliveryQuotes, OrdersCreated, SalesEvents, ExternalCallDuration)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

type ShutdownTracing func(ctx context.Context) error

// InitTracing installs an OTLP/HTTP tracer provider. An empty endpoint
// leaves the global no-op provider in place.
func InitTracing(service, endpoint string) (ShutdownTracing, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String(service)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
