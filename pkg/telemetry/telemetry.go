package telemetry

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	meterProvider        *sdkmetric.MeterProvider
	requestCounter       metric.Int64Counter
	latencyHist          metric.Float64Histogram
	dbCallCounter        metric.Int64Counter
	dbCallLatency        metric.Float64Histogram
	businessEventCounter metric.Int64Counter
	initOnce             sync.Once
	httpHandler          http.Handler
)

// Init configures OpenTelemetry metrics with a Prometheus exporter and
// runtime instrumentation. When OTEL_EXPORTER_OTLP_METRICS_ENDPOINT is set,
// metrics are additionally pushed over OTLP/HTTP.
func Init(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	var initErr error

	initOnce.Do(func() {
		exp, err := prometheus.New(prometheus.WithoutUnits())
		if err != nil {
			initErr = err
			return
		}

		res, err := resource.Merge(
			resource.Default(),
			resource.NewSchemaless(
				semconv.ServiceName(serviceName),
			),
		)
		if err != nil {
			initErr = err
			return
		}

		options := []sdkmetric.Option{
			sdkmetric.WithReader(exp),
			sdkmetric.WithResource(res),
		}

		if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); endpoint != "" {
			otlpExp, err := otlpmetrichttp.New(ctx,
				otlpmetrichttp.WithEndpointURL(endpoint),
			)
			if err != nil {
				initErr = err
				return
			}
			options = append(options, sdkmetric.WithReader(
				sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(30*time.Second)),
			))
		}

		meterProvider = sdkmetric.NewMeterProvider(options...)
		otel.SetMeterProvider(meterProvider)
		httpHandler = promhttp.Handler()

		meter := meterProvider.Meter("church-backend/server")
		requestCounter, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests processed"),
		)
		if err != nil {
			initErr = err
			return
		}

		latencyHist, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("HTTP request duration in seconds"),
		)
		if err != nil {
			initErr = err
			return
		}

		dbCallCounter, err = meter.Int64Counter(
			"db_calls_total",
			metric.WithDescription("Total number of database operations"),
		)
		if err != nil {
			initErr = err
			return
		}

		dbCallLatency, err = meter.Float64Histogram(
			"db_call_duration_seconds",
			metric.WithDescription("Duration of database operations in seconds"),
		)
		if err != nil {
			initErr = err
			return
		}

		businessEventCounter, err = meter.Int64Counter(
			"business_events_total",
			metric.WithDescription("Congregation record changes by resource and outcome"),
		)
		if err != nil {
			initErr = err
			return
		}

		// Go runtime metrics (goroutines, GC, etc.)
		_ = runtime.Start(
			runtime.WithMinimumReadMemStatsInterval(10*time.Second),
			runtime.WithMeterProvider(meterProvider),
		)
	})

	if initErr != nil {
		return nil, initErr
	}

	return func(ctx context.Context) error {
		if meterProvider != nil {
			return meterProvider.Shutdown(ctx)
		}
		return nil
	}, nil
}

// Handler returns the Prometheus /metrics handler.
func Handler() http.Handler {
	if httpHandler != nil {
		return httpHandler
	}
	return http.NotFoundHandler()
}

// HTTPMetricsMiddleware records request counts and latency.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestCounter == nil || latencyHist == nil {
			next.ServeHTTP(w, r)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		attrs := attributeSet(r.Method, r.URL.Path, recorder.status)
		requestCounter.Add(r.Context(), 1, metric.WithAttributes(attrs...))
		latencyHist.Record(r.Context(), time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(statusCode int) {
	s.status = statusCode
	s.ResponseWriter.WriteHeader(statusCode)
}

func attributeSet(method, route string, status int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	}
}

// RecordDBCall tracks latency for database operations.
func RecordDBCall(ctx context.Context, operation string, duration time.Duration, err error) {
	if dbCallCounter == nil || dbCallLatency == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.Bool("db.success", err == nil),
	}

	dbCallCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	dbCallLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBusinessEvent counts record changes like member creation or
// contribution entry.
func RecordBusinessEvent(ctx context.Context, action string, success bool) {
	if businessEventCounter == nil {
		return
	}

	businessEventCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("business.action", action),
		attribute.String("business.outcome", outcomeLabel(success)),
	))
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
