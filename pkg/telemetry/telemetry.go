package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeforge/dataflow/pkg/types"
)

const (
	// Service name for telemetry
	serviceName = "nodeforge-dataflow-engine"

	// Metric names
	metricFrameTicks          = "frame.ticks.total"
	metricFrameDuration       = "frame.tick.duration"
	metricFrameSuccess        = "frame.ticks.success.total"
	metricFrameFailure        = "frame.ticks.failure.total"
	metricNodeExecutions      = "node.executions.total"
	metricNodeDuration        = "node.execution.duration"
	metricNodeSuccess         = "node.executions.success.total"
	metricNodeFailure         = "node.executions.failure.total"
	metricHTTPCalls           = "http.calls.total"
	metricHTTPDuration        = "http.call.duration"
	metricConnectionStatus    = "connection.status_changes.total"
	metricConnectionMessages  = "connection.messages.total"
)

// Provider manages OpenTelemetry setup and provides access to tracers and meters.
type Provider struct {
	registry       *promclient.Registry
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	// Metrics instruments
	frameTicks          metric.Int64Counter
	frameDuration       metric.Float64Histogram
	frameSuccess        metric.Int64Counter
	frameFailure        metric.Int64Counter
	nodeExecutions      metric.Int64Counter
	nodeDuration        metric.Float64Histogram
	nodeSuccess         metric.Int64Counter
	nodeFailure         metric.Int64Counter
	httpCalls           metric.Int64Counter
	httpDuration        metric.Float64Histogram
	connectionStatus    metric.Int64Counter
	connectionMessages  metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration
type Config struct {
	// ServiceName is the name of the service for telemetry
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment (e.g., "production", "staging", "development")
	Environment string

	// EnableTracing enables distributed tracing
	EnableTracing bool

	// EnableMetrics enables metrics collection
	EnableMetrics bool
}

// DefaultConfig returns default telemetry configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with Prometheus metrics exporter.
// It initializes OpenTelemetry with the given configuration and returns a provider
// that can be used to create tracers and record metrics.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	// Create resource with service information
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Initialize metrics if enabled
	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	// Initialize tracing if enabled
	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

// initMetrics initializes the metrics provider with Prometheus exporter
func (p *Provider) initMetrics(res *resource.Resource) error {
	// Create Prometheus exporter against our own registry, so the host can
	// scrape it through MetricsHandler without touching the global one.
	p.registry = promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(p.registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	// Create meter provider with the exporter
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	// Set as global meter provider
	otel.SetMeterProvider(p.meterProvider)

	// Create meter
	p.meter = p.meterProvider.Meter(serviceName)

	// Create metric instruments
	if err := p.createMetricInstruments(); err != nil {
		return fmt.Errorf("failed to create metric instruments: %w", err)
	}

	return nil
}

// initTracing initializes the tracing provider
func (p *Provider) initTracing() {
	// For now, use the global tracer provider
	// In production, this should be configured with appropriate exporters (OTLP, Jaeger, etc.)
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

// createMetricInstruments creates all metric instruments
func (p *Provider) createMetricInstruments() error {
	var err error

	// Frame metrics
	p.frameTicks, err = p.meter.Int64Counter(
		metricFrameTicks,
		metric.WithDescription("Total number of scheduler ticks"),
	)
	if err != nil {
		return err
	}

	p.frameDuration, err = p.meter.Float64Histogram(
		metricFrameDuration,
		metric.WithDescription("Tick duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.frameSuccess, err = p.meter.Int64Counter(
		metricFrameSuccess,
		metric.WithDescription("Total number of ticks that completed without a graph validation error"),
	)
	if err != nil {
		return err
	}

	p.frameFailure, err = p.meter.Int64Counter(
		metricFrameFailure,
		metric.WithDescription("Total number of ticks skipped due to a graph validation error"),
	)
	if err != nil {
		return err
	}

	// Node metrics
	p.nodeExecutions, err = p.meter.Int64Counter(
		metricNodeExecutions,
		metric.WithDescription("Total number of node executions"),
	)
	if err != nil {
		return err
	}

	p.nodeDuration, err = p.meter.Float64Histogram(
		metricNodeDuration,
		metric.WithDescription("Node execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.nodeSuccess, err = p.meter.Int64Counter(
		metricNodeSuccess,
		metric.WithDescription("Total number of successful node executions"),
	)
	if err != nil {
		return err
	}

	p.nodeFailure, err = p.meter.Int64Counter(
		metricNodeFailure,
		metric.WithDescription("Total number of failed node executions"),
	)
	if err != nil {
		return err
	}

	// HTTP metrics
	p.httpCalls, err = p.meter.Int64Counter(
		metricHTTPCalls,
		metric.WithDescription("Total number of HTTP calls reported through RecordHTTPCall"),
	)
	if err != nil {
		return err
	}

	p.httpDuration, err = p.meter.Float64Histogram(
		metricHTTPDuration,
		metric.WithDescription("HTTP call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	// Connection metrics
	p.connectionStatus, err = p.meter.Int64Counter(
		metricConnectionStatus,
		metric.WithDescription("Total number of connection adapter status transitions"),
	)
	if err != nil {
		return err
	}

	p.connectionMessages, err = p.meter.Int64Counter(
		metricConnectionMessages,
		metric.WithDescription("Total number of messages sent or received by connection adapters"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// MetricsHandler returns an http.Handler serving this provider's metrics
// in Prometheus exposition format, for the host to mount wherever it
// serves diagnostics. Returns nil when metrics are disabled.
func (p *Provider) MetricsHandler() http.Handler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// RecordFrameTick records metrics for a single scheduler tick
func (p *Provider) RecordFrameTick(ctx context.Context, flowID string, duration time.Duration, success bool, nodesExecuted int) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("flow.id", flowID),
		attribute.Int("nodes.executed", nodesExecuted),
	}

	// Record tick count
	p.frameTicks.Add(ctx, 1, metric.WithAttributes(attrs...))

	// Record duration
	p.frameDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	// Record success/failure
	if success {
		p.frameSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.frameFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNodeExecution records metrics for a node execution
func (p *Provider) RecordNodeExecution(ctx context.Context, nodeID string, nodeType types.NodeType, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("node.id", nodeID),
		attribute.String("node.type", string(nodeType)),
	}

	// Record execution count
	p.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))

	// Record duration
	p.nodeDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	// Record success/failure
	if success {
		p.nodeSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.nodeFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordHTTPCall records metrics for an HTTP call
func (p *Provider) RecordHTTPCall(ctx context.Context, method, url string, statusCode int, duration time.Duration) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.url", url),
		attribute.Int("http.status_code", statusCode),
	}

	// Record HTTP call count
	p.httpCalls.Add(ctx, 1, metric.WithAttributes(attrs...))

	// Record duration
	p.httpDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordConnectionStatusChange records a connection adapter state transition.
func (p *Provider) RecordConnectionStatusChange(ctx context.Context, connectionID, protocol, status string) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("connection.id", connectionID),
		attribute.String("connection.protocol", protocol),
		attribute.String("connection.status", status),
	}

	p.connectionStatus.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordConnectionMessage records a message sent or received on a connection adapter.
func (p *Provider) RecordConnectionMessage(ctx context.Context, connectionID, protocol, direction string) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("connection.id", connectionID),
		attribute.String("connection.protocol", protocol),
		attribute.String("direction", direction),
	}

	p.connectionMessages.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Shutdown gracefully shuts down the telemetry provider
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return nil
}
