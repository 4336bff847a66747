// Package telemetry provides OpenTelemetry integration for distributed tracing and metrics.
// It enables observability for the scheduler's tick loop, node executions, HTTP calls,
// and connection adapter lifecycle, with support for:
//   - Distributed tracing with trace IDs and span context propagation
//   - Prometheus metrics for tick, node, HTTP, and connection statistics
//   - Custom metrics exporters and collectors
//   - Integration with industry-standard observability platforms
package telemetry
