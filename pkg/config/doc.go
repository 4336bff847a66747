// Package config provides configuration management for the dataflow engine.
//
// # Overview
//
// The config package centralizes scheduler limits, connection-subsystem
// security and backoff settings, and resource-table bounds in a single,
// validated struct.
//
// # Configuration Structure
//
// The configuration is organized into logical sections:
//
//   - Scheduler limits: tick duration, node execution time, node/edge/subflow caps
//   - HTTP connection adapter: timeouts, redirects, response size
//   - Security: zero-trust network access control for the HTTP adapter
//   - Reconnection policy: base delay and attempt cap for the linear backoff
//   - Message buffer: default TTL, size cap, retry cap
//   - Resource limits: string/array length bounds
//
// Outside this package only the scheduler reads a Config, and it reads
// two fields: MaxNodeExecutions and MaxSubflowDepth. The other fields are
// defaulted, validated and cloned here, but no package of this module
// enforces them.
//
// # Basic Usage
//
//	import "github.com/nodeforge/dataflow/pkg/config"
//
//	cfg := config.Default()
//	eng, err := scheduler.New(flowID, nodes, edges, registry, scheduler.WithConfig(cfg))
//
// # Default Configuration
//
// The default configuration provides secure, production-ready defaults:
//
//	MaxTickDuration: 100ms
//	MaxNodeExecutionTime: 30 seconds
//	MaxNodes: 1000
//	MaxEdges: 5000
//	MaxSubflowDepth: 16
//	HTTPTimeout: 30 seconds
//	MaxHTTPRedirects: 10
//	MaxResponseSize: 10MB
//	AllowHTTP: false (HTTPS only)
//	AllowPrivateIPs/AllowLocalhost/AllowLinkLocal/AllowCloudMetadata: false
//	ReconnectBaseDelay: 1 second
//	MaxBufferSize: 1000
//	MaxSendRetries: 3
//
// # Thread Safety
//
// Configuration objects are safe for concurrent read access. Use Clone to
// get a mutable copy before changing a shared instance.
package config
