// Package logging provides structured logging capabilities for the
// dataflow engine.
//
// # Overview
//
// The logging package implements a structured logging system with support
// for multiple output formats, log levels, and contextual information tied
// to the per-frame scheduling loop and the connection subsystem.
//
// # Features
//
//   - Structured logging: JSON and text formats
//   - Log levels: DEBUG, INFO, WARN, ERROR
//   - Context propagation: flow ID, frame ID, node ID, connection ID
//   - Thread-safe: safe for concurrent use
//   - Flexible output: write to any io.Writer
//
// # Basic Usage
//
//	import "github.com/nodeforge/dataflow/pkg/logging"
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Pretty: false,
//	})
//
//	logger.WithFlowID("flow-123").WithFrameID("frame-42").Info("tick started")
//
// # Context Integration
//
// A logger can ride along in a context.Context and be recovered downstream
// without threading it through every function signature:
//
//	ctx = logger.WithContext(ctx)
//	logging.FromContext(ctx).WithNodeID(node.ID).Debug("executing")
//
// # Output Formats
//
// JSON Format (production):
//
//	{"time":"2026-07-31T10:30:00Z","level":"INFO","msg":"tick started","flow_id":"flow-123","frame_id":"frame-42"}
//
// Text Format (development): set Config.Pretty to true.
//
// # Integration with Observability
//
// The scheduler attaches per-tick fields via WithFlowID/WithFrameID/
// WithNodeID rather than constructing a new logger per call (the
// connection package does not log); the observer package carries the same event data to
// subscribers that aren't just writing to a log sink.
//
// # Thread Safety
//
// All logger operations are thread-safe. Each With* call returns a new
// *Logger sharing the underlying handler, so callers may fork a base
// logger per node or per connection without synchronization.
package logging
