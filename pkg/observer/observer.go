// Package observer provides the Observer pattern implementation for
// dataflow engine monitoring: per-frame lifecycle, node execution, and
// connection adapter events, without coupling the scheduler or connection
// manager to any particular logging or metrics backend.
package observer

import (
	"context"
	"time"

	"github.com/nodeforge/dataflow/pkg/types"
)

// EventType represents the type of execution event.
type EventType string

const (
	// Frame-level events.
	EventFrameStart EventType = "frame_start"
	EventFrameEnd   EventType = "frame_end"

	// Node-level events.
	EventNodeStart   EventType = "node_start"
	EventNodeEnd     EventType = "node_end"
	EventNodeSuccess EventType = "node_success"
	EventNodeFailure EventType = "node_failure"

	// Connection adapter events, mirroring the onStatusChange/onMessage/
	// onError hooks every adapter exposes.
	EventConnectionStatusChange EventType = "connection_status_change"
	EventConnectionMessage      EventType = "connection_message"
	EventConnectionError        EventType = "connection_error"
)

// ExecutionStatus represents the status of a node or frame execution.
type ExecutionStatus string

const (
	StatusStarted   ExecutionStatus = "started"
	StatusSuccess   ExecutionStatus = "success"
	StatusFailure   ExecutionStatus = "failure"
	StatusCompleted ExecutionStatus = "completed"
)

// Event represents an execution event with all relevant metadata.
type Event struct {
	// Event identification
	Type      EventType       `json:"type"`
	Status    ExecutionStatus `json:"status"`
	Timestamp time.Time       `json:"timestamp"`

	// Execution context
	FrameID int64  `json:"frame_id"`
	FlowID  string `json:"flow_id,omitempty"`

	// Node-specific data (empty for frame-level events)
	NodeID   string         `json:"node_id,omitempty"`
	NodeType types.NodeType `json:"node_type,omitempty"`

	// Connection-specific data (empty for frame/node events)
	ConnectionID string `json:"connection_id,omitempty"`

	// Timing information
	StartTime   time.Time     `json:"start_time,omitempty"`
	ElapsedTime time.Duration `json:"elapsed_time,omitempty"`

	// Execution results
	Result interface{} `json:"result,omitempty"`
	Error  error       `json:"error,omitempty"`

	// Additional metadata
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Observer defines the interface for dataflow execution observers.
// Observers receive notifications about various stages of frame and node
// execution, and of connection adapter lifecycle changes.
type Observer interface {
	// OnEvent is called when an execution event occurs. The context can
	// be used for cancellation and passing request-scoped values.
	OnEvent(ctx context.Context, event Event)
}

// Logger defines the interface for custom logging, letting consumers
// integrate observer output with their own logging systems.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
