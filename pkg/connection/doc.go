// Package connection implements the dataflow engine's connection
// subsystem: a uniform state machine shared by every protocol adapter
// (CLASP, WebSocket, MQTT, OSC-over-WebSocket, HTTP, BLE), a prioritized
// per-connection message buffer, and the singleton manager that owns
// adapter lifecycles.
//
// # Overview
//
// The connectivity and CLASP executor families (pkg/executors/connectivity,
// pkg/executors/clasp) never talk to a transport directly; they resolve a
// connection by id through Manager and call Send/a protocol-specific
// operation on the returned Adapter, the same way the http-request
// executor thin-wraps a shared *http.Client plus pkg/security's SSRF
// guard rather than opening sockets itself.
//
// # State machine
//
// Every Adapter embeds a *StateMachine (statemachine.go) driving the
// lifecycle idle -> connecting -> connected -> disconnecting ->
// disconnected, plus an error/reconnecting branch. The transition table is
// normative: an event not listed for the current state is rejected and
// leaves the state unchanged.
//
// # Adapter base contract
//
// BaseAdapter (adapter.go) implements connect/disconnect/send/dispose plus
// event fan-out, and a reconnect policy. Protocol adapters supply three
// functions, doConnect, doDisconnect, and doSend, rather than
// subclassing: composition over deep inheritance, one struct per
// concern, not a hierarchy.
//
// # Message buffer
//
// Buffer (buffer.go) is a per-connection, priority-ordered FIFO used by
// BaseAdapter.Send while disconnected and buffering is enabled, flushed in
// priority order (critical > high > normal > low) and FIFO within a
// priority, with per-message TTL expiry.
//
// # Manager
//
// Manager (manager.go) is the process-wide connection registry: protocol
// type definitions (with adapter factories), saved connection
// configurations, lazy adapter creation on first Connect, and fan-out
// events (connection-added/removed/updated, status-change,
// type-registered/unregistered).
package connection
