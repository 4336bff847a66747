package types

import "context"

// contextKey is an unexported type so values this package stashes in a
// context.Context can never collide with keys from other packages.
type contextKey int

const (
	frameIDKey contextKey = iota
	connectionIDKey
	subflowInstanceIDKey
)

// WithFrameID returns a context carrying the current tick's correlation id.
// The scheduler does not set it; its logger carries the frame id instead.
func WithFrameID(ctx context.Context, frameID string) context.Context {
	return context.WithValue(ctx, frameIDKey, frameID)
}

// FrameIDFromContext returns the frame id stashed by WithFrameID, if any.
func FrameIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(frameIDKey).(string)
	return v, ok
}

// WithConnectionID returns a context carrying a connection adapter's id.
func WithConnectionID(ctx context.Context, connectionID string) context.Context {
	return context.WithValue(ctx, connectionIDKey, connectionID)
}

// ConnectionIDFromContext returns the connection id stashed by
// WithConnectionID, if any.
func ConnectionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(connectionIDKey).(string)
	return v, ok
}

// WithSubflowInstanceID returns a context carrying the scoped instance id of
// the subflow currently executing. The scheduler does not set it; subflow
// nodes reach their scope through executor.ScopeContext.
func WithSubflowInstanceID(ctx context.Context, instanceID string) context.Context {
	return context.WithValue(ctx, subflowInstanceIDKey, instanceID)
}

// SubflowInstanceIDFromContext returns the subflow instance id stashed by
// WithSubflowInstanceID, if any.
func SubflowInstanceIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subflowInstanceIDKey).(string)
	return v, ok
}
