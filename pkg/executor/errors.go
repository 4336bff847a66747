package executor

import "errors"

// Sentinel errors for executor registration and dispatch.
var (
	ErrNilExecutor   = errors.New("executor must not be nil")
	ErrEmptyNodeType = errors.New("executor NodeType() must not be empty")
	ErrNoExecutor    = errors.New("no executor registered for node type")
)
