package connection

import "errors"

// Sentinel errors for the connection subsystem.
var (
	ErrInvalidTransition  = errors.New("connection: event not valid for current state")
	ErrAdapterDisposed    = errors.New("connection: adapter has been disposed")
	ErrNotConnected       = errors.New("connection: adapter is not connected")
	ErrAlreadyConnected   = errors.New("connection: adapter is already connected")
	ErrMaxAttempts        = errors.New("connection: maximum reconnect attempts exceeded")
	ErrUnknownProtocol    = errors.New("connection: no type registered for protocol")
	ErrUnknownConnection  = errors.New("connection: no configuration registered for id")
	ErrDuplicateID        = errors.New("connection: a configuration with this id already exists")
	ErrBufferFull         = errors.New("connection: message buffer is full")
	ErrUnsupportedOnProto = errors.New("connection: operation not supported by this protocol")
)
