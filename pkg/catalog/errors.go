package catalog

import "errors"

var (
	// ErrEmptyNodeType is returned by Register when the definition's
	// NodeType is the empty string.
	ErrEmptyNodeType = errors.New("node definition NodeType must not be empty")
)
