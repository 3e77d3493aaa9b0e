package runstream

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrSourceClosed indicates Next was called on a closed Source.
	ErrSourceClosed = errors.New("source closed")
)
