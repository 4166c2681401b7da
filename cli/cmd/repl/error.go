package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoScope     = errors.New("no scope")
	ErrUsage       = errors.New("usage")
	ErrInvalidID   = errors.New("invalid id")
	ErrUnknownKind = errors.New("unknown entity kind (want post, user, order, term or status)")
)
