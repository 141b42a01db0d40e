package nbt

import "errors"

var (
	// ErrType reports a kind mismatch: a heterogeneous list element, a
	// duplicate compound key, or a tag used where another kind is required.
	ErrType = errors.New("nbt: type error")

	// ErrDepth reports that a tree exceeded the configured nesting limit.
	ErrDepth = errors.New("nbt: depth limit exceeded")

	// ErrRootPolicy reports a root tag that the configured policy rejects.
	ErrRootPolicy = errors.New("nbt: root policy violation")
)
