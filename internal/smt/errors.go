package smt

import "errors"

// Sentinel errors for the tree's precondition violations. All are fatal to
// the operation that raised them; none abort other in-flight operations.
var (
	// ErrInvalidKeyLength is raised when a key's length does not equal the
	// tree's depth.
	ErrInvalidKeyLength = errors.New("smt: invalid key length")

	// ErrLeafNotFound is raised when a key of the right length has no entry
	// in the leaf index. On a correctly constructed tree this indicates
	// internal corruption, not caller error.
	ErrLeafNotFound = errors.New("smt: leaf not found")

	// ErrNonLeafUpdate is raised when an updater reaches a node marked
	// non-leaf where a leaf was expected.
	ErrNonLeafUpdate = errors.New("smt: reached non-leaf node where leaf expected")

	// ErrCapacityExceeded is raised at startup when a caller asks for more
	// distinct writer threads than the stop table can address.
	ErrCapacityExceeded = errors.New("smt: thread count exceeds MaxThreads")

	// ErrNegativeDepth is raised by New for a negative depth parameter.
	ErrNegativeDepth = errors.New("smt: depth must be non-negative")
)
