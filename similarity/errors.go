package similarity

import "errors"

var (
	// ErrStoreRequired is returned when an embedding store is not provided.
	ErrStoreRequired = errors.New("embedding store required")

	// ErrComputerRequired is returned when a sequence query is made without
	// an embedding computer.
	ErrComputerRequired = errors.New("embedding computer required")
)
