package pipeline

import "errors"

var (
	// ErrRegistryRequired is returned when a model registry is not provided.
	ErrRegistryRequired = errors.New("model registry required")

	// ErrComputerRequired is returned when an embedding computer is not provided.
	ErrComputerRequired = errors.New("embedding computer required")

	// ErrStoreRequired is returned when an embedding store is not provided.
	ErrStoreRequired = errors.New("embedding store required")

	// ErrPlannerRequired is returned when a batch planner is not provided.
	ErrPlannerRequired = errors.New("batch planner required")

	// ErrDispatcherRequired is returned when a dispatcher is not provided.
	ErrDispatcherRequired = errors.New("dispatcher required")

	// ErrHandlerRequired is returned when a batch handler is not provided.
	ErrHandlerRequired = errors.New("batch handler required")

	// ErrInputRequired is returned when no input sequence file is configured.
	ErrInputRequired = errors.New("input sequence file required")

	// ErrTypesRequired is returned when no embedding types are requested.
	ErrTypesRequired = errors.New("at least one embedding type required")

	// ErrInvalidBatchSize is returned when a dispatch batch size is <= 0.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
