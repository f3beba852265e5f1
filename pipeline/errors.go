package pipeline

import "errors"

var (
	// ErrDependencyFailed marks a stage that was skipped because a stage it
	// depends on (directly or transitively) did not succeed.
	ErrDependencyFailed = errors.New("dependency failed")

	// ErrUnknownPipeline indicates a job references an unloaded definition.
	ErrUnknownPipeline = errors.New("unknown pipeline")

	// ErrStalled indicates the scheduler found no runnable, running, or
	// resolvable stage while work remained. Reaching it means the
	// definition escaped cycle validation.
	ErrStalled = errors.New("pipeline stalled")

	// ErrInvalidMaxAttempts indicates a retry limit lower than one.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
