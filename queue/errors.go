package queue

import "errors"

var (
	// ErrQueueSaturated indicates the bounded queue is full. Submissions
	// fail fast rather than buffering without bound.
	ErrQueueSaturated = errors.New("job queue saturated")

	// ErrQueueClosed indicates the service has been shut down.
	ErrQueueClosed = errors.New("job queue is closed")
)
