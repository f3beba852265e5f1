package ai

import "errors"

// ModelInfo is static metadata about a loaded model instance.
type ModelInfo struct {
	// ID is the model identifier the instance was loaded for.
	ID string

	// MemoryUnits is the instance's footprint against the inference
	// manager's resource budget. Units are abstract; they only need to be
	// consistent across models sharing one manager.
	MemoryUnits int

	// Batching reports whether GenerateBatch performs a true batched call.
	// When false the inference manager serializes requests per instance
	// instead of windowing them.
	Batching bool
}

// Request is a transient value object carrying one inference request.
type Request struct {
	// System is the system prompt, empty for models without one.
	System string

	// Prompt is the user prompt.
	Prompt string
}

// Response is a transient value object carrying one inference response.
type Response struct {
	// Text is the generated output.
	Text string
}

// ErrUnknownModel indicates a model identifier that no loader recognizes.
var ErrUnknownModel = errors.New("unknown model identifier")

// TransientError marks an error as retry-eligible: the failure is expected
// to be temporary (timeout, rate limit, resource exhaustion) and the same
// request may succeed if repeated.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retry-eligible. Returns nil if err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err (or any error it wraps) is marked transient.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
