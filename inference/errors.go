// Copyright 2025 Docucore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/docucore/docucore/ai"
)

var (
	// ErrModelUnavailable indicates that a model could not be acquired:
	// the identifier is unknown, loading timed out, or the instance was
	// evicted before the caller could claim a reference.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrManagerClosed indicates the manager has been shut down.
	ErrManagerClosed = errors.New("inference manager is closed")
)

// InferenceError wraps a failure from a model call and records whether it
// is transient. Transient failures (timeout, resource exhaustion, rate
// limiting) are retry-eligible; permanent ones (bad input shape,
// unsupported operation) are not.
type InferenceError struct {
	Transient bool
	Err       error
}

func (e *InferenceError) Error() string {
	if e.Transient {
		return fmt.Sprintf("inference failed (transient): %v", e.Err)
	}
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// wrapInference classifies err into an InferenceError, preserving the
// transient marking applied by the backend.
func wrapInference(err error) error {
	if err == nil {
		return nil
	}
	var infErr *InferenceError
	if errors.As(err, &infErr) {
		return err
	}
	transient := ai.IsTransient(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
	return &InferenceError{Transient: transient, Err: err}
}

// IsRetryable reports whether err represents a transient condition that a
// caller may retry. Deadline expiry counts as transient per the stage
// timeout contract.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var infErr *InferenceError
	if errors.As(err, &infErr) {
		return infErr.Transient
	}
	return ai.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
}
