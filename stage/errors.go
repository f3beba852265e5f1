package stage

import "errors"

var (
	// ErrAlreadyRegistered indicates a duplicate executor registration.
	ErrAlreadyRegistered = errors.New("executor already registered")

	// ErrNotRegistered indicates a pipeline references an unknown stage.
	ErrNotRegistered = errors.New("executor not registered")

	// ErrMissingUpstream indicates a required dependency output is absent.
	ErrMissingUpstream = errors.New("missing upstream output")

	// ErrBadUpstream indicates a dependency output payload failed to decode.
	ErrBadUpstream = errors.New("malformed upstream output")

	// ErrBadModelOutput indicates the model's response could not be parsed
	// even after repair. Permanent: retrying with temperature 0 would
	// reproduce the same response.
	ErrBadModelOutput = errors.New("unparseable model output")
)
