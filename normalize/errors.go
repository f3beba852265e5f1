package normalize

import "errors"

var (
	// ErrUnsupportedFormat indicates no normalizer is registered for the
	// document's format. Permanent.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument indicates the raw bytes could not be parsed as
	// the declared format. Permanent.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrEmptyDocument indicates the input contained no extractable text.
	ErrEmptyDocument = errors.New("document contains no text")
)
