package normalize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docucore/docucore/core"
)

// Text handles plain UTF-8 text documents.
type Text struct{}

// NewText creates a plain-text normalizer.
func NewText() *Text {
	return &Text{}
}

var _ Normalizer = (*Text)(nil)

func (t *Text) Format() core.FormatType {
	return core.FormatTXT
}

// Extract validates the bytes are UTF-8 and normalizes line endings.
func (t *Text) Extract(raw []byte) (string, []core.PageSpan, error) {
	if !utf8.Valid(raw) {
		return "", nil, fmt.Errorf("%w: not valid UTF-8", ErrCorruptDocument)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return text, nil, nil
}
