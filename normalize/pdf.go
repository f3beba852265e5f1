package normalize

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docucore/docucore/core"
)

// PDF extracts text from PDF documents page by page using MuPDF.
type PDF struct{}

// NewPDF creates a PDF normalizer.
func NewPDF() *PDF {
	return &PDF{}
}

var _ Normalizer = (*PDF)(nil)

func (p *PDF) Format() core.FormatType {
	return core.FormatPDF
}

// Extract concatenates the text of every page and records a PageSpan per
// page so downstream consumers can map text offsets back to pages.
// Page numbers are 1-based.
func (p *PDF) Extract(raw []byte) (string, []core.PageSpan, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	var builder strings.Builder
	spans := make([]core.PageSpan, 0, doc.NumPage())

	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", nil, fmt.Errorf("%w: page %d: %v", ErrCorruptDocument, page+1, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		offset := builder.Len()
		if offset > 0 {
			builder.WriteString("\n\n")
			offset += 2
		}
		builder.WriteString(text)

		spans = append(spans, core.PageSpan{
			Page:   page + 1,
			Offset: offset,
			Length: len(text),
		})
	}

	return builder.String(), spans, nil
}
