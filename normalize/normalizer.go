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

package normalize

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/docucore/docucore/core"
)

// Normalizer converts raw bytes of one format into plain text plus page
// layout information.
type Normalizer interface {
	// Format returns the format this normalizer handles.
	Format() core.FormatType

	// Extract returns the document text and, where the format carries
	// page structure, one span per page. Formats without pages return a
	// nil span slice.
	Extract(raw []byte) (string, []core.PageSpan, error)
}

// Service dispatches raw documents to the normalizer registered for
// their format and produces core.Documents with content-derived ids.
type Service struct {
	byFormat map[core.FormatType]Normalizer
	logger   *slog.Logger
}

// NewService creates a normalization service covering the supported
// formats. Additional normalizers replace earlier ones for the same
// format.
func NewService(normalizers ...Normalizer) *Service {
	s := &Service{
		byFormat: make(map[core.FormatType]Normalizer),
		logger:   slog.Default().With("component", "normalize"),
	}
	for _, n := range normalizers {
		s.byFormat[n.Format()] = n
	}
	return s
}

// DefaultService returns a service handling PDF, DOCX and plain text.
func DefaultService() *Service {
	return NewService(NewPDF(), NewDOCX(), NewText())
}

// Normalize converts raw bytes of the given format into a Document. The
// document id is derived from the normalized text, so normalizing the
// same content twice yields the same id.
func (s *Service) Normalize(raw []byte, format core.FormatType) (*core.Document, error) {
	normalizer, ok := s.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	text, pages, err := normalizer.Extract(raw)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	doc := &core.Document{
		Id:           core.IDFromContent(text),
		Text:         text,
		Format:       format,
		Pages:        pages,
		NormalizedAt: time.Now(),
	}

	s.logger.Debug("document normalized",
		"document", doc.Id,
		"format", format,
		"pages", len(pages),
		"chars", len(text))

	return doc, nil
}
