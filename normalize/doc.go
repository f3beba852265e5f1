// Package normalize converts raw document bytes into plain-text
// core.Documents.
//
// Each supported format has its own Normalizer; the Service dispatches on
// the declared format and derives the document id from the extracted text,
// making normalization idempotent per content. PDF extraction goes through
// MuPDF and preserves page boundaries as PageSpans; DOCX and plain text
// carry no page layout.
package normalize
