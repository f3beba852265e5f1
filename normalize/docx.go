package normalize

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docucore/docucore/core"
)

// DOCX extracts text from Office Open XML word documents. A .docx file is
// a zip archive whose main body lives in word/document.xml; text sits in
// w:t elements and paragraphs end with w:p elements.
type DOCX struct{}

// NewDOCX creates a DOCX normalizer.
func NewDOCX() *DOCX {
	return &DOCX{}
}

var _ Normalizer = (*DOCX)(nil)

func (d *DOCX) Format() core.FormatType {
	return core.FormatDOCX
}

// Extract returns paragraph-separated text. DOCX carries no fixed page
// layout, so no page spans are produced.
func (d *DOCX) Extract(raw []byte) (string, []core.PageSpan, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var body *zip.File
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			body = file
			break
		}
	}
	if body == nil {
		return "", nil, fmt.Errorf("%w: missing word/document.xml", ErrCorruptDocument)
	}

	rc, err := body.Open()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer rc.Close()

	text, err := extractDocumentXML(rc)
	if err != nil {
		return "", nil, err
	}

	return text, nil, nil
}

func extractDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var builder strings.Builder
	var inText bool

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteString("\n\n")
			case "tab":
				builder.WriteString("\t")
			case "br":
				builder.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				builder.Write(element)
			}
		}
	}

	return builder.String(), nil
}
