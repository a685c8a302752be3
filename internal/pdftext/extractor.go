package pdftext

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"invexa/internal/domain"
	"invexa/internal/port"
)

// Extractor implements port.TextExtractor for PDF documents using
// ledongthuc/pdf, which decodes font-encoded glyphs into UTF-8.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

var _ port.TextExtractor = (*Extractor)(nil)

// Extract decodes the PDF and concatenates its text in document order.
// A structurally unreadable document yields domain.ErrCorruptDocument; a
// readable document with no text after trimming yields domain.ErrEmptyDocument.
func (e *Extractor) Extract(documentBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(documentBytes), int64(len(documentBytes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}

	text := strings.TrimSpace(sanitizeUTF8(buf.String()))
	if text == "" {
		return "", domain.ErrEmptyDocument
	}

	log.Printf("pdftext.Extractor: extracted %d characters", len(text))
	return text, nil
}

// sanitizeUTF8 replaces any invalid UTF-8 sequences with the Unicode
// replacement character so downstream JSON encoding never fails.
func sanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		sb.WriteRune(r)
	}
	return sb.String()
}
