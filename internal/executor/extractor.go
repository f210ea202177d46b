// Package executor turns a matched workflow into concrete results: it
// extracts content from the triggering event, runs each workflow action
// through a content processor, and reports per-action outcomes. Failures
// degrade into unsuccessful results instead of propagating.
package executor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"workflow-engine/internal/common/logging"
	"workflow-engine/internal/events"
)

const (
	// pdfContentCap bounds extracted PDF text carried into processing.
	pdfContentCap = 5000
	// textFileCap bounds how much of a plain file is read.
	textFileCap = 10000
)

// PDFExtractor pulls text out of a PDF file.
type PDFExtractor interface {
	ExtractText(path string) (string, error)
}

// StubPDFExtractor reports PDF extraction as unavailable. The extractor
// degrades to a note in the content rather than failing the execution.
type StubPDFExtractor struct{}

func (StubPDFExtractor) ExtractText(path string) (string, error) {
	return "", fmt.Errorf("PDF text extraction is not available")
}

// Extractor derives processable text from a trigger event payload.
type Extractor struct {
	pdf    PDFExtractor
	logger logging.Logger
}

// NewExtractor creates an extractor. A nil PDF extractor defaults to the
// stub.
func NewExtractor(pdf PDFExtractor, logger logging.Logger) *Extractor {
	if pdf == nil {
		pdf = StubPDFExtractor{}
	}
	return &Extractor{
		pdf:    pdf,
		logger: logger.WithFields(logging.Field{Key: "component", Value: "extractor"}),
	}
}

// Extract returns the text content of the event. Exactly one payload view
// applies per event; unreadable files degrade into a note so the workflow
// still produces a result. An empty string means there is nothing to
// process.
func (e *Extractor) Extract(event *events.TriggerEvent) string {
	switch detail := event.Detail().(type) {
	case events.FileDetail:
		return e.extractFile(detail)
	case events.EmailDetail:
		return extractEmail(detail)
	case events.ArticleDetail:
		return fmt.Sprintf("Title: %s\nContent: %s", detail.Title, detail.Content)
	default:
		return ""
	}
}

func (e *Extractor) extractFile(detail events.FileDetail) string {
	if detail.Path == "" {
		return fmt.Sprintf("File downloaded: %s", detail.Name)
	}

	if strings.EqualFold(filepath.Ext(detail.Path), ".pdf") {
		text, err := e.pdf.ExtractText(detail.Path)
		if err != nil {
			e.logger.Warn("PDF extraction failed",
				logging.Field{Key: "path", Value: detail.Path},
				logging.Field{Key: "error", Value: err.Error()},
			)
			return fmt.Sprintf("File: %s\nNote: Could not read file - %v", detail.Name, err)
		}
		if len(text) > pdfContentCap {
			text = text[:pdfContentCap]
		}
		return fmt.Sprintf("File: %s\n\nContent:\n%s", detail.Name, text)
	}

	data, err := readFileHead(detail.Path, textFileCap)
	if err != nil {
		e.logger.Warn("File read failed",
			logging.Field{Key: "path", Value: detail.Path},
			logging.Field{Key: "error", Value: err.Error()},
		)
		return fmt.Sprintf("File: %s\nNote: Could not read file - %v", detail.Name, err)
	}
	return fmt.Sprintf("File: %s\n\nContent:\n%s", detail.Name, string(data))
}

func extractEmail(detail events.EmailDetail) string {
	if detail.Body == "" {
		return fmt.Sprintf("Subject: %s", detail.Subject)
	}
	return fmt.Sprintf("Subject: %s\nBody: %s", detail.Subject, detail.Body)
}

func readFileHead(path string, limit int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, int64(limit)))
}
