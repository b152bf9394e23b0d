// Package extract turns files on disk into documents ready for
// ingestion. PDFs get their plain text pulled out; everything else is
// treated as text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// FromFile reads the file at path and returns a document with its text
// content. The document ID is freshly generated.
func FromFile(path string) (*domain.Document, error) {
	content, err := textFromFile(path)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		Filename:  filepath.Base(path),
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

// textFromFile extracts text content based on the file extension.
func textFromFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdfText(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	// Strip a UTF-8 BOM if present.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", path)
	}
	return string(data), nil
}

// pdfText extracts the plain text of a PDF file.
func pdfText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("read pdf text from %s: %w", path, err)
	}
	return buf.String(), nil
}
