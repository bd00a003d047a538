// Package extractor pulls plain text out of stored documents. Extraction is
// deliberately best-effort: each format handler is a thin library call, and a
// document that cannot be decoded fails processing without crashing it.
package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docmindhq/docmind/internal/core/domain"
	"github.com/docmindhq/docmind/internal/core/ports"
	"github.com/docmindhq/docmind/internal/infrastructure/extractor/pdf"
	"github.com/docmindhq/docmind/internal/infrastructure/extractor/plaintext"
	"github.com/docmindhq/docmind/internal/infrastructure/extractor/xlsx"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	name := strings.ToLower(doc.Filename)
	switch {
	case strings.Contains(doc.MimeType, "pdf") || strings.HasSuffix(name, ".pdf"):
		return pdf.ExtractText(raw)
	case strings.Contains(doc.MimeType, "spreadsheet") || strings.HasSuffix(name, ".xlsx"):
		return xlsx.ExtractText(raw)
	default:
		return plaintext.ExtractText(raw, doc.Filename)
	}
}
