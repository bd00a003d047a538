package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docmindhq/docmind/internal/core/domain"
)

// truncationMarker tells the model the document was cut. It is appended only
// when content actually exceeded the limit.
const truncationMarker = "\n\n[NOTE: document content truncated at analysis limit]"

// contentTypeLabel maps a MIME type to a coarse prompt label. Substring match
// is case-sensitive and checked in this precedence order.
func contentTypeLabel(mediaType string) string {
	switch {
	case strings.Contains(mediaType, "pdf"):
		return "PDF document"
	case strings.Contains(mediaType, "text"):
		return "text document"
	case strings.Contains(mediaType, "image"):
		return "image document"
	default:
		return "document"
	}
}

// truncateContent applies a plain leading-prefix cutoff, no attempt to cut at
// word boundaries. The cut backs up to the nearest rune boundary so the
// prompt never carries a split multi-byte sequence.
func truncateContent(text string, limit int) (string, bool) {
	if limit <= 0 {
		limit = defaultTruncationLimit
	}
	if len(text) <= limit {
		return text, false
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit], true
}

func buildAnalysisPrompt(req domain.AnalysisRequest, limit int) string {
	snippet, truncated := truncateContent(req.Text, limit)
	if truncated {
		snippet += truncationMarker
	}

	return fmt.Sprintf(`You are a document analyst.
Analyze the %s named %q and return a strict JSON object with keys:
summary (string, 2-3 sentences),
key_points (array of 3-5 strings),
document_type (one of: report, contract, invoice, letter, presentation, technical_doc, academic, legal, financial, other),
confidence (number from 0 to 1),
topics (array of 2-4 strings),
metadata (object with auxiliary facts such as dates, names, amounts; optional).
No markdown, no extra keys, JSON only.

Document content:
%s`, contentTypeLabel(req.MediaType), req.DisplayName, snippet)
}
