package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/docmindhq/docmind/internal/core/domain"
)

// analysisResultSchema is the contract every provider response must satisfy.
// A parse that succeeds but violates the schema is a provider shape error and
// triggers fallback, same as a transport error.
const analysisResultSchema = `{
	"type": "object",
	"required": ["summary", "key_points", "document_type", "confidence", "topics"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"key_points": {"type": "array", "items": {"type": "string"}},
		"document_type": {"type": "string"},
		"confidence": {"type": "number"},
		"topics": {"type": "array", "items": {"type": "string"}},
		"metadata": {"type": "object"}
	}
}`

var analysisSchemaLoader = gojsonschema.NewStringLoader(analysisResultSchema)

func decodeAnalysis(raw string) (domain.AnalysisResult, error) {
	payload := extractJSONObject(raw)

	validation, err := gojsonschema.Validate(analysisSchemaLoader, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("parse analysis json: %w", err)
	}
	if !validation.Valid() {
		return domain.AnalysisResult{}, fmt.Errorf("analysis shape: %s", formatSchemaErrors(validation))
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("decode analysis json: %w", err)
	}
	return normalizeAnalysis(result), nil
}

// normalizeAnalysis clamps provider output into the documented contract:
// confidence inside [0,1], document_type inside the known set, collections
// never nil.
func normalizeAnalysis(result domain.AnalysisResult) domain.AnalysisResult {
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if !domain.IsKnownDocumentType(result.DocumentType) {
		result.DocumentType = domain.DocumentTypeOther
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	if result.Topics == nil {
		result.Topics = []string{}
	}
	if result.ExtraMetadata == nil {
		result.ExtraMetadata = map[string]any{}
	}
	return result
}

// extractJSONObject trims prose some models wrap around the JSON body.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func formatSchemaErrors(validation *gojsonschema.Result) string {
	parts := make([]string, 0, len(validation.Errors()))
	for _, desc := range validation.Errors() {
		parts = append(parts, desc.String())
	}
	return strings.Join(parts, "; ")
}
