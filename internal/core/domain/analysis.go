package domain

// Provenance records which fallback branch produced an analysis result.
type Provenance string

const (
	ProvenancePrimary                    Provenance = "primary"
	ProvenancePrimaryFallbackToSecondary Provenance = "primary_fallback_to_secondary"
	ProvenanceSecondary                  Provenance = "secondary"
	ProvenanceSecondaryFallbackToPrimary Provenance = "secondary_fallback_to_primary"
	ProvenanceSynthetic                  Provenance = "synthetic"
)

// DocumentTypeOther absorbs provider classifications outside the known set.
const DocumentTypeOther = "other"

var knownDocumentTypes = map[string]struct{}{
	"report":        {},
	"contract":      {},
	"invoice":       {},
	"letter":        {},
	"presentation":  {},
	"technical_doc": {},
	"academic":      {},
	"legal":         {},
	"financial":     {},
	DocumentTypeOther: {},
}

func IsKnownDocumentType(t string) bool {
	_, ok := knownDocumentTypes[t]
	return ok
}

// AnalysisRequest is the input of a single analysis invocation. DocumentID is
// used only for correlation in logs and metrics.
type AnalysisRequest struct {
	DocumentID  string
	Text        string
	DisplayName string
	MediaType   string
}

// AnalysisResult is always fully populated: no partial result escapes the
// analysis path regardless of which provider (or none) produced it.
type AnalysisResult struct {
	Summary       string         `json:"summary"`
	KeyPoints     []string       `json:"key_points"`
	DocumentType  string         `json:"document_type"`
	Confidence    float64        `json:"confidence"`
	Topics        []string       `json:"topics"`
	ExtraMetadata map[string]any `json:"metadata"`
	Provenance    Provenance     `json:"provenance"`
}
