package domain

// UsageStats aggregates document and feedback activity for the stats endpoint.
type UsageStats struct {
	TotalDocuments  int64            `json:"total_documents"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByDocumentType  map[string]int64 `json:"by_document_type"`
	ByProvenance    map[string]int64 `json:"by_provenance"`
	AvgConfidence   float64          `json:"avg_confidence"`
	FeedbackEntries int64            `json:"feedback_entries"`
}
