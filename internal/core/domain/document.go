package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID            string         `json:"id"`
	Filename      string         `json:"filename"`
	MimeType      string         `json:"mime_type"`
	StoragePath   string         `json:"storage_path"`
	Summary       string         `json:"summary,omitempty"`
	KeyPoints     []string       `json:"key_points,omitempty"`
	DocumentType  string         `json:"document_type,omitempty"`
	Confidence    float64        `json:"confidence,omitempty"`
	Topics        []string       `json:"topics,omitempty"`
	ExtraMetadata map[string]any `json:"metadata,omitempty"`
	Provenance    Provenance     `json:"provenance,omitempty"`
	Status        DocumentStatus `json:"status"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ListFilter narrows document listings. Zero values mean "no constraint".
type ListFilter struct {
	Query        string
	DocumentType string
	Status       DocumentStatus
	Limit        int
}
