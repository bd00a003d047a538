package domain

import "time"

// Feedback is a user-submitted correction to a generated analysis field.
type Feedback struct {
	ID             string    `json:"id"`
	DocumentID     string    `json:"document_id"`
	Field          string    `json:"field"`
	OriginalValue  string    `json:"original_value"`
	CorrectedValue string    `json:"corrected_value"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
