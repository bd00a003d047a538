package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/docmindhq/docmind/internal/core/domain"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analysis_feedback (
	id, document_id, field, original_value, corrected_value, note, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		fb.ID, fb.DocumentID, fb.Field, fb.OriginalValue, fb.CorrectedValue, fb.Note, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, field, original_value, corrected_value, note, created_at
FROM analysis_feedback
WHERE document_id = $1
ORDER BY created_at DESC
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.DocumentID, &fb.Field, &fb.OriginalValue, &fb.CorrectedValue, &fb.Note, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		entries = append(entries, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return entries, nil
}
