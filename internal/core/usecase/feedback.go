package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docmindhq/docmind/internal/core/domain"
	"github.com/docmindhq/docmind/internal/core/ports"
)

// Fields of an analysis a user may correct.
var correctableFields = map[string]struct{}{
	"summary":       {},
	"document_type": {},
	"key_points":    {},
	"topics":        {},
}

type FeedbackUseCase struct {
	docs     ports.DocumentRepository
	feedback ports.FeedbackRepository
}

func NewFeedbackUseCase(docs ports.DocumentRepository, feedback ports.FeedbackRepository) *FeedbackUseCase {
	return &FeedbackUseCase{
		docs:     docs,
		feedback: feedback,
	}
}

func (uc *FeedbackUseCase) Submit(ctx context.Context, documentID string, fb domain.Feedback) (*domain.Feedback, error) {
	field := strings.TrimSpace(fb.Field)
	if _, ok := correctableFields[field]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit feedback",
			fmt.Errorf("field %q is not correctable", fb.Field))
	}
	if strings.TrimSpace(fb.CorrectedValue) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit feedback",
			errors.New("corrected value is required"))
	}

	if _, err := uc.docs.GetByID(ctx, documentID); err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	entry := &domain.Feedback{
		ID:             uuid.NewString(),
		DocumentID:     documentID,
		Field:          field,
		OriginalValue:  fb.OriginalValue,
		CorrectedValue: fb.CorrectedValue,
		Note:           fb.Note,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.feedback.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return entry, nil
}

func (uc *FeedbackUseCase) ListByDocument(ctx context.Context, documentID string) ([]domain.Feedback, error) {
	entries, err := uc.feedback.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}
