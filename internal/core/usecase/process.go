package usecase

import (
	"context"
	"fmt"

	"github.com/docmindhq/docmind/internal/core/domain"
	"github.com/docmindhq/docmind/internal/core/ports"
)

// ProcessDocumentUseCase runs the worker pipeline for one uploaded document:
// extract text, analyze it, persist the result. Analysis itself cannot fail;
// extraction and persistence failures mark the document failed.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.TextExtractor
	analyzer  ports.DocumentAnalyzer
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	analyzer ports.DocumentAnalyzer,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.processPipeline(ctx, documentID); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	// Empty text is still analyzable: the orchestrator degrades to a
	// low-confidence or synthetic result rather than failing.
	result := uc.analyzer.Analyze(ctx, domain.AnalysisRequest{
		DocumentID:  doc.ID,
		Text:        text,
		DisplayName: doc.Filename,
		MediaType:   doc.MimeType,
	})

	if err := uc.repo.SaveAnalysis(ctx, doc.ID, result); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
