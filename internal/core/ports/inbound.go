package ports

import (
	"context"
	"io"

	"github.com/docmindhq/docmind/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentAnalyzer transforms an analysis request into a complete result.
// It never returns an error: provider failures are masked by the fallback
// chain and the synthetic path.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) domain.AnalysisResult
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// FeedbackService records and lists analysis corrections.
type FeedbackService interface {
	Submit(ctx context.Context, documentID string, fb domain.Feedback) (*domain.Feedback, error)
	ListByDocument(ctx context.Context, documentID string) ([]domain.Feedback, error)
}

// StatsService reports aggregate usage numbers.
type StatsService interface {
	Collect(ctx context.Context) (domain.UsageStats, error)
}
