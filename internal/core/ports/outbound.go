package ports

import (
	"context"
	"io"

	"github.com/docmindhq/docmind/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, result domain.AnalysisResult) error
	Stats(ctx context.Context) (domain.UsageStats, error)
}

// FeedbackRepository persists correction feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.Feedback, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// AnalysisProvider is one external text-generation endpoint. Generate submits
// a prompt and returns the raw completion text; any transport or status
// failure is an error.
type AnalysisProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
