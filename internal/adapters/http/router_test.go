package httpadapter

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/docmindhq/docmind/internal/config"
	"github.com/docmindhq/docmind/internal/core/domain"
)

type ingestFake struct {
	err error
}

func (f ingestFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "doc-1_file.txt",
		KeyPoints:   []string{},
		Topics:      []string{},
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type readerFake struct {
	doc     *domain.Document
	docs    []domain.Document
	getErr  error
	listErr error
}

func (f readerFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc != nil {
		return f.doc, nil
	}
	return &domain.Document{ID: "doc-1", Filename: "a.txt", MimeType: "text/plain", StoragePath: "a.txt", Status: domain.StatusReady}, nil
}

func (f readerFake) List(context.Context, domain.ListFilter) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

type analyzerStub struct {
	result domain.AnalysisResult
	calls  int
	lastIn domain.AnalysisRequest
}

func (f *analyzerStub) Analyze(_ context.Context, req domain.AnalysisRequest) domain.AnalysisResult {
	f.calls++
	f.lastIn = req
	return f.result
}

type docsRepoFake struct {
	saveErr     error
	savedID     string
	savedResult domain.AnalysisResult
}

func (f *docsRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *docsRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get", io.EOF)
}

func (f *docsRepoFake) List(context.Context, domain.ListFilter) ([]domain.Document, error) {
	return nil, nil
}

func (f *docsRepoFake) UpdateStatus(context.Context, string, domain.DocumentStatus, string) error {
	return nil
}

func (f *docsRepoFake) SaveAnalysis(_ context.Context, id string, result domain.AnalysisResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedResult = result
	return nil
}

func (f *docsRepoFake) Stats(context.Context) (domain.UsageStats, error) {
	return domain.UsageStats{}, nil
}

type feedbackFake struct {
	entry   *domain.Feedback
	entries []domain.Feedback
	err     error
}

func (f feedbackFake) Submit(_ context.Context, documentID string, fb domain.Feedback) (*domain.Feedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.entry != nil {
		return f.entry, nil
	}
	return &domain.Feedback{ID: "fb-1", DocumentID: documentID, Field: fb.Field, CorrectedValue: fb.CorrectedValue}, nil
}

func (f feedbackFake) ListByDocument(context.Context, string) ([]domain.Feedback, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

type statsFake struct {
	stats domain.UsageStats
	err   error
}

func (f statsFake) Collect(context.Context) (domain.UsageStats, error) {
	if f.err != nil {
		return domain.UsageStats{}, f.err
	}
	return f.stats, nil
}

type testDeps struct {
	cfg      config.Config
	ingest   ingestFake
	reader   readerFake
	analyzer *analyzerStub
	docs     *docsRepoFake
	feedback feedbackFake
	stats    statsFake
}

func newTestHandler(deps testDeps) http.Handler {
	if deps.analyzer == nil {
		deps.analyzer = &analyzerStub{}
	}
	if deps.docs == nil {
		deps.docs = &docsRepoFake{}
	}
	return NewRouter(
		deps.cfg,
		deps.ingest,
		deps.reader,
		deps.analyzer,
		deps.docs,
		deps.feedback,
		deps.stats,
		nil,
	).Handler()
}
