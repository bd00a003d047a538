package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/docmindhq/docmind/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type processRepoFake struct {
	doc           *domain.Document
	getErr        error
	saveErr       error
	failStatusErr error
	statusCalls   []statusCall
	savedID       string
	savedResult   domain.AnalysisResult
}

func (f *processRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *processRepoFake) List(context.Context, domain.ListFilter) ([]domain.Document, error) {
	return nil, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	return nil
}

func (f *processRepoFake) SaveAnalysis(_ context.Context, id string, result domain.AnalysisResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedResult = result
	return nil
}

func (f *processRepoFake) Stats(context.Context) (domain.UsageStats, error) {
	return domain.UsageStats{}, nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type analyzerFake struct {
	result domain.AnalysisResult
	calls  int
}

func (f *analyzerFake) Analyze(context.Context, domain.AnalysisRequest) domain.AnalysisResult {
	f.calls++
	return f.result
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Filename: "a.txt", MimeType: "text/plain"}}
	analyzer := &analyzerFake{result: domain.AnalysisResult{
		Summary:      "summary",
		DocumentType: "report",
		Provenance:   domain.ProvenancePrimary,
	}}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{text: "text"}, analyzer)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusReady {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.savedID != "doc-1" {
		t.Fatalf("expected analysis save for doc-1, got %q", repo.savedID)
	}
	if repo.savedResult.Provenance != domain.ProvenancePrimary {
		t.Fatalf("unexpected saved result: %+v", repo.savedResult)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected one analyzer call, got %d", analyzer.calls)
	}
}

func TestProcessByIDMarksFailedOnExtractError(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{err: errors.New("extract fail")}, &analyzerFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected processing + failed status updates, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", repo.statusCalls[1])
	}
}

func TestProcessByIDMarksFailedOnSaveError(t *testing.T) {
	repo := &processRepoFake{
		doc:     &domain.Document{ID: "doc-1"},
		saveErr: errors.New("db unavailable"),
	}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{text: "text"}, &analyzerFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
}

func TestProcessByIDAnalyzesEmptyExtractedText(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Filename: "blank.txt", MimeType: "text/plain"}}
	analyzer := &analyzerFake{result: domain.AnalysisResult{Provenance: domain.ProvenanceSynthetic, Confidence: 0.3}}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{text: ""}, analyzer)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected analyzer to run on empty text, got %d calls", analyzer.calls)
	}
	if repo.savedResult.Provenance != domain.ProvenanceSynthetic {
		t.Fatalf("unexpected saved result: %+v", repo.savedResult)
	}
}
