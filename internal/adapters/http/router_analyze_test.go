package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docmindhq/docmind/internal/core/domain"
)

func analyzePayload(t *testing.T, fileID string) *bytes.Reader {
	t.Helper()
	return analyzeBody(t, map[string]string{
		"fileId":   fileID,
		"content":  "hello world",
		"fileName": "hello.txt",
		"mimeType": "text/plain",
	})
}

func analyzeBody(t *testing.T, fields map[string]string) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return bytes.NewReader(payload)
}

func TestAnalyzeReturnsResultAndPersists(t *testing.T) {
	analyzer := &analyzerStub{result: domain.AnalysisResult{
		Summary:       "greeting in plain text",
		KeyPoints:     []string{"says hello"},
		DocumentType:  "letter",
		Confidence:    0.9,
		Topics:        []string{"greeting"},
		ExtraMetadata: map[string]any{},
		Provenance:    domain.ProvenancePrimary,
	}}
	docs := &docsRepoFake{}
	handler := newTestHandler(testDeps{analyzer: analyzer, docs: docs})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", analyzePayload(t, "doc-1"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var resp analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.Analysis == nil || resp.Analysis.Provenance != domain.ProvenancePrimary {
		t.Fatalf("unexpected analysis: %+v", resp.Analysis)
	}
	if analyzer.lastIn.DocumentID != "doc-1" || analyzer.lastIn.MediaType != "text/plain" {
		t.Fatalf("unexpected analyzer input: %+v", analyzer.lastIn)
	}
	if docs.savedID != "doc-1" {
		t.Fatalf("expected analysis saved for doc-1, saw %q", docs.savedID)
	}
}

func TestAnalyzeRejectsMissingFileID(t *testing.T) {
	analyzer := &analyzerStub{}
	handler := newTestHandler(testDeps{analyzer: analyzer})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", analyzePayload(t, ""))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}

	var resp analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("expected success=false with error, got %+v", resp)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer must not run for invalid input, ran %d times", analyzer.calls)
	}
}

func TestAnalyzeRejectsMissingFileName(t *testing.T) {
	analyzer := &analyzerStub{}
	handler := newTestHandler(testDeps{analyzer: analyzer})

	body := analyzeBody(t, map[string]string{
		"fileId":   "doc-1",
		"content":  "hello world",
		"mimeType": "text/plain",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}

	var resp analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("expected success=false with error, got %+v", resp)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer must not run for invalid input, ran %d times", analyzer.calls)
	}
}

func TestAnalyzeSaveFailureStillReturnsAnalysis(t *testing.T) {
	analyzer := &analyzerStub{result: domain.AnalysisResult{
		Summary:    "text",
		Provenance: domain.ProvenanceSynthetic,
	}}
	docs := &docsRepoFake{saveErr: domain.WrapError(domain.ErrDocumentNotFound, "save analysis", errors.New("id=doc-9"))}
	handler := newTestHandler(testDeps{analyzer: analyzer, docs: docs})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", analyzePayload(t, "doc-9"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}

	var resp analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected success=false, got %+v", resp)
	}
	if resp.Error == "" {
		t.Fatalf("expected error message")
	}
	if resp.Analysis == nil {
		t.Fatalf("analysis must be included even when persistence fails")
	}
}

func TestAnalyzeRejectsInvalidJSON(t *testing.T) {
	handler := newTestHandler(testDeps{})

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
