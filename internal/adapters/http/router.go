package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/docmindhq/docmind/internal/config"
	"github.com/docmindhq/docmind/internal/core/domain"
	"github.com/docmindhq/docmind/internal/core/ports"
	"github.com/docmindhq/docmind/internal/observability/metrics"
)

type Router struct {
	cfg      config.Config
	ingest   ports.DocumentIngestor
	reader   ports.DocumentReader
	analyzer ports.DocumentAnalyzer
	docs     ports.DocumentRepository
	feedback ports.FeedbackService
	stats    ports.StatsService
	metrics  *metrics.HTTPServerMetrics
}

// NewRouter wires the API surface. metrics may be nil in tests.
func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	reader ports.DocumentReader,
	analyzer ports.DocumentAnalyzer,
	docs ports.DocumentRepository,
	feedback ports.FeedbackService,
	stats ports.StatsService,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		ingest:   ingest,
		reader:   reader,
		analyzer: analyzer,
		docs:     docs,
		feedback: feedback,
		stats:    stats,
		metrics:  httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	mux.HandleFunc("/v1/analyze", rt.analyzeDocument)
	mux.HandleFunc("/v1/stats", rt.usageStats)

	handler := http.Handler(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	if rt.cfg.APIMaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, defaultBackpressureWait)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, rt.metrics)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ListFilter{
		Query:        query.Get("q"),
		DocumentType: query.Get("type"),
		Status:       domain.DocumentStatus(query.Get("status")),
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := parsePositiveInt(limit)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = n
	}

	docs, err := rt.reader.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	if id, ok := strings.CutSuffix(rest, "/feedback"); ok {
		rt.documentFeedback(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	rt.getDocumentByID(w, r, rest)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) documentFeedback(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req struct {
			Field          string `json:"field"`
			OriginalValue  string `json:"originalValue"`
			CorrectedValue string `json:"correctedValue"`
			Note           string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		entry, err := rt.feedback.Submit(r.Context(), id, domain.Feedback{
			Field:          req.Field,
			OriginalValue:  req.OriginalValue,
			CorrectedValue: req.CorrectedValue,
			Note:           req.Note,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	case http.MethodGet:
		entries, err := rt.feedback.ListByDocument(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []domain.Feedback{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"feedback": entries})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type analyzeRequest struct {
	FileID   string `json:"fileId"`
	Content  string `json:"content"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

type analyzeResponse struct {
	Success  bool                   `json:"success"`
	Analysis *domain.AnalysisResult `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// analyzeDocument runs the fallback chain synchronously. The analysis itself
// cannot fail; only persisting it for a known document can.
func (rt *Router) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{Success: false, Error: "invalid json"})
		return
	}
	if strings.TrimSpace(req.FileID) == "" {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{Success: false, Error: "fileId is required"})
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeJSON(w, http.StatusBadRequest, analyzeResponse{Success: false, Error: "fileName is required"})
		return
	}

	result := rt.analyzer.Analyze(r.Context(), domain.AnalysisRequest{
		DocumentID:  req.FileID,
		Text:        req.Content,
		DisplayName: req.FileName,
		MediaType:   req.MimeType,
	})

	if err := rt.docs.SaveAnalysis(r.Context(), req.FileID, result); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), analyzeResponse{
			Success:  false,
			Analysis: &result,
			Error:    "failed to save analysis",
		})
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Analysis: &result})
}

func (rt *Router) usageStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stats, err := rt.stats.Collect(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("value must be positive: %d", n)
	}
	return n, nil
}
