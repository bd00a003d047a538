package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/docmindhq/docmind/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082701)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	summary TEXT,
	key_points JSONB NOT NULL DEFAULT '[]'::jsonb,
	document_type TEXT,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	topics JSONB NOT NULL DEFAULT '[]'::jsonb,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	provenance TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_document_type ON documents(document_type);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE TABLE IF NOT EXISTS analysis_feedback (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	field TEXT NOT NULL,
	original_value TEXT,
	corrected_value TEXT NOT NULL,
	note TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_feedback_document_id ON analysis_feedback(document_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	keyPointsJSON, err := json.Marshal(doc.KeyPoints)
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	topicsJSON, err := json.Marshal(doc.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	metadataJSON, err := marshalMetadata(doc.ExtraMetadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, mime_type, storage_path, summary, key_points, document_type, confidence, topics, metadata, provenance, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, doc.Summary, keyPointsJSON, doc.DocumentType,
		doc.Confidence, topicsJSON, metadataJSON, string(doc.Provenance), string(doc.Status), doc.Error,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

const documentColumns = `id, filename, mime_type, storage_path, summary, key_points, document_type, confidence, topics, metadata, provenance, status, error_message, created_at, updated_at`

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE 1=1`
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (filename ILIKE $%d OR summary ILIKE $%d)", len(args), len(args))
	}
	if filter.DocumentType != "" {
		args = append(args, filter.DocumentType)
		query += fmt.Sprintf(" AND document_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return notFoundIfNoRows(res, "update document status", id)
}

func (r *DocumentRepository) SaveAnalysis(ctx context.Context, id string, result domain.AnalysisResult) error {
	keyPointsJSON, err := json.Marshal(result.KeyPoints)
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	topicsJSON, err := json.Marshal(result.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	metadataJSON, err := marshalMetadata(result.ExtraMetadata)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET summary = $2, key_points = $3, document_type = $4, confidence = $5, topics = $6, metadata = $7, provenance = $8, updated_at = $9
WHERE id = $1
`, id, result.Summary, keyPointsJSON, result.DocumentType, result.Confidence, topicsJSON, metadataJSON,
		string(result.Provenance), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return notFoundIfNoRows(res, "save analysis", id)
}

func (r *DocumentRepository) Stats(ctx context.Context) (domain.UsageStats, error) {
	stats := domain.UsageStats{
		ByStatus:       map[string]int64{},
		ByDocumentType: map[string]int64{},
		ByProvenance:   map[string]int64{},
	}

	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(AVG(confidence), 0)
FROM documents
`)
	if err := row.Scan(&stats.TotalDocuments, &stats.AvgConfidence); err != nil {
		return domain.UsageStats{}, fmt.Errorf("scan document totals: %w", err)
	}

	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM documents GROUP BY status`, stats.ByStatus); err != nil {
		return domain.UsageStats{}, err
	}
	if err := r.groupCount(ctx, `SELECT COALESCE(document_type, ''), COUNT(*) FROM documents WHERE document_type IS NOT NULL AND document_type <> '' GROUP BY document_type`, stats.ByDocumentType); err != nil {
		return domain.UsageStats{}, err
	}
	if err := r.groupCount(ctx, `SELECT COALESCE(provenance, ''), COUNT(*) FROM documents WHERE provenance IS NOT NULL AND provenance <> '' GROUP BY provenance`, stats.ByProvenance); err != nil {
		return domain.UsageStats{}, err
	}

	row = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_feedback`)
	if err := row.Scan(&stats.FeedbackEntries); err != nil {
		return domain.UsageStats{}, fmt.Errorf("scan feedback total: %w", err)
	}
	return stats, nil
}

func (r *DocumentRepository) groupCount(ctx context.Context, query string, into map[string]int64) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("stats group query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan stats group: %w", err)
		}
		into[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate stats group: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var keyPointsRaw, topicsRaw, metadataRaw []byte
	var provenance, status string

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &doc.Summary, &keyPointsRaw,
		&doc.DocumentType, &doc.Confidence, &topicsRaw, &metadataRaw, &provenance, &status,
		&doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	if err := json.Unmarshal(keyPointsRaw, &doc.KeyPoints); err != nil {
		return nil, fmt.Errorf("unmarshal key points: %w", err)
	}
	if err := json.Unmarshal(topicsRaw, &doc.Topics); err != nil {
		return nil, fmt.Errorf("unmarshal topics: %w", err)
	}
	if err := json.Unmarshal(metadataRaw, &doc.ExtraMetadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	doc.Provenance = domain.Provenance(provenance)
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return raw, nil
}

func notFoundIfNoRows(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
