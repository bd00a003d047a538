package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/docmindhq/docmind/internal/core/domain"
)

func TestFeedbackCreateInsertsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	repo := NewFeedbackRepository(db)

	fb := &domain.Feedback{
		ID:             "f1",
		DocumentID:     "d1",
		Field:          "document_type",
		OriginalValue:  "other",
		CorrectedValue: "contract",
		Note:           "it is a signed agreement",
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analysis_feedback").
		WithArgs(fb.ID, fb.DocumentID, fb.Field, fb.OriginalValue, fb.CorrectedValue, fb.Note, fb.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), fb); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFeedbackListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()
	repo := NewFeedbackRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "document_id", "field", "original_value", "corrected_value", "note", "created_at"}).
		AddRow("f1", "d1", "summary", "old", "new", "", now)

	mock.ExpectQuery("SELECT id, document_id, field").
		WithArgs("d1").
		WillReturnRows(rows)

	entries, err := repo.ListByDocument(context.Background(), "d1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(entries) != 1 || entries[0].CorrectedValue != "new" {
		t.Fatalf("unexpected entries: %v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
