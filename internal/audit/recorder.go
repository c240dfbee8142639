// Package audit keeps a history of served translation calls.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=recorder.go -destination=../mocks/audit/mock_recorder.go -package=mock_audit

// TranslationRecord is one served translate call. Result holds the rendered
// response JSON as returned to the caller.
type TranslationRecord struct {
	ID           int64          `db:"id"`
	SourceSystem string         `db:"source_system"`
	SourceCode   string         `db:"source_code"`
	Result       string         `db:"result"`
	UserID       sql.NullString `db:"user_id"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Recorder stores and lists translation history.
type Recorder interface {
	Record(ctx context.Context, record *TranslationRecord) error
	// History returns one page of records, newest first, together with the
	// total record count.
	History(ctx context.Context, page, size int) ([]TranslationRecord, int64, error)
	Count(ctx context.Context) (int64, error)
}

// DBRecorder implements Recorder using MySQL.
type DBRecorder struct {
	db *sqlx.DB
}

// NewDBRecorder creates a new DBRecorder.
func NewDBRecorder(db *sqlx.DB) *DBRecorder {
	return &DBRecorder{db: db}
}

func (r *DBRecorder) Record(ctx context.Context, record *TranslationRecord) error {
	_, err := r.db.NamedExecContext(ctx,
		"INSERT INTO translation_history (source_system, source_code, result, user_id, created_at) "+
			"VALUES (:source_system, :source_code, :result, :user_id, NOW())",
		record)
	if err != nil {
		return fmt.Errorf("insert translation record: %w", err)
	}
	return nil
}

func (r *DBRecorder) History(ctx context.Context, page, size int) ([]TranslationRecord, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM translation_history"); err != nil {
		return nil, 0, fmt.Errorf("count translation records: %w", err)
	}

	var records []TranslationRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM translation_history ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		size, page*size); err != nil {
		return nil, 0, fmt.Errorf("load translation records: %w", err)
	}
	return records, total, nil
}

func (r *DBRecorder) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM translation_history"); err != nil {
		return 0, fmt.Errorf("count translation records: %w", err)
	}
	return count, nil
}
