package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// QAEntryRecord is the seeder's bookkeeping row for one embedded
// question-answer pair. The id doubles as the Qdrant point ID.
type QAEntryRecord struct {
	ID          string
	Question    string
	Answer      string
	ContentHash string // SHA256 hex of question + answer
	EmbeddedAt  time.Time
}

// QAStore defines the interface for the seeder's ingestion ledger.
type QAStore interface {
	// GetByID gets a ledger entry by point ID.
	// Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*QAEntryRecord, error)
	// Upsert inserts a new ledger entry or updates an existing one.
	Upsert(ctx context.Context, entry *QAEntryRecord) error
	// Count returns the number of ledger entries.
	Count(ctx context.Context) (int, error)
}

// QARepo provides methods for ledger operations.
// It implements the QAStore interface.
type QARepo struct {
	db *sql.DB
}

// NewQARepo creates a new QARepo.
func NewQARepo(db *sql.DB) *QARepo {
	return &QARepo{db: db}
}

// GetByID gets a ledger entry by point ID.
// Returns nil and ErrNotFound if not found.
func (r *QARepo) GetByID(ctx context.Context, id string) (*QAEntryRecord, error) {
	var entry QAEntryRecord
	var embeddedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, question, answer, content_hash, embedded_at FROM qa_entries WHERE id = ?",
		id,
	).Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.ContentHash, &embeddedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query qa entry: %w", err)
	}

	// Parse embedded_at DATETIME string
	entry.EmbeddedAt, err = time.Parse("2006-01-02 15:04:05", embeddedAtStr)
	if err != nil {
		// Try alternative format (SQLite might use different format)
		entry.EmbeddedAt, err = time.Parse(time.RFC3339, embeddedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded_at timestamp: %w", err)
		}
	}

	return &entry, nil
}

// Upsert inserts a new ledger entry or updates an existing one by point ID.
func (r *QARepo) Upsert(ctx context.Context, entry *QAEntryRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO qa_entries (id, question, answer, content_hash, embedded_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
		 question = excluded.question, answer = excluded.answer,
		 content_hash = excluded.content_hash, embedded_at = CURRENT_TIMESTAMP`,
		entry.ID, entry.Question, entry.Answer, entry.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert qa entry: %w", err)
	}

	return nil
}

// Count returns the number of ledger entries.
func (r *QARepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM qa_entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count qa entries: %w", err)
	}
	return count, nil
}
