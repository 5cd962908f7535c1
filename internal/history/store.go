// Package history keeps a local record of submissions: what was sent, when,
// whether the backend accepted it, and where the result landed.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Submission statuses recorded in the store.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Submission is one recorded submission attempt.
type Submission struct {
	ID            string
	SubmittedAt   time.Time
	Spreadsheet   string
	DocumentCount int
	MatchedCount  int
	Status        string
	Detail        string
	ResultPath    string
}

// Store manages the SQLite submission-history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath.
// The special path ":memory:" opens an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a submission. A missing ID is filled with a fresh UUID; a
// zero SubmittedAt is stamped with the current time. The stored ID is
// returned.
func (s *Store) Record(ctx context.Context, sub Submission) (string, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions
			(id, submitted_at, spreadsheet, document_count, matched_count, status, detail, result_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.SubmittedAt, sub.Spreadsheet, sub.DocumentCount,
		sub.MatchedCount, sub.Status, sub.Detail, sub.ResultPath,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record submission: %w", err)
	}
	return sub.ID, nil
}

// Recent returns the most recent submissions, newest first, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, submitted_at, spreadsheet, document_count, matched_count, status, detail, result_path
		FROM submissions
		ORDER BY submitted_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(
			&sub.ID, &sub.SubmittedAt, &sub.Spreadsheet, &sub.DocumentCount,
			&sub.MatchedCount, &sub.Status, &sub.Detail, &sub.ResultPath,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return subs, nil
}

// Prune deletes submissions older than the retention window and returns the
// number removed.
func (s *Store) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-keep)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE submitted_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune submissions: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned submissions: %w", err)
	}
	return removed, nil
}
