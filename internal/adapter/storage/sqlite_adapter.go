package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rl1809/pantry-tracker/internal/adapter/storage/schema"
	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

// SQLiteAdapter persists documents in an embedded SQLite database.
type SQLiteAdapter struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path and applies the schema.
func OpenSQLite(path string) (*SQLiteAdapter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema.SQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteAdapter{db: db}, nil
}

func (s *SQLiteAdapter) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_key, quantity FROM documents
		WHERE collection = ? ORDER BY doc_key`, collection)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.Key, &doc.Quantity); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *SQLiteAdapter) GetDocument(ctx context.Context, collection, key string) (*domain.Document, error) {
	doc := domain.Document{Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT quantity FROM documents
		WHERE collection = ? AND doc_key = ?`, collection, key,
	).Scan(&doc.Quantity)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	return &doc, nil
}

func (s *SQLiteAdapter) SetDocument(ctx context.Context, collection string, doc domain.Document) error {
	now := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, doc_key, quantity, version, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT (collection, doc_key) DO UPDATE
		SET quantity = excluded.quantity, version = version + 1, updated_at = excluded.updated_at`,
		collection, doc.Key, doc.Quantity, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) DeleteDocument(ctx context.Context, collection, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = ? AND doc_key = ?`, collection, key)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// AdjustQuantity runs the read-modify-write inside one IMMEDIATE transaction,
// which holds the database write lock for its whole duration.
func (s *SQLiteAdapter) AdjustQuantity(ctx context.Context, collection, key string, delta int) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx, `
		SELECT quantity FROM documents
		WHERE collection = ? AND doc_key = ?`, collection, key,
	).Scan(&current)
	exists := true
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return 0, fmt.Errorf("query document: %w", err)
	}

	if !exists && delta <= 0 {
		return 0, nil
	}

	next := current + delta
	now := time.Now().UTC().UnixMilli()
	switch {
	case next <= 0:
		_, err = tx.ExecContext(ctx, `
			DELETE FROM documents WHERE collection = ? AND doc_key = ?`, collection, key)
		next = 0
	case exists:
		_, err = tx.ExecContext(ctx, `
			UPDATE documents SET quantity = ?, version = version + 1, updated_at = ?
			WHERE collection = ? AND doc_key = ?`, next, now, collection, key)
	default:
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (collection, doc_key, quantity, version, created_at, updated_at)
			VALUES (?, ?, ?, 0, ?, ?)`, collection, key, next, now, now)
	}
	if err != nil {
		return 0, fmt.Errorf("write document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

func (s *SQLiteAdapter) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
