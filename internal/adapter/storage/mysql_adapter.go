package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/pantry-tracker/internal/adapter/storage/schema"
	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

var (
	ErrOptimisticLock = errors.New("optimistic lock conflict")
	ErrKeyTooLong     = errors.New("document key too long")
)

// Column widths in schema/mysql.sql, in characters.
const (
	maxCollectionLength = 64
	maxKeyLength        = 700
)

const (
	maxAdjustAttempts    = 64
	mysqlErrDuplicateKey = 1062
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the documents table when missing.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, schema.MySQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := m.db.QueryContext(ctx, `
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

func (m *MySQLAdapter) GetDocument(ctx context.Context, collection, key string) (*domain.Document, error) {
	doc, _, err := m.getVersioned(ctx, collection, key)
	return doc, err
}

func (m *MySQLAdapter) SetDocument(ctx context.Context, collection string, doc domain.Document) error {
	if err := checkKeyLength(collection, doc.Key); err != nil {
		return err
	}
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO documents (collection, doc_key, quantity, version)
		VALUES (?, ?, ?, 0)
		ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), version = version + 1, updated_at = NOW()`,
		collection, doc.Key, doc.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) DeleteDocument(ctx context.Context, collection, key string) error {
	_, err := m.db.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = ? AND doc_key = ?`, collection, key)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// AdjustQuantity reads the versioned document and writes conditionally on
// that version, retrying on conflict.
func (m *MySQLAdapter) AdjustQuantity(ctx context.Context, collection, key string, delta int) (int, error) {
	if err := checkKeyLength(collection, key); err != nil {
		return 0, err
	}
	for attempt := 0; attempt < maxAdjustAttempts; attempt++ {
		doc, version, err := m.getVersioned(ctx, collection, key)
		if err != nil {
			return 0, err
		}
		if doc == nil && delta <= 0 {
			return 0, nil
		}

		var next int
		if doc == nil {
			next = delta
			err = m.insertNew(ctx, collection, key, next)
		} else {
			next = doc.Quantity + delta
			if next <= 0 {
				next = 0
				err = m.deleteVersion(ctx, collection, key, version)
			} else {
				err = m.updateVersion(ctx, collection, key, next, version)
			}
		}

		if errors.Is(err, ErrOptimisticLock) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return next, nil
	}
	return 0, fmt.Errorf("adjust %q: %w", key, ErrOptimisticLock)
}

func (m *MySQLAdapter) Close() error {
	return m.db.Close()
}

func checkKeyLength(collection, key string) error {
	if utf8.RuneCountInString(collection) > maxCollectionLength {
		return fmt.Errorf("%w: collection %q exceeds %d characters", ErrKeyTooLong, collection, maxCollectionLength)
	}
	if utf8.RuneCountInString(key) > maxKeyLength {
		return fmt.Errorf("%w: key exceeds %d characters", ErrKeyTooLong, maxKeyLength)
	}
	return nil
}

func (m *MySQLAdapter) getVersioned(ctx context.Context, collection, key string) (*domain.Document, int, error) {
	doc := domain.Document{Key: key}
	var version int
	err := m.db.QueryRowContext(ctx, `
		SELECT quantity, version FROM documents
		WHERE collection = ? AND doc_key = ?`, collection, key,
	).Scan(&doc.Quantity, &version)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("query document: %w", err)
	}
	return &doc, version, nil
}

func (m *MySQLAdapter) insertNew(ctx context.Context, collection, key string, quantity int) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO documents (collection, doc_key, quantity, version)
		VALUES (?, ?, ?, 0)`, collection, key, quantity)

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateKey {
		return ErrOptimisticLock
	}
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) updateVersion(ctx context.Context, collection, key string, quantity, version int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE documents
		SET quantity = ?, version = version + 1, updated_at = NOW()
		WHERE collection = ? AND doc_key = ? AND version = ?`,
		quantity, collection, key, version,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrOptimisticLock
	}
	return nil
}

func (m *MySQLAdapter) deleteVersion(ctx context.Context, collection, key string, version int) error {
	result, err := m.db.ExecContext(ctx, `
		DELETE FROM documents
		WHERE collection = ? AND doc_key = ? AND version = ?`,
		collection, key, version,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrOptimisticLock
	}
	return nil
}
