package port

import (
	"context"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

type DocumentRepository interface {
	// ListDocuments returns every document in the collection, ordered by key
	ListDocuments(ctx context.Context, collection string) ([]domain.Document, error)

	// GetDocument returns nil, nil when the key is absent
	GetDocument(ctx context.Context, collection, key string) (*domain.Document, error)

	// SetDocument overwrites the document at doc.Key, creating it if absent
	SetDocument(ctx context.Context, collection string, doc domain.Document) error

	// DeleteDocument removes the key; deleting an absent key is not an error
	DeleteDocument(ctx context.Context, collection, key string) error

	Close() error
}
