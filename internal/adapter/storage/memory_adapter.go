package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

// MemoryAdapter keeps documents in process memory. Used for local runs and tests.
type MemoryAdapter struct {
	mu          sync.Mutex
	collections map[string]map[string]int
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{collections: make(map[string]map[string]int)}
}

func (m *MemoryAdapter) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]domain.Document, 0, len(m.collections[collection]))
	for key, quantity := range m.collections[collection] {
		docs = append(docs, domain.Document{Key: key, Quantity: quantity})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (m *MemoryAdapter) GetDocument(ctx context.Context, collection, key string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	quantity, ok := m.collections[collection][key]
	if !ok {
		return nil, nil
	}
	return &domain.Document{Key: key, Quantity: quantity}, nil
}

func (m *MemoryAdapter) SetDocument(ctx context.Context, collection string, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collection(collection)[doc.Key] = doc.Quantity
	return nil
}

func (m *MemoryAdapter) DeleteDocument(ctx context.Context, collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], key)
	return nil
}

func (m *MemoryAdapter) AdjustQuantity(ctx context.Context, collection, key string, delta int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collection(collection)
	current, ok := docs[key]
	if !ok && delta <= 0 {
		return 0, nil
	}

	next := current + delta
	if next <= 0 {
		delete(docs, key)
		return 0, nil
	}
	docs[key] = next
	return next, nil
}

func (m *MemoryAdapter) Close() error { return nil }

// collection must be called with m.mu held.
func (m *MemoryAdapter) collection(name string) map[string]int {
	docs, ok := m.collections[name]
	if !ok {
		docs = make(map[string]int)
		m.collections[name] = docs
	}
	return docs
}
