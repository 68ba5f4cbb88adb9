package storage

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
	"github.com/rl1809/pantry-tracker/internal/port"
)

// testCollection returns a collection name unique to this run so adapters
// backed by shared servers do not see each other's data.
func testCollection(t *testing.T) string {
	return fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())
}

func testDocumentRepository(t *testing.T, repo port.DocumentRepository, collection string) {
	ctx := context.Background()

	t.Run("EmptyCollection", func(t *testing.T) {
		docs, err := repo.ListDocuments(ctx, collection+"-empty")
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("expected no documents, got %v", docs)
		}
	})

	t.Run("GetAbsent", func(t *testing.T) {
		doc, err := repo.GetDocument(ctx, collection, "ghost")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc != nil {
			t.Errorf("expected nil for absent key, got %+v", doc)
		}
	})

	t.Run("SetGetOverwrite", func(t *testing.T) {
		if err := repo.SetDocument(ctx, collection, domain.Document{Key: "milk", Quantity: 1}); err != nil {
			t.Fatalf("SetDocument failed: %v", err)
		}
		if err := repo.SetDocument(ctx, collection, domain.Document{Key: "milk", Quantity: 4}); err != nil {
			t.Fatalf("SetDocument overwrite failed: %v", err)
		}

		doc, err := repo.GetDocument(ctx, collection, "milk")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if doc == nil || doc.Quantity != 4 {
			t.Errorf("expected milk:4, got %+v", doc)
		}
	})

	t.Run("KeysAreCaseSensitive", func(t *testing.T) {
		if err := repo.SetDocument(ctx, collection, domain.Document{Key: "Milk", Quantity: 9}); err != nil {
			t.Fatalf("SetDocument failed: %v", err)
		}
		doc, err := repo.GetDocument(ctx, collection, "milk")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if doc == nil || doc.Quantity != 4 {
			t.Errorf("expected milk to stay 4, got %+v", doc)
		}
		if err := repo.DeleteDocument(ctx, collection, "Milk"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
	})

	t.Run("ListOrderedByKey", func(t *testing.T) {
		for _, d := range []domain.Document{{Key: "eggs", Quantity: 12}, {Key: "bread", Quantity: 2}} {
			if err := repo.SetDocument(ctx, collection, d); err != nil {
				t.Fatalf("SetDocument failed: %v", err)
			}
		}

		docs, err := repo.ListDocuments(ctx, collection)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		want := []domain.Document{{Key: "bread", Quantity: 2}, {Key: "eggs", Quantity: 12}, {Key: "milk", Quantity: 4}}
		if !reflect.DeepEqual(docs, want) {
			t.Errorf("expected %v, got %v", want, docs)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.DeleteDocument(ctx, collection, "eggs"); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if err := repo.DeleteDocument(ctx, collection, "eggs"); err != nil {
			t.Fatalf("deleting an absent key must not fail: %v", err)
		}
		doc, err := repo.GetDocument(ctx, collection, "eggs")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if doc != nil {
			t.Errorf("expected eggs to be deleted, got %+v", doc)
		}
	})

	adj, ok := repo.(port.QuantityAdjuster)
	if !ok {
		return
	}

	t.Run("AdjustCreatesIncrementsDeletes", func(t *testing.T) {
		steps := []struct {
			delta int
			want  int
		}{
			{1, 1}, {1, 2}, {-1, 1}, {-1, 0}, {-1, 0},
		}
		for i, s := range steps {
			got, err := adj.AdjustQuantity(ctx, collection, "butter", s.delta)
			if err != nil {
				t.Fatalf("step %d: AdjustQuantity failed: %v", i, err)
			}
			if got != s.want {
				t.Errorf("step %d: expected %d, got %d", i, s.want, got)
			}
		}

		doc, err := repo.GetDocument(ctx, collection, "butter")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if doc != nil {
			t.Errorf("expected butter to be deleted, got %+v", doc)
		}
	})

	t.Run("AdjustConcurrent", func(t *testing.T) {
		total := 20
		var wg sync.WaitGroup
		for i := 0; i < total; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := adj.AdjustQuantity(ctx, collection, "coffee", 1); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		doc, err := repo.GetDocument(ctx, collection, "coffee")
		if err != nil {
			t.Fatalf("GetDocument failed: %v", err)
		}
		if doc == nil || doc.Quantity != total {
			t.Errorf("expected coffee:%d, got %+v", total, doc)
		}
	})
}
