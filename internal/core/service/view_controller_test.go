package service

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

func newTestController(repo *mockDocRepo) (*ViewController, *InventoryStore) {
	store, _ := newTestStore(repo)
	return NewViewController(store), store
}

func TestActivate_LoadsOnce(t *testing.T) {
	repo := newMockDocRepo()
	repo.seed(DefaultCollection, "Apple", 1)
	vc, _ := newTestController(repo)
	ctx := context.Background()

	vc.Activate(ctx)
	vc.Activate(ctx)

	if repo.listCalls != 1 {
		t.Errorf("expected 1 load, got %d", repo.listCalls)
	}
	want := domain.List{{Name: "Apple", Quantity: 1}}
	if got := vc.State().Items; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSetSearch_FiltersInOrder(t *testing.T) {
	repo := newMockDocRepo()
	repo.seed(DefaultCollection, "Apple", 1)
	repo.seed(DefaultCollection, "Banana", 4)
	repo.seed(DefaultCollection, "Grape", 2)
	vc, _ := newTestController(repo)
	vc.Activate(context.Background())

	vc.SetSearch("ap")
	state := vc.State()
	want := domain.List{{Name: "Apple", Quantity: 1}, {Name: "Grape", Quantity: 2}}
	if !reflect.DeepEqual(state.Items, want) {
		t.Errorf("expected %v, got %v", want, state.Items)
	}
	if state.Search != "ap" {
		t.Errorf("expected search %q, got %q", "ap", state.Search)
	}

	vc.SetSearch("")
	if got := vc.State().Items; len(got) != 3 {
		t.Errorf("expected full list with empty search, got %v", got)
	}
}

func TestMutation_RefiltersWithCurrentSearch(t *testing.T) {
	repo := newMockDocRepo()
	vc, _ := newTestController(repo)
	ctx := context.Background()
	vc.Activate(ctx)

	vc.SetSearch("MIL")
	vc.Increment(ctx, "milk")
	vc.Increment(ctx, "bread")

	want := domain.List{{Name: "milk", Quantity: 1}}
	if got := vc.State().Items; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	vc.SetSearch("")
	if got := vc.State().Items; len(got) != 2 {
		t.Errorf("expected both items, got %v", got)
	}
}

func TestDecrement_RemovesFromView(t *testing.T) {
	repo := newMockDocRepo()
	repo.seed(DefaultCollection, "milk", 1)
	vc, _ := newTestController(repo)
	ctx := context.Background()
	vc.Activate(ctx)

	vc.Decrement(ctx, "milk")

	if got := vc.State().Items; len(got) != 0 {
		t.Errorf("expected empty view, got %v", got)
	}
}

func TestModal_Toggles(t *testing.T) {
	vc, _ := newTestController(newMockDocRepo())

	vc.OpenModal()
	if !vc.State().ModalOpen {
		t.Error("expected modal open")
	}
	vc.SetSearch("x")
	vc.CloseModal()
	state := vc.State()
	if state.ModalOpen || state.Search != "x" {
		t.Errorf("unexpected state %+v", state)
	}
	vc.CloseModal()
	if vc.State().ModalOpen {
		t.Error("closing twice must keep modal closed")
	}
}

func TestSubmitNewItem_ClearsAndCloses(t *testing.T) {
	repo := newMockDocRepo()
	vc, _ := newTestController(repo)
	ctx := context.Background()
	vc.Activate(ctx)

	vc.OpenModal()
	vc.SetPendingName("cheese")
	vc.SubmitPending(ctx)

	state := vc.State()
	if state.ModalOpen || state.PendingName != "" {
		t.Errorf("expected closed modal and empty pending name, got %+v", state)
	}
	want := domain.List{{Name: "cheese", Quantity: 1}}
	if !reflect.DeepEqual(state.Items, want) {
		t.Errorf("expected %v, got %v", want, state.Items)
	}
}

func TestSubmitNewItem_FailureStillCloses(t *testing.T) {
	repo := newMockDocRepo()
	vc, store := newTestController(repo)
	ctx := context.Background()
	vc.Activate(ctx)

	repo.failSet = true
	vc.OpenModal()
	vc.SetPendingName("cheese")
	vc.SubmitNewItem(ctx, "cheese")

	state := vc.State()
	if state.ModalOpen || state.PendingName != "" {
		t.Errorf("expected closed modal and empty pending name, got %+v", state)
	}
	if len(store.Items()) != 0 || len(state.Items) != 0 {
		t.Errorf("expected stale empty list, got %v", state.Items)
	}
}

func TestSubmitNewItem_EmptyName(t *testing.T) {
	repo := newMockDocRepo()
	vc, _ := newTestController(repo)
	ctx := context.Background()

	vc.OpenModal()
	vc.SubmitPending(ctx)

	if repo.setCalls != 0 {
		t.Errorf("expected no writes for empty name, got %d", repo.setCalls)
	}
	if vc.State().ModalOpen {
		t.Error("expected modal closed")
	}
}

func TestSearch_LastValueWinsOnReload(t *testing.T) {
	repo := newMockDocRepo()
	repo.seed(DefaultCollection, "Apple", 1)
	repo.seed(DefaultCollection, "Pear", 1)
	vc, store := newTestController(repo)
	ctx := context.Background()
	vc.Activate(ctx)

	vc.SetSearch("app")
	vc.SetSearch("pe")
	store.Load(ctx)

	want := domain.List{{Name: "Pear", Quantity: 1}}
	if got := vc.State().Items; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestState_EmptyBeforeActivate(t *testing.T) {
	vc, _ := newTestController(newMockDocRepo())

	state := vc.State()
	if state.Items == nil || len(state.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", state.Items)
	}
}

func TestOverlappingLoads_ViewFollowsStore(t *testing.T) {
	repo := newMockDocRepo()
	repo.seed(DefaultCollection, "milk", 1)
	store, _ := newTestStore(repo)
	ctx := context.Background()

	// Hold the first delivery before it reaches the view.
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	store.Subscribe(func(domain.List) {
		once.Do(func() {
			close(entered)
			<-release
		})
	})

	vc := NewViewController(store)
	activated := make(chan struct{})
	go func() {
		defer close(activated)
		vc.Activate(ctx)
	}()
	<-entered

	added := make(chan struct{})
	go func() {
		defer close(added)
		store.Add(ctx, "milk")
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	<-activated
	<-added

	want := domain.List{{Name: "milk", Quantity: 2}}
	if got := store.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected store %v, got %v", want, got)
	}
	if got := vc.State().Items; !reflect.DeepEqual(got, want) {
		t.Errorf("expected view %v, got %v", want, got)
	}
}
