package service

import (
	"context"
	"sync"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
)

// ViewState is what the page renders: UI transients plus the filtered list.
type ViewState struct {
	Search      string      `json:"search"`
	ModalOpen   bool        `json:"modal_open"`
	PendingName string      `json:"pending_name"`
	Items       domain.List `json:"items"`
}

// ViewController owns the UI-only state and derives the filtered view from
// the store's snapshot and the current search text.
type ViewController struct {
	store *InventoryStore

	mu          sync.Mutex
	activated   bool
	search      string
	modalOpen   bool
	pendingName string
	inventory   domain.List
	filtered    domain.List
}

func NewViewController(store *InventoryStore) *ViewController {
	return &ViewController{
		store:     store,
		inventory: domain.List{},
		filtered:  domain.List{},
	}
}

// Activate subscribes to store reloads and performs the initial load. Only
// the first call has any effect.
func (v *ViewController) Activate(ctx context.Context) {
	v.mu.Lock()
	if v.activated {
		v.mu.Unlock()
		return
	}
	v.activated = true
	v.mu.Unlock()

	v.store.Subscribe(v.onInventory)
	v.store.Load(ctx)
}

// onInventory adopts a fresh snapshot and refilters it with whatever search
// text is current at delivery time.
func (v *ViewController) onInventory(list domain.List) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inventory = list
	v.filtered = list.Filter(v.search)
}

// SetSearch stores text verbatim and refilters the current inventory.
func (v *ViewController) SetSearch(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = text
	v.filtered = v.inventory.Filter(text)
}

func (v *ViewController) OpenModal() {
	v.mu.Lock()
	v.modalOpen = true
	v.mu.Unlock()
}

func (v *ViewController) CloseModal() {
	v.mu.Lock()
	v.modalOpen = false
	v.mu.Unlock()
}

// SetPendingName tracks the text typed into the add-item modal.
func (v *ViewController) SetPendingName(name string) {
	v.mu.Lock()
	v.pendingName = name
	v.mu.Unlock()
}

// SubmitNewItem adds name to the store, then clears the pending name and
// closes the modal whether or not the add succeeded.
func (v *ViewController) SubmitNewItem(ctx context.Context, name string) {
	v.store.Add(ctx, name)

	v.mu.Lock()
	v.pendingName = ""
	v.modalOpen = false
	v.mu.Unlock()
}

// SubmitPending submits the name currently held in the modal field.
func (v *ViewController) SubmitPending(ctx context.Context) {
	v.mu.Lock()
	name := v.pendingName
	v.mu.Unlock()

	v.SubmitNewItem(ctx, name)
}

func (v *ViewController) Increment(ctx context.Context, name string) {
	v.store.Add(ctx, name)
}

func (v *ViewController) Decrement(ctx context.Context, name string) {
	v.store.Remove(ctx, name)
}

func (v *ViewController) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ViewState{
		Search:      v.search,
		ModalOpen:   v.modalOpen,
		PendingName: v.pendingName,
		Items:       v.filtered.Clone(),
	}
}
