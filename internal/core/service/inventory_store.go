package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
	"github.com/rl1809/pantry-tracker/internal/port"
)

const (
	DefaultCollection    = "inventory"
	DefaultRemoteTimeout = 5 * time.Second
)

type Options struct {
	Collection    string
	RemoteTimeout time.Duration

	// AtomicUpdates routes Add/Remove through port.QuantityAdjuster when the
	// repository implements it. Off by default: increments are a plain
	// read-then-write and concurrent callers can lose updates.
	AtomicUpdates bool

	// Logger is the diagnostic sink for swallowed remote failures.
	Logger *log.Logger
}

// InventoryStore keeps the authoritative snapshot of the inventory collection
// and re-derives it from the repository after every mutation.
type InventoryStore struct {
	repo   port.DocumentRepository
	opts   Options
	logger *log.Logger

	// pubMu orders snapshot swaps and their delivery to subscribers.
	pubMu  sync.Mutex
	mu     sync.RWMutex
	items  domain.List
	loaded bool

	subMu sync.Mutex
	subs  []func(domain.List)
}

func NewInventoryStore(repo port.DocumentRepository, opts Options) *InventoryStore {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &InventoryStore{
		repo:   repo,
		opts:   opts,
		logger: logger,
	}
}

// Subscribe registers fn to receive every snapshot produced by a successful load.
// Snapshots arrive in the order they were stored. fn must not call Load.
func (s *InventoryStore) Subscribe(fn func(domain.List)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Items returns a copy of the current snapshot.
func (s *InventoryStore) Items() domain.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Clone()
}

// Loaded reports whether at least one load has succeeded.
func (s *InventoryStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Load fetches the whole collection and replaces the snapshot. On failure the
// error goes to the diagnostic sink and the previous snapshot is returned
// untouched.
func (s *InventoryStore) Load(ctx context.Context) domain.List {
	list, err := s.fetch(ctx)
	if err != nil {
		s.logger.Printf("error fetching inventory: %v", err)
		return s.Items()
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.items = list
	s.loaded = true
	s.mu.Unlock()

	s.notify(list)
	return list.Clone()
}

// Add increments the quantity of name, creating the item at 1 when absent,
// then reloads the snapshot.
func (s *InventoryStore) Add(ctx context.Context, name string) {
	if err := s.add(ctx, name); err != nil {
		s.logger.Printf("error adding item %q: %v", name, err)
		return
	}
	s.Load(ctx)
}

// Remove decrements the quantity of name, deleting the item when it reaches
// zero, then reloads the snapshot. Removing an absent item only reloads.
func (s *InventoryStore) Remove(ctx context.Context, name string) {
	if err := s.remove(ctx, name); err != nil {
		s.logger.Printf("error removing item %q: %v", name, err)
		return
	}
	s.Load(ctx)
}

func (s *InventoryStore) fetch(ctx context.Context) (domain.List, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()

	docs, err := s.repo.ListDocuments(ctx, s.opts.Collection)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	list := make(domain.List, 0, len(docs))
	for _, doc := range docs {
		list = append(list, domain.ItemFromDocument(doc))
	}
	return list, nil
}

func (s *InventoryStore) add(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrEmptyName
	}
	if adj, ok := s.adjuster(); ok {
		return s.adjust(ctx, adj, name, 1)
	}

	doc, err := s.get(ctx, name)
	if err != nil {
		return err
	}

	next := domain.Document{Key: name, Quantity: 1}
	if doc != nil {
		next.Quantity = doc.Quantity + 1
	}
	return s.set(ctx, next)
}

func (s *InventoryStore) remove(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrEmptyName
	}
	if adj, ok := s.adjuster(); ok {
		return s.adjust(ctx, adj, name, -1)
	}

	doc, err := s.get(ctx, name)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	if doc.Quantity == 1 {
		return s.delete(ctx, name)
	}
	return s.set(ctx, domain.Document{Key: name, Quantity: doc.Quantity - 1})
}

func (s *InventoryStore) adjuster() (port.QuantityAdjuster, bool) {
	if !s.opts.AtomicUpdates {
		return nil, false
	}
	adj, ok := s.repo.(port.QuantityAdjuster)
	return adj, ok
}

func (s *InventoryStore) adjust(ctx context.Context, adj port.QuantityAdjuster, name string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()

	if _, err := adj.AdjustQuantity(ctx, s.opts.Collection, name, delta); err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	return nil
}

func (s *InventoryStore) get(ctx context.Context, name string) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()

	doc, err := s.repo.GetDocument(ctx, s.opts.Collection, name)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *InventoryStore) set(ctx context.Context, doc domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()

	if err := s.repo.SetDocument(ctx, s.opts.Collection, doc); err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

func (s *InventoryStore) delete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()

	if err := s.repo.DeleteDocument(ctx, s.opts.Collection, name); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *InventoryStore) notify(list domain.List) {
	s.subMu.Lock()
	subs := make([]func(domain.List), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(list.Clone())
	}
}
