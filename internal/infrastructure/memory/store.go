package memory

import (
	"context"
	"sync"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/outbox"
)

type txKey struct{}

// Store keeps every put-away collection in process memory. Transactions
// serialize on one mutex and roll back by restoring a snapshot, which is
// enough for local runs and tests but not for more than one replica.
type Store struct {
	mu        sync.Mutex
	pallets   map[string]*domain.Pallet
	locations map[string]*domain.Location
	tasks     map[string]*domain.PutAwayTask
	rules     map[string]*domain.PutAwayRule
	movements []*domain.StockMovement
	outbox    []*outbox.OutboxEvent
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		pallets:   make(map[string]*domain.Pallet),
		locations: make(map[string]*domain.Location),
		tasks:     make(map[string]*domain.PutAwayTask),
		rules:     make(map[string]*domain.PutAwayRule),
	}
}

type snapshot struct {
	pallets   map[string]*domain.Pallet
	locations map[string]*domain.Location
	tasks     map[string]*domain.PutAwayTask
	rules     map[string]*domain.PutAwayRule
	movements []*domain.StockMovement
	outbox    []*outbox.OutboxEvent
}

// Stored values are replaced, never mutated in place, so copying the
// containers is a full snapshot. Outbox events are the exception and are
// copied by value.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		pallets:   make(map[string]*domain.Pallet, len(s.pallets)),
		locations: make(map[string]*domain.Location, len(s.locations)),
		tasks:     make(map[string]*domain.PutAwayTask, len(s.tasks)),
		rules:     make(map[string]*domain.PutAwayRule, len(s.rules)),
		movements: append([]*domain.StockMovement(nil), s.movements...),
		outbox:    make([]*outbox.OutboxEvent, len(s.outbox)),
	}
	for k, v := range s.pallets {
		snap.pallets[k] = v
	}
	for k, v := range s.locations {
		snap.locations[k] = v
	}
	for k, v := range s.tasks {
		snap.tasks[k] = v
	}
	for k, v := range s.rules {
		snap.rules[k] = v
	}
	for i, e := range s.outbox {
		cp := *e
		snap.outbox[i] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.pallets = snap.pallets
	s.locations = snap.locations
	s.tasks = snap.tasks
	s.rules = snap.rules
	s.movements = snap.movements
	s.outbox = snap.outbox
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock acquires the store unless ctx already belongs to one of its transactions
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction implements domain.Transactor. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Pallets returns the pallet repository
func (s *Store) Pallets() *PalletRepository { return &PalletRepository{s: s} }

// Locations returns the location repository
func (s *Store) Locations() *LocationRepository { return &LocationRepository{s: s} }

// Tasks returns the task repository
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

// Rules returns the rule repository
func (s *Store) Rules() *RuleRepository { return &RuleRepository{s: s} }

// Movements returns the stock ledger
func (s *Store) Movements() *MovementRepository { return &MovementRepository{s: s} }

// Outbox returns the outbox repository
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }

func paginate[T any](items []T, page domain.Pagination) []T {
	if page.PageSize <= 0 {
		return items
	}
	start := page.Skip()
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + page.Limit()
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}
