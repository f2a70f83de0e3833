package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/outbox"
)

// MovementRepository implements domain.MovementRepository
type MovementRepository struct {
	s *Store
}

// Append adds a movement to the ledger
func (r *MovementRepository) Append(ctx context.Context, movement *domain.StockMovement) error {
	defer r.s.lock(ctx)()
	for _, m := range r.s.movements {
		if m.ID == movement.ID {
			return fmt.Errorf("stock movement %s already recorded", movement.ID)
		}
	}
	cp := *movement
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

// List returns movements in ledger order
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter, page domain.Pagination) ([]*domain.StockMovement, int64, error) {
	defer r.s.lock(ctx)()
	var out []*domain.StockMovement
	for _, m := range r.s.movements {
		if filter.TaskID != nil && m.TaskID != *filter.TaskID {
			continue
		}
		if filter.LocationID != nil && m.LocationID != *filter.LocationID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return paginate(out, page), int64(len(out)), nil
}

// OutboxRepository implements outbox.Repository
type OutboxRepository struct {
	s *Store
}

// SaveAll appends events; inside a transaction they roll back with it
func (r *OutboxRepository) SaveAll(ctx context.Context, events []*outbox.OutboxEvent) error {
	defer r.s.lock(ctx)()
	for _, e := range events {
		cp := *e
		r.s.outbox = append(r.s.outbox, &cp)
	}
	return nil
}

// FindUnpublished returns pending events oldest first
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]*outbox.OutboxEvent, error) {
	defer r.s.lock(ctx)()
	var out []*outbox.OutboxEvent
	for _, e := range r.s.outbox {
		if len(out) >= limit {
			break
		}
		if e.ShouldRetry() {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MarkPublished marks an event as published
func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	return r.update(ctx, eventID, func(e *outbox.OutboxEvent) {
		now := time.Now().UTC()
		e.PublishedAt = &now
	})
}

// IncrementRetry records a failed delivery
func (r *OutboxRepository) IncrementRetry(ctx context.Context, eventID string, errorMsg string) error {
	return r.update(ctx, eventID, func(e *outbox.OutboxEvent) {
		e.RetryCount++
		e.LastError = errorMsg
	})
}

func (r *OutboxRepository) update(ctx context.Context, eventID string, apply func(*outbox.OutboxEvent)) error {
	defer r.s.lock(ctx)()
	for _, e := range r.s.outbox {
		if e.ID == eventID {
			apply(e)
			return nil
		}
	}
	return fmt.Errorf("event not found: %s", eventID)
}

// Events returns a copy of every stored event, for tests and diagnostics
func (r *OutboxRepository) Events(ctx context.Context) []*outbox.OutboxEvent {
	defer r.s.lock(ctx)()
	out := make([]*outbox.OutboxEvent, len(r.s.outbox))
	for i, e := range r.s.outbox {
		cp := *e
		out[i] = &cp
	}
	return out
}
