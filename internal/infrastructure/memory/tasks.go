package memory

import (
	"context"
	"sort"
	"time"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// TaskRepository implements domain.TaskRepository
type TaskRepository struct {
	s *Store
}

func copyTask(t *domain.PutAwayTask) *domain.PutAwayTask {
	cp := *t
	cp.DomainEvents = nil
	return &cp
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, task *domain.PutAwayTask) error {
	defer r.s.lock(ctx)()
	for _, t := range r.s.tasks {
		if t.TaskNumber == task.TaskNumber {
			return domain.ErrTaskNumberExists
		}
		if t.PalletID == task.PalletID && t.Status == domain.TaskStatusInProgress {
			return domain.ErrPalletUnavailable
		}
	}
	r.s.tasks[task.ID] = copyTask(task)
	return nil
}

// FindByID retrieves a task
func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*domain.PutAwayTask, error) {
	defer r.s.lock(ctx)()
	t, ok := r.s.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// Finalize writes a terminal task if the stored one is still in progress
func (r *TaskRepository) Finalize(ctx context.Context, task *domain.PutAwayTask) error {
	defer r.s.lock(ctx)()
	current, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if current.Status != domain.TaskStatusInProgress || !task.Status.IsTerminal() {
		return domain.ErrTaskNotInProgress
	}
	r.s.tasks[task.ID] = copyTask(task)
	return nil
}

// TaskNumberExists checks for a used task number
func (r *TaskRepository) TaskNumberExists(ctx context.Context, taskNumber string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, t := range r.s.tasks {
		if t.TaskNumber == taskNumber {
			return true, nil
		}
	}
	return false, nil
}

// List returns tasks newest first
func (r *TaskRepository) List(ctx context.Context, filter domain.TaskFilter, page domain.Pagination) ([]*domain.PutAwayTask, int64, error) {
	defer r.s.lock(ctx)()
	var out []*domain.PutAwayTask
	for _, t := range r.s.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.OperatorID != nil && t.OperatorID != *filter.OperatorID {
			continue
		}
		if filter.PalletID != nil && t.PalletID != *filter.PalletID {
			continue
		}
		out = append(out, copyTask(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].TaskNumber > out[j].TaskNumber
	})
	return paginate(out, page), int64(len(out)), nil
}

// FindCompletedBetween returns tasks completed in [from, to)
func (r *TaskRepository) FindCompletedBetween(ctx context.Context, from, to time.Time) ([]*domain.PutAwayTask, error) {
	defer r.s.lock(ctx)()
	var out []*domain.PutAwayTask
	for _, t := range r.s.tasks {
		if t.Status != domain.TaskStatusCompleted || t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.Before(from) || !t.CompletedAt.Before(to) {
			continue
		}
		out = append(out, copyTask(t))
	}
	return out, nil
}

// ActiveOperatorIDs returns distinct operators of in-progress tasks
func (r *TaskRepository) ActiveOperatorIDs(ctx context.Context) ([]string, error) {
	defer r.s.lock(ctx)()
	seen := make(map[string]struct{})
	var out []string
	for _, t := range r.s.tasks {
		if t.Status != domain.TaskStatusInProgress {
			continue
		}
		if _, ok := seen[t.OperatorID]; ok {
			continue
		}
		seen[t.OperatorID] = struct{}{}
		out = append(out, t.OperatorID)
	}
	sort.Strings(out)
	return out, nil
}
