package mongodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// TaskRepository implements domain.TaskRepository
type TaskRepository struct {
	collection *mongo.Collection
}

// Create inserts a task. The partial unique index on palletId rejects a
// second in-progress task for the same pallet.
func (r *TaskRepository) Create(ctx context.Context, task *domain.PutAwayTask) error {
	_, err := r.collection.InsertOne(ctx, task)
	switch {
	case err == nil:
		return nil
	case duplicateOn(err, idxOpenTaskPerPallet):
		return domain.ErrPalletUnavailable
	case duplicateOn(err, idxTaskNumber):
		return domain.ErrTaskNumberExists
	default:
		return fmt.Errorf("failed to insert task: %w", err)
	}
}

// FindByID retrieves a task
func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*domain.PutAwayTask, error) {
	var task domain.PutAwayTask
	err := r.collection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// Finalize replaces the task, guarded on the stored copy still being in progress
func (r *TaskRepository) Finalize(ctx context.Context, task *domain.PutAwayTask) error {
	filter := bson.M{"_id": task.ID, "status": domain.TaskStatusInProgress}
	result, err := r.collection.ReplaceOne(ctx, filter, task)
	if err != nil {
		return fmt.Errorf("failed to finalize task: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTaskNotInProgress
	}
	return nil
}

// TaskNumberExists checks for an existing task number
func (r *TaskRepository) TaskNumberExists(ctx context.Context, taskNumber string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"taskNumber": taskNumber}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check task number: %w", err)
	}
	return n > 0, nil
}

// List returns tasks newest first
func (r *TaskRepository) List(ctx context.Context, filter domain.TaskFilter, page domain.Pagination) ([]*domain.PutAwayTask, int64, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.OperatorID != nil {
		query["operatorId"] = *filter.OperatorID
	}
	if filter.PalletID != nil {
		query["palletId"] = *filter.PalletID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	sortOrder := bson.D{{Key: "startedAt", Value: -1}, {Key: "taskNumber", Value: -1}}
	cursor, err := r.collection.Find(ctx, query, findOptions(sortOrder, page.Skip(), page.Limit()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks, err := decodeAll[domain.PutAwayTask](ctx, cursor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, total, nil
}

// FindCompletedBetween returns tasks completed in [from, to)
func (r *TaskRepository) FindCompletedBetween(ctx context.Context, from, to time.Time) ([]*domain.PutAwayTask, error) {
	filter := bson.M{
		"status":      domain.TaskStatusCompleted,
		"completedAt": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find completed tasks: %w", err)
	}
	tasks, err := decodeAll[domain.PutAwayTask](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// ActiveOperatorIDs returns distinct operators of in-progress tasks
func (r *TaskRepository) ActiveOperatorIDs(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "operatorId", bson.M{"status": domain.TaskStatusInProgress})
	if err != nil {
		return nil, fmt.Errorf("failed to list active operators: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
