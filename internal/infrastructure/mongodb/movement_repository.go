package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// MovementRepository is the append-only stock ledger
type MovementRepository struct {
	collection *mongo.Collection
}

// Append inserts a ledger entry
func (r *MovementRepository) Append(ctx context.Context, movement *domain.StockMovement) error {
	if _, err := r.collection.InsertOne(ctx, movement); err != nil {
		return fmt.Errorf("failed to append stock movement: %w", err)
	}
	return nil
}

// List returns ledger entries in append order
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter, page domain.Pagination) ([]*domain.StockMovement, int64, error) {
	query := bson.M{}
	if filter.TaskID != nil {
		query["taskId"] = *filter.TaskID
	}
	if filter.LocationID != nil {
		query["locationId"] = *filter.LocationID
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}

	sortOrder := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	cursor, err := r.collection.Find(ctx, query, findOptions(sortOrder, page.Skip(), page.Limit()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stock movements: %w", err)
	}
	movements, err := decodeAll[domain.StockMovement](ctx, cursor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode stock movements: %w", err)
	}
	return movements, total, nil
}
