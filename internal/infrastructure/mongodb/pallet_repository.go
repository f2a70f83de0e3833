package mongodb

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// PalletRepository implements domain.PalletRepository
type PalletRepository struct {
	collection *mongo.Collection
}

// Create inserts a pallet
func (r *PalletRepository) Create(ctx context.Context, pallet *domain.Pallet) error {
	if _, err := r.collection.InsertOne(ctx, pallet); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrPalletExists
		}
		return fmt.Errorf("failed to insert pallet: %w", err)
	}
	return nil
}

// FindByID retrieves a pallet
func (r *PalletRepository) FindByID(ctx context.Context, palletID string) (*domain.Pallet, error) {
	var pallet domain.Pallet
	err := r.collection.FindOne(ctx, bson.M{"_id": palletID}).Decode(&pallet)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pallet: %w", err)
	}
	return &pallet, nil
}

// ClaimForPutaway swaps waiting_putaway -> in_process with a conditional update
func (r *PalletRepository) ClaimForPutaway(ctx context.Context, palletID, operatorID string, at time.Time) (*domain.Pallet, error) {
	filter := bson.M{"_id": palletID, "status": domain.PalletStatusWaitingPutaway}
	update := bson.M{"$set": bson.M{
		"status":             domain.PalletStatusInProcess,
		"assignedOperatorId": operatorID,
		"assignedAt":         at,
		"updatedAt":          at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var pallet domain.Pallet
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&pallet)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPalletUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim pallet: %w", err)
	}
	return &pallet, nil
}

// MarkStored swaps in_process -> stored
func (r *PalletRepository) MarkStored(ctx context.Context, palletID, locationID string, at time.Time) error {
	return r.transition(ctx, palletID, bson.M{
		"$set": bson.M{
			"status":     domain.PalletStatusStored,
			"locationId": locationID,
			"updatedAt":  at,
		},
		"$unset": bson.M{"assignedOperatorId": "", "assignedAt": ""},
	})
}

// Release swaps in_process -> waiting_putaway
func (r *PalletRepository) Release(ctx context.Context, palletID string, at time.Time) error {
	return r.transition(ctx, palletID, bson.M{
		"$set":   bson.M{"status": domain.PalletStatusWaitingPutaway, "updatedAt": at},
		"$unset": bson.M{"assignedOperatorId": "", "assignedAt": ""},
	})
}

func (r *PalletRepository) transition(ctx context.Context, palletID string, update bson.M) error {
	filter := bson.M{"_id": palletID, "status": domain.PalletStatusInProcess}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update pallet: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// no match is either an unknown pallet or one in the wrong status
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": palletID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check pallet: %w", err)
	}
	if n == 0 {
		return domain.ErrPalletNotFound
	}
	return fmt.Errorf("pallet %s: %w", palletID, domain.ErrInvalidStatusTransition)
}

// List returns pallets oldest first
func (r *PalletRepository) List(ctx context.Context, filter domain.PalletFilter, page domain.Pagination) ([]*domain.Pallet, int64, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pallets: %w", err)
	}

	opts := findOptions(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, page.Skip(), page.Limit())
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pallets: %w", err)
	}
	pallets, err := decodeAll[domain.Pallet](ctx, cursor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode pallets: %w", err)
	}
	return pallets, total, nil
}

// CountByStatus counts pallets in status
func (r *PalletRepository) CountByStatus(ctx context.Context, status domain.PalletStatus) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count pallets: %w", err)
	}
	return n, nil
}
