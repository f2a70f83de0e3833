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

// LocationRepository implements domain.LocationRepository
type LocationRepository struct {
	collection *mongo.Collection
}

var byCode = bson.D{{Key: "code", Value: 1}}

// uniqueViolation maps a duplicate key error to the domain error of its
// index, or returns nil
func uniqueViolation(err error) error {
	switch {
	case duplicateOn(err, idxActiveConfirmation):
		return domain.ErrConfirmationCodeInUse
	case duplicateOn(err, idxLocationCode):
		return domain.ErrLocationExists
	default:
		return nil
	}
}

// Create inserts a location
func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	if _, err := r.collection.InsertOne(ctx, location); err != nil {
		if domainErr := uniqueViolation(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

// FindByID retrieves a location
func (r *LocationRepository) FindByID(ctx context.Context, locationID string) (*domain.Location, error) {
	var location domain.Location
	err := r.collection.FindOne(ctx, bson.M{"_id": locationID}).Decode(&location)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find location: %w", err)
	}
	return &location, nil
}

// FindCandidates returns active, available locations ordered by code
func (r *LocationRepository) FindCandidates(ctx context.Context) ([]*domain.Location, error) {
	filter := bson.M{"active": true, "occupancyStatus": domain.OccupancyAvailable}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(byCode))
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate locations: %w", err)
	}
	locations, err := decodeAll[domain.Location](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}

// IncrementOccupancy adds one pallet in a single conditional update. The
// filter only matches while the location has room.
func (r *LocationRepository) IncrementOccupancy(ctx context.Context, locationID string, at time.Time) (*domain.Location, error) {
	filter := bson.M{
		"_id": locationID,
		"$or": bson.A{
			bson.M{"capacity": nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$currentOccupancy", "$capacity"}}},
		},
	}
	update := bson.M{
		"$inc": bson.M{"currentOccupancy": 1},
		"$set": bson.M{"occupancyStatus": domain.OccupancyOccupied, "updatedAt": at},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var location domain.Location
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&location)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := r.FindByID(ctx, locationID); findErr != nil {
			return nil, findErr
		}
		return nil, domain.ErrLocationCapacityExceeded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to increment occupancy: %w", err)
	}
	return &location, nil
}

// UpdateConfirmationCode replaces the code
func (r *LocationRepository) UpdateConfirmationCode(ctx context.Context, locationID, code string, at time.Time) error {
	return r.set(ctx, locationID, bson.M{"confirmationCode": code, "updatedAt": at})
}

// SetActive toggles the active flag
func (r *LocationRepository) SetActive(ctx context.Context, locationID string, active bool, at time.Time) error {
	return r.set(ctx, locationID, bson.M{"active": active, "updatedAt": at})
}

func (r *LocationRepository) set(ctx context.Context, locationID string, fields bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": locationID}, bson.M{"$set": fields})
	if err != nil {
		if domainErr := uniqueViolation(err); domainErr != nil {
			return domainErr
		}
		return fmt.Errorf("failed to update location: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

// ConfirmationCodeInUse checks the code against active locations
func (r *LocationRepository) ConfirmationCodeInUse(ctx context.Context, code string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"confirmationCode": code, "active": true},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check confirmation code: %w", err)
	}
	return n > 0, nil
}

// List returns locations ordered by code
func (r *LocationRepository) List(ctx context.Context, filter domain.LocationFilter, page domain.Pagination) ([]*domain.Location, int64, error) {
	query := bson.M{}
	if filter.Type != nil {
		query["type"] = *filter.Type
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count locations: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions(byCode, page.Skip(), page.Limit()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list locations: %w", err)
	}
	locations, err := decodeAll[domain.Location](ctx, cursor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, total, nil
}
