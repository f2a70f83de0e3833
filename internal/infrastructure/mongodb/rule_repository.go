package mongodb

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/putaway-service/internal/domain"
)

// RuleRepository implements domain.RuleRepository
type RuleRepository struct {
	collection *mongo.Collection
}

// Create inserts a rule
func (r *RuleRepository) Create(ctx context.Context, rule *domain.PutAwayRule) error {
	if _, err := r.collection.InsertOne(ctx, rule); err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}
	return nil
}

// Update replaces a rule
func (r *RuleRepository) Update(ctx context.Context, rule *domain.PutAwayRule) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rule.ID}, rule)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// Delete removes a rule
func (r *RuleRepository) Delete(ctx context.Context, ruleID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": ruleID})
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// FindByID retrieves a rule
func (r *RuleRepository) FindByID(ctx context.Context, ruleID string) (*domain.PutAwayRule, error) {
	var rule domain.PutAwayRule
	err := r.collection.FindOne(ctx, bson.M{"_id": ruleID}).Decode(&rule)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find rule: %w", err)
	}
	return &rule, nil
}

// List returns rules in evaluation order
func (r *RuleRepository) List(ctx context.Context, activeOnly bool) ([]*domain.PutAwayRule, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: 1},
		{Key: "name", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	rules, err := decodeAll[domain.PutAwayRule](ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	return rules, nil
}

// ListActive implements domain.RuleSource
func (r *RuleRepository) ListActive(ctx context.Context) ([]*domain.PutAwayRule, error) {
	return r.List(ctx, true)
}

// Count counts all rules
func (r *RuleRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return n, nil
}
