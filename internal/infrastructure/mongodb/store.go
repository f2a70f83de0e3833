package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/putaway-service/internal/domain"
	pkgmongo "github.com/wms-platform/putaway-service/pkg/mongodb"
	outboxMongo "github.com/wms-platform/putaway-service/pkg/outbox/mongodb"
)

// Collection names
const (
	palletsCollection   = "pallets"
	locationsCollection = "locations"
	tasksCollection     = "putaway_tasks"
	rulesCollection     = "putaway_rules"
	movementsCollection = "stock_movements"
)

// Index names referenced when classifying duplicate key errors
const (
	idxLocationCode       = "idx_code_unique"
	idxActiveConfirmation = "idx_confirmationCode_active"
	idxTaskNumber         = "idx_taskNumber_unique"
	idxOpenTaskPerPallet  = "idx_palletId_in_progress"
)

var (
	_ domain.Transactor         = (*Store)(nil)
	_ domain.PalletRepository   = (*PalletRepository)(nil)
	_ domain.LocationRepository = (*LocationRepository)(nil)
	_ domain.TaskRepository     = (*TaskRepository)(nil)
	_ domain.RuleRepository     = (*RuleRepository)(nil)
	_ domain.MovementRepository = (*MovementRepository)(nil)
)

// Store hands out repositories bound to one database and runs transactions
// across them.
type Store struct {
	client *pkgmongo.Client
	db     *mongo.Database
}

// NewStore creates a store on the client's database
func NewStore(client *pkgmongo.Client) *Store {
	return &Store{client: client, db: client.Database()}
}

// WithinTransaction runs fn in a multi-document transaction. A ctx that
// already carries a session joins it instead of starting a nested one.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	return s.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}

// Pallets returns the pallet repository
func (s *Store) Pallets() *PalletRepository {
	return &PalletRepository{collection: s.db.Collection(palletsCollection)}
}

// Locations returns the location repository
func (s *Store) Locations() *LocationRepository {
	return &LocationRepository{collection: s.db.Collection(locationsCollection)}
}

// Tasks returns the task repository
func (s *Store) Tasks() *TaskRepository {
	return &TaskRepository{collection: s.db.Collection(tasksCollection)}
}

// Rules returns the rule repository
func (s *Store) Rules() *RuleRepository {
	return &RuleRepository{collection: s.db.Collection(rulesCollection)}
}

// Movements returns the stock ledger repository
func (s *Store) Movements() *MovementRepository {
	return &MovementRepository{collection: s.db.Collection(movementsCollection)}
}

// Outbox returns the outbox repository
func (s *Store) Outbox() *outboxMongo.OutboxRepository {
	return outboxMongo.NewOutboxRepository(s.db)
}

// EnsureIndexes creates every index the repositories rely on, including the
// unique indexes that back claim and code uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		palletsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		locationsCollection: {
			{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetName(idxLocationCode).SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "confirmationCode", Value: 1}},
				Options: options.Index().
					SetName(idxActiveConfirmation).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "occupancyStatus", Value: 1}, {Key: "code", Value: 1}}},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "code", Value: 1}}},
		},
		tasksCollection: {
			{
				Keys:    bson.D{{Key: "taskNumber", Value: 1}},
				Options: options.Index().SetName(idxTaskNumber).SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "palletId", Value: 1}},
				Options: options.Index().
					SetName(idxOpenTaskPerPallet).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "in_progress"}),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "completedAt", Value: 1}}},
			{Keys: bson.D{{Key: "operatorId", Value: 1}, {Key: "startedAt", Value: -1}}},
			{Keys: bson.D{{Key: "startedAt", Value: -1}}},
		},
		rulesCollection: {
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "priority", Value: 1}, {Key: "name", Value: 1}}},
		},
		movementsCollection: {
			{Keys: bson.D{{Key: "taskId", Value: 1}}},
			{Keys: bson.D{{Key: "locationId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, indexes := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return s.Outbox().EnsureIndexes(ctx)
}

// duplicateOn reports whether err is a duplicate key error raised by index
func duplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

func findOptions(sort bson.D, skip, limit int64) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]*T, error) {
	defer cursor.Close(ctx)
	out := make([]*T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
