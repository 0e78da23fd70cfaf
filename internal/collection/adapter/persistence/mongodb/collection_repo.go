package mongodb

import (
	"context"
	"time"

	"cardvault/internal/collection/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollectionRepository implements CollectionRepository using MongoDB.
// The bounded history append relies on $push with $slice so the append and the
// trim happen in one atomic document update.
type MongoCollectionRepository struct {
	db          *mongo.Database
	collections *mongo.Collection
}

// NewMongoCollectionRepository creates a new MongoDB collection repository
func NewMongoCollectionRepository(db *mongo.Database) (*MongoCollectionRepository, error) {
	repo := &MongoCollectionRepository{
		db:          db,
		collections: db.Collection("collections"),
	}

	ctx := context.Background()

	// One collection document per user
	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.collections.Indexes().CreateOne(ctx, userIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// GetCards retrieves the cards mapping for a user, nil when no document exists.
func (r *MongoCollectionRepository) GetCards(ctx context.Context, userID string) (model.CardMap, error) {
	var doc model.Collection
	err := r.collections.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.Cards, nil
}

// Save upserts the user's cards and appends the price-history entry in a single
// atomic update. $slice keeps the most recent MaxPriceHistoryEntries, evicting
// the oldest; concurrent saves cannot interleave and lose entries because the
// whole update document is applied atomically per document.
func (r *MongoCollectionRepository) Save(ctx context.Context, userID string, cards model.CardMap, entry model.PriceHistoryEntry) error {
	update := buildSaveUpdate(userID, cards, entry, time.Now())
	_, err := r.collections.UpdateOne(ctx, bson.M{"userId": userID}, update, options.Update().SetUpsert(true))
	return err
}

// buildSaveUpdate assembles the single update document applied by Save. The
// negative $slice keeps the tail of the array, so the newest entries survive
// and the oldest are evicted.
func buildSaveUpdate(userID string, cards model.CardMap, entry model.PriceHistoryEntry, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"cards":     cards,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"userId":    userID,
			"createdAt": now,
		},
		"$push": bson.M{
			"priceHistory": bson.M{
				"$each":  []model.PriceHistoryEntry{entry},
				"$slice": -model.MaxPriceHistoryEntries,
			},
		},
	}
}

// GetPriceHistory retrieves the price history for a user, nil when no document
// exists.
func (r *MongoCollectionRepository) GetPriceHistory(ctx context.Context, userID string) ([]model.PriceHistoryEntry, error) {
	var doc struct {
		PriceHistory []model.PriceHistoryEntry `bson:"priceHistory"`
	}
	opts := options.FindOne().SetProjection(bson.M{"priceHistory": 1})
	err := r.collections.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.PriceHistory, nil
}

// StripLegacySnapshots removes the per-entry cards snapshot an earlier schema
// revision stored inside each price-history entry. Snapshots made documents
// grow without bound; entries now carry only the aggregate value and count.
func (r *MongoCollectionRepository) StripLegacySnapshots(ctx context.Context) (int64, error) {
	result, err := r.collections.UpdateMany(ctx,
		bson.M{"priceHistory.snapshot": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"priceHistory.$[].snapshot": ""}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
