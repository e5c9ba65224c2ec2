package memory

import (
	"context"
	"fmt"

	"Aria_AI/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	factCollection       = "memory_facts"
	preferenceCollection = "user_preferences"
)

// MongoFactDAL is the MongoDB implementation of FactDAL.
type MongoFactDAL struct {
	collection *mongo.Collection
}

// NewMongoFactDAL creates a MongoFactDAL on the given database.
func NewMongoFactDAL(db *mongo.Database) *MongoFactDAL {
	return &MongoFactDAL{collection: db.Collection(factCollection)}
}

// Insert stores a new fact. A duplicate content hash maps to
// ErrDuplicateID.
func (d *MongoFactDAL) Insert(ctx context.Context, fact *models.Fact) error {
	_, err := d.collection.InsertOne(ctx, fact)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert fact: %w", err)
	}
	return nil
}

// ListRecent returns the user's facts, newest first.
func (d *MongoFactDAL) ListRecent(ctx context.Context, userID string, limit int64) ([]*models.Fact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := d.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer cursor.Close(ctx)

	var facts []*models.Fact
	if err := cursor.All(ctx, &facts); err != nil {
		return nil, fmt.Errorf("failed to decode facts: %w", err)
	}
	return facts, nil
}

// Delete removes one fact owned by the user.
func (d *MongoFactDAL) Delete(ctx context.Context, userID, factID string) error {
	res, err := d.collection.DeleteOne(ctx, bson.M{"_id": factID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete fact: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("fact not found")
	}
	return nil
}

// DeleteAll removes every fact owned by the user.
func (d *MongoFactDAL) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res, err := d.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear facts: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteByCoreField removes the core fact mirroring a profile field.
func (d *MongoFactDAL) DeleteByCoreField(ctx context.Context, userID, field string) error {
	_, err := d.collection.DeleteMany(ctx, bson.M{"user_id": userID, "core_field": field})
	if err != nil {
		return fmt.Errorf("failed to delete core fact: %w", err)
	}
	return nil
}

// UserIDs returns the distinct users that own at least one fact.
func (d *MongoFactDAL) UserIDs(ctx context.Context) ([]string, error) {
	values, err := d.collection.Distinct(ctx, "user_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list fact owners: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// TrimToLimit deletes the oldest non-core facts until at most max
// remain for the user.
func (d *MongoFactDAL) TrimToLimit(ctx context.Context, userID string, max int) (int64, error) {
	total, err := d.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	overflow := total - int64(max)
	if overflow <= 0 {
		return 0, nil
	}

	// Oldest non-core facts go first.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(overflow).
		SetProjection(bson.M{"_id": 1})
	cursor, err := d.collection.Find(ctx, bson.M{"user_id": userID, "core": bson.M{"$ne": true}}, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to query overflow facts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("failed to decode overflow facts: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	res, err := d.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to trim facts: %w", err)
	}
	return res.DeletedCount, nil
}

var _ FactDAL = (*MongoFactDAL)(nil)

// MongoPreferenceDAL is the MongoDB implementation of PreferenceDAL.
type MongoPreferenceDAL struct {
	collection *mongo.Collection
}

// NewMongoPreferenceDAL creates a MongoPreferenceDAL on the given
// database.
func NewMongoPreferenceDAL(db *mongo.Database) *MongoPreferenceDAL {
	return &MongoPreferenceDAL{collection: db.Collection(preferenceCollection)}
}

// Upsert writes the preference, replacing any previous value for the
// same user and category.
func (d *MongoPreferenceDAL) Upsert(ctx context.Context, pref *models.Preference) error {
	filter := bson.M{"user_id": pref.UserID, "category": pref.Category}
	update := bson.M{"$set": bson.M{
		"value":      pref.Value,
		"updated_at": pref.UpdatedAt,
	}}
	_, err := d.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}

// List returns all preferences of the user.
func (d *MongoPreferenceDAL) List(ctx context.Context, userID string) ([]*models.Preference, error) {
	cursor, err := d.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer cursor.Close(ctx)

	var prefs []*models.Preference
	if err := cursor.All(ctx, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}

var _ PreferenceDAL = (*MongoPreferenceDAL)(nil)
