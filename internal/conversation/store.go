// Package conversation persists chat threads in MongoDB with a Redis
// read-through cache for the hot history lookups.
package conversation

import (
	"context"
	"fmt"
	"time"

	"Aria_AI/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const conversationCollection = "conversations"

// Store is the MongoDB persistence layer for conversations.
type Store struct {
	collection *mongo.Collection
}

// NewStore creates a Store on the given database.
func NewStore(db *mongo.Database) *Store {
	return &Store{collection: db.Collection(conversationCollection)}
}

// Insert stores a new conversation.
func (s *Store) Insert(ctx context.Context, conv *models.Conversation) error {
	if _, err := s.collection.InsertOne(ctx, conv); err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// Get returns the conversation when it exists and belongs to the user,
// or (nil, nil) otherwise.
func (s *Store) Get(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.collection.FindOne(ctx, bson.M{"_id": conversationID, "user_id": userID}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &conv, nil
}

// List returns the user's conversation summaries, most recently
// updated first. Message bodies stay in the database. A limit of 0
// returns everything.
func (s *Store) List(ctx context.Context, userID string, skip, limit int64) ([]*models.ConversationSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$project", Value: bson.M{
			"title":         1,
			"updated_at":    1,
			"message_count": bson.M{"$size": "$messages"},
		}}},
		{{Key: "$sort", Value: bson.M{"updated_at": -1}}},
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*models.ConversationSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode conversation summaries: %w", err)
	}
	return summaries, nil
}

// AppendMessages adds messages to the thread and bumps updated_at.
func (s *Store) AppendMessages(ctx context.Context, conversationID string, messages []models.Message) error {
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": conversationID}, update)
	if err != nil {
		return fmt.Errorf("failed to append messages: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("conversation not found")
	}
	return nil
}

// Rename sets a new title.
func (s *Store) Rename(ctx context.Context, conversationID, userID, title string) error {
	update := bson.M{"$set": bson.M{"title": title, "updated_at": time.Now().UTC()}}
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": conversationID, "user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to rename conversation: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("conversation not found")
	}
	return nil
}

// Delete removes the conversation.
func (s *Store) Delete(ctx context.Context, conversationID, userID string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": conversationID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("conversation not found")
	}
	return nil
}

// EnsureIndexes creates the listing index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
		Options: options.Index(),
	})
	return err
}
