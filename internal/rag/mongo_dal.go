package rag

import (
	"context"
	"errors"
	"fmt"

	"Aria_AI/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	documentCollection = "rag_documents"
	chunkCollection    = "rag_chunks"
)

// MongoChunkDAL is the MongoDB implementation of ChunkDAL.
type MongoChunkDAL struct {
	collection *mongo.Collection
}

// NewMongoChunkDAL creates a MongoChunkDAL on the given database.
func NewMongoChunkDAL(db *mongo.Database) *MongoChunkDAL {
	return &MongoChunkDAL{collection: db.Collection(chunkCollection)}
}

// InsertMany stores a batch of chunks.
func (d *MongoChunkDAL) InsertMany(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]interface{}, len(chunks))
	for i, c := range chunks {
		docs[i] = c
	}
	if _, err := d.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

// ListByConversation returns the conversation's chunks in storage
// order.
func (d *MongoChunkDAL) ListByConversation(ctx context.Context, conversationID string) ([]*models.Chunk, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "index", Value: 1},
	})
	cursor, err := d.collection.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []*models.Chunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode chunks: %w", err)
	}
	return chunks, nil
}

// CountByConversation counts the conversation's chunks.
func (d *MongoChunkDAL) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	count, err := d.collection.CountDocuments(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// DeleteByDocument removes all chunks of one document.
func (d *MongoChunkDAL) DeleteByDocument(ctx context.Context, documentID string) (int64, error) {
	res, err := d.collection.DeleteMany(ctx, bson.M{"document_id": documentID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete document chunks: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteByConversation removes all chunks of one conversation.
func (d *MongoChunkDAL) DeleteByConversation(ctx context.Context, conversationID string) (int64, error) {
	res, err := d.collection.DeleteMany(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversation chunks: %w", err)
	}
	return res.DeletedCount, nil
}

var _ ChunkDAL = (*MongoChunkDAL)(nil)

// MongoDocumentDAL is the MongoDB implementation of DocumentDAL.
type MongoDocumentDAL struct {
	collection *mongo.Collection
}

// NewMongoDocumentDAL creates a MongoDocumentDAL on the given database.
func NewMongoDocumentDAL(db *mongo.Database) *MongoDocumentDAL {
	return &MongoDocumentDAL{collection: db.Collection(documentCollection)}
}

// Insert stores the document metadata.
func (d *MongoDocumentDAL) Insert(ctx context.Context, doc *models.Document) error {
	if _, err := d.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Get returns the document, or (nil, nil) when it does not exist.
func (d *MongoDocumentDAL) Get(ctx context.Context, documentID string) (*models.Document, error) {
	var doc models.Document
	err := d.collection.FindOne(ctx, bson.M{"_id": documentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// ListByConversation returns the conversation's documents, newest
// first.
func (d *MongoDocumentDAL) ListByConversation(ctx context.Context, conversationID string) ([]*models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := d.collection.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// Delete removes the document metadata.
func (d *MongoDocumentDAL) Delete(ctx context.Context, documentID string) error {
	res, err := d.collection.DeleteOne(ctx, bson.M{"_id": documentID})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

var _ DocumentDAL = (*MongoDocumentDAL)(nil)
