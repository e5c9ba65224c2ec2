package rag

import (
	"context"

	"Aria_AI/internal/models"
)

// ChunkDAL provides persistence for embedded chunks.
type ChunkDAL interface {
	InsertMany(ctx context.Context, chunks []*models.Chunk) error

	// ListByConversation returns the conversation's chunks in storage
	// order (document insertion order, then chunk index).
	ListByConversation(ctx context.Context, conversationID string) ([]*models.Chunk, error)

	CountByConversation(ctx context.Context, conversationID string) (int64, error)
	DeleteByDocument(ctx context.Context, documentID string) (int64, error)
	DeleteByConversation(ctx context.Context, conversationID string) (int64, error)
}

// DocumentDAL provides persistence for document metadata.
type DocumentDAL interface {
	Insert(ctx context.Context, doc *models.Document) error

	// Get returns the document, or (nil, nil) when it does not exist.
	Get(ctx context.Context, documentID string) (*models.Document, error)

	ListByConversation(ctx context.Context, conversationID string) ([]*models.Document, error)
	Delete(ctx context.Context, documentID string) error
}
