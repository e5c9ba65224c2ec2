package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Aria_AI/internal/embedding"
	"Aria_AI/internal/models"
	"Aria_AI/internal/rag/loaders"
	"Aria_AI/internal/storage"
	"Aria_AI/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNoText marks an upload from which no text could be extracted. The
// API layer surfaces it as a rejected upload the user can correct.
var ErrNoText = errors.New("no extractable text in document")

// Ingestor turns an uploaded file into an indexed document: extract
// text, chunk it, embed the chunks and persist everything.
type Ingestor struct {
	chunker  *Chunker
	embedder embedding.Embedding
	docs     DocumentDAL
	chunks   ChunkDAL
	blobs    storage.BlobStore
	log      *logger.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(chunker *Chunker, embedder embedding.Embedding, docs DocumentDAL, chunks ChunkDAL, blobs storage.BlobStore, log *logger.Logger) *Ingestor {
	return &Ingestor{
		chunker:  chunker,
		embedder: embedder,
		docs:     docs,
		chunks:   chunks,
		blobs:    blobs,
		log:      log,
	}
}

// Ingest processes one uploaded file. An empty conversationID mints a
// new conversation scope. Embedding failures are fatal here: a
// document cannot be indexed without its vectors.
func (ing *Ingestor) Ingest(ctx context.Context, data []byte, filename, userID, conversationID string) (*models.IngestResult, error) {
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	// 1. Extract the document text.
	text, err := loaders.ExtractText(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoText, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	// 2. Chunk it.
	parts := ing.chunker.Split(text)
	if len(parts) == 0 {
		return nil, ErrNoText
	}

	// 3. One batch embedding call for all chunks.
	vectors, err := ing.embedder.EmbedBatch(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document chunks: %w", err)
	}
	if len(vectors) != len(parts) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(parts))
	}

	documentID := uuid.New().String()
	now := time.Now().UTC()
	storageKey := fmt.Sprintf("%s/%s/%s/%s", userID, conversationID, documentID, sanitizeFilename(filename))

	chunks := make([]*models.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = &models.Chunk{
			ID:             fmt.Sprintf("%s_chunk_%d", documentID, i),
			DocumentID:     documentID,
			ConversationID: conversationID,
			UserID:         userID,
			Index:          i,
			Text:           part,
			Embedding:      vectors[i],
			CreatedAt:      now,
		}
	}

	// 4. Store chunks and the original blob in parallel. The metadata
	// record goes in last, so readers never discover a half-stored
	// document.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ing.chunks.InsertMany(gctx, chunks)
	})
	g.Go(func() error {
		return ing.blobs.Put(gctx, storageKey, data, mimetype.Detect(data).String())
	})
	if err := g.Wait(); err != nil {
		ing.cleanupAborted(ctx, documentID, storageKey)
		return nil, fmt.Errorf("failed to store document content: %w", err)
	}

	doc := &models.Document{
		ID:             documentID,
		Filename:       filename,
		UserID:         userID,
		ConversationID: conversationID,
		ChunkCount:     len(chunks),
		TextLength:     len(text),
		StorageKey:     storageKey,
		CreatedAt:      now,
	}
	if err := ing.docs.Insert(ctx, doc); err != nil {
		ing.cleanupAborted(ctx, documentID, storageKey)
		return nil, fmt.Errorf("failed to store document metadata: %w", err)
	}

	ing.log.WithPayload(map[string]interface{}{
		"document_id":     documentID,
		"conversation_id": conversationID,
		"chunks":          len(chunks),
		"text_length":     len(text),
	}).Info(fmt.Sprintf("ingested document %s", filename))

	return &models.IngestResult{
		DocumentID:     documentID,
		ConversationID: conversationID,
		Filename:       filename,
		ChunkCount:     len(chunks),
		TextLength:     len(text),
	}, nil
}

// cleanupAborted removes the chunks and blob left behind by a failed
// ingest. Retrieval scopes by conversation, so leftover chunks would
// otherwise be served for a document the caller was told failed.
func (ing *Ingestor) cleanupAborted(ctx context.Context, documentID, storageKey string) {
	if _, err := ing.chunks.DeleteByDocument(ctx, documentID); err != nil {
		ing.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn(fmt.Sprintf("failed to clean up chunks of aborted ingest %s", documentID))
	}
	if err := ing.blobs.Delete(ctx, storageKey); err != nil {
		ing.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn(fmt.Sprintf("failed to clean up blob of aborted ingest %s", documentID))
	}
}

// Documents lists the metadata of all documents in a conversation.
func (ing *Ingestor) Documents(ctx context.Context, conversationID string) ([]*models.Document, error) {
	return ing.docs.ListByConversation(ctx, conversationID)
}

// Document returns one document owned by the user, or (nil, nil).
func (ing *Ingestor) Document(ctx context.Context, documentID, userID string) (*models.Document, error) {
	doc, err := ing.docs.Get(ctx, documentID)
	if err != nil || doc == nil {
		return doc, err
	}
	if doc.UserID != userID {
		return nil, nil
	}
	return doc, nil
}

// Delete removes a document with its chunks and blob. Only the owner
// may delete.
func (ing *Ingestor) Delete(ctx context.Context, documentID, userID string) error {
	doc, err := ing.Document(ctx, documentID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document not found")
	}

	if _, err := ing.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}
	if err := ing.blobs.Delete(ctx, doc.StorageKey); err != nil {
		ing.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn(fmt.Sprintf("failed to delete blob for document %s", documentID))
	}
	return ing.docs.Delete(ctx, documentID)
}

// DeleteConversation removes every document, chunk and blob scoped to
// the conversation. Used when a conversation is deleted.
func (ing *Ingestor) DeleteConversation(ctx context.Context, conversationID string) error {
	docs, err := ing.docs.ListByConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if _, err := ing.chunks.DeleteByConversation(ctx, conversationID); err != nil {
		return err
	}
	for _, doc := range docs {
		if err := ing.blobs.Delete(ctx, doc.StorageKey); err != nil {
			ing.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn(fmt.Sprintf("failed to delete blob for document %s", doc.ID))
		}
		if err := ing.docs.Delete(ctx, doc.ID); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeFilename keeps object keys free of path separators and
// whitespace.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", "..", "_")
	return replacer.Replace(name)
}
