package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"Aria_AI/internal/config"
	"Aria_AI/internal/embedding"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

// Index retrieves document chunks by similarity to a query. Chunk sets
// are scoped per conversation and stay small enough for a brute-force
// cosine scan.
type Index struct {
	chunks         ChunkDAL
	embedder       embedding.Embedding
	topK           int
	scoreThreshold float64
	log            *logger.Logger
}

// NewIndex creates an Index.
func NewIndex(chunks ChunkDAL, embedder embedding.Embedding, cfg *config.RAGConfig, log *logger.Logger) *Index {
	return &Index{
		chunks:         chunks,
		embedder:       embedder,
		topK:           cfg.TopK,
		scoreThreshold: cfg.ScoreThreshold,
		log:            log,
	}
}

// CosineSimilarity computes dot(a,b) / (|a| * |b|). Returns 0.0 when
// either norm is zero or the dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// UpsertChunks stores a batch of chunks. Documents are write-once, so
// no merge semantics are needed.
func (idx *Index) UpsertChunks(ctx context.Context, chunks []*models.Chunk) error {
	return idx.chunks.InsertMany(ctx, chunks)
}

// Retrieve embeds the query and scores it against every chunk of the
// conversation, returning the top K by descending score with ties kept
// in storage order. A query-time embedding failure degrades to an
// empty result instead of an error.
func (idx *Index) Retrieve(ctx context.Context, query, conversationID string, topK int) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		topK = idx.topK
	}

	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		idx.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("query embedding failed, skipping retrieval")
		return nil, nil
	}

	chunks, err := idx.chunks.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	scored := make([]models.RetrievedChunk, len(chunks))
	for i, chunk := range chunks {
		scored[i] = models.RetrievedChunk{
			Text:       chunk.Text,
			DocumentID: chunk.DocumentID,
			ChunkIndex: chunk.Index,
			Score:      CosineSimilarity(queryVec, chunk.Embedding),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// Context retrieves and renders document context for the query. Only
// chunks scoring strictly above the threshold are kept; the returned
// count is the number of surviving chunks (also reported in chat
// metadata). An empty string means no usable context.
func (idx *Index) Context(ctx context.Context, query, conversationID string, topK int) (string, int) {
	results, err := idx.Retrieve(ctx, query, conversationID, topK)
	if err != nil {
		idx.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("chunk retrieval failed, skipping document context")
		return "", 0
	}

	var kept []models.RetrievedChunk
	for _, r := range results {
		if r.Score > idx.scoreThreshold {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return "", 0
	}

	var sb strings.Builder
	sb.WriteString("Relevant information from uploaded documents:")
	for i, r := range kept {
		sb.WriteString(fmt.Sprintf("\n[Document excerpt %d]:\n%s", i+1, r.Text))
	}
	return sb.String(), len(kept)
}

// HasDocuments reports whether the conversation has any ingested
// chunks. Failures degrade to false so callers simply skip retrieval.
func (idx *Index) HasDocuments(ctx context.Context, conversationID string) bool {
	count, err := idx.chunks.CountByConversation(ctx, conversationID)
	if err != nil {
		idx.log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("chunk count failed, assuming no documents")
		return false
	}
	return count > 0
}
