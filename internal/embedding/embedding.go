package embedding

import (
	"context"
	"fmt"

	"Aria_AI/internal/config"
)

// Embedding is implemented by every embedding model client.
type Embedding interface {
	// Embed generates the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embedding vectors for a batch of texts. The
	// result preserves input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// NewModel builds the embedding client selected by configuration.
func NewModel(cfg *config.EmbeddingConfig) (Embedding, error) {
	switch cfg.Provider {
	case "ollama", "":
		return NewOllamaModel(cfg.Model, cfg.BaseURL)
	case "openai":
		return NewOpenAIModel(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
