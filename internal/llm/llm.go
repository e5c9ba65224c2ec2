package llm

import (
	"context"
	"fmt"

	"Aria_AI/internal/config"
	"Aria_AI/internal/models"
)

// LLM is implemented by every chat model client.
type LLM interface {
	GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, req *models.GenerateContentRequest) (<-chan *models.GenerateContentResponse, error)
}

// NewClient builds the chat model client selected by configuration.
func NewClient(ctx context.Context, cfg *config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.DefaultModel)
	case "gemini":
		return NewGemini(ctx, cfg.Gemini.Model, cfg.Gemini.APIKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
