package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"Aria_AI/internal/llm"
	"Aria_AI/internal/models"
)

// extractionPrompt asks the model for remember-worthy facts as a plain
// JSON array of strings.
const extractionPrompt = `Based on the conversation, extract any important facts or preferences about the user that should be remembered for future conversations.

Focus on:
- Personal details the user shares (name, profession, interests)
- Preferences they express (communication style, topics of interest)
- Important context about their situation or needs

Respond with a JSON array of facts. If no facts to extract, respond with an empty array.

Example response:
["The user's name is John", "The user prefers concise responses", "The user is learning Python"]

Conversation:
%s

Extract facts (JSON array only):`

// Extractor derives facts from a conversation exchange.
type Extractor interface {
	Extract(ctx context.Context, event *models.ExtractionEvent) ([]string, error)
}

// LLMExtractor extracts facts by prompting a chat model.
type LLMExtractor struct {
	llm   llm.LLM
	model string
}

// NewLLMExtractor creates an LLMExtractor. An empty model uses the
// client's default.
func NewLLMExtractor(client llm.LLM, model string) *LLMExtractor {
	return &LLMExtractor{llm: client, model: model}
}

// Extract prompts the model with the exchange and parses the returned
// JSON array.
func (e *LLMExtractor) Extract(ctx context.Context, event *models.ExtractionEvent) ([]string, error) {
	conversation := fmt.Sprintf("user: %s\nassistant: %s", event.UserMessage, event.AssistantMessage)

	resp, err := e.llm.GenerateContent(ctx, &models.GenerateContentRequest{
		Model: e.model,
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: fmt.Sprintf(extractionPrompt, conversation)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fact extraction call failed: %w", err)
	}

	facts, err := parseFactArray(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return facts, nil
}

// parseFactArray tolerates models that wrap the JSON array in markdown
// code fences or surrounding prose.
func parseFactArray(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "["); start >= 0 {
		if end := strings.LastIndex(text, "]"); end > start {
			text = text[start : end+1]
		}
	}

	var facts []string
	if err := json.Unmarshal([]byte(text), &facts); err != nil {
		return nil, err
	}
	return facts, nil
}

var _ Extractor = (*LLMExtractor)(nil)
