package models

// ToolMode controls whether web search runs for a chat turn.
type ToolMode string

const (
	ToolModeAuto   ToolMode = "auto"   // Heuristic decision
	ToolModeSearch ToolMode = "search" // Always search
	ToolModeNone   ToolMode = "none"   // Never search
)

// ToolMetadata records which tools contributed to a chat turn.
type ToolMetadata struct {
	SearchUsed  bool   `json:"search_used"`
	RAGUsed     bool   `json:"rag_used"`
	SearchQuery string `json:"search_query,omitempty"`
	RAGChunks   int    `json:"rag_chunks"`
}

// ChatRequest is the body of a chat turn submission.
type ChatRequest struct {
	ConversationID string   `json:"conversation_id"`
	Message        string   `json:"message" binding:"required"`
	Model          string   `json:"model"`
	ToolMode       ToolMode `json:"tool_mode"`
	UseRAG         *bool    `json:"use_rag"`
}

// ChatResponse is the non-streaming chat reply.
type ChatResponse struct {
	ConversationID string       `json:"conversation_id"`
	Reply          string       `json:"reply"`
	Model          string       `json:"model"`
	Metadata       ToolMetadata `json:"metadata"`
}

// ExtractionEvent is published to Kafka after each chat turn; the
// memory worker consumes it to extract facts asynchronously.
type ExtractionEvent struct {
	UserID           string `json:"user_id"`
	ConversationID   string `json:"conversation_id"`
	UserMessage      string `json:"user_message"`
	AssistantMessage string `json:"assistant_message"`
}
