package models

// ChatMessage is one message in a provider-agnostic generation request.
type ChatMessage struct {
	Role    SpeakerRole `json:"role"`
	Content string      `json:"content"`
}

// GenerateContentRequest is the provider-agnostic generation request.
type GenerateContentRequest struct {
	Model    string        `json:"model,omitempty"`
	System   string        `json:"system,omitempty"` // System instruction, kept separate from the turn list
	Messages []ChatMessage `json:"messages"`
}

// GenerateContentResponse is a full or partial generation result. For
// streaming, Text carries the delta of a single event.
type GenerateContentResponse struct {
	Text       string `json:"text"`
	Model      string `json:"model,omitempty"`
	ResponseID string `json:"response_id,omitempty"`
}
