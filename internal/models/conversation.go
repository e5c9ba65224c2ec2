package models

import "time"

// SpeakerRole identifies the author of a message.
type SpeakerRole string

const (
	SpeakerUser      SpeakerRole = "user"
	SpeakerAssistant SpeakerRole = "assistant"
	SpeakerSystem    SpeakerRole = "system"
)

// Message is one turn inside a conversation.
type Message struct {
	ID        string      `json:"id" bson:"id"`
	Role      SpeakerRole `json:"role" bson:"role"`
	Content   string      `json:"content" bson:"content"`
	Model     string      `json:"model,omitempty" bson:"model,omitempty"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// Conversation is a chat thread with its full message history embedded.
type Conversation struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Title     string    `json:"title" bson:"title"`
	Messages  []Message `json:"messages" bson:"messages"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ConversationSummary is the listing view of a conversation, without
// the message bodies.
type ConversationSummary struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	MessageCount int       `json:"message_count" bson:"message_count"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
