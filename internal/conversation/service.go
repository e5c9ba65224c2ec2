package conversation

import (
	"context"
	"time"

	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"

	"github.com/google/uuid"
)

// DefaultTitle is shown until the first exchange generates a real one.
const DefaultTitle = "New chat"

// Service fronts the Store with the Redis cache.
type Service struct {
	store *Store
	cache *Cache
	log   *logger.Logger
}

// NewService creates a Service.
func NewService(store *Store, cache *Cache, log *logger.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// Create starts a new conversation for the user. An empty id mints a
// fresh one; a caller-supplied id keeps document uploads and the first
// chat message in the same thread.
func (s *Service) Create(ctx context.Context, id, userID, title string) (*models.Conversation, error) {
	if id == "" {
		id = uuid.New().String()
	}
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Get loads a conversation, serving from the cache when possible.
// Returns (nil, nil) when it does not exist or belongs to another
// user.
func (s *Service) Get(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	if conv := s.cache.Get(ctx, conversationID); conv != nil {
		if conv.UserID != userID {
			return nil, nil
		}
		return conv, nil
	}

	conv, err := s.store.Get(ctx, conversationID, userID)
	if err != nil || conv == nil {
		return conv, err
	}
	s.cache.Set(ctx, conv)
	return conv, nil
}

// List returns a page of the user's conversation summaries.
func (s *Service) List(ctx context.Context, userID string, skip, limit int64) ([]*models.ConversationSummary, error) {
	return s.store.List(ctx, userID, skip, limit)
}

// AppendMessages adds a turn to the thread and drops the stale cache
// entry.
func (s *Service) AppendMessages(ctx context.Context, conversationID string, messages []models.Message) error {
	if err := s.store.AppendMessages(ctx, conversationID, messages); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, conversationID)
	return nil
}

// Rename sets a new title.
func (s *Service) Rename(ctx context.Context, conversationID, userID, title string) error {
	if err := s.store.Rename(ctx, conversationID, userID, title); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, conversationID)
	return nil
}

// Delete removes the conversation. Attached documents are cleaned up
// by the caller, which owns the RAG side.
func (s *Service) Delete(ctx context.Context, conversationID, userID string) error {
	if err := s.store.Delete(ctx, conversationID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, conversationID)
	return nil
}
