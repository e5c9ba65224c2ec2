package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Aria_AI/internal/config"
	"Aria_AI/internal/conversation"
	"Aria_AI/internal/llm"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"

	"github.com/google/uuid"
)

const titleTimeout = 10 * time.Second

// ContextComposer assembles the per-turn context block.
type ContextComposer interface {
	Compose(ctx context.Context, query, conversationID, userID string, mode models.ToolMode, useRAG bool) (string, models.ToolMetadata)
}

// ConversationManager is the slice of the conversation service the
// agent needs.
type ConversationManager interface {
	Create(ctx context.Context, id, userID, title string) (*models.Conversation, error)
	Get(ctx context.Context, conversationID, userID string) (*models.Conversation, error)
	AppendMessages(ctx context.Context, conversationID string, messages []models.Message) error
	Rename(ctx context.Context, conversationID, userID, title string) error
}

// EventPublisher enqueues memory extraction work.
type EventPublisher interface {
	Publish(ctx context.Context, event *models.ExtractionEvent) error
}

// Service runs chat turns end to end.
type Service struct {
	llm          llm.LLM
	composer     ContextComposer
	convs        ConversationManager
	publisher    EventPublisher
	catalog      []config.ModelConfig
	defaultModel string
	titleModel   string
	log          *logger.Logger
}

// NewService creates a Service. publisher may be nil, which disables
// asynchronous memory extraction.
func NewService(model llm.LLM, composer ContextComposer, convs ConversationManager, publisher EventPublisher, cfg *config.LLMConfig, log *logger.Logger) *Service {
	return &Service{
		llm:          model,
		composer:     composer,
		convs:        convs,
		publisher:    publisher,
		catalog:      cfg.Models,
		defaultModel: cfg.DefaultModel,
		titleModel:   cfg.TitleModel,
		log:          log,
	}
}

// Models lists the chat models exposed to clients.
func (s *Service) Models() []config.ModelConfig {
	return s.catalog
}

// Chat runs one non-streaming turn.
func (s *Service) Chat(ctx context.Context, userID string, req *models.ChatRequest) (*models.ChatResponse, error) {
	return s.run(ctx, userID, req, nil)
}

// ChatStream runs one turn, calling emit for every response delta. The
// returned response carries the accumulated full text.
func (s *Service) ChatStream(ctx context.Context, userID string, req *models.ChatRequest, emit func(delta string) error) (*models.ChatResponse, error) {
	return s.run(ctx, userID, req, emit)
}

func (s *Service) run(ctx context.Context, userID string, req *models.ChatRequest, emit func(string) error) (*models.ChatResponse, error) {
	model, err := s.resolveModel(req.Model)
	if err != nil {
		return nil, err
	}

	conv, firstTurn, err := s.loadOrCreate(ctx, userID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	mode := req.ToolMode
	if mode == "" {
		mode = models.ToolModeAuto
	}
	useRAG := req.UseRAG == nil || *req.UseRAG

	toolContext, meta := s.composer.Compose(ctx, req.Message, conv.ID, userID, mode, useRAG)

	genReq := &models.GenerateContentRequest{
		Model:    model,
		System:   fmt.Sprintf(systemPrompt, toolContext),
		Messages: buildHistory(conv.Messages, req.Message),
	}

	var reply string
	if emit == nil {
		resp, err := s.llm.GenerateContent(ctx, genReq)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		reply = resp.Text
	} else {
		stream, err := s.llm.GenerateContentStream(ctx, genReq)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		var sb strings.Builder
		for delta := range stream {
			if delta.Text == "" {
				continue
			}
			sb.WriteString(delta.Text)
			if err := emit(delta.Text); err != nil {
				return nil, err
			}
		}
		reply = sb.String()
	}

	now := time.Now().UTC()
	turn := []models.Message{
		{ID: uuid.New().String(), Role: models.SpeakerUser, Content: req.Message, CreatedAt: now},
		{ID: uuid.New().String(), Role: models.SpeakerAssistant, Content: reply, Model: model, CreatedAt: now},
	}
	if err := s.convs.AppendMessages(ctx, conv.ID, turn); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := &models.ExtractionEvent{
			UserID:           userID,
			ConversationID:   conv.ID,
			UserMessage:      req.Message,
			AssistantMessage: reply,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn(fmt.Sprintf("failed to publish extraction event: %v", err))
		}
	}

	if firstTurn {
		go s.generateTitle(conv.ID, userID, req.Message)
	}

	return &models.ChatResponse{
		ConversationID: conv.ID,
		Reply:          reply,
		Model:          model,
		Metadata:       meta,
	}, nil
}

// loadOrCreate resolves the conversation for the turn. The second
// return value reports whether this is the thread's first exchange.
func (s *Service) loadOrCreate(ctx context.Context, userID, conversationID string) (*models.Conversation, bool, error) {
	if conversationID == "" {
		conv, err := s.convs.Create(ctx, "", userID, "")
		if err != nil {
			return nil, false, err
		}
		return conv, true, nil
	}

	conv, err := s.convs.Get(ctx, conversationID, userID)
	if err != nil {
		return nil, false, err
	}
	if conv == nil {
		// Documents can be uploaded into a conversation before its
		// first message, so an unknown id starts a new thread under
		// that id.
		created, err := s.convs.Create(ctx, conversationID, userID, "")
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}
	return conv, len(conv.Messages) == 0, nil
}

func (s *Service) resolveModel(requested string) (string, error) {
	if requested == "" {
		return s.defaultModel, nil
	}
	for _, m := range s.catalog {
		if m.ID == requested {
			return requested, nil
		}
	}
	return "", fmt.Errorf("unknown model: %s", requested)
}

// generateTitle asks the model for a short thread title after the
// first exchange. Failures keep the default title.
func (s *Service) generateTitle(conversationID, userID, firstMessage string) {
	ctx, cancel := context.WithTimeout(context.Background(), titleTimeout)
	defer cancel()

	model := s.titleModel
	if model == "" {
		model = s.defaultModel
	}
	resp, err := s.llm.GenerateContent(ctx, &models.GenerateContentRequest{
		Model: model,
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: fmt.Sprintf(titlePrompt, firstMessage)},
		},
	})
	if err != nil {
		s.log.Warn(fmt.Sprintf("title generation failed: %v", err))
		return
	}

	title := sanitizeTitle(resp.Text)
	if title == "" {
		return
	}
	if err := s.convs.Rename(ctx, conversationID, userID, title); err != nil {
		s.log.Warn(fmt.Sprintf("failed to store generated title: %v", err))
	}
}

// sanitizeTitle trims quoting and caps the title at six words.
func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	words := strings.Fields(title)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

// buildHistory appends the new user message to the stored thread,
// skipping system entries.
func buildHistory(history []models.Message, userMessage string) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		if msg.Role == models.SpeakerSystem {
			continue
		}
		out = append(out, models.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	return append(out, models.ChatMessage{Role: models.SpeakerUser, Content: userMessage})
}

var _ ConversationManager = (*conversation.Service)(nil)
