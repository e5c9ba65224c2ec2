package agent

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"Aria_AI/internal/config"
	"Aria_AI/internal/models"
	"Aria_AI/pkg/logger"
)

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	deltas   []string
	requests []*models.GenerateContentRequest
}

func (f *fakeLLM) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &models.GenerateContentResponse{Text: f.reply, Model: req.Model}, nil
}

func (f *fakeLLM) GenerateContentStream(ctx context.Context, req *models.GenerateContentRequest) (<-chan *models.GenerateContentResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	ch := make(chan *models.GenerateContentResponse, len(f.deltas))
	for _, d := range f.deltas {
		ch <- &models.GenerateContentResponse{Text: d}
	}
	close(ch)
	return ch, nil
}

type fakeConvs struct {
	mu       sync.Mutex
	convs    map[string]*models.Conversation
	renamed  map[string]string
	renameCh chan struct{}
}

func newFakeConvs() *fakeConvs {
	return &fakeConvs{
		convs:    make(map[string]*models.Conversation),
		renamed:  make(map[string]string),
		renameCh: make(chan struct{}, 1),
	}
}

func (f *fakeConvs) Create(ctx context.Context, id, userID, title string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == "" {
		id = "generated-conv"
	}
	conv := &models.Conversation{ID: id, UserID: userID, Title: "New chat"}
	f.convs[id] = conv
	return conv, nil
}

func (f *fakeConvs) Get(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv := f.convs[conversationID]
	if conv == nil || conv.UserID != userID {
		return nil, nil
	}
	return conv, nil
}

func (f *fakeConvs) AppendMessages(ctx context.Context, conversationID string, messages []models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs[conversationID].Messages = append(f.convs[conversationID].Messages, messages...)
	return nil
}

func (f *fakeConvs) Rename(ctx context.Context, conversationID, userID, title string) error {
	f.mu.Lock()
	f.renamed[conversationID] = title
	f.mu.Unlock()
	select {
	case f.renameCh <- struct{}{}:
	default:
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.ExtractionEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event *models.ExtractionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeComposer struct {
	context string
	meta    models.ToolMetadata
}

func (f *fakeComposer) Compose(ctx context.Context, query, conversationID, userID string, mode models.ToolMode, useRAG bool) (string, models.ToolMetadata) {
	return f.context, f.meta
}

func newTestAgent(model *fakeLLM, convs *fakeConvs, pub *fakePublisher, comp *fakeComposer) *Service {
	cfg := &config.LLMConfig{
		DefaultModel: "llama-3.3-70b",
		TitleModel:   "llama-3.1-8b",
		Models: []config.ModelConfig{
			{ID: "llama-3.3-70b", Label: "Llama 3.3 70B"},
			{ID: "llama-3.1-8b", Label: "Llama 3.1 8B"},
		},
	}
	return NewService(model, comp, convs, pub, cfg, logger.New("agent_test", "", ""))
}

func TestChatRunsFullTurn(t *testing.T) {
	model := &fakeLLM{reply: "hi there"}
	convs := newFakeConvs()
	pub := &fakePublisher{}
	comp := &fakeComposer{context: "\n\n### Tool Results ###\nstuff\n### End Tool Results ###\n", meta: models.ToolMetadata{SearchUsed: true, SearchQuery: "hello"}}
	svc := newTestAgent(model, convs, pub, comp)

	resp, err := svc.Chat(context.Background(), "user1", &models.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if resp.Reply != "hi there" || resp.ConversationID == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !resp.Metadata.SearchUsed || resp.Metadata.SearchQuery != "hello" {
		t.Errorf("metadata not propagated: %+v", resp.Metadata)
	}

	// Both turn messages persisted.
	conv := convs.convs[resp.ConversationID]
	if len(conv.Messages) != 2 || conv.Messages[0].Role != models.SpeakerUser || conv.Messages[1].Role != models.SpeakerAssistant {
		t.Errorf("turn not persisted: %+v", conv.Messages)
	}

	// Extraction event published.
	pub.mu.Lock()
	events := len(pub.events)
	pub.mu.Unlock()
	if events != 1 {
		t.Errorf("expected one extraction event, got %d", events)
	}

	// The composed context reaches the system prompt.
	model.mu.Lock()
	system := model.requests[0].System
	model.mu.Unlock()
	if !strings.Contains(system, "### Tool Results ###") {
		t.Errorf("tool context missing from system prompt: %q", system)
	}
}

func TestChatGeneratesTitleOnFirstExchange(t *testing.T) {
	model := &fakeLLM{reply: `"Grocery Budget Planning Questions And More"`}
	convs := newFakeConvs()
	svc := newTestAgent(model, convs, &fakePublisher{}, &fakeComposer{})

	resp, err := svc.Chat(context.Background(), "user1", &models.ChatRequest{Message: "help me budget groceries"})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	select {
	case <-convs.renameCh:
	case <-time.After(2 * time.Second):
		t.Fatal("title was never generated")
	}

	convs.mu.Lock()
	title := convs.renamed[resp.ConversationID]
	convs.mu.Unlock()
	if title != "Grocery Budget Planning Questions And More" {
		t.Errorf("unexpected title %q", title)
	}
	if len(strings.Fields(title)) > 6 {
		t.Errorf("title exceeds six words: %q", title)
	}
}

func TestChatKeepsTitleOnLaterTurns(t *testing.T) {
	model := &fakeLLM{reply: "sure"}
	convs := newFakeConvs()
	conv, _ := convs.Create(context.Background(), "conv1", "user1", "")
	conv.Messages = []models.Message{{Role: models.SpeakerUser, Content: "earlier"}}
	svc := newTestAgent(model, convs, &fakePublisher{}, &fakeComposer{})

	if _, err := svc.Chat(context.Background(), "user1", &models.ChatRequest{ConversationID: "conv1", Message: "again"}); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	select {
	case <-convs.renameCh:
		t.Fatal("title must not regenerate on later turns")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChatStreamAccumulatesDeltas(t *testing.T) {
	model := &fakeLLM{deltas: []string{"hel", "lo ", "world"}}
	convs := newFakeConvs()
	conv, _ := convs.Create(context.Background(), "conv1", "user1", "")
	conv.Messages = []models.Message{{Role: models.SpeakerUser, Content: "earlier"}}
	svc := newTestAgent(model, convs, &fakePublisher{}, &fakeComposer{})

	var got []string
	resp, err := svc.ChatStream(context.Background(), "user1", &models.ChatRequest{ConversationID: "conv1", Message: "hi"}, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if resp.Reply != "hello world" {
		t.Errorf("accumulated reply = %q", resp.Reply)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 deltas, got %d", len(got))
	}
}

func TestChatRejectsUnknownModel(t *testing.T) {
	svc := newTestAgent(&fakeLLM{}, newFakeConvs(), &fakePublisher{}, &fakeComposer{})

	_, err := svc.Chat(context.Background(), "user1", &models.ChatRequest{Message: "hi", Model: "gpt-12"})
	if err == nil {
		t.Fatal("expected an error for an unknown model")
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"Budget Planning"`, "Budget Planning"},
		{"Title\nwith trailing explanation", "Title"},
		{"one two three four five six seven eight", "one two three four five six"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := sanitizeTitle(tt.in); got != tt.want {
			t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
