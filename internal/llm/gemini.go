package llm

import (
	"context"
	"errors"
	"fmt"

	"Aria_AI/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Gemini is a chat client for the Gemini API.
type Gemini struct {
	client       *genai.Client
	defaultModel string
}

// NewGemini creates a new Gemini client.
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, defaultModel: model}, nil
}

// GenerateContent runs a single generation against Gemini.
func (g *Gemini) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	session, last, err := g.newSession(req)
	if err != nil {
		return nil, err
	}

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}
	return fromGenaiResponse(resp), nil
}

// GenerateContentStream runs a streaming generation against Gemini.
func (g *Gemini) GenerateContentStream(ctx context.Context, req *models.GenerateContentRequest) (<-chan *models.GenerateContentResponse, error) {
	session, last, err := g.newSession(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan *models.GenerateContentResponse)
	iter := session.SendMessageStream(ctx, genai.Text(last))

	go func() {
		defer close(ch)
		for {
			resp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				return
			}
			ch <- fromGenaiResponse(resp)
		}
	}()

	return ch, nil
}

// newSession prepares a chat session seeded with everything except the
// final user message, which is returned separately for sending.
func (g *Gemini) newSession(req *models.GenerateContentRequest) (*genai.ChatSession, string, error) {
	if len(req.Messages) == 0 {
		return nil, "", fmt.Errorf("empty message list")
	}

	name := req.Model
	if name == "" {
		name = g.defaultModel
	}
	model := g.client.GenerativeModel(name)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	session := model.StartChat()
	for _, m := range req.Messages[:len(req.Messages)-1] {
		session.History = append(session.History, &genai.Content{
			Parts: []genai.Part{genai.Text(m.Content)},
			Role:  toGenaiRole(m.Role),
		})
	}

	return session, req.Messages[len(req.Messages)-1].Content, nil
}

func toGenaiRole(role models.SpeakerRole) string {
	if role == models.SpeakerAssistant {
		return "model"
	}
	return "user"
}

func fromGenaiResponse(resp *genai.GenerateContentResponse) *models.GenerateContentResponse {
	out := &models.GenerateContentResponse{}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.Text += string(text)
			}
		}
	}
	return out
}

var _ LLM = (*Gemini)(nil)
