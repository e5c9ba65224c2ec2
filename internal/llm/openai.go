package llm

import (
	"context"
	"fmt"

	"Aria_AI/internal/models"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI is a chat client for OpenAI-compatible APIs. A custom base
// URL points it at compatible hosts such as Groq.
type OpenAI struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAI creates a new OpenAI-compatible client.
func NewOpenAI(apiKey, baseURL, defaultModel string) (*OpenAI, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAI{client: client, defaultModel: defaultModel}, nil
}

// GenerateContent runs a single chat completion.
func (o *OpenAI) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.toOpenAIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return &models.GenerateContentResponse{
		Text:       resp.Choices[0].Message.Content,
		Model:      resp.Model,
		ResponseID: resp.ID,
	}, nil
}

// GenerateContentStream runs a streaming chat completion. Each channel
// event carries one content delta; the channel closes when the stream
// ends.
func (o *OpenAI) GenerateContentStream(ctx context.Context, req *models.GenerateContentRequest) (<-chan *models.GenerateContentResponse, error) {
	stream, err := o.client.CreateChatCompletionStream(ctx, o.toOpenAIRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion stream: %w", err)
	}

	respChan := make(chan *models.GenerateContentResponse)

	go func() {
		defer close(respChan)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if err != nil {
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			respChan <- &models.GenerateContentResponse{
				Text:       resp.Choices[0].Delta.Content,
				Model:      resp.Model,
				ResponseID: resp.ID,
			}
		}
	}()

	return respChan, nil
}

// toOpenAIRequest converts the internal request format to the OpenAI
// wire format. The system instruction becomes the leading system
// message.
func (o *OpenAI) toOpenAIRequest(req *models.GenerateContentRequest) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	model := req.Model
	if model == "" {
		model = o.defaultModel
	}

	return openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
}

var _ LLM = (*OpenAI)(nil)
