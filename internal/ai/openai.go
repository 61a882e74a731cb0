package ai

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint.
// The API is stateless, so each session carries its own message list.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, e.g. a self-hosted gateway
}

func NewOpenAIBackend(cfg OpenAIConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(config), model: cfg.Model}, nil
}

func (b *OpenAIBackend) Name() string { return "OpenAI:" + b.model }

func (b *OpenAIBackend) StartSession(systemInstruction string, creativity float64) (Session, error) {
	temperature := float32(creativity)
	if temperature == 0 {
		// Temperature is omitempty in the request; a zero would fall back to the server default of 1.
		temperature = math.SmallestNonzeroFloat32
	}
	return &openAISession{
		name:        b.Name(),
		client:      b.client,
		model:       b.model,
		temperature: temperature,
		messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
		},
	}, nil
}

type openAISession struct {
	name        string
	client      *openai.Client
	model       string
	temperature float32

	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
}

// SendMessage only records the turn once the backend has answered, so a
// failed request leaves the session history as it was.
func (s *openAISession) SendMessage(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text}
	msgs := make([]openai.ChatCompletionMessage, 0, len(s.messages)+1)
	msgs = append(msgs, s.messages...)
	msgs = append(msgs, user)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    msgs,
		Temperature: s.temperature,
	})
	if err != nil {
		log.Printf("ERROR: %s call failed: %v", s.name, err)
		return "", normalize(s.name, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("WARN: %s returned empty response, usage: %+v", s.name, resp.Usage)
		return "", ErrEmptyResponse
	}

	reply := resp.Choices[0].Message.Content
	s.messages = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	return reply, nil
}
