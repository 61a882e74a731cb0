package ai

import (
	"context"
	"errors"
	"log"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend is a thin wrapper around the official genai client. Each
// session is a genai chat, which keeps the turn history on the client side.
type GeminiBackend struct {
	cli   *genai.Client
	model string
}

// GeminiConfig configures NewGeminiBackend. BaseURL is only set when talking
// to a proxy or a test server.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewGeminiBackend(ctx context.Context, cfg GeminiConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &GeminiBackend{cli: cli, model: cfg.Model}, nil
}

func (g *GeminiBackend) Name() string { return "Gemini:" + g.model }

func (g *GeminiBackend) StartSession(systemInstruction string, creativity float64) (Session, error) {
	chat, err := g.cli.Chats.Create(context.Background(), g.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, ""),
		Temperature:       genai.Ptr(float32(creativity)),
	}, nil)
	if err != nil {
		return nil, normalize(g.Name(), err)
	}
	return &geminiSession{name: g.Name(), chat: chat}, nil
}

type geminiSession struct {
	name string
	chat *genai.Chat
}

func (s *geminiSession) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		log.Printf("ERROR: %s call failed: %v", s.name, err)
		return "", normalize(s.name, err)
	}
	out := resp.Text()
	if out == "" {
		log.Printf("WARN: %s returned no text (candidates: %d)", s.name, len(resp.Candidates))
		return "", ErrEmptyResponse
	}
	return out, nil
}
