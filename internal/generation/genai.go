package generation

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GenAIBackend serves models from the Gemini API.
type GenAIBackend struct {
	client *genai.Client
	config *genai.GenerateContentConfig
}

// NewGenAIBackend builds a Gemini API client authenticated by apiKey.
func NewGenAIBackend(ctx context.Context, apiKey string, httpTimeout time.Duration) (*GenAIBackend, error) {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: httpTimeout},
	})
	if err != nil {
		return nil, err
	}
	return &GenAIBackend{
		client: client,
		config: &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.7)},
	}, nil
}

// Model returns a handle for the named model.
func (b *GenAIBackend) Model(name string) (Model, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("model name is empty")
	}
	return &genaiModel{backend: b, name: name}, nil
}

type genaiModel struct {
	backend *GenAIBackend
	name    string
}

func (m *genaiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.backend.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), m.backend.config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
