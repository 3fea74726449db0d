package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
)

// OllamaProvider talks to the Ollama chat API
type OllamaProvider struct {
	host       string
	model      string
	httpClient *http.Client
	logger     arbor.ILogger
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

// APIError represents a non-200 reply from a provider
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("LLM API error: %s (status %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// NewOllamaProvider creates an Ollama provider. Host and model are required.
func NewOllamaProvider(cfg *common.OllamaConfig, logger arbor.ILogger) (*OllamaProvider, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("ollama host is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	return &OllamaProvider{
		host:  strings.TrimRight(cfg.Host, "/"),
		model: cfg.Model,
		// Deadline comes from the caller's context
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

func (p *OllamaProvider) GenerateContent(ctx context.Context, request *ContentRequest) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: request.SystemInstruction},
			{Role: "user", Content: request.Prompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := p.host + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	p.logger.Debug().
		Str("url", endpoint).
		Str("model", p.model).
		Msg("Ollama chat request")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			Endpoint:   "/api/chat",
		}
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama error: %s", result.Error)
	}

	return result.Message.Content, nil
}

func (p *OllamaProvider) GetProviderType() ProviderType { return ProviderOllama }
func (p *OllamaProvider) Model() string                 { return p.model }
func (p *OllamaProvider) Host() string                  { return p.host }
